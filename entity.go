package ecs

// entityRegistry allocates entity identifiers and owns each entity's component
// store. Identifiers are monotonic and never recycled, so a missing map entry
// always means the entity was never created or has been destroyed; stale
// handles cannot collide with live ones.
//
// All access is confined to the engine's control goroutine.
type entityRegistry struct {
	next   EntityID
	stores map[EntityID]map[ComponentTypeID]Component
	order  []EntityID // creation order, for deterministic full scans
}

func newEntityRegistry() *entityRegistry {
	return &entityRegistry{
		stores: make(map[EntityID]map[ComponentTypeID]Component),
	}
}

// create issues a fresh entity identifier with an empty component store.
func (r *entityRegistry) create() EntityID {
	r.next++
	id := r.next
	r.stores[id] = make(map[ComponentTypeID]Component)
	r.order = append(r.order, id)
	return id
}

// contains reports whether the identifier refers to a live entity.
func (r *entityRegistry) contains(id EntityID) bool {
	_, ok := r.stores[id]
	return ok
}

// store returns the entity's component store for mutation.
func (r *entityRegistry) store(id EntityID) (map[ComponentTypeID]Component, bool) {
	s, ok := r.stores[id]
	return s, ok
}

// remove drops the entity and its components, reporting whether it was live.
func (r *entityRegistry) remove(id EntityID) bool {
	if _, ok := r.stores[id]; !ok {
		return false
	}
	delete(r.stores, id)
	for i, e := range r.order {
		if e == id {
			copy(r.order[i:], r.order[i+1:])
			r.order = r.order[:len(r.order)-1]
			break
		}
	}
	return true
}

// count returns the number of live entities.
func (r *entityRegistry) count() int {
	return len(r.stores)
}

// each visits live entities in creation order. Returning false stops the walk.
func (r *entityRegistry) each(fn func(EntityID, map[ComponentTypeID]Component) bool) {
	for _, id := range r.order {
		if !fn(id, r.stores[id]) {
			return
		}
	}
}
