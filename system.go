package ecs

// systemState pairs a registered system with its cached membership set.
type systemState struct {
	system   System
	name     string
	requires map[ComponentTypeID]struct{}
	runEvery TickInterval
	members  *entitySet
}

// accepts reports whether the component store covers the required set.
func (s *systemState) accepts(store map[ComponentTypeID]Component) bool {
	for t := range s.requires {
		if _, ok := store[t]; !ok {
			return false
		}
	}
	return true
}

type systemHandle struct {
	state *systemState
}

func (h systemHandle) Name() string {
	return h.state.name
}

// systemRegistry holds active systems in registration order and keeps their
// membership sets consistent with the entity registry.
type systemRegistry struct {
	states []*systemState
}

func newSystemRegistry() *systemRegistry {
	return &systemRegistry{}
}

// add registers the system and populates its membership with a full scan over
// the existing entities, in creation order.
func (r *systemRegistry) add(sys System, entities *entityRegistry) SystemHandle {
	desc := sys.Descriptor()
	name := desc.Name
	if name == "" {
		name = "<unnamed>"
	}
	requires := make(map[ComponentTypeID]struct{}, len(desc.Requires))
	for _, t := range desc.Requires {
		requires[t] = struct{}{}
	}
	state := &systemState{
		system:   sys,
		name:     name,
		requires: requires,
		runEvery: desc.RunEvery,
		members:  newEntitySet(),
	}
	entities.each(func(id EntityID, store map[ComponentTypeID]Component) bool {
		if state.accepts(store) {
			state.members.Add(id)
		}
		return true
	})
	r.states = append(r.states, state)
	return systemHandle{state: state}
}

// remove deregisters the handle's system and discards its membership set.
// Unknown handles are a no-op.
func (r *systemRegistry) remove(h SystemHandle) {
	sh, ok := h.(systemHandle)
	if !ok {
		return
	}
	for i, state := range r.states {
		if state == sh.state {
			copy(r.states[i:], r.states[i+1:])
			r.states[len(r.states)-1] = nil
			r.states = r.states[:len(r.states)-1]
			return
		}
	}
}

// recompute re-tests one entity against every system after a component
// mutation. Linear in systems times required-set size; mutation is assumed far
// rarer per entity than per-frame execution.
func (r *systemRegistry) recompute(id EntityID, store map[ComponentTypeID]Component) {
	for _, state := range r.states {
		if state.accepts(store) {
			state.members.Add(id)
		} else {
			state.members.Remove(id)
		}
	}
}

// drop removes a destroyed entity from every membership set.
func (r *systemRegistry) drop(id EntityID) {
	for _, state := range r.states {
		state.members.Remove(id)
	}
}

// ordered returns the registration-order snapshot driven during an update.
func (r *systemRegistry) ordered() []*systemState {
	return append([]*systemState(nil), r.states...)
}
