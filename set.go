package ecs

// entitySet is an insertion-ordered set of entity identifiers. Membership
// sets preserve order so that snapshots handed to systems are deterministic.
type entitySet struct {
	index map[EntityID]int
	ids   []EntityID
}

func newEntitySet() *entitySet {
	return &entitySet{index: make(map[EntityID]int)}
}

func (s *entitySet) Len() int {
	return len(s.ids)
}

func (s *entitySet) Contains(id EntityID) bool {
	_, ok := s.index[id]
	return ok
}

// Add inserts the identifier, reporting whether it was newly added.
func (s *entitySet) Add(id EntityID) bool {
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
	return true
}

// Remove deletes the identifier while preserving the order of the remainder.
func (s *entitySet) Remove(id EntityID) bool {
	pos, ok := s.index[id]
	if !ok {
		return false
	}
	delete(s.index, id)
	copy(s.ids[pos:], s.ids[pos+1:])
	s.ids = s.ids[:len(s.ids)-1]
	for i := pos; i < len(s.ids); i++ {
		s.index[s.ids[i]] = i
	}
	return true
}

// Snapshot returns a copy of the set's contents. The copy stays valid while
// the underlying set mutates, which is what systems iterate during an update.
func (s *entitySet) Snapshot() []EntityID {
	if len(s.ids) == 0 {
		return nil
	}
	out := make([]EntityID, len(s.ids))
	copy(out, s.ids)
	return out
}
