package ecs

// SparseSet stores one component type keyed by entity slot id. Dense order is
// insertion order with swap-remove, which keeps iteration cache-friendly.
type SparseSet struct {
	denseEntities []Entity
	denseValues   []any
	sparse        []int
}

// Has returns true if the entity has a value in the set.
func (s *SparseSet) Has(e Entity) bool {
	idx, ok := s.index(e)
	return ok && idx >= 0
}

func (s *SparseSet) index(e Entity) (int, bool) {
	if s == nil {
		return -1, false
	}
	id := int(e.id())
	if id <= 0 || id-1 >= len(s.sparse) {
		return -1, false
	}
	idx := s.sparse[id-1]
	if idx < 0 || idx >= len(s.denseEntities) || s.denseEntities[idx] != e {
		return -1, false
	}
	return idx, true
}

// Get returns the value for e, or nil.
func (s *SparseSet) Get(e Entity) any {
	idx, ok := s.index(e)
	if !ok {
		return nil
	}
	return s.denseValues[idx]
}

// Set inserts or replaces the value for e.
func (s *SparseSet) Set(e Entity, v any) {
	if s == nil || !e.Valid() {
		return
	}
	if idx, ok := s.index(e); ok {
		s.denseValues[idx] = v
		return
	}
	id := int(e.id())
	for id-1 >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	s.denseEntities = append(s.denseEntities, e)
	s.denseValues = append(s.denseValues, v)
	s.sparse[id-1] = len(s.denseEntities) - 1
}

// Remove deletes the value for e if present.
func (s *SparseSet) Remove(e Entity) bool {
	idx, ok := s.index(e)
	if !ok {
		return false
	}
	last := len(s.denseEntities) - 1
	lastEntity := s.denseEntities[last]

	s.denseEntities[idx] = lastEntity
	s.denseValues[idx] = s.denseValues[last]
	s.sparse[int(lastEntity.id())-1] = idx

	s.denseEntities = s.denseEntities[:last]
	s.denseValues[last] = nil
	s.denseValues = s.denseValues[:last]
	s.sparse[int(e.id())-1] = -1
	return true
}

// Len returns the number of stored values.
func (s *SparseSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.denseEntities)
}

// Entities returns a copy of the dense entity list.
func (s *SparseSet) Entities() []Entity {
	if s == nil {
		return nil
	}
	return append([]Entity(nil), s.denseEntities...)
}
