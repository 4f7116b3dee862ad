package ecs

// entityStore tracks entity generations and free slot ids. Slot 0 is never
// handed out so the zero Entity is always invalid.
type entityStore struct {
	gens  []generation
	alive []bool
	free  []entityID
	count int
}

func (s *entityStore) create() Entity {
	var id entityID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		if len(s.gens) == 0 {
			s.gens = append(s.gens, 0)
			s.alive = append(s.alive, false)
		}
		id = entityID(len(s.gens))
		s.gens = append(s.gens, 0)
		s.alive = append(s.alive, false)
	}
	s.alive[id] = true
	s.count++
	return makeEntity(id, s.gens[id])
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	id := e.id()
	s.alive[id] = false
	s.gens[id]++
	s.free = append(s.free, id)
	s.count--
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	id := e.id()
	if id == 0 || int(id) >= len(s.gens) {
		return false
	}
	return s.alive[id] && s.gens[id] == e.generation()
}

func (s *entityStore) all() []Entity {
	out := make([]Entity, 0, s.count)
	for id := 1; id < len(s.gens); id++ {
		if s.alive[id] {
			out = append(out, makeEntity(entityID(id), s.gens[id]))
		}
	}
	return out
}
