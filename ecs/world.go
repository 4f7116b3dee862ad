package ecs

import "github.com/milk9111/dashrunner/ecs/component"

// World owns entities and their component stores.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and frees its slot.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, store := range w.stores {
		store.Remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns all live entities in slot order.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

// First returns any entity carrying the given component kind.
func (w *World) First(kind component.Kind) (Entity, bool) {
	store := w.store(kind.ID(), false)
	if store == nil || store.Len() == 0 {
		return 0, false
	}
	return store.denseEntities[0], true
}

// Query returns the entities that carry every listed component kind. The
// smallest store drives iteration so the result follows its dense order.
func (w *World) Query(kinds ...component.Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	stores := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.store(k.ID(), false)
		if s == nil || s.Len() == 0 {
			return nil
		}
		stores = append(stores, s)
	}
	driver := stores[0]
	for _, s := range stores[1:] {
		if s.Len() < driver.Len() {
			driver = s
		}
	}

	out := make([]Entity, 0, driver.Len())
	for _, e := range driver.denseEntities {
		match := true
		for _, s := range stores {
			if s != driver && !s.Has(e) {
				match = false
				break
			}
		}
		if match {
			out = append(out, e)
		}
	}
	return out
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w == nil || id == 0 {
		return nil
	}
	if w.stores == nil {
		if !create {
			return nil
		}
		w.stores = make(map[component.ComponentID]*SparseSet)
	}
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

func (w *World) addComponent(e Entity, id component.ComponentID, value any) error {
	if w == nil || !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if id == 0 {
		return component.ErrInvalidComponentKind
	}
	w.store(id, true).Set(e, value)
	return nil
}

func (w *World) getComponent(e Entity, id component.ComponentID) (any, bool) {
	if !w.IsAlive(e) {
		return nil, false
	}
	s := w.store(id, false)
	if s == nil {
		return nil, false
	}
	v := s.Get(e)
	return v, v != nil
}

func (w *World) removeComponent(e Entity, id component.ComponentID) bool {
	if !w.IsAlive(e) {
		return false
	}
	return w.store(id, false).Remove(e)
}
