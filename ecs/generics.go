package ecs

import "github.com/milk9111/dashrunner/ecs/component"

func CreateEntity(w *World) Entity {
	return w.CreateEntity()
}

func DestroyEntity(w *World, e Entity) bool {
	return w.DestroyEntity(e)
}

func IsAlive(w *World, e Entity) bool {
	return w.IsAlive(e)
}

func Entities(w *World) []Entity {
	return w.Entities()
}

// Add attaches value to e, replacing any previous value of the same kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if value == nil {
		return component.ErrNilComponent
	}
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	return w.addComponent(e, kind.ID(), value)
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	return w.removeComponent(e, kind.ID())
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	_, ok := w.getComponent(e, kind.ID())
	return ok
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	value, ok := w.getComponent(e, kind.ID())
	if !ok {
		return nil, false
	}
	cast, ok := value.(*T)
	return cast, ok
}

func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	return w.First(kind)
}

// ForEach visits every entity carrying kind. It iterates over a snapshot, so
// fn may add or remove components and destroy entities.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	if w == nil || fn == nil {
		return
	}
	store := w.store(kind.ID(), false)
	if store == nil {
		return
	}
	for _, e := range store.Entities() {
		v, ok := Get(w, e, kind)
		if !ok {
			continue
		}
		fn(e, v)
	}
}

// ForEach2 visits entities carrying both kinds.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	if w == nil || fn == nil {
		return
	}
	for _, e := range w.Query(ka, kb) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		if !okA || !okB {
			continue
		}
		fn(e, a, b)
	}
}
