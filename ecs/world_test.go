package ecs

import (
	"testing"

	"github.com/milk9111/dashrunner/ecs/component"
)

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex >= 0 {
				if !DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if IsAlive(w, ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("second DestroyEntity should return false")
				}
			}
		})
	}
}

func TestStaleHandleAfterSlotReuse(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()

	old := CreateEntity(w)
	if err := Add(w, old, kind, intPtr(1)); err != nil {
		t.Fatal(err)
	}
	DestroyEntity(w, old)

	fresh := CreateEntity(w)
	if fresh.id() != old.id() {
		t.Fatalf("expected slot reuse, got %d and %d", old.id(), fresh.id())
	}
	if fresh == old {
		t.Fatalf("expected a new generation for the reused slot")
	}
	if IsAlive(w, old) {
		t.Fatalf("stale handle must not be alive")
	}
	if Has(w, fresh, kind) {
		t.Fatalf("reused slot must not inherit components")
	}
	if err := Add(w, old, kind, intPtr(2)); err != component.ErrEntityNotAlive {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
}

func TestComponentTable(t *testing.T) {
	w := NewWorld()

	ints := component.NewComponent[int]()
	strs := component.NewComponent[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, ints.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, ints.Kind())
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
			},
			teardown: func() bool { return Remove(w, e1, ints.Kind()) },
		},
		{
			name: "add_str_to_both",
			setup: func() error {
				if err := Add(w, e1, strs.Kind(), stringPtr("a")); err != nil {
					return err
				}
				return Add(w, e2, strs.Kind(), stringPtr("b"))
			},
			check: func(t *testing.T) {
				if !Has(w, e1, strs.Kind()) || !Has(w, e2, strs.Kind()) {
					t.Fatalf("expected both entities to have string component")
				}
				got := w.Query(strs.Kind())
				if len(got) != 2 {
					t.Fatalf("expected 2 entities in query, got %v", got)
				}
			},
			teardown: func() bool { return Remove(w, e1, strs.Kind()) },
		},
		{
			name:  "replace_keeps_single_entry",
			setup: func() error { _ = Add(w, e2, ints.Kind(), intPtr(1)); return Add(w, e2, ints.Kind(), intPtr(2)) },
			check: func(t *testing.T) {
				v, _ := Get(w, e2, ints.Kind())
				if *v != 2 || len(w.Query(ints.Kind())) != 1 {
					t.Fatalf("expected replaced value 2 with one entry, got %d", *v)
				}
			},
			teardown: func() bool { return Remove(w, e2, ints.Kind()) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}
}

func TestAddRejectsNilAndInvalidKind(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)

	if err := Add(w, e, component.NewComponentKind[int](), nil); err != component.ErrNilComponent {
		t.Fatalf("expected ErrNilComponent, got %v", err)
	}
	var zero component.ComponentKind[int]
	if err := Add(w, e, zero, intPtr(1)); err != component.ErrInvalidComponentKind {
		t.Fatalf("expected ErrInvalidComponentKind, got %v", err)
	}
}

func TestQueryIntersection(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	_ = Add(w, e1, ka, intPtr(1))
	_ = Add(w, e2, ka, intPtr(2))
	_ = Add(w, e2, kb, stringPtr("x"))
	_ = Add(w, e3, kb, stringPtr("y"))

	got := w.Query(ka, kb)
	if len(got) != 1 || got[0] != e2 {
		t.Fatalf("expected only e2, got %v", got)
	}

	var visited []Entity
	ForEach2(w, ka, kb, func(e Entity, _ *int, s *string) {
		visited = append(visited, e)
		*s = "seen"
	})
	if len(visited) != 1 {
		t.Fatalf("expected ForEach2 to visit one entity, got %v", visited)
	}
	if s, _ := Get(w, e2, kb); *s != "seen" {
		t.Fatalf("expected mutation through pointer, got %q", *s)
	}

	DestroyEntity(w, e2)
	if got := w.Query(ka, kb); len(got) != 0 {
		t.Fatalf("expected empty after destroy, got %v", got)
	}
}

func TestForEachAllowsDestroy(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	for i := 0; i < 4; i++ {
		e := CreateEntity(w)
		_ = Add(w, e, h.Kind(), intPtr(i))
	}

	count := 0
	ForEach(w, h.Kind(), func(e Entity, _ *int) {
		count++
		DestroyEntity(w, e)
	})
	if count != 4 {
		t.Fatalf("expected 4 visits, got %d", count)
	}
	if _, ok := First(w, h.Kind()); ok {
		t.Fatalf("expected no entities left")
	}
}

func TestSchedulerRunsInOrder(t *testing.T) {
	var order []int
	s := NewScheduler(
		SystemFunc(func(*World) { order = append(order, 1) }),
		nil,
		SystemFunc(func(*World) { order = append(order, 2) }),
	)
	s.Add(SystemFunc(func(*World) { order = append(order, 3) }))
	s.Update(NewWorld())

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("unexpected order %v", order)
	}
	if len(s.Systems()) != 3 {
		t.Fatalf("expected 3 systems, got %d", len(s.Systems()))
	}
}

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}
