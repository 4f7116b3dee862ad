package entity

import (
	"github.com/milk9111/dashrunner/ecs"
	"github.com/milk9111/dashrunner/ecs/component"
)

func NewPlayer(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, "player.yaml")
}

func NewPlayerAt(w *ecs.World, x, y float64) (ecs.Entity, error) {
	return BuildEntityAt(w, "player.yaml", x, y)
}

// FindPlayer returns the entity carrying PlayerTag.
func FindPlayer(w *ecs.World) (ecs.Entity, bool) {
	if w == nil {
		return 0, false
	}
	return ecs.First(w, component.PlayerTagComponent.Kind())
}
