package entity

import (
	"github.com/milk9111/dashrunner/ecs"
)

func NewCamera(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, "camera.yaml")
}

func NewCameraAt(w *ecs.World, x, y float64) (ecs.Entity, error) {
	return BuildEntityAt(w, "camera.yaml", x, y)
}
