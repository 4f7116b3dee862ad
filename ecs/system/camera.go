package system

import (
	"math"

	"github.com/milk9111/dashrunner/common"
	"github.com/milk9111/dashrunner/ecs"
	"github.com/milk9111/dashrunner/ecs/component"
)

// CameraSystem eases each following camera toward its target after physics
// has moved everything. The camera Transform is the view center.
type CameraSystem struct{}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.CameraFollowComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, follow *component.CameraFollow, camTransform *component.Transform) {
		if !follow.Initialized {
			follow.FixedY = camTransform.Y
			follow.Initialized = true
		}

		target := findEntityByName(w, follow.TargetName)
		targetTransform, ok := ecs.Get(w, target, component.TransformComponent.Kind())
		if !ok {
			return
		}

		desiredX := targetTransform.X + follow.OffsetX
		if stopper, ok := findStopper(w, follow.StopperName); ok {
			desiredX = ClampToStopper(desiredX, stopper.X)
		}

		camTransform.X, camTransform.Y = common.SmoothDamp2(
			camTransform.X, camTransform.Y,
			desiredX, follow.FixedY,
			&follow.VelocityX, &follow.VelocityY,
			follow.SmoothTime, common.FixedDelta,
		)
	})
}

// ClampToStopper keeps the camera's desired X at or left of the stopper.
func ClampToStopper(desiredX, stopperX float64) float64 {
	return math.Min(desiredX, stopperX)
}

// findStopper resolves the stopper by name, falling back to the entity tagged
// as stopper. An empty name means the camera has no stopper.
func findStopper(w *ecs.World, name string) (*component.Transform, bool) {
	if name == "" {
		return nil, false
	}
	e := findEntityByName(w, name)
	if !e.Valid() {
		var ok bool
		if e, ok = ecs.First(w, component.StopperTagComponent.Kind()); !ok {
			return nil, false
		}
	}
	return ecs.Get(w, e, component.TransformComponent.Kind())
}

// findEntityByName resolves a prefab reference. "player" also matches the
// entity carrying PlayerTag.
func findEntityByName(w *ecs.World, name string) ecs.Entity {
	if name == "" {
		return 0
	}
	var found ecs.Entity
	ecs.ForEach(w, component.NameComponent.Kind(), func(e ecs.Entity, n *component.Name) {
		if !found.Valid() && n.Value == name {
			found = e
		}
	})
	if found.Valid() {
		return found
	}
	if name == "player" {
		if e, ok := ecs.First(w, component.PlayerTagComponent.Kind()); ok {
			return e
		}
	}
	return 0
}
