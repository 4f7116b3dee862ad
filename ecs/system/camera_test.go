package system

import (
	"testing"

	"github.com/milk9111/dashrunner/ecs"
	"github.com/milk9111/dashrunner/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCameraWorld(t *testing.T, stopperX float64) (*ecs.World, *component.Transform, *component.Transform, *component.CameraFollow) {
	t.Helper()
	w := ecs.NewWorld()

	player := ecs.CreateEntity(w)
	target := &component.Transform{X: 64, Y: 320}
	mustAdd(t, w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	mustAdd(t, w, player, component.TransformComponent.Kind(), target)

	stopper := ecs.CreateEntity(w)
	mustAdd(t, w, stopper, component.StopperTagComponent.Kind(), &component.StopperTag{})
	mustAdd(t, w, stopper, component.NameComponent.Kind(), &component.Name{Value: "stopper"})
	mustAdd(t, w, stopper, component.TransformComponent.Kind(), &component.Transform{X: stopperX, Y: 360})

	cam := ecs.CreateEntity(w)
	camTransform := &component.Transform{X: 640, Y: 360}
	follow := &component.CameraFollow{TargetName: "player", StopperName: "stopper", OffsetX: 64, SmoothTime: 0.15, Zoom: 1}
	mustAdd(t, w, cam, component.CameraTagComponent.Kind(), &component.CameraTag{})
	mustAdd(t, w, cam, component.TransformComponent.Kind(), camTransform)
	mustAdd(t, w, cam, component.CameraFollowComponent.Kind(), follow)

	return w, target, camTransform, follow
}

func TestCameraFollowsTargetAtFixedHeight(t *testing.T) {
	w, target, cam, _ := newCameraWorld(t, 10000)
	cs := NewCameraSystem()

	target.X = 2000
	target.Y = 100
	for i := 0; i < 240; i++ {
		cs.Update(w)
	}

	assert.InDelta(t, 2064, cam.X, 1)
	assert.InDelta(t, 360, cam.Y, 1e-9)
}

func TestCameraNeverPassesStopper(t *testing.T) {
	const stopperX = 1200.0
	w, target, cam, _ := newCameraWorld(t, stopperX)
	cs := NewCameraSystem()

	for i := 0; i < 600; i++ {
		target.X += 6
		cs.Update(w)
		require.LessOrEqual(t, cam.X, stopperX, "tick %d", i)
	}
	assert.InDelta(t, stopperX, cam.X, 1)
}

func TestCameraStopperFallsBackToTag(t *testing.T) {
	w, target, cam, follow := newCameraWorld(t, 800)
	follow.StopperName = "renamed"
	cs := NewCameraSystem()

	target.X = 5000
	for i := 0; i < 300; i++ {
		cs.Update(w)
	}
	assert.InDelta(t, 800, cam.X, 1)
}

func TestCameraWithoutStopperIsUnbounded(t *testing.T) {
	w, target, cam, follow := newCameraWorld(t, 800)
	follow.StopperName = ""
	cs := NewCameraSystem()

	target.X = 5000
	for i := 0; i < 300; i++ {
		cs.Update(w)
	}
	assert.InDelta(t, 5064, cam.X, 1)
}

func TestCameraWithoutTargetHolds(t *testing.T) {
	w, _, cam, follow := newCameraWorld(t, 800)
	follow.TargetName = "nobody"

	NewCameraSystem().Update(w)
	assert.Equal(t, 640.0, cam.X)
}

func TestClampToStopper(t *testing.T) {
	assert.Equal(t, 100.0, ClampToStopper(100, 200))
	assert.Equal(t, 200.0, ClampToStopper(250, 200))
	assert.Equal(t, 200.0, ClampToStopper(200, 200))
}

func TestViewToScreen(t *testing.T) {
	v := View{CamX: 500, CamY: 300, Zoom: 2, HalfW: 320, HalfH: 180}
	x, y := v.ToScreen(510, 290)
	assert.InDelta(t, 340, x, 1e-9)
	assert.InDelta(t, 160, y, 1e-9)
}
