package system

import (
	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/dashrunner/common"
	"github.com/milk9111/dashrunner/ecs"
	"github.com/milk9111/dashrunner/ecs/component"
)

const defaultRestartDelay = 2.5

// RunnerSystem is the per-frame half of the runner: pause input, the ground
// probe and jumping. It runs before physics.
type RunnerSystem struct {
	physics *PhysicsSystem
	log     *log.Logger
}

func NewRunnerSystem(physics *PhysicsSystem, logger *log.Logger) *RunnerSystem {
	return &RunnerSystem{physics: physics, log: logger}
}

func (rs *RunnerSystem) Update(w *ecs.World) {
	if rs == nil || w == nil {
		return
	}
	ecs.ForEach2(w, component.RunnerComponent.Kind(), component.RunnerStateComponent.Kind(), func(e ecs.Entity, runner *component.Runner, state *component.RunnerState) {
		if !state.Awake {
			rs.awake(w, runner, state)
		}
		if state.Dead || state.Completed {
			return
		}

		input, _ := ecs.Get(w, e, component.InputComponent.Kind())
		if input != nil && input.PausePressed {
			RequestPause(w)
		}

		if grounded, ok := rs.checkGround(w, e); ok {
			state.Grounded = grounded
		}

		if input != nil && input.JumpPressed && state.Grounded {
			rs.jump(w, e, runner, state)
		}

		state.Elapsed += common.FixedDelta
	})
}

func (rs *RunnerSystem) awake(w *ecs.World, runner *component.Runner, state *component.RunnerState) {
	state.Awake = true
	if runner.MusicTrack == "" {
		return
	}
	if _, ok := ecs.First(w, component.MusicPlayerComponent.Kind()); !ok {
		return
	}
	RequestMusic(w, runner.MusicTrack)
}

// checkGround runs the ground probe. ok is false when the entity has no probe,
// in which case Grounded keeps its last value.
func (rs *RunnerSystem) checkGround(w *ecs.World, e ecs.Entity) (grounded bool, ok bool) {
	probe, hasProbe := ecs.Get(w, e, component.GroundCheckComponent.Kind())
	transform, hasTransform := ecs.Get(w, e, component.TransformComponent.Kind())
	if !hasProbe || !hasTransform {
		return false, false
	}
	center := cp.Vector{X: transform.X + probe.OffsetX, Y: transform.Y + probe.OffsetY}
	return rs.physics.OverlapCircle(center, probe.Radius, probe.Mask), true
}

func (rs *RunnerSystem) jump(w *ecs.World, e ecs.Entity, runner *component.Runner, state *component.RunnerState) {
	body := bodyOf(w, e)
	if body == nil {
		return
	}
	v := body.Velocity()
	body.SetVelocity(v.X, -runner.JumpForce)
	state.Jumps++
	PlaySFXPitched(w, e, component.ClipJump, runner.JumpPitch.Min, runner.JumpPitch.Max)
}

// RunnerMotionSystem drives the runner forward each physics tick.
type RunnerMotionSystem struct{}

func NewRunnerMotionSystem() *RunnerMotionSystem {
	return &RunnerMotionSystem{}
}

// Update sets horizontal velocity to the run speed and keeps vertical
// velocity. Dead runners are left alone; a runner that completed the level
// keeps running.
func (m *RunnerMotionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.RunnerComponent.Kind(), component.RunnerStateComponent.Kind(), func(e ecs.Entity, runner *component.Runner, state *component.RunnerState) {
		if state.Dead {
			return
		}
		body := bodyOf(w, e)
		if body == nil {
			return
		}
		body.SetVelocity(runner.MoveSpeed, body.Velocity().Y)
	})
}

// Die ends the runner's life. It is a no-op once the runner is dead or has
// completed the level.
func Die(w *ecs.World, e ecs.Entity) bool {
	runner, ok := ecs.Get(w, e, component.RunnerComponent.Kind())
	if !ok {
		return false
	}
	state, ok := ecs.Get(w, e, component.RunnerStateComponent.Kind())
	if !ok || state.Dead || state.Completed {
		return false
	}

	state.Dead = true
	if body := bodyOf(w, e); body != nil {
		body.SetVelocity(0, 0)
	}
	StopMusic(w)
	PlaySFXPitched(w, e, component.ClipDeath, runner.DeathPitch.Min, runner.DeathPitch.Max)

	delay := runner.RestartDelay
	if delay <= 0 {
		delay = defaultRestartDelay
	}
	state.RestartIn = delay
	emitRunEvent(w, component.RunOutcomeDeath, state.Elapsed)
	return true
}

// CompleteLevel marks the level as finished. It is a no-op once the runner is
// dead or has already completed.
func CompleteLevel(w *ecs.World, e ecs.Entity) bool {
	state, ok := ecs.Get(w, e, component.RunnerStateComponent.Kind())
	if !ok || state.Dead || state.Completed {
		return false
	}

	state.Completed = true
	if body := bodyOf(w, e); body != nil {
		body.SetVelocity(0, 0)
	}
	StopMusic(w)
	emitRunEvent(w, component.RunOutcomeComplete, state.Elapsed)
	return true
}

// RestartLevel reloads the active level.
func RestartLevel(w *ecs.World) {
	RequestReload(w, "restart")
}

// RestartSystem counts down a dead runner's restart delay.
type RestartSystem struct{}

func NewRestartSystem() *RestartSystem {
	return &RestartSystem{}
}

func (r *RestartSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.RunnerStateComponent.Kind(), func(_ ecs.Entity, state *component.RunnerState) {
		if !state.Dead || state.RestartIn <= 0 {
			return
		}
		state.RestartIn -= common.FixedDelta
		if state.RestartIn <= 0 {
			state.RestartIn = 0
			RequestReload(w, "death")
		}
	})
}
