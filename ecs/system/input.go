package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/dashrunner/ecs"
	"github.com/milk9111/dashrunner/ecs/component"
)

// InputSystem copies this frame's device state into every Input component.
type InputSystem struct {
	poll    func() component.Input
	touches []ebiten.TouchID
}

func NewInputSystem() *InputSystem {
	is := &InputSystem{}
	is.poll = is.pollDevices
	return is
}

// NewInputSystemWithSource reads input from poll instead of the devices.
func NewInputSystemWithSource(poll func() component.Input) *InputSystem {
	return &InputSystem{poll: poll}
}

func (i *InputSystem) Update(w *ecs.World) {
	if i == nil || w == nil || i.poll == nil {
		return
	}
	state := i.poll()
	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, input *component.Input) {
		*input = state
	})
}

func (i *InputSystem) pollDevices() component.Input {
	jump := ebiten.IsKeyPressed(ebiten.KeySpace) ||
		ebiten.IsKeyPressed(ebiten.KeyW) ||
		ebiten.IsKeyPressed(ebiten.KeyArrowUp) ||
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	jumpPressed := inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyW) ||
		inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	pausePressed := inpututil.IsKeyJustPressed(ebiten.KeyEscape)

	i.touches = inpututil.AppendJustPressedTouchIDs(i.touches[:0])
	if len(i.touches) > 0 {
		jumpPressed = true
	}
	if len(ebiten.AppendTouchIDs(nil)) > 0 {
		jump = true
	}

	for _, id := range ebiten.AppendGamepadIDs(nil) {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		jump = jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		jumpPressed = jumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		pausePressed = pausePressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight)
	}

	return component.Input{
		Jump:         jump,
		JumpPressed:  jumpPressed,
		PausePressed: pausePressed,
	}
}
