package component

// Input stores per-frame input state for an entity.
type Input struct {
	Jump         bool
	JumpPressed  bool
	PausePressed bool
}

var InputComponent = NewComponent[Input]()
