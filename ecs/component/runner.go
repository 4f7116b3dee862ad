package component

// Runner holds the designer-tunable parameters of the auto-running player.
// Speeds are in pixels per second.
type Runner struct {
	MoveSpeed    float64
	JumpForce    float64
	RestartDelay float64
	MusicTrack   string

	JumpPitch  PitchRange
	LandPitch  PitchRange
	DeathPitch PitchRange
}

var RunnerComponent = NewComponent[Runner]()

// PitchRange bounds the random pitch of a one-shot sound.
type PitchRange struct {
	Min float64
	Max float64
}

// RunnerState is the transient per-life state. Dead and Completed are
// terminal until the level reloads.
type RunnerState struct {
	Awake     bool
	Grounded  bool
	Dead      bool
	Completed bool

	RestartIn float64
	Elapsed   float64
	Jumps     int
}

var RunnerStateComponent = NewComponent[RunnerState]()

// GroundCheck is a circle probe relative to the body center. Mask selects
// the collision categories that count as ground.
type GroundCheck struct {
	OffsetX float64
	OffsetY float64
	Radius  float64
	Mask    uint
}

var GroundCheckComponent = NewComponent[GroundCheck]()

// ContactScript points at a tengo script that maps contact tags to actions.
type ContactScript struct {
	Path string
}

var ContactScriptComponent = NewComponent[ContactScript]()
