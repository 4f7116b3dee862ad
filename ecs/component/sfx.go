package component

import "github.com/gopxl/beep"

// Clip is a decoded sound held in memory.
type Clip struct {
	Name   string
	Buffer *beep.Buffer
	Volume float64
}

// SFX is the sound source of an entity. Requests are queued by gameplay
// systems and drained by the SFX system. Volume scales every clip; zero is
// silent.
type SFX struct {
	Clips   map[string]*Clip
	Volume  float64
	Pending []SFXRequest
}

// SFXRequest plays Clip once with a pitch drawn from [MinPitch, MaxPitch].
type SFXRequest struct {
	Clip     string
	MinPitch float64
	MaxPitch float64
}

var SFXComponent = NewComponent[SFX]()

// Clip names the runner plays.
const (
	ClipJump  = "jump"
	ClipLand  = "land"
	ClipDeath = "death"
)
