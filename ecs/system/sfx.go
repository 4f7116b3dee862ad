package system

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/milk9111/dashrunner/common"
	"github.com/milk9111/dashrunner/ecs"
	"github.com/milk9111/dashrunner/ecs/component"
)

// SoundOutput plays a buffered clip once. *assets.Speaker satisfies it.
type SoundOutput interface {
	PlayOneShot(buf *beep.Buffer, pitch, volume float64) error
}

// SFXSystem plays queued one-shot sounds with a randomized pitch.
type SFXSystem struct {
	out SoundOutput
	rng *rand.Rand
	log *log.Logger
}

func NewSFXSystem(out SoundOutput, rng *rand.Rand, logger *log.Logger) *SFXSystem {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &SFXSystem{out: out, rng: rng, log: logger}
}

// PlaySFX queues clip on e at its natural pitch.
func PlaySFX(w *ecs.World, e ecs.Entity, clip string) {
	PlaySFXPitched(w, e, clip, 1, 1)
}

// PlaySFXPitched queues clip on e with a pitch drawn from [minPitch, maxPitch].
// Entities without a sound source are skipped.
func PlaySFXPitched(w *ecs.World, e ecs.Entity, clip string, minPitch, maxPitch float64) {
	if clip == "" {
		return
	}
	src, ok := ecs.Get(w, e, component.SFXComponent.Kind())
	if !ok {
		return
	}
	src.Pending = append(src.Pending, component.SFXRequest{Clip: clip, MinPitch: minPitch, MaxPitch: maxPitch})
}

func (s *SFXSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	ecs.ForEach(w, component.SFXComponent.Kind(), func(e ecs.Entity, src *component.SFX) {
		pending := src.Pending
		src.Pending = nil
		for _, req := range pending {
			s.play(e, src, req)
		}
	})
}

func (s *SFXSystem) play(e ecs.Entity, src *component.SFX, req component.SFXRequest) {
	clip := src.Clips[req.Clip]
	if clip == nil || clip.Buffer == nil || s.out == nil {
		if s.log != nil {
			s.log.Debug("sfx skipped", "entity", e, "clip", req.Clip)
		}
		return
	}

	minPitch, maxPitch := req.MinPitch, req.MaxPitch
	if minPitch == 0 && maxPitch == 0 {
		minPitch, maxPitch = 1, 1
	}
	pitch := common.RandRange(s.rng, minPitch, maxPitch)

	volume := src.Volume
	if clip.Volume > 0 {
		volume *= clip.Volume
	}

	if err := s.out.PlayOneShot(clip.Buffer, pitch, volume); err != nil && s.log != nil {
		s.log.Warn("sfx playback failed", "clip", req.Clip, "err", err)
	}
}
