package assets

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"gopkg.in/yaml.v3"
)

// SampleRate is shared by synthesized clips and the ebiten audio context.
const SampleRate = beep.SampleRate(44100)

// ClipRecipe describes a procedurally generated one-shot sound.
type ClipRecipe struct {
	Wave      string  `yaml:"wave"`
	StartFreq float64 `yaml:"start_freq"`
	EndFreq   float64 `yaml:"end_freq"`
	Duration  int     `yaml:"duration_ms"`
	Attack    int     `yaml:"attack_ms"`
	Release   int     `yaml:"release_ms"`
	Volume    float64 `yaml:"volume"`
}

// TrackRecipe describes a looping procedural music track.
type TrackRecipe struct {
	BPM    float64      `yaml:"bpm"`
	Volume float64      `yaml:"volume"`
	Lead   []NoteRecipe `yaml:"lead"`
	Bass   []NoteRecipe `yaml:"bass"`
}

// NoteRecipe is one note; a zero Freq is a rest.
type NoteRecipe struct {
	Freq  float64 `yaml:"freq"`
	Beats float64 `yaml:"beats"`
}

type synthBank struct {
	Clips  map[string]ClipRecipe  `yaml:"clips"`
	Tracks map[string]TrackRecipe `yaml:"tracks"`
}

var (
	bankOnce sync.Once
	bank     synthBank
	bankErr  error
)

func loadBank() (synthBank, error) {
	bankOnce.Do(func() {
		var merged synthBank
		for _, name := range []string{"sfx.yaml", "music.yaml"} {
			data, err := LoadFile(name)
			if err != nil {
				bankErr = fmt.Errorf("assets: load %s: %w", name, err)
				return
			}
			var part synthBank
			if err := yaml.Unmarshal(data, &part); err != nil {
				bankErr = fmt.Errorf("assets: unmarshal %s: %w", name, err)
				return
			}
			if merged.Clips == nil {
				merged.Clips = part.Clips
			}
			if merged.Tracks == nil {
				merged.Tracks = part.Tracks
			}
		}
		bank = merged
	})
	return bank, bankErr
}

// ClipStreamer builds the streamer for a clip recipe.
func ClipStreamer(r ClipRecipe) (beep.Streamer, error) {
	if r.Duration <= 0 {
		return nil, fmt.Errorf("clip duration must be positive")
	}
	duration := time.Duration(r.Duration) * time.Millisecond
	osc, err := newSweep(r.Wave, r.StartFreq, r.EndFreq, duration)
	if err != nil {
		return nil, err
	}
	shaped := newEnvelope(osc, duration, time.Duration(r.Attack)*time.Millisecond, time.Duration(r.Release)*time.Millisecond)
	return withVolume(shaped, defaultVolume(r.Volume)), nil
}

// TrackStreamer builds one pass of a music recipe; callers loop it.
func TrackStreamer(r TrackRecipe) (beep.Streamer, error) {
	if r.BPM <= 0 {
		return nil, fmt.Errorf("track bpm must be positive")
	}
	beat := time.Duration(float64(time.Minute) / r.BPM)

	voice := func(notes []NoteRecipe, level float64) (beep.Streamer, error) {
		parts := make([]beep.Streamer, 0, len(notes))
		for _, n := range notes {
			d := time.Duration(n.Beats * float64(beat))
			samples := SampleRate.N(d)
			if n.Freq <= 0 {
				parts = append(parts, beep.Silence(samples))
				continue
			}
			tone, err := generators.SineTone(SampleRate, n.Freq)
			if err != nil {
				return nil, fmt.Errorf("note %.1fHz: %w", n.Freq, err)
			}
			note := newEnvelope(beep.Take(samples, tone), d, 10*time.Millisecond, d/3)
			parts = append(parts, withVolume(note, level))
		}
		return beep.Seq(parts...), nil
	}

	lead, err := voice(r.Lead, 0.6)
	if err != nil {
		return nil, fmt.Errorf("lead: %w", err)
	}
	bass, err := voice(r.Bass, 0.4)
	if err != nil {
		return nil, fmt.Errorf("bass: %w", err)
	}
	return withVolume(beep.Mix(lead, bass), defaultVolume(r.Volume)), nil
}

// sweep is an oscillator whose frequency moves linearly from start to end.
type sweep struct {
	wave     string
	start    float64
	end      float64
	phase    float64
	position int
	total    int
}

func newSweep(wave string, start, end float64, d time.Duration) (*sweep, error) {
	wave = strings.ToLower(strings.TrimSpace(wave))
	switch wave {
	case "sine", "square", "saw", "noise":
	case "":
		wave = "sine"
	default:
		return nil, fmt.Errorf("unknown wave %q", wave)
	}
	if end <= 0 {
		end = start
	}
	return &sweep{wave: wave, start: start, end: end, total: SampleRate.N(d)}, nil
}

func (s *sweep) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if s.position >= s.total {
			return i, i > 0
		}
		var v float64
		switch s.wave {
		case "sine":
			v = math.Sin(2 * math.Pi * s.phase)
		case "square":
			v = 1
			if s.phase >= 0.5 {
				v = -1
			}
		case "saw":
			v = 2 * (s.phase - 0.5)
		case "noise":
			v = rand.Float64()*2 - 1
		}
		samples[i][0] = v
		samples[i][1] = v

		t := float64(s.position) / float64(s.total)
		freq := s.start + (s.end-s.start)*t
		s.phase += freq / float64(SampleRate)
		s.phase -= math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// envelope applies a linear attack and release to a finite streamer.
type envelope struct {
	streamer beep.Streamer
	total    int
	attack   int
	release  int
	position int
}

func newEnvelope(s beep.Streamer, d, attack, release time.Duration) beep.Streamer {
	return &envelope{
		streamer: s,
		total:    SampleRate.N(d),
		attack:   SampleRate.N(attack),
		release:  SampleRate.N(release),
	}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1.0
		if e.attack > 0 && e.position < e.attack {
			gain = float64(e.position) / float64(e.attack)
		}
		if remaining := e.total - e.position; e.release > 0 && remaining < e.release {
			gain *= math.Max(0, float64(remaining)/float64(e.release))
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

func defaultVolume(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// withVolume scales linear volume; log2(0) is -Inf so 0 means silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

func msDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
