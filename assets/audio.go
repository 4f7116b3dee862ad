package assets

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"path"
	"strings"
	"sync"

	"github.com/gopxl/beep"
	beepwav "github.com/gopxl/beep/wav"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

var (
	audioOnce    sync.Once
	audioContext *audio.Context
)

// AudioContext returns the process-wide ebiten audio context. Ebiten allows
// only one, so it is created on first use.
func AudioContext() *audio.Context {
	audioOnce.Do(func() {
		audioContext = audio.NewContext(int(SampleRate))
	})
	return audioContext
}

// LoadClip decodes a one-shot sound into memory. Names ending in .wav are read
// as files; anything else is looked up in the synth bank.
func LoadClip(name string) (*beep.Buffer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("assets: load clip: empty name")
	}

	format := beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}
	if strings.EqualFold(path.Ext(name), ".wav") {
		data, err := LoadFile(name)
		if err != nil {
			return nil, fmt.Errorf("assets: load clip %q: %w", name, err)
		}
		stream, wavFormat, err := beepwav.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("assets: decode clip %q: %w", name, err)
		}
		defer stream.Close()

		buf := beep.NewBuffer(format)
		if wavFormat.SampleRate != SampleRate {
			buf.Append(beep.Resample(4, wavFormat.SampleRate, SampleRate, stream))
		} else {
			buf.Append(stream)
		}
		return buf, nil
	}

	b, err := loadBank()
	if err != nil {
		return nil, err
	}
	recipe, ok := b.Clips[name]
	if !ok {
		return nil, fmt.Errorf("assets: unknown clip %q", name)
	}
	stream, err := ClipStreamer(recipe)
	if err != nil {
		return nil, fmt.Errorf("assets: build clip %q: %w", name, err)
	}
	buf := beep.NewBuffer(format)
	buf.Append(stream)
	return buf, nil
}

// TrackPCM renders one pass of a synth track as ebiten-native PCM.
func TrackPCM(name string) ([]byte, error) {
	b, err := loadBank()
	if err != nil {
		return nil, err
	}
	recipe, ok := b.Tracks[name]
	if !ok {
		return nil, fmt.Errorf("assets: unknown track %q", name)
	}
	stream, err := TrackStreamer(recipe)
	if err != nil {
		return nil, fmt.Errorf("assets: build track %q: %w", name, err)
	}
	return EncodePCM16(stream), nil
}

// LoadAudioPlayer creates a music player for a .wav file or a synth track.
func LoadAudioPlayer(name string) (*audio.Player, error) {
	ctx := AudioContext()
	if strings.EqualFold(path.Ext(name), ".wav") {
		data, err := LoadFile(name)
		if err != nil {
			return nil, fmt.Errorf("assets: load track %q: %w", name, err)
		}
		stream, err := wav.DecodeWithSampleRate(ctx.SampleRate(), bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("assets: decode wav %q: %w", name, err)
		}
		return ctx.NewPlayer(stream)
	}

	pcm, err := TrackPCM(name)
	if err != nil {
		return nil, err
	}
	return ctx.NewPlayerFromBytes(pcm), nil
}

// EncodePCM16 drains s into 16-bit little-endian interleaved stereo.
func EncodePCM16(s beep.Streamer) []byte {
	var out bytes.Buffer
	samples := make([][2]float64, 512)
	frame := make([]byte, 4)
	for {
		n, ok := s.Stream(samples)
		for i := 0; i < n; i++ {
			binary.LittleEndian.PutUint16(frame[0:], uint16(toInt16(samples[i][0])))
			binary.LittleEndian.PutUint16(frame[2:], uint16(toInt16(samples[i][1])))
			out.Write(frame)
		}
		if !ok {
			break
		}
	}
	return out.Bytes()
}

func toInt16(v float64) int16 {
	v = math.Max(-1, math.Min(1, v))
	return int16(v * math.MaxInt16)
}

// Speaker plays buffered clips through the ebiten audio context. Each call
// gets its own player so one-shots overlap.
type Speaker struct {
	active []*audio.Player
	gain   float64
}

func NewSpeaker() *Speaker {
	return &Speaker{gain: 1}
}

// SetGain scales every clip played afterwards. Zero mutes.
func (s *Speaker) SetGain(gain float64) {
	if s == nil {
		return
	}
	s.gain = max(gain, 0)
}

// PlayOneShot plays buf once. pitch scales playback speed, so 1.1 is both
// higher and shorter.
func (s *Speaker) PlayOneShot(buf *beep.Buffer, pitch, volume float64) error {
	if s == nil || buf == nil || buf.Len() == 0 || s.gain == 0 {
		return nil
	}
	if pitch <= 0 {
		pitch = 1
	}
	s.prune()

	var stream beep.Streamer = buf.Streamer(0, buf.Len())
	if ratio := pitch * float64(buf.Format().SampleRate) / float64(SampleRate); ratio != 1 {
		stream = beep.ResampleRatio(4, ratio, stream)
	}

	player := AudioContext().NewPlayerFromBytes(EncodePCM16(stream))
	player.SetVolume(volume * s.gain)
	player.Play()
	s.active = append(s.active, player)
	return nil
}

// Active reports how many one-shots are still playing.
func (s *Speaker) Active() int {
	if s == nil {
		return 0
	}
	s.prune()
	return len(s.active)
}

func (s *Speaker) prune() {
	live := s.active[:0]
	for _, p := range s.active {
		if p.IsPlaying() {
			live = append(live, p)
			continue
		}
		_ = p.Close()
	}
	for i := len(live); i < len(s.active); i++ {
		s.active[i] = nil
	}
	s.active = live
}
