package system

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/milk9111/dashrunner/assets"
	"github.com/milk9111/dashrunner/common"
	"github.com/milk9111/dashrunner/ecs"
	"github.com/milk9111/dashrunner/ecs/component"
)

const (
	defaultMusicVolume     = 1.0
	defaultMusicFadeFrames = 30
)

// TrackLoader opens a music track by name.
type TrackLoader func(track string) (component.MusicTrack, error)

func loadAudioTrack(track string) (component.MusicTrack, error) {
	player, err := assets.LoadAudioPlayer(track)
	if err != nil {
		return nil, err
	}
	return player, nil
}

type MusicSystem struct {
	load TrackLoader
	log  *log.Logger
}

func NewMusicSystem(load TrackLoader, logger *log.Logger) *MusicSystem {
	if load == nil {
		load = loadAudioTrack
	}
	return &MusicSystem{load: load, log: logger}
}

// RequestMusic starts track looping at its configured volume.
func RequestMusic(w *ecs.World, track string) {
	RequestMusicWithOptions(w, &component.MusicRequest{Track: track, Volume: 0, Loop: true, FadeOutFrames: defaultMusicFadeFrames})
}

func RequestMusicWithOptions(w *ecs.World, req *component.MusicRequest) {
	if w == nil || req == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.MusicRequestComponent.Kind(), req)
}

// StopMusic cuts the current song. The runner stops music on death and on
// completion, where a fade would trail under the death sound.
func StopMusic(w *ecs.World) {
	RequestMusicWithOptions(w, &component.MusicRequest{FadeOutFrames: 1})
}

func (m *MusicSystem) Update(w *ecs.World) {
	if m == nil || w == nil {
		return
	}

	latest, requestEntities := m.consumeLatestRequest(w)
	for _, ent := range requestEntities {
		ecs.DestroyEntity(w, ent)
	}

	ent, ok := ecs.First(w, component.MusicPlayerComponent.Kind())
	if !ok {
		return
	}
	player, ok := ecs.Get(w, ent, component.MusicPlayerComponent.Kind())
	if !ok || player == nil {
		return
	}
	if player.Tracks == nil {
		player.Tracks = make(map[string]component.MusicTrack)
	}
	if player.TrackVolumes == nil {
		player.TrackVolumes = make(map[string]float64)
	}

	if latest != nil {
		m.applyRequest(player, *latest)
	}

	if player.PendingActive {
		m.updateTransition(player)
		return
	}

	current := m.currentTrack(player)
	if current != nil && !current.IsPlaying() && player.CurrentTrack != "" && player.CurrentLoop {
		m.rewind(current)
		current.SetVolume(scaledVolume(player, player.CurrentVolume))
		current.Play()
	}
}

func (m *MusicSystem) consumeLatestRequest(w *ecs.World) (*component.MusicRequest, []ecs.Entity) {
	var latest *component.MusicRequest
	requestEntities := make([]ecs.Entity, 0)

	ecs.ForEach(w, component.MusicRequestComponent.Kind(), func(ent ecs.Entity, req *component.MusicRequest) {
		requestEntities = append(requestEntities, ent)
		if req == nil {
			return
		}
		copy := *req
		latest = &copy
	})

	return latest, requestEntities
}

func (m *MusicSystem) applyRequest(player *component.MusicPlayer, req component.MusicRequest) {
	track := strings.TrimSpace(req.Track)
	volume := req.Volume
	if volume <= 0 {
		if v, ok := player.TrackVolumes[track]; ok && v > 0 {
			volume = v
		} else {
			volume = defaultMusicVolume
		}
	}
	if volume > 1 {
		volume = 1
	}
	fadeFrames := req.FadeOutFrames
	if fadeFrames <= 0 {
		fadeFrames = defaultMusicFadeFrames
	}

	if track == "" {
		player.PendingActive = false
		if m.currentTrack(player) == nil {
			player.CurrentTrack = ""
			player.CurrentVolume = 0
			player.CurrentLoop = false
			return
		}
		player.PendingTrack = ""
		player.PendingVolume = 0
		player.PendingLoop = false
		player.PendingActive = true
		player.FadeStep = fadeStep(player.CurrentVolume, fadeFrames)
		return
	}

	current := m.currentTrack(player)
	if !player.PendingActive && player.CurrentTrack == track && current != nil {
		player.CurrentVolume = volume
		player.CurrentLoop = req.Loop
		current.SetVolume(scaledVolume(player, volume))
		if !current.IsPlaying() {
			m.rewind(current)
			current.Play()
		}
		return
	}

	player.PendingTrack = track
	player.PendingVolume = volume
	player.PendingLoop = req.Loop
	player.PendingActive = true
	if current == nil {
		m.switchToPending(player)
		return
	}
	player.FadeStep = fadeStep(player.CurrentVolume, fadeFrames)
}

func fadeStep(volume float64, frames int) float64 {
	step := volume / float64(frames)
	if step <= 0 {
		return 1
	}
	return step
}

func (m *MusicSystem) updateTransition(player *component.MusicPlayer) {
	current := m.currentTrack(player)
	if current == nil {
		m.switchToPending(player)
		return
	}

	player.CurrentVolume -= player.FadeStep
	if player.CurrentVolume > 1e-9 {
		current.SetVolume(scaledVolume(player, player.CurrentVolume))
		return
	}

	player.CurrentVolume = 0
	current.SetVolume(0)
	current.Pause()
	m.rewind(current)
	player.CurrentTrack = ""
	player.CurrentLoop = false
	m.switchToPending(player)
}

func (m *MusicSystem) switchToPending(player *component.MusicPlayer) {
	if !player.PendingActive {
		return
	}

	reqTrack := strings.TrimSpace(player.PendingTrack)
	reqVolume := player.PendingVolume
	reqLoop := player.PendingLoop

	player.PendingTrack = ""
	player.PendingVolume = 0
	player.PendingLoop = false
	player.PendingActive = false
	player.FadeStep = 0

	if reqTrack == "" {
		player.CurrentTrack = ""
		player.CurrentVolume = 0
		player.CurrentLoop = false
		return
	}

	track, err := m.trackFor(player, reqTrack)
	if err != nil {
		if m.log != nil {
			m.log.Warn("music track unavailable", "track", reqTrack, "err", err)
		}
		player.CurrentTrack = ""
		player.CurrentVolume = 0
		player.CurrentLoop = false
		return
	}

	player.CurrentTrack = reqTrack
	player.CurrentVolume = reqVolume
	player.CurrentLoop = reqLoop
	m.rewind(track)
	track.SetVolume(scaledVolume(player, reqVolume))
	track.Play()
}

func (m *MusicSystem) currentTrack(player *component.MusicPlayer) component.MusicTrack {
	if strings.TrimSpace(player.CurrentTrack) == "" || player.Tracks == nil {
		return nil
	}
	return player.Tracks[player.CurrentTrack]
}

func (m *MusicSystem) trackFor(player *component.MusicPlayer, name string) (component.MusicTrack, error) {
	if existing, ok := player.Tracks[name]; ok && existing != nil {
		return existing, nil
	}
	if m.load == nil {
		return nil, fmt.Errorf("no track loader")
	}
	track, err := m.load(name)
	if err != nil {
		return nil, err
	}
	player.Tracks[name] = track
	return track, nil
}

func (m *MusicSystem) rewind(track component.MusicTrack) {
	if err := track.Rewind(); err != nil && m.log != nil {
		m.log.Debug("music rewind", "err", err)
	}
}

func scaledVolume(player *component.MusicPlayer, v float64) float64 {
	return common.Clamp(v*player.MasterVolume, 0, 1)
}
