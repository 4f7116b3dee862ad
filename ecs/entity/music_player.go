package entity

import (
	"fmt"

	"github.com/milk9111/dashrunner/ecs"
	"github.com/milk9111/dashrunner/ecs/component"
)

func NewMusicPlayer(w *ecs.World) (ecs.Entity, error) {
	ent, err := BuildEntity(w, "music_player.yaml")
	if err != nil {
		return 0, fmt.Errorf("music player: %w", err)
	}
	return ent, nil
}

// CloneMusicPlayerState copies playback state so it survives a level
// reload. Open tracks are shared, not reopened.
func CloneMusicPlayerState(src *component.MusicPlayer) *component.MusicPlayer {
	if src == nil {
		return nil
	}

	tracks := make(map[string]component.MusicTrack, len(src.Tracks))
	for name, track := range src.Tracks {
		tracks[name] = track
	}

	trackVolumes := make(map[string]float64, len(src.TrackVolumes))
	for name, volume := range src.TrackVolumes {
		trackVolumes[name] = volume
	}

	return &component.MusicPlayer{
		Tracks:        tracks,
		TrackVolumes:  trackVolumes,
		MasterVolume:  src.MasterVolume,
		CurrentTrack:  src.CurrentTrack,
		CurrentVolume: src.CurrentVolume,
		CurrentLoop:   src.CurrentLoop,
		PendingTrack:  src.PendingTrack,
		PendingVolume: src.PendingVolume,
		PendingLoop:   src.PendingLoop,
		PendingActive: src.PendingActive,
		FadeStep:      src.FadeStep,
	}
}

func NewMusicPlayerFromState(w *ecs.World, state *component.MusicPlayer) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("music player: world is nil")
	}
	if state == nil {
		return NewMusicPlayer(w)
	}

	ent := ecs.CreateEntity(w)
	if err := ecs.Add(w, ent, component.MusicPlayerComponent.Kind(), CloneMusicPlayerState(state)); err != nil {
		return 0, fmt.Errorf("music player: add component: %w", err)
	}
	return ent, nil
}

// CurrentMusicPlayer returns the world's music player state, if any.
func CurrentMusicPlayer(w *ecs.World) *component.MusicPlayer {
	if w == nil {
		return nil
	}
	ent, ok := ecs.First(w, component.MusicPlayerComponent.Kind())
	if !ok {
		return nil
	}
	player, _ := ecs.Get(w, ent, component.MusicPlayerComponent.Kind())
	return player
}
