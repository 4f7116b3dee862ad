package component

// MusicTrack is the playback surface the music system drives. An ebiten
// *audio.Player satisfies it.
type MusicTrack interface {
	Play()
	Pause()
	Rewind() error
	IsPlaying() bool
	SetVolume(volume float64)
}

// MusicPlayer stores global music playback state on a dedicated entity. The
// music system mutates this component and keeps no playback state itself, so
// the component can be carried across level reloads.
type MusicPlayer struct {
	Tracks       map[string]MusicTrack
	TrackVolumes map[string]float64
	MasterVolume float64

	CurrentTrack  string
	CurrentVolume float64
	CurrentLoop   bool

	PendingTrack  string
	PendingVolume float64
	PendingLoop   bool
	PendingActive bool

	FadeStep float64
}

var MusicPlayerComponent = NewComponent[MusicPlayer]()
