package component

// MusicRequest is a one-shot request for global music playback. An empty
// Track stops the current song.
//
// Only one song plays at a time. A request that arrives while another song is
// active fades the current one out over FadeOutFrames first.
type MusicRequest struct {
	Track         string
	Volume        float64
	Loop          bool
	FadeOutFrames int
}

var MusicRequestComponent = NewComponent[MusicRequest]()
