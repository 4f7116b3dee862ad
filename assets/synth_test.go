package assets

import (
	"testing"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClipFromBank(t *testing.T) {
	cases := []struct {
		name       string
		durationMS int
	}{
		{"jump", 140},
		{"land", 90},
		{"death", 600},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			buf, err := LoadClip(c.name)
			require.NoError(t, err)
			assert.Equal(t, SampleRate.N(msDuration(c.durationMS)), buf.Len())
			assert.Equal(t, SampleRate, buf.Format().SampleRate)
		})
	}
}

func TestLoadClipErrors(t *testing.T) {
	_, err := LoadClip("")
	assert.Error(t, err)

	_, err = LoadClip("does_not_exist")
	assert.ErrorContains(t, err, "unknown clip")

	_, err = LoadClip("missing.wav")
	assert.Error(t, err)
}

func TestClipStreamerRejectsBadRecipe(t *testing.T) {
	_, err := ClipStreamer(ClipRecipe{Wave: "sine", StartFreq: 440})
	assert.Error(t, err)

	_, err = ClipStreamer(ClipRecipe{Wave: "organ", StartFreq: 440, Duration: 10})
	assert.ErrorContains(t, err, "unknown wave")
}

func TestClipStreamerLength(t *testing.T) {
	s, err := ClipStreamer(ClipRecipe{Wave: "square", StartFreq: 200, EndFreq: 800, Duration: 50, Attack: 5, Release: 20})
	require.NoError(t, err)

	pcm := EncodePCM16(s)
	assert.Equal(t, SampleRate.N(msDuration(50))*4, len(pcm))
}

func TestTrackPCM(t *testing.T) {
	pcm, err := TrackPCM("runner_theme")
	require.NoError(t, err)
	require.NotEmpty(t, pcm)
	assert.Zero(t, len(pcm)%4, "pcm must hold whole stereo frames")

	_, err = TrackPCM("nope")
	assert.Error(t, err)
}

func TestTrackStreamerRests(t *testing.T) {
	s, err := TrackStreamer(TrackRecipe{
		BPM:  120,
		Lead: []NoteRecipe{{Freq: 0, Beats: 1}},
	})
	require.NoError(t, err)

	pcm := EncodePCM16(s)
	// One beat at 120 bpm is half a second of silence.
	require.Equal(t, SampleRate.N(msDuration(500))*4, len(pcm))
	for _, b := range pcm {
		if b != 0 {
			t.Fatalf("expected silence")
		}
	}

	_, err = TrackStreamer(TrackRecipe{})
	assert.Error(t, err)
}

func TestEncodePCM16Clamps(t *testing.T) {
	s := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		samples[0] = [2]float64{2, -2}
		return 1, false
	})
	pcm := EncodePCM16(s)
	require.Len(t, pcm, 4)
	assert.Equal(t, []byte{0xff, 0x7f, 0x01, 0x80}, pcm)
}

func TestSpeakerNilSafe(t *testing.T) {
	var s *Speaker
	assert.NoError(t, s.PlayOneShot(nil, 1, 1))
	assert.Zero(t, s.Active())
	assert.NoError(t, NewSpeaker().PlayOneShot(nil, 1, 1))
}

func TestMutedSpeakerSkipsPlayback(t *testing.T) {
	buf, err := LoadClip("jump")
	require.NoError(t, err)

	s := NewSpeaker()
	s.SetGain(0)
	assert.NoError(t, s.PlayOneShot(buf, 1, 1))
	assert.Zero(t, s.Active())

	s.SetGain(-2)
	assert.NoError(t, s.PlayOneShot(buf, 1.2, 1))
	assert.Zero(t, s.Active())
}
