package levels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedLevelsLoad(t *testing.T) {
	names := List()
	require.NotEmpty(t, names)
	assert.Contains(t, names, "runner_01.json")

	for _, name := range names {
		lvl, err := LoadLevelFromFS(name)
		require.NoError(t, err, name)
		assert.Len(t, lvl.Layers, len(lvl.LayerMeta), "%s: every layer needs metadata", name)
	}
}

func TestRunnerLevelLayout(t *testing.T) {
	lvl, err := Load("runner_01")
	require.NoError(t, err)

	w, h := lvl.PixelSize()
	assert.Equal(t, 3840.0, w)
	assert.Equal(t, 736.0, h)

	types := map[string]int{}
	for _, ent := range lvl.Entities {
		types[ent.Type]++
	}
	for _, want := range []string{"player", "camera", "goal", "stopper"} {
		assert.Equal(t, 1, types[want], want)
	}
	assert.Equal(t, "Ground", lvl.Meta(0).Tag)
	assert.Equal(t, "Obstacle", lvl.Meta(1).Tag)
	assert.Equal(t, LayerMeta{}, lvl.Meta(9))
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		lvl  Level
		ok   bool
	}{
		{name: "valid", lvl: Level{TileSize: 32, Width: 2, Height: 1, Layers: [][]int{{0, 1}}}, ok: true},
		{name: "empty", lvl: Level{TileSize: 32}},
		{name: "no_tile_size", lvl: Level{Width: 1, Height: 1}},
		{name: "short_layer", lvl: Level{TileSize: 32, Width: 2, Height: 2, Layers: [][]int{{1}}}},
		{name: "untyped_entity", lvl: Level{TileSize: 32, Width: 1, Height: 1, Entities: []Entity{{X: 1}}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.lvl.Validate()
			if c.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLoadMissingLevel(t *testing.T) {
	_, err := Load("nope")
	assert.Error(t, err)
}

func TestCleanLevelPath(t *testing.T) {
	assert.Equal(t, "runner_01.json", cleanLevelPath("runner_01"))
	assert.Equal(t, "runner_01.json", cleanLevelPath("levels/runner_01.json"))
	assert.Equal(t, "runner_01.json", cleanLevelPath(` levels\runner_01.json `))
}
