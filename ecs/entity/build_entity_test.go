package entity

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/milk9111/dashrunner/ecs"
	"github.com/milk9111/dashrunner/ecs/component"
	"github.com/milk9111/dashrunner/ecs/render"
	"github.com/milk9111/dashrunner/ecs/system"
	"github.com/milk9111/dashrunner/levels"
	"github.com/milk9111/dashrunner/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPlayerConvertsMetres(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewPlayerAt(w, 100, 200)
	require.NoError(t, err)

	runner, ok := ecs.Get(w, e, component.RunnerComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 160.0, runner.MoveSpeed)
	assert.Equal(t, 256.0, runner.JumpForce)
	assert.Equal(t, 2.5, runner.RestartDelay)
	assert.Equal(t, "runner_theme", runner.MusicTrack)
	assert.Equal(t, component.PitchRange{Min: 0.95, Max: 1.05}, runner.JumpPitch)
	assert.Equal(t, component.PitchRange{Min: 0.98, Max: 1.02}, runner.LandPitch)

	probe, ok := ecs.Get(w, e, component.GroundCheckComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 16.0, probe.OffsetY)
	assert.InDelta(t, 3.2, probe.Radius, 1e-9)
	assert.Equal(t, component.CategoryGround, probe.Mask)

	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 100.0, tr.X)
	assert.Equal(t, 200.0, tr.Y)

	body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, component.CategoryPlayer, body.Category)
	assert.True(t, body.FixedAngle)
	assert.Equal(t, 1.0, body.GravityScale)

	sfx, ok := ecs.Get(w, e, component.SFXComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 1.0, sfx.Volume)
	for _, clip := range []string{component.ClipJump, component.ClipLand, component.ClipDeath} {
		require.Contains(t, sfx.Clips, clip)
		assert.Positive(t, sfx.Clips[clip].Buffer.Len())
	}

	name, ok := ecs.Get(w, e, component.NameComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, "player", name.Value)

	for _, has := range []bool{
		ecs.Has(w, e, component.PlayerTagComponent.Kind()),
		ecs.Has(w, e, component.InputComponent.Kind()),
		ecs.Has(w, e, component.RunnerStateComponent.Kind()),
		ecs.Has(w, e, component.ContactsComponent.Kind()),
		ecs.Has(w, e, component.ContactScriptComponent.Kind()),
	} {
		assert.True(t, has)
	}
}

func TestBuildSpriteFromDiskImage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "prefabs"), 0o755))

	img := image.NewNRGBA(image.Rect(0, 0, 12, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 12; x++ {
			img.Set(x, y, color.NRGBA{R: 0xff, A: 0xff})
		}
	}
	f, err := os.Create(filepath.Join(dir, "assets", "crate.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	prefab := "name: crate\ncomponents:\n  transform: {x: 5, y: 6}\n  sprite:\n    image: crate.png\n    center_origin_if_zero: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prefabs", "crate.yaml"), []byte(prefab), 0o644))

	t.Chdir(dir)
	t.Cleanup(render.ForgetImages)

	w := ecs.NewWorld()
	e, err := BuildEntity(w, "crate.yaml")
	require.NoError(t, err)

	sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind())
	require.True(t, ok)
	require.NotNil(t, sprite.Image)
	assert.Equal(t, 12.0, sprite.Width)
	assert.Equal(t, 20.0, sprite.Height)
	assert.Equal(t, 6.0, sprite.OriginX)
	assert.Equal(t, 10.0, sprite.OriginY)
	assert.Same(t, sprite.Image, render.GetImage("crate.png"), "decoded image is cached")

	again, err := BuildEntity(w, "crate.yaml")
	require.NoError(t, err)
	second, _ := ecs.Get(w, again, component.SpriteComponent.Kind())
	require.NotNil(t, second)
	assert.Same(t, sprite.Image, second.Image)
}

func TestBuildCameraDefaults(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewCameraAt(w, 10, 20)
	require.NoError(t, err)

	follow, ok := ecs.Get(w, e, component.CameraFollowComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, "player", follow.TargetName)
	assert.Equal(t, "stopper", follow.StopperName)
	assert.Equal(t, 64.0, follow.OffsetX)
	assert.Equal(t, 0.15, follow.SmoothTime)
	assert.Equal(t, 1.0, follow.Zoom)
	assert.True(t, ecs.Has(w, e, component.CameraTagComponent.Kind()))
}

func TestBuildGoalIsSensor(t *testing.T) {
	w := ecs.NewWorld()
	e, err := BuildEntityAt(w, "goal.yaml", 500, 300)
	require.NoError(t, err)

	body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	require.NotNil(t, body)
	assert.True(t, body.Static)
	assert.True(t, body.Sensor)
	assert.Equal(t, component.CategoryTrigger, body.Category)

	tag, _ := ecs.Get(w, e, component.CollisionTagComponent.Kind())
	require.NotNil(t, tag)
	assert.Equal(t, component.TagGoal, tag.Tag)
}

func TestBuildMusicPlayer(t *testing.T) {
	w := ecs.NewWorld()
	_, err := NewMusicPlayer(w)
	require.NoError(t, err)

	player := CurrentMusicPlayer(w)
	require.NotNil(t, player)
	assert.Equal(t, 1.0, player.MasterVolume)
	assert.Equal(t, 0.6, player.TrackVolumes["runner_theme"])
	assert.NotNil(t, player.Tracks)
}

func TestCloneMusicPlayerStateIsIndependent(t *testing.T) {
	src := &component.MusicPlayer{
		Tracks:        map[string]component.MusicTrack{"a": nil},
		TrackVolumes:  map[string]float64{"a": 0.5},
		MasterVolume:  0.8,
		CurrentTrack:  "a",
		CurrentVolume: 0.5,
		CurrentLoop:   true,
	}
	clone := CloneMusicPlayerState(src)
	require.NotNil(t, clone)
	assert.Equal(t, "a", clone.CurrentTrack)
	assert.Equal(t, 0.8, clone.MasterVolume)

	clone.TrackVolumes["a"] = 1
	assert.Equal(t, 0.5, src.TrackVolumes["a"])
	assert.Nil(t, CloneMusicPlayerState(nil))

	w := ecs.NewWorld()
	_, err := NewMusicPlayerFromState(w, src)
	require.NoError(t, err)
	assert.Equal(t, "a", CurrentMusicPlayer(w).CurrentTrack)
}

func TestBuildEntityErrors(t *testing.T) {
	_, err := BuildEntity(nil, "player.yaml")
	assert.Error(t, err)

	w := ecs.NewWorld()
	_, err = BuildEntity(w, "does_not_exist.yaml")
	assert.Error(t, err)
	assert.Empty(t, ecs.Entities(w))
}

func TestMergeTileRects(t *testing.T) {
	// 4x3 grid:
	// 1 1 0 1
	// 1 1 0 1
	// 0 0 0 1
	layer := []int{
		1, 1, 0, 1,
		1, 1, 0, 1,
		0, 0, 0, 1,
	}
	rects := mergeTileRects(layer, 4, 3)
	assert.ElementsMatch(t, []tileRect{
		{X: 0, Y: 0, W: 2, H: 2},
		{X: 3, Y: 0, W: 1, H: 3},
	}, rects)

	assert.Empty(t, mergeTileRects(make([]int, 12), 4, 3))
	assert.Nil(t, mergeTileRects(nil, 0, 0))
}

func TestLoadLevelToWorld(t *testing.T) {
	lvl, err := levels.Load("runner_01")
	require.NoError(t, err)

	w := ecs.NewWorld()
	require.NoError(t, LoadLevelToWorld(w, lvl))

	_, ok := FindPlayer(w)
	assert.True(t, ok)
	_, ok = ecs.First(w, component.CameraTagComponent.Kind())
	assert.True(t, ok)
	_, ok = ecs.First(w, component.StopperTagComponent.Kind())
	assert.True(t, ok)

	bounds, ok := ecs.First(w, component.LevelBoundsComponent.Kind())
	require.True(t, ok)
	b, _ := ecs.Get(w, bounds, component.LevelBoundsComponent.Kind())
	assert.Equal(t, 3840.0, b.Width)

	tags := map[string]int{}
	ecs.ForEach(w, component.CollisionTagComponent.Kind(), func(_ ecs.Entity, tag *component.CollisionTag) {
		tags[tag.Tag]++
	})
	assert.Equal(t, 1, tags[component.TagGround], "ground rows merge into one collider")
	assert.Positive(t, tags[component.TagObstacle])
	assert.Equal(t, 1, tags[component.TagGoal])
}

func TestLoadLevelRejectsUnknownEntity(t *testing.T) {
	lvl := &levels.Level{TileSize: 32, Width: 1, Height: 1, Entities: []levels.Entity{{Type: "dragon"}}}
	assert.Error(t, LoadLevelToWorld(ecs.NewWorld(), lvl))
}

// TestLevelRunnerReachesFirstObstacle runs the real level headlessly: the
// runner lands, runs right and dies on the first spike unless it jumps.
func TestLevelRunnerReachesFirstObstacle(t *testing.T) {
	lvl, err := levels.Load("runner_01")
	require.NoError(t, err)
	w := ecs.NewWorld()
	require.NoError(t, LoadLevelToWorld(w, lvl))

	logger := log.New(io.Discard)
	physics := system.NewPhysicsSystem(logger)
	sched := ecs.NewScheduler(
		system.NewRunnerSystem(physics, logger),
		system.NewRunnerMotionSystem(),
		physics,
		system.NewRunnerContactSystem(logger),
		system.NewRestartSystem(),
		system.NewCameraSystem(),
	)

	player, _ := FindPlayer(w)
	state, _ := ecs.Get(w, player, component.RunnerStateComponent.Kind())
	require.NotNil(t, state)

	for i := 0; i < 600 && !state.Dead; i++ {
		sched.Update(w)
	}
	require.True(t, state.Dead, "runner should hit the first obstacle")
	assert.False(t, state.Completed)

	tr, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	assert.Less(t, tr.X, 24*32.0)
	assert.Greater(t, tr.X, 20*32.0)

	events := system.DrainRunEvents(w)
	require.Len(t, events, 1)
	assert.Equal(t, component.RunOutcomeDeath, events[0].Outcome)
}

func TestBuildSFXSkipsUnavailableClips(t *testing.T) {
	comp, err := buildSFXComponentFromSpec(prefabs.SFXComponentSpec{Clips: []prefabs.AudioClipSpec{
		{Name: "jump"},
		{Name: "thud", File: "missing.wav"},
		{Name: "no_such_clip"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, comp.Volume)
	assert.Contains(t, comp.Clips, "jump")
	assert.NotContains(t, comp.Clips, "thud")
	assert.NotContains(t, comp.Clips, "no_such_clip")

	_, err = buildSFXComponentFromSpec(prefabs.SFXComponentSpec{Clips: []prefabs.AudioClipSpec{{Name: " "}}})
	assert.ErrorContains(t, err, "no name")
}
