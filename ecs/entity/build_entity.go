package entity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/milk9111/dashrunner/assets"
	"github.com/milk9111/dashrunner/common"
	"github.com/milk9111/dashrunner/ecs"
	"github.com/milk9111/dashrunner/ecs/component"
	"github.com/milk9111/dashrunner/ecs/render"
	"github.com/milk9111/dashrunner/prefabs"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":     addPlayerTag,
	"camera_tag":     addCameraTag,
	"stopper_tag":    addStopperTag,
	"input":          addInput,
	"transform":      addTransform,
	"sprite":         addSprite,
	"render_layer":   addRenderLayer,
	"physics_body":   addPhysicsBody,
	"collision_tag":  addCollisionTag,
	"runner":         addRunner,
	"ground_check":   addGroundCheck,
	"sfx":            addSFX,
	"camera_follow":  addCameraFollow,
	"contact_script": addContactScript,
	"music_player":   addMusicPlayer,
}

// componentBuildOrder lists components whose builders read earlier ones.
// Anything not listed is built afterwards in name order.
var componentBuildOrder = []string{
	"player_tag",
	"camera_tag",
	"stopper_tag",
	"input",
	"transform",
	"sprite",
	"render_layer",
	"physics_body",
	"collision_tag",
	"runner",
	"ground_check",
	"sfx",
	"camera_follow",
	"contact_script",
	"music_player",
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	build := func(name string, raw any) error {
		builder, ok := componentRegistry[name]
		if !ok {
			return fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, name)
		}
		if err := builder(w, e, raw, ctx); err != nil {
			return fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		return nil
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := build(name, raw); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, err
		}
		delete(remaining, name)
	}

	names := make([]string, 0, len(remaining))
	for name := range remaining {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := build(name, remaining[name]); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, err
		}
	}

	if name := strings.TrimSpace(spec.Name); name != "" {
		if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: name}); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add name: %w", prefabPath, err)
		}
	}

	return e, nil
}

// BuildEntityAt builds a prefab and moves it to x, y.
func BuildEntityAt(w *ecs.World, prefabPath string, x, y float64) (ecs.Entity, error) {
	e, err := BuildEntity(w, prefabPath)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, e, x, y, 0); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("%s: override transform: %w", strings.TrimSuffix(prefabPath, ".yaml"), err)
	}
	return e, nil
}

func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, rotation float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{ScaleX: 1, ScaleY: 1}
	}
	t.X = x
	t.Y = y
	t.Rotation = rotation
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addCameraTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.CameraTagComponent.Kind(), &component.CameraTag{})
}

func addStopperTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.StopperTagComponent.Kind(), &component.StopperTag{})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	if spec.ScaleX == 0 {
		spec.ScaleX = 1
	}
	if spec.ScaleY == 0 {
		spec.ScaleY = 1
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		ScaleX:   spec.ScaleX,
		ScaleY:   spec.ScaleY,
		Rotation: spec.Rotation,
	})
}

func addSprite(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.SpriteComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode sprite spec: %w", err)
	}

	sprite := component.Sprite{
		Width:   spec.Width,
		Height:  spec.Height,
		OriginX: spec.OriginX,
		OriginY: spec.OriginY,
		Hidden:  spec.Hidden,
	}
	if spec.Color != nil {
		sprite.Color = spec.Color.Color
	}
	if spec.Image != "" {
		img, err := render.LoadImage(spec.Image)
		if err != nil {
			return fmt.Errorf("load image %q: %w", spec.Image, err)
		}
		sprite.Image = img
		if sprite.Width == 0 && sprite.Height == 0 {
			b := img.Bounds()
			sprite.Width, sprite.Height = float64(b.Dx()), float64(b.Dy())
		}
	}
	if sprite.OriginX == 0 && sprite.OriginY == 0 && spec.CenterOriginIfZero {
		sprite.OriginX = sprite.Width / 2
		sprite.OriginY = sprite.Height / 2
	}
	if sprite.Image == nil && sprite.Color == nil {
		return fmt.Errorf("sprite needs an image or a color")
	}

	return ecs.Add(w, e, component.SpriteComponent.Kind(), &sprite)
}

func addRenderLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.RenderLayerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode render layer spec: %w", err)
	}
	return ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.Index})
}

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PhysicsBodyComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics body spec: %w", err)
	}

	category, ok := component.CategoryByName(spec.Category)
	if !ok {
		return fmt.Errorf("unknown collision category %q", spec.Category)
	}

	width, height := spec.Width, spec.Height
	if width <= 0 {
		width = 32
	}
	if height <= 0 {
		height = 32
	}
	if !spec.Static && spec.Mass == 0 {
		spec.Mass = 1
	}
	gravityScale := 1.0
	if spec.GravityScale != nil {
		gravityScale = *spec.GravityScale
	}
	fixedAngle := true
	if spec.FixedAngle != nil {
		fixedAngle = *spec.FixedAngle
	}

	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:        width,
		Height:       height,
		Radius:       spec.Radius,
		Mass:         spec.Mass,
		Friction:     spec.Friction,
		Elasticity:   spec.Elasticity,
		GravityScale: gravityScale,
		Static:       spec.Static,
		Sensor:       spec.Sensor,
		FixedAngle:   fixedAngle,
		AlignTopLeft: spec.AlignTopLeft,
		OffsetX:      spec.OffsetX,
		OffsetY:      spec.OffsetY,
		Category:     category,
	})
}

func addCollisionTag(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CollisionTagComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collision tag spec: %w", err)
	}
	return ecs.Add(w, e, component.CollisionTagComponent.Kind(), &component.CollisionTag{Tag: strings.TrimSpace(spec.Tag)})
}

func pitchRange(spec *prefabs.PitchRangeSpec, lo, hi float64) component.PitchRange {
	if spec == nil {
		return component.PitchRange{Min: lo, Max: hi}
	}
	return component.PitchRange{Min: spec.Min, Max: spec.Max}
}

// addRunner converts metres to pixels and also attaches the per-life state
// and contact buffer the runner systems expect.
func addRunner(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.RunnerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode runner spec: %w", err)
	}
	if spec.MoveSpeed == 0 {
		spec.MoveSpeed = 5
	}
	if spec.JumpForce == 0 {
		spec.JumpForce = 8
	}
	if spec.RestartDelay == 0 {
		spec.RestartDelay = 2.5
	}

	runner := &component.Runner{
		MoveSpeed:    spec.MoveSpeed * common.UnitsPerMeter,
		JumpForce:    spec.JumpForce * common.UnitsPerMeter,
		RestartDelay: spec.RestartDelay,
		MusicTrack:   strings.TrimSpace(spec.Music),
		JumpPitch:    pitchRange(spec.JumpPitch, 0.95, 1.05),
		LandPitch:    pitchRange(spec.LandPitch, 0.98, 1.02),
		DeathPitch:   pitchRange(spec.DeathPitch, 0.95, 1.05),
	}
	if err := ecs.Add(w, e, component.RunnerComponent.Kind(), runner); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.RunnerStateComponent.Kind(), &component.RunnerState{}); err != nil {
		return err
	}
	return ecs.Add(w, e, component.ContactsComponent.Kind(), &component.Contacts{})
}

func addGroundCheck(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.GroundCheckComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode ground check spec: %w", err)
	}
	if spec.Radius == 0 {
		spec.Radius = 0.1
	}
	mask := uint(0)
	for _, name := range spec.Mask {
		bit, ok := component.CategoryByName(name)
		if !ok {
			return fmt.Errorf("unknown ground mask category %q", name)
		}
		mask |= bit
	}
	if mask == 0 {
		mask = component.CategoryGround
	}
	return ecs.Add(w, e, component.GroundCheckComponent.Kind(), &component.GroundCheck{
		OffsetX: spec.OffsetX * common.UnitsPerMeter,
		OffsetY: spec.OffsetY * common.UnitsPerMeter,
		Radius:  spec.Radius * common.UnitsPerMeter,
		Mask:    mask,
	})
}

func addSFX(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.SFXComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode sfx spec: %w", err)
	}
	comp, err := buildSFXComponentFromSpec(spec)
	if err != nil {
		return fmt.Errorf("build sfx component from spec: %w", err)
	}
	return ecs.Add(w, e, component.SFXComponent.Kind(), comp)
}

// buildSFXComponentFromSpec decodes every clip up front. A clip names a
// synthesized sound unless File points at a wav asset. Clips that fail to
// load are left out so playing them is a silent no-op.
func buildSFXComponentFromSpec(spec prefabs.SFXComponentSpec) (*component.SFX, error) {
	volume := spec.Volume
	if volume == 0 {
		volume = 1
	}
	comp := &component.SFX{Clips: make(map[string]*component.Clip, len(spec.Clips)), Volume: volume}
	for _, clip := range spec.Clips {
		name := strings.TrimSpace(clip.Name)
		if name == "" {
			return nil, fmt.Errorf("sfx clip has no name")
		}
		source := strings.TrimSpace(clip.File)
		if source == "" {
			source = name
		}
		buf, err := assets.LoadClip(source)
		if err != nil {
			log.Debug("sfx clip unavailable, skipping", "clip", name, "source", source, "err", err)
			continue
		}
		comp.Clips[name] = &component.Clip{Name: name, Buffer: buf, Volume: clip.Volume}
	}
	return comp, nil
}

func addCameraFollow(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CameraFollowComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode camera follow spec: %w", err)
	}
	smooth := spec.SmoothTime
	if smooth == 0 {
		smooth = 0.15
	}
	zoom := spec.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return ecs.Add(w, e, component.CameraFollowComponent.Kind(), &component.CameraFollow{
		TargetName:  strings.TrimSpace(spec.TargetName),
		StopperName: strings.TrimSpace(spec.StopperName),
		OffsetX:     spec.OffsetX * common.UnitsPerMeter,
		SmoothTime:  smooth,
		Zoom:        zoom,
	})
}

func addContactScript(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ContactScriptComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode contact script spec: %w", err)
	}
	path := strings.TrimSpace(spec.Path)
	if path == "" {
		return fmt.Errorf("contact script needs a path")
	}
	if _, err := prefabs.LoadScript(path); err != nil {
		return fmt.Errorf("load contact script %q: %w", path, err)
	}
	return ecs.Add(w, e, component.ContactScriptComponent.Kind(), &component.ContactScript{Path: path})
}

// addMusicPlayer records track volumes only. Tracks are opened by the music
// system on first request.
func addMusicPlayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.MusicPlayerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode music player spec: %w", err)
	}
	master := spec.MasterVolume
	if master == 0 {
		master = 1
	}
	volumes := make(map[string]float64, len(spec.Tracks))
	for _, track := range spec.Tracks {
		name := strings.TrimSpace(track.Name)
		if name == "" {
			continue
		}
		volumes[name] = track.Volume
	}
	return ecs.Add(w, e, component.MusicPlayerComponent.Kind(), &component.MusicPlayer{
		Tracks:       make(map[string]component.MusicTrack),
		TrackVolumes: volumes,
		MasterVolume: master,
	})
}
