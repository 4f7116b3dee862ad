package prefabs

import "gopkg.in/yaml.v3"

// EntityBuildSpec is a prefab file: an optional entity name and a map of
// component name to component spec.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type PitchRangeSpec struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// RunnerComponentSpec holds the runner tunables. Speeds are in metres per
// second and converted to pixels when the entity is built.
type RunnerComponentSpec struct {
	MoveSpeed    float64         `yaml:"move_speed"`
	JumpForce    float64         `yaml:"jump_force"`
	RestartDelay float64         `yaml:"restart_delay"`
	Music        string          `yaml:"music"`
	JumpPitch    *PitchRangeSpec `yaml:"jump_pitch"`
	LandPitch    *PitchRangeSpec `yaml:"land_pitch"`
	DeathPitch   *PitchRangeSpec `yaml:"death_pitch"`
}

// GroundCheckComponentSpec is in metres relative to the body center. Mask
// lists collision category names, e.g. [ground, obstacle].
type GroundCheckComponentSpec struct {
	OffsetX float64  `yaml:"offset_x"`
	OffsetY float64  `yaml:"offset_y"`
	Radius  float64  `yaml:"radius"`
	Mask    []string `yaml:"mask"`
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type SpriteComponentSpec struct {
	Image              string     `yaml:"image"`
	Width              float64    `yaml:"width"`
	Height             float64    `yaml:"height"`
	Color              *YAMLColor `yaml:"color"`
	OriginX            float64    `yaml:"origin_x"`
	OriginY            float64    `yaml:"origin_y"`
	CenterOriginIfZero bool       `yaml:"center_origin_if_zero"`
	Hidden             bool       `yaml:"hidden"`
}

type RenderLayerComponentSpec struct {
	Index int `yaml:"index"`
}

type PhysicsBodyComponentSpec struct {
	Width        float64  `yaml:"width"`
	Height       float64  `yaml:"height"`
	Radius       float64  `yaml:"radius"`
	Mass         float64  `yaml:"mass"`
	Friction     float64  `yaml:"friction"`
	Elasticity   float64  `yaml:"elasticity"`
	GravityScale *float64 `yaml:"gravity_scale"`
	Static       bool     `yaml:"static"`
	Sensor       bool     `yaml:"sensor"`
	FixedAngle   *bool    `yaml:"fixed_angle"`
	AlignTopLeft bool     `yaml:"align_top_left"`
	OffsetX      float64  `yaml:"offset_x"`
	OffsetY      float64  `yaml:"offset_y"`
	Category     string   `yaml:"category"`
}

type CollisionTagComponentSpec struct {
	Tag string `yaml:"tag"`
}

type AudioClipSpec struct {
	Name   string  `yaml:"name"`
	File   string  `yaml:"file"`
	Volume float64 `yaml:"volume"`
}

type SFXComponentSpec struct {
	Volume float64         `yaml:"volume"`
	Clips  []AudioClipSpec `yaml:"clips"`
}

// CameraFollowComponentSpec offsets are in metres.
type CameraFollowComponentSpec struct {
	TargetName  string  `yaml:"target_name"`
	StopperName string  `yaml:"stopper_name"`
	OffsetX     float64 `yaml:"offset_x"`
	SmoothTime  float64 `yaml:"smooth_time"`
	Zoom        float64 `yaml:"zoom"`
}

type ContactScriptComponentSpec struct {
	Path string `yaml:"path"`
}

type MusicTrackSpec struct {
	Name   string  `yaml:"name"`
	Volume float64 `yaml:"volume"`
}

type MusicPlayerComponentSpec struct {
	MasterVolume float64          `yaml:"master_volume"`
	Tracks       []MusicTrackSpec `yaml:"tracks"`
}
