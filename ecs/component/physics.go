package component

import (
	"strings"

	"github.com/jakecoffman/cp"
)

// Collision categories used by shape filters and ground checks.
const (
	CategoryGround uint = 1 << iota
	CategoryObstacle
	CategoryTrigger
	CategoryPlayer
	CategoryBounds
)

// CategoryByName maps a prefab category name to its bit. An empty name is
// ground.
func CategoryByName(name string) (uint, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ground", "":
		return CategoryGround, true
	case "obstacle":
		return CategoryObstacle, true
	case "trigger":
		return CategoryTrigger, true
	case "player", "runner":
		return CategoryPlayer, true
	case "bounds":
		return CategoryBounds, true
	default:
		return 0, false
	}
}

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// Body and Shape are filled in by the physics system.
type PhysicsBody struct {
	Body  *cp.Body
	Shape *cp.Shape

	Width        float64
	Height       float64
	Radius       float64
	Mass         float64
	Friction     float64
	Elasticity   float64
	GravityScale float64 // multiplies gravity; zero means 1
	Static       bool
	Sensor       bool
	FixedAngle   bool
	AlignTopLeft bool
	OffsetX      float64
	OffsetY      float64
	Category     uint
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
