package component

// CameraFollow follows a target horizontally at a fixed height. Transform on
// the camera entity is the view center.
type CameraFollow struct {
	TargetName  string
	StopperName string
	OffsetX     float64
	SmoothTime  float64
	Zoom        float64

	FixedY      float64
	Initialized bool
	VelocityX   float64
	VelocityY   float64
}

var CameraFollowComponent = NewComponent[CameraFollow]()
