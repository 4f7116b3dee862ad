package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()

// StopperTag marks the entity whose X position caps the camera.
type StopperTag struct{}

var StopperTagComponent = NewComponent[StopperTag]()

// Name lets prefabs reference other entities, e.g. a camera target.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()
