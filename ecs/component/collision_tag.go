package component

// Tags compared by the runner when a contact begins.
const (
	TagGround   = "Ground"
	TagObstacle = "Obstacle"
	TagGoal     = "Goal"
)

// CollisionTag labels a collider for contact dispatch.
type CollisionTag struct {
	Tag string
}

var CollisionTagComponent = NewComponent[CollisionTag]()

// Contact is one contact that began during the last physics step.
type Contact struct {
	Other  uint64
	Tag    string
	Sensor bool
}

// Contacts buffers contact-begin events for an entity. The physics system
// appends after each step and the runner system drains it.
type Contacts struct {
	Begun []Contact
}

var ContactsComponent = NewComponent[Contacts]()
