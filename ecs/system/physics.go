package system

import (
	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/dashrunner/common"
	"github.com/milk9111/dashrunner/ecs"
	"github.com/milk9111/dashrunner/ecs/component"
)

const (
	collisionTypeRunner cp.CollisionType = iota + 1
	collisionTypeSolid
	collisionTypeTrigger
)

// runnerGroup keeps the runner's own shapes out of its ground probe.
const runnerGroup uint = 1

type PhysicsSystem struct {
	space         *cp.Space
	handlersReady bool

	entities map[ecs.Entity]*bodyInfo
	shapes   map[*cp.Shape]shapeInfo
	pending  map[ecs.Entity][]component.Contact

	log *log.Logger
}

type bodyInfo struct {
	body   *cp.Body
	shapes []*cp.Shape
	static bool
}

type shapeInfo struct {
	owner  ecs.Entity
	tag    string
	runner bool
	sensor bool
}

func NewPhysicsSystem(logger *log.Logger) *PhysicsSystem {
	return &PhysicsSystem{
		space:    newSpace(),
		entities: make(map[ecs.Entity]*bodyInfo),
		shapes:   make(map[*cp.Shape]shapeInfo),
		pending:  make(map[ecs.Entity][]component.Contact),
		log:      logger,
	}
}

func newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: common.Gravity})
	return space
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// Update syncs new bodies into the space, steps it one fixed tick and copies
// body positions and contact-begin events back into the world.
func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	if ps.space == nil {
		ps.space = newSpace()
		ps.handlersReady = false
	}

	ps.ensureHandlers()
	ps.syncEntities(w)
	ps.syncWorldBounds(w)

	ps.space.Step(common.FixedDelta)

	ps.syncTransforms(w)
	ps.flushContacts(w)
}

// OverlapCircle reports whether any non-sensor shape whose category is in
// mask lies within radius of center. The runner's own shapes never match.
func (ps *PhysicsSystem) OverlapCircle(center cp.Vector, radius float64, mask uint) bool {
	if ps == nil || ps.space == nil || radius <= 0 {
		return false
	}
	filter := cp.ShapeFilter{Group: runnerGroup, Categories: cp.ALL_CATEGORIES, Mask: mask}
	info := ps.space.PointQueryNearest(center, radius, filter)
	return info != nil && info.Shape != nil
}

// BodyVelocity returns the velocity of e's body.
func (ps *PhysicsSystem) BodyVelocity(w *ecs.World, e ecs.Entity) (cp.Vector, bool) {
	body := bodyOf(w, e)
	if body == nil {
		return cp.Vector{}, false
	}
	return body.Velocity(), true
}

func bodyOf(w *ecs.World, e ecs.Entity) *cp.Body {
	pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || pb.Body == nil || pb.Static {
		return nil
	}
	return pb.Body
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady || ps.space == nil {
		return
	}

	begin := func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		sys.recordContact(shapeA, shapeB)
		sys.recordContact(shapeB, shapeA)
		return true
	}

	for _, other := range []cp.CollisionType{collisionTypeSolid, collisionTypeTrigger} {
		handler := ps.space.NewCollisionHandler(collisionTypeRunner, other)
		handler.UserData = ps
		handler.BeginFunc = begin
	}

	ps.handlersReady = true
}

// recordContact queues a contact for the owner of self if it is a runner.
func (ps *PhysicsSystem) recordContact(self, other *cp.Shape) {
	me, ok := ps.shapes[self]
	if !ok || !me.runner {
		return
	}
	contact := component.Contact{}
	if them, ok := ps.shapes[other]; ok {
		contact.Other = uint64(them.owner)
		contact.Tag = them.tag
		contact.Sensor = them.sensor
	}
	ps.pending[me.owner] = append(ps.pending[me.owner], contact)
}

func (ps *PhysicsSystem) flushContacts(w *ecs.World) {
	for e, contacts := range ps.pending {
		delete(ps.pending, e)
		if !w.IsAlive(e) {
			continue
		}
		buf, ok := ecs.Get(w, e, component.ContactsComponent.Kind())
		if !ok {
			buf = &component.Contacts{}
			if err := ecs.Add(w, e, component.ContactsComponent.Kind(), buf); err != nil {
				ps.logf("contacts", "entity", e, "err", err)
				continue
			}
		}
		buf.Begun = append(buf.Begun, contacts...)
	}
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	if ps.space == nil {
		return
	}

	ps.cleanupEntities(w)

	entities := w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind())
	for _, e := range entities {
		if _, exists := ps.entities[e]; exists {
			continue
		}
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}

		isRunner := ecs.Has(w, e, component.RunnerComponent.Kind())
		tag := ""
		if ct, ok := ecs.Get(w, e, component.CollisionTagComponent.Kind()); ok {
			tag = ct.Tag
		}

		info := ps.createBodyInfo(transform, bodyComp, isRunner)
		if info == nil {
			continue
		}
		ps.entities[e] = info
		for _, shape := range info.shapes {
			ps.shapes[shape] = shapeInfo{owner: e, tag: tag, runner: isRunner, sensor: bodyComp.Sensor}
		}
		bodyComp.Body = info.body
		bodyComp.Shape = info.shapes[0]
	}
}

func (ps *PhysicsSystem) createBodyInfo(transform *component.Transform, bodyComp *component.PhysicsBody, isRunner bool) *bodyInfo {
	if ps.space == nil || transform == nil || bodyComp == nil {
		return nil
	}

	width := bodyComp.Width
	height := bodyComp.Height
	radius := bodyComp.Radius

	if radius <= 0 && (width <= 0 || height <= 0) {
		width = 32
		height = 32
	}

	sizeW, sizeH := width, height
	if radius > 0 {
		sizeW = radius * 2
		sizeH = radius * 2
	}

	topLeftX := transform.X + bodyComp.OffsetX
	topLeftY := transform.Y + bodyComp.OffsetY
	if !bodyComp.AlignTopLeft {
		topLeftX -= sizeW / 2
		topLeftY -= sizeH / 2
	}

	centerX := topLeftX + sizeW/2
	centerY := topLeftY + sizeH/2

	filter := shapeFilter(bodyComp.Category, isRunner)
	info := &bodyInfo{static: bodyComp.Static}

	if bodyComp.Static {
		var shape *cp.Shape
		if radius > 0 {
			shape = cp.NewCircle(ps.space.StaticBody, radius, cp.Vector{X: centerX, Y: centerY})
		} else {
			bb := cp.BB{L: topLeftX, B: topLeftY, R: topLeftX + sizeW, T: topLeftY + sizeH}
			shape = cp.NewBox2(ps.space.StaticBody, bb, 0)
		}
		ps.configureShape(shape, bodyComp, filter, false)
		ps.space.AddShape(shape)

		info.body = ps.space.StaticBody
		info.shapes = []*cp.Shape{shape}
		return info
	}

	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}

	moment := cp.INFINITY
	if !bodyComp.FixedAngle {
		if radius > 0 {
			moment = cp.MomentForCircle(mass, 0, radius, cp.Vector{})
		} else {
			moment = cp.MomentForBox(mass, width, height)
		}
	}

	body := cp.NewBody(mass, moment)
	body.SetPosition(cp.Vector{X: centerX, Y: centerY})
	body.SetAngle(transform.Rotation)
	if scale := bodyComp.GravityScale; scale != 0 && scale != 1 {
		body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping, dt float64) {
			cp.BodyUpdateVelocity(b, gravity.Mult(scale), damping, dt)
		})
	}

	var shape *cp.Shape
	if radius > 0 {
		shape = cp.NewCircle(body, radius, cp.Vector{})
	} else {
		shape = cp.NewBox(body, width, height, 0)
	}
	ps.configureShape(shape, bodyComp, filter, isRunner)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)

	info.body = body
	info.shapes = []*cp.Shape{shape}
	return info
}

func (ps *PhysicsSystem) configureShape(shape *cp.Shape, bodyComp *component.PhysicsBody, filter cp.ShapeFilter, isRunner bool) {
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)
	shape.SetFilter(filter)
	shape.SetSensor(bodyComp.Sensor)
	switch {
	case isRunner:
		shape.SetCollisionType(collisionTypeRunner)
	case bodyComp.Sensor:
		shape.SetCollisionType(collisionTypeTrigger)
	default:
		shape.SetCollisionType(collisionTypeSolid)
	}
}

func shapeFilter(category uint, isRunner bool) cp.ShapeFilter {
	if category == 0 {
		category = component.CategoryGround
	}
	group := cp.NO_GROUP
	if isRunner {
		group = runnerGroup
	}
	return cp.ShapeFilter{Group: group, Categories: category, Mask: cp.ALL_CATEGORIES}
}

// syncWorldBounds adds left, right and top walls around the level. The
// bottom stays open so falling out of the level is possible.
func (ps *PhysicsSystem) syncWorldBounds(w *ecs.World) {
	if ps.space == nil || w == nil {
		return
	}
	boundsEntity, ok := w.First(component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}
	if _, exists := ps.entities[boundsEntity]; exists {
		return
	}
	bounds, ok := ecs.Get(w, boundsEntity, component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}

	worldW := bounds.Width
	worldH := bounds.Height
	if worldW <= 0 || worldH <= 0 {
		return
	}

	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: worldW, Y: 0}},
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: worldH}},
		{a: cp.Vector{X: worldW, Y: 0}, b: cp.Vector{X: worldW, Y: worldH}},
	}

	info := &bodyInfo{static: true, body: ps.space.StaticBody}
	for _, seg := range segments {
		shape := cp.NewSegment(ps.space.StaticBody, seg.a, seg.b, 1)
		shape.SetFriction(0)
		shape.SetCollisionType(collisionTypeSolid)
		shape.SetFilter(cp.ShapeFilter{Group: cp.NO_GROUP, Categories: component.CategoryBounds, Mask: cp.ALL_CATEGORIES})
		ps.space.AddShape(shape)
		info.shapes = append(info.shapes, shape)
	}

	ps.entities[boundsEntity] = info
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	if w == nil {
		return
	}
	entities := w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind())
	for _, e := range entities {
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok || bodyComp.Body == nil || bodyComp.Static {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		pos := bodyComp.Body.Position()
		if bodyComp.AlignTopLeft {
			transform.X = pos.X - bodyComp.Width/2.0 - bodyComp.OffsetX
			transform.Y = pos.Y - bodyComp.Height/2.0 - bodyComp.OffsetY
		} else {
			transform.X = pos.X - bodyComp.OffsetX
			transform.Y = pos.Y - bodyComp.OffsetY
		}
		transform.Rotation = bodyComp.Body.Angle()
	}
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) && (ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) || ecs.Has(w, e, component.LevelBoundsComponent.Kind())) {
			continue
		}

		for _, shape := range info.shapes {
			if shape == nil || ps.space == nil {
				continue
			}
			ps.space.RemoveShape(shape)
			delete(ps.shapes, shape)
		}
		if info.body != nil && !info.static && ps.space != nil {
			ps.space.RemoveBody(info.body)
		}

		delete(ps.entities, e)
		delete(ps.pending, e)
	}
}

// Reset drops every body and starts a fresh space, used when the level is
// rebuilt.
func (ps *PhysicsSystem) Reset() {
	if ps == nil {
		return
	}
	ps.space = newSpace()
	ps.handlersReady = false
	ps.entities = make(map[ecs.Entity]*bodyInfo)
	ps.shapes = make(map[*cp.Shape]shapeInfo)
	ps.pending = make(map[ecs.Entity][]component.Contact)
}

func (ps *PhysicsSystem) logf(msg string, keyvals ...any) {
	if ps == nil || ps.log == nil {
		return
	}
	ps.log.Debug(msg, keyvals...)
}
