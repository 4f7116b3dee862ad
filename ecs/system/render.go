package system

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/dashrunner/ecs"
	"github.com/milk9111/dashrunner/ecs/component"
)

// View maps world coordinates to the screen. The camera transform is the
// center of the view.
type View struct {
	CamX, CamY   float64
	Zoom         float64
	HalfW, HalfH float64
}

func (v View) ToScreen(x, y float64) (float64, float64) {
	return (x-v.CamX)*v.Zoom + v.HalfW, (y-v.CamY)*v.Zoom + v.HalfH
}

// CurrentView returns the view of the first camera for a screen of the given
// size. Without a camera the world origin is the top-left corner.
func CurrentView(w *ecs.World, screenW, screenH int) View {
	view := View{Zoom: 1, HalfW: float64(screenW) / 2, HalfH: float64(screenH) / 2}
	view.CamX, view.CamY = view.HalfW, view.HalfH

	camEntity, ok := ecs.First(w, component.CameraTagComponent.Kind())
	if !ok {
		return view
	}
	if t, ok := ecs.Get(w, camEntity, component.TransformComponent.Kind()); ok {
		view.CamX, view.CamY = t.X, t.Y
	}
	if follow, ok := ecs.Get(w, camEntity, component.CameraFollowComponent.Kind()); ok && follow.Zoom > 0 {
		view.Zoom = follow.Zoom
	}
	return view
}

type RenderSystem struct {
	Background color.Color
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{Background: color.NRGBA{R: 0x1b, G: 0x1f, B: 0x2a, A: 0xff}}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	if r.Background != nil {
		screen.Fill(r.Background)
	}

	b := screen.Bounds()
	view := CurrentView(w, b.Dx(), b.Dy())

	for _, e := range drawOrder(w) {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		s, ok := ecs.Get(w, e, component.SpriteComponent.Kind())
		if !ok || s.Hidden {
			continue
		}

		sx := t.ScaleX
		if sx == 0 {
			sx = 1
		}
		sy := t.ScaleY
		if sy == 0 {
			sy = 1
		}

		if s.Image == nil {
			if s.Color == nil || s.Width <= 0 || s.Height <= 0 {
				continue
			}
			x, y := view.ToScreen(t.X-s.OriginX*sx, t.Y-s.OriginY*sy)
			vector.DrawFilledRect(screen, float32(x), float32(y), float32(s.Width*sx*view.Zoom), float32(s.Height*sy*view.Zoom), s.Color, false)
			continue
		}

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-s.OriginX, -s.OriginY)
		op.GeoM.Scale(sx, sy)
		op.GeoM.Rotate(t.Rotation)
		op.GeoM.Scale(view.Zoom, view.Zoom)
		x, y := view.ToScreen(t.X, t.Y)
		op.GeoM.Translate(x, y)
		screen.DrawImage(s.Image, op)
	}
}

// drawOrder sorts drawable entities by render layer, then by entity id.
func drawOrder(w *ecs.World) []ecs.Entity {
	entities := w.Query(component.TransformComponent.Kind(), component.SpriteComponent.Kind())
	layer := func(e ecs.Entity) int {
		if l, ok := ecs.Get(w, e, component.RenderLayerComponent.Kind()); ok {
			return l.Index
		}
		return 0
	}
	sort.SliceStable(entities, func(i, j int) bool {
		li, lj := layer(entities[i]), layer(entities[j])
		if li != lj {
			return li < lj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})
	return entities
}
