package entity

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/milk9111/dashrunner/ecs"
	"github.com/milk9111/dashrunner/ecs/component"
	"github.com/milk9111/dashrunner/levels"
	"github.com/milk9111/dashrunner/prefabs"
)

// Level entity types and the prefab each one is built from.
var levelPrefabs = map[string]string{
	"player":   "player.yaml",
	"camera":   "camera.yaml",
	"obstacle": "obstacle.yaml",
	"goal":     "goal.yaml",
	"stopper":  "stopper.yaml",
}

// tileRect is a run of filled tiles merged into one rectangle, in tiles.
type tileRect struct {
	X, Y, W, H int
}

// LoadLevelToWorld builds the level bounds, one entity per merged tile run
// of every layer, and the level's placed entities.
func LoadLevelToWorld(world *ecs.World, lvl *levels.Level) error {
	if world == nil || lvl == nil {
		return fmt.Errorf("level: world and level are required")
	}
	tileSize := float64(lvl.TileSize)
	if tileSize <= 0 {
		tileSize = levels.DefaultTileSize
	}

	pxW, pxH := float64(lvl.Width)*tileSize, float64(lvl.Height)*tileSize
	boundsEntity := ecs.CreateEntity(world)
	if err := ecs.Add(world, boundsEntity, component.LevelBoundsComponent.Kind(), &component.LevelBounds{Width: pxW, Height: pxH}); err != nil {
		return fmt.Errorf("level: add bounds: %w", err)
	}

	for layerIdx, layer := range lvl.Layers {
		meta := lvl.Meta(layerIdx)
		if err := addLayer(world, layerIdx, layer, meta, lvl.Width, lvl.Height, tileSize); err != nil {
			return fmt.Errorf("level: layer %d (%s): %w", layerIdx, meta.Name, err)
		}
	}

	for i, ent := range lvl.Entities {
		prefab, ok := levelPrefabs[strings.ToLower(strings.TrimSpace(ent.Type))]
		if !ok {
			return fmt.Errorf("level: entity %d: unknown type %q", i, ent.Type)
		}
		if _, err := BuildEntityAt(world, prefab, float64(ent.X), float64(ent.Y)); err != nil {
			return fmt.Errorf("level: entity %d: %w", i, err)
		}
	}

	return nil
}

func addLayer(world *ecs.World, layerIdx int, layer []int, meta levels.LayerMeta, width, height int, tileSize float64) error {
	var fill color.Color = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	if meta.Color != "" {
		parsed, err := prefabs.ParseHexColor(meta.Color)
		if err != nil {
			return err
		}
		fill = parsed
	}

	var category uint
	if meta.Physics {
		cat, ok := component.CategoryByName(meta.Category)
		if !ok {
			return fmt.Errorf("unknown collision category %q", meta.Category)
		}
		category = cat
	}

	for _, r := range mergeTileRects(layer, width, height) {
		e := ecs.CreateEntity(world)
		if err := ecs.Add(world, e, component.TransformComponent.Kind(), &component.Transform{
			X:      float64(r.X) * tileSize,
			Y:      float64(r.Y) * tileSize,
			ScaleX: 1,
			ScaleY: 1,
		}); err != nil {
			return err
		}
		if err := ecs.Add(world, e, component.SpriteComponent.Kind(), &component.Sprite{
			Width:  float64(r.W) * tileSize,
			Height: float64(r.H) * tileSize,
			Color:  fill,
		}); err != nil {
			return err
		}
		if err := ecs.Add(world, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: layerIdx}); err != nil {
			return err
		}
		if !meta.Physics {
			continue
		}
		if err := ecs.Add(world, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
			Width:        float64(r.W) * tileSize,
			Height:       float64(r.H) * tileSize,
			Static:       true,
			AlignTopLeft: true,
			Category:     category,
		}); err != nil {
			return err
		}
		if meta.Tag != "" {
			if err := ecs.Add(world, e, component.CollisionTagComponent.Kind(), &component.CollisionTag{Tag: meta.Tag}); err != nil {
				return err
			}
		}
	}
	return nil
}

// mergeTileRects greedily covers the filled tiles of a layer with as few
// rectangles as it can: widest run first, then grown downward.
func mergeTileRects(layer []int, width, height int) []tileRect {
	if width <= 0 || height <= 0 {
		return nil
	}
	visited := make([]bool, width*height)
	index := func(x, y int) int { return y*width + x }
	filled := func(idx int) bool { return idx < len(layer) && !visited[idx] && layer[idx] > 0 }

	var rects []tileRect
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !filled(index(x, y)) {
				continue
			}

			maxW := 0
			for x2 := x; x2 < width && filled(index(x2, y)); x2++ {
				maxW++
			}

			maxH := 1
			for y2 := y + 1; y2 < height; y2++ {
				rowOK := true
				for x2 := x; x2 < x+maxW; x2++ {
					if !filled(index(x2, y2)) {
						rowOK = false
						break
					}
				}
				if !rowOK {
					break
				}
				maxH++
			}

			for yy := y; yy < y+maxH; yy++ {
				for xx := x; xx < x+maxW; xx++ {
					visited[index(xx, yy)] = true
				}
			}
			rects = append(rects, tileRect{X: x, Y: y, W: maxW, H: maxH})
		}
	}
	return rects
}
