package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

const DefaultTileSize = 32

type Level struct {
	TileSize  int         `json:"tile_size"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`
}

// LayerMeta describes how a tile layer is built. Physics layers become
// merged static colliders carrying Tag. Color is a #rrggbb[aa] fill.
type LayerMeta struct {
	Name     string `json:"name,omitempty"`
	Physics  bool   `json:"physics"`
	Tag      string `json:"tag,omitempty"`
	Category string `json:"category,omitempty"`
	Color    string `json:"color,omitempty"`
}

type Entity struct {
	Type  string                 `json:"type"`
	X     int                    `json:"x"`
	Y     int                    `json:"y"`
	Props map[string]interface{} `json:"props,omitempty"`
}

// Meta returns the metadata of layer i, or the zero value.
func (l *Level) Meta(i int) LayerMeta {
	if l == nil || i < 0 || i >= len(l.LayerMeta) {
		return LayerMeta{}
	}
	return l.LayerMeta[i]
}

// PixelSize returns the level extent in world pixels.
func (l *Level) PixelSize() (float64, float64) {
	ts := float64(l.TileSize)
	return float64(l.Width) * ts, float64(l.Height) * ts
}

// Validate checks that every layer covers the full grid.
func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("level size %dx%d is empty", l.Width, l.Height)
	}
	if l.TileSize <= 0 {
		return fmt.Errorf("tile size %d must be positive", l.TileSize)
	}
	var errs []error
	for i, layer := range l.Layers {
		if len(layer) != l.Width*l.Height {
			errs = append(errs, fmt.Errorf("layer %d has %d tiles, want %d", i, len(layer), l.Width*l.Height))
		}
	}
	for i, ent := range l.Entities {
		if strings.TrimSpace(ent.Type) == "" {
			errs = append(errs, fmt.Errorf("entity %d has no type", i))
		}
	}
	return errors.Join(errs...)
}

// Load reads a level by name. A copy under levels/ on disk wins over the
// embedded one so levels can be edited without rebuilding.
func Load(name string) (*Level, error) {
	name = cleanLevelPath(name)
	if data, err := os.ReadFile(DiskPath(name)); err == nil {
		return decode(name, data)
	}
	return LoadLevelFromFS(name)
}

func LoadLevelFromFS(name string) (*Level, error) {
	name = cleanLevelPath(name)
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return decode(name, data)
}

func decode(name string, data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level %q: %w", name, err)
	}
	if lvl.TileSize == 0 {
		lvl.TileSize = DefaultTileSize
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("level %q: %w", name, err)
	}
	return &lvl, nil
}

// List returns the embedded level names in order.
func List() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(path.Ext(e.Name()), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// DiskPath is where the editable copy of a level lives.
func DiskPath(name string) string {
	return filepath.Join("levels", filepath.FromSlash(cleanLevelPath(name)))
}

func cleanLevelPath(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimPrefix(name, "levels/")
	if name != "" && path.Ext(name) == "" {
		name += ".json"
	}
	return path.Clean(name)
}
