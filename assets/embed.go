package assets

import (
	"bytes"
	"embed"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

//go:embed *.yaml
var assetsFS embed.FS

// LoadFile loads an asset by assets-relative path. A file under ./assets on
// disk wins over the embedded copy so sounds can be swapped without a rebuild.
func LoadFile(path string) ([]byte, error) {
	clean := cleanAssetPath(path)
	if data, err := os.ReadFile(filepath.Join("assets", filepath.FromSlash(clean))); err == nil {
		return data, nil
	}
	return assetsFS.ReadFile(clean)
}

// LoadImage loads an image asset by assets-relative path.
func LoadImage(path string) (*ebiten.Image, error) {
	b, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return ebiten.NewImageFromImage(img), nil
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		s := filepath.ToSlash(path)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s := filepath.ToSlash(path)
	return strings.TrimPrefix(s, "assets/")
}
