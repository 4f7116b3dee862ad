package render

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/dashrunner/assets"
)

// LoadImage loads an image asset and caches it by path, so rebuilding a
// level on restart does not decode the same sprite twice.
func LoadImage(key string) (*ebiten.Image, error) {
	if key == "" {
		return nil, fmt.Errorf("render: empty image key")
	}
	if img := GetImage(key); img != nil {
		return img, nil
	}
	img, err := assets.LoadImage(key)
	if err != nil {
		return nil, fmt.Errorf("render: load image %s: %w", key, err)
	}
	RegisterImage(key, img)
	return img, nil
}
