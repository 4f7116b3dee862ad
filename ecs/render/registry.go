// Package render caches decoded sprite images.
package render

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

var (
	mu     sync.RWMutex
	images = map[string]*ebiten.Image{}
)

// RegisterImage stores an image by key.
func RegisterImage(key string, img *ebiten.Image) {
	if key == "" || img == nil {
		return
	}
	mu.Lock()
	images[key] = img
	mu.Unlock()
}

// GetImage returns a cached image by key.
func GetImage(key string) *ebiten.Image {
	if key == "" {
		return nil
	}
	mu.RLock()
	defer mu.RUnlock()
	return images[key]
}

// ForgetImages drops the cache so edited images are decoded again.
func ForgetImages() {
	mu.Lock()
	images = map[string]*ebiten.Image{}
	mu.Unlock()
}
