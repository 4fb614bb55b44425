package render

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"mathwizard/game"
)

//go:embed assets/*.svg
var assetFS embed.FS

// spriteSizes is the raster size of each embedded SVG. Enemy sprites are
// small and drawn scaled by their kind's Scale.
var spriteSizes = map[string]int{
	"wizard":  64,
	"ghost":   32,
	"shadow":  32,
	"plant":   32,
	"droplet": 16,
	"heart":   24,
}

// Sprites holds the rasterized sprite sheet
type Sprites struct {
	images map[string]*ebiten.Image
}

// LoadSprites rasterizes every embedded SVG
func LoadSprites() (*Sprites, error) {
	s := &Sprites{images: make(map[string]*ebiten.Image, len(spriteSizes))}
	for name, size := range spriteSizes {
		data, err := assetFS.ReadFile("assets/" + name + ".svg")
		if err != nil {
			return nil, fmt.Errorf("read sprite %s: %w", name, err)
		}
		img, err := svgToPNG(data, size, size)
		if err != nil {
			return nil, fmt.Errorf("rasterize sprite %s: %w", name, err)
		}
		s.images[name] = ebiten.NewImageFromImage(img)

		if os.Getenv("DEBUG_SPRITES") == "1" {
			saveDebugPNG(img, "debug_"+name+".png")
		}
	}
	return s, nil
}

// Get returns a sprite by name, or nil
func (s *Sprites) Get(name string) *ebiten.Image {
	if s == nil {
		return nil
	}
	return s.images[name]
}

// Enemy returns the sprite for an enemy kind. Unknown kinds fall back to the ghost.
func (s *Sprites) Enemy(kind game.EnemyKind) *ebiten.Image {
	if img := s.Get(string(kind)); img != nil {
		return img
	}
	return s.Get("ghost")
}

// svgToPNG converts SVG data to an image of the given size
func svgToPNG(svgData []byte, width, height int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}

// saveDebugPNG saves a PNG image for debugging purposes
func saveDebugPNG(img image.Image, filename string) {
	f, err := os.Create(filename)
	if err != nil {
		log.Printf("Failed to create debug PNG: %v", err)
		return
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		log.Printf("Failed to encode debug PNG: %v", err)
	}
}
