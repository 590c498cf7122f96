package models

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"

	"github.com/taigrr/toyrender/pkg/asset"
	"github.com/taigrr/toyrender/pkg/pixmap"
	"github.com/taigrr/toyrender/pkg/tga"
)

// LoadTexture loads a diffuse texture, choosing the decoder by extension:
// ".tga" goes through the TGA decoder, anything else through the registered
// image decoders (PNG, JPEG). The result has its origin at the top left.
func LoadTexture(path string) (*pixmap.Pixmap, error) {
	if asset.Ext(path) == ".tga" {
		return tga.Load(path)
	}

	rc, err := asset.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer rc.Close()

	return decodeImage(rc)
}

func decodeImage(r io.Reader) (*pixmap.Pixmap, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return pixmap.FromImage(img), nil
}

// CheckerTexture is the stand-in diffuse map for models without a texture.
func CheckerTexture() *pixmap.Pixmap {
	return pixmap.NewChecker(64, 64, 8, pixmap.RGB(200, 200, 200), pixmap.RGB(90, 90, 90))
}
