package preview

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"

	"preset-library/library"
)

const (
	swatchWidth  = 96
	swatchHeight = 64
)

// SwatchRenderer is the built-in render collaborator: it paints a small
// PNG swatch whose tone follows the adjustment values, so the service
// works without the real adjustment engine attached.
type SwatchRenderer struct{}

func NewSwatchRenderer() *SwatchRenderer { return &SwatchRenderer{} }

func (r *SwatchRenderer) RenderPreview(ctx context.Context, adj library.Adjustments) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := 128.0 + adj["exposure"]*25.0
	red := base + adj["temperature"]*0.3
	green := base + adj["tint"]*0.3
	blue := base - adj["temperature"]*0.3
	contrast := 1.0 + adj["contrast"]/200.0

	img := image.NewRGBA(image.Rect(0, 0, swatchWidth, swatchHeight))
	for x := 0; x < swatchWidth; x++ {
		// Horizontal ramp so contrast is visible across the swatch.
		ramp := (float64(x)/swatchWidth - 0.5) * 64.0 * contrast
		c := color.RGBA{
			R: clamp8(red + ramp),
			G: clamp8(green + ramp),
			B: clamp8(blue + ramp),
			A: 255,
		}
		for y := 0; y < swatchHeight; y++ {
			img.SetRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
