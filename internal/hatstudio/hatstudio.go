// Package hatstudio places a hat over a photo. Placement is edited in a fixed
// width preview space and exported at the photo's native resolution.
package hatstudio

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register decoder
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register decoder
)

const (
	PreviewWidth  = 420.0
	BaseFraction  = 0.5  // hat width at scale 1, as a fraction of the preview
	DefaultScale  = 0.8  // scale applied when a photo is loaded or reset
	MinScale      = 0.3
	MaxScale      = 3.0
	WheelStep     = 0.001 // scale change per wheel delta unit
	DefaultAspect = 0.65  // hat height/width when the hat has no usable size
	TopFraction   = 0.18  // default hat top as a fraction of preview height
)

// Placement is the hat's top-left corner and scale in preview coordinates.
type Placement struct {
	X     float64
	Y     float64
	Scale float64
}

// Size is a width and height in preview units.
type Size struct {
	W float64
	H float64
}

// PreviewHeight is the preview height that keeps the photo's aspect ratio.
func PreviewHeight(photoW, photoH int) int {
	if photoW <= 0 {
		return 0
	}
	return int(math.Round(PreviewWidth * float64(photoH) / float64(photoW)))
}

// Aspect returns the hat's height/width ratio.
func Aspect(hat image.Image) float64 {
	if hat == nil {
		return DefaultAspect
	}
	b := hat.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return DefaultAspect
	}
	return float64(b.Dy()) / float64(b.Dx())
}

// HatSize is the hat's preview size at scale for a given aspect.
func HatSize(scale, aspect float64) Size {
	w := PreviewWidth * BaseFraction * scale
	return Size{W: w, H: w * aspect}
}

// DefaultPlacement centres the hat horizontally near the top of a preview of
// height previewH.
func DefaultPlacement(previewH int) Placement {
	w := PreviewWidth * BaseFraction * DefaultScale
	return Placement{
		X:     math.Round((PreviewWidth - w) / 2),
		Y:     math.Round(float64(previewH) * TopFraction),
		Scale: DefaultScale,
	}
}

// ClampScale bounds s to [MinScale, MaxScale].
func ClampScale(s float64) float64 {
	return math.Max(MinScale, math.Min(MaxScale, s))
}

// Wheel applies one wheel event. Positive delta (scrolling down) shrinks.
func (p Placement) Wheel(deltaY float64) Placement {
	p.Scale = ClampScale(p.Scale - deltaY*WheelStep)
	return p
}

// Move drags the hat by a pointer delta in preview units.
func (p Placement) Move(dx, dy float64) Placement {
	p.X += dx
	p.Y += dy
	return p
}

// ExportRect maps the placement onto a photo photoW pixels wide.
func ExportRect(p Placement, aspect float64, photoW int) image.Rectangle {
	f := float64(photoW) / PreviewWidth
	sz := HatSize(p.Scale, aspect)
	x := int(math.Round(p.X * f))
	y := int(math.Round(p.Y * f))
	w := int(math.Round(sz.W * f))
	h := int(math.Round(sz.H * f))
	return image.Rect(x, y, x+w, y+h)
}

// Compose draws hat over photo at full photo resolution.
func Compose(photo, hat image.Image, p Placement) (*image.RGBA, error) {
	if photo == nil || hat == nil {
		return nil, fmt.Errorf("compose: photo and hat are required")
	}
	pb := photo.Bounds()
	if pb.Empty() {
		return nil, fmt.Errorf("compose: empty photo")
	}
	out := image.NewRGBA(image.Rect(0, 0, pb.Dx(), pb.Dy()))
	draw.Draw(out, out.Bounds(), photo, pb.Min, draw.Src)

	r := ExportRect(p, Aspect(hat), pb.Dx())
	if r.Empty() {
		return out, nil
	}
	draw.CatmullRom.Scale(out, r, hat, hat.Bounds(), draw.Over, nil)
	return out, nil
}

// Decode reads a PNG, JPEG or WebP image.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Hat colours offered when no hat image is supplied.
var (
	HatBlack = color.RGBA{R: 33, G: 33, B: 33, A: 255}
	HatBrown = color.RGBA{R: 109, G: 76, B: 65, A: 255}
)

// DrawHat renders a simple bucket hat w pixels wide with DefaultAspect height
// on a transparent background.
func DrawHat(w int, fill color.RGBA) *image.RGBA {
	if w < 10 {
		w = 10
	}
	h := int(math.Round(float64(w) * DefaultAspect))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	band := color.RGBA{R: fill.R / 2, G: fill.G / 2, B: fill.B / 2, A: 255}

	brimTop := h * 3 / 4
	crownL, crownR := w/5, w-w/5
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch {
			case y >= brimTop:
				img.SetRGBA(x, y, fill)
			case x >= crownL && x < crownR && y >= h/8:
				if y >= brimTop-h/8 {
					img.SetRGBA(x, y, band)
				} else {
					img.SetRGBA(x, y, fill)
				}
			}
		}
	}
	return img
}
