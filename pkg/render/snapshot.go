package render

import (
	"image"
	"image/color"
	"math"

	"github.com/decker502/spritetool/internal/atlas"
	"github.com/decker502/spritetool/internal/compound"
	"github.com/decker502/spritetool/pkg/resources"
	"github.com/decker502/spritetool/pkg/scene"
	"github.com/gogpu/gg"
)

// SnapshotOptions configure an offscreen render.
type SnapshotOptions struct {
	Width, Height int
	Background    color.Color

	// Bounds outlines every drawn sprite.
	Bounds      bool
	BoundsColor color.Color
}

// Snapshot renders one frame into a new gg context. The caller owns the
// context and must Close it.
//
// gg draws images as axis-aligned rectangles, so mirrored sprites are
// mirrored in the source pixels and rotation is not supported (the quad
// layout never rotates anyway). Colour tints are applied to the source pixels.
func Snapshot(res *resources.Manager, tree []*scene.Instance, view gg.Matrix, t float64, opts SnapshotOptions) (*gg.Context, Stats, error) {
	dc := gg.NewContext(opts.Width, opts.Height)
	if opts.Background != nil {
		dc.ClearWithColor(gg.FromColor(opts.Background))
	}

	cells := newCellResolver(res)
	var stats Stats
	var firstErr error

	scene.Compose(tree, view, t, func(p scene.Placement) {
		cell, ok := cells.resolve(p, &stats)
		if !ok {
			return
		}
		src, err := res.DecodeImage(p.Texture)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			stats.Unresolved++
			return
		}

		q := scene.SpriteQuad(cell, p.State, p.Transform)
		minX, minY, maxX, maxY := q.Bounds()
		if maxX-minX < 1 || maxY-minY < 1 {
			stats.Hidden++
			return
		}
		flipX := q.Pos[1].X < q.Pos[0].X
		flipY := q.Pos[3].Y < q.Pos[0].Y

		sprite := extractCell(src, cell, p.State.Colour, flipX, flipY)
		dc.DrawImageEx(gg.ImageBufFromImage(sprite), gg.DrawImageOptions{
			X:         minX,
			Y:         minY,
			DstWidth:  maxX - minX,
			DstHeight: maxY - minY,
			Opacity:   min(p.State.Alpha, 1),
		})
		stats.Drawn++

		if opts.Bounds {
			dc.SetColor(opts.BoundsColor)
			dc.SetLineWidth(1)
			dc.DrawRectangle(minX, minY, maxX-minX, maxY-minY)
			_ = dc.Stroke()
		}
	})

	return dc, stats, firstErr
}

// extractCell copies the cell's pixels out of the texture, mirrored and
// tinted as requested.
func extractCell(src image.Image, cell atlas.SpriteCell, tint compound.Colour, flipX, flipY bool) *image.NRGBA {
	b := src.Bounds()
	x0 := b.Min.X + int(math.Round(cell.MinU*float64(b.Dx())))
	y0 := b.Min.Y + int(math.Round(cell.MinV*float64(b.Dy())))
	x1 := b.Min.X + int(math.Round(cell.MaxU*float64(b.Dx())))
	y1 := b.Min.Y + int(math.Round(cell.MaxV*float64(b.Dy())))
	w, h := max(x1-x0, 1), max(y1-y0, 1)

	tr, tg, tb, ta := tint.Floats()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy := x0+x, y0+y
			if flipX {
				sx = x0 + w - 1 - x
			}
			if flipY {
				sy = y0 + h - 1 - y
			}
			c := color.NRGBAModel.Convert(src.At(sx, sy)).(color.NRGBA)
			out.SetNRGBA(x, y, color.NRGBA{
				R: uint8(float64(c.R) * tr),
				G: uint8(float64(c.G) * tg),
				B: uint8(float64(c.B) * tb),
				A: uint8(float64(c.A) * ta),
			})
		}
	}
	return out
}
