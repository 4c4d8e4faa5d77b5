package render

import (
	"github.com/decker502/spritetool/pkg/resources"
	"github.com/decker502/spritetool/pkg/scene"
	"github.com/gogpu/gg"
	"github.com/hajimehoshi/ebiten/v2"
)

var quadIndices = []uint16{0, 1, 2, 2, 3, 0}

// ScreenRenderer draws compound sprites onto ebiten images.
type ScreenRenderer struct {
	cells    cellResolver
	vertices [4]ebiten.Vertex
	options  ebiten.DrawTrianglesOptions
}

// NewScreenRenderer creates a renderer drawing textures from res.
func NewScreenRenderer(res *resources.Manager) *ScreenRenderer {
	return &ScreenRenderer{
		cells:   newCellResolver(res),
		options: ebiten.DrawTrianglesOptions{Filter: ebiten.FilterLinear},
	}
}

// Reset forgets reported missing sprites.
func (r *ScreenRenderer) Reset() {
	r.cells.Reset()
}

// Draw composes the forest at time t through view and draws every resolved
// sprite onto dst.
func (r *ScreenRenderer) Draw(dst *ebiten.Image, tree []*scene.Instance, view gg.Matrix, t float64) Stats {
	var stats Stats
	scene.Compose(tree, view, t, func(p scene.Placement) {
		r.drawPlacement(dst, p, &stats)
	})
	return stats
}

func (r *ScreenRenderer) drawPlacement(dst *ebiten.Image, p scene.Placement, stats *Stats) {
	cell, ok := r.cells.resolve(p, stats)
	if !ok {
		return
	}
	tex, err := r.cells.res.Texture(p.Texture)
	if err != nil {
		stats.Unresolved++
		return
	}

	q := scene.SpriteQuad(cell, p.State, p.Transform)
	bounds := tex.Bounds()
	tw, th := float64(bounds.Dx()), float64(bounds.Dy())
	cr, cg, cb, ca := p.State.Colour.Floats()
	alpha := float32(ca * p.State.Alpha)

	for i := range r.vertices {
		r.vertices[i] = ebiten.Vertex{
			DstX:   float32(q.Pos[i].X),
			DstY:   float32(q.Pos[i].Y),
			SrcX:   float32(q.UV[i].X * tw),
			SrcY:   float32(q.UV[i].Y * th),
			ColorR: float32(cr),
			ColorG: float32(cg),
			ColorB: float32(cb),
			ColorA: alpha,
		}
	}
	dst.DrawTriangles(r.vertices[:], quadIndices, tex, &r.options)
	stats.Drawn++
}
