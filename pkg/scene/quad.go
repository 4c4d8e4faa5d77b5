package scene

import (
	"github.com/decker502/spritetool/internal/atlas"
	"github.com/decker502/spritetool/internal/compound"
	"github.com/gogpu/gg"
)

// Quad is a sprite rectangle in output space. Corners run min-min, max-min,
// max-max, min-max in the sprite's local axes; UV matches corner for corner.
type Quad struct {
	Pos [4]gg.Point
	UV  [4]gg.Point
}

// SpriteQuad lays out a cell for a pose. The cell is anchored by the pose's
// alignment (unknown X modes anchor left, unknown Y modes anchor top), scaled
// by the pose scale times the cell's texture scale, mirrored by the flip bits,
// offset by the pose position, and mapped through m. Angle is not applied.
func SpriteQuad(cell atlas.SpriteCell, s compound.ActorState, m gg.Matrix) Quad {
	w, h := float64(cell.W), float64(cell.H)

	minX, maxX := 0.0, w
	switch s.AlignX {
	case compound.AlignCentre:
		minX, maxX = -w/2, w/2
	case compound.AlignRight:
		minX, maxX = -w, 0
	}

	minY, maxY := 0.0, h
	switch s.AlignY {
	case compound.AlignCentre:
		minY, maxY = -h/2, h/2
	case compound.AlignBottom:
		minY, maxY = -h, 0
	}

	sx := s.ScaleX * cell.TextureScale
	sy := s.ScaleY * cell.TextureScale
	if s.Flip.X() {
		sx = -sx
	}
	if s.Flip.Y() {
		sy = -sy
	}

	minX, maxX = minX*sx+s.PosX, maxX*sx+s.PosX
	minY, maxY = minY*sy+s.PosY, maxY*sy+s.PosY

	return Quad{
		Pos: [4]gg.Point{
			m.TransformPoint(gg.Pt(minX, minY)),
			m.TransformPoint(gg.Pt(maxX, minY)),
			m.TransformPoint(gg.Pt(maxX, maxY)),
			m.TransformPoint(gg.Pt(minX, maxY)),
		},
		UV: [4]gg.Point{
			gg.Pt(cell.MinU, cell.MinV),
			gg.Pt(cell.MaxU, cell.MinV),
			gg.Pt(cell.MaxU, cell.MaxV),
			gg.Pt(cell.MinU, cell.MaxV),
		},
	}
}

// Bounds returns the axis-aligned box around the quad.
func (q Quad) Bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = q.Pos[0].X, q.Pos[0].Y
	maxX, maxY = minX, minY
	for _, p := range q.Pos[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}
