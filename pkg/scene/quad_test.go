package scene

import (
	"testing"

	"github.com/decker502/spritetool/internal/atlas"
	"github.com/decker502/spritetool/internal/compound"
	"github.com/gogpu/gg"
)

func testCell() atlas.SpriteCell {
	return atlas.SpriteCell{
		Name: "hero", X: 0, Y: 0, W: 40, H: 20,
		MinU: 0, MinV: 0, MaxU: 0.5, MaxV: 0.25,
		TextureScale: 1,
	}
}

// TestSpriteQuad_Alignment tests anchoring of the cell rectangle
func TestSpriteQuad_Alignment(t *testing.T) {
	tests := []struct {
		name           string
		alignX, alignY compound.Alignment
		wantMin        gg.Point
		wantMax        gg.Point
	}{
		{"Centre", compound.AlignCentre, compound.AlignCentre, gg.Pt(-20, -10), gg.Pt(20, 10)},
		{"Left Top", compound.AlignLeft, compound.AlignTop, gg.Pt(0, 0), gg.Pt(40, 20)},
		{"Right Bottom", compound.AlignRight, compound.AlignBottom, gg.Pt(-40, -20), gg.Pt(0, 0)},
		{"Point falls back", compound.AlignPoint, compound.AlignPoint, gg.Pt(0, 0), gg.Pt(40, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := compound.DefaultActorState(1)
			s.AlignX, s.AlignY = tt.alignX, tt.alignY

			q := SpriteQuad(testCell(), s, gg.Identity())
			if q.Pos[0] != tt.wantMin || q.Pos[2] != tt.wantMax {
				t.Errorf("Expected %v-%v, got %v-%v", tt.wantMin, tt.wantMax, q.Pos[0], q.Pos[2])
			}
		})
	}
}

// TestSpriteQuad_ScaleFlipPosition tests scale, texture scale, mirroring and offset
func TestSpriteQuad_ScaleFlipPosition(t *testing.T) {
	cell := testCell()
	cell.TextureScale = 0.5

	s := compound.DefaultActorState(1)
	s.AlignX, s.AlignY = compound.AlignLeft, compound.AlignTop
	s.ScaleX, s.ScaleY = 2, 4
	s.Flip = compound.FlipX
	s.PosX, s.PosY = 100, 50

	q := SpriteQuad(cell, s, gg.Translate(1, 1))

	// x: [0,40] * (2*0.5) * -1 + 100 = [100, 60]; y: [0,20] * (4*0.5) + 50 = [50, 90]
	if q.Pos[0] != gg.Pt(101, 51) || q.Pos[2] != gg.Pt(61, 91) {
		t.Errorf("Unexpected corners %v and %v", q.Pos[0], q.Pos[2])
	}
	minX, minY, maxX, maxY := q.Bounds()
	if minX != 61 || minY != 51 || maxX != 101 || maxY != 91 {
		t.Errorf("Unexpected bounds (%v,%v)-(%v,%v)", minX, minY, maxX, maxY)
	}
	if q.UV[0] != gg.Pt(0, 0) || q.UV[2] != gg.Pt(0.5, 0.25) {
		t.Errorf("Unexpected UVs %v and %v", q.UV[0], q.UV[2])
	}
}
