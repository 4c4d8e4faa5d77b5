package compound

import "testing"

// TestColourPacking tests the 0xAABBGGRR layout in both directions
func TestColourPacking(t *testing.T) {
	tests := []struct {
		packed uint32
		want   Colour
	}{
		{0xFFFFFFFF, White},
		{0x00000000, Colour{}},
		{0xFF0000FF, Colour{R: 255, A: 255}},
		{0x80402010, Colour{R: 0x10, G: 0x20, B: 0x40, A: 0x80}},
	}

	for _, tt := range tests {
		got := ColourFromPacked(tt.packed)
		if got != tt.want {
			t.Errorf("ColourFromPacked(%#x) = %+v, want %+v", tt.packed, got, tt.want)
		}
		if got.Packed() != tt.packed {
			t.Errorf("Packed() = %#x, want %#x", got.Packed(), tt.packed)
		}
	}
}

// TestFlipBits tests the mirroring bitmask
func TestFlipBits(t *testing.T) {
	if FlipNone.X() || FlipNone.Y() {
		t.Error("Expected FlipNone to mirror nothing")
	}
	if !FlipX.X() || FlipX.Y() {
		t.Error("Expected FlipX to mirror horizontally only")
	}
	if both := FlipX | FlipY; !both.X() || !both.Y() {
		t.Error("Expected combined flip to mirror both axes")
	}
}

// TestEnumStrings tests readable names for categorical fields
func TestEnumStrings(t *testing.T) {
	if AlignBottom.String() != "Bottom" || Alignment(42).String() != "Alignment(42)" {
		t.Errorf("Unexpected alignment names: %s, %s", AlignBottom, Alignment(42))
	}
	if ActorCompound.String() != "Compound" || ActorType(0).String() != "ActorType(0)" {
		t.Errorf("Unexpected actor type names: %s, %s", ActorCompound, ActorType(0))
	}
}
