package atlas

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const inGameXML = `<?xml version="1.0" encoding="utf-8"?>
<SpriteInformation>
	<FrameInformation name="InGame" type="png" texw="1024" texh="512">
		<Cell name="hero" x="0" y="0" w="64" h="64"/>
		<Animation name="walk">
			<Cell name="walk_0" x="64" y="0" w="32" h="64" ax="2" ay="1" aw="28" ah="62"/>
			<Cell name="walk_1" x="96" y="0" w="32" h="64"/>
		</Animation>
		<Cell name="banner" x="512" y="256" w="512" h="256"/>
	</FrameInformation>
</SpriteInformation>`

// TestParse_Success tests parsing of a description with plain and grouped cells
func TestParse_Success(t *testing.T) {
	a, err := Parse([]byte(inGameXML))
	if err != nil {
		t.Fatalf("Failed to parse atlas: %v", err)
	}

	if a.TextureName != "InGame" {
		t.Errorf("Expected TextureName='InGame', got '%s'", a.TextureName)
	}
	if a.TextureType != "png" {
		t.Errorf("Expected TextureType='png', got '%s'", a.TextureType)
	}
	if a.TextureWidth != 1024 || a.TextureHeight != 512 {
		t.Errorf("Expected texture 1024x512, got %dx%d", a.TextureWidth, a.TextureHeight)
	}
	if a.Len() != 4 {
		t.Errorf("Expected 4 cells, got %d", a.Len())
	}

	want := []string{"hero", "walk_0", "walk_1", "banner"}
	got := a.Names()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Expected names %v, got %v", want, got)
	}
	if !a.Normalized() {
		t.Error("Expected parsed atlas to be normalized")
	}
}

// TestParse_TrimRect tests that ax/ay/aw/ah are optional and default to zero
func TestParse_TrimRect(t *testing.T) {
	a, err := Parse([]byte(inGameXML))
	if err != nil {
		t.Fatalf("Failed to parse atlas: %v", err)
	}

	trimmed, ok := a.Lookup("walk_0")
	if !ok {
		t.Fatal("Expected walk_0 to exist")
	}
	if trimmed.AX != 2 || trimmed.AY != 1 || trimmed.AW != 28 || trimmed.AH != 62 {
		t.Errorf("Expected trim (2,1,28,62), got (%d,%d,%d,%d)", trimmed.AX, trimmed.AY, trimmed.AW, trimmed.AH)
	}
	if !trimmed.Trimmed() {
		t.Error("Expected walk_0 to report Trimmed")
	}

	plain, _ := a.Lookup("walk_1")
	if plain.AX != 0 || plain.AY != 0 || plain.AW != 0 || plain.AH != 0 {
		t.Errorf("Expected zero trim rect, got (%d,%d,%d,%d)", plain.AX, plain.AY, plain.AW, plain.AH)
	}
	if plain.Trimmed() {
		t.Error("Expected walk_1 not to report Trimmed")
	}
}

// TestParse_NormalizedCoordinates tests minU = x/texW, maxU = (x+w)/texW etc.
func TestParse_NormalizedCoordinates(t *testing.T) {
	a, err := Parse([]byte(inGameXML))
	if err != nil {
		t.Fatalf("Failed to parse atlas: %v", err)
	}

	for name, c := range a.SpriteData() {
		wantMinU := float64(c.X) / 1024
		wantMinV := float64(c.Y) / 512
		wantMaxU := float64(c.X+c.W) / 1024
		wantMaxV := float64(c.Y+c.H) / 512
		if math.Abs(c.MinU-wantMinU) > 1e-12 || math.Abs(c.MinV-wantMinV) > 1e-12 ||
			math.Abs(c.MaxU-wantMaxU) > 1e-12 || math.Abs(c.MaxV-wantMaxV) > 1e-12 {
			t.Errorf("%s: got UV (%v,%v)-(%v,%v), want (%v,%v)-(%v,%v)", name,
				c.MinU, c.MinV, c.MaxU, c.MaxV, wantMinU, wantMinV, wantMaxU, wantMaxV)
		}
	}

	banner, _ := a.Lookup("banner")
	if banner.MinU != 0.5 || banner.MinV != 0.5 || banner.MaxU != 1 || banner.MaxV != 1 {
		t.Errorf("Expected banner UV (0.5,0.5)-(1,1), got (%v,%v)-(%v,%v)",
			banner.MinU, banner.MinV, banner.MaxU, banner.MaxV)
	}
}

// TestLookup_NotFound tests that a missing cell is a normal outcome
func TestLookup_NotFound(t *testing.T) {
	a, err := Parse([]byte(inGameXML))
	if err != nil {
		t.Fatalf("Failed to parse atlas: %v", err)
	}

	if _, ok := a.Lookup("does_not_exist"); ok {
		t.Error("Expected lookup of unknown cell to report not found")
	}
}

// TestParse_DuplicateNameLastWins tests that a later cell replaces an earlier one
func TestParse_DuplicateNameLastWins(t *testing.T) {
	xmlData := `<SpriteInformation><FrameInformation name="T" type="png" texw="100" texh="100">
		<Cell name="a" x="0" y="0" w="10" h="10"/>
		<Cell name="b" x="10" y="0" w="10" h="10"/>
		<Cell name="a" x="50" y="50" w="20" h="20"/>
	</FrameInformation></SpriteInformation>`

	a, err := Parse([]byte(xmlData))
	if err != nil {
		t.Fatalf("Failed to parse atlas: %v", err)
	}

	c, _ := a.Lookup("a")
	if c.X != 50 || c.W != 20 {
		t.Errorf("Expected last 'a' to win (x=50, w=20), got x=%d w=%d", c.X, c.W)
	}
	if got := strings.Join(a.Names(), ","); got != "a,b" {
		t.Errorf("Expected names 'a,b', got '%s'", got)
	}
}

// TestParse_Errors tests that malformed descriptions abort the whole parse
func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name        string
		xmlData     string
		expectAttr  string
		expectError string
	}{
		{
			name:        "Invalid XML",
			xmlData:     `<SpriteInformation><FrameInformation`,
			expectError: "atlas:",
		},
		{
			name:        "Wrong root",
			xmlData:     `<Something/>`,
			expectError: "SpriteInformation",
		},
		{
			name:        "Missing FrameInformation",
			xmlData:     `<SpriteInformation></SpriteInformation>`,
			expectError: "missing FrameInformation",
		},
		{
			name:        "Missing texw",
			xmlData:     `<SpriteInformation><FrameInformation name="T" type="png" texh="4"/></SpriteInformation>`,
			expectAttr:  "texw",
			expectError: "missing required attribute",
		},
		{
			name: "Cell missing w",
			xmlData: `<SpriteInformation><FrameInformation name="T" type="png" texw="4" texh="4">
				<Cell name="ok" x="0" y="0" w="1" h="1"/>
				<Cell name="bad" x="0" y="0" h="1"/>
			</FrameInformation></SpriteInformation>`,
			expectAttr:  "w",
			expectError: `Cell "bad"`,
		},
		{
			name: "Cell missing name",
			xmlData: `<SpriteInformation><FrameInformation name="T" type="png" texw="4" texh="4">
				<Cell x="0" y="0" w="1" h="1"/>
			</FrameInformation></SpriteInformation>`,
			expectAttr:  "name",
			expectError: "Cell #0",
		},
		{
			name: "Malformed x",
			xmlData: `<SpriteInformation><FrameInformation name="T" type="png" texw="4" texh="4">
				<Cell name="c" x="abc" y="0" w="1" h="1"/>
			</FrameInformation></SpriteInformation>`,
			expectAttr:  "x",
			expectError: "invalid syntax",
		},
		{
			name: "Malformed optional trim",
			xmlData: `<SpriteInformation><FrameInformation name="T" type="png" texw="4" texh="4">
				<Cell name="c" x="0" y="0" w="1" h="1" aw="wide"/>
			</FrameInformation></SpriteInformation>`,
			expectAttr:  "aw",
			expectError: "invalid syntax",
		},
		{
			name: "Malformed cell inside animation",
			xmlData: `<SpriteInformation><FrameInformation name="T" type="png" texw="4" texh="4">
				<Animation name="run"><Cell name="r0" x="0" y="-1" w="1" h="1"/></Animation>
			</FrameInformation></SpriteInformation>`,
			expectAttr:  "y",
			expectError: "negative value",
		},
		{
			name:        "Zero texture size",
			xmlData:     `<SpriteInformation><FrameInformation name="T" type="png" texw="0" texh="4"/></SpriteInformation>`,
			expectError: "cannot normalize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Parse([]byte(tt.xmlData))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if a != nil {
				t.Error("Expected nil atlas on error")
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Expected *ParseError, got %T: %v", err, err)
			}
			if tt.expectAttr != "" && pe.Attr != tt.expectAttr {
				t.Errorf("Expected Attr='%s', got '%s'", tt.expectAttr, pe.Attr)
			}
			if !strings.Contains(err.Error(), tt.expectError) {
				t.Errorf("Expected error containing '%s', got '%s'", tt.expectError, err.Error())
			}
		})
	}
}

// TestParseFile tests reading from disk, including the missing-file case
func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "InGame.xml")
	if err := os.WriteFile(path, []byte(inGameXML), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	a, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if a.Len() != 4 {
		t.Errorf("Expected 4 cells, got %d", a.Len())
	}

	_, err = ParseFile(filepath.Join(dir, "missing.xml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read atlas file") {
		t.Errorf("Expected read error, got %v", err)
	}
}
