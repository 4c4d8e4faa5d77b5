package scene

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/decker502/spritetool/internal/compound"
)

// TestLoadRecursive_SharedSubDocument tests that a sub-document used by many
// actors is parsed once
func TestLoadRecursive_SharedSubDocument(t *testing.T) {
	files := fstest.MapFS{
		"chars/hero.json": {Data: []byte(document(nil,
			compoundActor(1, "arm.json", 0, 0, 1, 1),
			compoundActor(2, "arm.json", 10, 0, 1, 1),
			compoundActor(3, "parts/leg.json", 0, 10, 1, 1),
		))},
		"chars/arm.json":       {Data: []byte(document([]string{"hand"}, spriteActor(1, "hand", 0, 0)))},
		"chars/parts/leg.json": {Data: []byte(document(nil, compoundActor(1, "../arm.json", 0, 0, 1, 1)))},
	}
	src := newCountingSource(files)
	lib := NewLibrary(src, compound.DefaultOptions())

	key, err := lib.LoadRecursive("./chars/hero.json")
	if err != nil {
		t.Fatalf("LoadRecursive failed: %v", err)
	}
	if key != "chars/hero.json" {
		t.Errorf("Expected canonical key 'chars/hero.json', got '%s'", key)
	}
	if lib.Len() != 3 {
		t.Errorf("Expected 3 cached documents, got %d: %v", lib.Len(), lib.Paths())
	}
	for path, n := range src.reads {
		if n != 1 {
			t.Errorf("Expected one read of %s, got %d", path, n)
		}
	}

	sub, ok := lib.SubDocumentPath("chars/parts/leg.json", 1)
	if !ok || sub != "chars/arm.json" {
		t.Errorf("Expected leg actor 1 to resolve to chars/arm.json, got %q (ok=%v)", sub, ok)
	}
	if got := strings.Join(lib.Textures(), ","); got != "InGame" {
		t.Errorf("Expected textures 'InGame', got '%s'", got)
	}

	// Loading again is a cache hit.
	if _, err := lib.LoadRecursive("chars/hero.json"); err != nil {
		t.Fatalf("Second LoadRecursive failed: %v", err)
	}
	if src.reads["chars/hero.json"] != 1 {
		t.Errorf("Expected cached root not to be re-read, got %d reads", src.reads["chars/hero.json"])
	}
}

// TestLoadRecursive_Cycle tests that self-including hierarchies are rejected
func TestLoadRecursive_Cycle(t *testing.T) {
	tests := []struct {
		name      string
		files     fstest.MapFS
		wantChain string
	}{
		{
			name: "Self reference",
			files: fstest.MapFS{
				"a.json": {Data: []byte(document(nil, compoundActor(1, "a.json", 0, 0, 1, 1)))},
			},
			wantChain: "a.json -> a.json",
		},
		{
			name: "Indirect",
			files: fstest.MapFS{
				"a.json": {Data: []byte(document(nil, compoundActor(1, "b.json", 0, 0, 1, 1)))},
				"b.json": {Data: []byte(document(nil, compoundActor(1, "c.json", 0, 0, 1, 1)))},
				"c.json": {Data: []byte(document(nil, compoundActor(1, "b.json", 0, 0, 1, 1)))},
			},
			wantChain: "b.json -> c.json -> b.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := NewLibrary(FSSource{FS: tt.files}, compound.DefaultOptions())
			_, err := lib.LoadRecursive("a.json")

			var ce *CyclicReferenceError
			if !errors.As(err, &ce) {
				t.Fatalf("Expected *CyclicReferenceError, got %T: %v", err, err)
			}
			if got := strings.Join(ce.Chain, " -> "); got != tt.wantChain {
				t.Errorf("Expected chain '%s', got '%s'", tt.wantChain, got)
			}
		})
	}
}

// TestLoadRecursive_Diamond tests that a document reached by two paths is not a cycle
func TestLoadRecursive_Diamond(t *testing.T) {
	files := fstest.MapFS{
		"a.json": {Data: []byte(document(nil,
			compoundActor(1, "b.json", 0, 0, 1, 1),
			compoundActor(2, "c.json", 0, 0, 1, 1),
		))},
		"b.json": {Data: []byte(document(nil, compoundActor(1, "d.json", 0, 0, 1, 1)))},
		"c.json": {Data: []byte(document(nil, compoundActor(1, "d.json", 0, 0, 1, 1)))},
		"d.json": {Data: []byte(document([]string{"dot"}, spriteActor(1, "dot", 0, 0)))},
	}
	lib := NewLibrary(FSSource{FS: files}, compound.DefaultOptions())

	if _, err := lib.LoadRecursive("a.json"); err != nil {
		t.Fatalf("Expected diamond hierarchy to load, got %v", err)
	}
	if lib.Len() != 4 {
		t.Errorf("Expected 4 documents, got %d", lib.Len())
	}
}

// TestLoadRecursive_Failures tests that read and parse failures surface as ParseError
func TestLoadRecursive_Failures(t *testing.T) {
	files := fstest.MapFS{
		"root.json":    {Data: []byte(document(nil, compoundActor(1, "missing.json", 0, 0, 1, 1)))},
		"broken.json":  {Data: []byte(`{"actors": [{"uid": 1}]}`)},
		"parent.json":  {Data: []byte(document(nil, compoundActor(1, "broken.json", 0, 0, 1, 1)))},
		"invalid.json": {Data: []byte(`{`)},
	}

	tests := []struct {
		name       string
		path       string
		wantSource string
		wantText   string
	}{
		{"Missing sub-document", "root.json", "missing.json", "failed to read"},
		{"Broken sub-document", "parent.json", "broken.json", "missing required field"},
		{"Invalid root", "invalid.json", "invalid.json", "invalid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := NewLibrary(FSSource{FS: files}, compound.DefaultOptions())
			_, err := lib.LoadRecursive(tt.path)

			var pe *compound.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Expected *compound.ParseError, got %T: %v", err, err)
			}
			if pe.Source != tt.wantSource {
				t.Errorf("Expected Source='%s', got '%s'", tt.wantSource, pe.Source)
			}
			if !strings.Contains(err.Error(), tt.wantText) {
				t.Errorf("Expected error containing '%s', got '%s'", tt.wantText, err.Error())
			}
		})
	}
}

// TestFSSource_Abs tests path canonicalization for fs.FS sources
func TestFSSource_Abs(t *testing.T) {
	src := FSSource{FS: fstest.MapFS{}}

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"a/b.json", "a/b.json", false},
		{"./a/../b.json", "b.json", false},
		{"/a/b.json", "a/b.json", false},
		{"../outside.json", "", true},
	}

	for _, tt := range tests {
		got, err := src.Abs(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Abs(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Abs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
