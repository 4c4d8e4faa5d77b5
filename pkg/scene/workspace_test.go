package scene

import (
	"testing"
	"testing/fstest"

	"github.com/decker502/spritetool/internal/compound"
)

// TestWorkspace_OpenIsAtomic tests that a failed open keeps the previous document
func TestWorkspace_OpenIsAtomic(t *testing.T) {
	files := fstest.MapFS{
		"good.json":  {Data: []byte(document([]string{"a"}, spriteActor(1, "a", 0, 0), compoundActor(2, "sub.json", 0, 0, 1, 1)))},
		"sub.json":   {Data: []byte(document([]string{"b"}, spriteActor(1, "b", 0, 0)))},
		"bad.json":   {Data: []byte(document(nil, compoundActor(1, "sub.json", 0, 0, 1, 1), compoundActor(2, "loop.json", 0, 0, 1, 1)))},
		"loop.json":  {Data: []byte(document(nil, compoundActor(1, "loop.json", 0, 0, 1, 1)))},
		"other.json": {Data: []byte(document([]string{"c"}, spriteActor(1, "c", 0, 0)))},
	}
	ws := NewWorkspace(FSSource{FS: files}, compound.DefaultOptions())

	if ws.Snapshot() != nil {
		t.Fatal("Expected no snapshot before first open")
	}
	if err := ws.Open("good.json"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	before := ws.Snapshot()

	if err := ws.Open("bad.json"); err == nil {
		t.Fatal("Expected cyclic document to fail")
	}
	if ws.Snapshot() != before {
		t.Error("Expected failed open to keep the previous snapshot")
	}
	if before.Library.Len() != 2 || len(before.Tree) != 2 {
		t.Errorf("Expected previous state intact, got %d documents and %d roots", before.Library.Len(), len(before.Tree))
	}

	if err := ws.Open("other.json"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if got := ws.Snapshot().Path; got != "other.json" {
		t.Errorf("Expected other.json to be open, got %s", got)
	}
}

// TestWorkspace_LoadDoesNotPublish tests the two-step open
func TestWorkspace_LoadDoesNotPublish(t *testing.T) {
	files := fstest.MapFS{
		"art/root.json": {Data: []byte(document([]string{"a"}, spriteActor(1, "a", 0, 0)))},
	}
	src := FSSource{FS: files}
	ws := NewWorkspace(src, compound.DefaultOptions())

	snap, err := ws.Load(src, "art/root.json")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ws.Snapshot() != nil {
		t.Error("Expected Load not to publish")
	}
	if snap.Dir() != "art" {
		t.Errorf("Expected dir 'art', got '%s'", snap.Dir())
	}

	ws.Commit(snap)
	if ws.Snapshot() != snap {
		t.Error("Expected Commit to publish the snapshot")
	}
}

// TestWorkspace_ToggleVisible tests copy-on-write visibility changes
func TestWorkspace_ToggleVisible(t *testing.T) {
	files := fstest.MapFS{
		"root.json": {Data: []byte(document([]string{"a", "b"}, spriteActor(1, "a", 0, 0), spriteActor(2, "b", 0, 0)))},
	}
	ws := NewWorkspace(FSSource{FS: files}, compound.DefaultOptions())
	if _, ok := ws.ToggleVisible([]int{0}); ok {
		t.Error("Expected toggle to fail with nothing open")
	}
	if err := ws.Open("root.json"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	old := ws.Snapshot()

	visible, ok := ws.ToggleVisible([]int{1})
	if !ok || visible {
		t.Fatalf("Expected instance 1 to become hidden, got visible=%v ok=%v", visible, ok)
	}
	if !old.Tree[1].Visible {
		t.Error("Expected earlier snapshot to be unchanged")
	}
	if ws.Snapshot().Tree[1].Visible {
		t.Error("Expected current snapshot to hide instance 1")
	}
	if _, ok := ws.ToggleVisible([]int{5}); ok {
		t.Error("Expected out of range toggle to fail")
	}
}

// TestWorkspace_ToggleNestedVisible tests toggling a node inside a sub-document
func TestWorkspace_ToggleNestedVisible(t *testing.T) {
	files := fstest.MapFS{
		"root.json": {Data: []byte(document([]string{"a"}, spriteActor(1, "a", 0, 0), compoundActor(2, "sub.json", 0, 0, 1, 1)))},
		"sub.json":  {Data: []byte(document([]string{"b", "c"}, spriteActor(1, "b", 0, 0), spriteActor(2, "c", 0, 0)))},
	}
	ws := NewWorkspace(FSSource{FS: files}, compound.DefaultOptions())
	if err := ws.Open("root.json"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	old := ws.Snapshot()

	visible, ok := ws.ToggleVisible([]int{1, 1})
	if !ok || visible {
		t.Fatalf("Expected nested instance to become hidden, got visible=%v ok=%v", visible, ok)
	}

	cur := ws.Snapshot()
	if cur.Tree[1].Children[1].Visible {
		t.Error("Expected current snapshot to hide the nested instance")
	}
	if !cur.Tree[1].Visible || !cur.Tree[1].Children[0].Visible {
		t.Error("Expected other instances to stay visible")
	}
	if !old.Tree[1].Children[1].Visible {
		t.Error("Expected earlier snapshot to be unchanged")
	}
	if cur.Tree[0] != old.Tree[0] || cur.Tree[1].Children[0] != old.Tree[1].Children[0] {
		t.Error("Expected nodes off the path to be shared")
	}

	tests := []struct {
		name string
		path []int
	}{
		{"empty path", nil},
		{"child out of range", []int{1, 2}},
		{"leaf has no children", []int{0, 0}},
		{"negative index", []int{-1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := ws.Snapshot()
			if _, ok := ws.ToggleVisible(tt.path); ok {
				t.Errorf("Expected toggle of %v to fail", tt.path)
			}
			if ws.Snapshot() != before {
				t.Error("Expected failed toggle to keep the snapshot")
			}
		})
	}
}
