package scene

import (
	"sync"

	"github.com/decker502/spritetool/internal/compound"
	"github.com/decker502/spritetool/pkg/logging"
)

// Snapshot is one successfully opened root document with its hierarchy. It is
// never modified after publication.
type Snapshot struct {
	// Source is where the documents were read from; textures are resolved
	// through it too.
	Source  Source
	Path    string
	Root    *compound.Document
	Library *Library
	Tree    []*Instance
}

// Workspace holds the currently open document. Opening is atomic: a failed
// open keeps the previous snapshot.
type Workspace struct {
	mu     sync.RWMutex
	source Source
	opts   compound.Options
	snap   *Snapshot
}

// NewWorkspace creates an empty workspace.
func NewWorkspace(src Source, opts compound.Options) *Workspace {
	return &Workspace{source: src, opts: opts}
}

// Open loads name through the workspace source and publishes it.
func (w *Workspace) Open(name string) error {
	snap, err := w.Load(w.source, name)
	if err != nil {
		return err
	}
	w.Commit(snap)
	return nil
}

// Load reads name and all of its sub-documents from src into a fresh library
// and builds the instance tree without touching the current snapshot. Callers
// that need more resources before switching (atlases) publish the result with
// Commit once everything succeeded.
func (w *Workspace) Load(src Source, name string) (*Snapshot, error) {
	lib := NewLibrary(src, w.opts)
	key, err := lib.LoadRecursive(name)
	if err != nil {
		logging.Logger().Warn("open failed, keeping previous document", "path", name, "error", err)
		return nil, err
	}
	root, _ := lib.Document(key)
	return &Snapshot{
		Source:  src,
		Path:    key,
		Root:    root,
		Library: lib,
		Tree:    BuildInstanceTree(lib, key),
	}, nil
}

// Commit publishes a loaded snapshot.
func (w *Workspace) Commit(snap *Snapshot) {
	w.mu.Lock()
	w.snap = snap
	w.mu.Unlock()

	logging.Logger().Info("document opened", "path", snap.Path,
		"documents", snap.Library.Len(), "instances", CountInstances(snap.Tree))
}

// Dir returns the directory of the snapshot's root document.
func (s *Snapshot) Dir() string {
	return s.Source.Dir(s.Path)
}

// Snapshot returns the current document view, nil before the first open.
func (w *Workspace) Snapshot() *Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snap
}

// ToggleVisible flips the visibility of the instance reached by path, a list
// of child indices starting at the top level, and publishes the result as a
// new snapshot. Only the nodes along the path are copied, so earlier
// snapshots are never modified. It reports the new visibility, or false when
// the path does not name a node.
func (w *Workspace) ToggleVisible(path []int) (visible bool, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.snap == nil || len(path) == 0 {
		return false, false
	}
	tree, visible, ok := toggleAt(w.snap.Tree, path)
	if !ok {
		return false, false
	}
	next := *w.snap
	next.Tree = tree
	w.snap = &next
	return visible, true
}

// toggleAt returns a copy of nodes with the node at path toggled.
func toggleAt(nodes []*Instance, path []int) ([]*Instance, bool, bool) {
	i := path[0]
	if i < 0 || i >= len(nodes) {
		return nil, false, false
	}

	node := *nodes[i]
	var visible bool
	if len(path) == 1 {
		node.Visible = !node.Visible
		visible = node.Visible
	} else {
		children, v, ok := toggleAt(node.Children, path[1:])
		if !ok {
			return nil, false, false
		}
		node.Children = children
		visible = v
	}

	out := append([]*Instance(nil), nodes...)
	out[i] = &node
	return out, visible, true
}
