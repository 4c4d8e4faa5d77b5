package scene

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/decker502/spritetool/internal/compound"
	"github.com/decker502/spritetool/pkg/logging"
)

// CyclicReferenceError reports a sub-document that includes itself, directly
// or through other documents.
type CyclicReferenceError struct {
	// Chain lists the canonical paths from the first document of the loop back
	// to itself.
	Chain []string
}

func (e *CyclicReferenceError) Error() string {
	return fmt.Sprintf("cyclic compound reference: %s", strings.Join(e.Chain, " -> "))
}

// Library is the document cache of one open operation, keyed by canonical
// path. Each path is parsed at most once no matter how many actors share it.
type Library struct {
	source Source
	opts   compound.Options

	docs map[string]*compound.Document
	// parent path -> compound actor id -> canonical sub-document path
	links map[string]map[uint32]string

	loading []string
}

// NewLibrary creates an empty cache reading through src.
func NewLibrary(src Source, opts compound.Options) *Library {
	return &Library{
		source: src,
		opts:   opts,
		docs:   make(map[string]*compound.Document),
		links:  make(map[string]map[uint32]string),
	}
}

// LoadRecursive parses the document at name and every sub-document it
// references, returning the canonical path of the root. A failure anywhere in
// the hierarchy fails the whole load.
func (l *Library) LoadRecursive(name string) (string, error) {
	key, err := l.source.Abs(name)
	if err != nil {
		return "", &compound.ParseError{Source: name, Err: fmt.Errorf("failed to resolve path: %w", err)}
	}
	if err := l.load(key); err != nil {
		return "", err
	}
	return key, nil
}

func (l *Library) load(key string) error {
	for i, p := range l.loading {
		if p == key {
			chain := append(append([]string(nil), l.loading[i:]...), key)
			return &CyclicReferenceError{Chain: chain}
		}
	}
	if _, ok := l.docs[key]; ok {
		return nil
	}

	data, err := l.source.ReadFile(key)
	if err != nil {
		return &compound.ParseError{Source: key, Err: fmt.Errorf("failed to read compound file: %w", err)}
	}
	doc, err := compound.ParseWithOptions(data, l.opts)
	if err != nil {
		var pe *compound.ParseError
		if errors.As(err, &pe) {
			pe.Source = key
		}
		return err
	}
	l.docs[key] = doc
	logging.Logger().Debug("compound document loaded", "path", key, "actors", doc.ActorCount())

	l.loading = append(l.loading, key)
	defer func() { l.loading = l.loading[:len(l.loading)-1] }()

	dir := l.source.Dir(key)
	for _, actor := range doc.Actors() {
		if !actor.IsCompound() {
			continue
		}
		sub, err := l.source.Abs(l.source.Join(dir, actor.Sprite))
		if err != nil {
			return &compound.ParseError{Source: key, Where: fmt.Sprintf("actor %d", actor.ID), Field: "sprite", Err: err}
		}
		if err := l.load(sub); err != nil {
			return err
		}
		if l.links[key] == nil {
			l.links[key] = make(map[uint32]string)
		}
		l.links[key][actor.ID] = sub
	}
	return nil
}

// Document returns the cached document for a canonical path.
func (l *Library) Document(key string) (*compound.Document, bool) {
	doc, ok := l.docs[key]
	return doc, ok
}

// SubDocumentPath returns the canonical path a compound actor resolved to.
func (l *Library) SubDocumentPath(parent string, actorID uint32) (string, bool) {
	p, ok := l.links[parent][actorID]
	return p, ok
}

// Len returns the number of cached documents.
func (l *Library) Len() int { return len(l.docs) }

// Paths returns the sorted canonical paths of every cached document.
func (l *Library) Paths() []string {
	out := make([]string, 0, len(l.docs))
	for p := range l.docs {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Textures returns the sorted union of textures listed by every cached document.
func (l *Library) Textures() []string {
	seen := make(map[string]bool)
	for _, doc := range l.docs {
		for _, tex := range doc.Textures() {
			seen[tex] = true
		}
	}
	out := make([]string, 0, len(seen))
	for tex := range seen {
		out = append(out, tex)
	}
	sort.Strings(out)
	return out
}
