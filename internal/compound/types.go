// Package compound provides data structures and parsers for compound sprite
// documents. A compound sprite is a hierarchy of actors, each either a single
// sprite-cell reference or a nested compound document, animated by sparse
// per-actor keyframe timelines.
package compound

import (
	"fmt"
	"sort"
)

// Alignment is a layout anchor mode. It is categorical and never blended.
type Alignment uint32

const (
	AlignCentre Alignment = 0
	AlignLeft   Alignment = 1
	AlignRight  Alignment = 2
	AlignTop    Alignment = 3
	AlignBottom Alignment = 4
	AlignPoint  Alignment = 5
)

func (a Alignment) String() string {
	switch a {
	case AlignCentre:
		return "Centre"
	case AlignLeft:
		return "Left"
	case AlignRight:
		return "Right"
	case AlignTop:
		return "Top"
	case AlignBottom:
		return "Bottom"
	case AlignPoint:
		return "Point"
	}
	return fmt.Sprintf("Alignment(%d)", uint32(a))
}

// Flip is a mirroring bitmask.
type Flip uint32

const (
	FlipNone Flip = 0
	FlipX    Flip = 1 << 0
	FlipY    Flip = 1 << 1
)

// X reports whether horizontal mirroring is set.
func (f Flip) X() bool { return f&FlipX != 0 }

// Y reports whether vertical mirroring is set.
func (f Flip) Y() bool { return f&FlipY != 0 }

// Colour is an 8-bit per channel RGBA tint.
type Colour struct {
	R, G, B, A uint8
}

// White is the default tint.
var White = Colour{R: 255, G: 255, B: 255, A: 255}

// ColourFromPacked unpacks a document colour. The packed layout is R in the
// lowest byte and A in the highest: 0xAABBGGRR.
func ColourFromPacked(v uint32) Colour {
	return Colour{
		R: uint8(v),
		G: uint8(v >> 8),
		B: uint8(v >> 16),
		A: uint8(v >> 24),
	}
}

// Packed returns the 0xAABBGGRR form used by documents.
func (c Colour) Packed() uint32 {
	return uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16 | uint32(c.A)<<24
}

// Floats returns the channels scaled to [0, 1].
func (c Colour) Floats() (r, g, b, a float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255
}

// ActorState is a visual pose. It is a value type; every sampled pose is a
// fresh copy.
type ActorState struct {
	AlignX, AlignY Alignment

	Alpha float64

	// Angle is the rotation in degrees, as authored.
	Angle float64

	Colour Colour
	Flip   Flip

	PosX, PosY     float64
	ScaleX, ScaleY float64

	Shown bool
}

// DefaultActorState returns the pose used for unknown actors and as the base
// for parsing: centred, untransformed, opaque white, shown.
func DefaultActorState(alpha float64) ActorState {
	return ActorState{
		Alpha:  alpha,
		Colour: White,
		ScaleX: 1,
		ScaleY: 1,
		Shown:  true,
	}
}

// ActorType tells whether an actor draws a sprite cell or embeds another
// compound document.
type ActorType uint32

const (
	ActorSprite   ActorType = 1
	ActorCompound ActorType = 2
)

func (t ActorType) String() string {
	switch t {
	case ActorSprite:
		return "Sprite"
	case ActorCompound:
		return "Compound"
	}
	return fmt.Sprintf("ActorType(%d)", uint32(t))
}

// Actor is one node of a compound document.
type Actor struct {
	// ID is unique within the owning document.
	ID uint32

	// Sprite is a sprite-cell name for ActorSprite, or the file name of the
	// sub-document, relative to this document's directory, for ActorCompound.
	Sprite string

	Type ActorType

	// State is the initial pose, used when the actor has no timeline.
	State ActorState
}

// IsCompound reports whether the actor embeds a sub-document.
func (a *Actor) IsCompound() bool {
	return a.Type == ActorCompound
}

// Keyframe is a timestamped pose.
type Keyframe struct {
	Time  float64
	State ActorState
}

// Timeline is the keyframe sequence of one actor, sorted by ascending Time.
type Timeline []Keyframe

// Document is a parsed compound sprite. It is immutable after parsing and may
// be shared between any number of instance trees and readers.
type Document struct {
	alignX, alignY Alignment
	pointX, pointY float64

	stageLength  float64
	version      int
	defaultAlpha float64

	// texture name -> set of sprite names it provides
	textureSprites map[string]map[string]bool
	textureOrder   []string

	actors     map[uint32]*Actor
	actorOrder []uint32
	timelines  map[uint32]Timeline
}

func newDocument(opts Options) *Document {
	return &Document{
		defaultAlpha:   opts.DefaultAlpha,
		textureSprites: make(map[string]map[string]bool),
		actors:         make(map[uint32]*Actor),
		timelines:      make(map[uint32]Timeline),
	}
}

// Alignment returns the document-level alignment pair.
func (d *Document) Alignment() (x, y Alignment) { return d.alignX, d.alignY }

// Point returns the document reference point.
func (d *Document) Point() (x, y float64) { return d.pointX, d.pointY }

// StageLength returns the animation loop duration, 0 when unset.
func (d *Document) StageLength() float64 { return d.stageLength }

// Version returns the format version, 0 when unset.
func (d *Document) Version() int { return d.version }

// Actor returns the actor with the given id.
func (d *Document) Actor(id uint32) (*Actor, bool) {
	a, ok := d.actors[id]
	return a, ok
}

// Actors returns the actors in document order. For duplicate uids the last
// definition wins but keeps the position of the first.
func (d *Document) Actors() []*Actor {
	out := make([]*Actor, 0, len(d.actorOrder))
	for _, id := range d.actorOrder {
		out = append(out, d.actors[id])
	}
	return out
}

// ActorCount returns the number of distinct actors.
func (d *Document) ActorCount() int { return len(d.actors) }

// Timeline returns the keyframes of an actor.
func (d *Document) Timeline(id uint32) (Timeline, bool) {
	tl, ok := d.timelines[id]
	return tl, ok
}

// Timelines returns every timeline keyed by actor id, including timelines whose
// actor does not exist. The map must not be modified.
func (d *Document) Timelines() map[uint32]Timeline { return d.timelines }

// TextureSprites returns the texture -> sprite names grouping, names sorted.
func (d *Document) TextureSprites() map[string][]string {
	out := make(map[string][]string, len(d.textureSprites))
	for tex, set := range d.textureSprites {
		names := make([]string, 0, len(set))
		for name := range set {
			names = append(names, name)
		}
		sort.Strings(names)
		out[tex] = names
	}
	return out
}

// Textures returns the sorted names of every texture the document lists.
func (d *Document) Textures() []string {
	out := make([]string, len(d.textureOrder))
	copy(out, d.textureOrder)
	return out
}

// TextureForSprite returns the texture that provides the named sprite.
// Textures are scanned in name order so the answer is stable even for
// malformed input listing a sprite under several textures.
func (d *Document) TextureForSprite(sprite string) (string, bool) {
	for _, tex := range d.textureOrder {
		if d.textureSprites[tex][sprite] {
			return tex, true
		}
	}
	return "", false
}
