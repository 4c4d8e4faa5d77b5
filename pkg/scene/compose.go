package scene

import (
	"math"

	"github.com/decker502/spritetool/internal/compound"
	"github.com/gogpu/gg"
)

// Placement is one sprite resolved for drawing.
type Placement struct {
	// Transform maps the sprite's document space to the output space.
	Transform gg.Matrix

	Instance *Instance
	Sprite   string

	// Texture is the texture listing the sprite; empty when HasTexture is false.
	Texture    string
	HasTexture bool

	State     compound.ActorState
	LocalTime float64
}

// VisitFunc receives placements in draw order.
type VisitFunc func(p Placement)

// LocalTime wraps t into [0, stageLength). A zero stage length pins time at 0.
func LocalTime(t, stageLength float64) float64 {
	if stageLength <= 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return 0
	}
	lt := math.Mod(t, stageLength)
	if lt < 0 {
		lt += stageLength
	}
	return lt
}

// Compose walks the forest depth-first in pre-order and calls visit for every
// visible sprite. Hidden instances prune their subtree. A compound actor
// applies translate-then-scale of its sampled pose to its children, and a
// compound actor sampled as not shown hides its subtree.
func Compose(nodes []*Instance, root gg.Matrix, t float64, visit VisitFunc) {
	for _, node := range nodes {
		composeNode(node, root, t, visit)
	}
}

func composeNode(node *Instance, m gg.Matrix, t float64, visit VisitFunc) {
	if !node.Visible {
		return
	}
	actor, ok := node.Actor()
	if !ok {
		return
	}

	lt := LocalTime(t, node.Doc.StageLength())
	state := node.Doc.StateAt(node.ActorID, lt)

	if !actor.IsCompound() {
		tex, hasTex := node.Doc.TextureForSprite(actor.Sprite)
		visit(Placement{
			Transform:  m,
			Instance:   node,
			Sprite:     actor.Sprite,
			Texture:    tex,
			HasTexture: hasTex,
			State:      state,
			LocalTime:  lt,
		})
		return
	}

	if !state.Shown || len(node.Children) == 0 {
		return
	}
	child := m.Multiply(gg.Translate(state.PosX, state.PosY)).Multiply(gg.Scale(state.ScaleX, state.ScaleY))
	for _, c := range node.Children {
		composeNode(c, child, t, visit)
	}
}
