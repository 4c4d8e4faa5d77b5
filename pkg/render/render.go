// Package render turns composed placements into pixels: on an ebiten screen
// for the interactive viewer, or into an in-memory gg context for snapshots.
package render

import (
	"github.com/decker502/spritetool/internal/atlas"
	"github.com/decker502/spritetool/pkg/logging"
	"github.com/decker502/spritetool/pkg/resources"
	"github.com/decker502/spritetool/pkg/scene"
)

// Stats counts what happened to the placements of one frame.
type Stats struct {
	Drawn  int
	Hidden int
	// Unresolved placements name a sprite that no loaded atlas provides.
	Unresolved int
}

// cellResolver finds atlas cells and remembers which sprites failed so each
// one is reported once.
type cellResolver struct {
	res      *resources.Manager
	reported map[string]bool
}

func newCellResolver(res *resources.Manager) cellResolver {
	return cellResolver{res: res, reported: make(map[string]bool)}
}

// resolve returns the cell for a placement, or false when it must be skipped.
func (r *cellResolver) resolve(p scene.Placement, stats *Stats) (atlas.SpriteCell, bool) {
	if !p.State.Shown || p.State.Alpha <= 0 {
		stats.Hidden++
		return atlas.SpriteCell{}, false
	}
	var cell atlas.SpriteCell
	ok := p.HasTexture
	if ok {
		cell, ok = r.res.Cell(p.Texture, p.Sprite)
	}
	if !ok {
		stats.Unresolved++
		key := p.Texture + "/" + p.Sprite
		if !r.reported[key] {
			r.reported[key] = true
			logging.Logger().Warn("sprite not found in any loaded atlas", "sprite", p.Sprite, "texture", p.Texture)
		}
		return atlas.SpriteCell{}, false
	}
	return cell, true
}

// Reset forgets reported sprites, e.g. after atlases are reloaded.
func (r *cellResolver) Reset() {
	clear(r.reported)
}
