// Package atlas provides data structures and parsers for sprite-sheet atlas
// descriptions. An atlas maps sprite-cell names to pixel rectangles inside one
// texture image, plus the normalized texture coordinates derived from them.
package atlas

import (
	"fmt"
	"sort"
	"strings"
)

// SpriteCell is one named rectangle within an atlas texture.
type SpriteCell struct {
	// Name is unique within its atlas.
	Name string

	// X, Y, W, H is the pixel rectangle inside the texture.
	X, Y, W, H int

	// AX, AY, AW, AH is the optional trim rectangle for cells packed with their
	// transparent borders cropped. All zero when the atlas carries no trim data.
	AX, AY, AW, AH int

	// MinU, MinV, MaxU, MaxV are the normalized texture coordinates. They are only
	// valid after the owning atlas has been normalized.
	MinU, MinV float64
	MaxU, MaxV float64

	// TextureScale converts this atlas's pixel sizes back to the Low resolution
	// baseline. Renderers multiply the authored scale by it before layout.
	TextureScale float64
}

// Trimmed reports whether the cell carries a trim rectangle.
func (c SpriteCell) Trimmed() bool {
	return c.AW != 0 || c.AH != 0
}

// Atlas holds the cells of a single texture, keyed by name.
type Atlas struct {
	// TextureName is the texture this atlas describes, e.g. "InGame".
	TextureName string

	// TextureType is the image format tag from the description, e.g. "png".
	TextureType string

	// TextureWidth and TextureHeight are the texture dimensions in pixels.
	TextureWidth  int
	TextureHeight int

	cells      map[string]SpriteCell
	order      []string
	normalized bool
}

// NewAtlas creates an empty atlas for a texture of the given size.
func NewAtlas(name string, width, height int) *Atlas {
	return &Atlas{
		TextureName:   name,
		TextureWidth:  width,
		TextureHeight: height,
		cells:         make(map[string]SpriteCell),
	}
}

// Add registers a cell. A later cell with the same name replaces the earlier one
// but keeps its position in Names. Adding a cell invalidates normalization.
func (a *Atlas) Add(cell SpriteCell) {
	if _, exists := a.cells[cell.Name]; !exists {
		a.order = append(a.order, cell.Name)
	}
	if cell.TextureScale == 0 {
		cell.TextureScale = 1.0
	}
	a.cells[cell.Name] = cell
	a.normalized = false
}

// Normalize computes the texture coordinates of every cell from its pixel
// rectangle and the texture dimensions.
func (a *Atlas) Normalize() error {
	if a.TextureWidth <= 0 || a.TextureHeight <= 0 {
		return fmt.Errorf("atlas '%s': cannot normalize with texture size %dx%d",
			a.TextureName, a.TextureWidth, a.TextureHeight)
	}

	texW := float64(a.TextureWidth)
	texH := float64(a.TextureHeight)
	for name, c := range a.cells {
		c.MinU = float64(c.X) / texW
		c.MinV = float64(c.Y) / texH
		c.MaxU = float64(c.X+c.W) / texW
		c.MaxV = float64(c.Y+c.H) / texH
		a.cells[name] = c
	}
	a.normalized = true
	return nil
}

// Normalized reports whether texture coordinates are currently valid.
func (a *Atlas) Normalized() bool {
	return a.normalized
}

// SetTextureSize replaces the texture dimensions and renormalizes.
// Used when the decoded image disagrees with the description.
func (a *Atlas) SetTextureSize(width, height int) error {
	a.TextureWidth = width
	a.TextureHeight = height
	return a.Normalize()
}

// Lookup returns the named cell. A missing name is an expected outcome when a
// compound sprite references cells of several atlases.
func (a *Atlas) Lookup(name string) (SpriteCell, bool) {
	c, ok := a.cells[name]
	return c, ok
}

// SpriteData returns every cell keyed by name. The map must not be modified.
func (a *Atlas) SpriteData() map[string]SpriteCell {
	return a.cells
}

// Names returns the cell names in description order.
func (a *Atlas) Names() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Len returns the number of cells.
func (a *Atlas) Len() int {
	return len(a.cells)
}

// Resolution is a texture resolution tier.
type Resolution int

const (
	// Low is the baseline tier compound sprites are authored against.
	Low Resolution = iota
	High
	Ultra
)

var resolutionNames = map[Resolution]string{
	Low:   "low",
	High:  "high",
	Ultra: "ultra",
}

func (r Resolution) String() string {
	if s, ok := resolutionNames[r]; ok {
		return s
	}
	return fmt.Sprintf("Resolution(%d)", int(r))
}

// Next returns the following tier, wrapping from Ultra back to Low.
func (r Resolution) Next() Resolution {
	return (r + 1) % Resolution(len(resolutionNames))
}

// ParseResolution converts a tier name ("low", "high", "ultra") to a Resolution.
func ParseResolution(s string) (Resolution, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for r, name := range resolutionNames {
		if name == key {
			return r, nil
		}
	}
	return Low, fmt.Errorf("unknown resolution tier '%s'", s)
}

// Resolutions returns every tier in ascending order.
func Resolutions() []Resolution {
	out := make([]Resolution, 0, len(resolutionNames))
	for r := range resolutionNames {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TierRatios holds the Low/High and Low/Ultra pixel ratios of an atlas family.
// The exact values come from atlas metadata (configuration).
type TierRatios struct {
	High  float64
	Ultra float64
}

// DefaultTierRatios assumes each tier doubles the pixel density of the previous one.
var DefaultTierRatios = TierRatios{High: 0.5, Ultra: 0.25}

// Scale returns the textureScale for tier r.
func (t TierRatios) Scale(r Resolution) float64 {
	switch r {
	case High:
		return t.High
	case Ultra:
		return t.Ultra
	default:
		return 1.0
	}
}

// SetResolution records that this atlas was loaded at tier r by setting the
// textureScale of every cell.
func (a *Atlas) SetResolution(r Resolution, ratios TierRatios) {
	a.SetTextureScale(ratios.Scale(r))
}

// SetTextureScale sets the textureScale of every cell.
func (a *Atlas) SetTextureScale(scale float64) {
	for name, c := range a.cells {
		c.TextureScale = scale
		a.cells[name] = c
	}
}
