// Package resources loads the atlases and texture images a compound document
// hierarchy needs, at a selectable resolution tier.
package resources

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"sort"

	"github.com/decker502/spritetool/internal/atlas"
	"github.com/decker502/spritetool/pkg/config"
	"github.com/decker502/spritetool/pkg/logging"
	"github.com/decker502/spritetool/pkg/scene"
	"github.com/hajimehoshi/ebiten/v2"
)

// Manager caches atlases and texture images per texture name.
//
// A load replaces the whole atlas set at once: if any atlas of the new set is
// malformed the previous set stays active. Textures whose atlas file is absent
// are reported as missing and simply draw nothing.
//
// Manager is NOT thread-safe; it is driven from the viewer's update loop.
type Manager struct {
	cfg *config.ViewerConfig

	// source of the active atlas set
	source scene.Source

	resolution atlas.Resolution
	textureDir string

	atlases map[string]*atlas.Atlas
	decoded map[string]image.Image
	images  map[string]*ebiten.Image
}

// NewManager creates an empty manager.
func NewManager(cfg *config.ViewerConfig) *Manager {
	return &Manager{
		cfg:        cfg,
		resolution: cfg.InitialResolution(),
		atlases:    make(map[string]*atlas.Atlas),
		decoded:    make(map[string]image.Image),
		images:     make(map[string]*ebiten.Image),
	}
}

// Resolution returns the tier of the active atlas set.
func (m *Manager) Resolution() atlas.Resolution { return m.resolution }

// TextureDir returns the directory of the active atlas set.
func (m *Manager) TextureDir() string { return m.textureDir }

// RequiredTextures returns the configured always-loaded textures merged with
// the textures listed by every document of lib, sorted and de-duplicated.
func (m *Manager) RequiredTextures(lib *scene.Library) []string {
	seen := make(map[string]bool)
	for _, tex := range m.cfg.AlwaysLoadTextures {
		seen[tex] = true
	}
	if lib != nil {
		for _, tex := range lib.Textures() {
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

// Load reads "<texture dir>/<texture>.xml" from src for every texture at
// tier r, where the texture dir is resolved against docDir. It returns the
// textures whose atlas file could not be read.
func (m *Manager) Load(src scene.Source, docDir string, textures []string, r atlas.Resolution) (missing []string, err error) {
	join := func(elem ...string) string { return joinAll(src, elem...) }
	dir := m.cfg.TextureDir(docDir, r, join)
	ratios := m.cfg.TierRatios()

	loaded := make(map[string]*atlas.Atlas, len(textures))
	for _, tex := range textures {
		p := src.Join(dir, tex+".xml")
		data, err := src.ReadFile(p)
		if err != nil {
			logging.Logger().Warn("atlas not found", "texture", tex, "path", p, "error", err)
			missing = append(missing, tex)
			continue
		}
		a, err := atlas.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse atlas '%s': %w", p, err)
		}
		a.SetResolution(r, ratios)
		loaded[tex] = a
	}

	for _, img := range m.images {
		img.Deallocate()
	}
	m.source = src
	m.atlases = loaded
	m.decoded = make(map[string]image.Image)
	m.images = make(map[string]*ebiten.Image)
	m.resolution = r
	m.textureDir = dir

	logging.Logger().Debug("atlases loaded", "dir", dir, "resolution", r.String(),
		"loaded", len(loaded), "missing", len(missing))
	return missing, nil
}

// joinAll adapts the two-argument Source.Join for multi-element paths.
func joinAll(src scene.Source, elem ...string) string {
	if len(elem) == 0 {
		return ""
	}
	out := elem[0]
	for _, e := range elem[1:] {
		out = src.Join(out, e)
	}
	return out
}

// Atlas returns the loaded atlas of a texture.
func (m *Manager) Atlas(texture string) (*atlas.Atlas, bool) {
	a, ok := m.atlases[texture]
	return a, ok
}

// Textures returns the sorted names of the loaded atlases.
func (m *Manager) Textures() []string {
	out := make([]string, 0, len(m.atlases))
	for tex := range m.atlases {
		out = append(out, tex)
	}
	sort.Strings(out)
	return out
}

// Cell looks up a sprite cell in a texture's atlas.
func (m *Manager) Cell(texture, sprite string) (atlas.SpriteCell, bool) {
	a, ok := m.atlases[texture]
	if !ok {
		return atlas.SpriteCell{}, false
	}
	return a.Lookup(sprite)
}

// ImagePath returns the image file of a texture in the active tier.
func (m *Manager) ImagePath(texture string) string {
	if m.source == nil {
		return ""
	}
	return m.source.Join(m.textureDir, texture+m.cfg.ImageExtension)
}

// DecodeImage loads and caches the decoded image of a texture.
func (m *Manager) DecodeImage(texture string) (image.Image, error) {
	if img, ok := m.decoded[texture]; ok {
		return img, nil
	}
	if m.source == nil {
		return nil, fmt.Errorf("no atlases loaded, cannot open image for texture '%s'", texture)
	}

	p := m.ImagePath(texture)
	data, err := m.source.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", p, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", p, err)
	}

	m.decoded[texture] = img
	return img, nil
}

// Texture returns the GPU image of a texture, uploading it on first use.
func (m *Manager) Texture(texture string) (*ebiten.Image, error) {
	if img, ok := m.images[texture]; ok {
		return img, nil
	}

	src, err := m.DecodeImage(texture)
	if err != nil {
		return nil, err
	}
	img := ebiten.NewImageFromImage(src)
	m.images[texture] = img
	return img, nil
}
