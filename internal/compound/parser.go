package compound

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/decker502/spritetool/pkg/logging"
	"github.com/tidwall/gjson"
)

var (
	// ErrMissingField marks an absent required field.
	ErrMissingField = errors.New("missing required field")
	// ErrFieldType marks a field present with the wrong JSON type or shape.
	ErrFieldType = errors.New("wrong field type")
)

// ParseError reports malformed document input. A document that fails to parse
// is never returned half-populated.
type ParseError struct {
	// Source is the file the document came from, empty for in-memory data.
	Source string
	// Where locates the element, e.g. "actors[2]" or "timelines[0].stage[3]".
	Where string
	// Field is the offending key, empty for element-level errors.
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("compound: ")
	if e.Source != "" {
		b.WriteString(e.Source)
		b.WriteString(": ")
	}
	if e.Where != "" {
		b.WriteString(e.Where)
		b.WriteString(": ")
	}
	if e.Field != "" {
		fmt.Fprintf(&b, "field '%s': ", e.Field)
	}
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Options control format details that cannot be recovered from the data.
type Options struct {
	// DefaultAlpha is used when a state omits Alpha. Revisions of the format
	// disagree (0 or 1) and documents carry no discriminator.
	DefaultAlpha float64
}

// DefaultOptions returns fully opaque defaults.
func DefaultOptions() Options {
	return Options{DefaultAlpha: 1.0}
}

// ParseFile reads and parses a compound document with default options.
func ParseFile(path string) (*Document, error) {
	return ParseFileWithOptions(path, DefaultOptions())
}

// ParseFileWithOptions reads and parses a compound document. Read failures are
// reported as a ParseError for that document.
func ParseFileWithOptions(path string, opts Options) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Source: path, Err: fmt.Errorf("failed to read compound file: %w", err)}
	}

	doc, err := ParseWithOptions(data, opts)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Source = path
		}
		return nil, err
	}
	return doc, nil
}

// Parse parses a compound document with default options.
func Parse(data []byte) (*Document, error) {
	return ParseWithOptions(data, DefaultOptions())
}

// ParseWithOptions parses a compound document:
//
//	{
//	  "Alignment": [0, 0], "Point": [0, 0],
//	  "stageOptions": {"StageLength": 2.0, "Version": 1,
//	                   "SpriteInfo": [{"SpriteInfo": "hero", "Texture": "InGame"}]},
//	  "actors": [{"uid": 1, "type": 1, "sprite": "hero", <state>}],
//	  "timelines": [{"spriteuid": 1, "stage": [{"Time": 0, <state>}]}]
//	}
//
// where <state> is Alignment?, Alpha?, Angle, Colour?, Flip, Position, Scale, Shown.
// Every top-level key is optional.
func ParseWithOptions(data []byte, opts Options) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Err: errors.New("invalid JSON")}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &ParseError{Err: fmt.Errorf("%w: top level must be an object", ErrFieldType)}
	}

	doc := newDocument(opts)
	top := reader{obj: root}

	ax, ay, err := top.alignment("Alignment")
	if err != nil {
		return nil, err
	}
	doc.alignX, doc.alignY = ax, ay

	if doc.pointX, doc.pointY, _, err = top.pair("Point", false); err != nil {
		return nil, err
	}

	if err := parseStageOptions(doc, root.Get("stageOptions")); err != nil {
		return nil, err
	}
	if err := parseActors(doc, root.Get("actors"), opts); err != nil {
		return nil, err
	}
	if err := parseTimelines(doc, root.Get("timelines"), opts); err != nil {
		return nil, err
	}

	for tex := range doc.textureSprites {
		doc.textureOrder = append(doc.textureOrder, tex)
	}
	sort.Strings(doc.textureOrder)

	logging.Logger().Debug("compound document parsed",
		"actors", len(doc.actors), "timelines", len(doc.timelines),
		"textures", len(doc.textureOrder), "stageLength", doc.stageLength)
	return doc, nil
}

func parseStageOptions(doc *Document, v gjson.Result) error {
	if !present(v) {
		return nil
	}
	if !v.IsObject() {
		return &ParseError{Where: "stageOptions", Err: fmt.Errorf("%w: expected object", ErrFieldType)}
	}

	r := reader{where: "stageOptions", obj: v}
	var err error
	if doc.stageLength, _, err = r.float("StageLength", true); err != nil {
		return err
	}
	if doc.stageLength < 0 {
		return &ParseError{Where: "stageOptions", Field: "StageLength", Err: fmt.Errorf("negative stage length %v", doc.stageLength)}
	}
	version, _, err := r.float("Version", false)
	if err != nil {
		return err
	}
	if version != math.Trunc(version) {
		return &ParseError{Where: "stageOptions", Field: "Version", Err: fmt.Errorf("%w: expected integer", ErrFieldType)}
	}
	doc.version = int(version)

	infos := v.Get("SpriteInfo")
	if !present(infos) {
		return nil
	}
	if !infos.IsArray() {
		return &ParseError{Where: "stageOptions", Field: "SpriteInfo", Err: fmt.Errorf("%w: expected array", ErrFieldType)}
	}
	for i, info := range infos.Array() {
		r := reader{where: fmt.Sprintf("stageOptions.SpriteInfo[%d]", i), obj: info}
		if !info.IsObject() {
			return r.fail("", fmt.Errorf("%w: expected object", ErrFieldType))
		}
		sprite, err := r.str("SpriteInfo")
		if err != nil {
			return err
		}
		texture, err := r.str("Texture")
		if err != nil {
			return err
		}
		set, ok := doc.textureSprites[texture]
		if !ok {
			set = make(map[string]bool)
			doc.textureSprites[texture] = set
		}
		set[sprite] = true
	}
	return nil
}

func parseActors(doc *Document, v gjson.Result, opts Options) error {
	if !present(v) {
		return nil
	}
	if !v.IsArray() {
		return &ParseError{Where: "actors", Err: fmt.Errorf("%w: expected array", ErrFieldType)}
	}

	for i, item := range v.Array() {
		r := reader{where: fmt.Sprintf("actors[%d]", i), obj: item}
		if !item.IsObject() {
			return r.fail("", fmt.Errorf("%w: expected object", ErrFieldType))
		}

		state, err := r.actorState(opts)
		if err != nil {
			return err
		}
		sprite, err := r.str("sprite")
		if err != nil {
			return err
		}
		typ, err := r.uint32("type", true)
		if err != nil {
			return err
		}
		if ActorType(typ) != ActorSprite && ActorType(typ) != ActorCompound {
			return r.fail("type", fmt.Errorf("unknown actor type %d", typ))
		}
		uid, err := r.uint32("uid", true)
		if err != nil {
			return err
		}

		if _, dup := doc.actors[uid]; dup {
			logging.Logger().Warn("duplicate actor uid, later definition wins", "uid", uid, "at", r.where)
		} else {
			doc.actorOrder = append(doc.actorOrder, uid)
		}
		doc.actors[uid] = &Actor{
			ID:     uid,
			Sprite: sprite,
			Type:   ActorType(typ),
			State:  state,
		}
	}
	return nil
}

func parseTimelines(doc *Document, v gjson.Result, opts Options) error {
	if !present(v) {
		return nil
	}
	if !v.IsArray() {
		return &ParseError{Where: "timelines", Err: fmt.Errorf("%w: expected array", ErrFieldType)}
	}

	for i, item := range v.Array() {
		r := reader{where: fmt.Sprintf("timelines[%d]", i), obj: item}
		if !item.IsObject() {
			return r.fail("", fmt.Errorf("%w: expected object", ErrFieldType))
		}
		uid, err := r.uint32("spriteuid", true)
		if err != nil {
			return err
		}

		stage := item.Get("stage")
		if present(stage) && !stage.IsArray() {
			return r.fail("stage", fmt.Errorf("%w: expected array", ErrFieldType))
		}

		frames := make(Timeline, 0, len(stage.Array()))
		for j, f := range stage.Array() {
			fr := reader{where: fmt.Sprintf("%s.stage[%d]", r.where, j), obj: f}
			if !f.IsObject() {
				return fr.fail("", fmt.Errorf("%w: expected object", ErrFieldType))
			}
			state, err := fr.actorState(opts)
			if err != nil {
				return err
			}
			t, _, err := fr.float("Time", true)
			if err != nil {
				return err
			}
			frames = append(frames, Keyframe{Time: t, State: state})
		}

		// The sampler scans in ascending time; ties keep source order.
		sort.SliceStable(frames, func(a, b int) bool { return frames[a].Time < frames[b].Time })

		if _, dup := doc.timelines[uid]; dup {
			logging.Logger().Warn("duplicate timeline, later definition wins", "spriteuid", uid, "at", r.where)
		}
		if _, ok := doc.actors[uid]; !ok {
			logging.Logger().Warn("timeline references unknown actor", "spriteuid", uid, "at", r.where)
		}
		doc.timelines[uid] = frames
	}
	return nil
}

// reader extracts typed fields from one JSON object and reports failures with
// the object's location.
type reader struct {
	where string
	obj   gjson.Result
}

func (r reader) fail(field string, err error) error {
	return &ParseError{Where: r.where, Field: field, Err: err}
}

// present treats an explicit null like an absent key.
func present(v gjson.Result) bool {
	return v.Exists() && v.Type != gjson.Null
}

func (r reader) field(name string) gjson.Result {
	// Keys are plain identifiers; escape anyway so gjson path syntax never applies.
	return r.obj.Get(escapeKey(name))
}

func escapeKey(k string) string {
	if !strings.ContainsAny(k, ".*?|#@\\") {
		return k
	}
	var b strings.Builder
	for _, c := range k {
		if strings.ContainsRune(".*?|#@\\", c) {
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (r reader) float(name string, required bool) (float64, bool, error) {
	v := r.field(name)
	if !present(v) {
		if required {
			return 0, false, r.fail(name, ErrMissingField)
		}
		return 0, false, nil
	}
	if v.Type != gjson.Number {
		return 0, false, r.fail(name, fmt.Errorf("%w: expected number", ErrFieldType))
	}
	return v.Float(), true, nil
}

func (r reader) uint32(name string, required bool) (uint32, error) {
	v := r.field(name)
	if !present(v) {
		if required {
			return 0, r.fail(name, ErrMissingField)
		}
		return 0, nil
	}
	n, err := toUint32(v)
	if err != nil {
		return 0, r.fail(name, err)
	}
	return n, nil
}

func toUint32(v gjson.Result) (uint32, error) {
	if v.Type != gjson.Number {
		return 0, fmt.Errorf("%w: expected unsigned integer", ErrFieldType)
	}
	f := v.Float()
	if f < 0 || f > math.MaxUint32 || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: expected unsigned integer, got %s", ErrFieldType, v.Raw)
	}
	return uint32(f), nil
}

func (r reader) str(name string) (string, error) {
	v := r.field(name)
	if !present(v) {
		return "", r.fail(name, ErrMissingField)
	}
	if v.Type != gjson.String {
		return "", r.fail(name, fmt.Errorf("%w: expected string", ErrFieldType))
	}
	return v.String(), nil
}

func (r reader) boolean(name string) (bool, error) {
	v := r.field(name)
	if !present(v) {
		return false, r.fail(name, ErrMissingField)
	}
	if v.Type != gjson.True && v.Type != gjson.False {
		return false, r.fail(name, fmt.Errorf("%w: expected boolean", ErrFieldType))
	}
	return v.Bool(), nil
}

// pair reads a two-element number array.
func (r reader) pair(name string, required bool) (float64, float64, bool, error) {
	v := r.field(name)
	if !present(v) {
		if required {
			return 0, 0, false, r.fail(name, ErrMissingField)
		}
		return 0, 0, false, nil
	}
	items := v.Array()
	if !v.IsArray() || len(items) != 2 || items[0].Type != gjson.Number || items[1].Type != gjson.Number {
		return 0, 0, false, r.fail(name, fmt.Errorf("%w: expected [number, number]", ErrFieldType))
	}
	return items[0].Float(), items[1].Float(), true, nil
}

func (r reader) alignment(name string) (Alignment, Alignment, error) {
	v := r.field(name)
	if !present(v) {
		return AlignCentre, AlignCentre, nil
	}
	items := v.Array()
	if !v.IsArray() || len(items) != 2 {
		return 0, 0, r.fail(name, fmt.Errorf("%w: expected [uint, uint]", ErrFieldType))
	}
	x, err := toUint32(items[0])
	if err != nil {
		return 0, 0, r.fail(name, err)
	}
	y, err := toUint32(items[1])
	if err != nil {
		return 0, 0, r.fail(name, err)
	}
	return Alignment(x), Alignment(y), nil
}

// actorState reads the state grammar shared by actors and keyframes.
func (r reader) actorState(opts Options) (ActorState, error) {
	s := DefaultActorState(opts.DefaultAlpha)
	var err error

	if s.AlignX, s.AlignY, err = r.alignment("Alignment"); err != nil {
		return s, err
	}

	alpha, ok, err := r.float("Alpha", false)
	if err != nil {
		return s, err
	}
	if ok {
		s.Alpha = alpha
	}

	if s.Angle, _, err = r.float("Angle", true); err != nil {
		return s, err
	}

	if c := r.field("Colour"); present(c) {
		packed, err := toUint32(c)
		if err != nil {
			return s, r.fail("Colour", err)
		}
		s.Colour = ColourFromPacked(packed)
	}

	flip, err := r.uint32("Flip", true)
	if err != nil {
		return s, err
	}
	s.Flip = Flip(flip)

	if s.PosX, s.PosY, _, err = r.pair("Position", true); err != nil {
		return s, err
	}
	if s.ScaleX, s.ScaleY, _, err = r.pair("Scale", true); err != nil {
		return s, err
	}
	if s.Shown, err = r.boolean("Shown"); err != nil {
		return s, err
	}
	return s, nil
}
