package atlas

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/decker502/spritetool/pkg/logging"
)

// ParseError reports a malformed atlas description. The whole atlas is rejected;
// partially parsed atlases are never returned.
type ParseError struct {
	// Element names the offending element, e.g. `Cell "hero_idle"` or `Cell #4`.
	Element string
	// Attr is the attribute at fault, empty for structural errors.
	Attr string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Attr != "" {
		return fmt.Sprintf("atlas: %s: attribute '%s': %v", e.Element, e.Attr, e.Err)
	}
	if e.Element != "" {
		return fmt.Sprintf("atlas: %s: %v", e.Element, e.Err)
	}
	return fmt.Sprintf("atlas: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var errMissingAttr = errors.New("missing required attribute")

// element is a generic XML node. Cells and animations are interleaved in the
// description and their relative order decides which duplicate name wins, so
// children are decoded in document order rather than into typed slices.
type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []element  `xml:",any"`
}

func (e *element) attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

type spriteInformation struct {
	XMLName          xml.Name `xml:"SpriteInformation"`
	FrameInformation *element `xml:"FrameInformation"`
}

// ParseFile reads and parses an atlas description file.
func ParseFile(path string) (*Atlas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read atlas file '%s': %w", path, err)
	}

	a, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse atlas '%s': %w", path, err)
	}
	return a, nil
}

// Parse parses an atlas description:
//
//	<SpriteInformation>
//	  <FrameInformation name="InGame" type="png" texw="1024" texh="512">
//	    <Cell name="hero" x="0" y="0" w="64" h="64"/>
//	    <Animation name="walk">
//	      <Cell name="walk_0" x="64" y="0" w="64" h="64" ax="2" ay="1" aw="60" ah="62"/>
//	    </Animation>
//	  </FrameInformation>
//	</SpriteInformation>
//
// Animation elements only group cells; their name is not kept. The returned
// atlas is normalized.
func Parse(data []byte) (*Atlas, error) {
	var doc spriteInformation
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, fail(&ParseError{Err: err})
	}
	if doc.FrameInformation == nil {
		return nil, fail(&ParseError{Element: "SpriteInformation", Err: errors.New("missing FrameInformation")})
	}

	info := doc.FrameInformation
	a := &Atlas{cells: make(map[string]SpriteCell)}

	var err error
	if a.TextureName, err = requiredString(info, "FrameInformation", "name"); err != nil {
		return nil, fail(err)
	}
	if a.TextureType, err = requiredString(info, "FrameInformation", "type"); err != nil {
		return nil, fail(err)
	}
	if a.TextureWidth, err = requiredInt(info, "FrameInformation", "texw"); err != nil {
		return nil, fail(err)
	}
	if a.TextureHeight, err = requiredInt(info, "FrameInformation", "texh"); err != nil {
		return nil, fail(err)
	}

	index := 0
	for i := range info.Children {
		child := &info.Children[i]
		switch child.XMLName.Local {
		case "Cell":
			if err := parseCell(a, child, index); err != nil {
				return nil, fail(err)
			}
			index++
		case "Animation":
			for j := range child.Children {
				cell := &child.Children[j]
				if cell.XMLName.Local != "Cell" {
					continue
				}
				if err := parseCell(a, cell, index); err != nil {
					return nil, fail(err)
				}
				index++
			}
		}
	}

	if err := a.Normalize(); err != nil {
		return nil, fail(&ParseError{Element: "FrameInformation", Err: err})
	}

	logging.Logger().Debug("atlas parsed", "texture", a.TextureName, "cells", a.Len())
	return a, nil
}

func fail(err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		logging.Logger().Error("atlas parse aborted", "element", pe.Element, "attr", pe.Attr, "err", pe.Err)
	}
	return err
}

func parseCell(a *Atlas, e *element, index int) error {
	label := fmt.Sprintf("Cell #%d", index)

	name, err := requiredString(e, label, "name")
	if err != nil {
		return err
	}
	label = fmt.Sprintf("Cell %q", name)

	cell := SpriteCell{Name: name, TextureScale: 1.0}
	for _, f := range []struct {
		attr string
		dst  *int
	}{
		{"x", &cell.X}, {"y", &cell.Y}, {"w", &cell.W}, {"h", &cell.H},
	} {
		if *f.dst, err = requiredInt(e, label, f.attr); err != nil {
			return err
		}
	}
	for _, f := range []struct {
		attr string
		dst  *int
	}{
		{"ax", &cell.AX}, {"ay", &cell.AY}, {"aw", &cell.AW}, {"ah", &cell.AH},
	} {
		if *f.dst, err = optionalInt(e, label, f.attr); err != nil {
			return err
		}
	}

	a.Add(cell)
	return nil
}

func requiredString(e *element, label, attr string) (string, error) {
	v, ok := e.attr(attr)
	if !ok {
		return "", &ParseError{Element: label, Attr: attr, Err: errMissingAttr}
	}
	return v, nil
}

func requiredInt(e *element, label, attr string) (int, error) {
	v, ok := e.attr(attr)
	if !ok {
		return 0, &ParseError{Element: label, Attr: attr, Err: errMissingAttr}
	}
	return parseInt(label, attr, v)
}

// optionalInt returns 0 for an absent attribute; a present but malformed value
// is still an error.
func optionalInt(e *element, label, attr string) (int, error) {
	v, ok := e.attr(attr)
	if !ok {
		return 0, nil
	}
	return parseInt(label, attr, v)
}

func parseInt(label, attr, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ParseError{Element: label, Attr: attr, Err: err}
	}
	if n < 0 {
		return 0, &ParseError{Element: label, Attr: attr, Err: fmt.Errorf("negative value %d", n)}
	}
	return n, nil
}
