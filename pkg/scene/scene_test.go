package scene

import (
	"fmt"
	"strings"
	"testing/fstest"
)

const stateFields = `"Angle": 0, "Flip": 0, "Scale": [1, 1], "Shown": true`

// spriteActor renders one sprite actor entry.
func spriteActor(uid int, sprite string, x, y float64) string {
	return fmt.Sprintf(`{"uid": %d, "type": 1, "sprite": %q, "Position": [%v, %v], %s}`, uid, sprite, x, y, stateFields)
}

// compoundActor renders one compound actor entry with the given pose.
func compoundActor(uid int, file string, x, y, sx, sy float64) string {
	return fmt.Sprintf(`{"uid": %d, "type": 2, "sprite": %q, "Angle": 0, "Flip": 0, "Position": [%v, %v], "Scale": [%v, %v], "Shown": true}`,
		uid, file, x, y, sx, sy)
}

// document renders a compound document listing the sprites under one texture.
func document(sprites []string, actors ...string) string {
	infos := make([]string, 0, len(sprites))
	for _, s := range sprites {
		infos = append(infos, fmt.Sprintf(`{"SpriteInfo": %q, "Texture": "InGame"}`, s))
	}
	return fmt.Sprintf(`{"stageOptions": {"StageLength": 0, "SpriteInfo": [%s]}, "actors": [%s]}`,
		strings.Join(infos, ","), strings.Join(actors, ","))
}

// countingSource records how often each path is read.
type countingSource struct {
	FSSource
	reads map[string]int
}

func newCountingSource(files fstest.MapFS) *countingSource {
	return &countingSource{FSSource: FSSource{FS: files}, reads: make(map[string]int)}
}

func (s *countingSource) ReadFile(name string) ([]byte, error) {
	s.reads[name]++
	return s.FSSource.ReadFile(name)
}
