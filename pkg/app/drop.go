package app

import (
	"errors"
	"io/fs"
	"path"
	"sort"
	"strings"
)

var errNoCompound = errors.New("no .json compound document in dropped files")

// findCompound 在拖放的文件中查找要打开的合成精灵文档
//
// 选择目录层级最浅的 .json 文件，同一层级按名称排序取第一个。
// 拖入整个美术目录时，贴图目录也随之可用。
func findCompound(fsys fs.FS) (string, error) {
	var candidates []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(path.Ext(p), ".json") {
			candidates = append(candidates, p)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", errNoCompound
	}

	sort.Slice(candidates, func(i, j int) bool {
		di, dj := strings.Count(candidates[i], "/"), strings.Count(candidates[j], "/")
		if di != dj {
			return di < dj
		}
		return candidates[i] < candidates[j]
	})
	return candidates[0], nil
}
