// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包提供包装函数，让其他包可以访问嵌入的默认配置与示例资源。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

var (
	assetsFS    fs.FS
	dataFS      fs.FS
	initialized bool
)

var errNotInitialized = errors.New("embedded package not initialized, call Init() first")

// Init 设置资源文件系统
// 必须在 main() 开始时、任何资源加载之前调用
//
// 两个文件系统都以仓库根目录为根，路径分别以 "assets/" 和 "data/" 开头。
// 测试中可以传入 testing/fstest.MapFS。
func Init(assets, data fs.FS) {
	assetsFS = assets
	dataFS = data
	initialized = true
}

// resolve 标准化路径并根据前缀选择文件系统
func resolve(path string) (fs.FS, string, error) {
	if !initialized {
		return nil, "", errNotInitialized
	}

	// embed.FS 使用正斜杠，且不接受 "./" 前缀
	path = strings.TrimPrefix(filepath.ToSlash(path), "./")

	switch {
	case strings.HasPrefix(path, "assets/"):
		return assetsFS, path, nil
	case strings.HasPrefix(path, "data/"):
		return dataFS, path, nil
	}
	return nil, "", fmt.Errorf("unknown resource path prefix: %s (must start with 'assets/' or 'data/')", path)
}

// ReadFile 读取嵌入文件内容
func ReadFile(path string) ([]byte, error) {
	fsys, p, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(fsys, p)
}

// Exists 检查文件是否存在
func Exists(path string) bool {
	fsys, p, err := resolve(path)
	if err != nil {
		return false
	}
	_, err = fs.Stat(fsys, p)
	return err == nil
}

// Assets 返回整个资源文件系统（路径以 "assets/" 开头）
func Assets() (fs.FS, error) {
	if !initialized {
		return nil, errNotInitialized
	}
	return assetsFS, nil
}
