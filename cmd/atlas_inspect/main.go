package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/decker502/spritetool/internal/atlas"
	"github.com/decker502/spritetool/pkg/app"
)

var (
	tier        = flag.String("resolution", "low", "图集所属档位 (low, high, ultra)")
	filter      = flag.String("filter", "", "只显示名称包含该关键字的精灵")
	showVersion = flag.Bool("version", false, "显示版本并退出")
)

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println("atlas_inspect", app.Version)
		return
	}
	if flag.NArg() < 1 {
		fmt.Println("用法: go run ./cmd/atlas_inspect [-resolution low] [-filter name] <图集xml路径>")
		os.Exit(1)
	}

	r, err := atlas.ParseResolution(*tier)
	if err != nil {
		log.Fatalf("%v", err)
	}

	a, err := atlas.ParseFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("解析失败: %v", err)
	}
	a.SetResolution(r, atlas.DefaultTierRatios)

	fmt.Printf("纹理: %s (%s) %dx%d\n", a.TextureName, a.TextureType, a.TextureWidth, a.TextureHeight)
	fmt.Printf("精灵数量: %d  档位: %s\n\n", a.Len(), r)
	fmt.Printf("%-32s %-22s %-22s %s\n", "名称", "像素矩形", "裁剪矩形", "UV")

	for _, name := range a.Names() {
		if *filter != "" && !strings.Contains(name, *filter) {
			continue
		}
		c, _ := a.Lookup(name)
		trim := "-"
		if c.Trimmed() {
			trim = fmt.Sprintf("%d,%d %dx%d", c.AX, c.AY, c.AW, c.AH)
		}
		fmt.Printf("%-32s %-22s %-22s (%.4f, %.4f)-(%.4f, %.4f) x%.2f\n",
			name, fmt.Sprintf("%d,%d %dx%d", c.X, c.Y, c.W, c.H), trim,
			c.MinU, c.MinV, c.MaxU, c.MaxV, c.TextureScale)
	}
}
