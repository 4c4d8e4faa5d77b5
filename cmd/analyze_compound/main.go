package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/decker502/spritetool/internal/compound"
	"github.com/decker502/spritetool/pkg/app"
)

var (
	samples     = flag.Int("samples", 5, "每个 actor 采样的时间点数量")
	showVersion = flag.Bool("version", false, "显示版本并退出")
)

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println("analyze_compound", app.Version)
		return
	}
	if flag.NArg() < 1 {
		fmt.Println("用法: go run ./cmd/analyze_compound [-samples N] <compound文件路径>")
		os.Exit(1)
	}

	path := flag.Arg(0)
	doc, err := compound.ParseFile(path)
	if err != nil {
		log.Fatalf("解析失败: %v", err)
	}

	ax, ay := doc.Alignment()
	px, py := doc.Point()
	fmt.Printf("文档: %s\n", path)
	fmt.Printf("版本: %d\n", doc.Version())
	fmt.Printf("时长: %.3f 秒\n", doc.StageLength())
	fmt.Printf("对齐: %s/%s  锚点: (%.1f, %.1f)\n", ax, ay, px, py)
	fmt.Printf("Actor 数量: %d  Timeline 数量: %d\n\n", doc.ActorCount(), len(doc.Timelines()))

	sprites := doc.TextureSprites()
	for _, texture := range doc.Textures() {
		fmt.Printf("纹理 %s: %d 个精灵\n", texture, len(sprites[texture]))
	}
	fmt.Println()

	n := *samples
	if n < 1 {
		n = 1
	}
	for _, actor := range doc.Actors() {
		tl, _ := doc.Timeline(actor.ID)
		fmt.Printf("[%d] %-24s %-9s 关键帧: %d\n", actor.ID, actor.Sprite, actor.Type, len(tl))

		for i := 0; i < n; i++ {
			t := 0.0
			if n > 1 {
				t = doc.StageLength() * float64(i) / float64(n-1)
			}
			s := doc.StateAt(actor.ID, t)
			fmt.Printf("    t=%-7.3f pos=(%7.2f, %7.2f) scale=(%.2f, %.2f) alpha=%.2f shown=%v colour=%08x\n",
				t, s.PosX, s.PosY, s.ScaleX, s.ScaleY, s.Alpha, s.Shown, s.Colour.Packed())
		}
	}
}
