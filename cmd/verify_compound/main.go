package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/decker502/spritetool/internal/atlas"
	"github.com/decker502/spritetool/pkg/app"
	"github.com/decker502/spritetool/pkg/config"
	"github.com/decker502/spritetool/pkg/logging"
	"github.com/decker502/spritetool/pkg/resources"
	"github.com/decker502/spritetool/pkg/scene"
)

var (
	configPath  = flag.String("config", "", "查看器配置文件路径（默认使用内置默认值）")
	tier        = flag.String("resolution", "", "检查的纹理档位 (low, high, ultra)，默认使用配置")
	verbose     = flag.Bool("verbose", false, "显示详细调试信息")
	showVersion = flag.Bool("version", false, "显示版本并退出")
)

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println("verify_compound", app.Version)
		return
	}
	if flag.NArg() < 1 {
		fmt.Println("用法: go run ./cmd/verify_compound [-config viewer.yaml] [-resolution low] <compound文件路径>")
		os.Exit(1)
	}
	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := config.DefaultViewerConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadViewerConfig(*configPath); err != nil {
			log.Fatalf("加载配置失败: %v", err)
		}
	}
	r := cfg.InitialResolution()
	if *tier != "" {
		var err error
		if r, err = atlas.ParseResolution(*tier); err != nil {
			log.Fatalf("%v", err)
		}
	}

	src := scene.OSSource{}
	lib := scene.NewLibrary(src, cfg.CompoundOptions())
	rootKey, err := lib.LoadRecursive(flag.Arg(0))
	if err != nil {
		var cycle *scene.CyclicReferenceError
		if errors.As(err, &cycle) {
			fmt.Printf("❌ 循环引用: %v\n", cycle)
			os.Exit(1)
		}
		log.Fatalf("加载失败: %v", err)
	}

	res := resources.NewManager(cfg)
	missing, err := res.Load(src, src.Dir(rootKey), res.RequiredTextures(lib), r)
	if err != nil {
		log.Fatalf("加载图集失败: %v", err)
	}

	fmt.Printf("根文档: %s\n", rootKey)
	fmt.Printf("文档数量: %d  实例数量: %d\n", lib.Len(), scene.CountInstances(scene.BuildInstanceTree(lib, rootKey)))
	fmt.Printf("纹理目录: %s (%s)\n\n", res.TextureDir(), r)

	problems := 0
	for _, tex := range missing {
		fmt.Printf("❌ 缺少图集: %s\n", tex)
		problems++
	}

	for _, key := range lib.Paths() {
		doc, _ := lib.Document(key)
		for _, actor := range doc.Actors() {
			if actor.IsCompound() {
				continue
			}
			tex, ok := doc.TextureForSprite(actor.Sprite)
			if !ok {
				fmt.Printf("❌ %s: actor %d 的精灵 '%s' 未在 SpriteInfo 中列出\n", key, actor.ID, actor.Sprite)
				problems++
				continue
			}
			if _, loaded := res.Atlas(tex); !loaded {
				continue
			}
			if _, ok := res.Cell(tex, actor.Sprite); !ok {
				fmt.Printf("❌ %s: 图集 %s 中没有精灵 '%s' (actor %d)\n", key, tex, actor.Sprite, actor.ID)
				problems++
			}
		}
		for id := range doc.Timelines() {
			if _, ok := doc.Actor(id); !ok {
				fmt.Printf("⚠️  %s: timeline %d 没有对应的 actor\n", key, id)
			}
		}
	}

	if problems > 0 {
		fmt.Printf("\n发现 %d 个问题\n", problems)
		os.Exit(1)
	}
	fmt.Println("✅ 所有精灵都能在图集中找到")
}
