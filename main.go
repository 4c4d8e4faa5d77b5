// Command spritetool 是合成精灵查看器
//
// 用法：
//
//	spritetool [-config viewer.yaml] [-v] path/to/sprite.json
//	spritetool -sample
//
// 不带参数启动时显示空白画面，拖放 .json 文档（或其所在目录）即可打开。
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/decker502/spritetool/pkg/app"
	"github.com/decker502/spritetool/pkg/config"
	"github.com/decker502/spritetool/pkg/embedded"
	"github.com/decker502/spritetool/pkg/logging"
	"github.com/decker502/spritetool/pkg/scene"
	"github.com/decker502/spritetool/pkg/settings"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	appName        = "spritetool"
	defaultConfig  = "data/viewer.yaml"
	embeddedSample = "assets/samples/hero.json"
)

var (
	configPath  = flag.String("config", "", "查看器配置文件路径（默认使用内置 data/viewer.yaml）")
	verbose     = flag.Bool("v", false, "输出详细日志")
	showVersion = flag.Bool("version", false, "显示版本并退出")
	useSample   = flag.Bool("sample", false, "打开内置示例动画")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(appName, app.Version)
		return
	}

	embedded.Init(assetsFS, dataFS)

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	viewerCfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	prefs := settings.NewManager(settings.OpenStore(appName), app.PreferenceLimits)

	cfg := app.Config{
		Verbose:  *verbose,
		Viewer:   viewerCfg,
		Settings: prefs,
		Source:   scene.OSSource{},
	}
	switch {
	case *useSample:
		if !embedded.Exists(embeddedSample) {
			log.Fatalf("内置示例不存在: %s", embeddedSample)
		}
		assets, err := embedded.Assets()
		if err != nil {
			log.Fatalf("读取内置示例失败: %v", err)
		}
		cfg.Source = scene.FSSource{FS: assets}
		cfg.InitialPath = embeddedSample
	case flag.NArg() > 0:
		cfg.InitialPath = flag.Arg(0)
	}

	viewer, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("查看器初始化失败: %v", err)
	}

	ebiten.SetWindowSize(viewerCfg.Window.Width, viewerCfg.Window.Height)
	ebiten.SetWindowTitle("Compound Sprite Viewer " + app.Version)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	runErr := ebiten.RunGame(viewer)
	if err := viewer.Close(); err != nil {
		log.Printf("[Settings] 保存偏好失败: %v", err)
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}

// loadConfig 读取配置：指定路径优先，否则使用内置默认配置
func loadConfig(path string) (*config.ViewerConfig, error) {
	if path != "" {
		return config.LoadViewerConfig(path)
	}
	data, err := embedded.ReadFile(defaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded config: %w", err)
	}
	return config.ParseViewerConfig(data)
}
