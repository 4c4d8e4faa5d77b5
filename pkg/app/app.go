// Package app 提供合成精灵查看器的 ebiten 游戏循环
//
// 查看器打开一个合成精灵文档（及其引用的子文档），按配置的分辨率档位加载图集，
// 循环播放动画。支持拖放打开、缩放、调速、切换档位和隐藏顶层实例。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"strings"
	"time"

	"github.com/decker502/spritetool/internal/atlas"
	"github.com/decker502/spritetool/pkg/config"
	"github.com/decker502/spritetool/pkg/render"
	"github.com/decker502/spritetool/pkg/resources"
	"github.com/decker502/spritetool/pkg/scene"
	"github.com/decker502/spritetool/pkg/settings"
	"github.com/decker502/spritetool/pkg/utils"
	"github.com/gogpu/gg"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Version 查看器版本
const Version = "v0.1.0"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Viewer 查看器配置（data/viewer.yaml）
	Viewer *config.ViewerConfig
	// Settings 用户偏好，可为 nil
	Settings *settings.Manager
	// Source 读取 InitialPath 使用的文件来源
	Source scene.Source
	// InitialPath 启动时打开的文档，为空则不打开
	InitialPath string
}

// PreferenceLimits 用户偏好中速度与缩放的取值范围
var PreferenceLimits = settings.Limits{MaxSpeed: MaxSpeed, MinZoom: MinZoom}

var selectKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// App 查看器，实现 ebiten.Game 接口
type App struct {
	cfg      *config.ViewerConfig
	prefs    *settings.Manager
	verbose  bool
	ws       *scene.Workspace
	res      *resources.Manager
	renderer *render.ScreenRenderer

	resolution atlas.Resolution
	playback   Playback
	zoom       *Zoom

	panX, panY float64
	drag       utils.DragTracker

	selected   int
	stats      render.Stats
	status     string
	lastUpdate time.Time

	width, height int
}

// NewApp 创建查看器
//
// 初始文档打开失败时返回错误；没有初始文档时显示空白画面等待拖放。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	prefs := cfg.Settings
	if prefs == nil {
		prefs = settings.NewManager(nil, PreferenceLimits)
	}
	p := prefs.Settings()

	resolution := cfg.Viewer.InitialResolution()
	if p.Resolution != "" {
		if r, err := atlas.ParseResolution(p.Resolution); err == nil {
			resolution = r
		}
	}

	res := resources.NewManager(cfg.Viewer)
	a := &App{
		cfg:        cfg.Viewer,
		prefs:      prefs,
		verbose:    cfg.Verbose,
		ws:         scene.NewWorkspace(cfg.Source, cfg.Viewer.CompoundOptions()),
		res:        res,
		renderer:   render.NewScreenRenderer(res),
		resolution: resolution,
		playback: Playback{
			Speed:    cfg.Viewer.PlaybackSpeed(),
			Animate:  cfg.Viewer.AnimateOnStart(),
			MaxDelta: cfg.Viewer.Playback.MaxDelta,
		},
		zoom:   NewZoom(p.Zoom),
		width:  cfg.Viewer.Window.Width,
		height: cfg.Viewer.Window.Height,
	}
	if prefs.Persistent() {
		a.playback.Speed = min(max(p.Speed, 0), MaxSpeed)
		a.playback.Animate = p.Animate
	}

	if cfg.InitialPath != "" {
		if err := a.Open(cfg.Source, cfg.InitialPath); err != nil {
			return nil, fmt.Errorf("failed to open '%s': %w", cfg.InitialPath, err)
		}
	}
	return a, nil
}

// Open 打开文档及其子文档并加载所需图集
//
// 任何一步失败都保留当前文档和图集。
func (a *App) Open(src scene.Source, path string) error {
	snap, err := a.ws.Load(src, path)
	if err != nil {
		a.status = fmt.Sprintf("open failed: %v", err)
		return err
	}

	missing, err := a.res.Load(src, snap.Dir(), a.res.RequiredTextures(snap.Library), a.resolution)
	if err != nil {
		a.status = fmt.Sprintf("atlas load failed: %v", err)
		return err
	}

	a.ws.Commit(snap)
	a.renderer.Reset()
	a.playback.Reset()
	a.selected = 0
	a.status = fmt.Sprintf("opened %s", snap.Path)
	if len(missing) > 0 {
		a.status += fmt.Sprintf(" (missing atlases: %s)", strings.Join(missing, ", "))
	}
	log.Printf("[Viewer] Opened %s: %d documents, %d instances", snap.Path,
		snap.Library.Len(), scene.CountInstances(snap.Tree))

	if _, ok := src.(scene.OSSource); ok {
		a.prefs.RecordOpened(snap.Path)
	}
	return nil
}

// cycleResolution 切换到下一个分辨率档位并重新加载图集
func (a *App) cycleResolution() {
	next := a.resolution.Next()
	snap := a.ws.Snapshot()
	if snap == nil {
		a.resolution = next
		a.prefs.SetResolution(next.String())
		return
	}

	missing, err := a.res.Load(snap.Source, snap.Dir(), a.res.RequiredTextures(snap.Library), next)
	if err != nil {
		a.status = fmt.Sprintf("resolution %s failed: %v", next, err)
		log.Printf("[Viewer] Failed to switch to %s: %v", next, err)
		return
	}
	a.resolution = next
	a.prefs.SetResolution(next.String())
	a.renderer.Reset()
	a.status = fmt.Sprintf("resolution %s", next)
	if len(missing) > 0 {
		a.status += fmt.Sprintf(" (missing atlases: %s)", strings.Join(missing, ", "))
	}
}

// Update 处理输入并推进动画
func (a *App) Update() error {
	now := time.Now()
	dt := 0.0
	if !a.lastUpdate.IsZero() {
		dt = now.Sub(a.lastUpdate).Seconds()
	}
	a.lastUpdate = now

	a.handleDrop()
	a.handleKeys()
	a.handleMouse()

	stageLength := 0.0
	if snap := a.ws.Snapshot(); snap != nil {
		stageLength = snap.Root.StageLength()
	}
	a.playback.Advance(dt, stageLength)
	a.zoom.Update(dt)
	return nil
}

func (a *App) handleDrop() {
	dropped := ebiten.DroppedFiles()
	if dropped == nil {
		return
	}
	name, err := findCompound(dropped)
	if err != nil {
		a.status = err.Error()
		return
	}
	if err := a.Open(scene.FSSource{FS: dropped}, name); err != nil {
		log.Printf("[Viewer] Failed to open dropped %s: %v", name, err)
	}
}

func (a *App) handleKeys() {
	stageLength := 0.0
	if snap := a.ws.Snapshot(); snap != nil {
		stageLength = snap.Root.StageLength()
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		a.playback.Animate = !a.playback.Animate
		a.prefs.SetAnimate(a.playback.Animate)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		a.playback.AdjustSpeed(SpeedStep)
		a.prefs.SetSpeed(a.playback.Speed)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		a.playback.AdjustSpeed(-SpeedStep)
		a.prefs.SetSpeed(a.playback.Speed)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		a.playback.Step(1.0/float64(ebiten.TPS()), stageLength)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		a.playback.Step(-1.0/float64(ebiten.TPS()), stageLength)
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		a.playback.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		a.cycleResolution()
	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		if visible, ok := a.ws.ToggleVisible([]int{a.selected}); ok {
			a.status = fmt.Sprintf("instance %d visible=%v", a.selected+1, visible)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit0):
		a.zoom.SetTarget(1)
		a.panX, a.panY = 0, 0
	}

	for i, key := range selectKeys {
		if inpututil.IsKeyJustPressed(key) {
			a.selected = i
		}
	}
}

func (a *App) handleMouse() {
	if _, wy := ebiten.Wheel(); wy != 0 {
		a.zoom.Wheel(wy)
		a.prefs.SetZoom(a.zoom.Target())
	}

	dx, dy := a.drag.Update(pointerState())
	a.panX += float64(dx)
	a.panY += float64(dy)
}

// view 返回文档坐标到屏幕坐标的变换：屏幕中心为原点
func (a *App) view() gg.Matrix {
	z := a.zoom.Value()
	return gg.Translate(float64(a.width)/2+a.panX, float64(a.height)/2+a.panY).Multiply(gg.Scale(z, z))
}

// Draw 绘制当前帧
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(a.cfg.BackgroundColor())

	view := a.view()
	origin := view.TransformPoint(gg.Pt(0, 0))
	axis := color.RGBA{R: 90, G: 90, B: 100, A: 255}
	vector.StrokeLine(screen, float32(origin.X)-8, float32(origin.Y), float32(origin.X)+8, float32(origin.Y), 1, axis, false)
	vector.StrokeLine(screen, float32(origin.X), float32(origin.Y)-8, float32(origin.X), float32(origin.Y)+8, 1, axis, false)

	snap := a.ws.Snapshot()
	if snap != nil {
		a.stats = a.renderer.Draw(screen, snap.Tree, view, a.playback.Time)
	}
	ebitenutil.DebugPrintAt(screen, a.hud(snap), 8, 8)
}

func (a *App) hud(snap *scene.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Compound Sprite Viewer %s\n", Version)
	if snap == nil {
		b.WriteString("Drop a compound .json (or its folder) to open\n")
	} else {
		fmt.Fprintf(&b, "%s  [%d documents, %d instances]\n", snap.Path, snap.Library.Len(), scene.CountInstances(snap.Tree))
		fmt.Fprintf(&b, "time %.3f / %.3f  speed x%.2f  %s\n", a.playback.Time, snap.Root.StageLength(), a.playback.Speed, playState(a.playback.Animate))
		fmt.Fprintf(&b, "drawn %d  hidden %d  unresolved %d\n", a.stats.Drawn, a.stats.Hidden, a.stats.Unresolved)
		if a.selected < len(snap.Tree) {
			node := snap.Tree[a.selected]
			if actor, ok := node.Actor(); ok {
				fmt.Fprintf(&b, "selected #%d: %s (%s) visible=%v\n", a.selected+1, actor.Sprite, actor.Type, node.Visible)
			}
		}
	}
	fmt.Fprintf(&b, "zoom %.2f  resolution %s\n", a.zoom.Value(), a.resolution)
	if a.status != "" {
		b.WriteString(a.status + "\n")
	}
	b.WriteString("Space play/pause  Up/Down speed  Left/Right step  Home rewind\n")
	b.WriteString("Wheel zoom  Drag pan  0 reset view  R resolution  1-9 select  V toggle")
	return b.String()
}

func playState(animate bool) string {
	if animate {
		return "playing"
	}
	return "paused"
}

// Layout 使用窗口的实际尺寸作为逻辑尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.width, a.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// Close 保存用户偏好
func (a *App) Close() error {
	a.prefs.SetSpeed(a.playback.Speed)
	a.prefs.SetZoom(a.zoom.Target())
	a.prefs.SetAnimate(a.playback.Animate)
	a.prefs.SetResolution(a.resolution.String())
	return a.prefs.Save()
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
