package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/decker502/spritetool/internal/atlas"
	"github.com/decker502/spritetool/internal/compound"
	"gopkg.in/yaml.v3"
)

// 播放速度上限（与查看器的速度滑杆一致）
const MaxPlaybackSpeed = 10.0

// ViewerConfig 查看器配置文件的顶层结构
type ViewerConfig struct {
	// TextureRoot 图集根目录，相对路径以打开的文档所在目录为基准
	TextureRoot string `yaml:"texture_root"`

	// Resolution 启动时的分辨率档位（low / high / ultra）
	Resolution string `yaml:"resolution"`

	// Resolutions 档位名 -> 子目录与缩放
	Resolutions map[string]TierConfig `yaml:"resolutions"`

	// AlwaysLoadTextures 总是加载的纹理名称
	AlwaysLoadTextures []string `yaml:"always_load_textures,omitempty"`

	// ImageExtension 纹理图片扩展名（默认 ".png"）
	ImageExtension string `yaml:"image_extension"`

	// AlphaDefault 状态缺少 Alpha 时的默认值（nil 表示使用 1.0）
	AlphaDefault *float64 `yaml:"alpha_default,omitempty"`

	Window     WindowConfig   `yaml:"window"`
	Background []int          `yaml:"background"`
	Playback   PlaybackConfig `yaml:"playback"`
}

// TierConfig 单个分辨率档位
type TierConfig struct {
	// Dir 档位子目录（相对于 TextureRoot）
	Dir string `yaml:"dir"`

	// Scale 该档位所有精灵单元的 textureScale
	Scale float64 `yaml:"scale"`
}

// WindowConfig 窗口尺寸
type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PlaybackConfig 播放参数
type PlaybackConfig struct {
	// Speed 播放速度倍率 0 ~ MaxPlaybackSpeed（默认 1.0，0 表示暂停）
	Speed *float64 `yaml:"speed,omitempty"`

	// Animate 启动时是否播放（默认 true）
	Animate *bool `yaml:"animate,omitempty"`

	// MaxDelta 单帧最大时间步长（秒），防止卡顿后动画跳跃
	MaxDelta float64 `yaml:"max_delta"`
}

// DefaultViewerConfig 返回内置默认配置
func DefaultViewerConfig() *ViewerConfig {
	alpha := 1.0
	speed := 1.0
	animate := true
	return &ViewerConfig{
		TextureRoot: "textures",
		Resolution:  atlas.Low.String(),
		Resolutions: map[string]TierConfig{
			atlas.Low.String():   {Dir: "low", Scale: 1.0},
			atlas.High.String():  {Dir: "high", Scale: atlas.DefaultTierRatios.High},
			atlas.Ultra.String(): {Dir: "ultra", Scale: atlas.DefaultTierRatios.Ultra},
		},
		AlwaysLoadTextures: []string{"InGame"},
		ImageExtension:     ".png",
		AlphaDefault:       &alpha,
		Window:             WindowConfig{Width: 1280, Height: 720},
		Background:         []int{48, 48, 56},
		Playback: PlaybackConfig{
			Speed:    &speed,
			Animate:  &animate,
			MaxDelta: 0.05,
		},
	}
}

// LoadViewerConfig 从 YAML 文件加载查看器配置
//
// 参数：
//   - path: 配置文件路径
//
// 返回：
//   - *ViewerConfig: 合并默认值并通过验证的配置
//   - error: 加载、解析或验证错误
func LoadViewerConfig(path string) (*ViewerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取配置文件 %s: %w", path, err)
	}

	cfg, err := ParseViewerConfig(data)
	if err != nil {
		return nil, fmt.Errorf("配置文件 %s: %w", path, err)
	}
	return cfg, nil
}

// ParseViewerConfig 解析 YAML 数据，未设置的字段使用默认值
func ParseViewerConfig(data []byte) (*ViewerConfig, error) {
	var cfg ViewerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("无法解析配置: %w", err)
	}

	applyViewerDefaults(&cfg)

	if err := validateViewerConfig(&cfg); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}
	return &cfg, nil
}

// applyViewerDefaults 填充未设置的字段
func applyViewerDefaults(cfg *ViewerConfig) {
	def := DefaultViewerConfig()

	if cfg.TextureRoot == "" {
		cfg.TextureRoot = def.TextureRoot
	}
	if cfg.Resolution == "" {
		cfg.Resolution = def.Resolution
	}
	if cfg.Resolutions == nil {
		cfg.Resolutions = make(map[string]TierConfig)
	}
	for name, tier := range def.Resolutions {
		cur, ok := cfg.Resolutions[name]
		if !ok {
			cfg.Resolutions[name] = tier
			continue
		}
		if cur.Dir == "" {
			cur.Dir = tier.Dir
		}
		if cur.Scale == 0 {
			cur.Scale = tier.Scale
		}
		cfg.Resolutions[name] = cur
	}
	if cfg.ImageExtension == "" {
		cfg.ImageExtension = def.ImageExtension
	}
	if cfg.AlphaDefault == nil {
		cfg.AlphaDefault = def.AlphaDefault
	}
	if cfg.Window.Width == 0 {
		cfg.Window.Width = def.Window.Width
	}
	if cfg.Window.Height == 0 {
		cfg.Window.Height = def.Window.Height
	}
	if cfg.Background == nil {
		cfg.Background = def.Background
	}
	if cfg.Playback.Animate == nil {
		cfg.Playback.Animate = def.Playback.Animate
	}
	if cfg.Playback.Speed == nil {
		cfg.Playback.Speed = def.Playback.Speed
	}
	if cfg.Playback.MaxDelta == 0 {
		cfg.Playback.MaxDelta = def.Playback.MaxDelta
	}
}

// validateViewerConfig 验证配置的完整性和正确性
func validateViewerConfig(cfg *ViewerConfig) error {
	if _, err := atlas.ParseResolution(cfg.Resolution); err != nil {
		return fmt.Errorf("字段 'resolution' 无效: %w", err)
	}

	for name, tier := range cfg.Resolutions {
		r, err := atlas.ParseResolution(name)
		if err != nil {
			return fmt.Errorf("'resolutions' 中的档位 '%s' 无效: %w", name, err)
		}
		if tier.Scale <= 0 {
			return fmt.Errorf("档位 '%s' 的 scale 必须大于 0，当前为 %v", name, tier.Scale)
		}
		if r == atlas.Low && tier.Scale != 1 {
			return fmt.Errorf("档位 'low' 是创作基准，scale 必须为 1，当前为 %v", tier.Scale)
		}
	}

	if !strings.HasPrefix(cfg.ImageExtension, ".") {
		return fmt.Errorf("字段 'image_extension' 必须以 '.' 开头，当前为 '%s'", cfg.ImageExtension)
	}

	if a := *cfg.AlphaDefault; a < 0 || a > 1 {
		return fmt.Errorf("字段 'alpha_default' 必须在 0 ~ 1 之间，当前为 %v", a)
	}

	if cfg.Window.Width < 0 || cfg.Window.Height < 0 {
		return fmt.Errorf("窗口尺寸无效: %dx%d", cfg.Window.Width, cfg.Window.Height)
	}

	if len(cfg.Background) != 3 {
		return fmt.Errorf("字段 'background' 必须是 [r, g, b]，当前有 %d 个分量", len(cfg.Background))
	}
	for i, c := range cfg.Background {
		if c < 0 || c > 255 {
			return fmt.Errorf("'background' 第 %d 个分量超出 0 ~ 255: %d", i, c)
		}
	}

	if s := *cfg.Playback.Speed; s < 0 || s > MaxPlaybackSpeed {
		return fmt.Errorf("字段 'playback.speed' 必须在 0 ~ %v 之间，当前为 %v", MaxPlaybackSpeed, s)
	}
	if cfg.Playback.MaxDelta <= 0 {
		return fmt.Errorf("字段 'playback.max_delta' 必须大于 0，当前为 %v", cfg.Playback.MaxDelta)
	}

	for i, tex := range cfg.AlwaysLoadTextures {
		if strings.TrimSpace(tex) == "" {
			return fmt.Errorf("'always_load_textures' 第 %d 项为空", i)
		}
	}
	return nil
}

// InitialResolution 返回启动档位
func (c *ViewerConfig) InitialResolution() atlas.Resolution {
	r, _ := atlas.ParseResolution(c.Resolution)
	return r
}

// TierDir 返回档位子目录
func (c *ViewerConfig) TierDir(r atlas.Resolution) string {
	return c.Resolutions[r.String()].Dir
}

// TierRatios 返回高/超高档位相对基准档位的缩放
func (c *ViewerConfig) TierRatios() atlas.TierRatios {
	return atlas.TierRatios{
		High:  c.Resolutions[atlas.High.String()].Scale,
		Ultra: c.Resolutions[atlas.Ultra.String()].Scale,
	}
}

// TextureDir 返回某个档位的纹理目录
//
// 相对的 TextureRoot 以 docDir（打开的文档所在目录）为基准。
// join 用于拼接路径，使 OS 路径与 fs.FS 路径使用各自的分隔规则。
func (c *ViewerConfig) TextureDir(docDir string, r atlas.Resolution, join func(elem ...string) string) string {
	root := c.TextureRoot
	if !filepath.IsAbs(root) {
		root = join(docDir, root)
	}
	return join(root, c.TierDir(r))
}

// CompoundOptions 返回文档解析选项
func (c *ViewerConfig) CompoundOptions() compound.Options {
	return compound.Options{DefaultAlpha: *c.AlphaDefault}
}

// PlaybackSpeed 返回启动时的播放速度
func (c *ViewerConfig) PlaybackSpeed() float64 {
	return *c.Playback.Speed
}

// AnimateOnStart 返回启动时是否播放
func (c *ViewerConfig) AnimateOnStart() bool {
	return *c.Playback.Animate
}

// BackgroundColor 返回背景色
func (c *ViewerConfig) BackgroundColor() color.RGBA {
	return color.RGBA{
		R: uint8(c.Background[0]),
		G: uint8(c.Background[1]),
		B: uint8(c.Background[2]),
		A: 255,
	}
}
