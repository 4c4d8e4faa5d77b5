// Package settings 持久化查看器的用户偏好（最近打开的文件、播放速度、缩放等）
package settings

import (
	"fmt"
	"log"
	"slices"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// maxRecentFiles 最近文件列表长度
const maxRecentFiles = 10

// Limits 偏好值的取值范围，由使用偏好的查看器提供
//
// 零值字段表示不限制。
type Limits struct {
	MaxSpeed float64 // 播放速度上限
	MinZoom  float64 // 缩放下限
}

// ViewerSettings 查看器用户偏好
type ViewerSettings struct {
	LastOpened  string   `yaml:"lastOpened"`
	RecentFiles []string `yaml:"recentFiles"`

	Speed   float64 `yaml:"speed"`   // 播放速度倍率，不小于 0
	Zoom    float64 `yaml:"zoom"`    // 视图缩放
	Animate bool    `yaml:"animate"` // 是否播放

	Resolution string `yaml:"resolution"` // 纹理档位名，空表示使用配置文件
}

// DefaultSettings 返回默认偏好
func DefaultSettings() *ViewerSettings {
	return &ViewerSettings{
		Speed:   1.0,
		Zoom:    1.0,
		Animate: true,
	}
}

// Manager 偏好管理器
// 负责偏好的加载、保存和内存管理
type Manager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *ViewerSettings
	limits       Limits
}

// 存储路径常量
const (
	settingsObject   = "viewer"
	settingsProperty = "preferences"
)

// OpenStore 打开应用的 gdata 存储
//
// 打开失败时返回 nil，调用方以降级模式（仅内存）运行
func OpenStore(appName string) *gdata.Manager {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[Settings] Warning: gdata unavailable: %v (preferences will not persist)", err)
		return nil
	}
	return m
}

// NewManager 创建偏好管理器，并尝试加载已保存的偏好
//
// 参数：
//   - gdataManager: gdata 存储管理器，可为 nil（降级模式，仅内存偏好）
//   - limits: 速度与缩放的取值范围，加载和设置时都会按此限制
func NewManager(gdataManager *gdata.Manager, limits Limits) *Manager {
	m := &Manager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
		limits:       limits,
	}

	if err := m.Load(); err != nil {
		// 加载失败不是致命错误，使用默认偏好
		log.Printf("[Settings] Warning: Failed to load preferences: %v (using defaults)", err)
	}
	return m
}

// Load 从 gdata 加载偏好
//
// 如果 gdataManager 为 nil 或数据不存在，使用默认偏好
func (m *Manager) Load() error {
	if m.gdataManager == nil {
		m.settings = DefaultSettings()
		return nil
	}

	if !m.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		m.settings = DefaultSettings()
		return nil
	}

	data, err := m.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		m.settings = DefaultSettings()
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	// 在默认值之上反序列化，旧版本数据缺少的字段保持默认
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		m.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	loaded.Speed = m.clampSpeed(loaded.Speed)
	loaded.Zoom = m.clampZoom(loaded.Zoom)

	m.settings = loaded
	log.Printf("[Settings] Preferences loaded successfully")
	return nil
}

// Save 保存偏好到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (m *Manager) Save() error {
	if m.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(m.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	if err := m.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}

	log.Printf("[Settings] Preferences saved successfully")
	return nil
}

// Settings 返回当前偏好
func (m *Manager) Settings() *ViewerSettings {
	return m.settings
}

// Persistent 报告偏好是否会写入磁盘
func (m *Manager) Persistent() bool {
	return m.gdataManager != nil
}

// RecordOpened 记录成功打开的文件，并移动到最近文件列表开头
//
// 注意：仅修改内存中的偏好，需调用 Save() 持久化
func (m *Manager) RecordOpened(path string) {
	m.settings.LastOpened = path

	recent := slices.DeleteFunc(m.settings.RecentFiles, func(p string) bool { return p == path })
	recent = slices.Insert(recent, 0, path)
	if len(recent) > maxRecentFiles {
		recent = recent[:maxRecentFiles]
	}
	m.settings.RecentFiles = recent
}

// SetSpeed 设置播放速度，限制在 0 ~ Limits.MaxSpeed
func (m *Manager) SetSpeed(speed float64) {
	m.settings.Speed = m.clampSpeed(speed)
}

// SetZoom 设置缩放，最小 Limits.MinZoom
func (m *Manager) SetZoom(zoom float64) {
	m.settings.Zoom = m.clampZoom(zoom)
}

// SetAnimate 设置是否播放
func (m *Manager) SetAnimate(animate bool) {
	m.settings.Animate = animate
}

// SetResolution 设置纹理档位名
func (m *Manager) SetResolution(name string) {
	m.settings.Resolution = name
}

func (m *Manager) clampSpeed(speed float64) float64 {
	speed = max(speed, 0)
	if m.limits.MaxSpeed > 0 {
		speed = min(speed, m.limits.MaxSpeed)
	}
	return speed
}

func (m *Manager) clampZoom(zoom float64) float64 {
	return max(zoom, m.limits.MinZoom)
}
