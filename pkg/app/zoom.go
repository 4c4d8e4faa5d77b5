package app

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// 缩放参数
const (
	MinZoom      = 0.01
	zoomStep     = 1.1
	zoomDuration = 0.15
)

// Zoom 平滑缩放，目标值变化时用缓动补间过渡
type Zoom struct {
	value  float64
	target float64
	tween  *gween.Tween
}

// NewZoom 创建初始缩放
func NewZoom(value float64) *Zoom {
	value = math.Max(value, MinZoom)
	return &Zoom{value: value, target: value}
}

// Value 返回当前缩放
func (z *Zoom) Value() float64 { return z.value }

// Target 返回目标缩放
func (z *Zoom) Target() float64 { return z.target }

// SetTarget 从当前值补间到目标值
func (z *Zoom) SetTarget(target float64) {
	z.target = math.Max(target, MinZoom)
	z.tween = gween.New(float32(z.value), float32(z.target), zoomDuration, ease.OutCubic)
}

// Wheel 按滚轮刻度缩放，每一格 10%
func (z *Zoom) Wheel(notches float64) {
	if notches == 0 {
		return
	}
	z.SetTarget(z.target * math.Pow(zoomStep, notches))
}

// Snap 立即跳到目标值
func (z *Zoom) Snap(value float64) {
	z.value = math.Max(value, MinZoom)
	z.target = z.value
	z.tween = nil
}

// Update 推进补间
func (z *Zoom) Update(dt float64) {
	if z.tween == nil {
		return
	}
	v, done := z.tween.Update(float32(dt))
	z.value = math.Max(float64(v), MinZoom)
	if done {
		z.value = z.target
		z.tween = nil
	}
}
