package app

import (
	"github.com/decker502/spritetool/pkg/config"
	"github.com/decker502/spritetool/pkg/scene"
)

// Playback 动画播放时钟
type Playback struct {
	Time    float64 // 根文档时间（秒）
	Speed   float64 // 速度倍率 0 ~ MaxSpeed
	Animate bool    // 是否播放

	// MaxDelta 单帧最大时间步长，窗口拖动或卡顿后不会跳帧
	MaxDelta float64
}

// 速度调节参数
const (
	MaxSpeed  = config.MaxPlaybackSpeed
	SpeedStep = 0.25
)

// Advance 推进时钟
//
// 时间按 dt*Speed 前进，并按根文档的 stageLength 取模；
// stageLength 为 0 时时间固定为 0。
func (p *Playback) Advance(dt, stageLength float64) {
	if !p.Animate {
		return
	}
	if dt > p.MaxDelta {
		dt = p.MaxDelta
	}
	if dt < 0 {
		dt = 0
	}
	p.Time = scene.LocalTime(p.Time+dt*p.Speed, stageLength)
}

// Step 手动前进或后退 dt 秒（暂停时逐帧查看）
func (p *Playback) Step(dt, stageLength float64) {
	p.Time = scene.LocalTime(p.Time+dt, stageLength)
}

// AdjustSpeed 调整速度并限制在 0 ~ MaxSpeed
func (p *Playback) AdjustSpeed(delta float64) {
	p.Speed = min(max(p.Speed+delta, 0), MaxSpeed)
}

// Reset 回到第 0 秒
func (p *Playback) Reset() {
	p.Time = 0
}
