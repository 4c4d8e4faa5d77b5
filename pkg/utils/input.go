// Package utils 提供通用工具函数
//
// 本包不依赖图形库，数据模型（internal/compound）也在使用它。
package utils

// DragState 拖拽状态
type DragState int

const (
	// DragStateNone 无拖拽
	DragStateNone DragState = iota
	// DragStateStarted 拖拽开始（刚按下）
	DragStateStarted
	// DragStateDragging 拖拽中（按住移动）
	DragStateDragging
	// DragStateEnded 拖拽结束（释放）
	DragStateEnded
)

// DragTracker 跟踪一次按下-移动-释放的拖拽
// 查看器用它平移视图
type DragTracker struct {
	state        DragState
	startX       int
	startY       int
	lastX, lastY int
}

// Update 输入本帧的指针状态，返回相对上一帧的位移
// 拖拽开始的那一帧位移为 0
func (d *DragTracker) Update(pressed bool, x, y int) (dx, dy int) {
	switch {
	case pressed && (d.state == DragStateNone || d.state == DragStateEnded):
		d.state = DragStateStarted
		d.startX, d.startY = x, y
	case pressed:
		d.state = DragStateDragging
		dx, dy = x-d.lastX, y-d.lastY
	case d.state == DragStateStarted || d.state == DragStateDragging:
		d.state = DragStateEnded
	default:
		d.state = DragStateNone
	}
	d.lastX, d.lastY = x, y
	return dx, dy
}

// State 返回当前拖拽状态
func (d *DragTracker) State() DragState {
	return d.state
}

// IsDragging 是否正在拖拽（已按下）
func (d *DragTracker) IsDragging() bool {
	return d.state == DragStateStarted || d.state == DragStateDragging
}

// Distance 返回从起点到当前位置的位移
func (d *DragTracker) Distance() (dx, dy int) {
	if d.state == DragStateNone {
		return 0, 0
	}
	return d.lastX - d.startX, d.lastY - d.startY
}

// Reset 重置拖拽状态
func (d *DragTracker) Reset() {
	*d = DragTracker{}
}
