package app

import "github.com/hajimehoshi/ebiten/v2"

// pointerState 获取指针的完整状态
// 同时支持鼠标左键和触摸，优先检测触摸
// 返回：是否按下、X坐标、Y坐标
func pointerState() (pressed bool, x, y int) {
	// 检查触摸
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y = ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}

	// 检查鼠标
	x, y = ebiten.CursorPosition()
	pressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	return pressed, x, y
}
