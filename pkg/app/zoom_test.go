package app

import (
	"math"
	"testing"
)

// TestZoomTween 测试补间结束后到达目标
func TestZoomTween(t *testing.T) {
	z := NewZoom(1)
	z.SetTarget(2)

	z.Update(zoomDuration / 2)
	if v := z.Value(); v <= 1 || v >= 2 {
		t.Errorf("Expected value between 1 and 2 mid-tween, got %v", v)
	}

	z.Update(zoomDuration)
	if z.Value() != 2 {
		t.Errorf("Expected value 2 after tween, got %v", z.Value())
	}

	// 补间结束后继续 Update 不改变值
	z.Update(1)
	if z.Value() != 2 {
		t.Errorf("Expected value to stay 2, got %v", z.Value())
	}
}

// TestZoomMinimum 测试最小缩放
func TestZoomMinimum(t *testing.T) {
	z := NewZoom(0)
	if z.Value() != MinZoom {
		t.Errorf("Expected initial value clamped to %v, got %v", MinZoom, z.Value())
	}

	z.SetTarget(-3)
	if z.Target() != MinZoom {
		t.Errorf("Expected target clamped to %v, got %v", MinZoom, z.Target())
	}
	z.Update(1)
	if z.Value() != MinZoom {
		t.Errorf("Expected value %v, got %v", MinZoom, z.Value())
	}
}

// TestZoomWheel 测试滚轮缩放
func TestZoomWheel(t *testing.T) {
	z := NewZoom(1)

	z.Wheel(0)
	if z.Target() != 1 {
		t.Errorf("Expected no change for zero notches, got %v", z.Target())
	}

	z.Wheel(2)
	if math.Abs(z.Target()-1.21) > 1e-9 {
		t.Errorf("Expected target 1.21 after two notches, got %v", z.Target())
	}

	z.Snap(3)
	if z.Value() != 3 || z.Target() != 3 {
		t.Errorf("Expected snap to 3, got value=%v target=%v", z.Value(), z.Target())
	}
}
