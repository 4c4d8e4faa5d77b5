package compound

import "github.com/decker502/spritetool/pkg/utils"

// Interpolate blends two poses at fraction f. Continuous channels are blended
// linearly; alignment, flip and visibility are taken from a. Colour channels
// truncate toward zero.
func Interpolate(a, b ActorState, f float64) ActorState {
	out := a
	out.Alpha = utils.Lerp(a.Alpha, b.Alpha, f)
	out.Angle = utils.Lerp(a.Angle, b.Angle, f)
	out.Colour = Colour{
		R: utils.LerpChannel(a.Colour.R, b.Colour.R, f),
		G: utils.LerpChannel(a.Colour.G, b.Colour.G, f),
		B: utils.LerpChannel(a.Colour.B, b.Colour.B, f),
		A: utils.LerpChannel(a.Colour.A, b.Colour.A, f),
	}
	out.PosX = utils.Lerp(a.PosX, b.PosX, f)
	out.PosY = utils.Lerp(a.PosY, b.PosY, f)
	out.ScaleX = utils.Lerp(a.ScaleX, b.ScaleX, f)
	out.ScaleY = utils.Lerp(a.ScaleY, b.ScaleY, f)
	return out
}
