package algorithms

import (
	"github.com/lucasb-eyer/go-colorful"

	"robot-visualizer/models"
)

// 게이지 기준 색상
var (
	GaugeRed    = colorful.Color{R: 1, G: 0, B: 0}
	GaugeYellow = colorful.Color{R: 1, G: 1, B: 0}
	GaugeGreen  = colorful.Color{R: 0, G: 1, B: 0}
)

// BatteryColor - 배터리 잔량(%) → 게이지 색상
//
// 먼저 [0,100]으로 보정한 뒤, 50 미만은 빨강→노랑, 50 이상은 노랑→초록으로
// HSV 색공간에서 보간한다. 50%에서는 정확히 노랑이다.
func BatteryColor(level float64) colorful.Color {
	level = models.ClampPercent(level)
	if level < 50 {
		return GaugeRed.BlendHsv(GaugeYellow, level/50).Clamped()
	}
	return GaugeYellow.BlendHsv(GaugeGreen, (level-50)/50).Clamped()
}
