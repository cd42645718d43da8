package services

import (
	"robot-visualizer/models"
)

// SceneApplier - 엔진 목표값을 씬 노드에 반영
//
// 그룹이 비어 있거나 노드가 없으면 해당 규칙은 아무것도 하지 않는다.
type SceneApplier struct{}

// Apply - 조명/게이지/충전표시 발광색, 문 회전, 트램 표시 적용
func (SceneApplier) Apply(groups *models.SceneNodeGroups, tram *models.Node, t models.VisualTargets) {
	if groups != nil {
		if t.LightsEmissive != nil {
			for _, node := range groups.Lights {
				node.SetEmissive(*t.LightsEmissive)
			}
		}
		if t.GaugeEmissive != nil {
			groups.BatteryGauge.SetEmissive(*t.GaugeEmissive)
		}
		if t.IndicatorEmissive != nil {
			groups.ChargeIndicator.SetEmissive(*t.IndicatorEmissive)
		}
		for _, door := range groups.Doors {
			door.RotationDeg = t.DoorAngle
		}
	}

	if tram != nil {
		tram.Visible = t.TramVisible
	}
}
