package algorithms

import (
	"strings"

	"robot-visualizer/models"
)

// 노드 이름 규칙
const (
	BatteryGaugeNodeName    = "GlowRow001"
	ChargeIndicatorNodeName = "GlowRow"
)

// ClassifyName - 노드 이름 → 역할
//
// 우선순위: door > GlowRow001(배터리 게이지) > GlowRow(충전 표시등) > light > 기타 GlowRow 계열.
// door/light/glowrow 부분 문자열 비교는 대소문자를 구분하지 않고,
// 게이지/표시등은 정확한 이름만 인정한다.
func ClassifyName(name string) models.Role {
	lower := strings.ToLower(name)

	switch {
	case strings.Contains(lower, "door"):
		return models.RoleDoor
	case name == BatteryGaugeNodeName:
		return models.RoleBatteryGauge
	case name == ChargeIndicatorNodeName:
		return models.RoleChargeIndicator
	case strings.Contains(lower, "light"):
		return models.RoleLight
	case strings.Contains(lower, "glowrow"):
		return models.RoleTaggedLight
	}
	return models.RoleNone
}
