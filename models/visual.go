package models

import (
	"github.com/lucasb-eyer/go-colorful"
)

// ========================================
// 시각 효과 목표값 (엔진 한 프레임 출력)
// ========================================

// VisualTargets - 한 프레임에 적용할 시각 파라미터
//
// 포인터 필드가 nil이면 해당 노드 그룹은 이번 프레임에 건드리지 않는다.
type VisualTargets struct {
	Idle bool `json:"idle"` // 상태 레코드 없음

	LightsEmissive    *colorful.Color `json:"-"`
	GaugeEmissive     *colorful.Color `json:"-"`
	IndicatorEmissive *colorful.Color `json:"-"`

	DoorOpen    bool    `json:"door_open"`
	DoorAngle   float64 `json:"door_angle"` // 0 또는 90 (도)
	DoorChanged bool    `json:"door_changed"`

	TramVisible bool `json:"tram_visible"`

	FlashOn       bool    `json:"flash_on"`
	FlashEdge     bool    `json:"flash_edge"` // 이번 프레임에 꺼짐→켜짐
	ChargePulseOn bool    `json:"charge_pulse_on"`
	BatteryLevel  float64 `json:"battery_level"`
}

// ColorHex - nil 허용 색상 → #rrggbb
func ColorHex(c *colorful.Color) string {
	if c == nil {
		return ""
	}
	return c.Clamped().Hex()
}

// NodeState - 렌더링용 노드 스냅샷
type NodeState struct {
	Name        string  `json:"name"`
	Role        Role    `json:"role"`
	Emissive    string  `json:"emissive,omitempty"`
	RotationDeg float64 `json:"rotation_deg"`
	Visible     bool    `json:"visible"`
}

// Projection - 카메라 투영 파라미터 (리사이즈 시 재계산)
type Projection struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Aspect float64 `json:"aspect"`
	FOV    float64 `json:"fov"`
	Yaw    float64 `json:"yaw"`
}

// VisualFrame - 렌더 서피스로 보내는 한 프레임
type VisualFrame struct {
	SessionID    string      `json:"session_id"`
	RobotID      *int        `json:"robot_id,omitempty"`
	Frame        uint64      `json:"frame"`
	Nodes        []NodeState `json:"nodes"`
	TramVisible  bool        `json:"tram_visible"`
	DoorOpen     bool        `json:"door_open"`
	BatteryLevel float64     `json:"battery_level"`
	Message      string      `json:"message,omitempty"`
	LastError    string      `json:"last_error,omitempty"`
	Projection   Projection  `json:"projection"`
	Timestamp    int64       `json:"timestamp"` // Unix timestamp (ms)
}

// SameVisuals - 프레임 번호/시각을 제외하고 동일한지
func (f VisualFrame) SameVisuals(other VisualFrame) bool {
	if f.TramVisible != other.TramVisible || f.DoorOpen != other.DoorOpen ||
		f.BatteryLevel != other.BatteryLevel || f.Message != other.Message ||
		f.LastError != other.LastError || f.Projection != other.Projection ||
		len(f.Nodes) != len(other.Nodes) {
		return false
	}
	for i := range f.Nodes {
		if f.Nodes[i] != other.Nodes[i] {
			return false
		}
	}
	return true
}
