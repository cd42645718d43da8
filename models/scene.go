package models

import (
	"github.com/lucasb-eyer/go-colorful"
)

// ========================================
// 씬 노드 역할
// ========================================
type Role string

const (
	RoleNone            Role = ""
	RoleDoor            Role = "door"
	RoleLight           Role = "light"
	RoleTaggedLight     Role = "generic-tagged-light" // GlowRow 계열 일반 조명
	RoleBatteryGauge    Role = "battery-gauge"
	RoleChargeIndicator Role = "charge-indicator"
	RoleTram            Role = "tram" // 렌더 스냅샷 전용 (이름 분류 대상 아님)
)

// IsLightFamily - 발광 재질이 필요한 역할인지
func (r Role) IsLightFamily() bool {
	switch r {
	case RoleLight, RoleTaggedLight, RoleBatteryGauge, RoleChargeIndicator:
		return true
	}
	return false
}

// ========================================
// 재질 / 노드
// ========================================

// Material - 노드 재질 (발광 채널은 선택적)
type Material struct {
	Name              string          `json:"name"`
	BaseColor         *colorful.Color `json:"base_color,omitempty"`
	Emissive          *colorful.Color `json:"emissive,omitempty"`
	EmissiveIntensity float64         `json:"emissive_intensity"`
	Standard          bool            `json:"standard"` // 표준 조명 재질로 합성됨
}

// Clone - 재질 복제 (색상 포인터까지 깊은 복사)
func (m *Material) Clone() *Material {
	if m == nil {
		return nil
	}
	cp := *m
	if m.BaseColor != nil {
		c := *m.BaseColor
		cp.BaseColor = &c
	}
	if m.Emissive != nil {
		c := *m.Emissive
		cp.Emissive = &c
	}
	return &cp
}

// Node - 에셋 로더가 만든 씬 노드
type Node struct {
	Name        string
	IsMesh      bool
	Visible     bool
	RotationDeg float64
	Material    *Material
	Children    []*Node

	// 분류 결과 (Classified=true 이면 재분류 시 재질을 다시 복제하지 않음)
	Role       Role
	Classified bool
}

// Traverse - 자신을 포함한 모든 하위 노드 방문 (깊이 우선)
func (n *Node) Traverse(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range n.Children {
		child.Traverse(fn)
	}
}

// Find - 이름으로 노드 검색
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Traverse(func(node *Node) {
		if found == nil && node.Name == name {
			found = node
		}
	})
	return found
}

// SetEmissive - 발광색 설정 (발광 채널이 없으면 무시)
func (n *Node) SetEmissive(c colorful.Color) {
	if n == nil || n.Material == nil || n.Material.Emissive == nil {
		return
	}
	*n.Material.Emissive = c
}

// EmissiveHex - 현재 발광색 (#rrggbb), 없으면 빈 문자열
func (n *Node) EmissiveHex() string {
	if n == nil || n.Material == nil {
		return ""
	}
	return ColorHex(n.Material.Emissive)
}

// SceneNodeGroups - 역할별로 분류된 노드 집합 (에셋 로드 후 한 번 채워짐)
type SceneNodeGroups struct {
	Lights          []*Node
	Doors           []*Node
	BatteryGauge    *Node
	ChargeIndicator *Node
}

// Empty - 아무 노드도 분류되지 않았는지
func (g *SceneNodeGroups) Empty() bool {
	return g == nil || (len(g.Lights) == 0 && len(g.Doors) == 0 &&
		g.BatteryGauge == nil && g.ChargeIndicator == nil)
}
