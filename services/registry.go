package services

import (
	"log"

	"github.com/lucasb-eyer/go-colorful"

	"robot-visualizer/algorithms"
	"robot-visualizer/models"
)

// SceneRegistry - 로드된 씬 노드를 역할별로 분류
type SceneRegistry struct{}

// NewSceneRegistry - 레지스트리 생성
func NewSceneRegistry() *SceneRegistry {
	return &SceneRegistry{}
}

// Classify - 노드 트리를 한 번 순회하며 역할별 그룹 생성
//
// 조명 계열 노드는 재질을 복제하고 발광 채널을 보장한다.
// 이미 분류된 노드(Classified)는 재질을 다시 복제하지 않는다.
func (r *SceneRegistry) Classify(root *models.Node) *models.SceneNodeGroups {
	groups := &models.SceneNodeGroups{}
	if root == nil {
		return groups
	}

	root.Traverse(func(node *models.Node) {
		if !node.IsMesh {
			return
		}

		if !node.Classified {
			node.Role = algorithms.ClassifyName(node.Name)
			if node.Role.IsLightFamily() {
				node.Material = prepareEmissiveMaterial(node.Material)
			}
			node.Classified = true
		}

		switch node.Role {
		case models.RoleDoor:
			groups.Doors = append(groups.Doors, node)
		case models.RoleBatteryGauge:
			if groups.BatteryGauge == nil {
				groups.BatteryGauge = node
				return
			}
			demoteDuplicate(node)
			groups.Lights = append(groups.Lights, node)
		case models.RoleChargeIndicator:
			if groups.ChargeIndicator == nil {
				groups.ChargeIndicator = node
				return
			}
			demoteDuplicate(node)
			groups.Lights = append(groups.Lights, node)
		case models.RoleLight, models.RoleTaggedLight:
			groups.Lights = append(groups.Lights, node)
		}
	})

	log.Printf("🔎 씬 분류 완료: 조명 %d, 문 %d, 게이지 %t, 충전표시 %t",
		len(groups.Lights), len(groups.Doors), groups.BatteryGauge != nil, groups.ChargeIndicator != nil)
	return groups
}

// demoteDuplicate - 게이지/충전표시 이름이 중복되면 두 번째부터는 일반 조명으로 취급
func demoteDuplicate(node *models.Node) {
	log.Printf("⚠️ 중복된 %s 노드 %q → 일반 조명으로 분류", node.Role, node.Name)
	node.Role = models.RoleTaggedLight
}

// prepareEmissiveMaterial - 노드 전용 재질 복제 + 발광 채널 보장
func prepareEmissiveMaterial(src *models.Material) *models.Material {
	mat := src.Clone()
	if mat == nil || mat.Emissive == nil {
		// 발광 채널이 없으면 원래 기본색으로 표준 재질 합성
		base := colorful.Color{R: 1, G: 1, B: 1}
		name := ""
		if mat != nil {
			name = mat.Name
			if mat.BaseColor != nil {
				base = *mat.BaseColor
			}
		}
		mat = &models.Material{
			Name:      name,
			BaseColor: &base,
			Emissive:  &colorful.Color{},
			Standard:  true,
		}
	}
	mat.EmissiveIntensity = 1
	return mat
}
