package services

import (
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"robot-visualizer/models"
)

// sceneManifest - YAML 씬 매니페스트 (에셋 로더 대체)
type sceneManifest struct {
	Name string       `yaml:"name"`
	Root manifestNode `yaml:"root"`
}

type manifestNode struct {
	Name     string            `yaml:"name"`
	Mesh     bool              `yaml:"mesh"`
	Hidden   bool              `yaml:"hidden"`
	Material *manifestMaterial `yaml:"material"`
	Children []manifestNode    `yaml:"children"`
}

type manifestMaterial struct {
	Name      string `yaml:"name"`
	BaseColor string `yaml:"base_color"`
	Emissive  string `yaml:"emissive"` // 비어 있으면 발광 채널 없음
}

// LoadSceneFile - 매니페스트 파일에서 노드 트리 로드
func LoadSceneFile(path string) (*models.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("씬 파일 읽기 실패 (%s): %w", path, err)
	}
	return ParseScene(data)
}

// ParseScene - YAML 매니페스트 → 노드 트리
func ParseScene(data []byte) (*models.Node, error) {
	var manifest sceneManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("씬 매니페스트 파싱 실패: %w", err)
	}
	if manifest.Root.Name == "" && len(manifest.Root.Children) == 0 {
		return nil, fmt.Errorf("씬 매니페스트에 root 노드가 없습니다")
	}
	return buildNode(manifest.Root)
}

func buildNode(m manifestNode) (*models.Node, error) {
	node := &models.Node{
		Name:    m.Name,
		IsMesh:  m.Mesh,
		Visible: !m.Hidden,
	}

	if m.Material != nil {
		mat := &models.Material{Name: m.Material.Name}
		if m.Material.BaseColor != "" {
			c, err := colorful.Hex(m.Material.BaseColor)
			if err != nil {
				return nil, fmt.Errorf("노드 %q base_color 오류: %w", m.Name, err)
			}
			mat.BaseColor = &c
		}
		if m.Material.Emissive != "" {
			c, err := colorful.Hex(m.Material.Emissive)
			if err != nil {
				return nil, fmt.Errorf("노드 %q emissive 오류: %w", m.Name, err)
			}
			mat.Emissive = &c
			mat.EmissiveIntensity = 1
		}
		node.Material = mat
	}

	for _, child := range m.Children {
		c, err := buildNode(child)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, c)
	}
	return node, nil
}
