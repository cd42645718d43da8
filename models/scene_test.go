package models

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
)

func TestEmissiveHex(t *testing.T) {
	var nilNode *Node
	assert.Empty(t, nilNode.EmissiveHex())
	assert.Empty(t, (&Node{Material: &Material{}}).EmissiveHex(), "발광 채널 없음")

	over := colorful.Color{R: 1.4, G: 0.5, B: -0.2}
	node := &Node{Material: &Material{Emissive: &over}}
	assert.Equal(t, "#ff8000", node.EmissiveHex())
	assert.Equal(t, "", ColorHex(nil))
}

func TestSetEmissiveWithoutChannel(t *testing.T) {
	node := &Node{Material: &Material{}}
	node.SetEmissive(colorful.Color{R: 1})
	assert.Nil(t, node.Material.Emissive)
}
