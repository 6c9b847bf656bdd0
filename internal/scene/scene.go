// Package scene holds the objects of a viewer scene and feeds them to the
// renderer once per frame.
package scene

import (
	"mini-render/internal/graphics"
)

// Visitor receives every node of a scene in insertion order.
type Visitor interface {
	VisitCamera(n *CameraNode)
	VisitLight(n *LightNode)
	VisitModel(n *ModelNode)
}

// Node is an element of a scene.
type Node interface {
	Name() string
	Accept(v Visitor)
}

// CameraNode places a camera in the scene.
type CameraNode struct {
	name   string
	Camera *graphics.Camera
}

// NewCameraNode creates a camera node
func NewCameraNode(name string, camera *graphics.Camera) *CameraNode {
	return &CameraNode{name: name, Camera: camera}
}

func (n *CameraNode) Name() string     { return n.name }
func (n *CameraNode) Accept(v Visitor) { v.VisitCamera(n) }

// LightNode places a light in the scene.
type LightNode struct {
	name  string
	Light *graphics.Light
}

// NewLightNode creates a light node
func NewLightNode(name string, light *graphics.Light) *LightNode {
	return &LightNode{name: name, Light: light}
}

func (n *LightNode) Name() string     { return n.name }
func (n *LightNode) Accept(v Visitor) { v.VisitLight(n) }

// ModelNode places a model in the world.
type ModelNode struct {
	name      string
	Model     *graphics.Model
	Transform *Transform
}

// NewModelNode creates a model node with an identity transform
func NewModelNode(name string, model *graphics.Model) *ModelNode {
	return &ModelNode{name: name, Model: model, Transform: NewTransform()}
}

func (n *ModelNode) Name() string     { return n.name }
func (n *ModelNode) Accept(v Visitor) { v.VisitModel(n) }

// Scene is an ordered set of uniquely named nodes.
type Scene struct {
	nodes []Node
	index map[string]int
}

// New creates an empty scene
func New() *Scene {
	return &Scene{index: make(map[string]int)}
}

// Add appends node. It reports false if a node with the same name exists.
func (s *Scene) Add(node Node) bool {
	if _, ok := s.index[node.Name()]; ok {
		return false
	}
	s.index[node.Name()] = len(s.nodes)
	s.nodes = append(s.nodes, node)
	return true
}

// Node returns the node with the given name.
func (s *Scene) Node(name string) (Node, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.nodes[i], true
}

// Len returns the number of nodes
func (s *Scene) Len() int {
	return len(s.nodes)
}

// Accept visits every node in insertion order.
func (s *Scene) Accept(v Visitor) {
	for _, n := range s.nodes {
		n.Accept(v)
	}
}
