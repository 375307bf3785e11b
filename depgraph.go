package recordkit

import (
	"github.com/recordkit/recordkit/schema"
)

// DependencyNode wraps one schema in the dependency forest. A node has
// one child per foreign key the schema declares, each child wrapping
// the referenced schema.
type DependencyNode struct {
	Schema   *schema.Schema
	Children []*DependencyNode
}

// DependencyGraph answers "which schemas declare a foreign key
// pointing at X". It is built once from the registry when the handle
// opens and cleared on Close.
type DependencyGraph struct {
	roots []*DependencyNode
}

// NewDependencyGraph registers every schema of reg as a root.
func NewDependencyGraph(reg *schema.Registry) *DependencyGraph {
	g := &DependencyGraph{}
	for _, s := range reg.Schemas() {
		node := &DependencyNode{Schema: s}
		for _, fk := range s.ForeignKeyFields() {
			node.Children = append(node.Children, &DependencyNode{Schema: fk.RefSchema})
		}
		g.roots = append(g.roots, node)
	}
	return g
}

// Roots returns the registered root nodes.
func (g *DependencyGraph) Roots() []*DependencyNode {
	return g.roots
}

// DependentsOf returns every schema holding a foreign key that
// references name, found by a depth-first search from each root. Each
// dependent appears once.
func (g *DependencyGraph) DependentsOf(name string) []*schema.Schema {
	var out []*schema.Schema
	seen := map[string]bool{}

	for _, root := range g.roots {
		g.walk(root, func(node *DependencyNode) {
			if seen[node.Schema.Name] {
				return
			}
			for _, fk := range node.Schema.ForeignKeyFields() {
				if fk.Ref == name {
					seen[node.Schema.Name] = true
					out = append(out, node.Schema)
					return
				}
			}
		})
	}

	return out
}

func (g *DependencyGraph) walk(node *DependencyNode, visit func(*DependencyNode)) {
	visit(node)
	for _, child := range node.Children {
		g.walk(child, visit)
	}
}

// Close clears the forest recursively.
func (g *DependencyGraph) Close() {
	for _, root := range g.roots {
		clearNode(root)
	}
	g.roots = nil
}

func clearNode(node *DependencyNode) {
	for _, child := range node.Children {
		clearNode(child)
	}
	node.Children = nil
}
