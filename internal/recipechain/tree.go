package recipechain

import "strings"

// NodeKind classifies a node of a recipe tree.
type NodeKind string

// Tree node kinds.
const (
	// KindIngredient is a leaf consumed directly by a mix step.
	KindIngredient NodeKind = "ingredient"
	// KindProduct is a known product expanded through its edge.
	KindProduct NodeKind = "product"
	// KindUnresolved is a known product with no edge producing it.
	KindUnresolved NodeKind = "unresolved"
	// KindCycle marks a product already on the path above it.
	KindCycle NodeKind = "cycle"
)

// Node is one step of a recipe tree. Product and Mixer are set only for
// KindProduct nodes.
type Node struct {
	ID      string
	Kind    NodeKind
	Product *Node
	Mixer   *Node
}

// BuildTree expands target into a display tree using the same traversal rules
// as ResolveIngredients, so Flatten of the result yields exactly that order.
func (r *Resolver) BuildTree(target string, known map[string]struct{}) *Node {
	return r.build(target, known, path{})
}

func (r *Resolver) build(id string, known map[string]struct{}, visited path) *Node {
	if visited.has(id) {
		return &Node{ID: id, Kind: KindCycle}
	}
	edge, ok := r.Lookup(id)
	if !ok {
		return &Node{ID: id, Kind: KindUnresolved}
	}
	branch := visited.with(id)
	child := func(input string) *Node {
		if _, isProduct := known[input]; isProduct {
			return r.build(input, known, branch)
		}
		return &Node{ID: input, Kind: KindIngredient}
	}
	n := &Node{ID: id, Kind: KindProduct}
	n.Product = child(edge.Product)
	n.Mixer = child(edge.Mixer)
	return n
}

// Flatten lists the ingredient leaves of the tree: expanded children first,
// product before mixer, then this step's own leaves with the mixer leaf first.
func (n *Node) Flatten() []string {
	return n.flatten(nil)
}

func (n *Node) flatten(out []string) []string {
	if n == nil || n.Kind != KindProduct {
		return out
	}
	for _, c := range [2]*Node{n.Product, n.Mixer} {
		if c.Kind != KindIngredient {
			out = c.flatten(out)
		}
	}
	for _, c := range [2]*Node{n.Mixer, n.Product} {
		if c.Kind == KindIngredient {
			out = append(out, c.ID)
		}
	}
	return out
}

// String renders the tree as an indented outline.
func (n *Node) String() string {
	var b strings.Builder
	n.render(&b, 0)
	return b.String()
}

func (n *Node) render(b *strings.Builder, depth int) {
	if n == nil {
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.ID)
	if n.Kind != KindProduct && n.Kind != KindIngredient {
		b.WriteString(" (")
		b.WriteString(string(n.Kind))
		b.WriteString(")")
	}
	b.WriteString("\n")
	if n.Kind == KindProduct {
		n.Product.render(b, depth+1)
		n.Mixer.render(b, depth+1)
	}
}
