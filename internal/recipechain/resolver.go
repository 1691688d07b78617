// Package recipechain walks a save file's mix-recipe graph backwards to recover
// the base ingredients and the origin strain of a product.
//
// The walk is pure: it reads only the edges handed to it, never errors and
// degrades missing edges, dangling ids and cycles to "not found" or a shorter
// ingredient list.
package recipechain

// Edge states that combining Product and Mixer yields Output.
type Edge struct {
	Output  string
	Product string
	Mixer   string
}

// DefaultStrain is substituted by callers when no origin can be resolved.
const DefaultStrain = "ogkush"

var baseStrains = map[string]struct{}{
	"ogkush":           {},
	"sourdiesel":       {},
	"greencrack":       {},
	"granddaddypurple": {},
	"cocaine":          {},
	"meth":             {},
}

// BaseStrains returns the closed set of origin identifiers in a stable order.
func BaseStrains() []string {
	return []string{"ogkush", "sourdiesel", "greencrack", "granddaddypurple", "cocaine", "meth"}
}

// IsBaseStrain reports whether id terminates origin resolution.
func IsBaseStrain(id string) bool {
	_, ok := baseStrains[id]
	return ok
}

// Resolver answers origin and ingredient queries over a fixed edge list.
type Resolver struct {
	edges []Edge
	index map[string]int
}

// NewResolver indexes edges by output. When several edges share an output the
// first one wins.
func NewResolver(edges []Edge) *Resolver {
	r := &Resolver{
		edges: append([]Edge(nil), edges...),
		index: make(map[string]int, len(edges)),
	}
	for i, e := range r.edges {
		if _, ok := r.index[e.Output]; !ok {
			r.index[e.Output] = i
		}
	}
	return r
}

// Edges returns a copy of the edge list.
func (r *Resolver) Edges() []Edge {
	return append([]Edge(nil), r.edges...)
}

// Lookup returns the edge producing output.
func (r *Resolver) Lookup(output string) (Edge, bool) {
	i, ok := r.index[output]
	if !ok {
		return Edge{}, false
	}
	return r.edges[i], true
}

// ResolveOrigin returns the base strain target derives from. A base strain is
// returned unchanged without consulting the edges. The mixer input is
// inspected before the product input and the first strain found wins.
func (r *Resolver) ResolveOrigin(target string) (string, bool) {
	return r.origin(target, path{})
}

func (r *Resolver) origin(target string, visited path) (string, bool) {
	if IsBaseStrain(target) {
		return target, true
	}
	if visited.has(target) {
		return "", false
	}
	edge, ok := r.Lookup(target)
	if !ok {
		return "", false
	}
	branch := visited.with(target)
	for _, input := range [2]string{edge.Mixer, edge.Product} {
		if IsBaseStrain(input) {
			return input, true
		}
		if strain, ok := r.origin(input, branch); ok {
			return strain, true
		}
	}
	return "", false
}

// ResolveIngredients lists the base ingredients consumed by target, reading
// bottom to top through the mixing chain. Inputs found in known are treated
// as products and expanded recursively, product before mixer; every other
// input is a leaf. The leaves of one edge are appended after both of its
// inputs have been expanded, mixer leaf first. Duplicates reached through
// separate branches are kept.
func (r *Resolver) ResolveIngredients(target string, known map[string]struct{}) []string {
	return r.ingredients(target, known, path{}, nil)
}

func (r *Resolver) ingredients(target string, known map[string]struct{}, visited path, out []string) []string {
	if visited.has(target) {
		return out
	}
	edge, ok := r.Lookup(target)
	if !ok {
		return out
	}
	branch := visited.with(target)
	var leaves []string
	for _, input := range [2]string{edge.Product, edge.Mixer} {
		if _, isProduct := known[input]; isProduct {
			out = r.ingredients(input, known, branch, out)
			continue
		}
		leaves = append(leaves, input)
	}
	for i := len(leaves) - 1; i >= 0; i-- {
		out = append(out, leaves[i])
	}
	return out
}

// KnownSet builds a membership set from any number of id lists.
func KnownSet(lists ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, list := range lists {
		for _, id := range list {
			set[id] = struct{}{}
		}
	}
	return set
}

// path is the set of ids on the current branch. Each recursive step works on
// its own copy so sibling branches never see each other's visits.
type path map[string]struct{}

func (p path) has(id string) bool {
	_, ok := p[id]
	return ok
}

func (p path) with(id string) path {
	next := make(path, len(p)+1)
	for k := range p {
		next[k] = struct{}{}
	}
	next[id] = struct{}{}
	return next
}
