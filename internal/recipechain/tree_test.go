package recipechain

import (
	"slices"
	"strings"
	"testing"
)

func TestBuildTreeFlattenMatchesResolveIngredients(t *testing.T) {
	fixtures := []struct {
		name   string
		edges  []Edge
		target string
		known  []string
	}{
		{"ordering", []Edge{{"Top", "Mid", "LeafA"}, {"Mid", "LeafB", "LeafC"}}, "Top", []string{"Top", "Mid"}},
		{"diamond", []Edge{{"A", "B", "C"}, {"B", "X", "Y"}, {"C", "X", "Z"}}, "A", []string{"B", "C"}},
		{"self-cycle", []Edge{{"A", "A", "X"}}, "A", []string{"A"}},
		{"dangling", []Edge{{"A", "B", "cuke"}}, "A", []string{"B"}},
		{"mixer product", []Edge{{"A", "cuke", "B"}, {"B", "ogkush", "banana"}}, "A", []string{"B"}},
	}
	for _, tc := range fixtures {
		t.Run(tc.name, func(t *testing.T) {
			r := NewResolver(tc.edges)
			known := KnownSet(tc.known)
			want := r.ResolveIngredients(tc.target, known)
			got := r.BuildTree(tc.target, known).Flatten()
			if !slices.Equal(got, want) {
				t.Fatalf("flatten = %v, resolve = %v", got, want)
			}
		})
	}
}

func TestBuildTreeKinds(t *testing.T) {
	r := NewResolver([]Edge{
		{Output: "A", Product: "A", Mixer: "B"},
	})
	tree := r.BuildTree("A", KnownSet([]string{"A", "B"}))
	if tree.Kind != KindProduct {
		t.Fatalf("root kind = %s", tree.Kind)
	}
	if tree.Product.Kind != KindCycle {
		t.Fatalf("product kind = %s", tree.Product.Kind)
	}
	if tree.Mixer.Kind != KindUnresolved {
		t.Fatalf("mixer kind = %s", tree.Mixer.Kind)
	}
	out := tree.String()
	if !strings.Contains(out, "A (cycle)") || !strings.Contains(out, "B (unresolved)") {
		t.Fatalf("unexpected render:\n%s", out)
	}
}

func TestFlattenNil(t *testing.T) {
	var n *Node
	if got := n.Flatten(); len(got) != 0 {
		t.Fatalf("expected empty flatten, got %v", got)
	}
}
