package genre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

// fiction -> fantasy -> epic
// non-fiction
func sampleGenres() []Genre {
	return []Genre{
		{ID: "epic", Name: "Epic Fantasy", ParentID: ptr("fantasy")},
		{ID: "fiction", Name: "Fiction"},
		{ID: "fantasy", Name: "Fantasy", ParentID: ptr("fiction")},
		{ID: "nonfiction", Name: "Non-Fiction"},
	}
}

func ids(gs []Genre) []string {
	out := make([]string, len(gs))
	for i, g := range gs {
		out[i] = g.ID
	}
	return out
}

func TestTree_Navigation(t *testing.T) {
	tree := NewTree(sampleGenres())

	assert.Equal(t, []string{"fiction", "nonfiction"}, ids(tree.Roots()))
	assert.Equal(t, []string{"fantasy"}, ids(tree.Children("fiction")))
	assert.Empty(t, tree.Children("epic"))
	assert.Equal(t, []string{"fantasy", "fiction"}, ids(tree.Ancestors("epic")))
	assert.Empty(t, tree.Ancestors("fiction"))

	g, ok := tree.Get("fantasy")
	assert.True(t, ok)
	assert.Equal(t, "Fantasy", g.Name)
}

func TestTree_WouldCycle(t *testing.T) {
	tree := NewTree(sampleGenres())

	assert.True(t, tree.WouldCycle("fiction", "fiction"), "self parent")
	assert.True(t, tree.WouldCycle("fiction", "epic"), "descendant as parent")
	assert.True(t, tree.WouldCycle("fantasy", "epic"))
	assert.False(t, tree.WouldCycle("epic", "nonfiction"))
	assert.False(t, tree.WouldCycle("nonfiction", "epic"))
}

func TestTree_StoredCycleDoesNotLoop(t *testing.T) {
	tree := NewTree([]Genre{
		{ID: "a", Name: "A", ParentID: ptr("b")},
		{ID: "b", Name: "B", ParentID: ptr("a")},
	})
	assert.Equal(t, []string{"b"}, ids(tree.Ancestors("a")))
}

func TestTree_DanglingParentIsRoot(t *testing.T) {
	tree := NewTree([]Genre{{ID: "orphan", Name: "Orphan", ParentID: ptr("gone")}})
	assert.Equal(t, []string{"orphan"}, ids(tree.Roots()))
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Science Fiction":  "science-fiction",
		"Sci-Fi/Fantasy":   "sci-fi-fantasy",
		"  LitRPG  ":       "litrpg",
		"Ciência & Ficção": "ciencia-ficcao",
		"!!!":              "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}
