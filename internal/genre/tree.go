package genre

import "sort"

// Tree indexes a flat genre table by id. Nodes refer to their parent by id
// only, so the tree never owns nested copies.
type Tree struct {
	nodes    []Genre
	index    map[string]int
	children map[string][]int
	roots    []int
}

func NewTree(genres []Genre) *Tree {
	t := &Tree{
		nodes:    append([]Genre(nil), genres...),
		index:    make(map[string]int, len(genres)),
		children: make(map[string][]int),
	}
	sort.SliceStable(t.nodes, func(i, j int) bool { return t.nodes[i].Name < t.nodes[j].Name })

	for i, g := range t.nodes {
		t.index[g.ID] = i
	}
	for i, g := range t.nodes {
		if g.ParentID == nil {
			t.roots = append(t.roots, i)
			continue
		}
		if _, ok := t.index[*g.ParentID]; !ok {
			// Dangling parent: surface it as a root rather than losing it.
			t.roots = append(t.roots, i)
			continue
		}
		t.children[*g.ParentID] = append(t.children[*g.ParentID], i)
	}
	return t
}

func (t *Tree) Get(id string) (Genre, bool) {
	i, ok := t.index[id]
	if !ok {
		return Genre{}, false
	}
	return t.nodes[i], true
}

func (t *Tree) Roots() []Genre {
	return t.collect(t.roots)
}

func (t *Tree) Children(id string) []Genre {
	return t.collect(t.children[id])
}

// Ancestors returns the chain from id's parent up to its root, nearest first.
// Walking stops if a cycle is met in stored data.
func (t *Tree) Ancestors(id string) []Genre {
	var out []Genre
	seen := map[string]bool{id: true}
	i, ok := t.index[id]
	for ok && t.nodes[i].ParentID != nil {
		pid := *t.nodes[i].ParentID
		if seen[pid] {
			break
		}
		seen[pid] = true
		i, ok = t.index[pid]
		if ok {
			out = append(out, t.nodes[i])
		}
	}
	return out
}

// WouldCycle reports whether making parentID the parent of id would make id
// its own ancestor.
func (t *Tree) WouldCycle(id, parentID string) bool {
	if id == parentID {
		return true
	}
	for _, a := range t.Ancestors(parentID) {
		if a.ID == id {
			return true
		}
	}
	return false
}

func (t *Tree) collect(idx []int) []Genre {
	out := make([]Genre, len(idx))
	for i, n := range idx {
		out[i] = t.nodes[n]
	}
	return out
}
