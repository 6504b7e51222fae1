// Package genre manages the genre catalog. Genres form a single-parent tree
// stored flat, each row holding its parent's id.
package genre

import (
	"time"

	"bookswap/internal/swap"
)

type Genre struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ParentID  *string   `json:"parentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (g Genre) IsRoot() bool {
	return g.ParentID == nil
}

// Ref returns the reference embedded in swap conditions and offers.
func (g Genre) Ref() swap.Genre {
	return swap.Genre{ID: g.ID, Name: g.Name}
}

// Refs maps genres to swap references, keeping order.
func Refs(genres []Genre) []swap.Genre {
	out := make([]swap.Genre, len(genres))
	for i, g := range genres {
		out[i] = g.Ref()
	}
	return out
}
