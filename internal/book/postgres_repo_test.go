package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookswap/internal/swap"
)

func TestBuildListQueries(t *testing.T) {
	t.Run("no filters", func(t *testing.T) {
		page, _, count, countArgs, err := buildListQueries(Query{Sort: SortCreatedAt, Desc: true, Limit: 20})
		require.NoError(t, err)
		assert.NotContains(t, page, "WHERE")
		assert.Contains(t, page, `ORDER BY "b"."created_at" DESC`)
		assert.Contains(t, page, "LIMIT")
		assert.Contains(t, count, "COUNT(*)")
		assert.NotContains(t, count, "LIMIT")
		assert.Empty(t, countArgs)
	})

	t.Run("all filters", func(t *testing.T) {
		q := Query{
			GenreID:   "g-1",
			Language:  "en",
			Condition: ConditionGood,
			SwapType:  swap.TypeByBooks,
			OwnerID:   "u-1",
			Q:         "hobbit",
			Sort:      SortTitle,
			Limit:     10,
			Offset:    20,
		}
		page, pageArgs, count, countArgs, err := buildListQueries(q)
		require.NoError(t, err)

		for _, frag := range []string{
			`"book_genres"`,
			`"b"."language" = $`,
			`"b"."condition" = $`,
			`"b"."swap_type" = $`,
			`"b"."owner_id" = $`,
			`"b"."title" ILIKE $`,
			`"b"."author" ILIKE $`,
			`ORDER BY "b"."title" ASC`,
		} {
			assert.Contains(t, page, frag)
		}
		for _, arg := range []any{"g-1", "en", "GOOD", "BY_BOOKS", "u-1", "%hobbit%"} {
			assert.Contains(t, pageArgs, arg)
			assert.Contains(t, countArgs, arg)
		}
		assert.NotContains(t, count, "ORDER BY")
	})
}
