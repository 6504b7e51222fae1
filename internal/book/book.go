// Package book manages listed books and the swap condition each owner
// attaches to them.
package book

import (
	"strings"
	"time"

	"bookswap/internal/apperror"
	"bookswap/internal/genre"
	"bookswap/internal/swap"
)

// Condition is the physical state of a listed copy.
type Condition uint8

const (
	ConditionUnknown Condition = iota
	ConditionNew
	ConditionLikeNew
	ConditionGood
	ConditionFair
	ConditionPoor
)

var conditionCodes = [...]string{
	ConditionUnknown: "",
	ConditionNew:     "NEW",
	ConditionLikeNew: "LIKE_NEW",
	ConditionGood:    "GOOD",
	ConditionFair:    "FAIR",
	ConditionPoor:    "POOR",
}

var conditionByCode = func() map[string]Condition {
	m := make(map[string]Condition, len(conditionCodes))
	for i, code := range conditionCodes {
		if code != "" {
			m[code] = Condition(i)
		}
	}
	return m
}()

func ParseCondition(code string) (Condition, error) {
	if c, ok := conditionByCode[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return c, nil
	}
	return ConditionUnknown, apperror.BadRequest("invalidBookCondition", code)
}

func (c Condition) String() string {
	if int(c) < len(conditionCodes) {
		return conditionCodes[c]
	}
	return ""
}

func (c Condition) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Condition) UnmarshalText(b []byte) error {
	parsed, err := ParseCondition(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

type Book struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Author        string         `json:"author"`
	Description   string         `json:"description,omitempty"`
	Language      string         `json:"language"`
	Condition     Condition      `json:"condition"`
	Genres        []genre.Genre  `json:"genres"`
	CoverPhotos   []string       `json:"coverPhotos"`
	OwnerID       string         `json:"ownerId"`
	SwapCondition swap.Condition `json:"swapCondition"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// GenreIDs returns the ids of the book's genres in display order.
func (b Book) GenreIDs() []string {
	ids := make([]string, len(b.Genres))
	for i, g := range b.Genres {
		ids[i] = g.ID
	}
	return ids
}

// CreateCommand carries a new listing. Swappable genres are referenced by id
// and resolved against the catalog.
type CreateCommand struct {
	Title         string
	Author        string
	Description   string
	Language      string
	Condition     string
	GenreIDs      []string
	CoverPhotos   []string
	SwapCondition swap.ConditionInput
}

const (
	SortCreatedAt = "created_at"
	SortTitle     = "title"
)

// Query defines filters and pagination for listing books.
type Query struct {
	GenreID   string
	Language  string
	Condition Condition
	SwapType  swap.Type
	OwnerID   string
	Q         string
	Sort      string
	Desc      bool
	Limit     int
	Offset    int
}
