package swap

import (
	"strings"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"bookswap/internal/apperror"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Field names used as the parameter of onlyOneSwapConditionMustBeSet.
const (
	FieldGiveAway        = "giveAway"
	FieldOpenForOffers   = "openForOffers"
	FieldSwappableGenres = "swappableGenres"
	FieldSwappableBooks  = "swappableBooks"
)

// SupportedCoverMediaTypes are the image types accepted for a swappable book cover.
var SupportedCoverMediaTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// Genre is the reference to a catalog genre kept inside a condition or an offer.
type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CoverPhoto struct {
	URL       string `json:"url"`
	MediaType string `json:"mediaType"`
}

// SwappableBook is a book the seller is willing to accept in exchange.
// It need not exist in the catalog.
type SwappableBook struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Author     string      `json:"author"`
	CoverPhoto *CoverPhoto `json:"coverPhoto"`
}

// Validate checks the book field rules in order: title, author, cover photo.
func (b SwappableBook) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return apperror.BadRequest("swappableBookTitleCannotBeBlank")
	}
	if strings.TrimSpace(b.Author) == "" {
		return apperror.BadRequest("swappableBookAuthorCannotBeBlank")
	}
	if b.CoverPhoto == nil || strings.TrimSpace(b.CoverPhoto.URL) == "" {
		return apperror.BadRequest("swappableBookCoverPhotoIsRequired")
	}
	if !SupportedCoverMediaTypes[strings.ToLower(b.CoverPhoto.MediaType)] {
		return apperror.BadRequest("swappableBookCoverPhotoHasInvalidMediaType", b.CoverPhoto.MediaType)
	}
	return nil
}

// Condition is the seller's declared terms for swapping a book. Exactly one
// variant is held; the giveAway and openForOffers flags are derived from it.
type Condition struct {
	typ    Type
	genres []Genre
	books  []SwappableBook
}

func GiveAway() Condition {
	return Condition{typ: TypeGiveAway}
}

func OpenForOffers() Condition {
	return Condition{typ: TypeOpenForOffers}
}

// ByGenres builds a condition accepting any of the given genres.
func ByGenres(genres []Genre) (Condition, error) {
	if len(genres) == 0 {
		return Condition{}, apperror.BadRequest("onlyOneSwapConditionMustBeSet", FieldSwappableGenres)
	}
	out := make([]Genre, len(genres))
	for i, g := range genres {
		if strings.TrimSpace(g.Name) == "" {
			return Condition{}, apperror.BadRequest("genreCannotBeBlankForSwappableCondition")
		}
		out[i] = g
	}
	return Condition{typ: TypeByGenres, genres: out}, nil
}

// ByBooks builds a condition accepting any of the given books. Books without
// an id are assigned a fresh one.
func ByBooks(books []SwappableBook) (Condition, error) {
	if len(books) == 0 {
		return Condition{}, apperror.BadRequest("onlyOneSwapConditionMustBeSet", FieldSwappableBooks)
	}
	out := make([]SwappableBook, len(books))
	for i, b := range books {
		if err := b.Validate(); err != nil {
			return Condition{}, err
		}
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		if b.CoverPhoto != nil {
			cp := *b.CoverPhoto
			cp.MediaType = strings.ToLower(cp.MediaType)
			b.CoverPhoto = &cp
		}
		out[i] = b
	}
	return Condition{typ: TypeByBooks, books: out}, nil
}

// ConditionInput is the flat wire shape of a condition.
type ConditionInput struct {
	SwapType        string          `json:"swapType"`
	GiveAway        bool            `json:"giveAway"`
	OpenForOffers   bool            `json:"openForOffers"`
	SwappableGenres []Genre         `json:"swappableGenres"`
	SwappableBooks  []SwappableBook `json:"swappableBooks"`
}

// NewCondition validates in against the exactly-one-of table and builds the
// matching variant. A violation names the field that should have been the
// only one set.
func NewCondition(in ConditionInput) (Condition, error) {
	t, err := in.Check()
	if err != nil {
		return Condition{}, err
	}

	switch t {
	case TypeGiveAway:
		return GiveAway(), nil
	case TypeOpenForOffers:
		return OpenForOffers(), nil
	case TypeByGenres:
		return ByGenres(in.SwappableGenres)
	default:
		return ByBooks(in.SwappableBooks)
	}
}

// Check parses the swap type and enforces the exactly-one-of table without
// looking at the entries themselves.
func (in ConditionInput) Check() (Type, error) {
	t, err := ParseType(in.SwapType)
	if err != nil {
		return TypeUnknown, err
	}

	set := map[string]bool{
		FieldGiveAway:        in.GiveAway,
		FieldOpenForOffers:   in.OpenForOffers,
		FieldSwappableGenres: len(in.SwappableGenres) > 0,
		FieldSwappableBooks:  len(in.SwappableBooks) > 0,
	}
	want := exclusiveField(t)
	for field, isSet := range set {
		if isSet != (field == want) {
			return TypeUnknown, apperror.BadRequest("onlyOneSwapConditionMustBeSet", want)
		}
	}
	return t, nil
}

func exclusiveField(t Type) string {
	switch t {
	case TypeGiveAway:
		return FieldGiveAway
	case TypeOpenForOffers:
		return FieldOpenForOffers
	case TypeByGenres:
		return FieldSwappableGenres
	default:
		return FieldSwappableBooks
	}
}

func (c Condition) Type() Type { return c.typ }

func (c Condition) GiveAway() bool { return c.typ == TypeGiveAway }

func (c Condition) OpenForOffers() bool { return c.typ == TypeOpenForOffers }

func (c Condition) RequiresOffer() bool { return c.typ.RequiresOffer() }

func (c Condition) IsZero() bool { return c.typ == TypeUnknown }

// SwappableGenres returns a copy of the accepted genres.
func (c Condition) SwappableGenres() []Genre {
	return append([]Genre(nil), c.genres...)
}

// SwappableBooks returns a copy of the accepted books.
func (c Condition) SwappableBooks() []SwappableBook {
	return append([]SwappableBook(nil), c.books...)
}

func (c Condition) HasSwappableGenre(id string) bool {
	for _, g := range c.genres {
		if g.ID == id {
			return true
		}
	}
	return false
}

func (c Condition) HasSwappableBook(id string) bool {
	for _, b := range c.books {
		if b.ID == id {
			return true
		}
	}
	return false
}

// SwappableBook looks up an accepted book by id.
func (c Condition) SwappableBook(id string) (SwappableBook, bool) {
	for _, b := range c.books {
		if b.ID == id {
			return b, true
		}
	}
	return SwappableBook{}, false
}

// Input returns the flat wire shape of c.
func (c Condition) Input() ConditionInput {
	in := ConditionInput{
		SwapType:        c.typ.String(),
		GiveAway:        c.GiveAway(),
		OpenForOffers:   c.OpenForOffers(),
		SwappableGenres: c.SwappableGenres(),
		SwappableBooks:  c.SwappableBooks(),
	}
	if in.SwappableGenres == nil {
		in.SwappableGenres = []Genre{}
	}
	if in.SwappableBooks == nil {
		in.SwappableBooks = []SwappableBook{}
	}
	return in
}

func (c Condition) MarshalJSON() ([]byte, error) {
	if c.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(c.Input())
}

func (c *Condition) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var in ConditionInput
	if err := json.Unmarshal(b, &in); err != nil {
		return apperror.BadRequest("invalidSwapCondition").WithCause(err)
	}
	parsed, err := NewCondition(in)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
