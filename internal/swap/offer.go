package swap

import (
	"strings"

	"bookswap/internal/apperror"
)

// OfferInput is what a requester declares: the id of a swappable book or of a
// genre, never both.
type OfferInput struct {
	OfferedBookID  string `json:"offeredBookId,omitempty"`
	OfferedGenreID string `json:"offeredGenreId,omitempty"`
}

// BookID returns the trimmed offered book id.
func (in *OfferInput) BookID() string {
	if in == nil {
		return ""
	}
	return strings.TrimSpace(in.OfferedBookID)
}

// GenreID returns the trimmed offered genre id.
func (in *OfferInput) GenreID() string {
	if in == nil {
		return ""
	}
	return strings.TrimSpace(in.OfferedGenreID)
}

// IsEmpty reports whether neither id is set.
func (in *OfferInput) IsEmpty() bool {
	return in.BookID() == "" && in.GenreID() == ""
}

// Offer is the resolved consideration embedded in a swap request.
type Offer struct {
	OfferedBook  *SwappableBook `json:"offeredBook,omitempty"`
	OfferedGenre *Genre         `json:"offeredGenre,omitempty"`
}

// CheckOfferShape enforces the offer exactly-one-of rule for condition c.
// GIVE_AWAY and OPEN_FOR_OFFERS accept no offer; BY_BOOKS and BY_GENRES need
// exactly one of the two ids.
func CheckOfferShape(c Condition, in *OfferInput) error {
	if !c.RequiresOffer() {
		if !in.IsEmpty() {
			return apperror.BadRequest("swapOfferMustNotBeSetForSwapType", c.Type().String())
		}
		return nil
	}
	if in.IsEmpty() || (in.BookID() != "" && in.GenreID() != "") {
		return apperror.BadRequest("onlyOneSwapOfferMustBeSet")
	}
	return nil
}

// CheckOfferMembership reports whether the resolved offer is among the
// condition's declared swappable books or genres, by id.
func CheckOfferMembership(c Condition, o Offer) error {
	switch {
	case o.OfferedBook != nil && o.OfferedGenre != nil, o.OfferedBook == nil && o.OfferedGenre == nil:
		return apperror.BadRequest("onlyOneSwapOfferMustBeSet")
	case o.OfferedBook != nil:
		if !c.HasSwappableBook(o.OfferedBook.ID) {
			return apperror.IllegalSwapRequest("offeredBookDoesNotBelongToOneOfTheSwappableBooks", o.OfferedBook.ID)
		}
	default:
		if !c.HasSwappableGenre(o.OfferedGenre.ID) {
			return apperror.IllegalSwapRequest("offeredGenreDoesNotBelongToOneOfTheSwappableGenres", o.OfferedGenre.ID)
		}
	}
	return nil
}
