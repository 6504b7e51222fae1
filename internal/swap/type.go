// Package swap holds the swap-negotiation domain model: the terms a seller
// declares for a book (Condition), what a requester proposes in exchange
// (Offer) and the closed vocabularies both are built on.
package swap

import (
	"strings"

	"bookswap/internal/apperror"
)

// Type is the kind of swap a book listing accepts.
type Type uint8

const (
	TypeUnknown Type = iota
	TypeGiveAway
	TypeOpenForOffers
	TypeByGenres
	TypeByBooks
)

var typeCodes = [...]string{
	TypeUnknown:       "",
	TypeGiveAway:      "GIVE_AWAY",
	TypeOpenForOffers: "OPEN_FOR_OFFERS",
	TypeByGenres:      "BY_GENRES",
	TypeByBooks:       "BY_BOOKS",
}

var typeByCode = func() map[string]Type {
	m := make(map[string]Type, len(typeCodes))
	for t, code := range typeCodes {
		if code != "" {
			m[code] = Type(t)
		}
	}
	return m
}()

// Types lists every known swap type in declaration order.
func Types() []Type {
	return []Type{TypeGiveAway, TypeOpenForOffers, TypeByGenres, TypeByBooks}
}

// ParseType maps a wire code to a Type. Matching ignores case and surrounding space.
func ParseType(code string) (Type, error) {
	if t, ok := typeByCode[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return t, nil
	}
	return TypeUnknown, apperror.BadRequest("invalidSwapType", code)
}

func (t Type) String() string {
	if int(t) < len(typeCodes) {
		return typeCodes[t]
	}
	return ""
}

// Valid reports whether t is one of the declared types.
func (t Type) Valid() bool {
	return t != TypeUnknown && int(t) < len(typeCodes)
}

// RequiresOffer reports whether a request against this type must carry an offer.
func (t Type) RequiresOffer() bool {
	return t == TypeByGenres || t == TypeByBooks
}

func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, apperror.BadRequest("invalidSwapType", t.String())
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
