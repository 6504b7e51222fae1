// Package swaprequest validates and records requests to swap a listed book.
package swaprequest

import (
	"time"

	"bookswap/internal/apperror"
	"bookswap/internal/book"
	"bookswap/internal/swap"
	"bookswap/internal/user"
)

const maxNoteLength = 500

// Direction selects which side of a request a user is on.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case "", DirectionReceived:
		return DirectionReceived, nil
	case DirectionSent:
		return DirectionSent, nil
	}
	return "", apperror.BadRequest("invalidDirection", s)
}

// SwapRequest references its sender, receiver and target book by id and owns
// its offer.
type SwapRequest struct {
	ID               string      `json:"id"`
	SenderID         string      `json:"senderId"`
	ReceiverID       string      `json:"receiverId"`
	BookToSwapWithID string      `json:"bookToSwapWithId"`
	SwapType         swap.Type   `json:"swapType"`
	SwapOffer        *swap.Offer `json:"swapOffer,omitempty"`
	AskForGiveaway   bool        `json:"askForGiveaway"`
	SwapStatus       swap.Status `json:"swapStatus"`
	Note             string      `json:"note,omitempty"`
	RequestedAt      time.Time   `json:"requestedAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

// Involves reports whether userID is the sender or the receiver.
func (sr SwapRequest) Involves(userID string) bool {
	return userID != "" && (sr.SenderID == userID || sr.ReceiverID == userID)
}

// Detail is a request with its references resolved.
type Detail struct {
	SwapRequest
	Sender         user.Public `json:"sender"`
	Receiver       user.Public `json:"receiver"`
	BookToSwapWith book.Book   `json:"bookToSwapWith"`
}

// CreateInput is the provisional request as submitted.
type CreateInput struct {
	SenderID         string
	ReceiverID       string
	BookToSwapWithID string
	SwapType         string
	Offer            *swap.OfferInput
	AskForGiveaway   bool
	Note             string
}

type ListFilter struct {
	UserID    string
	Direction Direction
	Status    swap.Status
	Limit     int
	Offset    int
}

// Viewer is the caller a read or status change is performed for.
type Viewer struct {
	UserID string
	Admin  bool
}

func (v Viewer) canSee(sr SwapRequest) bool {
	return v.Admin || sr.Involves(v.UserID)
}

// CreatedEvent is published after a request is stored.
type CreatedEvent struct {
	ID               string      `json:"id"`
	SenderID         string      `json:"senderId"`
	ReceiverID       string      `json:"receiverId"`
	BookToSwapWithID string      `json:"bookToSwapWithId"`
	SwapType         swap.Type   `json:"swapType"`
	SwapStatus       swap.Status `json:"swapStatus"`
	RequestedAt      time.Time   `json:"requestedAt"`
}

func newCreatedEvent(sr SwapRequest) CreatedEvent {
	return CreatedEvent{
		ID:               sr.ID,
		SenderID:         sr.SenderID,
		ReceiverID:       sr.ReceiverID,
		BookToSwapWithID: sr.BookToSwapWithID,
		SwapType:         sr.SwapType,
		SwapStatus:       sr.SwapStatus,
		RequestedAt:      sr.RequestedAt,
	}
}
