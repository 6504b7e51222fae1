package swaprequest

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"bookswap/internal/apperror"
	"bookswap/internal/swap"
)

type Service struct {
	store  Store
	users  UserDirectory
	books  BookDirectory
	genres GenreDirectory
	events EventPublisher
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now as the source of request timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithPublisher sets where created events go. Without it events are dropped.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.events = p }
}

func NewService(store Store, users UserDirectory, books BookDirectory, genres GenreDirectory, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		users:  users,
		books:  books,
		genres: genres,
		events: NoopPublisher{},
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func required(value, field string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperror.BadRequest(field + "IsRequired")
	}
	return value, nil
}

// Create validates in against the target book's swap condition and stores a
// PENDING request. Checks run in a fixed order and the first failure wins:
// duplicate triple, sender and receiver, target book, ownership and swap
// type, then the offer.
func (s *Service) Create(ctx context.Context, in CreateInput) (Detail, error) {
	senderID, err := required(in.SenderID, "senderId")
	if err != nil {
		return Detail{}, err
	}
	receiverID, err := required(in.ReceiverID, "receiverId")
	if err != nil {
		return Detail{}, err
	}
	bookID, err := required(in.BookToSwapWithID, "bookToSwapWithId")
	if err != nil {
		return Detail{}, err
	}
	note := strings.TrimSpace(in.Note)
	if utf8.RuneCountInString(note) > maxNoteLength {
		return Detail{}, apperror.BadRequest("noteTooLong", strconv.Itoa(maxNoteLength))
	}

	exists, err := s.store.ExistsByTriple(ctx, senderID, receiverID, bookID)
	if err != nil {
		return Detail{}, err
	}
	if exists {
		return Detail{}, apperror.SwapRequestExistsAlready(senderID, receiverID, bookID)
	}

	swapType, err := swap.ParseType(in.SwapType)
	if err != nil {
		return Detail{}, err
	}
	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return Detail{}, err
	}
	receiver, err := s.users.GetByID(ctx, receiverID)
	if err != nil {
		return Detail{}, err
	}
	if sender.ID == receiver.ID {
		return Detail{}, apperror.IllegalSwapRequest("senderCannotSwapWithThemselves", sender.ID)
	}

	target, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return Detail{}, err
	}

	owned, err := s.users.IsOwnedBook(ctx, receiver.ID, target.ID)
	if err != nil {
		return Detail{}, err
	}
	if !owned {
		return Detail{}, apperror.IllegalSwapRequest("bookToSwapWithDoesNotBelongToReceiver", target.ID, receiver.ID)
	}
	declared := target.SwapCondition.Type()
	if swapType != declared {
		return Detail{}, apperror.IllegalSwapRequest("swapTypeDoesNotMatchSwapCondition", swapType.String(), declared.String())
	}

	offer, err := s.resolveOffer(ctx, target.SwapCondition, in.Offer)
	if err != nil {
		return Detail{}, err
	}

	now := s.now().UTC()
	sr := SwapRequest{
		SenderID:         sender.ID,
		ReceiverID:       receiver.ID,
		BookToSwapWithID: target.ID,
		SwapType:         swapType,
		SwapOffer:        offer,
		AskForGiveaway:   in.AskForGiveaway,
		SwapStatus:       swap.StatusPending,
		Note:             note,
		RequestedAt:      now,
		UpdatedAt:        now,
	}
	if err := s.store.Save(ctx, &sr); err != nil {
		return Detail{}, err
	}

	if err := s.events.PublishCreated(ctx, newCreatedEvent(sr)); err != nil {
		s.logger.WarnContext(ctx, "publish swap request created",
			"swap_request_id", sr.ID,
			"error", err,
		)
	}

	return Detail{
		SwapRequest:    sr,
		Sender:         sender.Public(),
		Receiver:       receiver.Public(),
		BookToSwapWith: target,
	}, nil
}

// resolveOffer loads the offered swappable book or genre and checks it
// against the condition. Conditions that take no offer yield nil.
func (s *Service) resolveOffer(ctx context.Context, c swap.Condition, in *swap.OfferInput) (*swap.Offer, error) {
	if err := swap.CheckOfferShape(c, in); err != nil {
		return nil, err
	}
	if !c.RequiresOffer() {
		return nil, nil
	}

	var offer swap.Offer
	if id := in.BookID(); id != "" {
		sb, err := s.books.GetSwappableBook(ctx, id)
		if err != nil {
			return nil, err
		}
		offer.OfferedBook = &sb
	} else {
		g, err := s.genres.GetByID(ctx, in.GenreID())
		if err != nil {
			return nil, err
		}
		ref := g.Ref()
		offer.OfferedGenre = &ref
	}

	if err := swap.CheckOfferMembership(c, offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// Get returns a resolved request. Only its sender, its receiver or an admin
// may read it.
func (s *Service) Get(ctx context.Context, v Viewer, id string) (Detail, error) {
	sr, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	if !v.canSee(sr) {
		return Detail{}, apperror.Forbidden("swapRequestDoesNotInvolveUser", id)
	}

	sender, err := s.users.GetByID(ctx, sr.SenderID)
	if err != nil {
		return Detail{}, err
	}
	receiver, err := s.users.GetByID(ctx, sr.ReceiverID)
	if err != nil {
		return Detail{}, err
	}
	target, err := s.books.GetByID(ctx, sr.BookToSwapWithID)
	if err != nil {
		return Detail{}, err
	}
	return Detail{
		SwapRequest:    sr,
		Sender:         sender.Public(),
		Receiver:       receiver.Public(),
		BookToSwapWith: target,
	}, nil
}

// List returns the requests f.UserID sent or received, newest first.
func (s *Service) List(ctx context.Context, f ListFilter) ([]SwapRequest, int, error) {
	if f.UserID == "" {
		return nil, 0, apperror.BadRequest("userIdIsRequired")
	}
	return s.store.List(ctx, f)
}

// TransitionStatus moves a request to next when the status table allows it.
// No transitions out of PENDING are defined yet, so every call is refused.
func (s *Service) TransitionStatus(ctx context.Context, v Viewer, id, next string) (SwapRequest, error) {
	to, err := swap.ParseStatus(next)
	if err != nil {
		return SwapRequest{}, err
	}
	sr, err := s.store.GetByID(ctx, id)
	if err != nil {
		return SwapRequest{}, err
	}
	if !v.canSee(sr) {
		return SwapRequest{}, apperror.Forbidden("swapRequestDoesNotInvolveUser", id)
	}
	if !sr.SwapStatus.CanTransitionTo(to) {
		return SwapRequest{}, apperror.BadRequest("swapStatusTransitionNotSupported", sr.SwapStatus.String(), to.String())
	}

	now := s.now().UTC()
	if err := s.store.UpdateStatus(ctx, sr.ID, to, now); err != nil {
		return SwapRequest{}, err
	}
	sr.SwapStatus = to
	sr.UpdatedAt = now
	return sr, nil
}

// DeleteAll removes every swap request and nothing else.
func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "deleted all swap requests", "count", n)
	return n, nil
}
