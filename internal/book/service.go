package book

import (
	"context"
	"strings"

	"bookswap/internal/apperror"
	"bookswap/internal/genre"
	"bookswap/internal/swap"
)

// Service provides book-related business logic.
type Service struct {
	repo   Repository
	genres GenreResolver
}

func NewService(repo Repository, genres GenreResolver) *Service {
	return &Service{repo: repo, genres: genres}
}

// Create lists a book for ownerID together with its swap condition.
func (s *Service) Create(ctx context.Context, ownerID string, cmd CreateCommand) (Book, error) {
	b := Book{
		Title:       strings.TrimSpace(cmd.Title),
		Author:      strings.TrimSpace(cmd.Author),
		Description: strings.TrimSpace(cmd.Description),
		Language:    strings.ToLower(strings.TrimSpace(cmd.Language)),
		OwnerID:     ownerID,
		CoverPhotos: cmd.CoverPhotos,
	}
	if b.Title == "" {
		return Book{}, apperror.BadRequest("bookTitleIsRequired")
	}
	if b.Author == "" {
		return Book{}, apperror.BadRequest("bookAuthorIsRequired")
	}
	if b.CoverPhotos == nil {
		b.CoverPhotos = []string{}
	}

	cond, err := ParseCondition(cmd.Condition)
	if err != nil {
		return Book{}, err
	}
	b.Condition = cond

	if b.Genres, err = s.genres.Resolve(ctx, cmd.GenreIDs); err != nil {
		return Book{}, err
	}
	if b.Genres == nil {
		b.Genres = []genre.Genre{}
	}

	if b.SwapCondition, err = s.buildCondition(ctx, cmd.SwapCondition); err != nil {
		return Book{}, err
	}

	if err := s.repo.Create(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// buildCondition checks the swap type and the exactly-one-of table on the raw
// input, then swaps BY_GENRES ids for catalog references.
func (s *Service) buildCondition(ctx context.Context, in swap.ConditionInput) (swap.Condition, error) {
	t, err := in.Check()
	if err != nil {
		return swap.Condition{}, err
	}
	if t == swap.TypeByGenres {
		ids := make([]string, len(in.SwappableGenres))
		for i, g := range in.SwappableGenres {
			ids[i] = strings.TrimSpace(g.ID)
			if ids[i] == "" {
				return swap.Condition{}, apperror.BadRequest("genreCannotBeBlankForSwappableCondition")
			}
		}
		resolved, err := s.genres.Resolve(ctx, ids)
		if err != nil {
			return swap.Condition{}, err
		}
		in.SwappableGenres = genre.Refs(resolved)
	}
	return swap.NewCondition(in)
}

// GetByID returns a book with its resolved genres and swap condition.
func (s *Service) GetByID(ctx context.Context, id string) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a list of books matching the query.
func (s *Service) List(ctx context.Context, q Query) ([]Book, int, error) {
	return s.repo.List(ctx, q)
}

// Delete removes a listing. Only its owner may do so.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.OwnerID != ownerID {
		return apperror.Forbidden("bookDoesNotBelongToUser", id)
	}
	return s.repo.Delete(ctx, id)
}

// GetSwappableBook finds a swappable book by id across every BY_BOOKS condition.
func (s *Service) GetSwappableBook(ctx context.Context, id string) (swap.SwappableBook, error) {
	return s.repo.FindSwappableBook(ctx, strings.TrimSpace(id))
}
