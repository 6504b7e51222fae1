package genre

import (
	"context"
	"strings"

	"bookswap/internal/apperror"
)

// Service provides genre-related business logic.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a genre under parentID, or as a root when parentID is nil.
func (s *Service) Create(ctx context.Context, name string, parentID *string) (Genre, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Genre{}, apperror.BadRequest("genreNameCannotBeBlank")
	}
	slug := Slugify(name)
	if slug == "" {
		return Genre{}, apperror.BadRequest("genreNameCannotBeBlank")
	}

	parentID = normalizeID(parentID)
	if parentID != nil {
		if _, err := s.repo.GetByID(ctx, *parentID); err != nil {
			return Genre{}, err
		}
	}

	g := Genre{Name: name, Slug: slug, ParentID: parentID}
	if err := s.repo.Create(ctx, &g); err != nil {
		return Genre{}, err
	}
	return g, nil
}

// GetByID is the lookup the swap request workflow resolves offered genres with.
func (s *Service) GetByID(ctx context.Context, id string) (Genre, error) {
	return s.repo.GetByID(ctx, id)
}

// Resolve returns the genres for ids in the given order. Duplicates are
// collapsed; the first unknown id fails the whole lookup.
func (s *Service) Resolve(ctx context.Context, ids []string) ([]Genre, error) {
	uniq := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, apperror.BadRequest("genreIdCannotBeBlank")
		}
		if !seen[id] {
			seen[id] = true
			uniq = append(uniq, id)
		}
	}
	if len(uniq) == 0 {
		return nil, nil
	}

	found, err := s.repo.GetByIDs(ctx, uniq)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Genre, len(found))
	for _, g := range found {
		byID[g.ID] = g
	}

	out := make([]Genre, 0, len(uniq))
	for _, id := range uniq {
		g, ok := byID[id]
		if !ok {
			return nil, apperror.NotFound("genreNotFound", id)
		}
		out = append(out, g)
	}
	return out, nil
}

func (s *Service) List(ctx context.Context) ([]Genre, error) {
	return s.repo.List(ctx)
}

// Tree loads every genre into an index.
func (s *Service) Tree(ctx context.Context) (*Tree, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return NewTree(all), nil
}

// SetParent moves a genre under parentID, or to the root when parentID is nil.
// A move that would make the genre its own ancestor is refused.
func (s *Service) SetParent(ctx context.Context, id string, parentID *string) (Genre, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Genre{}, err
	}

	parentID = normalizeID(parentID)
	if parentID != nil {
		if _, err := s.repo.GetByID(ctx, *parentID); err != nil {
			return Genre{}, err
		}
		tree, err := s.Tree(ctx)
		if err != nil {
			return Genre{}, err
		}
		if tree.WouldCycle(id, *parentID) {
			return Genre{}, apperror.BadRequest("genreCannotBeItsOwnAncestor", id)
		}
	}

	if err := s.repo.UpdateParent(ctx, id, parentID); err != nil {
		return Genre{}, err
	}
	g.ParentID = parentID
	return g, nil
}

func normalizeID(id *string) *string {
	if id == nil {
		return nil
	}
	v := strings.TrimSpace(*id)
	if v == "" {
		return nil
	}
	return &v
}
