package feed

import (
	"context"
	"slices"

	"compliance-portal/internal/domain"
	"compliance-portal/internal/utils"
	"compliance-portal/internal/view"
)

type Service interface {
	List(ctx context.Context, query Query) (*List, error)
	Categories(ctx context.Context) ([]string, error)
	Refresh(ctx context.Context) (int, error)
}

// Query narrows the feed. Category and Importance treat "" and "all" as any.
type Query struct {
	Search     string
	Category   string
	Importance string
}

type List struct {
	Data       []domain.RegulatoryUpdate `json:"data"`
	Total      int                       `json:"total"`
	Categories []string                  `json:"categories"`
}

type DefaultService struct {
	repository Repository
	source     Source
}

// NewService builds the feed service. source may be nil when no upstream is configured.
func NewService(repository Repository, source Source) *DefaultService {
	return &DefaultService{repository: repository, source: source}
}

func (q Query) keep(u domain.RegulatoryUpdate) bool {
	return (view.ContainsFold(u.Title, q.Search) || view.ContainsFold(u.Summary, q.Search)) &&
		view.MatchesOption(u.Category, q.Category) &&
		view.MatchesOption(string(u.Importance), q.Importance)
}

var newestFirst = view.Descending(func(u domain.RegulatoryUpdate) string { return u.Date })

func (s *DefaultService) List(ctx context.Context, query Query) (*List, error) {
	updates, err := s.repository.List(ctx)
	if err != nil {
		return nil, err
	}

	data := view.Project(updates, query.keep, newestFirst, 0)
	return &List{
		Data:       data,
		Total:      len(data),
		Categories: categoriesOf(updates),
	}, nil
}

func (s *DefaultService) Categories(ctx context.Context) ([]string, error) {
	return s.repository.Categories(ctx)
}

func categoriesOf(updates []domain.RegulatoryUpdate) []string {
	out := make([]string, 0)
	for _, u := range updates {
		if !slices.Contains(out, u.Category) {
			out = append(out, u.Category)
		}
	}
	slices.Sort(out)
	return out
}

// Refresh pulls the upstream source and stores what it returned.
func (s *DefaultService) Refresh(ctx context.Context) (int, error) {
	if s.source == nil {
		return 0, nil
	}
	updates, err := s.source.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.repository.Upsert(ctx, updates); err != nil {
		return 0, err
	}
	utils.Logger(ctx).Info("regulatory feed refreshed", "updates", len(updates))
	return len(updates), nil
}
