package guide

import (
	"context"
	stdErrors "errors"

	"compliance-portal/internal/domain"
	"compliance-portal/internal/errors"

	"gorm.io/gorm"
)

type Service interface {
	List(ctx context.Context) ([]Summary, error)
	Get(ctx context.Context, id string) (*Detail, error)
	ToggleStep(ctx context.Context, guideID, stepID string, completed bool, expectedVersion *uint) (*Detail, error)
	Step(ctx context.Context, guideID string, index int) (*StepView, error)
}

type Summary struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	TotalSteps     int    `json:"totalSteps"`
	CompletedSteps int    `json:"completedSteps"`
	Progress       int    `json:"progress"`
	Version        uint   `json:"version"`
}

type Detail struct {
	*domain.FilingGuide
	CompletedSteps int `json:"completedSteps"`
	Progress       int `json:"progress"`
}

// StepView is a single step as shown by the step-by-step walkthrough.
type StepView struct {
	GuideID  string           `json:"guideId"`
	Index    int              `json:"index"`
	Total    int              `json:"total"`
	Step     domain.GuideStep `json:"step"`
	Prev     int              `json:"prev"`
	Next     int              `json:"next"`
	IsFirst  bool             `json:"isFirst"`
	IsLast   bool             `json:"isLast"`
	Progress int              `json:"progress"`
}

type DefaultService struct {
	repository Repository
}

func NewService(repository Repository) *DefaultService {
	return &DefaultService{repository: repository}
}

func summarize(g *domain.FilingGuide) Summary {
	return Summary{
		ID:             g.ID,
		Title:          g.Title,
		Description:    g.Description,
		TotalSteps:     len(g.Steps),
		CompletedSteps: g.CompletedSteps(),
		Progress:       g.Progress(),
		Version:        g.Version,
	}
}

func detail(g *domain.FilingGuide) *Detail {
	return &Detail{FilingGuide: g, CompletedSteps: g.CompletedSteps(), Progress: g.Progress()}
}

func (s *DefaultService) List(ctx context.Context) ([]Summary, error) {
	guides, err := s.repository.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(guides))
	for i := range guides {
		out = append(out, summarize(&guides[i]))
	}
	return out, nil
}

func (s *DefaultService) find(ctx context.Context, id string) (*domain.FilingGuide, error) {
	g, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Guide not found", err)
		}
		return nil, err
	}
	return g, nil
}

func (s *DefaultService) Get(ctx context.Context, id string) (*Detail, error) {
	g, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return detail(g), nil
}

// ToggleStep sets a step's completion. Steps may be completed in any order.
func (s *DefaultService) ToggleStep(ctx context.Context, guideID, stepID string, completed bool, expectedVersion *uint) (*Detail, error) {
	g, err := s.repository.SetStep(ctx, guideID, stepID, completed, expectedVersion)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Guide step not found", err)
		}
		return nil, err
	}
	return detail(g), nil
}

// Step returns the step at index, clamping index into the guide's range.
func (s *DefaultService) Step(ctx context.Context, guideID string, index int) (*StepView, error) {
	g, err := s.find(ctx, guideID)
	if err != nil {
		return nil, err
	}
	if len(g.Steps) == 0 {
		return nil, errors.NotFound("Guide has no steps", nil)
	}

	cur := NewCursor(len(g.Steps), index)
	return &StepView{
		GuideID:  g.ID,
		Index:    cur.Index(),
		Total:    len(g.Steps),
		Step:     g.Steps[cur.Index()],
		Prev:     cur.Prev().Index(),
		Next:     cur.Next().Index(),
		IsFirst:  cur.IsFirst(),
		IsLast:   cur.IsLast(),
		Progress: g.Progress(),
	}, nil
}
