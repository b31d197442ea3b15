// AngelaMos | 2026
// service.go

package notice

import (
	"context"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Post(
	ctx context.Context,
	authorID string,
	req CreateNoticeRequest,
) (*Notice, error) {
	n := &Notice{
		ID:      uuid.New().String(),
		Title:   req.Title,
		Content: req.Content,
	}
	if authorID != "" {
		n.PostedByUserID = &authorID
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	return n, nil
}

func (s *Service) List(ctx context.Context, params ListParams) ([]Notice, int, error) {
	params.Normalize()
	return s.repo.List(ctx, params)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
