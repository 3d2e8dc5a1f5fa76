package journal

import (
	"context"

	domain "github.com/BruksfildServices01/mood-journal/internal/domain/journal"
	"github.com/BruksfildServices01/mood-journal/internal/models"
)

type ListLogs struct {
	repo   domain.Repository
	policy domain.Policy
}

func NewListLogs(repo domain.Repository, policy domain.Policy) *ListLogs {
	return &ListLogs{repo: repo, policy: policy}
}

func (uc *ListLogs) Execute(
	ctx context.Context,
	actor domain.Actor,
) ([]models.Log, error) {

	filter, err := uc.policy.Scope(actor)
	if err != nil {
		return nil, err
	}
	return uc.repo.List(ctx, filter)
}
