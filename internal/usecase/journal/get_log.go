package journal

import (
	"context"

	domain "github.com/BruksfildServices01/mood-journal/internal/domain/journal"
	"github.com/BruksfildServices01/mood-journal/internal/models"
)

type GetLog struct {
	repo   domain.Repository
	policy domain.Policy
}

func NewGetLog(repo domain.Repository, policy domain.Policy) *GetLog {
	return &GetLog{repo: repo, policy: policy}
}

func (uc *GetLog) Execute(
	ctx context.Context,
	actor domain.Actor,
	id uint,
) (*models.Log, error) {
	return loadAccessible(ctx, uc.repo, uc.policy, actor, id)
}

func loadAccessible(
	ctx context.Context,
	repo domain.Repository,
	policy domain.Policy,
	actor domain.Actor,
	id uint,
) (*models.Log, error) {

	l, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanAccess(actor, l); err != nil {
		return nil, err
	}
	return l, nil
}
