package journal

import (
	"context"

	"github.com/BruksfildServices01/mood-journal/internal/audit"
	domain "github.com/BruksfildServices01/mood-journal/internal/domain/journal"
)

type DeleteLog struct {
	repo   domain.Repository
	policy domain.Policy
	audit  *audit.Dispatcher
}

func NewDeleteLog(
	repo domain.Repository,
	policy domain.Policy,
	audit *audit.Dispatcher,
) *DeleteLog {
	return &DeleteLog{
		repo:   repo,
		policy: policy,
		audit:  audit,
	}
}

func (uc *DeleteLog) Execute(
	ctx context.Context,
	actor domain.Actor,
	id uint,
) error {

	if uc.policy.OwnerOnly {
		if _, err := loadAccessible(ctx, uc.repo, uc.policy, actor, id); err != nil {
			return err
		}
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actor.UserID,
		Action:   audit.ActionLogDeleted,
		Entity:   audit.EntityLog,
		EntityID: &id,
	})
	return nil
}
