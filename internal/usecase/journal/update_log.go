package journal

import (
	"context"

	"github.com/BruksfildServices01/mood-journal/internal/audit"
	domain "github.com/BruksfildServices01/mood-journal/internal/domain/journal"
	"github.com/BruksfildServices01/mood-journal/internal/models"
)

type UpdateLog struct {
	repo   domain.Repository
	policy domain.Policy
	audit  *audit.Dispatcher
}

func NewUpdateLog(
	repo domain.Repository,
	policy domain.Policy,
	audit *audit.Dispatcher,
) *UpdateLog {
	return &UpdateLog{
		repo:   repo,
		policy: policy,
		audit:  audit,
	}
}

// Execute applies the supplied fields only. id and created_at are never part
// of the change set.
func (uc *UpdateLog) Execute(
	ctx context.Context,
	actor domain.Actor,
	id uint,
	in domain.Input,
) (*models.Log, error) {

	if uc.policy.OwnerOnly {
		if _, err := loadAccessible(ctx, uc.repo, uc.policy, actor, id); err != nil {
			return nil, err
		}
	}

	if err := uc.policy.AttributeUpdate(actor, &in); err != nil {
		return nil, err
	}

	changes := in.Changes()
	l, err := uc.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}

	fields := make([]string, 0, len(changes))
	for k := range changes {
		fields = append(fields, k)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actor.UserID,
		Action:   audit.ActionLogUpdated,
		Entity:   audit.EntityLog,
		EntityID: &l.ID,
		Metadata: map[string]any{"fields": fields},
	})

	return l, nil
}
