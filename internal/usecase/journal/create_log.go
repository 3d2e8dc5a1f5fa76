package journal

import (
	"context"

	"github.com/BruksfildServices01/mood-journal/internal/audit"
	domain "github.com/BruksfildServices01/mood-journal/internal/domain/journal"
	"github.com/BruksfildServices01/mood-journal/internal/models"
)

type CreateLog struct {
	repo   domain.Repository
	policy domain.Policy
	audit  *audit.Dispatcher
}

func NewCreateLog(
	repo domain.Repository,
	policy domain.Policy,
	audit *audit.Dispatcher,
) *CreateLog {
	return &CreateLog{
		repo:   repo,
		policy: policy,
		audit:  audit,
	}
}

func (uc *CreateLog) Execute(
	ctx context.Context,
	actor domain.Actor,
	in domain.Input,
) (*models.Log, error) {

	if err := uc.policy.Attribute(actor, &in); err != nil {
		return nil, err
	}

	l := in.NewLog()
	if err := uc.repo.Insert(ctx, l); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actor.UserID,
		Action:   audit.ActionLogCreated,
		Entity:   audit.EntityLog,
		EntityID: &l.ID,
	})

	return l, nil
}
