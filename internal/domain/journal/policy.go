package journal

import "github.com/BruksfildServices01/mood-journal/internal/models"

// Actor is the caller of a Log operation. UserID is nil for anonymous callers.
type Actor struct {
	UserID *uint
}

func (a Actor) Authenticated() bool {
	return a.UserID != nil
}

// Policy decides who may see and modify which Logs.
type Policy struct {
	OwnerOnly bool
}

func (p Policy) requireActor(a Actor) error {
	if p.OwnerOnly && !a.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

// Scope returns the list filter for the actor.
func (p Policy) Scope(a Actor) (ListFilter, error) {
	if err := p.requireActor(a); err != nil {
		return ListFilter{}, err
	}
	if p.OwnerOnly {
		return ListFilter{UserID: a.UserID}, nil
	}
	return ListFilter{}, nil
}

// CanAccess reports whether the actor may read or modify l. Denied access is
// reported as not found so ids of other users are not disclosed.
func (p Policy) CanAccess(a Actor, l *models.Log) error {
	if err := p.requireActor(a); err != nil {
		return err
	}
	if !p.OwnerOnly {
		return nil
	}
	if l.UserID == nil || *l.UserID != *a.UserID {
		return ErrNotFound
	}
	return nil
}

// Attribute fills or checks the owner of a Log being written.
func (p Policy) Attribute(a Actor, in *Input) error {
	if err := p.requireActor(a); err != nil {
		return err
	}

	if p.OwnerOnly {
		if in.UserSet && (in.UserID == nil || *in.UserID != *a.UserID) {
			return NewValidationError("user", "Logs can only be attributed to the authenticated user.")
		}
		in.UserID = a.UserID
		in.UserSet = true
		return nil
	}

	if !in.UserSet && a.Authenticated() {
		in.UserID = a.UserID
		in.UserSet = true
	}
	return nil
}

// AttributeUpdate checks an update body. Under the owner policy the owner
// cannot be changed.
func (p Policy) AttributeUpdate(a Actor, in *Input) error {
	if !p.OwnerOnly || !in.UserSet {
		return p.requireActor(a)
	}
	return p.Attribute(a, in)
}
