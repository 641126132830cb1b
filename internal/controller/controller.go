// Package controller binds views to the Synchronization Layer and the Entity
// Stores. A controller raises the loading flag, calls the service, and commits
// the outcome to its store. Responses that were superseded by a newer request
// of the same operation, invalidated by a store Reset, or whose caller went
// away, are dropped without any store write.
package controller

import (
	"context"

	"github.com/straye-as/relation-sync/internal/domain"
	"github.com/straye-as/relation-sync/internal/logger"
	"github.com/straye-as/relation-sync/internal/store"
	"go.uber.org/zap"
)

const msgInvalidPatch = "The change could not be applied to the current record"

// tracked is the part of a store that request bookkeeping needs
type tracked interface {
	BeginRequest(op store.Operation) store.Ticket
	Commit(t store.Ticket, fn func()) bool
	SetLoading(op store.Operation, isLoading bool)
	SetError(op store.Operation, msg string)
}

// run executes one fenced operation against s. commit is only called for a
// successful result that is still the latest for op.
func run[R any](ctx context.Context, s tracked, entity string, op store.Operation, log *zap.Logger, call func(context.Context) domain.Result[R], commit func(domain.Result[R])) domain.Result[R] {
	ticket := s.BeginRequest(op)
	s.SetLoading(op, true)

	res := call(ctx)

	committed := s.Commit(ticket, func() {
		defer s.SetLoading(op, false)
		switch {
		case res.Canceled:
			opLogger(log, entity, op).Debug("request canceled")
		case !res.Success:
			s.SetError(op, res.Error)
		default:
			commit(res)
		}
	})
	if !committed {
		opLogger(log, entity, op).Debug("discarding superseded response")
	}
	return res
}

// patch fetches the current record, overlays a partial change on its editable
// fields and sends the complete input to update. The Gateway replaces whole
// records, so fields the caller left out keep their current values.
func patch[E, I, R any](ctx context.Context, get func(context.Context) domain.Result[E], toInput func(E) I, apply func(*I) error, update func(context.Context, I) domain.Result[R]) domain.Result[R] {
	current := get(ctx)
	if !current.Success {
		return domain.Fail[R](ctx, current.Err(), current.Error)
	}
	input := toInput(current.Data)
	if err := apply(&input); err != nil {
		return domain.Fail[R](ctx, domain.NewFieldError("body", msgInvalidPatch), msgInvalidPatch)
	}
	return update(ctx, input)
}

func opLogger(log *zap.Logger, entity string, op store.Operation) *zap.Logger {
	return logger.WithOperation(log, entity, string(op))
}
