package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrKriegler/insureflow/internal/core"
	"github.com/MrKriegler/insureflow/pkg/problem"
)

// writeError maps a core error onto its problem type. Client errors are
// logged at Warn; anything unrecognised is a 500 with a generic detail.
func writeError(ctx context.Context, log *slog.Logger, w http.ResponseWriter, err error, detail string) {
	var (
		te *core.TransitionError
		p  *problem.Problem
	)

	switch {
	case errors.Is(err, core.ErrValidation):
		log.WarnContext(ctx, "validation failed", "err", err)
		p = problem.New(problem.TypeValidation, http.StatusBadRequest, "Validation Error", err.Error())
		if fields := core.ValidationFields(err); len(fields) > 0 {
			p.With("errors", fields)
		}

	case errors.Is(err, core.ErrInvalidQuote):
		log.WarnContext(ctx, "invalid quote request", "err", err)
		p = problem.New(problem.TypeInvalidQuote, http.StatusUnprocessableEntity, "Invalid Quote Request", err.Error())

	case errors.Is(err, core.ErrUnauthorized):
		log.WarnContext(ctx, "unauthorized request", "err", err)
		p = problem.New(problem.TypeUnauthorized, http.StatusUnauthorized, "Unauthorized", err.Error())

	case errors.Is(err, core.ErrForbidden):
		log.WarnContext(ctx, "forbidden operation", "err", err)
		p = problem.New(problem.TypeForbidden, http.StatusForbidden, "Forbidden", err.Error())

	case errors.As(err, &te):
		log.WarnContext(ctx, "invalid state transition", "err", err)
		p = problem.New(problem.TypeInvalidState, http.StatusConflict, "Invalid State Transition", err.Error()).
			With("current_status", te.From)
		if te.To != "" {
			p.With("requested_status", te.To)
		}

	case errors.Is(err, core.ErrInvalidState):
		log.WarnContext(ctx, "invalid state transition", "err", err)
		p = problem.New(problem.TypeInvalidState, http.StatusConflict, "Invalid State Transition", err.Error())

	case errors.Is(err, core.ErrDuplicateClaim):
		log.WarnContext(ctx, "duplicate claim", "err", err)
		p = problem.New(problem.TypeDuplicateClaim, http.StatusConflict, "Duplicate Claim", err.Error())

	case errors.Is(err, core.ErrConflict):
		log.WarnContext(ctx, "resource conflict", "err", err)
		p = problem.New(problem.TypeConflict, http.StatusConflict, "Conflict", err.Error())

	case errors.Is(err, core.ErrNotFound):
		log.WarnContext(ctx, "resource not found", "err", err)
		p = problem.New(problem.TypeNotFound, http.StatusNotFound, "Not Found", err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		log.ErrorContext(ctx, "operation timeout", "err", err)
		p = problem.New(problem.TypeInternal, http.StatusGatewayTimeout, "Timeout", "Operation took too long.")

	default:
		log.ErrorContext(ctx, "internal server error", "err", err)
		p = problem.New(problem.TypeInternal, http.StatusInternalServerError, "Internal Server Error", detail)
	}

	p.Send(w)
}
