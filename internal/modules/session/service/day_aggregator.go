package service

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"flowmodoro/internal/modules/session/domain"
	sessionout "flowmodoro/internal/modules/session/port/out"
	apperrors "flowmodoro/internal/platform/errors"
	"flowmodoro/internal/platform/localday"
)

// DayAggregator answers day totals from the collector, or from the local
// store when the collector fails. Both paths return the same shape.
type DayAggregator struct {
	local  sessionout.LocalStore
	remote sessionout.RemoteService
	logger *log.Logger
}

func NewDayAggregator(local sessionout.LocalStore, remote sessionout.RemoteService, logger *log.Logger) *DayAggregator {
	return &DayAggregator{local: local, remote: remote, logger: logger}
}

// DayView has the same shape whichever source served it.
func (a *DayAggregator) DayView(ctx context.Context, day string) (domain.DayTotals, error) {
	if !localday.Valid(day) {
		return domain.DayTotals{}, fmt.Errorf("%w: day must be YYYY-MM-DD, got %q", apperrors.ErrInvalidInput, day)
	}
	totals, err := a.remote.Totals(ctx, day)
	if err == nil {
		return totals, nil
	}
	a.logger.Debug("day totals from local store", "day", day, "err", err)
	records, err := a.local.ScanByDay(ctx, day)
	if err != nil {
		return domain.DayTotals{}, err
	}
	return domain.Aggregate(day, records), nil
}
