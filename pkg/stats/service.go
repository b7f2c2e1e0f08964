package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/finbook/finbook/internal/utils"
	"github.com/finbook/finbook/pkg/user"
	"golang.org/x/sync/errgroup"
)

type Service interface {
	Summary(ctx context.Context) (Summary, error)
}

type ServiceImpl struct {
	repo  Repo
	clock utils.Clock
}

func NewService(repo Repo, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

// Summary fans the three independent aggregations out concurrently. The
// monthly window is the current calendar month on the server clock.
func (s *ServiceImpl) Summary(ctx context.Context) (Summary, error) {
	userID, err := user.CurrentID(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to get current user: %w", err)
	}

	now := s.clock.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)

	var summary Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		income, expenses, err := s.repo.TotalsByType(gctx, userID)
		if err != nil {
			return err
		}
		summary.TotalIncome = income
		summary.TotalExpenses = expenses
		return nil
	})
	g.Go(func() error {
		income, expenses, err := s.repo.TotalsByTypeBetween(gctx, userID, monthStart, monthEnd)
		if err != nil {
			return err
		}
		summary.MonthlyIncome = income
		summary.MonthlyExpenses = expenses
		return nil
	})
	g.Go(func() error {
		breakdown, err := s.repo.CategoryBreakdown(gctx, userID)
		if err != nil {
			return err
		}
		summary.CategoryBreakdown = breakdown
		return nil
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	summary.Balance = summary.TotalIncome - summary.TotalExpenses
	return summary, nil
}
