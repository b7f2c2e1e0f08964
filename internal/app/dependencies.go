package app

import (
	"database/sql"

	"github.com/finbook/finbook/internal/config"
	"github.com/finbook/finbook/internal/events"
	"github.com/finbook/finbook/internal/utils"
	"github.com/finbook/finbook/pkg/auth"
	"github.com/finbook/finbook/pkg/budget"
	"github.com/finbook/finbook/pkg/category"
	"github.com/finbook/finbook/pkg/goal"
	"github.com/finbook/finbook/pkg/preferences"
	"github.com/finbook/finbook/pkg/stats"
	"github.com/finbook/finbook/pkg/transaction"
	"github.com/finbook/finbook/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus *events.Bus

	UserRepo    user.Repo
	AuthService auth.Service
	AuthHandler *auth.Handler

	CategoryRepo    category.Repo
	CategoryService category.Service
	CategoryHandler *category.Handler

	TransactionRepo    transaction.Repo
	TransactionService transaction.Service
	TransactionHandler *transaction.Handler

	BudgetRepo    budget.Repo
	BudgetService budget.Service
	BudgetHandler *budget.Handler

	GoalRepo    goal.Repo
	GoalService goal.Service
	GoalHandler *goal.Handler

	StatsRepo    stats.Repo
	StatsService stats.Service
	StatsHandler *stats.Handler

	PreferencesRepo    preferences.Repo
	PreferencesService preferences.Service
	PreferencesHandler *preferences.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Bus = events.NewBus()
	deps.Clock = &utils.SystemClock{}

	deps.UserRepo = user.NewRepo(db)
	deps.AuthService = auth.NewService(deps.UserRepo, cfg.Auth)
	deps.AuthHandler = auth.NewHandler(deps.AuthService)

	deps.CategoryRepo = category.NewRepo(db)
	deps.CategoryService = category.NewService(deps.CategoryRepo)
	deps.CategoryHandler = category.NewHandler(deps.CategoryService)

	deps.TransactionRepo = transaction.NewRepo(db)
	deps.TransactionService = transaction.NewService(deps.TransactionRepo, deps.CategoryService.Get, deps.Bus)
	deps.TransactionHandler = transaction.NewHandler(deps.TransactionService)

	// The budget service subscribes to ledger change events on construction,
	// so every transaction write refreshes the affected spent figures.
	deps.BudgetRepo = budget.NewRepo(db)
	deps.BudgetService = budget.NewService(deps.BudgetRepo, deps.CategoryService.Get, deps.Bus)
	deps.BudgetHandler = budget.NewHandler(deps.BudgetService)

	deps.GoalRepo = goal.NewRepo(db)
	deps.GoalService = goal.NewService(deps.GoalRepo)
	deps.GoalHandler = goal.NewHandler(deps.GoalService)

	deps.StatsRepo = stats.NewRepo(db)
	deps.StatsService = stats.NewService(deps.StatsRepo, deps.Clock)
	deps.StatsHandler = stats.NewHandler(deps.StatsService)

	deps.PreferencesRepo = preferences.NewRepo(db)
	deps.PreferencesService = preferences.NewService(deps.PreferencesRepo)
	deps.PreferencesHandler = preferences.NewHandler(deps.PreferencesService)

	return deps
}
