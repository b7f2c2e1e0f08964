package app

import (
	"github.com/finbook/finbook/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints. Fixed paths are registered
// before their {id} siblings so mux never captures them as identifiers.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Auth
	r.HandleFunc("/api/auth/register", deps.AuthHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", deps.AuthHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/forgot-password", deps.AuthHandler.ForgotPassword).Methods("POST")
	r.HandleFunc("/api/auth/reset-password", deps.AuthHandler.ResetPassword).Methods("POST")
	r.HandleFunc("/api/auth/profile", deps.AuthHandler.GetProfile).Methods("GET")
	r.HandleFunc("/api/auth/profile", deps.AuthHandler.UpdateProfile).Methods("PUT")

	// Transactions
	r.HandleFunc("/api/transactions", deps.TransactionHandler.Create).Methods("POST")
	r.HandleFunc("/api/transactions", deps.TransactionHandler.List).Methods("GET")
	r.HandleFunc("/api/transactions/stats", deps.StatsHandler.Summary).Methods("GET")
	r.HandleFunc("/api/transactions/{id}", deps.TransactionHandler.Get).Methods("GET")
	r.HandleFunc("/api/transactions/{id}", deps.TransactionHandler.Update).Methods("PUT")
	r.HandleFunc("/api/transactions/{id}", deps.TransactionHandler.Delete).Methods("DELETE")

	// Categories
	r.HandleFunc("/api/categories", deps.CategoryHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/categories", deps.CategoryHandler.Create).Methods("POST")
	r.HandleFunc("/api/categories/stats", deps.CategoryHandler.UsageStats).Methods("GET")
	r.HandleFunc("/api/categories/type/{type}", deps.CategoryHandler.GetByType).Methods("GET")
	r.HandleFunc("/api/categories/{id}", deps.CategoryHandler.Get).Methods("GET")
	r.HandleFunc("/api/categories/{id}", deps.CategoryHandler.Update).Methods("PUT")
	r.HandleFunc("/api/categories/{id}", deps.CategoryHandler.Delete).Methods("DELETE")

	// Budgets
	r.HandleFunc("/api/budgets", deps.BudgetHandler.Create).Methods("POST")
	r.HandleFunc("/api/budgets", deps.BudgetHandler.List).Methods("GET")
	r.HandleFunc("/api/budgets/{id}", deps.BudgetHandler.Get).Methods("GET")
	r.HandleFunc("/api/budgets/{id}", deps.BudgetHandler.Update).Methods("PUT")
	r.HandleFunc("/api/budgets/{id}", deps.BudgetHandler.Delete).Methods("DELETE")

	// Goals
	r.HandleFunc("/api/goals", deps.GoalHandler.Create).Methods("POST")
	r.HandleFunc("/api/goals", deps.GoalHandler.List).Methods("GET")
	r.HandleFunc("/api/goals/{id}", deps.GoalHandler.Get).Methods("GET")
	r.HandleFunc("/api/goals/{id}", deps.GoalHandler.Update).Methods("PUT")
	r.HandleFunc("/api/goals/{id}", deps.GoalHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/goals/{id}/progress", deps.GoalHandler.AddProgress).Methods("POST")

	// Preferences
	r.HandleFunc("/api/preferences", deps.PreferencesHandler.Get).Methods("GET")
	r.HandleFunc("/api/preferences", deps.PreferencesHandler.Update).Methods("PUT")
}
