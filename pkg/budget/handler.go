package budget

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/finbook/finbook/internal/rest"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type BudgetDTO struct {
	ID             string    `json:"id"`
	CategoryID     string    `json:"categoryId"`
	CategoryName   string    `json:"categoryName,omitempty"`
	Amount         float64   `json:"amount"`
	Spent          float64   `json:"spent"`
	Period         string    `json:"period"`
	StartDate      string    `json:"startDate"`
	EndDate        string    `json:"endDate"`
	AlertThreshold float64   `json:"alertThreshold"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

type createBudgetDTO struct {
	CategoryID     string  `json:"categoryId"`
	Amount         float64 `json:"amount"`
	Period         string  `json:"period"`
	StartDate      string  `json:"startDate"`
	EndDate        string  `json:"endDate"`
	AlertThreshold float64 `json:"alertThreshold"`
}

type updateBudgetDTO struct {
	CategoryID     *string  `json:"categoryId"`
	Amount         *float64 `json:"amount"`
	Period         *string  `json:"period"`
	StartDate      *string  `json:"startDate"`
	EndDate        *string  `json:"endDate"`
	AlertThreshold *float64 `json:"alertThreshold"`
	IsActive       *bool    `json:"isActive"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new budget")
	var dto createBudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	startDate, err := time.Parse(dateLayout, dto.StartDate)
	if err != nil {
		rest.ErrorWithDetails(w, http.StatusBadRequest, "Invalid startDate format", "dates must be YYYY-MM-DD")
		return
	}
	endDate, err := time.Parse(dateLayout, dto.EndDate)
	if err != nil {
		rest.ErrorWithDetails(w, http.StatusBadRequest, "Invalid endDate format", "dates must be YYYY-MM-DD")
		return
	}

	created, err := h.service.Create(r.Context(), Budget{
		CategoryID:     dto.CategoryID,
		Amount:         dto.Amount,
		Period:         Period(dto.Period),
		StartDate:      startDate,
		EndDate:        endDate,
		AlertThreshold: dto.AlertThreshold,
	})
	if isValidationErr(err) {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.service.List(r.Context())
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	dtos := make([]BudgetDTO, 0, len(budgets))
	for _, b := range budgets {
		dtos = append(dtos, toDTO(b))
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, ErrNotFound) {
		rest.Error(w, http.StatusNotFound, "Budget not found")
		return
	}
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toDTO(b)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var dto updateBudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	patch, err := patchFromDTO(dto)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.Update(r.Context(), mux.Vars(r)["id"], patch)
	if errors.Is(err, ErrNotFound) {
		rest.Error(w, http.StatusNotFound, "Budget not found")
		return
	}
	if isValidationErr(err) {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, ErrNotFound) {
		rest.Error(w, http.StatusNotFound, "Budget not found")
		return
	}
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func isValidationErr(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidDates) ||
		errors.Is(err, ErrInvalidThreshold) ||
		errors.Is(err, ErrInvalidCategory)
}

func patchFromDTO(dto updateBudgetDTO) (Patch, error) {
	patch := Patch{
		CategoryID:     dto.CategoryID,
		Amount:         dto.Amount,
		AlertThreshold: dto.AlertThreshold,
		IsActive:       dto.IsActive,
	}
	if dto.Period != nil {
		p := Period(*dto.Period)
		patch.Period = &p
	}
	if dto.StartDate != nil {
		start, err := time.Parse(dateLayout, *dto.StartDate)
		if err != nil {
			return Patch{}, errors.New("startDate must be YYYY-MM-DD")
		}
		patch.StartDate = &start
	}
	if dto.EndDate != nil {
		end, err := time.Parse(dateLayout, *dto.EndDate)
		if err != nil {
			return Patch{}, errors.New("endDate must be YYYY-MM-DD")
		}
		patch.EndDate = &end
	}
	return patch, nil
}

func toDTO(b Budget) BudgetDTO {
	return BudgetDTO{
		ID:             b.ID,
		CategoryID:     b.CategoryID,
		CategoryName:   b.CategoryName,
		Amount:         b.Amount,
		Spent:          b.Spent,
		Period:         string(b.Period),
		StartDate:      b.StartDate.Format(dateLayout),
		EndDate:        b.EndDate.Format(dateLayout),
		AlertThreshold: b.AlertThreshold,
		IsActive:       b.IsActive,
		CreatedAt:      b.CreatedAt,
	}
}
