package goal

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/finbook/finbook/internal/rest"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type GoalDTO struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	TargetAmount  float64   `json:"targetAmount"`
	CurrentAmount float64   `json:"currentAmount"`
	TargetDate    string    `json:"targetDate"`
	Priority      string    `json:"priority"`
	IsCompleted   bool      `json:"isCompleted"`
	CreatedAt     time.Time `json:"createdAt"`
}

type createGoalDTO struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	TargetAmount float64 `json:"targetAmount"`
	TargetDate   string  `json:"targetDate"`
	Priority     string  `json:"priority"`
}

type updateGoalDTO struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	TargetAmount  *float64 `json:"targetAmount"`
	CurrentAmount *float64 `json:"currentAmount"`
	TargetDate    *string  `json:"targetDate"`
	Priority      *string  `json:"priority"`
}

type addProgressDTO struct {
	Amount float64 `json:"amount"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new goal")
	var dto createGoalDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	g := Goal{
		Title:        dto.Title,
		Description:  dto.Description,
		TargetAmount: dto.TargetAmount,
		Priority:     Priority(dto.Priority),
	}
	if dto.TargetDate != "" {
		targetDate, err := time.Parse(dateLayout, dto.TargetDate)
		if err != nil {
			rest.ErrorWithDetails(w, http.StatusBadRequest, "Invalid targetDate format", "dates must be YYYY-MM-DD")
			return
		}
		g.TargetDate = targetDate
	}

	created, err := h.service.Create(r.Context(), g)
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
	goals, err := h.service.List(r.Context())
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	dtos := make([]GoalDTO, 0, len(goals))
	for _, g := range goals {
		dtos = append(dtos, toDTO(g))
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, ErrNotFound) {
		rest.Error(w, http.StatusNotFound, "Goal not found")
		return
	}
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toDTO(g)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var dto updateGoalDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	patch := Patch{
		Title:         dto.Title,
		Description:   dto.Description,
		TargetAmount:  dto.TargetAmount,
		CurrentAmount: dto.CurrentAmount,
	}
	if dto.Priority != nil {
		p := Priority(*dto.Priority)
		patch.Priority = &p
	}
	if dto.TargetDate != nil {
		targetDate, err := time.Parse(dateLayout, *dto.TargetDate)
		if err != nil {
			rest.ErrorWithDetails(w, http.StatusBadRequest, "Invalid targetDate format", "dates must be YYYY-MM-DD")
			return
		}
		patch.TargetDate = &targetDate
	}

	updated, err := h.service.Update(r.Context(), mux.Vars(r)["id"], patch)
	if errors.Is(err, ErrNotFound) {
		rest.Error(w, http.StatusNotFound, "Goal not found")
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
		rest.Error(w, http.StatusNotFound, "Goal not found")
		return
	}
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddProgress(w http.ResponseWriter, r *http.Request) {
	var dto addProgressDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := h.service.AddProgress(r.Context(), mux.Vars(r)["id"], dto.Amount)
	if errors.Is(err, ErrNotFound) {
		rest.Error(w, http.StatusNotFound, "Goal not found")
		return
	}
	if errors.Is(err, ErrInvalidProgress) {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toDTO(g)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func isValidationErr(err error) bool {
	return errors.Is(err, ErrInvalidTitle) ||
		errors.Is(err, ErrInvalidTarget) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidPriority) ||
		errors.Is(err, ErrInvalidCurrent)
}

func toDTO(g Goal) GoalDTO {
	return GoalDTO{
		ID:            g.ID,
		Title:         g.Title,
		Description:   g.Description,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		TargetDate:    g.TargetDate.Format(dateLayout),
		Priority:      string(g.Priority),
		IsCompleted:   g.IsCompleted,
		CreatedAt:     g.CreatedAt,
	}
}
