package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/finbook/finbook/internal/rest"
	"github.com/finbook/finbook/pkg/category"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type TransactionDTO struct {
	ID               string    `json:"id"`
	Amount           float64   `json:"amount"`
	Type             string    `json:"type"`
	CategoryID       string    `json:"categoryId"`
	CategoryName     string    `json:"categoryName,omitempty"`
	Description      string    `json:"description"`
	Date             string    `json:"date"`
	IsRecurring      bool      `json:"isRecurring"`
	RecurringPeriod  string    `json:"recurringPeriod,omitempty"`
	RecurringEndDate string    `json:"recurringEndDate,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

type updateTransactionDTO struct {
	Amount           *float64 `json:"amount"`
	Type             *string  `json:"type"`
	CategoryID       *string  `json:"categoryId"`
	Description      *string  `json:"description"`
	Date             *string  `json:"date"`
	IsRecurring      *bool    `json:"isRecurring"`
	RecurringPeriod  *string  `json:"recurringPeriod"`
	RecurringEndDate *string  `json:"recurringEndDate"`
}

type pageDTO struct {
	Transactions []TransactionDTO `json:"transactions"`
	Total        int              `json:"total"`
	Page         int              `json:"page"`
	TotalPages   int              `json:"totalPages"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Recording new transaction")
	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if !category.ValidType(category.Type(dto.Type)) {
		rest.Error(w, http.StatusBadRequest, "Type must be 'income' or 'expense'")
		return
	}
	t, err := fromDTO(dto)
	if err != nil {
		rest.ErrorWithDetails(w, http.StatusBadRequest, "Invalid date format", "dates must be YYYY-MM-DD")
		return
	}

	created, err := h.service.Create(r.Context(), t)
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
	q := r.URL.Query()

	page, err := positiveIntParam(q.Get("page"), 1)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	pageSize, err := positiveIntParam(q.Get("limit"), 20)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	filter := Filter{
		Type:       category.Type(q.Get("type")),
		CategoryID: q.Get("categoryId"),
	}
	if filter.Type != "" && !category.ValidType(filter.Type) {
		rest.Error(w, http.StatusBadRequest, "Type must be 'income' or 'expense'")
		return
	}
	if v := q.Get("startDate"); v != "" {
		if filter.StartDate, err = time.Parse(dateLayout, v); err != nil {
			rest.ErrorWithDetails(w, http.StatusBadRequest, "Invalid startDate format", "dates must be YYYY-MM-DD")
			return
		}
	}
	if v := q.Get("endDate"); v != "" {
		if filter.EndDate, err = time.Parse(dateLayout, v); err != nil {
			rest.ErrorWithDetails(w, http.StatusBadRequest, "Invalid endDate format", "dates must be YYYY-MM-DD")
			return
		}
	}

	result, err := h.service.List(r.Context(), filter, page, pageSize)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	dtos := make([]TransactionDTO, 0, len(result.Transactions))
	for _, t := range result.Transactions {
		dtos = append(dtos, toDTO(t))
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(pageDTO{
		Transactions: dtos,
		Total:        result.Total,
		Page:         result.Page,
		TotalPages:   result.TotalPages,
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, ErrNotFound) {
		rest.Error(w, http.StatusNotFound, "Transaction not found")
		return
	}
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toDTO(t)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var dto updateTransactionDTO
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
		rest.Error(w, http.StatusNotFound, "Transaction not found")
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
		rest.Error(w, http.StatusNotFound, "Transaction not found")
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
		errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, ErrRecurringMismatch) ||
		errors.Is(err, ErrInvalidRecurring) ||
		errors.Is(err, ErrInvalidDateMissing)
}

func positiveIntParam(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, errors.New("not a positive integer")
	}
	return n, nil
}

func fromDTO(dto TransactionDTO) (Transaction, error) {
	t := Transaction{
		Amount:          dto.Amount,
		Type:            category.Type(dto.Type),
		CategoryID:      dto.CategoryID,
		Description:     dto.Description,
		IsRecurring:     dto.IsRecurring,
		RecurringPeriod: RecurringPeriod(dto.RecurringPeriod),
	}
	if dto.Date != "" {
		date, err := time.Parse(dateLayout, dto.Date)
		if err != nil {
			return Transaction{}, err
		}
		t.Date = date
	}
	if dto.RecurringEndDate != "" {
		end, err := time.Parse(dateLayout, dto.RecurringEndDate)
		if err != nil {
			return Transaction{}, err
		}
		t.RecurringEndDate = end
	}
	return t, nil
}

func patchFromDTO(dto updateTransactionDTO) (Patch, error) {
	patch := Patch{
		Amount:      dto.Amount,
		Description: dto.Description,
		IsRecurring: dto.IsRecurring,
		CategoryID:  dto.CategoryID,
	}
	if dto.Type != nil {
		t := category.Type(*dto.Type)
		if !category.ValidType(t) {
			return Patch{}, errors.New("type must be 'income' or 'expense'")
		}
		patch.Type = &t
	}
	if dto.RecurringPeriod != nil {
		p := RecurringPeriod(*dto.RecurringPeriod)
		patch.RecurringPeriod = &p
	}
	if dto.Date != nil {
		date, err := time.Parse(dateLayout, *dto.Date)
		if err != nil {
			return Patch{}, errors.New("date must be YYYY-MM-DD")
		}
		patch.Date = &date
	}
	if dto.RecurringEndDate != nil {
		end, err := time.Parse(dateLayout, *dto.RecurringEndDate)
		if err != nil {
			return Patch{}, errors.New("recurringEndDate must be YYYY-MM-DD")
		}
		patch.RecurringEndDate = &end
	}
	return patch, nil
}

func toDTO(t Transaction) TransactionDTO {
	dto := TransactionDTO{
		ID:              t.ID,
		Amount:          t.Amount,
		Type:            string(t.Type),
		CategoryID:      t.CategoryID,
		CategoryName:    t.CategoryName,
		Description:     t.Description,
		Date:            t.Date.Format(dateLayout),
		IsRecurring:     t.IsRecurring,
		RecurringPeriod: string(t.RecurringPeriod),
		CreatedAt:       t.CreatedAt,
	}
	if !t.RecurringEndDate.IsZero() {
		dto.RecurringEndDate = t.RecurringEndDate.Format(dateLayout)
	}
	return dto
}
