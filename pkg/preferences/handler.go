package preferences

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/finbook/finbook/internal/rest"
)

type PreferencesDTO struct {
	Currency string `json:"currency"`
	Theme    string `json:"theme"`
}

type updatePreferencesDTO struct {
	Currency *string `json:"currency"`
	Theme    *string `json:"theme"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context())
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toDTO(p)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var dto updatePreferencesDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch Patch
	if dto.Currency != nil {
		c := Currency(*dto.Currency)
		patch.Currency = &c
	}
	if dto.Theme != nil {
		t := Theme(*dto.Theme)
		patch.Theme = &t
	}

	updated, err := h.service.Update(r.Context(), patch)
	if errors.Is(err, ErrInvalidCurrency) || errors.Is(err, ErrInvalidTheme) {
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

func toDTO(p Preferences) PreferencesDTO {
	return PreferencesDTO{
		Currency: string(p.Currency),
		Theme:    string(p.Theme),
	}
}
