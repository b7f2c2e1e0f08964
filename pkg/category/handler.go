package category

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/finbook/finbook/internal/rest"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type CategoryDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
}

type UsageStatDTO struct {
	CategoryDTO
	TransactionCount int     `json:"transactionCount"`
	TotalAmount      float64 `json:"totalAmount"`
}

type createCategoryDTO struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type updateCategoryDTO struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetAll(r.Context())
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeCategories(w, categories)
}

func (h *Handler) GetByType(w http.ResponseWriter, r *http.Request) {
	t := Type(mux.Vars(r)["type"])
	if !ValidType(t) {
		rest.ErrorWithDetails(w, http.StatusBadRequest, "Invalid category type", "type must be 'income' or 'expense'")
		return
	}

	categories, err := h.service.GetByType(r.Context(), t)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeCategories(w, categories)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, ErrNotFound) {
		rest.Error(w, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toDTO(c)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new category")
	var dto createCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateCreate(dto); msg != "" {
		rest.Error(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.service.Create(r.Context(), Category{
		Name:  dto.Name,
		Type:  Type(dto.Type),
		Color: dto.Color,
		Icon:  dto.Icon,
	})
	if errors.Is(err, ErrNameTaken) {
		rest.Error(w, http.StatusConflict, "Category with this name already exists for this type")
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

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var dto updateCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateUpdate(dto); msg != "" {
		rest.Error(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.service.Update(r.Context(), mux.Vars(r)["id"], Patch{
		Name:  dto.Name,
		Color: dto.Color,
		Icon:  dto.Icon,
	})
	switch {
	case errors.Is(err, ErrNotFound):
		rest.Error(w, http.StatusNotFound, "Category not found")
		return
	case errors.Is(err, ErrDefaultImmutable):
		rest.Error(w, http.StatusForbidden, "Cannot update default categories")
		return
	case errors.Is(err, ErrNameTaken):
		rest.Error(w, http.StatusConflict, "Category with this name already exists for this type")
		return
	case err != nil:
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
	switch {
	case errors.Is(err, ErrNotFound):
		rest.Error(w, http.StatusNotFound, "Category not found")
		return
	case errors.Is(err, ErrDefaultImmutable):
		rest.Error(w, http.StatusForbidden, "Cannot delete default categories")
		return
	case errors.Is(err, ErrCategoryInUse):
		rest.Error(w, http.StatusConflict, "Category is still used by transactions")
		return
	case err != nil:
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UsageStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.UsageStats(r.Context())
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	dtos := make([]UsageStatDTO, 0, len(stats))
	for _, s := range stats {
		dtos = append(dtos, UsageStatDTO{
			CategoryDTO:      toDTO(s.Category),
			TransactionCount: s.TransactionCount,
			TotalAmount:      s.TotalAmount,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func validateCreate(dto createCategoryDTO) string {
	if dto.Name == "" || len(dto.Name) > 100 {
		return "Name is required and must be at most 100 characters"
	}
	if !ValidType(Type(dto.Type)) {
		return "Type must be 'income' or 'expense'"
	}
	if !colorPattern.MatchString(dto.Color) {
		return "Color must be a 6-digit hex value like #10b981"
	}
	if dto.Icon == "" || len(dto.Icon) > 50 {
		return "Icon is required and must be at most 50 characters"
	}
	return ""
}

func validateUpdate(dto updateCategoryDTO) string {
	if dto.Name != nil && (*dto.Name == "" || len(*dto.Name) > 100) {
		return "Name must be between 1 and 100 characters"
	}
	if dto.Color != nil && !colorPattern.MatchString(*dto.Color) {
		return "Color must be a 6-digit hex value like #10b981"
	}
	if dto.Icon != nil && (*dto.Icon == "" || len(*dto.Icon) > 50) {
		return "Icon must be between 1 and 50 characters"
	}
	return ""
}

func writeCategories(w http.ResponseWriter, categories []Category) {
	dtos := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		dtos = append(dtos, toDTO(c))
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toDTO(c Category) CategoryDTO {
	return CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Type),
		Color:     c.Color,
		Icon:      c.Icon,
		IsDefault: c.IsDefault,
		CreatedAt: c.CreatedAt,
	}
}
