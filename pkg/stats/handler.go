package stats

import (
	"encoding/json"
	"net/http"

	"github.com/finbook/finbook/internal/rest"
)

type SummaryDTO struct {
	TotalIncome       float64            `json:"totalIncome"`
	TotalExpenses     float64            `json:"totalExpenses"`
	Balance           float64            `json:"balance"`
	MonthlyIncome     float64            `json:"monthlyIncome"`
	MonthlyExpenses   float64            `json:"monthlyExpenses"`
	CategoryBreakdown []CategoryTotalDTO `json:"categoryBreakdown"`
}

type CategoryTotalDTO struct {
	CategoryID   string  `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	Type         string  `json:"type"`
	Total        float64 `json:"total"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	dto := SummaryDTO{
		TotalIncome:       summary.TotalIncome,
		TotalExpenses:     summary.TotalExpenses,
		Balance:           summary.Balance,
		MonthlyIncome:     summary.MonthlyIncome,
		MonthlyExpenses:   summary.MonthlyExpenses,
		CategoryBreakdown: make([]CategoryTotalDTO, 0, len(summary.CategoryBreakdown)),
	}
	for _, ct := range summary.CategoryBreakdown {
		dto.CategoryBreakdown = append(dto.CategoryBreakdown, CategoryTotalDTO{
			CategoryID:   ct.CategoryID,
			CategoryName: ct.CategoryName,
			Type:         string(ct.Type),
			Total:        ct.Total,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
