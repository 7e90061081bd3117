package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taperia-pos/api/internal/export"
	"github.com/taperia-pos/api/internal/menu"
)

// ExportHandler serves the per-category text reports.
type ExportHandler struct {
	menu *menu.Menu
}

func NewExportHandler(m *menu.Menu) *ExportHandler {
	return &ExportHandler{menu: m}
}

func (h *ExportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/export", h.Export)
}

type categoryReport struct {
	Category string `json:"category"`
	Report   string `json:"report"`
}

// Export returns every category's report. With no menu loaded there is
// nothing to export.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h.menu == nil || len(h.menu.Categories) == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no menu data to export"})
		return
	}

	reports := make([]categoryReport, len(h.menu.Categories))
	for i, cat := range h.menu.Categories {
		reports[i] = categoryReport{Category: cat.Name, Report: export.CategoryReport(cat)}
	}

	writeJSON(w, http.StatusOK, reports)
}
