package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taperia-pos/api/internal/menu"
)

// MenuHandler serves catalog browsing. The menu may be absent (load failed
// at startup); browsing then degrades to empty listings rather than errors.
type MenuHandler struct {
	menu *menu.Menu
}

func NewMenuHandler(m *menu.Menu) *MenuHandler {
	return &MenuHandler{menu: m}
}

func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/categories", h.ListCategories)
	r.Get("/categories/{name}/products", h.ListProducts)
}

// --- Response types ---

type variantOption struct {
	Source string `json:"source"`
	Price  string `json:"price"`
}

type productCard struct {
	Name         string          `json:"name"`
	Product      string          `json:"product"` // normalized name, the append key
	PriceDisplay string          `json:"price_display"`
	Image        string          `json:"image,omitempty"`
	HasVariants  bool            `json:"has_variants"`
	Variants     []variantOption `json:"variants,omitempty"`
}

func toVariantOptions(g menu.VariantGroup) []variantOption {
	opts := make([]variantOption, len(g.Variants))
	for i, v := range g.Variants {
		opts[i] = variantOption{Source: v.Source, Price: menu.FormatPrice(v.DisplayPrice)}
	}
	return opts
}

// --- Handlers ---

// ListCategories returns category names in menu order. An absent menu
// yields an empty list.
func (h *MenuHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	names := h.menu.CategoryNames()
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

// ListProducts returns one card per direct item of the category. A card
// whose product resolves to several variants carries them, so the client
// can run the selection flow before appending.
func (h *MenuHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.menu.Category(chi.URLParam(r, "name"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "category not found"})
		return
	}

	groups := menu.ResolveVariants(cat)

	cards := make([]productCard, 0, len(cat.Items))
	for _, item := range cat.Items {
		name := menu.NormalizeName(item.Name)
		group, _ := menu.Group(groups, name)

		card := productCard{
			Name:         item.Name,
			Product:      name,
			PriceDisplay: menu.FormatPrice(item.Price),
			Image:        item.Image,
			HasVariants:  group.Ambiguous(),
		}
		if group.Ambiguous() {
			card.PriceDisplay = group.DisplayPrice()
			card.Variants = toVariantOptions(group)
		}
		cards = append(cards, card)
	}

	writeJSON(w, http.StatusOK, cards)
}
