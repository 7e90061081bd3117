package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/taperia-pos/api/internal/menu"
)

func newMenuServer(t *testing.T, m *menu.Menu) *httptest.Server {
	t.Helper()

	r := chi.NewRouter()
	r.Route("/menu", func(r chi.Router) {
		NewMenuHandler(m).RegisterRoutes(r)
		NewExportHandler(m).RegisterRoutes(r)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestListCategories(t *testing.T) {
	srv := newMenuServer(t, testMenu())

	resp, err := http.Get(srv.URL + "/menu/categories")
	if err != nil {
		t.Fatalf("get categories: %v", err)
	}
	defer resp.Body.Close()

	var names []string
	if err := json.NewDecoder(resp.Body).Decode(&names); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(names) != 2 || names[0] != "Bebidas" || names[1] != "Tapas" {
		t.Fatalf("names = %v", names)
	}
}

func TestListCategoriesWithoutMenu(t *testing.T) {
	srv := newMenuServer(t, nil)

	resp, err := http.Get(srv.URL + "/menu/categories")
	if err != nil {
		t.Fatalf("get categories: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var names []string
	if err := json.NewDecoder(resp.Body).Decode(&names); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("names = %v, want empty", names)
	}
}

func TestListProducts(t *testing.T) {
	srv := newMenuServer(t, testMenu())

	resp, err := http.Get(srv.URL + "/menu/categories/Bebidas/products")
	if err != nil {
		t.Fatalf("get products: %v", err)
	}
	defer resp.Body.Close()

	var cards []struct {
		Name         string `json:"name"`
		Product      string `json:"product"`
		PriceDisplay string `json:"price_display"`
		HasVariants  bool   `json:"has_variants"`
		Variants     []struct {
			Source string `json:"source"`
			Price  string `json:"price"`
		} `json:"variants"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&cards); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("cards = %d, want the category's direct items only", len(cards))
	}

	cana := cards[0]
	if cana.Product != "Caña" || !cana.HasVariants {
		t.Fatalf("card = %+v", cana)
	}
	if cana.PriceDisplay != "3.50€ - 4.00€" {
		t.Fatalf("price display = %q", cana.PriceDisplay)
	}
	if len(cana.Variants) != 2 || cana.Variants[0].Source != menu.SourceMain || cana.Variants[1].Source != "Doble" {
		t.Fatalf("variants = %+v", cana.Variants)
	}

	tinto := cards[1]
	if tinto.HasVariants || tinto.PriceDisplay != "2.80€" || len(tinto.Variants) != 0 {
		t.Fatalf("card = %+v", tinto)
	}
}

func TestListProductsUnknownCategory(t *testing.T) {
	srv := newMenuServer(t, testMenu())

	resp, err := http.Get(srv.URL + "/menu/categories/Postres/products")
	if err != nil {
		t.Fatalf("get products: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestExportReports(t *testing.T) {
	srv := newMenuServer(t, testMenu())

	resp, err := http.Get(srv.URL + "/menu/export")
	if err != nil {
		t.Fatalf("get export: %v", err)
	}
	defer resp.Body.Close()

	var reports []struct {
		Category string `json:"category"`
		Report   string `json:"report"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reports); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("reports = %d", len(reports))
	}
	if reports[0].Category != "Bebidas" || reports[0].Report == "" {
		t.Fatalf("report = %+v", reports[0])
	}
}

func TestExportWithoutMenu(t *testing.T) {
	srv := newMenuServer(t, nil)

	resp, err := http.Get(srv.URL + "/menu/export")
	if err != nil {
		t.Fatalf("get export: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}
