package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

// Item is a single sellable catalog entry. Items are read-only once loaded;
// consumers reference them, they never mutate them.
type Item struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image,omitempty"`
}

// Subcategory groups items under a category (e.g. half/full portions).
type Subcategory struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Category is one tab of the menu: its own items plus optional subcategories.
type Category struct {
	Name          string        `json:"name"`
	Items         []Item        `json:"items"`
	Subcategories []Subcategory `json:"subcategories,omitempty"`
}

// Menu is the full catalog. A nil *Menu is a valid "not loaded yet" state;
// Categories and Category are safe on it.
type Menu struct {
	Categories []Category `json:"categories"`
}

func Parse(data []byte) (*Menu, error) {
	var m Menu
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse menu: %w", err)
	}
	return &m, nil
}

// LoadFile reads the catalog from a local JSON file.
func LoadFile(path string) (*Menu, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu file: %w", err)
	}
	return Parse(data)
}

// Fetch retrieves the catalog over HTTP.
func Fetch(ctx context.Context, url string) (*Menu, error) {
	client := &http.Client{Timeout: 10 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build menu request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch menu: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch menu: unexpected status %d", resp.StatusCode)
	}

	var m Menu
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}
	return &m, nil
}

// Load tries the remote URL first and falls back to the local file. Either
// source may be empty. An error from Load is not fatal to the caller: the
// server runs with an absent menu and browsing degrades to empty listings.
func Load(ctx context.Context, url, path string) (*Menu, error) {
	var fetchErr error
	if url != "" {
		m, err := Fetch(ctx, url)
		if err == nil {
			return m, nil
		}
		fetchErr = err
	}

	if path != "" {
		m, err := LoadFile(path)
		if err == nil {
			return m, nil
		}
		if fetchErr != nil {
			return nil, fmt.Errorf("%w; fallback: %w", fetchErr, err)
		}
		return nil, err
	}

	if fetchErr != nil {
		return nil, fetchErr
	}
	return nil, fmt.Errorf("no menu source configured")
}

// Category returns the named category, or false when the menu is absent or
// the name is unknown.
func (m *Menu) Category(name string) (Category, bool) {
	if m == nil {
		return Category{}, false
	}
	for _, c := range m.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryNames returns the category names in menu order. Nil-safe.
func (m *Menu) CategoryNames() []string {
	if m == nil {
		return nil
	}
	names := make([]string, len(m.Categories))
	for i, c := range m.Categories {
		names[i] = c.Name
	}
	return names
}
