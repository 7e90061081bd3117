// Package export renders per-category text reports of the menu, one file
// per category, in the fixed-width price-list layout used for printing.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/taperia-pos/api/internal/menu"
)

// nameWidth is the column width shared by the product name and the price
// text; the gap between them is filled with dots, never fewer than two.
const nameWidth = 50

var ErrNoMenu = errors.New("no menu data to export")

// CategoryReport renders one category: a title line, an "=" underline of
// the same length, a blank line, then one line per distinct product with
// its unique prices highest-first joined by " / ".
func CategoryReport(cat menu.Category) string {
	var b strings.Builder

	b.WriteString(cat.Name)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("=", utf8.RuneCountInString(cat.Name)))
	b.WriteString("\n\n")

	for _, group := range menu.ResolveVariants(cat) {
		prices := group.UniquePricesDesc()
		parts := make([]string, len(prices))
		for i, p := range prices {
			parts[i] = menu.FormatPrice(p)
		}
		priceStr := strings.Join(parts, " / ")

		pad := nameWidth - utf8.RuneCountInString(group.Name) - utf8.RuneCountInString(priceStr)
		if pad < 2 {
			pad = 2
		}
		fmt.Fprintf(&b, "%s %s %s\n", group.Name, strings.Repeat(".", pad), priceStr)
	}

	return b.String()
}

// WriteReports writes one "<category>.txt" per category into dir, creating
// it if needed, and returns how many files were written.
func WriteReports(m *menu.Menu, dir string) (int, error) {
	if m == nil || len(m.Categories) == 0 {
		return 0, ErrNoMenu
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create export dir: %w", err)
	}

	count := 0
	for _, cat := range m.Categories {
		path := filepath.Join(dir, cat.Name+".txt")
		if err := os.WriteFile(path, []byte(CategoryReport(cat)), 0o644); err != nil {
			return count, fmt.Errorf("write %s: %w", path, err)
		}
		count++
	}
	return count, nil
}
