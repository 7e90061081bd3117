// Command export writes one price-list text file per menu category, for
// printing or handing to the sign maker. It needs no server or database.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/taperia-pos/api/internal/config"
	"github.com/taperia-pos/api/internal/export"
	"github.com/taperia-pos/api/internal/menu"
)

func main() {
	cfg := config.Load()
	menuFile := flag.String("menu", cfg.MenuFile, "path to the menu JSON file")
	outDir := flag.String("out", cfg.ExportDir, "directory to write the category reports into")
	flag.Parse()

	m, err := menu.LoadFile(*menuFile)
	if err != nil {
		log.Fatalf("load menu: %v", err)
	}

	count, err := export.WriteReports(m, *outDir)
	if err != nil {
		log.Fatalf("export: %v", err)
	}

	fmt.Fprintf(os.Stdout, "wrote %d category files to %s\n", count, *outDir)
}
