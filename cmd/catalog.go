package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/plan-advisor/internal/catalog"
	"github.com/sells-group/plan-advisor/internal/features"
)

var catalogJSON bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the product catalog with inferred features",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(cfg.Advisor.CatalogPath)
		if err != nil {
			return eris.Wrap(err, "load catalog")
		}
		return printCatalog(cmd.OutOrStdout(), cat, catalogJSON)
	},
}

func printCatalog(w io.Writer, cat *catalog.Catalog, asJSON bool) error {
	cache := features.NewCache()
	products := cat.Products()
	summaries := make([]features.Summary, len(products))
	for i, p := range products {
		summaries[i] = cache.Summarize(p)
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	for _, s := range summaries {
		if _, err := fmt.Fprintln(w, s.String()); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	catalogCmd.Flags().BoolVar(&catalogJSON, "json", false, "print JSON instead of one line per product")
	rootCmd.AddCommand(catalogCmd)
}
