package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"artefacthub/internal/search"
	"artefacthub/pkg/utils"
)

// search-cli runs one search against a provider adapter directly, without
// the HTTP server. Handy for smoke-testing upstream connectivity and the
// normalization layer.
func main() {
	provider := flag.String("provider", "europeana", "provider id (see -list)")
	query := flag.String("query", "", "search term")
	page := flag.Int("page", 1, "1-based page")
	limit := flag.Int("limit", 10, "page size hint (clamped per provider)")
	list := flag.Bool("list", false, "list available providers and exit")
	flag.Parse()

	cfg := utils.Load()
	registry := search.NewRegistry(true,
		search.NewEuropeana(cfg.EuropeanaAPIKey),
		search.NewOxford(),
		search.NewFitzwilliam(),
		search.NewNatmus(),
		search.NewFinna(),
		search.NewDigitaltMuseum(cfg.DigitaltMuseumAPIKey),
		search.NewSOCH(cfg.SOCHAPIKey),
	)

	if *list {
		for _, name := range registry.Names() {
			fmt.Printf("%-26s %s\n", name, search.FormatProviderName(name))
		}
		return
	}

	adapter, ok := registry.Lookup(*provider)
	if !ok {
		log.Fatalf("unknown provider %q", *provider)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	res, err := adapter.Search(ctx, search.Request{
		Query: *query,
		Page:  *page,
		Limit: *limit,
	})
	if err != nil {
		log.Printf("search failed: %v", err)
		os.Exit(1)
	}

	p := res.Pagination
	fmt.Printf("page %d/%d, %d items total (limit %d)\n\n",
		p.CurrentPage, p.TotalPages, p.TotalItems, p.Limit)

	for i, item := range res.Items {
		fmt.Printf("%2d. %s\n", i+1, item.Title)
		if item.Author != "" {
			fmt.Printf("    author:   %s\n", item.Author)
		}
		if item.Provider != "" {
			fmt.Printf("    provider: %s\n", item.Provider)
		}
		fmt.Printf("    source:   %s\n", item.Source)
	}
}
