// Package main prints a summary of the catalog stored in any backend.
//
//	go run ./cmd/dbinspect --store badger --data-path ./data/badger
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/readingclub/readingclub-server/internal/config"
	"github.com/readingclub/readingclub-server/internal/di/providers"
	"github.com/readingclub/readingclub-server/internal/domain"
	"github.com/readingclub/readingclub-server/internal/logger"
	"github.com/readingclub/readingclub-server/internal/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dbinspect: %v\n", err)
		os.Exit(1)
	}

	log := logger.Discard()
	backend, err := providers.OpenBackend(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dbinspect: open backend: %v\n", err)
		os.Exit(1)
	}
	st := store.New(backend, log.Logger, store.NewNoopEmitter())
	defer st.Close()

	catalog, err := st.Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "dbinspect: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Catalog Inspection ===")
	fmt.Printf("Backend: %s\n", cfg.Store.Backend)
	fmt.Printf("Path:    %s\n", cfg.Store.DataPath)
	fmt.Println()

	stats := catalog.Stats()
	fmt.Printf("Books: %d  Reviews: %d  Comments: %d  Votes: %d\n",
		stats.Books, stats.Reviews, stats.Comments, stats.Votes)
	fmt.Println()

	byStatus := make(map[domain.Status]int)
	byCategory := make(map[string]int)
	for _, b := range catalog.Books {
		byStatus[b.Status]++
		byCategory[b.Category]++
	}

	fmt.Println("By status:")
	for _, s := range []domain.Status{domain.StatusCandidate, domain.StatusReading, domain.StatusFinished} {
		fmt.Printf("  %-10s %d\n", s, byStatus[s])
	}
	fmt.Println()

	fmt.Println("By category:")
	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		fmt.Printf("  %-20s %d\n", c, byCategory[c])
	}
	fmt.Println()

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tSTATUS\tVOTES\tREVIEWS")
	for _, b := range catalog.Books {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n",
			b.ID, b.Title, b.Author, b.Status, b.Votes.Count(), len(b.Reviews))
	}
	_ = tw.Flush()
}
