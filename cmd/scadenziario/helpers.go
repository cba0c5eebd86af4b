package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Veraticus/scadenziario/internal/cache"
	"github.com/Veraticus/scadenziario/internal/common"
	"github.com/Veraticus/scadenziario/internal/config"
	"github.com/Veraticus/scadenziario/internal/importer"
	"github.com/Veraticus/scadenziario/internal/recurrence"
	"github.com/Veraticus/scadenziario/internal/service"
	"github.com/Veraticus/scadenziario/internal/storage"
)

// initStorage opens the configured database and brings its schema up to date.
func (a *app) initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(a.settings.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initPlanner builds a planner with the configured keyword rules and, when
// enabled, the analysis cache. The returned cleanup closes the cache.
func (a *app) initPlanner(ctx context.Context, store service.Storage, useCache bool) (*service.Planner, func(), error) {
	rules, err := config.LoadRules(a.v)
	if err != nil {
		return nil, nil, common.NewUserError("Regole di classificazione non valide", err)
	}

	opts := []service.PlannerOption{
		service.WithDetector(recurrence.NewDetector(recurrence.WithExtraRules(rules...))),
	}
	cleanup := func() {}

	if useCache && a.settings.CacheEnabled {
		c, cacheErr := cache.Open(ctx, a.settings.CachePath, a.settings.CacheTTL)
		switch {
		case errors.Is(cacheErr, common.ErrCacheUnavailable):
			slog.Warn("Analysis cache unavailable, continuing without it", "path", a.settings.CachePath, "error", cacheErr)
		case cacheErr != nil:
			return nil, nil, cacheErr
		default:
			opts = append(opts, service.WithCache(c))
			cleanup = func() {
				if closeErr := c.Close(); closeErr != nil {
					slog.Warn("Failed to close analysis cache", "error", closeErr)
				}
			}
		}
	}

	return service.NewPlanner(store, opts...), cleanup, nil
}

// resolveCompanies returns the requested companies, or every known one when
// none is requested.
func (a *app) resolveCompanies(ctx context.Context, planner *service.Planner, requested []string) ([]string, error) {
	known, err := planner.Companies(ctx, a.settings.Companies)
	if err != nil {
		return nil, err
	}

	if len(requested) == 0 {
		if len(known) == 0 {
			return nil, common.NewUserError("Nessuna società trovata: importa dei movimenti o configura companies", common.ErrNoTransactions)
		}
		return known, nil
	}

	companies := make([]string, 0, len(requested))
	for _, c := range requested {
		c = strings.TrimSpace(c)
		if !slices.Contains(known, c) {
			return nil, common.NewUserError(fmt.Sprintf("Società sconosciuta: %s", c), common.ErrUnknownCompany)
		}
		companies = append(companies, c)
	}
	return companies, nil
}

// expandFiles resolves glob patterns into the list of importable files.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, statErr := os.Stat(pattern); statErr != nil {
				slog.Warn("No files found matching pattern", "pattern", pattern)
				continue
			}
			matches = []string{pattern}
		}

		for _, m := range matches {
			if seen[m] {
				continue
			}
			if !importer.Supported(m) {
				slog.Warn("Skipping unsupported file", "file", m)
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}

	return files, nil
}
