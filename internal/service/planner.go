package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/scadenziario/internal/cache"
	"github.com/Veraticus/scadenziario/internal/common"
	"github.com/Veraticus/scadenziario/internal/model"
	"github.com/Veraticus/scadenziario/internal/recurrence"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ResultCache memoizes analysis results by input digest.
type ResultCache interface {
	Get(key string) (recurrence.Result, bool, error)
	Put(key string, result recurrence.Result) error
}

// Analysis is the outcome of analyzing one company.
type Analysis struct {
	Company string            `json:"company"`
	Result  recurrence.Result `json:"result"`
	Cached  bool              `json:"cached"`
}

// Planner loads a company's history from storage, runs the detector and
// persists the suggestions the user accepts.
type Planner struct {
	storage     Storage
	cache       ResultCache
	detector    *recurrence.Detector
	now         func() time.Time
	newID       func() string
	concurrency int
}

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// WithCache enables memoization of analysis results.
func WithCache(c ResultCache) PlannerOption {
	return func(p *Planner) { p.cache = c }
}

// WithDetector replaces the default detector, e.g. to add configured rules.
func WithDetector(d *recurrence.Detector) PlannerOption {
	return func(p *Planner) { p.detector = d }
}

// WithConcurrency bounds how many companies are analyzed at once.
func WithConcurrency(n int) PlannerOption {
	return func(p *Planner) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithClock overrides the time source used for accepted deadlines.
func WithClock(now func() time.Time) PlannerOption {
	return func(p *Planner) { p.now = now }
}

// WithIDGenerator overrides how accepted deadline IDs are generated.
func WithIDGenerator(newID func() string) PlannerOption {
	return func(p *Planner) { p.newID = newID }
}

// NewPlanner creates a planner backed by storage.
func NewPlanner(storage Storage, opts ...PlannerOption) *Planner {
	p := &Planner{
		storage:     storage,
		detector:    recurrence.NewDetector(),
		now:         time.Now,
		newID:       uuid.NewString,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Analyze suggests deadlines for one company.
func (p *Planner) Analyze(ctx context.Context, company string) (Analysis, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return Analysis{}, fmt.Errorf("%w: empty company", common.ErrUnknownCompany)
	}

	transactions, err := p.storage.GetTransactions(ctx, TransactionFilter{Company: company})
	if err != nil {
		return Analysis{}, fmt.Errorf("failed to load transactions for %s: %w", company, err)
	}

	deadlines, err := p.storage.GetDeadlines(ctx, DeadlineFilter{Company: company})
	if err != nil {
		return Analysis{}, fmt.Errorf("failed to load deadlines for %s: %w", company, err)
	}

	key := p.cacheKey(company, transactions, deadlines)
	if key != "" {
		result, ok, getErr := p.cache.Get(key)
		if getErr != nil {
			slog.Warn("Cache lookup failed", "company", company, "error", getErr)
		}
		if ok {
			slog.Debug("Using cached analysis", "company", company)
			return Analysis{Company: company, Result: result, Cached: true}, nil
		}
	}

	result := p.detector.SuggestDeadlines(transactions, deadlines)

	for _, r := range result.Rejected {
		common.LogDebug("Skipped malformed movement", common.Fields{
			"company":        company,
			"transaction_id": r.TransactionID,
			"reason":         string(r.Reason),
		})
	}
	slog.Info("Analysis complete",
		"company", company,
		"transactions", len(transactions),
		"groups", result.GroupsConsidered,
		"suggestions", len(result.Suggestions),
		"skipped", len(result.Rejected))

	if key != "" {
		if putErr := p.cache.Put(key, result); putErr != nil {
			slog.Warn("Cache store failed", "company", company, "error", putErr)
		}
	}

	return Analysis{Company: company, Result: result}, nil
}

// AnalyzeCompanies analyzes several companies concurrently. Results follow
// the order of companies.
func (p *Planner) AnalyzeCompanies(ctx context.Context, companies []string) ([]Analysis, error) {
	analyses := make([]Analysis, len(companies))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, company := range companies {
		g.Go(func() error {
			a, err := p.Analyze(gctx, company)
			if err != nil {
				return err
			}
			analyses[i] = a
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return analyses, nil
}

// Companies returns the company codes to analyze: configured ones first,
// then any others found in storage.
func (p *Planner) Companies(ctx context.Context, configured []string) ([]string, error) {
	stored, err := p.storage.GetCompanies(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(configured)+len(stored))
	var companies []string
	for _, c := range append(append([]string(nil), configured...), stored...) {
		if c = strings.TrimSpace(c); c != "" && !seen[c] {
			seen[c] = true
			companies = append(companies, c)
		}
	}
	return companies, nil
}

// Accept persists a suggestion as an open deadline. It fails with
// common.ErrDuplicateEntry when an active deadline already tracks it.
func (p *Planner) Accept(ctx context.Context, suggestion model.DeadlineSuggestion) (*model.Deadline, error) {
	existing, err := p.storage.GetDeadlines(ctx, DeadlineFilter{Company: strings.TrimSpace(suggestion.Company)})
	if err != nil {
		return nil, fmt.Errorf("failed to load deadlines for %s: %w", suggestion.Company, err)
	}
	if err := checkTracked(existing, suggestion); err != nil {
		return nil, err
	}

	deadline := suggestion.ToDeadline(p.newID(), p.now().UTC())
	if err := p.storage.SaveDeadline(ctx, &deadline); err != nil {
		return nil, fmt.Errorf("failed to accept suggestion %q: %w", suggestion.Description, err)
	}

	slog.Info("Accepted suggestion",
		"company", deadline.Company,
		"deadline_id", deadline.ID,
		"recurrence", deadline.Recurrence,
		"due_date", deadline.DueDate)
	return &deadline, nil
}

// AcceptAll persists several suggestions atomically.
func (p *Planner) AcceptAll(ctx context.Context, suggestions []model.DeadlineSuggestion) ([]model.Deadline, error) {
	if len(suggestions) == 0 {
		return nil, nil
	}

	existing := map[string][]model.Deadline{}
	for _, s := range suggestions {
		company := strings.TrimSpace(s.Company)
		if _, ok := existing[company]; ok {
			continue
		}
		stored, err := p.storage.GetDeadlines(ctx, DeadlineFilter{Company: company})
		if err != nil {
			return nil, fmt.Errorf("failed to load deadlines for %s: %w", company, err)
		}
		existing[company] = stored
	}

	tx, err := p.storage.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	now := p.now().UTC()
	deadlines := make([]model.Deadline, 0, len(suggestions))
	for _, s := range suggestions {
		company := strings.TrimSpace(s.Company)
		if err := checkTracked(existing[company], s); err != nil {
			return nil, err
		}
		deadline := s.ToDeadline(p.newID(), now)
		if err := tx.SaveDeadline(ctx, &deadline); err != nil {
			return nil, fmt.Errorf("failed to accept suggestion %q: %w", s.Description, err)
		}
		deadlines = append(deadlines, deadline)
		existing[company] = append(existing[company], deadline)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit accepted suggestions: %w", err)
	}

	slog.Info("Accepted suggestions", "count", len(deadlines))
	return deadlines, nil
}

func checkTracked(existing []model.Deadline, s model.DeadlineSuggestion) error {
	if recurrence.IsTracked(existing, s.Company, s.Description, s.Recurrence) {
		return fmt.Errorf("%w: %s already has an active %s deadline for %q",
			common.ErrDuplicateEntry, s.Company, s.Recurrence, s.Description)
	}
	return nil
}

func (p *Planner) cacheKey(company string, transactions []model.Transaction, deadlines []model.Deadline) string {
	if p.cache == nil {
		return ""
	}
	key, err := cache.Key(p.detector.Fingerprint(), company, transactions, deadlines)
	if err != nil {
		slog.Warn("Cache key unavailable", "company", company, "error", err)
		return ""
	}
	return key
}
