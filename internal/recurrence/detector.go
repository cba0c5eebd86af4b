package recurrence

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/scadenziario/internal/model"
)

// RejectionReason explains why a movement was left out of the analysis.
type RejectionReason string

// Rejection reasons for malformed movements.
const (
	RejectMissingDate        RejectionReason = "missing_date"
	RejectInvalidDate        RejectionReason = "invalid_date"
	RejectMissingDescription RejectionReason = "missing_description"
)

// Rejection identifies a malformed movement skipped by the analysis.
type Rejection struct {
	TransactionID string          `json:"transaction_id"`
	Reason        RejectionReason `json:"reason"`
	Index         int             `json:"index"`
}

// Result is the outcome of one analysis run.
type Result struct {
	Suggestions      []model.DeadlineSuggestion `json:"suggestions"`
	Rejected         []Rejection                `json:"rejected,omitempty"`
	GroupsConsidered int                        `json:"groups_considered"`
}

// Version identifies the detection thresholds and scoring. Bump it whenever
// they change so that memoized results are discarded.
const Version = "1"

// Detector turns payment history into deadline suggestions. It is immutable
// after construction and safe for concurrent use.
type Detector struct {
	rules       []compiledRule
	fingerprint string
}

// Option configures a Detector.
type Option func(*[]KeywordRule)

// WithExtraRules appends rules after the built-in table, so they only apply
// to descriptions no built-in rule recognizes.
func WithExtraRules(rules ...KeywordRule) Option {
	return func(table *[]KeywordRule) {
		*table = append(*table, rules...)
	}
}

// WithRules replaces the built-in table.
func WithRules(rules []KeywordRule) Option {
	return func(table *[]KeywordRule) {
		*table = append([]KeywordRule(nil), rules...)
	}
}

// NewDetector creates a detector using the default rule table.
func NewDetector(opts ...Option) *Detector {
	table := DefaultRules()
	for _, opt := range opts {
		opt(&table)
	}
	return &Detector{rules: compileRules(table), fingerprint: fingerprint(table)}
}

// Fingerprint identifies the detector version and rule table, so two
// detectors with equal fingerprints produce equal results.
func (d *Detector) Fingerprint() string {
	return d.fingerprint
}

func fingerprint(table []KeywordRule) string {
	h := sha256.New()
	h.Write([]byte(Version))
	// KeywordRule holds only strings, so marshaling cannot fail.
	data, _ := json.Marshal(table)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

var defaultDetector = NewDetector()

// SuggestDeadlines runs the default detector.
func SuggestDeadlines(transactions []model.Transaction, existing []model.Deadline) Result {
	return defaultDetector.SuggestDeadlines(transactions, existing)
}

// Classify returns the category the rule table assigns to a description.
func (d *Detector) Classify(description string) Classification {
	return classify(d.rules, Normalize(description))
}

// payment is a sanitized outgoing movement.
type payment struct {
	date time.Time
	tx   model.Transaction
}

type groupKey struct {
	company    string
	normalized string
}

type paymentGroup struct {
	key      groupKey
	payments []payment
}

type dedupKey struct {
	company    string
	normalized string
	recurrence model.Recurrence
}

// SuggestDeadlines infers recurring deadlines from transactions, skipping
// groups already tracked by a non-cancelled deadline. Suggestions are ordered
// by confidence tier; suggestions of equal tier keep the order in which their
// group first appeared in transactions. Inputs are never modified.
func (d *Detector) SuggestDeadlines(transactions []model.Transaction, existing []model.Deadline) Result {
	result := Result{Suggestions: []model.DeadlineSuggestion{}}

	groups, rejected := groupPayments(transactions)
	result.Rejected = rejected

	tracked := trackedDeadlines(existing)

	for _, g := range groups {
		if len(g.payments) < MinOccurrences {
			continue
		}
		result.GroupsConsidered++

		suggestion, ok := d.analyzeGroup(g)
		if !ok {
			continue
		}

		if _, dup := tracked[dedupKey{g.key.company, g.key.normalized, suggestion.Recurrence}]; dup {
			continue
		}

		result.Suggestions = append(result.Suggestions, suggestion)
	}

	sort.SliceStable(result.Suggestions, func(i, j int) bool {
		return result.Suggestions[i].Confidence.Rank() > result.Suggestions[j].Confidence.Rank()
	})

	return result
}

// groupPayments sanitizes outgoing movements and groups them by company and
// normalized description, in order of first appearance.
func groupPayments(transactions []model.Transaction) ([]*paymentGroup, []Rejection) {
	var (
		order    []*paymentGroup
		rejected []Rejection
	)
	index := make(map[groupKey]*paymentGroup)

	for i, tx := range transactions {
		if !(tx.Outflow > 0) || math.IsInf(tx.Outflow, 0) {
			continue
		}

		if strings.TrimSpace(tx.Date) == "" {
			rejected = append(rejected, Rejection{TransactionID: tx.ID, Index: i, Reason: RejectMissingDate})
			continue
		}
		date, err := model.ParseDate(tx.Date)
		if err != nil {
			rejected = append(rejected, Rejection{TransactionID: tx.ID, Index: i, Reason: RejectInvalidDate})
			continue
		}

		normalized := Normalize(tx.Description)
		if normalized == "" {
			rejected = append(rejected, Rejection{TransactionID: tx.ID, Index: i, Reason: RejectMissingDescription})
			continue
		}

		key := groupKey{company: strings.TrimSpace(tx.Company), normalized: normalized}
		g, ok := index[key]
		if !ok {
			g = &paymentGroup{key: key}
			index[key] = g
			order = append(order, g)
		}
		g.payments = append(g.payments, payment{date: date, tx: tx})
	}

	return order, rejected
}

// IsTracked reports whether a non-cancelled deadline in existing already
// covers the company, description and recurrence, using the same matching
// the detector applies to its own suggestions.
func IsTracked(existing []model.Deadline, company, description string, recurrence model.Recurrence) bool {
	normalized := Normalize(description)
	if normalized == "" {
		return false
	}
	_, ok := trackedDeadlines(existing)[dedupKey{strings.TrimSpace(company), normalized, recurrence}]
	return ok
}

func trackedDeadlines(existing []model.Deadline) map[dedupKey]struct{} {
	tracked := make(map[dedupKey]struct{}, len(existing))
	for _, dl := range existing {
		if dl.IsCancelled() {
			continue
		}
		normalized := Normalize(dl.Description)
		if normalized == "" {
			continue
		}
		tracked[dedupKey{strings.TrimSpace(dl.Company), normalized, dl.Recurrence}] = struct{}{}
	}
	return tracked
}

func (d *Detector) analyzeGroup(g *paymentGroup) (model.DeadlineSuggestion, bool) {
	payments := g.payments
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].date.Before(payments[j].date)
	})

	dates := make([]time.Time, len(payments))
	amounts := make([]float64, len(payments))
	sources := make([]model.SourceRef, len(payments))
	for i, p := range payments {
		dates[i] = p.date
		amounts[i] = p.tx.Outflow
		sources[i] = model.SourceRef{
			ID:     p.tx.ID,
			Date:   p.date.Format(model.DateLayout),
			Amount: p.tx.Outflow,
		}
	}

	periodicity, ok := AnalyzePeriodicity(dates)
	if !ok {
		return model.DeadlineSuggestion{}, false
	}

	stats := AnalyzeAmounts(amounts)
	class := classify(d.rules, g.key.normalized)
	score := scoreCandidate(periodicity, stats, class, len(payments)).Total()

	last := payments[len(payments)-1]

	return model.DeadlineSuggestion{
		Company:         g.key.company,
		Description:     cleanDescription(last.tx.Description),
		NormalizedKey:   g.key.normalized,
		Category:        class.Category,
		Subcategory:     class.Subcategory,
		Recurrence:      periodicity.Recurrence,
		Amount:          roundCents(stats.Mean),
		Confidence:      Tier(score),
		Score:           score,
		Reason:          buildReason(len(payments), periodicity.Recurrence, stats, class),
		Occurrences:     len(payments),
		AmountStable:    stats.Stable,
		LastPaymentDate: last.date.Format(model.DateLayout),
		NextDueDate:     addMonths(last.date, periodicity.Recurrence.Months()).Format(model.DateLayout),
		Sources:         sources,
	}, true
}
