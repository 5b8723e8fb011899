package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/planday-app/organizer_backend/internal/core/domain"
	portssvc "github.com/planday-app/organizer_backend/internal/core/ports/services"
	"github.com/planday-app/organizer_backend/internal/platform/config"
	"github.com/planday-app/organizer_backend/internal/utils/merchant"
	"github.com/shopspring/decimal"
)

// periodBand is an inclusive mean-gap range (in days) that classifies an
// amount cluster into a frequency.
type periodBand struct {
	min, max float64
	freq     domain.Frequency
	expected float64 // nominal interval used for confidence scoring
}

// Subscription-like merchants bill with more drift, so their bands are
// wider than the strict ones.
var (
	strictBands = []periodBand{
		{6, 8, domain.Weekly, 7},
		{28, 32, domain.Monthly, 30},
		{360, 370, domain.Yearly, 365},
	}
	subscriptionBands = []periodBand{
		{5, 10, domain.Weekly, 7},
		{25, 35, domain.Monthly, 30},
		{350, 380, domain.Yearly, 365},
	}
)

// subscriptionConfidenceBonus is the flat confidence bump for
// subscription-like merchants, applied before clamping.
const subscriptionConfidenceBonus = 0.10

// detectionService infers recurring-payment suggestions from transaction
// history. It is pure over its inputs: nothing is persisted here.
type detectionService struct {
	BaseService
	cfg config.EngineConfig
}

// NewDetectionService creates the pattern detector with the given tunables.
func NewDetectionService(cfg config.EngineConfig) portssvc.DetectionSvc {
	return &detectionService{cfg: cfg}
}

var _ portssvc.DetectionSvc = (*detectionService)(nil)

// DetectPatterns clusters transactions by normalized merchant and amount,
// infers periodicity per cluster and emits suggestions sorted by descending
// confidence. Clusters without enough occurrences or without a detectable
// period are dropped silently.
func (s *detectionService) DetectPatterns(ctx context.Context, txns []domain.TransactionRecord, now time.Time) []domain.TemplateSuggestion {
	windowStart := now.AddDate(0, -s.cfg.DetectionWindowMonths, 0)

	// Group by normalized merchant, preserving first-seen group order and
	// original transaction order inside each group. The greedy amount
	// clustering below is order-dependent on purpose.
	groups := make(map[string][]domain.TransactionRecord)
	var order []string
	for _, txn := range txns {
		if txn.Date.Before(windowStart) || txn.Date.After(now) {
			continue
		}
		key := merchant.Normalize(txn.Merchant)
		if key == "" {
			continue
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], txn)
	}

	var suggestions []domain.TemplateSuggestion
	for _, key := range order {
		suggestions = append(suggestions, s.detectForMerchant(key, groups[key])...)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})

	s.LogDebug(ctx, "Pattern detection finished",
		slog.Int("transactions", len(txns)),
		slog.Int("merchants", len(groups)),
		slog.Int("suggestions", len(suggestions)))
	return suggestions
}

func (s *detectionService) detectForMerchant(normalized string, group []domain.TransactionRecord) []domain.TemplateSuggestion {
	expenses := group[:0:0]
	for _, txn := range group {
		if txn.IsExpense() {
			expenses = append(expenses, txn)
		}
	}
	if len(expenses) < 2 {
		return nil
	}

	subscriptionLike := merchant.IsSubscriptionLike(normalized)

	amountTolerance := s.cfg.AmountClusterTolerance
	minOccurrences := s.cfg.MinOccurrences
	bands := strictBands
	if subscriptionLike {
		amountTolerance = s.cfg.AmountClusterToleranceSub
		minOccurrences = s.cfg.MinOccurrencesSubscribed
		bands = subscriptionBands
	}

	var suggestions []domain.TemplateSuggestion
	for _, cluster := range clusterByAmount(expenses, amountTolerance) {
		if len(cluster) < minOccurrences {
			continue
		}
		suggestion, ok := s.suggestionFromCluster(normalized, cluster, bands, subscriptionLike)
		if !ok {
			continue
		}
		suggestions = append(suggestions, suggestion)
	}
	return suggestions
}

// clusterByAmount greedily partitions transactions by absolute amount:
// the first transaction of each cluster is its seed, and a transaction
// joins the first cluster whose seed amount it is within tolerance of.
// First-seed-wins and order-dependent, deliberately.
func clusterByAmount(txns []domain.TransactionRecord, tolerance float64) [][]domain.TransactionRecord {
	var clusters [][]domain.TransactionRecord
	tolFactor := decimal.NewFromFloat(tolerance)

	for _, txn := range txns {
		abs := txn.Amount.Abs()
		placed := false
		for i, cluster := range clusters {
			seed := cluster[0].Amount.Abs()
			if abs.Sub(seed).Abs().LessThanOrEqual(seed.Mul(tolFactor)) {
				clusters[i] = append(clusters[i], txn)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, []domain.TransactionRecord{txn})
		}
	}
	return clusters
}

func (s *detectionService) suggestionFromCluster(normalized string, cluster []domain.TransactionRecord, bands []periodBand, subscriptionLike bool) (domain.TemplateSuggestion, bool) {
	dates := make([]time.Time, len(cluster))
	for i, txn := range cluster {
		dates[i] = txn.Date
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	gaps := make([]float64, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		gaps = append(gaps, dates[i].Sub(dates[i-1]).Hours()/24)
	}

	var gapSum float64
	for _, g := range gaps {
		gapSum += g
	}
	meanGap := gapSum / float64(len(gaps))

	band, ok := classifyPeriod(meanGap, bands)
	if !ok {
		return domain.TemplateSuggestion{}, false
	}

	confidence := scoreConfidence(gaps, band.expected)
	if subscriptionLike {
		confidence += subscriptionConfidenceBonus
	}
	if confidence > 1 {
		confidence = 1
	}

	sum := decimal.Zero
	for _, txn := range cluster {
		sum = sum.Add(txn.Amount.Abs())
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(cluster))))

	return domain.TemplateSuggestion{
		Merchant:        normalized,
		Amount:          cluster[0].Amount.Abs(),
		Frequency:       band.freq,
		OccurrenceDates: dates,
		Categories:      merchant.InferCategories(normalized),
		SuggestedAmount: mean,
		Confidence:      confidence,
	}, true
}

func classifyPeriod(meanGap float64, bands []periodBand) (periodBand, bool) {
	for _, band := range bands {
		if meanGap >= band.min && meanGap <= band.max {
			return band, true
		}
	}
	return periodBand{}, false
}

// scoreConfidence averages each gap's relative deviation from the expected
// interval and maps it into [0, 1].
func scoreConfidence(gaps []float64, expected float64) float64 {
	var devSum float64
	for _, g := range gaps {
		dev := (g - expected) / expected
		if dev < 0 {
			dev = -dev
		}
		devSum += dev
	}
	avgDev := devSum / float64(len(gaps))

	confidence := 1 - avgDev
	if confidence < 0 {
		confidence = 0
	}
	return confidence
}
