// Package service orchestrates the import pipeline, the metrics engine and
// the record store behind one concurrency-safe facade.
package service

import (
	"context"
	"errors"
	"path"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/domain"
	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/forecast"
	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/importer"
	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/report"
	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/store"
)

// ErrNoData is returned by operations that need a processed collection before
// any import has happened.
var ErrNoData = errors.New("no stock usage data loaded")

// ImportRequest carries one CSV import. Mapping, when set, replaces the
// classifier's output entirely; a partial override is not merged. Params,
// when set, replaces the service defaults for this and later calculations.
type ImportRequest struct {
	CSVText     string
	PeriodStart string
	PeriodEnd   string
	Mapping     *importer.FieldMapping
	Params      *domain.CalculationParameters
}

// ImportResult reports what one import produced.
type ImportResult struct {
	ItemCount    int                   `json:"item_count"`
	FlaggedCount int                   `json:"flagged_count"`
	Mapping      importer.FieldMapping `json:"mapping"`
	Totals       domain.UsageSummary   `json:"totals"`
	Items        []domain.StockItem    `json:"items"`
}

// ItemForecast pairs an item's identity with its purchase recommendation.
type ItemForecast struct {
	ItemCode    string `json:"item_code"`
	Description string `json:"description"`
	domain.OrderForecast
}

// UsageService holds the current processed collection and runs every
// operation against it. All state behind the mutex is replaced wholesale on
// import and load, never mutated piecemeal.
type UsageService struct {
	records  store.RecordStore
	defaults domain.CalculationParameters

	mu          sync.RWMutex
	items       []domain.StockItem
	mapping     importer.FieldMapping
	params      domain.CalculationParameters
	periodStart string
	periodEnd   string
	loaded      bool
}

func NewUsageService(records store.RecordStore, defaults domain.CalculationParameters) *UsageService {
	return &UsageService{
		records:  records,
		defaults: defaults,
		params:   defaults,
		mapping:  importer.NewFieldMapping(),
	}
}

// Import runs the full pipeline on one CSV export and replaces the current
// collection. Unusable CSV text yields an empty result, not an error; only an
// incomplete field mapping fails the import.
func (s *UsageService) Import(ctx context.Context, req ImportRequest) (ImportResult, error) {
	items, mapping, err := processCSV(req.CSVText, req.Mapping, pickParams(s.defaults, req.Params))
	if err != nil {
		return ImportResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Params != nil {
		s.params = *req.Params
	}
	s.items = items
	s.mapping = mapping
	s.periodStart = req.PeriodStart
	s.periodEnd = req.PeriodEnd
	s.loaded = true

	result := buildImportResult(items, mapping)
	log.Info().
		Int("items", result.ItemCount).
		Int("flagged", result.FlaggedCount).
		Str("period_start", req.PeriodStart).
		Str("period_end", req.PeriodEnd).
		Msg("stock usage import complete")

	return result, nil
}

// processCSV is the stateless pipeline: tokenize, classify (or accept the
// caller's mapping), validate, normalize, apply the period metrics.
func processCSV(csvText string, override *importer.FieldMapping, params domain.CalculationParameters) ([]domain.StockItem, importer.FieldMapping, error) {
	table := importer.Tokenize(csvText)
	if table.Empty() {
		return []domain.StockItem{}, importer.NewFieldMapping(), nil
	}

	var mapping importer.FieldMapping
	if override != nil {
		mapping = *override
	} else {
		mapping = importer.Classify(table.Headers)
	}
	if err := importer.RequireFields(mapping); err != nil {
		return nil, mapping, err
	}

	items := importer.Normalize(table, mapping)
	items = forecast.ApplyPeriod(items, params.StockPeriodDays, params.DaysToNextDelivery)
	return items, mapping, nil
}

func buildImportResult(items []domain.StockItem, mapping importer.FieldMapping) ImportResult {
	flagged := 0
	for _, item := range items {
		if item.NeedsAttention {
			flagged++
		}
	}
	return ImportResult{
		ItemCount:    len(items),
		FlaggedCount: flagged,
		Mapping:      mapping,
		Totals:       report.Summary(items, 0),
		Items:        items,
	}
}

func pickParams(defaults domain.CalculationParameters, override *domain.CalculationParameters) domain.CalculationParameters {
	if override != nil {
		return *override
	}
	return defaults
}

// Recalculate re-applies the period metrics with new parameters and returns
// the refreshed collection.
func (s *UsageService) Recalculate(params domain.CalculationParameters) ([]domain.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, ErrNoData
	}

	s.params = params
	s.items = forecast.ApplyPeriod(s.items, params.StockPeriodDays, params.DaysToNextDelivery)
	return cloneItems(s.items), nil
}

// Items returns the current collection filtered by the criteria.
func (s *UsageService) Items(criteria domain.FilterCriteria) ([]domain.StockItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, ErrNoData
	}
	return report.Filter(s.items, criteria), nil
}

// Summary computes the collection totals, optionally against a sales amount.
func (s *UsageService) Summary(salesAmount float64) (domain.UsageSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return domain.UsageSummary{}, ErrNoData
	}
	return report.Summary(s.items, salesAmount), nil
}

// Categories aggregates usage cost per category.
func (s *UsageService) Categories() ([]domain.CategoryCost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, ErrNoData
	}
	return report.AggregateByCategory(s.items), nil
}

// TopItems returns the costliest items by usage value.
func (s *UsageService) TopItems(limit int) ([]domain.CategoryCost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, ErrNoData
	}
	return report.TopItems(s.items, limit), nil
}

// ExportCSV renders the filtered collection as a flat CSV, one row per item
// passing the criteria.
func (s *UsageService) ExportCSV(criteria domain.FilterCriteria) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return "", ErrNoData
	}
	return importer.ExportCSV(report.Filter(s.items, criteria)), nil
}

// Forecasts produces a purchase recommendation for every current item. A nil
// params falls back to the parameters of the last calculation pass.
func (s *UsageService) Forecasts(params *domain.CalculationParameters) ([]ItemForecast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, ErrNoData
	}

	effective := s.params
	if params != nil {
		effective = *params
	}

	forecasts := make([]ItemForecast, 0, len(s.items))
	for _, item := range s.items {
		forecasts = append(forecasts, ItemForecast{
			ItemCode:      item.ItemCode,
			Description:   item.Description,
			OrderForecast: forecast.ForecastOrder(item, effective),
		})
	}
	return forecasts, nil
}

// SaveRecord persists the current collection as a usage record.
func (s *UsageService) SaveRecord(ctx context.Context) (string, error) {
	s.mu.RLock()
	if !s.loaded {
		s.mu.RUnlock()
		return "", ErrNoData
	}
	record := domain.UsageRecord{
		PeriodStart: s.periodStart,
		PeriodEnd:   s.periodEnd,
		Items:       cloneItems(s.items),
		Parameters:  s.params,
		Totals:      report.Summary(s.items, 0),
	}
	s.mu.RUnlock()

	id, err := s.records.Save(ctx, record)
	if err != nil {
		return "", err
	}
	log.Info().Str("record_id", id).Int("items", len(record.Items)).Msg("usage record saved")
	return id, nil
}

// LoadRecord fetches a saved record and adopts it as the current collection.
func (s *UsageService) LoadRecord(ctx context.Context, id string) (domain.UsageRecord, error) {
	record, err := s.records.Load(ctx, id)
	if err != nil {
		return domain.UsageRecord{}, err
	}

	s.mu.Lock()
	s.items = cloneItems(record.Items)
	s.params = record.Parameters
	s.periodStart = record.PeriodStart
	s.periodEnd = record.PeriodEnd
	s.loaded = true
	s.mu.Unlock()

	return record, nil
}

// ListRecords returns summaries of every saved record, newest first.
func (s *UsageService) ListRecords(ctx context.Context) ([]domain.RecordSummary, error) {
	return s.records.List(ctx)
}

// DeleteRecord removes a saved record.
func (s *UsageService) DeleteRecord(ctx context.Context, id string) error {
	return s.records.Delete(ctx, id)
}

// ProcessExport imports one historical export and saves it straight to the
// record store without touching the current collection. The period label is
// taken from the object key. A duplicate save counts as success so batch
// ingestion stays idempotent.
func (s *UsageService) ProcessExport(ctx context.Context, key string, csvText string) error {
	items, _, err := processCSV(csvText, nil, s.defaults)
	if err != nil {
		return err
	}

	label := periodLabel(key)
	record := domain.UsageRecord{
		PeriodStart: label,
		PeriodEnd:   label,
		Items:       items,
		Parameters:  s.defaults,
		Totals:      report.Summary(items, 0),
	}

	id, err := s.records.Save(ctx, record)
	if errors.Is(err, domain.ErrDuplicateRecord) {
		log.Debug().Str("key", key).Msg("export already archived, skipping")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().Str("key", key).Str("record_id", id).Int("items", len(items)).Msg("export archived")
	return nil
}

// periodLabel derives a record period from an object key: base name without
// extension.
func periodLabel(key string) string {
	base := path.Base(key)
	return strings.TrimSuffix(base, path.Ext(base))
}

func cloneItems(items []domain.StockItem) []domain.StockItem {
	out := make([]domain.StockItem, len(items))
	copy(out, items)
	return out
}
