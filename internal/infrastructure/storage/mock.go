package storage

import (
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-memory Repository for tests and dry runs.
type MemoryRepository struct {
	mu      sync.Mutex
	records map[string]*AnalysisRecord
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]*AnalysisRecord)}
}

// SaveAnalysis stores the record, overwriting any previous one with the same ID.
func (m *MemoryRepository) SaveAnalysis(record *AnalysisRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	cp := *record
	m.records[record.ID] = &cp
	return nil
}

// GetAnalysis retrieves a record by ID.
func (m *MemoryRepository) GetAnalysis(id string) (*AnalysisRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *record
	return &cp, nil
}

// ListAnalyses applies the filters over the in-memory set, newest first.
func (m *MemoryRepository) ListAnalyses(filters AnalysisFilters) (*AnalysisListResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*AnalysisRecord
	for _, r := range m.records {
		if filters.Reference != "" && r.Reference != filters.Reference {
			continue
		}
		if filters.Matched != nil && r.ProfileMatched != *filters.Matched {
			continue
		}
		cp := *r
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	total := len(matched)
	start := filters.Offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &AnalysisListResult{
		Analyses:   matched[start:end],
		TotalCount: total,
		Limit:      limit,
		Offset:     filters.Offset,
	}, nil
}

// GetStats aggregates over the in-memory set.
func (m *MemoryRepository) GetStats() (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &Stats{TotalAnalyses: len(m.records)}
	if stats.TotalAnalyses == 0 {
		return stats, nil
	}
	var fraudSum, confSum int
	for _, r := range m.records {
		if r.ProfileMatched {
			stats.MatchedCount++
		}
		fraudSum += r.FraudScore
		confSum += r.ConfidentScore
	}
	stats.UnmatchedCount = stats.TotalAnalyses - stats.MatchedCount
	stats.AvgFraudScore = float64(fraudSum) / float64(stats.TotalAnalyses)
	stats.AvgConfidence = float64(confSum) / float64(stats.TotalAnalyses)
	return stats, nil
}

// Close is a no-op.
func (m *MemoryRepository) Close() error { return nil }
