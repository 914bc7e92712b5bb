package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no record matches the requested ID.
var ErrNotFound = errors.New("analysis not found")

// Storage provides SQLite database access for analysis records.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	s := &Storage{db: db}

	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveAnalysis persists one analysis record
func (s *Storage) SaveAnalysis(record *AnalysisRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	query := `
	INSERT OR REPLACE INTO analyses
	(id, reference, filename, merchant_guess, address_guess, profile_matched,
	 merchant_name, total, fraud_score, confident_score, reason, qr_decoded,
	 extracted_json, validation_json, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		record.ID,
		record.Reference,
		record.Filename,
		record.MerchantGuess,
		record.AddressGuess,
		record.ProfileMatched,
		record.MerchantName,
		record.Total,
		record.FraudScore,
		record.ConfidentScore,
		record.Reason,
		record.QRDecoded,
		record.ExtractedJSON,
		record.ValidationJSON,
		record.CreatedAt,
	)

	return err
}

// GetAnalysis retrieves a record by ID
func (s *Storage) GetAnalysis(id string) (*AnalysisRecord, error) {
	query := `
	SELECT id, reference, filename, merchant_guess, address_guess, profile_matched,
	       merchant_name, total, fraud_score, confident_score, reason, qr_decoded,
	       extracted_json, validation_json, created_at
	FROM analyses WHERE id = ?
	`

	record, err := scanAnalysis(s.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return record, err
}

// ListAnalyses returns analyses matching the filters, newest first
func (s *Storage) ListAnalyses(filters AnalysisFilters) (*AnalysisListResult, error) {
	where := []string{"1=1"}
	args := []any{}

	if filters.Reference != "" {
		where = append(where, "reference = ?")
		args = append(args, filters.Reference)
	}
	if filters.Matched != nil {
		where = append(where, "profile_matched = ?")
		args = append(args, *filters.Matched)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM analyses WHERE " + whereClause
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}

	query := `
	SELECT id, reference, filename, merchant_guess, address_guess, profile_matched,
	       merchant_name, total, fraud_score, confident_score, reason, qr_decoded,
	       extracted_json, validation_json, created_at
	FROM analyses WHERE ` + whereClause + `
	ORDER BY created_at DESC LIMIT ? OFFSET ?
	`
	rows, err := s.db.Query(query, append(args, limit, filters.Offset)...)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := &AnalysisListResult{
		Analyses:   []*AnalysisRecord{},
		TotalCount: total,
		Limit:      limit,
		Offset:     filters.Offset,
	}
	for rows.Next() {
		record, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		result.Analyses = append(result.Analyses, record)
	}
	return result, rows.Err()
}

// GetStats returns aggregate statistics over all stored analyses
func (s *Storage) GetStats() (*Stats, error) {
	query := `
	SELECT COUNT(*),
	       COALESCE(SUM(CASE WHEN profile_matched THEN 1 ELSE 0 END), 0),
	       COALESCE(AVG(fraud_score), 0),
	       COALESCE(AVG(confident_score), 0)
	FROM analyses
	`

	stats := &Stats{}
	err := s.db.QueryRow(query).Scan(
		&stats.TotalAnalyses,
		&stats.MatchedCount,
		&stats.AvgFraudScore,
		&stats.AvgConfidence,
	)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	stats.UnmatchedCount = stats.TotalAnalyses - stats.MatchedCount
	return stats, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanAnalysis
type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row scanner) (*AnalysisRecord, error) {
	record := &AnalysisRecord{}
	err := row.Scan(
		&record.ID,
		&record.Reference,
		&record.Filename,
		&record.MerchantGuess,
		&record.AddressGuess,
		&record.ProfileMatched,
		&record.MerchantName,
		&record.Total,
		&record.FraudScore,
		&record.ConfidentScore,
		&record.Reason,
		&record.QRDecoded,
		&record.ExtractedJSON,
		&record.ValidationJSON,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return record, nil
}
