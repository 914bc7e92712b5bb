package storage

// Repository defines the analysis-log storage interface. The interface
// allows swapping implementations (SQLite today) and makes testing with
// an in-memory fake straightforward.
type Repository interface {
	// SaveAnalysis persists one analysis record
	SaveAnalysis(record *AnalysisRecord) error

	// GetAnalysis retrieves a record by ID
	GetAnalysis(id string) (*AnalysisRecord, error)

	// ListAnalyses returns analyses matching the filters with pagination
	ListAnalyses(filters AnalysisFilters) (*AnalysisListResult, error)

	// GetStats returns aggregate statistics
	GetStats() (*Stats, error)

	Close() error
}
