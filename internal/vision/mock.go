package vision

import "context"

// MockExtractor is a canned Extractor for handler tests.
type MockExtractor struct {
	ProbeResult   ProbeGuess
	ProbeErr      error
	ExtractResult map[string]any
	ExtractErr    error

	// LastSystemPrompt records the prompt Extract was called with so tests
	// can assert hint injection happened.
	LastSystemPrompt string
	ProbeCalls       int
	ExtractCalls     int
}

var _ Extractor = (*MockExtractor)(nil)

func (m *MockExtractor) Probe(ctx context.Context, imageB64 string) (ProbeGuess, error) {
	m.ProbeCalls++
	return m.ProbeResult, m.ProbeErr
}

func (m *MockExtractor) Extract(ctx context.Context, imageB64, systemPrompt string) (map[string]any, error) {
	m.ExtractCalls++
	m.LastSystemPrompt = systemPrompt
	if m.ExtractErr != nil {
		return nil, m.ExtractErr
	}
	out := make(map[string]any, len(m.ExtractResult))
	for k, v := range m.ExtractResult {
		out[k] = v
	}
	return out, nil
}
