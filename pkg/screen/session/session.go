// Package session owns the mutable screening state for one user: the
// parameters, the last result set, the loading flag and the last error
// message. All state lives only for the lifetime of the session.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/komsit37/optscreen/pkg/screen/client"
	"github.com/komsit37/optscreen/pkg/screen/params"
	"github.com/komsit37/optscreen/pkg/screen/types"
)

// ServiceErrorMessage is the single user-facing message for any transport
// or service failure. Details go to the log, not the user.
const ServiceErrorMessage = "Failed to fetch data from the analysis service. Check that it is running and try again."

// Session is safe for concurrent use; serve mode shares one across
// handlers.
type Session struct {
	mu       sync.Mutex
	params   params.Parameters
	results  types.ResultSet
	loading  bool
	lastErr  string
	seq      uint64
	analyzer client.Analyzer
	log      *slog.Logger
}

// New creates a session seeded with the resolved default parameters.
func New(p params.Parameters, analyzer client.Analyzer, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{params: p.Clone(), analyzer: analyzer, log: log}
}

// Params returns a copy of the current parameters.
func (s *Session) Params() params.Parameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.Clone()
}

// Results returns the last applied result set. Lists the service never
// returned stay nil.
func (s *Session) Results() types.ResultSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// Loading reports whether an analysis request is in flight. The flag is
// advisory; it never hard-blocks a new request.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the user-facing message of the last failed analysis,
// or "" after a success.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// SetScreenerType switches modes. Filter values and ticker text are
// untouched.
func (s *Session) SetScreenerType(mode types.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.SetScreenerType(mode)
}

// SetTickerField normalizes and stores ticker input.
func (s *Session) SetTickerField(field params.TickerField, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.SetTickerField(field, raw)
}

// SetFilterField applies a filter edit. A malformed number is discarded and
// the prior value retained; the rejection is visible only at debug level.
func (s *Session) SetFilterField(name, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.params.SetFilterField(name, raw); err != nil {
		s.log.Debug("filter edit discarded", "field", name, "input", raw, "err", err)
	}
}

// Analyze runs one screening request. On success the whole result set is
// replaced; on failure the previous results stay untouched and LastError
// carries one generic message. Responses that lose the race to a newer
// request are dropped entirely.
func (s *Session) Analyze(ctx context.Context) error {
	s.mu.Lock()
	s.seq++
	mySeq := s.seq
	req := client.BuildRequest(s.params)
	s.loading = true
	s.mu.Unlock()

	rs, err := s.analyzer.Analyze(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if mySeq != s.seq {
		// A newer request owns the display state now.
		s.log.Debug("stale analysis response dropped", "seq", mySeq, "latest", s.seq)
		return nil
	}
	s.loading = false
	if err != nil {
		s.log.Error("analysis request failed", "err", err)
		s.lastErr = ServiceErrorMessage
		return err
	}
	s.lastErr = ""
	s.results = rs
	return nil
}
