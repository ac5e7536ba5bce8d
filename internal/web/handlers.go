package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/parkermills/iBizToMySQL/internal/logging"
	"github.com/parkermills/iBizToMySQL/internal/migrate"
)

// phaseView is the JSON shape of a phase report.
type phaseView struct {
	Name         string `json:"name"`
	Records      int    `json:"records"`
	Rows         int    `json:"rows"`
	Dropped      int    `json:"dropped"`
	SkippedFiles int    `json:"skippedFiles,omitempty"`
	SkippedLines int    `json:"skippedLines,omitempty"`
	Statements   int    `json:"statements"`
	Batches      int    `json:"batches"`
	Bytes        int    `json:"bytes"`
	StoreErrors  int    `json:"storeErrors"`
	Error        string `json:"error,omitempty"`
}

// reportView is the JSON shape of a run report.
type reportView struct {
	RunID      string      `json:"runId"`
	StartedAt  string      `json:"startedAt"`
	FinishedAt string      `json:"finishedAt"`
	Failed     bool        `json:"failed"`
	Phases     []phaseView `json:"phases"`
}

func viewOf(r *migrate.Report) reportView {
	v := reportView{
		RunID:      r.RunID,
		StartedAt:  r.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		FinishedAt: r.FinishedAt.Format("2006-01-02T15:04:05Z07:00"),
		Failed:     r.Failed(),
	}
	for _, ph := range r.Phases {
		pv := phaseView{
			Name:         ph.Name,
			Records:      ph.Records,
			Rows:         ph.Rows,
			Dropped:      ph.Dropped,
			SkippedFiles: ph.SkippedFiles,
			SkippedLines: ph.SkippedLines,
			Statements:   ph.Statements,
			Batches:      ph.Batches,
			Bytes:        ph.Bytes,
			StoreErrors:  ph.StoreErrors,
		}
		if ph.Err != nil {
			pv.Error = ph.Err.Error()
		}
		v.Phases = append(v.Phases, pv)
	}
	return v
}

// handleStatus reports whether a run is active and summarizes the last run.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	running, report := s.snapshot()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if running {
		fmt.Fprintln(w, "migration running")
	} else {
		fmt.Fprintln(w, "idle")
	}
	if report != nil {
		fmt.Fprintln(w, report.Summary())
	}
}

// handleRun starts a migration run. At most one run is active at a time.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		http.Error(w, "a migration run is already active", http.StatusConflict)
		return
	}
	s.running = true
	s.mu.Unlock()

	logger.Info("migration run requested")

	go func() {
		report, err := s.migrator.Run(context.Background())

		s.mu.Lock()
		s.running = false
		s.report = report
		s.mu.Unlock()

		if err != nil {
			logger.Error("migration run interrupted", "error", err)
		}
	}()

	w.WriteHeader(http.StatusAccepted)
	fmt.Fprintln(w, "migration started")
}

// handleReport returns the last completed run's report as JSON.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	_, report := s.snapshot()
	if report == nil {
		http.Error(w, "no completed run", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(viewOf(report)); err != nil {
		logging.FromContext(r.Context()).Error("encode report", "error", err)
	}
}
