package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/parkermills/iBizToMySQL/internal/plist"
	"github.com/parkermills/iBizToMySQL/internal/vcard"
)

// Options configures a migration run.
type Options struct {
	// IBizDir is the iBiz data directory, containing the clients plist and
	// the Projects/ and Invoices/ subdirectories.
	IBizDir string

	// AddressBook is the path to the Address Book vCard export.
	AddressBook string

	// BatchLimit is the batch byte ceiling. Zero means DefaultBatchLimit.
	BatchLimit int
}

// Pipeline runs the migration phases in order against a store gateway.
type Pipeline struct {
	store StoreGateway
	opts  Options
	log   *slog.Logger

	// readDoc reads one plist document; replaceable in tests.
	readDoc func(path string) (plist.Dict, error)

	// OnPhase, when set, is called after each phase completes.
	OnPhase func(PhaseReport)
}

// New creates a pipeline. A nil logger falls back to slog.Default.
func New(store StoreGateway, opts Options, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		store:   store,
		opts:    opts,
		log:     log,
		readDoc: plist.ReadFile,
	}
}

// PhaseReport describes one completed (or aborted) phase.
type PhaseReport struct {
	Name         string
	Records      int // source records seen
	Rows         int // row descriptors emitted
	Dropped      int // records dropped by a validity gate
	SkippedFiles int // unreadable/undecodable source files
	SkippedLines int // malformed contact-card lines
	Statements   int
	Batches      int
	Bytes        int
	StoreErrors  int
	Err          error // non-nil when the phase aborted
}

// Report is the outcome of one migration run.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Phases     []PhaseReport
}

// Failed reports whether any phase aborted or any statement was rejected.
func (r *Report) Failed() bool {
	for _, ph := range r.Phases {
		if ph.Err != nil || ph.StoreErrors > 0 {
			return true
		}
	}
	return false
}

// Summary returns a one-line human summary of the run.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s:", r.RunID)
	for _, ph := range r.Phases {
		if ph.Err != nil {
			fmt.Fprintf(&b, " %s=aborted", ph.Name)
			continue
		}
		fmt.Fprintf(&b, " %s=%d/%d", ph.Name, ph.Statements-ph.StoreErrors, ph.Statements)
	}
	return b.String()
}

// Run executes all phases sequentially. Each phase is written out in full
// before the next starts: later phases resolve rows created by earlier
// ones via natural-key lookups that must already exist in the store.
// A phase-fatal error aborts that phase only; remaining phases proceed.
// Run returns an error only when the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}
	log := p.log.With("run_id", report.RunID)

	phases := []struct {
		name string
		fn   func(context.Context, *slog.Logger, *PhaseReport) error
	}{
		{"clients", p.runClients},
		{"contacts", p.runContacts},
		{"projects", p.runProjects},
		{"invoices", p.runInvoices},
	}

	for _, phase := range phases {
		if err := ctx.Err(); err != nil {
			report.FinishedAt = time.Now()
			return report, err
		}

		rep := PhaseReport{Name: phase.name}
		plog := log.With("phase", phase.name)
		plog.Info("phase starting")

		if err := phase.fn(ctx, plog, &rep); err != nil {
			if ctx.Err() != nil {
				report.Phases = append(report.Phases, rep)
				report.FinishedAt = time.Now()
				return report, err
			}
			rep.Err = err
			plog.Error("phase aborted", "error", err)
		} else {
			plog.Info("phase complete",
				"records", rep.Records,
				"statements", rep.Statements,
				"batches", rep.Batches,
				"bytes", rep.Bytes,
				"dropped", rep.Dropped,
				"store_errors", rep.StoreErrors,
			)
		}

		report.Phases = append(report.Phases, rep)
		if p.OnPhase != nil {
			p.OnPhase(rep)
		}
	}

	report.FinishedAt = time.Now()
	return report, nil
}

// runClients imports the clients plist into Customers.
func (p *Pipeline) runClients(ctx context.Context, log *slog.Logger, rep *PhaseReport) error {
	doc, err := p.readDoc(filepath.Join(p.opts.IBizDir, "clients"))
	if err != nil {
		return err
	}

	acc := NewAccumulator(p.opts.BatchLimit)
	for _, client := range doc.Dicts("clients") {
		rep.Records++
		rows := MapClient(client)
		rep.Rows += len(rows)
		acc.AddRows(rows)
	}

	return p.execute(ctx, log, acc, rep)
}

// runContacts parses the contact-card export and enriches Customers by
// addressBookId.
func (p *Pipeline) runContacts(ctx context.Context, log *slog.Logger, rep *PhaseReport) error {
	f, err := os.Open(p.opts.AddressBook)
	if err != nil {
		return fmt.Errorf("open address book: %w", err)
	}
	defer f.Close()

	book, err := vcard.Parse(f)
	if err != nil {
		return err
	}
	rep.SkippedLines = book.Stats.SkippedLines
	if book.Stats.SkippedLines > 0 {
		log.Warn("malformed address book lines skipped", "lines", book.Stats.SkippedLines)
	}

	acc := NewAccumulator(p.opts.BatchLimit)
	for _, card := range book.Cards {
		rep.Records++
		rows := MapCard(card)
		rep.Rows += len(rows)
		acc.AddRows(rows)
	}

	return p.execute(ctx, log, acc, rep)
}

// runProjects imports every project file into Projects, JobEvents, and
// JobEventsEstimates.
func (p *Pipeline) runProjects(ctx context.Context, log *slog.Logger, rep *PhaseReport) error {
	dir := filepath.Join(p.opts.IBizDir, "Projects")
	paths, err := listEntries(dir, "")
	if err != nil {
		return err
	}

	acc := NewAccumulator(p.opts.BatchLimit)
	for _, path := range paths {
		doc, err := p.readDoc(path)
		if err != nil {
			rep.SkippedFiles++
			log.Warn("unreadable project file skipped", "path", path, "error", err)
			continue
		}
		rep.Records++
		rows := MapProject(doc)
		rep.Rows += len(rows)
		acc.AddRows(rows)
	}

	return p.execute(ctx, log, acc, rep)
}

// runInvoices imports each invoice's Attributes plist into Invoices.
func (p *Pipeline) runInvoices(ctx context.Context, log *slog.Logger, rep *PhaseReport) error {
	dir := filepath.Join(p.opts.IBizDir, "Invoices")
	paths, err := listEntries(dir, "Attributes")
	if err != nil {
		return err
	}

	acc := NewAccumulator(p.opts.BatchLimit)
	for _, path := range paths {
		doc, err := p.readDoc(path)
		if err != nil {
			rep.SkippedFiles++
			log.Warn("unreadable invoice skipped", "path", path, "error", err)
			continue
		}
		rep.Records++
		rows := MapInvoice(doc)
		if len(rows) == 0 {
			rep.Dropped++
			continue
		}
		rep.Rows += len(rows)
		acc.AddRows(rows)
	}

	return p.execute(ctx, log, acc, rep)
}

// execute flushes the accumulator and runs each batch in order.
// Rejected statements are logged and counted; they never abort the run.
func (p *Pipeline) execute(ctx context.Context, log *slog.Logger, acc *Accumulator, rep *PhaseReport) error {
	for _, batch := range acc.Flush() {
		if err := ctx.Err(); err != nil {
			return err
		}

		rep.Batches++
		rep.Statements += len(batch)
		for _, stmt := range batch {
			rep.Bytes += len(stmt)
		}

		for i, err := range p.store.ExecBatch(ctx, batch) {
			if err == nil {
				continue
			}
			rep.StoreErrors++
			log.Error("statement rejected", "statement", i, "error", err)
		}
	}
	return nil
}

// listEntries lists the non-hidden entries of a source directory in
// listing order. The order carries no guarantee and is never relied upon
// for reference correctness. When sub is non-empty, each entry is a
// directory containing a file of that name.
func listEntries(dir, sub string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read source directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if sub == "" {
			paths = append(paths, filepath.Join(dir, name))
		} else {
			paths = append(paths, filepath.Join(dir, name, sub))
		}
	}
	return paths, nil
}
