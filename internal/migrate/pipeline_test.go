package migrate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parkermills/iBizToMySQL/internal/plist"
)

// fakeStore records executed statements and rejects any statement
// containing one of the reject markers.
type fakeStore struct {
	batches [][]string
	reject  string
}

func (f *fakeStore) ExecBatch(ctx context.Context, stmts []string) []error {
	f.batches = append(f.batches, stmts)
	errs := make([]error, len(stmts))
	for i, s := range stmts {
		if f.reject != "" && strings.Contains(s, f.reject) {
			errs[i] = errors.New("rejected")
		}
	}
	return errs
}

func (f *fakeStore) statements() []string {
	var out []string
	for _, b := range f.batches {
		out = append(out, b...)
	}
	return out
}

const testAddressBook = `BEGIN:VCARD
X-ABUID:AB-1
EMAIL;type=WORK:ann@example.com
END:VCARD
`

// testDocs is a fixture tree keyed by the path suffix the pipeline reads.
var testDocs = map[string]plist.Dict{
	"clients": {
		"clients": []any{
			map[string]any{"firstName": "Ann", "addressBookId": "AB-1"},
			map[string]any{"firstName": "Bob", "addressBookId": "AB-2", "clientCompany": "Acme"},
		},
	},
	"proj-1": {
		"projectName":      "Redesign",
		"uniqueIdentifier": "P1",
		"clientIdentifier": "AB-1",
		"jobEvents": []any{
			map[string]any{"jobEventName": "Design"},
		},
	},
	filepath.Join("inv-1", "Attributes"): {
		"invoiceNumber":    uint64(101),
		"uniqueIdentifier": "INV-1",
		"clientIdentifier": "AB-1",
	},
	filepath.Join("inv-2", "Attributes"): {
		"invoiceNumber": uint64(0),
	},
}

// newTestPipeline lays out a source tree matching testDocs and returns a
// pipeline whose document reader serves the fixtures.
func newTestPipeline(t *testing.T, store StoreGateway) *Pipeline {
	t.Helper()
	dir := t.TempDir()

	for _, name := range []string{"proj-1"} {
		path := filepath.Join(dir, "Projects", name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range []string{"inv-1", "inv-2"} {
		if err := os.MkdirAll(filepath.Join(dir, "Invoices", name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	// Hidden entries are skipped during listing.
	if err := os.WriteFile(filepath.Join(dir, "Projects", ".DS_Store"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	book := filepath.Join(dir, "AddressBook.vcf")
	if err := os.WriteFile(book, []byte(testAddressBook), 0o644); err != nil {
		t.Fatal(err)
	}

	p := New(store, Options{IBizDir: dir, AddressBook: book}, nil)
	p.readDoc = func(path string) (plist.Dict, error) {
		for suffix, doc := range testDocs {
			if strings.HasSuffix(path, string(filepath.Separator)+suffix) {
				return doc, nil
			}
		}
		return nil, errors.New("no fixture for " + path)
	}
	return p
}

func phaseByName(t *testing.T, r *Report, name string) PhaseReport {
	t.Helper()
	for _, ph := range r.Phases {
		if ph.Name == name {
			return ph
		}
	}
	t.Fatalf("report has no phase %q", name)
	return PhaseReport{}
}

func TestPipelineRun(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(t, store)

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Failed() {
		t.Fatalf("run reported failure: %+v", report.Phases)
	}
	if len(report.Phases) != 4 {
		t.Fatalf("got %d phases, want 4", len(report.Phases))
	}
	for i, name := range []string{"clients", "contacts", "projects", "invoices"} {
		if report.Phases[i].Name != name {
			t.Errorf("phase %d = %q, want %q", i, report.Phases[i].Name, name)
		}
	}

	clients := phaseByName(t, report, "clients")
	if clients.Records != 2 || clients.Statements != 4 {
		t.Errorf("clients phase = %+v, want 2 records and 4 statements", clients)
	}

	contacts := phaseByName(t, report, "contacts")
	if contacts.Records != 1 || contacts.Statements != 1 {
		t.Errorf("contacts phase = %+v, want 1 record and 1 statement", contacts)
	}

	projects := phaseByName(t, report, "projects")
	if projects.Records != 1 || projects.Statements != 2 {
		t.Errorf("projects phase = %+v, want 1 record and 2 statements", projects)
	}

	invoices := phaseByName(t, report, "invoices")
	if invoices.Records != 2 || invoices.Dropped != 1 || invoices.Statements != 1 {
		t.Errorf("invoices phase = %+v, want 2 records, 1 dropped, 1 statement", invoices)
	}

	// Customer rows must be on the wire before anything that references them.
	stmts := store.statements()
	firstProject := -1
	lastCustomer := -1
	for i, s := range stmts {
		if strings.HasPrefix(s, "INSERT INTO Projects") && firstProject < 0 {
			firstProject = i
		}
		if strings.Contains(s, "INSERT INTO Customers") {
			lastCustomer = i
		}
	}
	if firstProject < 0 || lastCustomer < 0 || lastCustomer > firstProject {
		t.Errorf("customer inserts must precede project inserts: %v", stmts)
	}
}

func TestPipelinePhaseFatalIsolated(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(t, store)

	inner := p.readDoc
	p.readDoc = func(path string) (plist.Dict, error) {
		if strings.HasSuffix(path, string(filepath.Separator)+"clients") {
			return nil, errors.New("corrupt clients file")
		}
		return inner(path)
	}

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !report.Failed() {
		t.Error("aborted phase should mark the run failed")
	}

	clients := phaseByName(t, report, "clients")
	if clients.Err == nil {
		t.Error("clients phase should carry its error")
	}
	for _, name := range []string{"contacts", "projects", "invoices"} {
		if ph := phaseByName(t, report, name); ph.Err != nil {
			t.Errorf("%s phase should still run, got error %v", name, ph.Err)
		}
	}
}

func TestPipelineCountsStoreErrors(t *testing.T) {
	store := &fakeStore{reject: "INSERT INTO Invoices"}
	p := newTestPipeline(t, store)

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !report.Failed() {
		t.Error("rejected statement should mark the run failed")
	}

	invoices := phaseByName(t, report, "invoices")
	if invoices.StoreErrors != 1 {
		t.Errorf("invoices StoreErrors = %d, want 1", invoices.StoreErrors)
	}
	if invoices.Err != nil {
		t.Errorf("rejected statements must not abort the phase: %v", invoices.Err)
	}
}

func TestPipelineContextCancelled(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run with cancelled context = %v, want context.Canceled", err)
	}
}

func TestPipelinePhaseCallback(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(t, store)

	var names []string
	p.OnPhase = func(rep PhaseReport) { names = append(names, rep.Name) }

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"clients", "contacts", "projects", "invoices"}
	if len(names) != len(want) {
		t.Fatalf("got %d callbacks, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("callback %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestReportSummary(t *testing.T) {
	r := &Report{
		RunID: "run-1",
		Phases: []PhaseReport{
			{Name: "clients", Statements: 4},
			{Name: "contacts", Err: errors.New("boom")},
		},
	}
	got := r.Summary()
	if !strings.Contains(got, "clients=4/4") || !strings.Contains(got, "contacts=aborted") {
		t.Errorf("Summary = %q", got)
	}
}
