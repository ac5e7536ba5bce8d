package migrate

import "context"

// Entity identifies a target relation.
type Entity string

const (
	EntityCustomer         Entity = "Customers"
	EntityProject          Entity = "Projects"
	EntityJobEvent         Entity = "JobEvents"
	EntityJobEventEstimate Entity = "JobEventsEstimates"
	EntityInvoice          Entity = "Invoices"
)

// entityKeys maps each referenceable entity to its surrogate-id column and
// its natural-key column. Natural keys are declared UNIQUE in the schema so
// a lookup yields at most one row.
var entityKeys = map[Entity]struct {
	ID         string
	NaturalKey string
}{
	EntityCustomer: {ID: "id", NaturalKey: "addressBookId"},
	EntityProject:  {ID: "ProjectNum", NaturalKey: "uniqueIdentifier"},
	EntityInvoice:  {ID: "id", NaturalKey: "uniqueIdentifier"},
}

// Ref is a deferred reference to another entity by natural key.
//
// The mapper runs before any insertion, so the referenced row's id is
// unknown; the reference renders as a store-side lookup expression and
// resolves to NULL when the key matches no row.
type Ref struct {
	Entity Entity
	Key    string
}

// Value is a column value destined for a generated statement: a literal,
// an explicit NULL (Valid false), or a deferred reference (Ref non-nil).
type Value struct {
	Str   string
	Valid bool
	Ref   *Ref
}

// Null is the explicit absence value.
func Null() Value { return Value{} }

// Lit returns a literal value.
func Lit(s string) Value { return Value{Str: s, Valid: true} }

// RefValue returns a deferred natural-key reference to entity e.
func RefValue(e Entity, key string) Value {
	return Value{Ref: &Ref{Entity: e, Key: key}}
}

// Op is the operation a row descriptor performs.
type Op int

const (
	// OpInsert inserts a new row.
	OpInsert Op = iota
	// OpUpdateByKey updates the single row matching the entity's natural
	// key. Used by contact-card enrichment; carries no ordering dependency
	// beyond its phase.
	OpUpdateByKey
	// OpUpdateLastInsert updates the row created by the immediately
	// preceding insert on the same connection. Depends on statement order
	// within the generated sequence.
	OpUpdateLastInsert
)

// Col is one column assignment in a row descriptor.
type Col struct {
	Name  string
	Value Value
}

// Row is a flat row descriptor produced by a mapper.
type Row struct {
	Entity Entity
	Op     Op
	Cols   []Col

	// Key is the natural-key value selecting the target row for
	// OpUpdateByKey. Unused for other operations.
	Key string
}

// StoreGateway executes a batch of generated statements and reports a
// per-statement result. The returned slice is aligned with the input; a
// nil element means the statement succeeded. Statements must be executed
// in order on a single connection so LAST_INSERT_ID carries from an insert
// to the statement that follows it.
type StoreGateway interface {
	ExecBatch(ctx context.Context, stmts []string) []error
}
