// Package migrate turns iBiz source records into MySQL rows.
//
// This package is the heart of the importer, independent of any transport
// or storage driver. It is organized around a few concepts:
//
//   - Row descriptors: an entity kind, an operation, and ordered column
//     values produced by the mappers. A column value is a literal, an
//     explicit NULL, or a deferred natural-key reference resolved by the
//     store at write time.
//   - Mappers: declarative field tables that project a decoded plist
//     record (client, project, invoice) or a parsed contact card onto row
//     descriptors, mapping absent fields to NULL.
//   - Accumulator: groups rendered statements into byte-bounded batches so
//     a flush never exceeds the store's transport ceiling.
//   - Pipeline: the sequential phases (clients, contacts, projects,
//     invoices). Ordering between phases is load-bearing: later phases
//     look earlier rows up by natural key, so each phase is fully written
//     before the next begins.
//
// Target-side identifiers do not exist until insertion, so rows reference
// their parents by natural key: a generated statement embeds a lookup
// subquery instead of a concrete id. The lookup yields NULL when the key
// matches nothing; an orphaned reference is data, not an error.
package migrate
