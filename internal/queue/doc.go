// Package queue persists print jobs in SQLite and exposes helpers for
// driving their lifecycle.
//
// The Store manages database connections, schema initialization, stats
// queries, stuck-job recovery, and the claim protocol that hands each
// eligible job to exactly one worker. Jobs carry a typed payload that is
// serialized to an open JSON column only at the store boundary. Every status
// transition is mirrored into an append-only status event table on a
// best-effort basis: event writes happen after the job's own commit and
// their failures never roll back the transition.
//
// Treat this package as the single source of truth for queue semantics; when
// you add new statuses or payload fields, update schema.sql and bump
// schemaVersion.
package queue
