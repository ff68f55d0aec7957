// Package store provides durable storage for PBS Admin records.
//
// Uses SQLite with WAL mode. The database is a single local file with a
// single writer - the application is single-user and local-first - so
// the connection pool is capped at one connection to avoid SQLITE_BUSY
// errors.
//
// All instants are stored in their canonical representation (RFC 3339
// UTC strings, see timeutil). Entity IDs are UUIDv7, assigned on create
// when the caller does not supply one; UUIDv7 embeds a timestamp, so
// IDs sort by creation time.
//
// Beyond entity CRUD the store persists rule firings, the idempotency
// records the automation engine consults to avoid double-firing a rule
// for the same entity.
package store
