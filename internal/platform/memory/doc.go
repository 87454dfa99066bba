// Package memory provides in-memory implementations of the store interfaces.
// They uphold the same contracts as the PostgreSQL stores (per-key locking,
// all-or-nothing batches, one active gap per content) and exist so services
// can be exercised without a database. Setting FailWith on a store makes
// every call return that error, which tests use to simulate store outages.
package memory
