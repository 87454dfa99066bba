// Package postgres implements the store interfaces against a PostgreSQL
// database. Writes that span a read-modify-write cycle run inside a
// transaction under a row lock; single-statement writes rely on conditional
// UPDATE/INSERT forms so concurrent requests cannot interleave.
package postgres
