// Package store defines the persistence ports of the learning core and
// shared store errors. Implementations live under internal/platform.
package store
