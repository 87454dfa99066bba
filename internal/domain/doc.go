// Package domain contains the entities of the adaptive learning core:
// per-user cuecard scheduling state, completed learning sessions with their
// item-level responses, and learning gaps. Entities validate themselves and
// carry no persistence concerns.
package domain
