// Package store implements the structure store: the single owner of one
// scope's steps and fields.
//
// Loads replace the snapshot wholesale and may be cancelled by a newer load or
// by Close; a superseded response is never applied. Mutations are
// commit-then-apply: the request is sent first and local state changes only
// once the backend confirms it. Failures are recorded in State for passive
// observers and returned to the caller as *Error.
package store
