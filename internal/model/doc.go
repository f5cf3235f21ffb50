// Package model defines the domain types for Gatherly: events, RSVPs,
// session identity, request/response shapes, and API error types.
//
// Types in this package are plain data with validation methods; they carry
// no database or transport dependencies.
package model
