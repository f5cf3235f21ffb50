// Package handler implements the HTTP endpoints for the API.
//
// Handlers stay thin: decode the request, hand it to a service, map the
// result through the central error mapper, write JSON. All error
// responses are RFC 9457 Problem Details.
package handler
