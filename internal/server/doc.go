// Package server exposes the calculator over HTTP.
//
// Routes are registered on a gorilla/mux router:
//
//	GET  /healthz
//	GET  /api/v1/tables
//	POST /api/v1/calc
//	POST /api/v1/calc/batch
//	POST /api/v1/report/pdf
//
// Every request gets an X-Request-ID (a ULID unless the client sent one)
// and an access log line. The /api routes are rate limited per client
// address with a token bucket.
package server
