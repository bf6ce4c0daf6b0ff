// Package server wires the HTTP API: session and feedback endpoints, the live
// update streams (SSE and WebSocket), health probes, and the metrics endpoint.
package server
