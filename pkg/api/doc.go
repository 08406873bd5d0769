// Package api implements the HTTP server (Gin-based) hosting the registry
// endpoints, health and metrics, and the optional static frontend.
package api
