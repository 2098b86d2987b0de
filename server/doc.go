// Package server exposes the document search engine over HTTP.
//
// The API mirrors a single-active-document model: POST /upload loads a
// document, GET /search runs term searches against it, and
// GET /search/render returns the highlighted markup for a query.
// GET /api/search queries the persistent corpus index across all
// ingested documents. Errors are returned as JSON {"detail": "..."}.
package server
