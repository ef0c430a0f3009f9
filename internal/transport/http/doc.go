// Package http contains the chi handlers of the REST API. Handlers
// decode and validate a request, call one service method, and render the
// result; every error goes through the RFC 7807 error handler.
//
// Routes are grouped per resource: /api/datasets for ingestion, quality
// analysis, and cleaning; /api/insights for insight reports; /api/charts
// for chart configurations; /api/explain for attribution plots; and
// /api/operations for multi-step analysis runs. The websocket endpoint
// at /ws streams run snapshots.
package http
