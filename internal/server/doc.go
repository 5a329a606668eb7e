// Package server exposes the planning pipeline as a JSON HTTP API.
//
// Routes:
//
//	GET    /healthz
//	GET    /api/catalog
//	GET    /api/mindmap?objective=&format=json|dot|svg
//	GET    /api/allocation?vertical=&objective=&budget=&chart=pie|radar
//	POST   /api/plans
//	GET    /api/plans/{id}
//	GET    /api/plans/{id}/report.txt
//	DELETE /api/plans/{id}
//
// Errors are returned as {"code": ..., "message": ...}. Configuration and
// input errors map to 400, missing plans to 404 and unavailable features
// (such as PDF export without librsvg) to 501.
//
// Runtime settings come from CORTEX_* environment variables; see [Config].
package server
