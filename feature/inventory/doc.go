// Package inventory implements the read-only experience inventory API.
//
// It serves whatever the sync pipeline last reconciled into the store;
// provider outages degrade freshness, never this API's error rate.
//
// # Components
//
//   - Service: slot and date queries over the GORM store.
//   - Handler: the Fiber HTTP endpoints.
//   - Loader: registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET /api/v1/experience/:id/slots?date=YYYYMMDD : slot catalog for one date.
//   - GET /api/v1/experience/:id/dates : available dates over the next 60 days.
package inventory
