// Package gateway is the typed HTTP JSON client for the prediction back end.
//
// Each operation issues exactly one POST request and never retries. Failures
// are reported as apperrors.GatewayError, classified as network failures,
// non-2xx statuses or malformed bodies. Every call is traced with
// OpenTelemetry, observed in Prometheus and logged at debug level.
package gateway
