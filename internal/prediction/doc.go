// Package prediction holds the domain types shared by the validator, the
// gateway, the orchestrator and the view model: model kinds, price series,
// prediction requests and model results.
package prediction
