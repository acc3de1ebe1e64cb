// Package orchestrator wires the settings directory, the feature toggles and
// the renderer registry behind a single entry point: build the requested
// page, apply a submission, snapshot the active tab and render it.
package orchestrator
