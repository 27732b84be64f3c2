// Package orchestration runs the prediction workflow: it validates a
// submission, fetches the raw series, fans out to the model and future
// branches, and commits their outcomes to the status controller and the
// view model for the current request only.
package orchestration
