package model

// EstimatorState tracks whether a model holds learned state.
type EstimatorState int

const (
	// NotFitted means Fit has not completed yet.
	NotFitted EstimatorState = iota
	// Fitted means the model holds learned state and may predict.
	Fitted
)

// BaseEstimator is embedded by every classifier to track fitted state.
// Calling Fit again replaces the learned state and the embedder should call
// Reset followed by SetFitted around the refit.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether the model has been fitted.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the model as fitted.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the model to the unfit state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
