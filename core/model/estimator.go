// Package model defines the capability interfaces every registered
// classifier implements. The pipeline is written against these interfaces
// only, so adding an algorithm never touches the runner or the reporter.
package model

import "gonum.org/v1/gonum/mat"

// Fitter is a model that can learn from data. y is an n×1 matrix of class
// indices.
type Fitter interface {
	// Fit trains the model. Learned state from a previous Fit is replaced.
	Fit(X, y mat.Matrix) error
}

// Predictor is a model that produces class predictions.
type Predictor interface {
	// Predict returns an n×1 matrix of predicted class indices, one row per
	// input row, in input order.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Classifier is the capability set the registry requires: fit, predict and
// a fixed hyperparameter dump for reproducibility logging.
type Classifier interface {
	Fitter
	Predictor

	// GetParams returns the hyperparameter configuration the model was
	// constructed with.
	GetParams() map[string]interface{}
}
