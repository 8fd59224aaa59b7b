// Package effbench is a model-comparison harness for manufacturing
// efficiency classification. It takes a tabular feature matrix with a
// categorical efficiency label, splits it deterministically, standardizes
// features on the training subset only, fits a registry of heterogeneous
// classifiers under one fit/predict interface and produces a comparable
// evaluation record (accuracy, per-class precision/recall/F1 and a
// full-domain confusion matrix) per model.
//
// The entry point is the pipeline package:
//
//	p := pipeline.New(pipeline.DefaultRegistry(),
//	    pipeline.WithSeed(42),
//	    pipeline.WithTrainFraction(0.8),
//	)
//	result, err := p.Run(ctx, data, classes)
//
// A model that fails to fit or predict is recorded with a failed status
// and the remaining models still run; the comparison table never hides a
// failure.
package effbench
