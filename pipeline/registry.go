package pipeline

import (
	"github.com/factoryml/effbench/core/model"
	"github.com/factoryml/effbench/dummy"
	"github.com/factoryml/effbench/ensemble"
	"github.com/factoryml/effbench/kernel"
	"github.com/factoryml/effbench/linear"
	"github.com/factoryml/effbench/neighbors"
	"github.com/factoryml/effbench/pkg/errors"
	"github.com/factoryml/effbench/tree"
)

// Factory produces a fresh unfit classifier with fixed default
// hyperparameters.
type Factory func() model.Classifier

type registryEntry struct {
	name    string
	factory Factory
}

// Registry holds the ordered set of candidate models. The runner and
// reporter only ever see the Classifier interface, so registering or
// removing an algorithm touches nothing but the registry.
type Registry struct {
	entries []registryEntry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a named factory. Duplicate names are a configuration
// error.
func (r *Registry) Register(name string, factory Factory) error {
	for _, e := range r.entries {
		if e.name == name {
			return errors.NewConfigurationError("model", "duplicate model name", name)
		}
	}
	r.entries = append(r.entries, registryEntry{name: name, factory: factory})
	return nil
}

// Names returns the registered model names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}
	return names
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	return len(r.entries)
}

func (r *Registry) lookup(name string) (registryEntry, bool) {
	for _, e := range r.entries {
		if e.name == name {
			return e, true
		}
	}
	return registryEntry{}, false
}

// Default model names.
const (
	ModelLogisticRegression = "logistic_regression"
	ModelDecisionTree       = "decision_tree"
	ModelRandomForest       = "random_forest"
	ModelAdaBoost           = "adaboost"
	ModelKNN                = "knn"
	ModelRBF                = "rbf"
	ModelMajority           = "majority_baseline"
)

// DefaultRegistry registers the stock model zoo: one representative of the
// linear, tree, tree-ensemble, boosting, instance-based and kernel
// families, plus the majority baseline.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(ModelLogisticRegression, func() model.Classifier {
		return linear.NewLogisticRegression()
	})
	_ = r.Register(ModelDecisionTree, func() model.Classifier {
		return tree.NewDecisionTreeClassifier(tree.WithMaxDepth(10))
	})
	_ = r.Register(ModelRandomForest, func() model.Classifier {
		return ensemble.NewRandomForestClassifier()
	})
	_ = r.Register(ModelAdaBoost, func() model.Classifier {
		return ensemble.NewAdaBoostClassifier()
	})
	_ = r.Register(ModelKNN, func() model.Classifier {
		return neighbors.NewKNNClassifier()
	})
	_ = r.Register(ModelRBF, func() model.Classifier {
		return kernel.NewRBFClassifier()
	})
	_ = r.Register(ModelMajority, func() model.Classifier {
		return dummy.NewMajorityClassifier()
	})
	return r
}
