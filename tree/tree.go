// Package tree implements a CART decision tree classifier. It doubles as
// the base learner for the ensemble classifiers.
package tree

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/factoryml/effbench/core/model"
	"github.com/factoryml/effbench/pkg/errors"
)

// DecisionTreeClassifier is a binary-split classification tree grown
// greedily on an impurity criterion.
type DecisionTreeClassifier struct {
	model.BaseEstimator

	criterion       string // "gini" or "entropy"
	maxDepth        int    // <= 0 means unlimited
	minSamplesSplit int
	maxFeatures     int // 0 means consider all features at each split
	seed            int64

	root      *node
	nFeatures int
	nClasses  int
}

type node struct {
	leaf      bool
	class     int
	feature   int
	threshold float64
	left      *node
	right     *node
}

// Option configures a DecisionTreeClassifier.
type Option func(*DecisionTreeClassifier)

// WithCriterion selects the split impurity criterion, "gini" or "entropy".
func WithCriterion(criterion string) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.criterion = criterion
	}
}

// WithMaxDepth limits tree depth. Values <= 0 leave it unlimited.
func WithMaxDepth(depth int) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.maxDepth = depth
	}
}

// WithMinSamplesSplit sets the minimum node size eligible for splitting.
func WithMinSamplesSplit(n int) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.minSamplesSplit = n
	}
}

// WithMaxFeatures limits how many randomly chosen features each split
// considers. Used by the forest; 0 considers every feature.
func WithMaxFeatures(n int) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.maxFeatures = n
	}
}

// WithSeed fixes the feature subsampling randomness.
func WithSeed(seed int64) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.seed = seed
	}
}

// NewDecisionTreeClassifier creates a tree with gini criterion, unlimited
// depth and min split size 2.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	dt := &DecisionTreeClassifier{
		criterion:       "gini",
		minSamplesSplit: 2,
		seed:            0,
	}
	for _, opt := range opts {
		opt(dt)
	}
	return dt
}

// Fit grows the tree on X and the n×1 class-index matrix y.
func (dt *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	n, f := X.Dims()
	yr, yc := y.Dims()
	if n == 0 {
		return errors.Wrap(errors.ErrEmptyData, "DecisionTreeClassifier.Fit")
	}
	if yr != n {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", n, yr, 0)
	}
	if yc != 1 {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", 1, yc, 1)
	}
	if dt.criterion != "gini" && dt.criterion != "entropy" {
		return errors.NewValueError("DecisionTreeClassifier.Fit", "criterion must be gini or entropy")
	}

	dt.Reset()
	dt.nFeatures = f
	labels := make([]int, n)
	dt.nClasses = 0
	for i := 0; i < n; i++ {
		labels[i] = int(y.At(i, 0))
		if labels[i] < 0 {
			return errors.NewValueError("DecisionTreeClassifier.Fit", "negative class index")
		}
		if labels[i]+1 > dt.nClasses {
			dt.nClasses = labels[i] + 1
		}
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	r := rand.New(rand.NewPCG(uint64(dt.seed), uint64(dt.seed)))
	dt.root = dt.grow(X, labels, indices, 0, r)
	dt.SetFitted()
	return nil
}

func (dt *DecisionTreeClassifier) grow(X mat.Matrix, labels, indices []int, depth int, r *rand.Rand) *node {
	counts := make([]int, dt.nClasses)
	for _, idx := range indices {
		counts[labels[idx]]++
	}
	majority := argmax(counts)

	if len(indices) < dt.minSamplesSplit ||
		(dt.maxDepth > 0 && depth >= dt.maxDepth) ||
		counts[majority] == len(indices) {
		return &node{leaf: true, class: majority}
	}

	feature, threshold, ok := dt.bestSplit(X, labels, indices, r)
	if !ok {
		return &node{leaf: true, class: majority}
	}

	var left, right []int
	for _, idx := range indices {
		if X.At(idx, feature) <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &node{leaf: true, class: majority}
	}

	return &node{
		feature:   feature,
		threshold: threshold,
		left:      dt.grow(X, labels, left, depth+1, r),
		right:     dt.grow(X, labels, right, depth+1, r),
	}
}

// bestSplit scans candidate features with a sorted sweep, tracking class
// counts on each side of the moving threshold.
func (dt *DecisionTreeClassifier) bestSplit(X mat.Matrix, labels, indices []int, r *rand.Rand) (int, float64, bool) {
	features := dt.candidateFeatures(r)

	bestImpurity := math.Inf(1)
	bestFeature := -1
	bestThreshold := 0.0
	n := len(indices)

	sorted := make([]int, n)
	for _, f := range features {
		copy(sorted, indices)
		sort.Slice(sorted, func(a, b int) bool {
			return X.At(sorted[a], f) < X.At(sorted[b], f)
		})

		leftCounts := make([]int, dt.nClasses)
		rightCounts := make([]int, dt.nClasses)
		for _, idx := range sorted {
			rightCounts[labels[idx]]++
		}

		for i := 0; i < n-1; i++ {
			c := labels[sorted[i]]
			leftCounts[c]++
			rightCounts[c]--

			v, next := X.At(sorted[i], f), X.At(sorted[i+1], f)
			if v == next {
				continue
			}

			nl, nr := i+1, n-i-1
			impurity := (float64(nl)*dt.impurity(leftCounts, nl) +
				float64(nr)*dt.impurity(rightCounts, nr)) / float64(n)
			if impurity < bestImpurity {
				bestImpurity = impurity
				bestFeature = f
				bestThreshold = (v + next) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func (dt *DecisionTreeClassifier) candidateFeatures(r *rand.Rand) []int {
	features := make([]int, dt.nFeatures)
	for i := range features {
		features[i] = i
	}
	if dt.maxFeatures <= 0 || dt.maxFeatures >= dt.nFeatures {
		return features
	}
	r.Shuffle(len(features), func(i, j int) {
		features[i], features[j] = features[j], features[i]
	})
	return features[:dt.maxFeatures]
}

func (dt *DecisionTreeClassifier) impurity(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	switch dt.criterion {
	case "entropy":
		h := 0.0
		for _, c := range counts {
			if c == 0 {
				continue
			}
			p := float64(c) / float64(total)
			h -= p * math.Log2(p)
		}
		return h
	default: // gini
		g := 1.0
		for _, c := range counts {
			p := float64(c) / float64(total)
			g -= p * p
		}
		return g
	}
}

// Predict returns an n×1 matrix of predicted class indices.
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !dt.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeClassifier", "Predict")
	}
	n, f := X.Dims()
	if f != dt.nFeatures {
		return nil, errors.NewDimensionError("DecisionTreeClassifier.Predict", dt.nFeatures, f, 1)
	}

	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		nd := dt.root
		for !nd.leaf {
			if X.At(i, nd.feature) <= nd.threshold {
				nd = nd.left
			} else {
				nd = nd.right
			}
		}
		out.Set(i, 0, float64(nd.class))
	}
	return out, nil
}

// GetParams returns the tree's hyperparameters.
func (dt *DecisionTreeClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"criterion":         dt.criterion,
		"max_depth":         dt.maxDepth,
		"min_samples_split": dt.minSamplesSplit,
		"max_features":      dt.maxFeatures,
		"seed":              dt.seed,
	}
}

func argmax(counts []int) int {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}
