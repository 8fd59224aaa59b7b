package dataset

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/factoryml/effbench/pkg/errors"
)

// SplitOptions configures TrainTestSplit. The zero value is not useful;
// start from DefaultSplitOptions.
type SplitOptions struct {
	// TrainFraction is the share of records assigned to the training subset,
	// in (0, 1).
	TrainFraction float64

	// Seed drives the shuffle. The same seed over the same data always
	// yields the same partition.
	Seed int64

	// Stratify keeps the per-class proportions of the source data in both
	// subsets. Off by default; the plain split makes no distribution
	// guarantee.
	Stratify bool
}

// DefaultSplitOptions mirrors the conventional 80/20 split with a fixed
// seed.
func DefaultSplitOptions() SplitOptions {
	return SplitOptions{TrainFraction: 0.8, Seed: 42}
}

// TrainTestSplit partitions d into train and test subsets. The training
// subset receives round(fraction × N) records, clamped so both subsets stay
// non-empty, and the test subset receives the remainder.
func TrainTestSplit(d *Dataset, opts SplitOptions) (*Split, error) {
	if opts.TrainFraction <= 0 || opts.TrainFraction >= 1 {
		return nil, errors.NewConfigurationError("train_fraction", "must be in (0, 1)", opts.TrainFraction)
	}
	n := d.Len()
	if n < 2 {
		return nil, errors.NewConfigurationError("dataset", "need at least 2 records to form both subsets", n)
	}
	if len(d.Y) != n {
		return nil, errors.NewDimensionError("TrainTestSplit", n, len(d.Y), 0)
	}

	nTrain := int(math.Round(opts.TrainFraction * float64(n)))
	if nTrain < 1 {
		nTrain = 1
	}
	if nTrain > n-1 {
		nTrain = n - 1
	}

	var trainIdx, testIdx []int
	if opts.Stratify {
		trainIdx, testIdx = stratifiedIndices(d.Y, nTrain, opts.Seed)
	} else {
		indices := shuffledIndices(n, opts.Seed)
		trainIdx = indices[:nTrain]
		testIdx = indices[nTrain:]
	}

	return &Split{
		Train: d.Subset(trainIdx),
		Test:  d.Subset(testIdx),
	}, nil
}

func shuffledIndices(n int, seed int64) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	r.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	return indices
}

// stratifiedIndices draws a proportional share of each class into the
// training subset. Rounding leftovers are settled by largest remainder so
// the overall train size stays nTrain.
func stratifiedIndices(y []int, nTrain int, seed int64) (train, test []int) {
	n := len(y)
	byClass := make(map[int][]int)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}

	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	fraction := float64(nTrain) / float64(n)

	type share struct {
		class     int
		take      int
		remainder float64
	}
	shares := make([]share, 0, len(classes))
	taken := 0
	for _, c := range classes {
		indices := byClass[c]
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		exact := fraction * float64(len(indices))
		take := int(math.Floor(exact))
		shares = append(shares, share{class: c, take: take, remainder: exact - math.Floor(exact)})
		taken += take
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].remainder > shares[j].remainder
	})
	for i := 0; taken < nTrain && i < len(shares); i++ {
		if shares[i].take < len(byClass[shares[i].class]) {
			shares[i].take++
			taken++
		}
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].class < shares[j].class
	})

	for _, s := range shares {
		indices := byClass[s.class]
		train = append(train, indices[:s.take]...)
		test = append(test, indices[s.take:]...)
	}
	return train, test
}
