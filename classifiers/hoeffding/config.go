package hoeffding

import (
	"math"

	"github.com/gustavo-munhoz/rivu/classifiers/internal/criteria"
)

// LeafPrediction selects how a learning leaf turns its sufficient
// statistics into a class vote.
type LeafPrediction uint8

const (
	// MajorityClass predicts the class with the most observed weight.
	MajorityClass LeafPrediction = iota
	// NaiveBayes scores classes with the Naive Bayes formula once a leaf
	// has seen NBThreshold weight, and by majority class before that.
	NaiveBayes
	// NBAdaptive tracks which of MajorityClass/NaiveBayes has been more
	// accurate at this leaf so far, and predicts with the better one.
	NBAdaptive
)

// Config controls how a Tree grows and manages memory. Zero-valued fields
// are replaced with sensible defaults by norm.
type Config struct {
	// GracePeriod is the minimum number of new training weight a leaf must
	// accumulate between split re-evaluations.
	GracePeriod int `mapstructure:"grace_period"`
	// SplitCriterion scores candidate splits; Gini if nil.
	SplitCriterion criteria.SplitCriterion `mapstructure:"-"`
	// SplitConfidence is the Hoeffding bound's delta: the allowed
	// probability that the chosen split is wrong.
	SplitConfidence float64 `mapstructure:"split_confidence"`
	// TieThreshold lets a split proceed on a small merit gain once the
	// Hoeffding bound has shrunk below this value, so near-ties aren't
	// stalled forever waiting for certainty.
	TieThreshold float64 `mapstructure:"tie_threshold"`
	// LeafPrediction selects the leaf vote strategy for newly created
	// learning leaves.
	LeafPrediction LeafPrediction `mapstructure:"leaf_prediction"`
	// NBThreshold is the minimum weight a leaf must see before the
	// NaiveBayes and NBAdaptive strategies are allowed to use Naive Bayes
	// scoring instead of majority class.
	NBThreshold float64 `mapstructure:"nb_threshold"`
	// BinarySplitsOnly forces every candidate split, nominal included, to
	// be two-way.
	BinarySplitsOnly bool `mapstructure:"binary_splits_only"`
	// RemovePoorAttributes disables an attribute's observer once it is
	// judged unlikely ever to win a split, to save memory. Honored only
	// with MajorityClass leaf prediction; the Naive Bayes strategies need
	// every observer's likelihoods.
	RemovePoorAttributes bool `mapstructure:"remove_poor_attributes"`
	// NoPrePrune disables the "do nothing" null split option, forcing a
	// split whenever the Hoeffding bound is satisfied even with negative
	// merit gain.
	NoPrePrune bool `mapstructure:"no_pre_prune"`
	// MaxByteSize caps a tree's estimated memory footprint; once exceeded,
	// enforceTrackerLimit deactivates the least promising active leaves.
	MaxByteSize int64 `mapstructure:"max_byte_size"`
	// MemoryEstimatePeriod is how many training instances pass between
	// byte-size re-estimates (the enforceTrackerLimit cadence).
	MemoryEstimatePeriod int `mapstructure:"memory_estimate_period"`
	// StopMemManagement halts all further growth the first time MaxByteSize
	// is exceeded: the tree stops attempting splits from that point on, and
	// enforceTrackerLimit no longer promise-ranks or reactivates leaves on
	// later cycles. Leaves already active keep learning but can never split
	// or be deactivated again.
	StopMemManagement bool `mapstructure:"stop_mem_management"`
	// EnableTracing turns on per-Train() diagnostic Traces.
	EnableTracing bool `mapstructure:"enable_tracing"`
}

const (
	defaultGracePeriod        = 200
	defaultSplitConfidence    = 1e-7
	defaultTieThreshold       = 0.05
	defaultNBThreshold        = 0.0
	defaultMaxByteSize        = 33554432 // 32MiB
	defaultMemoryEstimatePrd  = 1000000
	minSplitConfidenceNonZero = defaultSplitConfidence
)

func (c *Config) norm(regression bool) {
	if c.GracePeriod <= 0 {
		c.GracePeriod = defaultGracePeriod
	}
	if c.SplitCriterion == nil {
		c.SplitCriterion = criteria.Gini{}
	}
	if c.SplitConfidence <= 0 {
		c.SplitConfidence = defaultSplitConfidence
	}
	if c.TieThreshold <= 0 {
		c.TieThreshold = defaultTieThreshold
	}
	if c.MaxByteSize <= 0 {
		c.MaxByteSize = defaultMaxByteSize
	}
	if c.MemoryEstimatePeriod <= 0 {
		c.MemoryEstimatePeriod = defaultMemoryEstimatePrd
	}
	_ = regression // classification only; kept for call-site symmetry
}

// hoeffdingBound is epsilon = sqrt(R^2 * ln(1/delta) / (2n)).
func hoeffdingBound(rangeOfMerit, confidence, weight float64) float64 {
	if confidence <= 0 {
		confidence = minSplitConfidenceNonZero
	}
	return math.Sqrt(rangeOfMerit * rangeOfMerit * math.Log(1.0/confidence) / (2.0 * weight))
}
