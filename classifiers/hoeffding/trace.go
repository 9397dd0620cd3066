package hoeffding

// TracePossibleSplit is one candidate split considered during a Train call
// that triggered split evaluation.
type TracePossibleSplit struct {
	Predictor string
	Merit     float64
}

// Trace describes the split decision made (or not made) by a single Train
// call, when Config.EnableTracing is set.
type Trace struct {
	PossibleSplits []TracePossibleSplit
	MeritGain      float64
	HoeffdingBound float64
	Split          bool
}
