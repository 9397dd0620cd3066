package eval

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/gustavo-munhoz/rivu/core"
)

// Stream is the instance source a prequential run pulls from.
type Stream interface {
	Header() *core.InstanceHeader
	HasMore() bool
	Next() (core.Instance, bool)
}

// classValuer is implemented by instances that know their own resolved
// class index (core.VectorInstance does); the loop needs it to compare
// the learner's prediction against ground truth without threading the
// class attribute through separately.
type classValuer interface {
	ClassValue() int
}

// Snapshot is one point on the learning curve: the prequential metrics as
// of instancesSeen test-then-train steps.
type Snapshot struct {
	RunID         uuid.UUID
	InstancesSeen uint64
	Accuracy      float64
	Kappa         float64
	RAMHours      float64
	Seconds       float64
	Extras        map[string]float64
}

// learner is the minimal predict+train contract the loop drives. A
// *hoeffding.Tree satisfies it through the hoeffding.ForPrequential
// adapter, whose Train discards the *hoeffding.Trace that Tree.Train
// returns.
type learner interface {
	Predict(inst core.Instance) core.Prediction
	Train(inst core.Instance)
	ByteSize() int64
}

// Prequential drives a learner against a stream with test-then-train
// semantics: every instance is scored before it is used to train,
// so the accuracy curve never benefits from having already seen the
// instance it is being measured against.
type Prequential struct {
	runID uuid.UUID
	log   zerolog.Logger

	learner   learner
	stream    Stream
	evaluator Evaluator

	maxInstances uint64 // 0 = unbounded
	maxSeconds   float64
	sampleFreq   uint64
	memCheckFreq uint64

	onSnapshot func(Snapshot)

	processed uint64
	startCPU  time.Time
	lastMem   time.Time
	ramHours  float64

	snapshots []Snapshot
}

// Option configures a Prequential loop at construction time.
type Option func(*Prequential)

// WithMaxInstances stops the loop after n instances have been processed.
func WithMaxInstances(n uint64) Option { return func(p *Prequential) { p.maxInstances = n } }

// WithMaxSeconds stops the loop once s CPU-seconds of training have
// elapsed (CPU time, not wall time).
func WithMaxSeconds(s float64) Option { return func(p *Prequential) { p.maxSeconds = s } }

// WithSnapshotSink registers a callback invoked with every emitted
// Snapshot, in addition to it being appended to Curve().
func WithSnapshotSink(fn func(Snapshot)) Option {
	return func(p *Prequential) { p.onSnapshot = fn }
}

// WithLogger attaches a zerolog.Logger the loop uses for progress lines.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Prequential) { p.log = log }
}

// NewPrequential builds a prequential loop. sampleFrequency and
// memCheckFrequency must both be > 0.
func NewPrequential(l learner, stream Stream, evaluator Evaluator, sampleFrequency, memCheckFrequency uint64, opts ...Option) (*Prequential, error) {
	if sampleFrequency == 0 {
		return nil, errors.New("sample_frequency must be > 0")
	}
	if memCheckFrequency == 0 {
		return nil, errors.New("mem_check_frequency must be > 0")
	}

	p := &Prequential{
		runID:        uuid.New(),
		log:          zerolog.Nop(),
		learner:      l,
		stream:       stream,
		evaluator:    evaluator,
		sampleFreq:   sampleFrequency,
		memCheckFreq: memCheckFrequency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// RunID returns the UUID this run tags every Snapshot with, so that
// multiple concurrent runs writing to a shared sink can be told apart.
func (p *Prequential) RunID() uuid.UUID { return p.runID }

// Curve returns every snapshot emitted so far, in instances_seen order.
func (p *Prequential) Curve() []Snapshot { return p.snapshots }

// Run drives the loop to completion: max_instances reached, max_seconds of
// CPU time elapsed, or the stream runs dry, whichever comes first. A final
// RAM-hours update and snapshot are always emitted before returning.
func (p *Prequential) Run() error {
	p.startCPU = cpuTimeNow()
	p.lastMem = p.startCPU

	for p.stream.HasMore() {
		if p.maxInstances > 0 && p.processed >= p.maxInstances {
			break
		}
		if p.maxSeconds > 0 && cpuTimeNow().Sub(p.startCPU).Seconds() >= p.maxSeconds {
			break
		}

		inst, ok := p.stream.Next()
		if !ok {
			break
		}
		p.processed++

		votes := p.learner.Predict(inst)
		actual := -1
		if cv, ok := inst.(classValuer); ok {
			actual = cv.ClassValue()
		}
		predicted := -1
		if len(votes) > 0 {
			predicted = votes.Index()
		}
		p.evaluator.Update(actual, predicted, inst.Weight())

		p.learner.Train(inst)

		if p.processed%p.memCheckFreq == 0 {
			p.bumpRAMHours()
		}
		if p.processed%p.sampleFreq == 0 {
			p.pushSnapshot()
			p.log.Debug().
				Uint64("instances_seen", p.processed).
				Msg("prequential snapshot")
		}
	}

	p.bumpRAMHours()
	p.pushSnapshot()
	return nil
}

func (p *Prequential) pushSnapshot() {
	secs := cpuTimeNow().Sub(p.startCPU).Seconds()
	meas := p.evaluator.Measurements()

	snap := Snapshot{
		RunID:         p.runID,
		InstancesSeen: p.processed,
		Accuracy:      meas["accuracy"],
		Kappa:         meas["kappa"],
		RAMHours:      p.ramHours,
		Seconds:       secs,
		Extras:        map[string]float64{},
	}
	for name, v := range meas {
		if name == "accuracy" || name == "kappa" {
			continue
		}
		snap.Extras[name] = v
	}

	p.snapshots = append(p.snapshots, snap)
	if p.onSnapshot != nil {
		p.onSnapshot(snap)
	}
}

func (p *Prequential) bumpRAMHours() {
	now := cpuTimeNow()
	dt := now.Sub(p.lastMem)
	p.lastMem = now

	dtHours := dt.Seconds() / 3600.0
	modelGB := float64(p.learner.ByteSize()) / (1024.0 * 1024.0 * 1024.0)
	p.ramHours += modelGB * dtHours
}
