package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gustavo-munhoz/rivu/classifiers/hoeffding"
	"github.com/gustavo-munhoz/rivu/eval"
)

type evaluateFlags struct {
	learnerKind     string
	learnerParams   []string
	streamKind      string
	streamParams    []string
	evaluatorKind   string
	evaluatorParams []string
	maxInstances    int64
	maxSeconds      float64
	sampleFrequency int64
	memCheckFreq    int64
	dumpFile        string
	dumpFormat      string
}

func newEvaluatePrequentialCmd(log zerolog.Logger) *cobra.Command {
	f := &evaluateFlags{}

	cmd := &cobra.Command{
		Use:   "evaluate-prequential",
		Short: "Run a learner against a stream with test-then-train semantics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluatePrequential(log, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.learnerKind, "learner", "hoeffding-tree", "learner kind")
	flags.StringArrayVar(&f.learnerParams, "learner-param", nil, "learner parameter k=v (repeatable)")
	flags.StringVar(&f.streamKind, "stream", "", "stream kind (arff, sea, random-tree)")
	flags.StringArrayVar(&f.streamParams, "stream-param", nil, "stream parameter k=v (repeatable)")
	flags.StringVar(&f.evaluatorKind, "evaluator", "basic", "evaluator kind")
	flags.StringArrayVar(&f.evaluatorParams, "evaluator-param", nil, "evaluator parameter k=v (repeatable)")
	flags.Int64Var(&f.maxInstances, "max-instances", 0, "stop after this many instances (0 = unbounded)")
	flags.Float64Var(&f.maxSeconds, "max-seconds", 0, "stop after this many CPU-seconds (0 = unbounded)")
	flags.Int64Var(&f.sampleFrequency, "sample-frequency", 100000, "instances between snapshots (>=1)")
	flags.Int64Var(&f.memCheckFreq, "mem-check-frequency", 100000, "instances between RAM-hour updates (>=1)")
	flags.StringVar(&f.dumpFile, "dump-file", "", "write the learning curve to this file")
	flags.StringVar(&f.dumpFormat, "dump-format", "csv", "csv, tsv, or json")

	cmd.MarkFlagRequired("stream")
	return cmd
}

func runEvaluatePrequential(log zerolog.Logger, f *evaluateFlags) error {
	if f.sampleFrequency <= 0 {
		return errors.New("--sample-frequency must be >= 1")
	}
	if f.memCheckFreq <= 0 {
		return errors.New("--mem-check-frequency must be >= 1")
	}

	stream, err := buildStream(f.streamKind, f.streamParams, log)
	if err != nil {
		return errors.Wrap(err, "building stream")
	}
	if closer, ok := stream.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	header := stream.Header()
	model := header.Model()

	evaluator, err := buildEvaluator(f.evaluatorKind, f.evaluatorParams, model.NumClasses())
	if err != nil {
		return errors.Wrap(err, "building evaluator")
	}

	tree, err := buildLearner(f.learnerKind, f.learnerParams, model)
	if err != nil {
		return errors.Wrap(err, "building learner")
	}

	opts := []eval.Option{WithSnapshotLog(log)}
	if f.maxInstances > 0 {
		opts = append(opts, eval.WithMaxInstances(uint64(f.maxInstances)))
	}
	if f.maxSeconds > 0 {
		opts = append(opts, eval.WithMaxSeconds(f.maxSeconds))
	}

	pq, err := eval.NewPrequential(
		hoeffding.ForPrequential{Tree: tree},
		stream,
		evaluator,
		uint64(f.sampleFrequency),
		uint64(f.memCheckFreq),
		opts...,
	)
	if err != nil {
		return errors.Wrap(err, "constructing prequential loop")
	}

	if err := pq.Run(); err != nil {
		return errors.Wrap(err, "running prequential loop")
	}

	log.Info().
		Int("snapshots", len(pq.Curve())).
		Msg("prequential run complete")

	if f.dumpFile == "" {
		return nil
	}

	format := eval.ExportFormat(f.dumpFormat)
	out, err := os.Create(f.dumpFile)
	if err != nil {
		return errors.Wrap(err, "creating dump file")
	}
	defer out.Close()

	if err := eval.Export(out, pq.Curve(), format); err != nil {
		return errors.Wrap(err, "exporting learning curve")
	}
	return nil
}

// WithSnapshotLog logs a line per emitted snapshot, in addition to the
// loop's own debug line, at info level with the headline metrics.
func WithSnapshotLog(log zerolog.Logger) eval.Option {
	return eval.WithSnapshotSink(func(s eval.Snapshot) {
		log.Info().
			Uint64("instances_seen", s.InstancesSeen).
			Float64("accuracy", s.Accuracy).
			Float64("kappa", s.Kappa).
			Float64("ram_hours", s.RAMHours).
			Msg("snapshot")
	})
}
