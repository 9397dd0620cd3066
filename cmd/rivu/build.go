package main

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/gustavo-munhoz/rivu/classifiers/hoeffding"
	"github.com/gustavo-munhoz/rivu/core"
	"github.com/gustavo-munhoz/rivu/eval"
	"github.com/gustavo-munhoz/rivu/streams/arff"
	"github.com/gustavo-munhoz/rivu/streams/generators"
)

// buildStream constructs the configured stream kind from its dotted-key
// "--stream-param k=v" parameters.
func buildStream(kind string, params []string, log zerolog.Logger) (eval.Stream, error) {
	v, err := paramViper(params)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "arff":
		path := v.GetString("path")
		if path == "" {
			return nil, errors.New("arff stream requires --stream-param path=<file>")
		}
		opts := []arff.Option{arff.WithLogger(log)}
		if v.IsSet("class_index") {
			opts = append(opts, arff.WithClassIndex(v.GetInt("class_index")))
		}
		return arff.Open(path, opts...)

	case "sea":
		functionID := 1
		if v.IsSet("function_id") {
			functionID = v.GetInt("function_id")
		}
		return generators.NewSEA(
			functionID,
			v.GetFloat64("noise_pct"),
			v.GetBool("balance"),
			seedOrDefault(v, 1),
			uint64(v.GetInt64("max_instances")),
		)

	case "random-tree":
		numNominal := v.GetInt("num_nominal")
		nominalCard := orDefault(v.GetInt("nominal_card"), 5)
		numNumeric := orDefault(v.GetInt("num_numeric"), 5)
		numClasses := orDefault(v.GetInt("num_classes"), 2)
		maxDepth := orDefault(v.GetInt("max_tree_depth"), 5)
		return generators.NewRandomTree(
			numNominal, nominalCard, numNumeric, numClasses, maxDepth,
			seedOrDefault(v, 1),
			uint64(v.GetInt64("max_instances")),
		)

	default:
		return nil, errors.Errorf("unknown stream kind %q", kind)
	}
}

func seedOrDefault(v interface{ GetInt64(string) int64 }, def int64) int64 {
	s := v.GetInt64("seed")
	if s == 0 {
		return def
	}
	return s
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// buildEvaluator constructs the configured performance evaluator.
func buildEvaluator(kind string, params []string, numClasses int) (eval.Evaluator, error) {
	v, err := paramViper(params)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "basic", "":
		n := numClasses
		if v.IsSet("num_classes") {
			n = v.GetInt("num_classes")
		}
		return eval.NewBasicClassificationEvaluator(n), nil
	default:
		return nil, errors.Errorf("unknown evaluator kind %q", kind)
	}
}

// buildLearner constructs the configured "--learner <kind>".
func buildLearner(kind string, params []string, model *core.Model) (*hoeffding.Tree, error) {
	v, err := paramViper(params)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "hoeffding-tree", "":
		conf := new(hoeffding.Config)
		if err := v.Unmarshal(conf); err != nil {
			return nil, errors.Wrap(err, "binding learner params")
		}
		return hoeffding.New(model, conf), nil
	default:
		return nil, errors.Errorf("unknown learner kind %q", kind)
	}
}
