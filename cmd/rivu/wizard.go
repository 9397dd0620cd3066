package main

import (
	"github.com/manifoldco/promptui"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// runWizard drives an interactive prompt sequence (task, learner,
// stream, evaluator in order) that ends up calling the same
// runEvaluatePrequential path the scripted surface uses.
func runWizard(log zerolog.Logger) error {
	task, err := selectOne("Task", []string{"evaluate-prequential"})
	if err != nil {
		return err
	}
	if task != "evaluate-prequential" {
		return errors.Errorf("unsupported task %q", task)
	}

	learnerKind, err := selectOne("Learner", []string{"hoeffding-tree"})
	if err != nil {
		return err
	}

	streamKind, err := selectOne("Stream", []string{"arff", "sea", "random-tree"})
	if err != nil {
		return err
	}

	var streamParams []string
	switch streamKind {
	case "arff":
		path, err := promptText("ARFF file path", "")
		if err != nil {
			return err
		}
		streamParams = append(streamParams, "path="+path)
	case "sea":
		fn, err := promptText("SEA function id (1-4)", "1")
		if err != nil {
			return err
		}
		streamParams = append(streamParams, "function_id="+fn)
	case "random-tree":
		classes, err := promptText("Number of classes", "2")
		if err != nil {
			return err
		}
		streamParams = append(streamParams, "num_classes="+classes)
	}

	evaluatorKind, err := selectOne("Evaluator", []string{"basic"})
	if err != nil {
		return err
	}

	f := &evaluateFlags{
		learnerKind:     learnerKind,
		streamKind:      streamKind,
		streamParams:    streamParams,
		evaluatorKind:   evaluatorKind,
		sampleFrequency: 100000,
		memCheckFreq:    100000,
		dumpFormat:      "csv",
	}

	return runEvaluatePrequential(log, f)
}

func selectOne(label string, items []string) (string, error) {
	prompt := promptui.Select{Label: label, Items: items}
	_, result, err := prompt.Run()
	if err != nil {
		return "", errors.Wrapf(err, "prompt %q", label)
	}
	return result, nil
}

func promptText(label, def string) (string, error) {
	prompt := promptui.Prompt{Label: label, Default: def}
	result, err := prompt.Run()
	if err != nil {
		return "", errors.Wrapf(err, "prompt %q", label)
	}
	return result, nil
}
