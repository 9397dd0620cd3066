package hoeffding_test

import (
	"fmt"
	"os"

	"github.com/gustavo-munhoz/rivu/classifiers/hoeffding"
	"github.com/gustavo-munhoz/rivu/core"
)

func Example_weather() {
	model := core.NewModel(
		// Target
		&core.Attribute{Name: "play", Kind: core.AttributeKindNominal, Values: core.NewAttributeValues("yes", "no")},

		// Predictors
		&core.Attribute{Name: "outlook", Kind: core.AttributeKindNominal},
		&core.Attribute{Name: "temperature", Kind: core.AttributeKindNumeric},
		&core.Attribute{Name: "humidity", Kind: core.AttributeKindNumeric},
		&core.Attribute{Name: "windy", Kind: core.AttributeKindNominal},
	)

	// Training set data
	trainingSet := []core.MapInstance{
		{"outlook": "sunny", "temperature": 85.0, "humidity": 85.0, "windy": "FALSE", "play": "no"},
		{"outlook": "sunny", "temperature": 80.0, "humidity": 90.0, "windy": "TRUE", "play": "no"},
		{"outlook": "overcast", "temperature": 83.0, "humidity": 86.0, "windy": "FALSE", "play": "yes"},
		{"outlook": "rainy", "temperature": 70.0, "humidity": 96.0, "windy": "FALSE", "play": "yes"},
		{"outlook": "rainy", "temperature": 68.0, "humidity": 80.0, "windy": "FALSE", "play": "yes"},
		{"outlook": "rainy", "temperature": 65.0, "humidity": 70.0, "windy": "TRUE", "play": "no"},
		{"outlook": "overcast", "temperature": 64.0, "humidity": 65.0, "windy": "TRUE", "play": "yes"},
		{"outlook": "sunny", "temperature": 72.0, "humidity": 95.0, "windy": "FALSE", "play": "no"},
		{"outlook": "sunny", "temperature": 69.0, "humidity": 70.0, "windy": "FALSE", "play": "yes"},
		{"outlook": "rainy", "temperature": 75.0, "humidity": 80.0, "windy": "FALSE", "play": "yes"},
		{"outlook": "sunny", "temperature": 75.0, "humidity": 70.0, "windy": "TRUE", "play": "yes"},
		{"outlook": "overcast", "temperature": 72.0, "humidity": 90.0, "windy": "TRUE", "play": "yes"},
		{"outlook": "overcast", "temperature": 81.0, "humidity": 75.0, "windy": "FALSE", "play": "yes"},
		{"outlook": "rainy", "temperature": 71.0, "humidity": 91.0, "windy": "TRUE", "play": "no"},
	}

	// Train the tree
	tree := hoeffding.New(model, &hoeffding.Config{GracePeriod: 1, EnableTracing: true})
	for _, inst := range trainingSet {
		if trace := tree.Train(inst); trace != nil && trace.Split {
			fmt.Printf("split on %s\n", trace.PossibleSplits[0].Predictor)
		}
	}
	tree.WriteGraph(os.Stdout)

	// Predict
	predicted := tree.Predict(core.MapInstance{"outlook": "sunny", "temperature": 85.0, "humidity": 85.0, "windy": "FALSE"})
	_ = predicted.Top().Value()
}
