// Command rivu runs a streaming Hoeffding-tree classifier, either from
// scripted flags or through an interactive wizard when none are given.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := newRootCmd(log).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rivu:", err)
		os.Exit(1)
	}
}
