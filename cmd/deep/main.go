// Package main provides the Deep CLI.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/backend/cpu"

	"github.com/born-ml/deep/keras"
	"github.com/born-ml/deep/loss"
	"github.com/born-ml/deep/metric"
	"github.com/born-ml/deep/optim"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("Deep %s\n", version)
	case "summary":
		if err := summary(os.Args[2:]); err != nil {
			log.Fatal(err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("Deep - Keras-style model API for the Born engine")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version             Show version")
	fmt.Println("  summary -config F   Print the summary of a Keras model configuration")
}

// summary reconstructs a model from a Keras JSON configuration and prints its
// layer table.
func summary(args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	configPath := fs.String("config", "", "path to the Keras model JSON file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return fmt.Errorf("summary: -config is required")
	}

	backend := autodiff.New(cpu.New())
	m, err := keras.LoadSequential(backend, *configPath)
	if err != nil {
		return err
	}
	defer m.Close()

	// Any compile configuration produces the same table; the summary only
	// needs the shape chain.
	err = m.Compile(
		optim.NewAdam[*autodiff.Backend[*cpu.Backend]](0.001, 0.9, 0.999, 1e-07, optim.NewNoClipGradient()),
		loss.NewSoftmaxCrossEntropyWithLogits[*autodiff.Backend[*cpu.Backend]](),
		metric.Accuracy,
	)
	if err != nil {
		return err
	}

	table, err := m.Summary()
	if err != nil {
		return err
	}
	fmt.Print(table)
	return nil
}
