package main

import (
	"context"
	"flag"
	"os"

	"github.com/louisbranch/arbor.space/internal/platform/config"
	"github.com/louisbranch/arbor.space/internal/tools/exporter"
)

func main() {
	cfg, err := exporter.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	if err := exporter.Run(context.Background(), cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
