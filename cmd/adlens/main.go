package main

import (
	"flag"
	"fmt"
	"os"

	"adlens/internal/di"
	"adlens/internal/structures"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	debugMode := flag.Bool("debug", false, "log to stdout in addition to files")
	flag.Parse()

	flags := &structures.CliFlags{
		ConfigPath: *configPath,
		DebugMode:  *debugMode,
	}

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "adlens: %v\n", err)
		os.Exit(1)
	}
}
