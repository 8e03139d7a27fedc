// strandsim is a headless driver for the secondary motion simulator.
package main

import (
	"fmt"
	"os"

	"github.com/Faultbox/strandsim/internal/config"
	"github.com/Faultbox/strandsim/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "run":
		err = cmdRun(cfg, args)
	case "topology", "topo":
		err = cmdTopology(cfg, args)
	case "init":
		err = cmdInit(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`strandsim - chain and cloth secondary motion simulator

Usage:
  strandsim [flags] <command> [options]

Commands:
  run <rig.yaml> [seconds]       Simulate a rig; 0 seconds runs until interrupted
                                 and reloads the rig when the file changes
  topology <rig.yaml>            Show derived points, constraints and batches
  init <rig.yaml> [cols rows]    Write a hanging sheet rig

Flags:
  -config <path>   Config file (.yaml or .toml)
  -debug           Debug logging
  -fps <n>         Stabilization rate, 0 for variable steps
  -substeps <n>    Sub-steps per step
  -iterations <n>  Constraint relaxation iterations
  -paused          Start paused

Examples:
  strandsim init skirt.yaml 12 6
  strandsim topology skirt.yaml
  strandsim -fps 60 run skirt.yaml 5`)
}
