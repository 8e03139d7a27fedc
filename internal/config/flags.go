package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagSubSteps   = flag.Int("substeps", 0, "Sub-steps per simulation step")
	flagIterations = flag.Int("iterations", -1, "Constraint relaxation iterations")
	flagFPS        = flag.Float64("fps", -1, "Stabilization frame rate, 0 for variable steps")
	flagPaused     = flag.Bool("paused", false, "Start with the simulation paused")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag command-line arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSubSteps > 0 {
		cfg.Simulation.SubSteps = *flagSubSteps
	}
	if *flagIterations >= 0 {
		cfg.Simulation.Iterations = *flagIterations
	}
	if *flagFPS >= 0 {
		cfg.Simulation.FPS = float32(*flagFPS)
	}
	if *flagPaused {
		cfg.Simulation.Paused = true
	}
}
