package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/strandsim/internal/anim"
	"github.com/Faultbox/strandsim/internal/cloth"
	"github.com/Faultbox/strandsim/internal/config"
	"github.com/Faultbox/strandsim/internal/logger"
	"github.com/Faultbox/strandsim/internal/rig"
	"github.com/Faultbox/strandsim/internal/rigfile"
	"github.com/Faultbox/strandsim/internal/scene"
	"github.com/Faultbox/strandsim/internal/topology"
)

// hostRate is the frame rate the headless host advances at.
const hostRate = 60

// options maps the config and an instantiated rig onto cloth options. Every
// frame starts from the bind pose with the clip, if any, applied over it.
func options(cfg *config.Config, doc *rigfile.Document, r *rigfile.Rig, player *anim.Player) cloth.Options {
	opts := cloth.DefaultOptions(r.Roots)
	if r.Anchor != nil {
		opts.Anchor = r.Anchor
	}
	opts.Settings = cfg.Parameters.Settings()
	opts.Topology = cfg.Constraints.TopologyOptions()
	opts.Topology.Loop = opts.Topology.Loop || r.Loop
	opts.Compute = cfg.Constraints.Compute.Set()
	if doc.HasTopology() {
		opts.Constraints = doc.Relinker(r.Graph)
	}
	opts.Colliders = r.Colliders
	opts.Grabbers = r.Grabbers
	opts.Targets = r.Targets
	opts.BlendAnimation = cfg.Simulation.BlendAnimation
	opts.TwistCorrection = cfg.Simulation.TwistCorrection
	opts.Workers = cfg.Simulation.Workers
	opts.ResetDelay = cfg.Simulation.ResetDelay

	var animate func(dt float32)
	if player != nil {
		animate = player.Advance
	}
	opts.Pose = cloth.ScenePose(r.Graph, animate)
	return opts
}

// session is a rig instantiated and simulated.
type session struct {
	rig    *rigfile.Rig
	cloth  *cloth.Cloth
	player *anim.Player
}

func newPlayer(r *rigfile.Rig) (*anim.Player, error) {
	if r.Clip == nil {
		return nil, nil
	}
	return anim.NewPlayer(r.Clip, r.Graph)
}

func openSession(cfg *config.Config, doc *rigfile.Document) (*session, error) {
	r, err := doc.Build()
	if err != nil {
		return nil, err
	}
	player, err := newPlayer(r)
	if err != nil {
		return nil, err
	}
	c, err := cloth.New(cloth.SceneHost(r.Graph), options(cfg, doc, r, player))
	if err != nil {
		return nil, err
	}
	return &session{rig: r, cloth: c, player: player}, nil
}

// reload swaps in a new document. The running rig is kept on failure.
func (s *session) reload(cfg *config.Config, doc *rigfile.Document) error {
	r, err := doc.Build()
	if err != nil {
		return err
	}
	player, err := newPlayer(r)
	if err != nil {
		return err
	}
	if err := s.cloth.Reload(cloth.SceneHost(r.Graph), options(cfg, doc, r, player)); err != nil {
		return err
	}
	s.rig, s.player = r, player
	return nil
}

// frame steps one host frame. The cloth's pose hook rewinds the graph and
// advances the clip before the step reads it.
func (s *session) frame(cfg *config.Config, dt float32) error {
	if err := s.cloth.Update(dt, cfg.Step()); err != nil {
		return err
	}
	s.cloth.RestoreTransform()
	return nil
}

func cmdRun(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	every := fs.Duration("report", time.Second, "Progress report interval")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: strandsim run <rig.yaml> [seconds]")
	}
	path := fs.Arg(0)
	var seconds float64
	if fs.NArg() > 1 {
		v, err := strconv.ParseFloat(fs.Arg(1), 64)
		if err != nil || v < 0 {
			return fmt.Errorf("invalid duration %q", fs.Arg(1))
		}
		seconds = v
	}

	store := rigfile.NewStore(path)
	doc, err := store.Load()
	if err != nil {
		return err
	}
	s, err := openSession(cfg, doc)
	if err != nil {
		return err
	}
	defer s.cloth.Close()

	logger.Info("simulation started",
		zap.String("rig", path),
		zap.Int("points", len(s.cloth.Points())),
		zap.Float64("seconds", seconds),
	)

	const dt = float32(1) / hostRate
	if seconds > 0 {
		frames := int(seconds * hostRate)
		for i := 0; i < frames; i++ {
			if err := s.frame(cfg, dt); err != nil {
				return err
			}
		}
		report(s.cloth)
		return nil
	}

	watcher, err := rigfile.Watch(path)
	if err != nil {
		return err
	}
	defer watcher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ticker := time.NewTicker(time.Second / hostRate)
	defer ticker.Stop()
	progress := time.NewTicker(*every)
	defer progress.Stop()

	for {
		select {
		case <-ctx.Done():
			report(s.cloth)
			return nil

		case <-ticker.C:
			if err := s.frame(cfg, dt); err != nil {
				return err
			}

		case <-progress.C:
			stats := s.cloth.Stats()
			logger.Info("progress", zap.Int("steps", stats.Steps), zap.Int("sub_steps", stats.SubSteps))

		case <-watcher.Changes():
			doc, err := store.Load()
			if err != nil {
				continue
			}
			if err := s.reload(cfg, doc); err != nil {
				logger.Warn("rig reload failed, keeping previous rig", zap.Error(err))
				continue
			}
			logger.Info("rig reloaded", zap.Int("points", len(s.cloth.Points())))

		case err := <-watcher.Errors():
			logger.Warn("rig watcher", zap.Error(err))
		}
	}
}

func report(c *cloth.Cloth) {
	stats := c.Stats()
	fmt.Printf("Steps:       %d\n", stats.Steps)
	fmt.Printf("Sub-steps:   %d\n", stats.SubSteps)
	fmt.Printf("Batches:     %d\n", stats.Batches)
	fmt.Printf("Constraints: %d\n", stats.Constraints)
	fmt.Println()
	fmt.Println("Chain tips:")

	m := c.Model()
	points := c.Points()
	for _, root := range m.Roots {
		chain := m.Chain(root)
		tip := points[chain[len(chain)-1]]
		fmt.Printf("  %-4d (%8.4f, %8.4f, %8.4f)\n", root, tip.Position.X, tip.Position.Y, tip.Position.Z)
	}
}

func cmdTopology(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("topology", flag.ExitOnError)
	dump := fs.Bool("dump", false, "Print every constraint and face")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: strandsim topology <rig.yaml>")
	}
	doc, err := rigfile.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	s, err := openSession(cfg, doc)
	if err != nil {
		return err
	}
	defer s.cloth.Close()

	sum := s.cloth.Summary()
	fmt.Printf("Rig:       %s\n", fs.Arg(0))
	fmt.Printf("Points:    %d\n", sum.Points)
	fmt.Printf("Roots:     %d\n", sum.Roots)
	fmt.Printf("Max depth: %d\n", sum.MaxDepth)
	fmt.Printf("Faces:     %d\n", sum.Faces)
	if doc.HasTopology() {
		fmt.Println("Source:    stored table")
	} else {
		fmt.Println("Source:    derived")
	}
	fmt.Println()
	fmt.Println("Constraints by family:")
	for _, f := range rig.Families() {
		fmt.Printf("  %-22s %d\n", f, sum.Families[f])
	}
	fmt.Println()
	fmt.Printf("Batches: %d\n", sum.Batches)
	for i, b := range s.cloth.Batches() {
		fmt.Printf("  %-4d %d\n", i, len(b.Constraints))
	}

	if *dump {
		fmt.Println()
		fmt.Print(s.cloth.Topology().Dump())
	}
	return nil
}

func cmdInit(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	table := fs.Bool("table", true, "Store the derived constraint table")
	spacing := fs.Float64("spacing", 0.1, "Distance between chains")
	segment := fs.Float64("segment", 0.1, "Distance between points along a chain")
	loop := fs.Bool("loop", false, "Join the last chain back to the first")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: strandsim init <rig.yaml> [cols rows]")
	}
	cols, rows := 8, 5
	if fs.NArg() >= 3 {
		var err error
		if cols, err = strconv.Atoi(fs.Arg(1)); err != nil || cols < 1 {
			return fmt.Errorf("invalid column count %q", fs.Arg(1))
		}
		if rows, err = strconv.Atoi(fs.Arg(2)); err != nil || rows < 2 {
			return fmt.Errorf("invalid row count %q", fs.Arg(2))
		}
	}

	g := scene.NewGraph()
	anchor, roots := scene.BuildSheet(g, scene.SheetOptions{
		Columns: cols,
		Rows:    rows,
		Spacing: float32(*spacing),
		Segment: float32(*segment),
		Surface: true,
	})
	doc, err := rigfile.Capture(&rigfile.Rig{Graph: g, Anchor: anchor, Roots: roots, Loop: *loop})
	if err != nil {
		return err
	}

	if *table {
		m, err := rig.Build(g, roots)
		if err != nil {
			return err
		}
		opts := cfg.Constraints.TopologyOptions()
		opts.Loop = opts.Loop || *loop
		doc.SetTopology(g, m, topology.Build(m, opts))
	}

	if err := doc.Save(fs.Arg(0)); err != nil {
		return err
	}
	fmt.Printf("Wrote %s: %d chains of %d points, %d constraints\n", fs.Arg(0), cols, rows, len(doc.Constraints))
	return nil
}
