// Package cloth owns one simulated rig: it derives the point model, parameters,
// constraints and batches from a hierarchy, drives the engine, and rebuilds
// the derived state when the inputs change.
package cloth

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/strandsim/internal/batch"
	"github.com/Faultbox/strandsim/internal/logger"
	"github.com/Faultbox/strandsim/internal/params"
	"github.com/Faultbox/strandsim/internal/rig"
	"github.com/Faultbox/strandsim/internal/scene"
	"github.com/Faultbox/strandsim/internal/sim"
	"github.com/Faultbox/strandsim/internal/topology"
)

var ErrClosed = errors.New("cloth is closed")

// Host is the hierarchy being simulated plus a transform handle per node.
type Host interface {
	rig.Hierarchy
	Transform(node int) sim.Transform
}

type sceneHost struct {
	*scene.Graph
}

func (h sceneHost) Transform(node int) sim.Transform {
	return h.Node(node)
}

// SceneHost adapts a scene graph.
func SceneHost(g *scene.Graph) Host {
	return sceneHost{g}
}

// Options configures a Cloth.
type Options struct {
	// Roots are hierarchy node indices ordered along the horizontal seam.
	Roots []int
	// Anchor is the transform the roots hang from; may be nil.
	Anchor sim.Transform

	Settings params.Settings
	Topology topology.Options
	Compute  rig.FamilySet
	// Constraints, when set, supplies the constraint set instead of deriving
	// it from Topology, e.g. a table loaded from a rig file.
	Constraints func(*rig.Model) (*topology.Topology, error)

	Colliders []sim.Collider
	Grabbers  []sim.Grabber
	Targets   []sim.Transform

	BlendAnimation  bool
	TwistCorrection bool
	Workers         int

	// ResetDelay is the pass-through time used by Restore.
	ResetDelay float32

	// Pose, when set, runs at the start of every Update to put the hierarchy
	// back in its animated pose for the frame. Without it the host must do so
	// itself, or the next step reads the poses RestoreTransform wrote.
	Pose func(dt float32)
}

// ScenePose returns a Pose hook that resets g to its bind pose and then lets
// animate, which may be nil, advance its clips over it.
func ScenePose(g *scene.Graph, animate func(dt float32)) func(dt float32) {
	return func(dt float32) {
		g.RestoreBindPose()
		if animate != nil {
			animate(dt)
		}
	}
}

// DefaultOptions returns options solving every constraint family with default curves.
func DefaultOptions(roots []int) Options {
	return Options{
		Roots:    roots,
		Settings: params.DefaultSettings(),
		Compute:  rig.AllFamilies(),
	}
}

// Summary describes the derived state.
type Summary struct {
	Points   int
	Roots    int
	MaxDepth int
	Families [rig.FamilyCount]int
	Faces    int
	Batches  int
}

// Cloth is safe for concurrent use; a rebuild never overlaps a step.
type Cloth struct {
	mu sync.Mutex

	host    Host
	opts    Options
	model   *rig.Model
	topo    *topology.Topology
	batches []batch.Batch
	engine  *sim.Engine
	closed  bool
}

// New builds the derived state and initializes the engine.
func New(host Host, opts Options) (*Cloth, error) {
	s, err := derive(host, opts)
	if err != nil {
		return nil, err
	}
	c := &Cloth{engine: sim.New()}
	if err := c.commit(s); err != nil {
		return nil, err
	}
	return c, nil
}

// state is one complete derivation. It replaces the running one only after
// the engine has accepted it.
type state struct {
	host    Host
	opts    Options
	model   *rig.Model
	topo    *topology.Topology
	batches []batch.Batch
}

// derive builds the model, parameters and constraints for host without
// touching the running simulation.
func derive(host Host, opts Options) (*state, error) {
	m, err := rig.Build(host, opts.Roots)
	if err != nil {
		return nil, err
	}
	params.Derive(m, opts.Settings)

	var topo *topology.Topology
	if opts.Constraints != nil {
		if topo, err = opts.Constraints(m); err != nil {
			return nil, err
		}
	} else {
		topo = topology.Build(m, opts.Topology)
	}
	return &state{host: host, opts: opts, model: m, topo: topo}, nil
}

// current returns the running state with different options.
func (c *Cloth) current(opts Options) *state {
	return &state{host: c.host, opts: opts, model: c.model, topo: c.topo}
}

// commit colors the state's constraints, restarts the engine on it and makes
// it current. Callers hold mu.
func (c *Cloth) commit(s *state) error {
	m := s.model
	s.batches = batch.Schedule(s.topo, s.opts.Compute, len(m.Points))

	transforms := make([]sim.Transform, len(m.Points))
	for i, p := range m.Points {
		transforms[i] = s.host.Transform(p.Node)
	}
	err := c.engine.Initialize(sim.Setup{
		Anchor:          s.opts.Anchor,
		Points:          m.Points,
		Transforms:      transforms,
		Targets:         s.opts.Targets,
		Batches:         s.batches,
		Colliders:       s.opts.Colliders,
		Grabbers:        s.opts.Grabbers,
		Faces:           s.topo.Faces,
		BlendAnimation:  s.opts.BlendAnimation,
		TwistCorrection: s.opts.TwistCorrection,
		Workers:         s.opts.Workers,
	})
	if err != nil {
		return err
	}
	c.host, c.opts = s.host, s.opts
	c.model, c.topo, c.batches = m, s.topo, s.batches
	c.closed = false

	logger.Named("cloth").Debug("cloth rebuilt",
		zap.Int("points", len(m.Points)),
		zap.Int("roots", len(m.Roots)),
		zap.Int("max_depth", m.MaxDepth),
		zap.Int("constraints", s.topo.Count()),
		zap.Int("batches", len(s.batches)),
	)
	return nil
}

// Rebuild re-derives the model from the current hierarchy. On failure the
// previous state keeps running.
func (c *Cloth) Rebuild() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := derive(c.host, c.opts)
	if err != nil {
		return err
	}
	return c.commit(s)
}

// Reload swaps in a new hierarchy and options and rebuilds. On failure the
// previous state keeps running untouched.
func (c *Cloth) Reload(host Host, opts Options) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := derive(host, opts)
	if err != nil {
		logger.Named("cloth").Warn("cloth reload failed, keeping previous state", zap.Error(err))
		return err
	}
	return c.commit(s)
}

// SetSettings re-derives point coefficients in place without touching
// positions or constraints.
func (c *Cloth) SetSettings(s params.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.Settings = s
	params.Derive(c.model, s)
}

// SetFamilies changes which constraint families are solved.
func (c *Cloth) SetFamilies(compute rig.FamilySet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	opts := c.opts
	opts.Compute = compute
	return c.commit(c.current(opts))
}

// SetTopology changes loop and edge collision options and rebuilds constraints.
func (c *Cloth) SetTopology(opts topology.Options) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.current(c.opts)
	s.opts.Topology = opts
	s.topo = topology.Build(c.model, opts)
	return c.commit(s)
}

// RefreshRestLengths snaps to the animated pose and adopts its distances as
// the new rest lengths, for rigs that were scaled on purpose.
func (c *Cloth) RefreshRestLengths() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine.Reset()
	c.topo.RefreshRestLengths(c.model.Points)
	return c.commit(c.current(c.opts))
}

// Update advances the simulation by a host frame using the stabilization policy.
func (c *Cloth) Update(hostDt float32, step sim.Step) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.opts.Pose != nil {
		c.opts.Pose(hostDt)
	}
	return c.engine.Update(hostDt, step)
}

// Execute runs exactly one step.
func (c *Cloth) Execute(step sim.Step) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return c.engine.Execute(step)
}

// RestoreTransform writes simulated poses to the hierarchy.
func (c *Cloth) RestoreTransform() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine.RestoreTransform()
}

// Reset snaps to the animated pose.
func (c *Cloth) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine.Reset()
}

// Restore resets and passes through for the configured delay, e.g. after a teleport.
func (c *Cloth) Restore() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine.Restore(c.opts.ResetDelay)
}

// Close stops the engine. Stepping returns ErrClosed until a later Rebuild.
func (c *Cloth) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.engine.Uninitialize()
	c.closed = true
}

// Points returns a copy of the simulated points.
func (c *Cloth) Points() []rig.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]rig.Point(nil), c.engine.Points()...)
}

// Model returns the current point model. It is replaced on rebuild.
func (c *Cloth) Model() *rig.Model {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

// Topology returns the current constraint set. It is replaced on rebuild.
func (c *Cloth) Topology() *topology.Topology {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.topo
}

// Batches returns the current schedule.
func (c *Cloth) Batches() []batch.Batch {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.batches
}

// Stats returns engine counters.
func (c *Cloth) Stats() sim.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Stats()
}

// Summary describes the derived state.
func (c *Cloth) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Summary{
		Points:   len(c.model.Points),
		Roots:    len(c.model.Roots),
		MaxDepth: c.model.MaxDepth,
		Faces:    len(c.topo.Faces),
		Batches:  len(c.batches),
	}
	for f, cs := range c.topo.Families {
		s.Families[f] = len(cs)
	}
	return s
}
