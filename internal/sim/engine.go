package sim

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/strandsim/internal/batch"
	"github.com/Faultbox/strandsim/internal/logger"
	"github.com/Faultbox/strandsim/internal/rig"
	"github.com/Faultbox/strandsim/internal/topology"
	"github.com/Faultbox/strandsim/pkg/math"
)

// maxCatchUp bounds how many fixed steps one Update may run.
const maxCatchUp = 5

// Setup is everything Initialize needs.
type Setup struct {
	Anchor     Transform
	Points     []rig.Point
	Transforms []Transform
	Targets    []Transform
	Batches    []batch.Batch
	Colliders  []Collider
	Grabbers   []Grabber
	Faces      []topology.SurfaceFace

	BlendAnimation  bool
	TwistCorrection bool

	// Workers sizes the projection pool; 0 uses GOMAXPROCS.
	Workers int
}

// Stats reports engine activity.
type Stats struct {
	Steps       int
	SubSteps    int
	Batches     int
	Constraints int
}

// Engine is the per-frame simulation driver.
// Points and transforms are owned by the engine between Initialize and Uninitialize.
type Engine struct {
	anchor     Transform
	points     []rig.Point
	transforms []Transform
	targets    []Transform
	batches    []batch.Batch
	edges      []topology.Constraint
	colliders  []Collider
	grabbers   []Grabber
	faces      []topology.SurfaceFace
	blend      bool
	twist      bool

	anim      []math.Vec3
	animRot   []math.Quat
	prevAnim  []math.Vec3
	targetPos []math.Vec3
	lastDir   []math.Vec3
	dir       []math.Vec3
	roots     []int
	faceOf    [][]int

	anchorPos  math.Vec3
	anchorRot  math.Quat
	blendRatio float32
	delay      float32
	accum      float32

	pool        *pool
	initialized bool
	stats       Stats
}

// New returns an uninitialized engine.
func New() *Engine {
	return &Engine{}
}

// Initialize takes ownership of the setup and allocates the worker pool.
func (e *Engine) Initialize(s Setup) error {
	if len(s.Transforms) != len(s.Points) {
		return fmt.Errorf("%d transforms for %d points: %w", len(s.Transforms), len(s.Points), ErrTransformCount)
	}
	if e.initialized {
		e.Uninitialize()
	}

	n := len(s.Points)
	e.anchor = s.Anchor
	e.points = s.Points
	e.transforms = s.Transforms
	e.targets = s.Targets
	e.batches = s.Batches
	e.colliders = s.Colliders
	e.grabbers = s.Grabbers
	e.faces = s.Faces
	e.blend = s.BlendAnimation
	e.twist = s.TwistCorrection

	e.edges = e.edges[:0]
	constraints := 0
	for _, b := range s.Batches {
		constraints += len(b.Constraints)
		for _, c := range b.Constraints {
			if c.Collide {
				e.edges = append(e.edges, c)
			}
		}
	}

	e.anim = make([]math.Vec3, n)
	e.animRot = make([]math.Quat, n)
	e.prevAnim = make([]math.Vec3, n)
	e.lastDir = make([]math.Vec3, n)
	e.dir = make([]math.Vec3, n)
	e.targetPos = make([]math.Vec3, len(s.Targets))
	e.roots = make([]int, n)
	for i := range e.points {
		if p := e.points[i].Parent; p != rig.NoIndex {
			e.roots[i] = e.roots[p]
		} else {
			e.roots[i] = i
		}
	}
	e.faceOf = make([][]int, n)
	for fi, f := range e.faces {
		for _, c := range f.Corners() {
			e.faceOf[c] = append(e.faceOf[c], fi)
		}
	}

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	e.pool = newPool(workers)
	e.stats = Stats{Batches: len(s.Batches), Constraints: constraints}
	e.initialized = true
	e.Reset()

	logger.Named("sim").Info("simulation initialized",
		zap.Int("points", n),
		zap.Int("batches", len(s.Batches)),
		zap.Int("constraints", constraints),
		zap.Int("faces", len(s.Faces)),
		zap.Int("workers", workers),
	)
	return nil
}

// Uninitialize releases the worker pool.
func (e *Engine) Uninitialize() {
	if !e.initialized {
		return
	}
	e.pool.shutdown()
	e.pool = nil
	e.initialized = false
	logger.Named("sim").Info("simulation uninitialized", zap.Int("steps", e.stats.Steps))
}

// Initialized reports whether Initialize has run without a matching Uninitialize.
func (e *Engine) Initialized() bool {
	return e.initialized
}

// Points returns the simulated points.
func (e *Engine) Points() []rig.Point {
	return e.points
}

// Stats returns counters describing engine activity.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Delay returns the remaining pass-through time after a Restore.
func (e *Engine) Delay() float32 {
	return e.delay
}

// Reset discards velocity history and any banked fixed-step time, and snaps
// every point to its current transform.
func (e *Engine) Reset() {
	if !e.initialized {
		return
	}
	e.snap()
	e.accum = 0
}

// snap moves every point onto its animated pose. Update's accumulator is left
// alone so pass-through steps keep consuming host time at the fixed rate.
func (e *Engine) snap() {
	e.capture()
	for i := range e.points {
		p := &e.points[i]
		p.Position = e.anim[i]
		p.Previous = e.anim[i]
		p.Rotation = e.animRot[i]
		e.lastDir[i] = math.Vec3{}
	}
	copy(e.prevAnim, e.anim)
}

// Restore resets and then passes through for delay seconds before simulating again.
func (e *Engine) Restore(delay float32) {
	e.Reset()
	e.delay = max(0, delay)
	logger.Named("sim").Debug("simulation restored", zap.Float32("delay", e.delay))
}

// capture reads the animated pose of every point, target and the anchor.
func (e *Engine) capture() {
	for i, t := range e.transforms {
		e.anim[i] = t.Position()
		e.animRot[i] = t.Rotation()
	}
	for i, t := range e.targets {
		e.targetPos[i] = t.Position()
	}
	if e.anchor != nil {
		e.anchorPos = e.anchor.Position()
		e.anchorRot = e.anchor.Rotation()
	}
}

// Execute advances the simulation by step.Dt.
func (e *Engine) Execute(step Step) error {
	if !e.initialized {
		return ErrNotInitialized
	}
	step, err := step.normalize()
	if err != nil {
		return err
	}

	if e.delay > 0 {
		e.delay = max(0, e.delay-step.Dt)
		e.snap()
		return nil
	}

	dt := step.Dt
	if step.Paused {
		dt = 0
	}
	if dt == 0 {
		return nil
	}

	lastAnchorPos, lastAnchorRot := e.anchorPos, e.anchorRot
	e.capture()
	if e.anchor != nil {
		e.limitRoot(step.RootLimit, lastAnchorPos, lastAnchorRot)
	}

	sub := dt / float32(step.SubSteps)
	for s := 0; s < step.SubSteps; s++ {
		t := float32(s+1) / float32(step.SubSteps)
		e.integrate(step, sub, t)
		for it := 0; it < step.Iterations; it++ {
			e.relax()
		}
		e.collide(step, sub)
		if step.AngleLimit.Enabled {
			e.limitAngles(step.AngleLimit, t)
		}
	}

	copy(e.prevAnim, e.anim)
	e.blendRatio = 0
	if e.blend {
		e.blendRatio = step.BlendRatio
	}
	e.stats.Steps++
	e.stats.SubSteps = step.SubSteps
	return nil
}

// Update runs the stabilization policy for a host frame of hostDt seconds.
// With step.FixedDt set, leftover time accumulates and whole fixed steps run;
// otherwise one step runs with hostDt clamped to step.MaxDelta.
func (e *Engine) Update(hostDt float32, step Step) error {
	if step.FixedDt <= 0 {
		step.Dt = hostDt
		if step.MaxDelta > 0 {
			step.Dt = min(step.Dt, step.MaxDelta)
		}
		return e.Execute(step)
	}

	e.accum += hostDt
	ran := 0
	for e.accum >= step.FixedDt && ran < maxCatchUp {
		step.Dt = step.FixedDt
		if err := e.Execute(step); err != nil {
			return err
		}
		e.accum -= step.FixedDt
		ran++
	}
	if ran == maxCatchUp && e.accum >= step.FixedDt {
		// Drop time we could not catch up on rather than spiral.
		e.accum = 0
	}
	if ran == 0 {
		step.Dt = 0
		return e.Execute(step)
	}
	return nil
}

// animAt interpolates a point's animated position across sub-steps.
func (e *Engine) animAt(i int, t float32) math.Vec3 {
	return e.prevAnim[i].Lerp(e.anim[i], t)
}

// RestoreTransform writes simulated poses to the transform handles.
// Parents are written before children so world positions compose correctly.
func (e *Engine) RestoreTransform() {
	if !e.initialized {
		return
	}
	for i := range e.points {
		if c := e.points[i].Child; c != rig.NoIndex {
			e.dir[i] = e.points[c].Position.Sub(e.points[i].Position)
		}
	}
	for i := range e.points {
		p := &e.points[i]
		if p.Fixed {
			continue
		}
		pos := p.Position
		if e.blendRatio > 0 {
			pos = pos.Lerp(e.anim[i], e.blendRatio)
		}
		p.Rotation = e.rotationOf(i)
		e.transforms[i].SetRotation(p.Rotation)
		e.transforms[i].SetPosition(pos)
	}
	copy(e.lastDir, e.dir)
}

// segment returns the point whose segment (point to child) orients point i.
// Tips use their parent's segment.
func (e *Engine) segment(i int) int {
	p := &e.points[i]
	if p.HasChild() {
		return i
	}
	return p.Parent
}

// rotationOf derives a point's rotation from how its segment swung. With twist
// correction the swing is measured from the animated pose every frame;
// without it the swing accumulates onto the previous simulated rotation.
func (e *Engine) rotationOf(i int) math.Quat {
	seg := e.segment(i)
	if seg == rig.NoIndex {
		return e.animRot[i]
	}
	if e.twist || e.lastDir[seg].LengthSq() == 0 {
		child := e.points[seg].Child
		animDir := e.anim[child].Sub(e.anim[seg])
		return math.QuatFromTo(animDir, e.dir[seg]).Mul(e.animRot[i]).Normalize()
	}
	swing := math.QuatFromTo(e.lastDir[seg], e.dir[seg])
	return swing.Mul(e.points[i].Rotation).Normalize()
}
