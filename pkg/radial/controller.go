package radial

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/radiant/pkg/config"
	"github.com/matzehuels/radiant/pkg/content"
	rerrors "github.com/matzehuels/radiant/pkg/errors"
	"github.com/matzehuels/radiant/pkg/events"
	"github.com/matzehuels/radiant/pkg/hierarchy"
	"github.com/matzehuels/radiant/pkg/layout"
	"github.com/matzehuels/radiant/pkg/observability"
	"github.com/matzehuels/radiant/pkg/selection"
	"github.com/matzehuels/radiant/pkg/source"
	"github.com/matzehuels/radiant/pkg/transition"
	"github.com/matzehuels/radiant/pkg/viewport"
)

// frameKey is the batcher key shared by every full-frame write, so a
// newer frame always replaces an older one queued in the same tick.
const frameKey = "frame"

// DefaultContainer is used when no container size is given.
var DefaultContainer = viewport.Size{Width: 1024, Height: 768}

// =============================================================================
// Lifecycle
// =============================================================================

// State is the controller lifecycle state.
type State int

const (
	// Uninitialized controllers have no hierarchy yet.
	Uninitialized State = iota
	// Ready controllers have a hierarchy and accept selections.
	Ready
	// Failed controllers could not load their initial hierarchy. Err
	// returns the cause. SetData or another Init recovers.
	Failed
	// Destroyed controllers reject every call.
	Destroyed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	case Destroyed:
		return "destroyed"
	default:
		return "uninitialized"
	}
}

// =============================================================================
// Options
// =============================================================================

// Options configures a [Controller].
type Options struct {
	// ID names the controller, typically the container id. Empty
	// generates a UUID.
	ID string

	// Config is validated at construction. The zero value uses
	// config.Default().
	Config config.Config

	// Data loads hierarchies for Init. It may be nil when the host only
	// calls SetData.
	Data source.DataSource

	// Content serves node payloads. Nil disables the content cache.
	Content content.Source

	// Renderer receives frames. Nil discards them.
	Renderer Renderer

	// Listener is subscribed to the controller's notifications.
	Listener events.Listener

	// Container and Viewport are the initial sizes. A zero container uses
	// DefaultContainer; a zero viewport means the container.
	Container viewport.Size
	Viewport  viewport.Size

	// DisablePulse turns off the pulse loop on selected secondary nodes.
	DisablePulse bool

	Logger *log.Logger
}

// =============================================================================
// Controller
// =============================================================================

// Controller coordinates layout, selection, transitions and content for
// one hierarchy. It is safe for concurrent use.
type Controller struct {
	id       string
	cfg      config.Config
	opts     Options
	logger   *log.Logger
	renderer Renderer

	bus         *events.Bus
	selection   *selection.Coordinator
	transitions *transition.Coordinator
	batcher     *transition.Batcher
	watcher     *viewport.Watcher
	cache       *content.Cache

	mu        sync.Mutex
	state     State
	err       error
	tree      *hierarchy.Tree
	result    *layout.Result
	frame     Frame  // target frame for the current selection and size
	shown     Frame  // last frame handed to the renderer
	gen       uint64 // bumped on every relayout; frames of older generations are dropped
	container viewport.Size
	viewport  viewport.Size
	stopPulse func() // cancels the pulse loop and waits for it

	renderMu sync.Mutex
	wg       sync.WaitGroup
}

// New validates opts.Config and returns an uninitialized controller. An
// invalid configuration is a CONFIG_VALIDATION_ERROR and is also sent to
// opts.Listener.
func New(opts Options) (*Controller, error) {
	cfg := opts.Config
	if cfg == (config.Config{}) {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		if opts.Listener != nil {
			opts.Listener.OnError(events.NewErrorEvent(err))
		}
		return nil, err
	}
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Renderer == nil {
		opts.Renderer = nopRenderer{}
	}
	if opts.Container.IsZero() {
		opts.Container = DefaultContainer
	}

	c := &Controller{
		id:        opts.ID,
		cfg:       cfg,
		opts:      opts,
		logger:    opts.Logger.With("controller", opts.ID),
		renderer:  opts.Renderer,
		bus:       events.NewBus(),
		container: opts.Container,
		viewport:  opts.Viewport,
	}
	if opts.Listener != nil {
		c.bus.Subscribe(opts.Listener)
	}
	c.selection = selection.NewCoordinator(c.bus)
	c.transitions = transition.NewCoordinator(transition.Options{
		Durations:     cfg.Durations(),
		FrameInterval: cfg.Animation.FrameInterval.Duration,
		Listener:      c.bus,
		Logger:        c.logger,
	})
	c.batcher = transition.NewBatcher(cfg.Animation.FrameInterval.Duration)
	c.watcher = viewport.NewWatcher(cfg.Resize.Debounce.Duration, cfg.Resize.Threshold, c.applyResize)
	c.watcher.Prime(opts.Container)

	if opts.Content != nil {
		copts := append(cfg.CacheOptions(),
			content.WithLogger(c.logger),
			content.WithPreloadErrorHandler(func(_ string, err error) { c.emitError(err) }),
		)
		c.cache = content.New(opts.Content, copts...)
	}
	return c, nil
}

// ID returns the controller id.
func (c *Controller) ID() string { return c.id }

// Config returns the validated configuration.
func (c *Controller) Config() config.Config { return c.cfg }

// State returns the lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error that put the controller in the Failed state.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Subscribe adds a listener and returns a function that removes it.
func (c *Controller) Subscribe(l events.Listener) func() {
	return c.bus.Subscribe(l)
}

// Tree returns the installed hierarchy, or nil.
func (c *Controller) Tree() *hierarchy.Tree {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tree
}

// Frame returns the target frame for the current selection and size.
func (c *Controller) Frame() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame.Clone()
}

// Selection returns the selection state.
func (c *Controller) Selection() selection.Snapshot {
	return c.selection.Snapshot()
}

// Cache returns the content cache, or nil when no content source is set.
func (c *Controller) Cache() *content.Cache { return c.cache }

// =============================================================================
// Data
// =============================================================================

// Init loads the hierarchy for category from the data source and installs
// it. Any failure is a fatal DATA_FETCH_ERROR: the controller enters the
// Failed state and an error notification is emitted.
func (c *Controller) Init(ctx context.Context, category string) error {
	if err := c.alive(); err != nil {
		return err
	}
	if c.opts.Data == nil {
		return c.fail(rerrors.New(rerrors.ErrCodeDataFetch, "no data source configured"))
	}

	c.logger.Debug("loading hierarchy", "category", category)
	doc, err := c.opts.Data.Load(ctx, category)
	if err != nil {
		return c.fail(rerrors.Wrap(rerrors.ErrCodeDataFetch, err, "load category %q", category))
	}
	tree, err := hierarchy.Build(doc)
	if err != nil {
		return c.fail(rerrors.Wrap(rerrors.ErrCodeDataFetch, err, "category %q", category))
	}
	c.install(ctx, tree)
	return nil
}

// SetData replaces the hierarchy. The selection is carried over by id;
// nodes that no longer exist are deselected. An invalid document leaves
// the current hierarchy in place and is reported as an error notification.
func (c *Controller) SetData(ctx context.Context, doc hierarchy.Document) error {
	if err := c.alive(); err != nil {
		return err
	}
	tree, err := hierarchy.Build(doc)
	if err != nil {
		c.emitError(err)
		return err
	}
	c.install(ctx, tree)
	return nil
}

func (c *Controller) install(ctx context.Context, tree *hierarchy.Tree) {
	c.haltAnimations()

	c.mu.Lock()
	if c.state == Destroyed {
		c.mu.Unlock()
		return
	}
	c.tree = tree
	c.selection.Rebind(tree)
	c.state, c.err = Ready, nil
	f := c.relayoutLocked(ctx)
	gen := c.gen
	c.mu.Unlock()

	c.bus.OnDataChanged(events.DataChange{Root: tree.Root.ID, Nodes: tree.Len()})
	c.show(ctx, gen, f)
	c.maybePulse(c.selection.Snapshot().Current)
	c.logger.Info("hierarchy installed", "root", tree.Root.ID, "nodes", tree.Len())
}

func (c *Controller) fail(err error) error {
	c.mu.Lock()
	if c.state != Destroyed {
		c.state, c.err = Failed, err
	}
	c.mu.Unlock()
	c.logger.Error("initialization failed", "err", err)
	c.emitError(err)
	return err
}

// =============================================================================
// Layout
// =============================================================================

// Resize records a new container size. The layout is recomputed after the
// configured debounce period, and only when the width or height moved by
// more than the configured threshold.
func (c *Controller) Resize(container viewport.Size) {
	c.watcher.Notify(container)
}

// ResizeNow applies a container size immediately, subject to the same
// threshold as Resize. It reports whether a relayout happened.
func (c *Controller) ResizeNow(container viewport.Size) bool {
	if !viewport.ShouldRelayout(c.watcher.Last(), container, c.cfg.Resize.Threshold) {
		return false
	}
	c.watcher.Prime(container)
	c.applyResize(container)
	return true
}

// SetViewport changes the viewport that bounds the drawing area and
// relays out immediately.
func (c *Controller) SetViewport(v viewport.Size) {
	c.mu.Lock()
	c.viewport = v
	c.mu.Unlock()
	c.applyResize(c.watcher.Last())
}

// Dimensions returns the dimensions of the last layout pass.
func (c *Controller) Dimensions() viewport.Dimensions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame.Dimensions
}

func (c *Controller) applyResize(container viewport.Size) {
	c.haltTransition()
	ctx := context.Background()

	c.mu.Lock()
	c.container = container
	if c.state != Ready {
		c.mu.Unlock()
		return
	}
	f := c.relayoutLocked(ctx)
	gen := c.gen
	c.mu.Unlock()

	c.logger.Debug("relayout", "container", container.String(), "breakpoint", f.Dimensions.Breakpoint)
	c.show(ctx, gen, f)
}

// relayoutLocked resolves dimensions, lays out the tree and rebuilds the
// target frame. c.mu must be held.
func (c *Controller) relayoutLocked(ctx context.Context) Frame {
	c.gen++
	hooks := observability.Controller()
	hooks.OnLayoutStart(ctx, c.tree.Len())
	start := time.Now()

	dims := viewport.Resolve(c.cfg.Viewport(), c.container, c.viewport)
	c.result = layout.Compute(c.tree, dims, c.cfg.LayoutOptions())
	c.frame = c.buildFrameLocked(c.selection.Snapshot())

	hooks.OnLayoutComplete(ctx, string(dims.Breakpoint), time.Since(start))
	return c.frame.Clone()
}

func (c *Controller) buildFrameLocked(snap selection.Snapshot) Frame {
	cls := selection.Classify(c.tree, snap.Current)
	return BuildFrame(c.tree, c.result, cls, snap.PreviousID())
}

// =============================================================================
// Selection
// =============================================================================

// Select makes the node with the given id current and animates to the new
// classification. It returns once the controller is idle again. It fails
// with selection.ErrTransitioning while another selection is animating and
// with NOT_FOUND for unknown ids.
func (c *Controller) Select(ctx context.Context, id string) error {
	depth, err := c.selectNode(ctx, id)
	observability.Controller().OnSelect(ctx, depth, err)
	if err != nil {
		c.logger.Debug("select rejected", "id", id, "err", err)
	}
	return err
}

func (c *Controller) selectNode(ctx context.Context, id string) (int, error) {
	if err := c.ready(); err != nil {
		return -1, err
	}
	c.mu.Lock()
	tree := c.tree
	c.mu.Unlock()

	n, ok := tree.Node(id)
	if !ok {
		return -1, rerrors.Wrap(rerrors.ErrCodeNotFound, hierarchy.ErrUnknownNode, "select %q", id)
	}
	snap, err := c.selection.Begin(n)
	if err != nil {
		return n.Depth, err
	}
	defer c.selection.End()

	c.haltPulse()
	c.mu.Lock()
	if c.tree != tree || c.state != Ready {
		c.mu.Unlock()
		return n.Depth, rerrors.New(rerrors.ErrCodeInvalidInput, "hierarchy replaced during select of %q", id)
	}
	from := c.shown
	gen := c.gen
	c.frame = c.buildFrameLocked(snap)
	to := c.frame.Clone()
	c.mu.Unlock()

	c.preload(n)

	// Animations are not tied to the caller; newer state cancels them.
	actx := context.WithoutCancel(ctx)
	err = c.transitions.Run(actx, id, 0, func(p float64) {
		f := Interpolate(from, to, p)
		c.batcher.Schedule(frameKey, func() { c.render(actx, gen, f) })
	})
	switch {
	case err == nil && c.generation() != gen:
		c.logger.Debug("selection animation outdated by relayout", "id", id)
	case err == nil:
		c.batcher.Flush()
		c.maybePulse(n)
	case errors.Is(err, transition.ErrSuperseded), errors.Is(err, context.Canceled):
		c.logger.Debug("selection animation interrupted", "id", id)
	default:
		c.emitError(rerrors.Wrap(rerrors.ErrCodeInternal, err, "animate selection of %q", id))
	}
	return n.Depth, nil
}

// preload queues content for n and the nodes it makes reachable.
func (c *Controller) preload(n *hierarchy.Node) {
	if c.cache == nil {
		return
	}
	ids := []string{n.ID}
	for _, child := range n.Children {
		ids = append(ids, child.ID)
	}
	c.cache.Preload(ids...)
}

// Back re-selects the previous node.
func (c *Controller) Back(ctx context.Context) error {
	prev := c.selection.Snapshot().Previous
	if prev == nil {
		return rerrors.New(rerrors.ErrCodeNotFound, "no previous selection")
	}
	return c.Select(ctx, prev.ID)
}

// Up selects the parent of the current node.
func (c *Controller) Up(ctx context.Context) error {
	cur := c.selection.Snapshot().Current
	if cur == nil || cur.IsRoot() {
		return rerrors.New(rerrors.ErrCodeInvalidInput, "already at the root")
	}
	return c.Select(ctx, cur.Parent().ID)
}

// Path returns the ids from the root to id.
func (c *Controller) Path(id string) ([]string, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	nodes, err := c.Tree().Path(id)
	if err != nil {
		return nil, rerrors.Wrap(rerrors.ErrCodeNotFound, err, "path to %q", id)
	}
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids, nil
}

// =============================================================================
// Content
// =============================================================================

// Content returns the payload for a node through the cache. Fetch
// failures are CONTENT_FETCH_ERRORs and are not cached.
func (c *Controller) Content(ctx context.Context, id string) (content.Payload, error) {
	if err := c.alive(); err != nil {
		return content.Payload{}, err
	}
	if c.cache == nil {
		return content.Payload{}, rerrors.New(rerrors.ErrCodeNotFound, "no content source configured")
	}
	return c.cache.Get(ctx, id)
}

// WaitPreload blocks until queued content preloads have settled.
func (c *Controller) WaitPreload(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.WaitPreload(ctx)
}

// =============================================================================
// Rendering
// =============================================================================

// show replaces any queued frame with f and renders it now.
func (c *Controller) show(ctx context.Context, gen uint64, f Frame) {
	c.batcher.Schedule(frameKey, func() { c.render(ctx, gen, f) })
	c.batcher.Flush()
}

func (c *Controller) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// render hands f to the renderer unless a relayout since gen made it stale.
func (c *Controller) render(ctx context.Context, gen uint64, f Frame) {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	c.mu.Lock()
	if c.state == Destroyed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.shown = f
	c.mu.Unlock()

	if err := c.renderer.Render(ctx, f); err != nil {
		c.emitError(rerrors.Wrap(rerrors.ErrCodeInternal, err, "render frame"))
	}
}

// maybePulse starts the pulse loop when n is a selected secondary node.
func (c *Controller) maybePulse(n *hierarchy.Node) {
	if c.opts.DisablePulse || n == nil || n.Depth != hierarchy.DepthSecondary {
		return
	}
	c.haltPulse()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.mu.Lock()
	if c.state != Ready {
		c.mu.Unlock()
		cancel()
		return
	}
	prev := c.stopPulse
	c.stopPulse = func() {
		cancel()
		<-done
	}
	c.mu.Unlock()
	if prev != nil {
		prev()
	}

	id := n.ID
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(done)
		transition.Pulse(ctx, c.cfg.Pulse(), func(scale float64) {
			c.mu.Lock()
			f := c.frame.WithScale(id, scale)
			gen := c.gen
			c.mu.Unlock()
			c.batcher.Schedule(frameKey, func() { c.render(context.Background(), gen, f) })
		})
	}()
}

func (c *Controller) haltPulse() {
	c.mu.Lock()
	stop := c.stopPulse
	c.stopPulse = nil
	c.mu.Unlock()
	if stop != nil {
		stop()
	}
}

func (c *Controller) haltTransition() {
	c.transitions.Cancel()
}

func (c *Controller) haltAnimations() {
	c.haltPulse()
	c.haltTransition()
}

// =============================================================================
// Teardown
// =============================================================================

// Destroy stops every animation and background task and releases the
// content cache. Later calls fail with DESTROYED. Destroy is idempotent.
func (c *Controller) Destroy() {
	c.mu.Lock()
	if c.state == Destroyed {
		c.mu.Unlock()
		return
	}
	c.state = Destroyed
	c.mu.Unlock()

	c.watcher.Stop()
	c.haltAnimations()
	c.batcher.Stop()
	if c.cache != nil {
		_ = c.cache.Close()
	}
	c.wg.Wait()
	c.selection.Reset()
	c.logger.Debug("controller destroyed")
}

func (c *Controller) alive() error {
	if c.State() == Destroyed {
		return rerrors.New(rerrors.ErrCodeDestroyed, "controller %s destroyed", c.id)
	}
	return nil
}

func (c *Controller) ready() error {
	switch s := c.State(); s {
	case Ready:
		return nil
	case Destroyed:
		return rerrors.New(rerrors.ErrCodeDestroyed, "controller %s destroyed", c.id)
	default:
		return rerrors.New(rerrors.ErrCodeInvalidInput, "controller %s is %s", c.id, s)
	}
}

func (c *Controller) emitError(err error) {
	c.bus.OnError(events.NewErrorEvent(err))
}

// Listeners returns the number of subscribed listeners.
func (c *Controller) Listeners() int { return c.bus.Len() }
