package nav

import (
	"context"
	"fmt"

	"github.com/vvka-141/filer/internal/enumerate"
	"github.com/vvka-141/filer/internal/logging"
	"github.com/vvka-141/filer/internal/registry"
	"github.com/vvka-141/filer/pkg/filer"
)

// ActivateFunc is the injected handler invoked when a file node is
// double-activated. Launching, viewing or editing is entirely the caller's
// business; the core only routes the gesture.
type ActivateFunc func(ctx context.Context, node filer.Node) error

// UpdateFunc is the injected notification hook invoked after a session's
// visible state changed (selection, listing, activation).
type UpdateFunc func(sess *registry.Session)

// Controller drives sessions from gestures. Gestures are expected from a
// single event-driven front end, processed one at a time; only listing
// results arrive concurrently, and those are serialized by the sessions
// themselves.
type Controller struct {
	enum     *enumerate.Enumerator
	registry *registry.Registry
	scheme   filer.PathScheme
	log      filer.Logger
	activate ActivateFunc
	onUpdate UpdateFunc
	run      func(func())
}

// Option configures a Controller.
type Option func(*Controller)

// WithActivate sets the file activation callback. Without it, activating a
// file is an explicit no-op.
func WithActivate(fn ActivateFunc) Option {
	return func(c *Controller) { c.activate = fn }
}

// WithOnUpdate sets the session update notification hook.
func WithOnUpdate(fn UpdateFunc) Option {
	return func(c *Controller) { c.onUpdate = fn }
}

// WithRunner replaces the goroutine used for listing requests. Tests
// inject a synchronous runner for deterministic completion.
func WithRunner(run func(func())) Option {
	return func(c *Controller) { c.run = run }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log filer.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// New creates a Controller.
// Panics if enum, reg or scheme is nil.
func New(enum *enumerate.Enumerator, reg *registry.Registry, scheme filer.PathScheme, opts ...Option) *Controller {
	if enum == nil {
		panic("enum cannot be nil")
	}
	if reg == nil {
		panic("registry cannot be nil")
	}
	if scheme == nil {
		panic("scheme cannot be nil")
	}
	c := &Controller{
		enum:     enum,
		registry: reg,
		scheme:   scheme,
		log:      logging.NewNullLogger(),
		run:      func(f func()) { go f() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OpenPath parses scheme text and opens or reuses a window session for it.
// This is the entry point the presentation layer uses for its initial
// window and "open directory" menu items.
func (c *Controller) OpenPath(ctx context.Context, text string) (*registry.Session, error) {
	path, err := c.scheme.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", text, err)
	}
	return c.openOrReuse(ctx, path), nil
}

// Refresh requests a fresh listing for a session. The request may complete
// asynchronously; a result superseded by a later refresh or by closing the
// session is discarded.
func (c *Controller) Refresh(ctx context.Context, sess *registry.Session) {
	c.requestListing(ctx, sess, sess.BeginRefresh())
}

// HandleGesture applies one gesture to a session.
//
// Gestures referring to nodes that are no longer present in the session's
// listing fail softly: the gesture is ignored and the stale node is
// dropped from the selection on the next listing refresh.
func (c *Controller) HandleGesture(ctx context.Context, sess *registry.Session, g Gesture) error {
	if sess.Closed() {
		return fmt.Errorf("gesture %s: %w", g.Kind, filer.ErrSessionClosed)
	}
	switch g.Kind {
	case GestureClick:
		node, ok := c.targetNode(sess, g.Target)
		if !ok {
			return nil
		}
		if g.Modifiers.MultiSelect {
			sess.ToggleSelect(node)
		} else {
			sess.SelectOnly(node)
		}
		c.notify(sess)
		return nil

	case GestureDoubleClick:
		node, ok := c.targetNode(sess, g.Target)
		if !ok {
			return nil
		}
		if node.IsDir() {
			return c.activateDirectory(ctx, sess, node, g.Modifiers.Alternate)
		}
		return c.activateFile(ctx, node)

	case GestureCloseWindow:
		c.closeWindow(sess)
		return nil

	default:
		return fmt.Errorf("unsupported gesture kind %d", int(g.Kind))
	}
}

// activateDirectory performs one of the two navigation outcomes.
//
// Default action: an existing window for the target is reused (raised);
// otherwise the current session navigates there in place. Alternate
// action: a new session is always created alongside, registered
// best-effort so the one-per-identity registry invariant holds.
func (c *Controller) activateDirectory(ctx context.Context, sess *registry.Session, node filer.Node, alternate bool) error {
	if !node.Enumerable {
		c.log.Verbose("ignoring activation of non-enumerable directory %s", node.Name)
		return nil
	}
	target := node.Path

	if alternate {
		alongside := registry.NewSession(c.scheme, target)
		c.registry.Insert(alongside)
		c.registry.Activate(alongside)
		c.requestListing(ctx, alongside, alongside.BeginRefresh())
		c.notify(alongside)
		return nil
	}

	if existing, ok := c.registry.Lookup(target); ok && existing != sess {
		c.registry.Activate(existing)
		c.notify(existing)
		return nil
	}

	gen, ok := c.registry.Rekey(sess, target)
	if !ok {
		// Lost the key between lookup and rekey; reuse the winner.
		if existing, found := c.registry.Lookup(target); found {
			c.registry.Activate(existing)
			c.notify(existing)
		}
		return nil
	}
	c.registry.Activate(sess)
	c.requestListing(ctx, sess, gen)
	c.notify(sess)
	return nil
}

func (c *Controller) activateFile(ctx context.Context, node filer.Node) error {
	if c.activate == nil {
		c.log.Verbose("no activate handler for %s", node.Name)
		return nil
	}
	if err := c.activate(ctx, node); err != nil {
		return fmt.Errorf("activate %s: %w", node.Name, err)
	}
	return nil
}

func (c *Controller) closeWindow(sess *registry.Session) {
	c.registry.Release(sess)
	sess.Close()
	c.log.Verbose("closed window for %s", c.scheme.Render(sess.Path()))
}

// openOrReuse returns the registered session for the path, creating and
// populating one when none exists.
func (c *Controller) openOrReuse(ctx context.Context, path filer.CanonicalPath) *registry.Session {
	sess, created := c.registry.LookupOrCreate(path, func() *registry.Session {
		return registry.NewSession(c.scheme, path)
	})
	c.registry.Activate(sess)
	if created {
		c.requestListing(ctx, sess, sess.BeginRefresh())
	}
	c.notify(sess)
	return sess
}

// requestListing fetches a listing off the gesture path through the
// runner. The session applies the result only if the generation is still
// current.
func (c *Controller) requestListing(ctx context.Context, sess *registry.Session, gen uint64) {
	path := sess.Path()
	c.run(func() {
		listing, err := c.enum.List(ctx, path)
		if err != nil {
			// The session stays open on its previous listing; nothing in
			// the core is fatal to other windows.
			c.log.Error("list %s: %v", c.scheme.Render(path), err)
			return
		}
		if sess.ApplyListing(gen, listing) {
			c.notify(sess)
		} else {
			c.log.Verbose("discarded superseded listing for %s", c.scheme.Render(path))
		}
	})
}

func (c *Controller) targetNode(sess *registry.Session, target filer.CanonicalPath) (filer.Node, bool) {
	node, ok := sess.Listing().Find(c.scheme, target)
	if !ok {
		c.log.Verbose("ignoring gesture on absent node %s", c.scheme.Render(target))
	}
	return node, ok
}

func (c *Controller) notify(sess *registry.Session) {
	if c.onUpdate != nil {
		c.onUpdate(sess)
	}
}
