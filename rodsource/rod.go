package rodsource

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"

	"samplerctl/controls"
	"samplerctl/uitree"
)

// Config selects the page to bind and how to reach a browser.
type Config struct {
	// PageURL is the chat application page carrying the settings panel.
	PageURL string

	// ControlURL is a DevTools websocket URL of an already-running browser.
	// When empty, a headless browser is launched and owned by this Source.
	ControlURL string

	// Headless applies only to a launched browser.
	Headless bool

	// RootSelector scopes snapshots; it must contain both the parameters
	// panel and its visibility boundary. Defaults to "body".
	RootSelector string
}

// Source is a live-browser controls.Source.
type Source struct {
	page     *rod.Page
	browser  *rod.Browser
	launched *launcher.Launcher
	rootSel  string
	log      *slog.Logger
}

var _ controls.Source = (*Source)(nil)

// Option configures a Source.
type Option func(*Source)

// WithLogger overrides the logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.log = l
		}
	}
}

// New connects to (or launches) a browser, opens the configured page and
// waits for it to load.
func New(ctx context.Context, cfg Config, opts ...Option) (*Source, error) {
	if cfg.PageURL == "" {
		return nil, fmt.Errorf("rodsource: page URL is required")
	}
	s := &Source{
		rootSel: cfg.RootSelector,
		log:     slog.Default(),
	}
	if s.rootSel == "" {
		s.rootSel = "body"
	}
	for _, opt := range opts {
		opt(s)
	}

	controlURL := cfg.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(cfg.Headless)
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("rodsource: launch browser: %w", err)
		}
		s.launched = l
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		s.cleanupLauncher()
		return nil, fmt.Errorf("rodsource: connect browser: %w", err)
	}
	s.browser = browser

	page, err := browser.Page(proto.TargetCreateTarget{URL: cfg.PageURL})
	if err != nil {
		_ = browser.Close()
		s.cleanupLauncher()
		return nil, fmt.Errorf("rodsource: open page %s: %w", cfg.PageURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		_ = page.Close()
		_ = browser.Close()
		s.cleanupLauncher()
		return nil, fmt.Errorf("rodsource: load page %s: %w", cfg.PageURL, err)
	}
	s.page = page
	s.log.Info("bound to live page", slog.String("url", cfg.PageURL), slog.Bool("launched", s.launched != nil))
	return s, nil
}

// Close releases the page, and the browser too when this Source launched it.
// An attached browser is left running.
func (s *Source) Close() error {
	var firstErr error
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			firstErr = err
		}
	}
	if s.launched != nil {
		if err := s.browser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.cleanupLauncher()
	}
	return firstErr
}

func (s *Source) cleanupLauncher() {
	if s.launched != nil {
		s.launched.Cleanup()
	}
}

// Snapshot serializes the configured subtree in one page evaluation.
func (s *Source) Snapshot(ctx context.Context) (*uitree.Node, error) {
	snapID := uuid.NewString()
	res, err := s.page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:      fmt.Sprintf(snapshotJS, s.rootSel),
		ByValue: true,
	})
	if err != nil {
		return nil, fmt.Errorf("rodsource: snapshot %s: %w", snapID, err)
	}
	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("rodsource: snapshot %s: %w", snapID, err)
	}
	root, err := uitree.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("rodsource: snapshot %s: decode: %w", snapID, err)
	}
	s.log.Debug("page snapshot", slog.String("snapshot_id", snapID), slog.Int("bytes", len(raw)))
	return root, nil
}

// Mutate writes to the addressed input and dispatches a bubbling input event
// followed by exactly one bubbling change event, matching what a user
// interaction produces.
func (s *Source) Mutate(ctx context.Context, m controls.Mutation) error {
	var assign string
	switch {
	case m.Checked != nil:
		assign = fmt.Sprintf("el.checked = %t;", *m.Checked)
	case m.Value != nil:
		assign = fmt.Sprintf("el.value = %q;", strconv.FormatFloat(*m.Value, 'f', -1, 64))
	default:
		return fmt.Errorf("rodsource: empty mutation for %q", m.Ref.RawID)
	}
	pathJSON, err := json.Marshal(m.Ref.Path)
	if err != nil {
		return err
	}

	res, err := s.page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:      fmt.Sprintf(mutateJS, s.rootSel, pathJSON, assign),
		ByValue: true,
	})
	if err != nil {
		return fmt.Errorf("rodsource: mutate %q: %w", m.Ref.RawID, err)
	}
	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return err
	}
	var failure string
	if err := json.Unmarshal(raw, &failure); err != nil {
		return fmt.Errorf("rodsource: mutate %q: unexpected result %s", m.Ref.RawID, raw)
	}
	if failure != "" {
		return fmt.Errorf("rodsource: mutate %q: %s", m.Ref.RawID, failure)
	}
	return nil
}

// snapshotJS serializes a subtree: tag, id, classes, attributes (with live
// input value/checked), the style subset visibility checks need, own text and
// children. Shape mirrors uitree.Node's JSON form.
const snapshotJS = `() => {
	const root = document.querySelector(%q);
	if (!root) return null;
	const ser = (el) => {
		const cs = window.getComputedStyle(el);
		const attrs = {};
		for (const a of el.attributes) { attrs[a.name] = a.value; }
		if (el.tagName === 'INPUT') {
			attrs.value = String(el.value);
			attrs.checked = String(!!el.checked);
		}
		let text = '';
		for (const c of el.childNodes) {
			if (c.nodeType === 3) text += c.textContent;
		}
		return {
			tag: el.tagName.toLowerCase(),
			id: el.id || '',
			classes: Array.from(el.classList),
			attrs: attrs,
			styles: { display: cs.display, visibility: cs.visibility, opacity: cs.opacity },
			text: text.trim(),
			children: Array.from(el.children).map(ser)
		};
	};
	return ser(root);
}`

// mutateJS resolves an element-index path below the snapshot root, applies
// the assignment and dispatches bubbling input and change events. Returns ""
// on success or a failure description.
const mutateJS = `() => {
	const root = document.querySelector(%q);
	if (!root) return 'snapshot root not found';
	let el = root;
	for (const i of %s) {
		el = el.children[i];
		if (!el) return 'element path out of range';
	}
	if (el.tagName !== 'INPUT') return 'element at path is not an input';
	%s
	el.dispatchEvent(new Event('input', { bubbles: true }));
	el.dispatchEvent(new Event('change', { bubbles: true }));
	return '';
}`
