package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/radiant/pkg/config"
	"github.com/matzehuels/radiant/pkg/events"
	"github.com/matzehuels/radiant/pkg/hierarchy"
	"github.com/matzehuels/radiant/pkg/radial"
	"github.com/matzehuels/radiant/pkg/selection"
	"github.com/matzehuels/radiant/pkg/viewport"
)

// Terminal cells are mapped to pixels with these factors when resizing the
// controller.
const (
	cellWidth  = 8
	cellHeight = 16
)

// exploreCommand creates the interactive terminal navigator.
func (c *CLI) exploreCommand() *cobra.Command {
	var cf contentFlags

	cmd := &cobra.Command{
		Use:   "explore [hierarchy.json|hierarchy.toml]",
		Short: "Navigate a hierarchy interactively in the terminal",
		Args:  cobra.ExactArgs(1),

		ValidArgsFunction: completeHierarchyFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runExplore(cmd.Context(), cfg, args[0], cf)
		},
	}
	cf.register(cmd)
	return cmd
}

func (c *CLI) runExplore(ctx context.Context, cfg config.Config, input string, cf contentFlags) error {
	doc, err := hierarchy.ReadDocumentFile(input)
	if err != nil {
		return err
	}
	src, closeSrc, err := cf.open(ctx)
	if err != nil {
		return err
	}
	defer closeSrc()

	feed := newFrameFeed()
	listener, evs := events.Channel(64)
	ctrl, err := radial.New(radial.Options{
		Config:   cfg,
		Content:  src,
		Renderer: feed,
		Listener: listener,
		Logger:   c.Logger,
	})
	if err != nil {
		return err
	}
	defer ctrl.Destroy()

	if err := ctrl.SetData(ctx, doc); err != nil {
		return err
	}

	m := newExploreModel(ctx, ctrl, feed.frames, evs)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// =============================================================================
// Frame Feed
// =============================================================================

// frameFeed is a radial.Renderer that keeps only the newest undelivered
// frame, so a slow terminal never stalls an animation.
type frameFeed struct {
	frames chan radial.Frame
}

func newFrameFeed() *frameFeed {
	return &frameFeed{frames: make(chan radial.Frame, 1)}
}

func (f *frameFeed) Render(_ context.Context, fr radial.Frame) error {
	for {
		select {
		case f.frames <- fr:
			return nil
		default:
		}
		select {
		case <-f.frames:
		default:
		}
	}
}

// =============================================================================
// ExploreModel
// =============================================================================

type (
	frameMsg      radial.Frame
	eventMsg      events.Event
	selectDoneMsg struct{ err error }
	contentMsg    struct {
		id     string
		markup string
		err    error
	}
)

// navigator is the part of the controller the explorer drives.
type navigator interface {
	Tree() *hierarchy.Tree
	Selection() selection.Snapshot
	Select(ctx context.Context, id string) error
	Back(ctx context.Context) error
	Resize(container viewport.Size)
	Path(id string) ([]string, error)
}

// exploreModel is the bubbletea model of `radiant explore`.
type exploreModel struct {
	ctx    context.Context
	nav    navigator
	frames <-chan radial.Frame
	events <-chan events.Event
	fetch  func(ctx context.Context, id string) (string, error)

	frame   radial.Frame
	busy    bool
	status  string
	content string
}

func newExploreModel(ctx context.Context, ctrl *radial.Controller, frames <-chan radial.Frame, evs <-chan events.Event) exploreModel {
	m := exploreModel{ctx: ctx, nav: ctrl, frames: frames, events: evs, frame: ctrl.Frame()}
	if ctrl.Cache() != nil {
		m.fetch = func(ctx context.Context, id string) (string, error) {
			p, err := ctrl.Content(ctx, id)
			return p.Markup, err
		}
	}
	return m
}

func (m exploreModel) Init() tea.Cmd {
	return tea.Batch(waitFrame(m.frames), waitEvent(m.events))
}

func waitFrame(ch <-chan radial.Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-ch
		if !ok {
			return nil
		}
		return frameMsg(f)
	}
}

func waitEvent(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg(e)
	}
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case tea.WindowSizeMsg:
		m.nav.Resize(viewport.Size{Width: float64(msg.Width * cellWidth), Height: float64(msg.Height * cellHeight)})

	case frameMsg:
		m.frame = radial.Frame(msg)
		return m, waitFrame(m.frames)

	case eventMsg:
		cmd := m.handleEvent(events.Event(msg))
		return m, tea.Batch(cmd, waitEvent(m.events))

	case selectDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.status = msg.err.Error()
		}

	case contentMsg:
		if msg.id != m.nav.Selection().CurrentID() {
			return m, nil
		}
		if msg.err != nil {
			m.content = StyleWarning.Render(msg.err.Error())
		} else {
			m.content = msg.markup
		}
	}
	return m, nil
}

func (m exploreModel) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}

	ctx, nav := m.ctx, m.nav
	var run func() error
	if key == "b" {
		run = func() error { return nav.Back(ctx) }
	} else if target := navigate(nav.Tree(), nav.Selection().Current, key); target != "" {
		run = func() error { return nav.Select(ctx, target) }
	}
	if run == nil {
		return m, nil
	}
	m.busy = true
	m.status = ""
	return m, func() tea.Msg { return selectDoneMsg{err: run()} }
}

func (m *exploreModel) handleEvent(e events.Event) tea.Cmd {
	switch e.Kind {
	case events.KindError:
		m.status = fmt.Sprintf("%s: %s", e.Error.Kind, e.Error.Message)
	case events.KindSelectionChanged:
		m.content = ""
		if m.fetch == nil || e.Selection.Current == "" {
			return nil
		}
		id, ctx, fetch := e.Selection.Current, m.ctx, m.fetch
		return func() tea.Msg {
			markup, err := fetch(ctx, id)
			return contentMsg{id: id, markup: markup, err: err}
		}
	}
	return nil
}

// navigate maps a key to the id of the node it moves to, or "".
//
//	left/h, right/l   previous / next sibling (wrapping)
//	down/j, enter     first child
//	up/k, backspace   parent
//	home/r            root
func navigate(t *hierarchy.Tree, cur *hierarchy.Node, key string) string {
	if t == nil {
		return ""
	}
	if cur == nil {
		cur = t.Root
	}
	switch key {
	case "home", "r":
		if cur != t.Root {
			return t.Root.ID
		}
	case "up", "k", "backspace":
		if p := cur.Parent(); p != nil {
			return p.ID
		}
	case "down", "j", "enter":
		if len(cur.Children) > 0 {
			return cur.Children[0].ID
		}
	case "right", "l", "left", "h":
		p := cur.Parent()
		if p == nil {
			if len(cur.Children) > 0 {
				return cur.Children[0].ID
			}
			return ""
		}
		n := len(p.Children)
		if n < 2 {
			return ""
		}
		step := 1
		if key == "left" || key == "h" {
			step = n - 1
		}
		return p.Children[(cur.Index()+step)%n].ID
	}
	return ""
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Radiant"))
	if cur := m.nav.Selection().CurrentID(); cur != "" {
		if path, err := m.nav.Path(cur); err == nil {
			b.WriteString(StyleDim.Render("  " + strings.Join(path, pathSep)))
		}
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ siblings  ↓ children  ↑ parent  b back  r root  q quit"))
	b.WriteString("\n\n")

	if t := m.nav.Tree(); t != nil {
		cur := m.nav.Selection().CurrentID()
		if cur == "" {
			cur = t.Root.ID
		}
		b.WriteString(m.nodeLine(t.Root, cur, 0))
		for _, p := range t.Root.Children {
			b.WriteString(m.nodeLine(p, cur, 1))
			for _, s := range p.Children {
				b.WriteString(m.nodeLine(s, cur, 2))
			}
		}
	}

	d := m.frame.Dimensions
	b.WriteString("\n")
	status := fmt.Sprintf("%s · %.0fx%.0f", d.Breakpoint, d.Width, d.Height)
	if m.busy {
		status += " · animating"
	}
	b.WriteString(StyleDim.Render(status))
	if m.status != "" {
		b.WriteString("\n" + StyleWarning.Render(m.status))
	}
	if m.content != "" {
		b.WriteString("\n\n" + contentStyle.Render(m.content))
	}
	return b.String()
}

// nodeLine renders one node with its classification, angle and pulse.
func (m exploreModel) nodeLine(n *hierarchy.Node, current string, indent int) string {
	nf, ok := m.frame.Node(n.ID)
	if !ok {
		return ""
	}

	cursor := "  "
	if n.ID == current {
		cursor = cursorStyle.Render("▸ ")
	}

	marker := "●"
	if nf.Scale > 1.05 {
		marker = "◉"
	}

	style := nodeNormalStyle
	switch {
	case nf.Active:
		style = nodeActiveStyle
	case nf.Faded:
		style = nodeFadedStyle
	case nf.Sibling:
		style = nodeSiblingStyle
	}

	deg := nf.Angle * 180 / math.Pi
	return fmt.Sprintf("%s%s%s %s %s\n",
		strings.Repeat("  ", indent), cursor, style.Render(marker), style.Render(n.Label()),
		StyleDim.Render(fmt.Sprintf("%3.0f°", deg)))
}
