// Package tui is the terminal styleguide browser. It hosts one session and
// redraws whenever the session scheduler delivers a message.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/3-lines-studio/monocle/internal/adapters/history"
	"github.com/3-lines-studio/monocle/internal/core"
	"github.com/3-lines-studio/monocle/internal/store"
)

// Controller is the part of a session the browser drives.
type Controller interface {
	Dispatch(msg core.Message)
	Back() bool
	Forward() bool
}

// State is the part of the session state the browser renders.
type State interface {
	CurrentlySelected() core.Selection
	StyleguideObjects() map[string]core.StyleguideObject
	Preview() store.Preview
}

// Location reports the current history entry.
type Location interface {
	Current() (history.Entry, bool)
}

// SessionUpdatedMsg tells the browser to re-read the session state.
type SessionUpdatedMsg struct {
	Kind core.Kind
}

// TitleChangedMsg carries a new document title to the terminal.
type TitleChangedMsg struct {
	Title string
}

// Notifier forwards session messages and document titles to a running
// program.
type Notifier struct {
	program atomic.Pointer[tea.Program]
	title   atomic.Pointer[string]
}

func (n *Notifier) Attach(p *tea.Program) {
	n.program.Store(p)
}

// Notify is registered as a session observer.
func (n *Notifier) Notify(msg core.Message) {
	if p := n.program.Load(); p != nil {
		p.Send(SessionUpdatedMsg{Kind: msg.Kind()})
	}
}

// SetTitle is the title sink of the session. The terminal window title
// follows it.
func (n *Notifier) SetTitle(title string) {
	n.title.Store(&title)
	if p := n.program.Load(); p != nil {
		p.Send(TitleChangedMsg{Title: title})
	}
}

// Title returns the last title written, or "".
func (n *Notifier) Title() string {
	if title := n.title.Load(); title != nil {
		return *title
	}
	return ""
}

var (
	activeSiteStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1)
	siteStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	previewStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const helpLine = "↑/↓ select • tab site • [ back • ] forward • q quit"

type prototypeItem struct {
	name string
	obj  core.StyleguideObject
}

func (i prototypeItem) Title() string {
	if i.obj.Title != "" {
		return i.obj.Title
	}
	return i.name
}

func (i prototypeItem) Description() string {
	if i.obj.Description != "" {
		return i.obj.Description
	}
	return i.name
}

func (i prototypeItem) FilterValue() string { return i.name }

type Model struct {
	ctrl     Controller
	state    State
	location Location
	sites    []string

	prototypes list.Model
	preview    viewport.Model
	names      []string

	title string

	width  int
	height int
}

func NewModel(ctrl Controller, state State, location Location, sites []string) Model {
	prototypes := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	prototypes.Title = core.Namespace
	prototypes.SetShowStatusBar(false)
	prototypes.SetFilteringEnabled(false)
	prototypes.SetShowHelp(false)

	return Model{
		ctrl:       ctrl,
		state:      state,
		location:   location,
		sites:      sites,
		prototypes: prototypes,
		preview:    viewport.New(0, 0),
	}
}

func (m Model) Init() tea.Cmd {
	refresh := func() tea.Msg { return SessionUpdatedMsg{} }
	if m.title != "" {
		return tea.Batch(refresh, tea.SetWindowTitle(m.title))
	}
	return refresh
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case SessionUpdatedMsg:
		return m, m.refresh()

	case TitleChangedMsg:
		m.title = msg.Title
		return m, tea.SetWindowTitle(msg.Title)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.nextSite()
			return m, nil
		case "[":
			m.ctrl.Back()
			return m, nil
		case "]":
			m.ctrl.Forward()
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd
		}

		before := m.prototypes.Index()
		var cmd tea.Cmd
		m.prototypes, cmd = m.prototypes.Update(msg)
		if m.prototypes.Index() != before {
			m.selectCurrent()
		}
		return m, cmd
	}

	return m, nil
}

func (m *Model) selectCurrent() {
	item, ok := m.prototypes.SelectedItem().(prototypeItem)
	if !ok {
		return
	}
	selection := m.state.CurrentlySelected()
	if item.name == selection.PrototypeName {
		return
	}
	m.ctrl.Dispatch(core.NewRoute(selection.SitePackageKey, item.name))
}

func (m *Model) nextSite() {
	if len(m.sites) == 0 {
		return
	}
	current := m.state.CurrentlySelected().SitePackageKey
	next := m.sites[0]
	for i, site := range m.sites {
		if site == current {
			next = m.sites[(i+1)%len(m.sites)]
			break
		}
	}
	if next == current {
		return
	}
	m.ctrl.Dispatch(core.NewRoute(next, ""))
}

func (m *Model) refresh() tea.Cmd {
	var cmd tea.Cmd

	objects := m.state.StyleguideObjects()
	names := core.PrototypeNames(objects)
	if strings.Join(names, "\n") != strings.Join(m.names, "\n") {
		items := make([]list.Item, 0, len(names))
		for _, name := range names {
			items = append(items, prototypeItem{name: name, obj: objects[name]})
		}
		m.names = names
		cmd = m.prototypes.SetItems(items)
	}

	selection := m.state.CurrentlySelected()
	for i, name := range m.names {
		if name == selection.PrototypeName {
			m.prototypes.Select(i)
			break
		}
	}

	preview := m.state.Preview()
	switch {
	case !selection.HasPrototype():
		m.preview.SetContent(statusStyle.Render("No prototype selected"))
	case preview.Err != nil:
		m.preview.SetContent(errorStyle.Render(preview.Err.Error()))
	case !preview.Ready:
		m.preview.SetContent(statusStyle.Render("Rendering " + selection.PrototypeName + "…"))
	default:
		m.preview.SetContent(preview.HTML)
	}
	return cmd
}

func (m *Model) resize() {
	listWidth := m.width / 3
	bodyHeight := max(m.height-4, 1)
	m.prototypes.SetSize(listWidth, bodyHeight)

	frameW, frameH := previewStyle.GetFrameSize()
	m.preview.Width = max(m.width-listWidth-frameW, 1)
	m.preview.Height = max(bodyHeight-frameH, 1)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.siteTabs())
	b.WriteString("\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.prototypes.View(), previewStyle.Render(m.preview.View()))
	b.WriteString(body)
	b.WriteString("\n")

	status := helpLine
	if m.location != nil {
		if entry, ok := m.location.Current(); ok {
			status = fmt.Sprintf("%s  %s • %s", entry.Title, entry.URL, helpLine)
		}
	}
	b.WriteString(statusStyle.Render(status))
	return b.String()
}

func (m Model) siteTabs() string {
	current := m.state.CurrentlySelected().SitePackageKey
	tabs := make([]string, 0, len(m.sites))
	for _, site := range m.sites {
		if site == current {
			tabs = append(tabs, activeSiteStyle.Render(site))
		} else {
			tabs = append(tabs, siteStyle.Render(site))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// Run shows the browser until the user quits or ctx ends.
func Run(ctx context.Context, model Model, notifier *Notifier) error {
	model.title = notifier.Title()
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	notifier.Attach(p)
	defer notifier.Attach(nil)
	if title := notifier.Title(); title != model.title {
		go p.Send(TitleChangedMsg{Title: title})
	}

	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
