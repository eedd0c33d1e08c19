package ui

import (
	"context"
	"errors"
	"image"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/devpreview/internal/device"
	"github.com/five82/devpreview/internal/dropwatch"
	"github.com/five82/devpreview/internal/logtail"
	"github.com/five82/devpreview/internal/media"
	"github.com/five82/devpreview/internal/playback"
	"github.com/five82/devpreview/internal/state"
)

// PlayTick is how often video playheads advance.
const PlayTick = 250 * time.Millisecond

// Loader decodes stills and probes video durations. media.Prober is the
// production implementation.
type Loader interface {
	Load(ctx context.Context, f media.File, kind media.Kind) (image.Image, error)
	Duration(ctx context.Context, f media.File) (time.Duration, error)
}

// Options configures the UI.
type Options struct {
	Context     context.Context
	Catalog     *device.Catalog
	Selected    []string
	Scale       float64
	View        state.ViewMode
	ThemeName   string
	PlayPolicy  playback.Policy
	CellWidth   int // preview pixels per terminal column
	CellHeight  int // preview pixels per terminal row
	Loader      Loader
	Drops       <-chan dropwatch.Drop
	DropDir     string
	LogFile     string
	InitialFile string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx         context.Context
	loader      Loader
	drops       <-chan dropwatch.Drop
	dropDir     string
	logFile     string
	cellW       int
	cellH       int
	initialFile string

	// Preview state
	panel  *state.Panel
	stills *media.Stills
	clocks *clockSet
	cells  *cellCache

	// UI state
	theme    Theme
	keys     keyMap
	width    int
	height   int
	ready    bool
	lastTick time.Time
	content  viewport.Model
	cursor   int // dropdown row

	// Notice shown in the header after intake events
	notice      string
	noticeLevel logtail.Level

	// Overlays
	showHelp   bool
	showLogs   bool
	logView    viewport.Model
	pickerOpen bool
	picker     picker
}

// New creates a new Bubble Tea model with a fresh panel.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	loader := opts.Loader
	if loader == nil {
		loader = media.Prober{}
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}
	cellW, cellH := opts.CellWidth, opts.CellHeight
	if cellW <= 0 {
		cellW = 8
	}
	if cellH <= 0 {
		cellH = 16
	}

	alloc := media.NewAllocator()
	stills := media.NewStills(alloc)
	alloc.OnRelease = stills.Forget

	clocks := &clockSet{policy: opts.PlayPolicy}
	panel := state.NewPanel(state.Options{
		Catalog:   opts.Catalog,
		Allocator: alloc,
		Players:   clocks.newInstance,
		Selected:  opts.Selected,
		Scale:     opts.Scale,
		View:      opts.View,
	})

	return Model{
		ctx:         ctx,
		loader:      loader,
		drops:       opts.Drops,
		dropDir:     opts.DropDir,
		logFile:     opts.LogFile,
		cellW:       cellW,
		cellH:       cellH,
		initialFile: opts.InitialFile,
		panel:       panel,
		stills:      stills,
		clocks:      clocks,
		cells:       newCellCache(),
		theme:       GetTheme(themeName),
		keys:        DefaultKeyMap(),
		picker:      newPicker(),
	}
}

// Panel returns the preview state owned by the model.
func (m Model) Panel() *state.Panel { return m.panel }

// Close releases any media the panel still holds.
func (m Model) Close() { m.panel.Close() }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(PlayTick),
	}
	if m.drops != nil {
		cmds = append(cmds, waitForDrop(m.drops))
	}
	if m.initialFile != "" {
		cmds = append(cmds, openFileCmd(m.initialFile, intakeBrowse))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.content = viewport.New(m.width, m.contentHeight())
			m.logView = viewport.New(m.modalWidth()-6, m.height-10)
		}
		m.ready = true
		m.resize()
		m.refresh()
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case dropMsg:
		return m, tea.Batch(
			openFileCmd(msg.Path, intakeDrop),
			waitForDrop(m.drops),
		)

	case fileMsg:
		return m.handleFile(msg)

	case stillMsg:
		if msg.err != nil {
			log.Printf("media: decode %s failed: %v", msg.name, msg.err)
		}
		if !m.stills.Store(msg.loc, msg.img, msg.err) {
			// Media was replaced or cleared while decoding.
			return m, nil
		}
		m.refresh()
		return m, nil

	case durationMsg:
		if msg.loc != m.panel.Media().Locator {
			return m, nil
		}
		if msg.err != nil {
			log.Printf("media: probe %s failed: %v", msg.name, msg.err)
			return m, nil
		}
		m.clocks.setDuration(msg.d, m.panel.Playback())
		m.refresh()
		return m, nil

	case logsMsg:
		m.handleLogs(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showLogs {
		return m.renderDiagnostics()
	}
	if m.pickerOpen {
		return m.renderPicker()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.showLogs {
		return m.handleLogsKey(msg)
	}
	if m.pickerOpen {
		return m.handlePickerKey(msg)
	}

	// Dragging a file onto most terminals pastes its path.
	if msg.Paste {
		path := cleanPastedPath(string(msg.Runes))
		if path == "" {
			return m, nil
		}
		return m, openFileCmd(path, intakeDrop)
	}

	if m.panel.DropdownOpen() {
		if handled, cmd := m.handleDropdownKey(msg); handled {
			m.refresh()
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		closeCmd := m.closeDropdownForOverlay()
		m.showHelp = true
		return m, closeCmd

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Diagnostics):
		closeCmd := m.closeDropdownForOverlay()
		m.showLogs = true
		return m, tea.Batch(closeCmd, readLogsCmd(m.logFile))

	case key.Matches(msg, m.keys.Open):
		closeCmd := m.closeDropdownForOverlay()
		m.pickerOpen = true
		m.picker.open(m.pickerStart())
		return m, closeCmd

	case key.Matches(msg, m.keys.Clear):
		m.panel.ClearMedia()
		m.clocks.reset()
		m.setNotice("", logtail.LevelInfo)

	case key.Matches(msg, m.keys.PlayPause):
		m.panel.TogglePlayPause()

	case key.Matches(msg, m.keys.Restart):
		m.panel.RestartVideos()

	case key.Matches(msg, m.keys.Devices):
		return m.openDropdown()

	case key.Matches(msg, m.keys.ScaleUp):
		m.panel.StepScale(1)

	case key.Matches(msg, m.keys.ScaleDown):
		m.panel.StepScale(-1)

	case key.Matches(msg, m.keys.Grid):
		m.panel.SetViewMode(state.ViewGrid)

	case key.Matches(msg, m.keys.Stack):
		m.panel.SetViewMode(state.ViewStack)

	case key.Matches(msg, m.keys.Down):
		m.content.ScrollDown(1)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.content.ScrollUp(1)
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.content.PageDown()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.content.PageUp()
		return m, nil

	default:
		return m, nil
	}

	m.refresh()
	return m, nil
}

// handleTick advances playing clocks and schedules the next tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := PlayTick
	if !m.lastTick.IsZero() {
		dt = now.Sub(m.lastTick)
	}
	m.lastTick = now

	if m.panel.Media().IsVideo() {
		m.panel.Playback().Each(func(_ string, inst playback.Instance) {
			if c, ok := inst.(*playback.Clock); ok {
				c.Advance(dt)
			}
		})
		m.refresh()
	}
	return m, tickCmd(PlayTick)
}

// handleFile applies an opened file through the browse or drop path.
func (m Model) handleFile(msg fileMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.Printf("intake: open failed: %v", msg.err)
		m.setNotice("Could not open file", logtail.LevelError)
		return m, nil
	}

	f := msg.file
	// New clocks mount during the load and must not inherit the old duration.
	prev := m.clocks.duration
	m.clocks.reset()
	switch msg.via {
	case intakeDrop:
		if !m.panel.DropMedia(f) {
			m.clocks.duration = prev
			log.Printf("intake: drop %s ignored: unsupported type %q", f.Name, f.ContentType)
			m.setNotice("Ignored "+f.Name+": not an image or video", logtail.LevelWarn)
			return m, nil
		}
	default:
		m.panel.LoadMedia(f)
	}

	log.Printf("intake: loaded %s (%s)", f.Name, f.ContentType)
	m.setNotice("", logtail.LevelInfo)
	m.refresh()

	ref := m.panel.Media()
	cmds := []tea.Cmd{loadStillCmd(m.ctx, m.loader, ref)}
	if ref.IsVideo() {
		cmds = append(cmds, probeCmd(m.ctx, m.loader, ref))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) setNotice(text string, level logtail.Level) {
	m.notice = text
	m.noticeLevel = level
}

// contentHeight is the rows left for the preview below the header, the
// command bar and the dropdown when it is open.
func (m Model) contentHeight() int {
	h := m.height - 2
	if m.panel.DropdownOpen() {
		h -= m.dropdownHeight()
	}
	return max(h, 1)
}

func (m *Model) resize() {
	m.content.Width = m.width
	m.content.Height = m.contentHeight()
	m.logView.Width = m.modalWidth() - 6
	m.logView.Height = max(m.height-10, 3)
}

// refresh re-renders the preview into the content viewport.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.content.SetContent(m.renderPreview())
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	if m.panel.DropdownOpen() {
		b.WriteString(m.renderDropdown())
		b.WriteString("\n")
	}
	b.WriteString(m.content.View())

	return b.String()
}

// clockSet builds playback clocks for newly mounted frames and shares the
// probed duration of the current video with all of them.
type clockSet struct {
	policy   playback.Policy
	duration time.Duration
}

func (c *clockSet) newInstance(string) playback.Instance {
	return playback.NewClock(c.policy, c.duration)
}

func (c *clockSet) setDuration(d time.Duration, ctrl *playback.Controller) {
	c.duration = d
	ctrl.Each(func(_ string, inst playback.Instance) {
		if clock, ok := inst.(*playback.Clock); ok {
			clock.SetDuration(d)
		}
	})
}

func (c *clockSet) reset() {
	c.duration = 0
}

// Messages

type tickMsg time.Time

type intake int

const (
	intakeBrowse intake = iota
	intakeDrop
)

type dropMsg dropwatch.Drop

type fileMsg struct {
	file media.File
	via  intake
	err  error
}

type stillMsg struct {
	loc  media.Locator
	name string
	img  image.Image
	err  error
}

type durationMsg struct {
	loc  media.Locator
	name string
	d    time.Duration
	err  error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForDrop(ch <-chan dropwatch.Drop) tea.Cmd {
	return func() tea.Msg {
		d, ok := <-ch
		if !ok {
			return nil
		}
		return dropMsg(d)
	}
}

func openFileCmd(path string, via intake) tea.Cmd {
	return func() tea.Msg {
		f, err := media.OpenFile(path)
		return fileMsg{file: f, via: via, err: err}
	}
}

func loadStillCmd(ctx context.Context, loader Loader, ref media.Reference) tea.Cmd {
	return func() tea.Msg {
		img, err := loader.Load(ctx, ref.File, ref.Kind)
		return stillMsg{loc: ref.Locator, name: ref.File.Name, img: img, err: err}
	}
}

func probeCmd(ctx context.Context, loader Loader, ref media.Reference) tea.Cmd {
	return func() tea.Msg {
		d, err := loader.Duration(ctx, ref.File)
		return durationMsg{loc: ref.Locator, name: ref.File.Name, d: d, err: err}
	}
}

// Run starts the Bubble Tea program and releases media on exit.
func Run(opts Options) error {
	m := New(opts)
	defer m.Close()

	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, programOpts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
