package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rs/zerolog"

	"github.com/Dallionking/bubblebar/internal/bar"
	"github.com/Dallionking/bubblebar/internal/drag"
	"github.com/Dallionking/bubblebar/internal/tui/components"
	"github.com/Dallionking/bubblebar/internal/tui/styles"
)

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

// eventMsg carries one event read off the controller queue.
type eventMsg struct{ ev bar.Event }

// queueClosedMsg reports the controller queue was closed.
type queueClosedMsg struct{}

// frameMsg advances animations.
type frameMsg time.Time

// longPressMsg fires a scheduled long-press timer.
type longPressMsg struct{ sessionID string }

// Footer buttons.
const (
	buttonToggle  = "bubblebar.btn-toggle"
	buttonStash   = "bubblebar.btn-stash"
	buttonFlip    = "bubblebar.btn-flip"
	buttonDismiss = "bubblebar.btn-dismiss"
	buttonHelp    = "bubblebar.btn-help"
)

const (
	headerRows = 1
	footerRows = 1
)

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// BarOptions wires a BarModel.
type BarOptions struct {
	Controller *bar.Controller
	Queue      *bar.Queue
	// Pending reports deltas still materializing; nil means none.
	Pending func() int
	// Feed receives every command the controller sends, for the activity
	// log. It must be part of the controller's authority.
	Feed *bar.Recorder
	// Resolver is the controller's zone resolver, kept in step with the
	// stage geometry. Optional.
	Resolver *components.ZoneResolver
	Zones    components.Zones
	FPS      int
	Keys     *KeyMap
	Log      zerolog.Logger
	Now      func() time.Time
}

// BarModel is the terminal front end of the bubble bar. Bubble Tea's update
// loop is the controller's owning goroutine: every controller call happens
// in Update.
type BarModel struct {
	ctrl     *bar.Controller
	queue    *bar.Queue
	pending  func() int
	feed     *bar.Recorder
	resolver *components.ZoneResolver
	stage    components.Stage
	keys     KeyMap
	fps      int
	now      func() time.Time
	log      zerolog.Logger

	activity components.ActivityLog
	spin     spinner.Model
	help     string
	confirm  components.Confirm

	width, height int
	confirming    bool
	showHelp      bool
	showLog       bool
	pressed       bool
	ticking       bool
}

// NewBarModel creates the model.
func NewBarModel(opts BarOptions) BarModel {
	keys := DefaultKeyMap()
	if opts.Keys != nil {
		keys = *opts.Keys
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = 60
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	pending := opts.Pending
	if pending == nil {
		pending = func() int { return 0 }
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.AccentPrimary)

	return BarModel{
		ctrl:     opts.Controller,
		queue:    opts.Queue,
		pending:  pending,
		feed:     opts.Feed,
		resolver: opts.Resolver,
		stage:    components.Stage{Zones: opts.Zones, Mark: zone.Mark},
		keys:     keys,
		fps:      fps,
		now:      now,
		log:      opts.Log.With().Str("component", "tui").Logger(),
		activity: components.NewActivityLog(80, 6),
		spin:     s,
		showLog:  true,
	}
}

// Controller exposes the bar controller, for saving state after the program
// exits.
func (m BarModel) Controller() *bar.Controller { return m.ctrl }

// Init starts listening on the queue and spins the spinner.
func (m BarModel) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent(), m.spin.Tick)
}

// Update handles terminal input, queue events and the frame clock.
func (m BarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m.reflow()

	case eventMsg:
		switch ev := msg.ev.(type) {
		case bar.DeltaReady:
			m.recordDelta(ev)
		case bar.Configure:
			m.activity.AddLine(components.LogLine{Time: m.now(), Level: "info", Source: "CONFIG", Message: "timing and layout reloaded"})
		}
		var cmd tea.Cmd
		m, cmd = m.handle(msg.ev)
		return m, tea.Batch(cmd, m.waitForEvent())

	case queueClosedMsg:
		m.log.Debug().Msg("event queue closed")
		return m, nil

	case frameMsg:
		if m.ctrl.Tick(time.Time(msg)) {
			return m, m.frame()
		}
		m.ticking = false
		return m, nil

	case longPressMsg:
		return m.handle(bar.LongPressFired{SessionID: msg.sessionID})

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.mouse(msg)

	case tea.KeyMsg:
		return m.key(msg)
	}
	return m, nil
}

func (m BarModel) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirming {
		m.confirm = m.confirm.Update(msg)
		return m.answered()
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		return m.toggleHelp(), nil
	case key.Matches(msg, m.keys.Log):
		m.showLog = !m.showLog
		return m.reflow()
	case key.Matches(msg, m.keys.Toggle):
		return m.request(bar.RequestToggle, "")
	case key.Matches(msg, m.keys.Stash):
		return m.toggleStash()
	case key.Matches(msg, m.keys.Next):
		return m.request(bar.RequestSelectNext, "")
	case key.Matches(msg, m.keys.Prev):
		return m.request(bar.RequestSelectPrev, "")
	case key.Matches(msg, m.keys.Select):
		keys := m.ctrl.Registry().VisibleKeys()
		i := int(msg.String()[0] - '1')
		if i < 0 || i >= len(keys) {
			return m, nil
		}
		return m.request(bar.RequestSelect, keys[i])
	case key.Matches(msg, m.keys.Dismiss):
		return m.request(bar.RequestDismissSelected, "")
	case key.Matches(msg, m.keys.DismissAll):
		return m.askDismissAll(), nil
	case key.Matches(msg, m.keys.Flip):
		return m.request(bar.RequestFlipLocation, "")
	}

	// Anything else scrolls the activity log.
	if m.showLog {
		var cmd tea.Cmd
		m.activity, cmd = m.activity.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m BarModel) mouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	p := m.point(msg)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.inStage(msg.Y) || m.showHelp || m.confirming {
			return m, nil
		}
		m.pressed = true
		return m.handle(bar.PointerDown{P: p})

	case tea.MouseActionMotion:
		if !m.pressed {
			return m, nil
		}
		return m.handle(bar.PointerMove{P: p})

	case tea.MouseActionRelease:
		if m.pressed {
			m.pressed = false
			return m.handle(bar.PointerUp{P: p})
		}
		return m.clickButton(msg)
	}
	return m, nil
}

func (m BarModel) clickButton(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.confirming {
		for id, yes := range map[string]bool{components.ConfirmYesID: true, components.ConfirmNoID: false} {
			if zi := zone.Get(id); zi != nil && zi.InBounds(msg) {
				m.confirm = m.confirm.Answer(yes)
				return m.answered()
			}
		}
		return m, nil
	}
	for _, b := range footerButtons() {
		zi := zone.Get(b.ID)
		if zi == nil || !zi.InBounds(msg) {
			continue
		}
		switch b.ID {
		case buttonToggle:
			return m.request(bar.RequestToggle, "")
		case buttonStash:
			return m.toggleStash()
		case buttonFlip:
			return m.request(bar.RequestFlipLocation, "")
		case buttonDismiss:
			return m.request(bar.RequestDismissSelected, "")
		case buttonHelp:
			return m.toggleHelp(), nil
		}
	}
	return m, nil
}

func (m BarModel) toggleStash() (tea.Model, tea.Cmd) {
	if m.ctrl.Machine().State() == bar.StateStashed {
		return m.request(bar.RequestUnstash, "")
	}
	return m.request(bar.RequestStash, "")
}

// askDismissAll opens the prompt guarding dismiss-all. With nothing to
// dismiss it does nothing.
func (m BarModel) askDismissAll() BarModel {
	n := m.ctrl.Registry().BubbleCount()
	if n == 0 {
		return m
	}
	m.confirm = components.NewConfirm("Dismiss all bubbles?", fmt.Sprintf("%d bubbles will be removed.", n))
	m.confirm.Mark = zone.Mark
	m.confirming = true
	return m
}

func (m BarModel) answered() (tea.Model, tea.Cmd) {
	if !m.confirm.Done {
		return m, nil
	}
	m.confirming = false
	if m.confirm.Confirmed {
		return m.request(bar.RequestDismissAll, "")
	}
	return m, nil
}

func (m BarModel) toggleHelp() BarModel {
	m.showHelp = !m.showHelp
	if m.showHelp && m.help == "" {
		width := min(max(m.width-6, 20), 72)
		m.help = components.RenderMarkdown(components.HelpMarkdown(m.keys.Bindings()), width)
	}
	return m
}

func (m BarModel) request(kind bar.RequestKind, k string) (tea.Model, tea.Cmd) {
	return m.handle(bar.Request{Kind: kind, Key: k})
}

// handle feeds ev to the controller and schedules whatever it asks for.
func (m BarModel) handle(ev bar.Event) (BarModel, tea.Cmd) {
	res := m.ctrl.Handle(ev, m.now())
	m.recordCommands()

	var cmds []tea.Cmd
	if res.HasTimer() {
		req := res.Timer
		cmds = append(cmds, tea.Tick(req.Delay, func(time.Time) tea.Msg {
			return longPressMsg{sessionID: req.SessionID}
		}))
	}
	if !m.ticking && m.ctrl.Animating() {
		m.ticking = true
		cmds = append(cmds, m.frame())
	}
	return m, tea.Batch(cmds...)
}

func (m BarModel) frame() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m BarModel) waitForEvent() tea.Cmd {
	q := m.queue
	if q == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case ev := <-q.Events():
			return eventMsg{ev: ev}
		case <-q.Done():
			return queueClosedMsg{}
		}
	}
}

// reflow splits the window between header, stage, activity log and footer
// and tells the controller how big the stage is.
func (m BarModel) reflow() (BarModel, tea.Cmd) {
	if m.width <= 0 || m.height <= 0 {
		return m, nil
	}
	logRows := m.logRows()
	if logRows > 0 {
		m.activity.SetSize(m.width, logRows-1)
	}
	w, h := float64(m.width), float64(m.stageRows())*components.RowUnits
	if m.resolver != nil {
		m.resolver.Top = headerRows
		m.resolver.Edge.Width, m.resolver.Edge.Height = w, h
	}
	return m.handle(bar.Resize{Width: w, Height: h})
}

func (m BarModel) logRows() int {
	if !m.showLog {
		return 0
	}
	return min(max(m.height/4, 4), 10)
}

func (m BarModel) stageRows() int {
	return max(m.height-headerRows-footerRows-m.logRows(), 1)
}

func (m BarModel) inStage(y int) bool {
	return y >= headerRows && y < headerRows+m.stageRows()
}

// point converts a terminal cell to layout units at the cell's centre.
func (m BarModel) point(msg tea.MouseMsg) drag.Point {
	return drag.Point{
		X: float64(msg.X) + 0.5,
		Y: (float64(msg.Y-headerRows) + 0.5) * components.RowUnits,
	}
}

// ---------------------------------------------------------------------------
// Activity
// ---------------------------------------------------------------------------

func (m *BarModel) recordDelta(d bar.DeltaReady) {
	source := strings.ToUpper(d.Delta.Source)
	if source == "" {
		source = "REMOTE"
	}
	var parts []string
	if n := len(d.Delta.Added); n > 0 {
		parts = append(parts, fmt.Sprintf("+%d", n))
	}
	if n := len(d.Delta.Updated); n > 0 {
		parts = append(parts, fmt.Sprintf("~%d", n))
	}
	if n := len(d.Delta.Removed); n > 0 {
		parts = append(parts, fmt.Sprintf("-%d", n))
	}
	if d.Delta.Selected != "" {
		parts = append(parts, "select "+d.Delta.Selected)
	}
	if d.Delta.Location != nil {
		parts = append(parts, "dock "+d.Delta.Location.String())
	}
	level := "info"
	if len(d.Failed) > 0 {
		level = "warn"
		parts = append(parts, fmt.Sprintf("%d failed", len(d.Failed)))
	}
	if len(parts) == 0 {
		parts = append(parts, "no changes")
	}
	m.activity.AddLine(components.LogLine{
		Time:    m.now(),
		Level:   level,
		Source:  source,
		Message: fmt.Sprintf("delta #%d %s", d.Seq, strings.Join(parts, ", ")),
	})
}

func (m *BarModel) recordCommands() {
	if m.feed == nil {
		return
	}
	cmds := m.feed.Commands()
	if len(cmds) == 0 {
		return
	}
	m.feed.Reset()
	for _, c := range cmds {
		msg := string(c.Kind)
		if c.Key != "" {
			msg += " " + c.Key
		}
		if c.Location != nil {
			msg += " → " + c.Location.String()
		}
		level := "info"
		switch c.Kind {
		case bar.CmdDismissOne, bar.CmdDismissAll:
			level = "warn"
		case bar.CmdSetLocation:
			level = "success"
		}
		m.activity.AddLine(components.LogLine{Time: m.now(), Level: level, Source: "BAR", Message: msg})
	}
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

// View renders header, stage, activity log and footer.
func (m BarModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "starting bubble bar..."
	}
	v := m.ctrl.View()
	rows := m.stageRows()

	busy := ""
	if m.pending() > 0 || m.ctrl.Stats().DeltasBuffered > 0 {
		busy = m.spin.View()
	}
	header := components.Header{
		State:      v.State.String(),
		Location:   v.Location.String(),
		Bubbles:    m.ctrl.Registry().BubbleCount(),
		Suppressed: len(m.ctrl.Registry().Suppressed()),
		Busy:       busy,
		Width:      m.width,
	}

	var stage string
	switch {
	case m.confirming:
		stage = lipgloss.Place(m.width, rows, lipgloss.Center, lipgloss.Center, m.confirm.View(),
			lipgloss.WithWhitespaceBackground(styles.BgDeep))
	case m.showHelp:
		panel := styles.HelpPanel.Render(components.TruncateLines(m.help, max(rows-2, 1)))
		stage = lipgloss.Place(m.width, rows, lipgloss.Center, lipgloss.Center, panel,
			lipgloss.WithWhitespaceBackground(styles.BgDeep))
	default:
		stage = m.stage.Render(v, m.width, rows)
	}

	sections := []string{header.Render(), stage}
	if m.showLog {
		sections = append(sections, m.activity.View())
	}
	footer := components.Footer{
		Buttons: footerButtons(),
		Hints: []components.KeyHint{
			{Key: "←→", Desc: "select"},
			{Key: "x", Desc: "dismiss"},
			{Key: "a", Desc: "activity"},
			{Key: "q", Desc: "quit"},
		},
		Mark:  zone.Mark,
		Width: m.width,
	}
	sections = append(sections, footer.Render())

	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func footerButtons() []components.Button {
	return []components.Button{
		{ID: buttonToggle, Label: "expand"},
		{ID: buttonStash, Label: "stash"},
		{ID: buttonFlip, Label: "flip"},
		{ID: buttonDismiss, Label: "dismiss"},
		{ID: buttonHelp, Label: "help"},
	}
}
