// Package app provides the main TUI application that wires all views together.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/berth-dev/playback/internal/assistant"
	"github.com/berth-dev/playback/internal/config"
	"github.com/berth-dev/playback/internal/conversation"
	"github.com/berth-dev/playback/internal/playback"
	"github.com/berth-dev/playback/internal/tui"
	"github.com/berth-dev/playback/internal/tui/views"
)

const title = "365私域管家 · 演示模式"

// Operation names carried by tui.OpDoneMsg.
const (
	opStart   = "start"
	opSend    = "send"
	opConfirm = "confirm"
	opReject  = "reject"
	opNew     = "new_session"
)

// App is the main TUI application that wires all views together.
type App struct {
	model *tui.Model
	keys  tui.KeyMap
	help  help.Model
	md    *glamour.TermRenderer

	ctx         context.Context
	cancel      context.CancelFunc
	changes     <-chan struct{}
	unsubscribe func()
}

// New creates a new App driving a.
func New(a *assistant.Assistant, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	model := tui.NewModel(a, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	changes, unsubscribe := a.Subscribe()

	app := &App{
		model:       model,
		keys:        tui.DefaultKeyMap,
		help:        help.New(),
		ctx:         ctx,
		cancel:      cancel,
		changes:     changes,
		unsubscribe: unsubscribe,
	}
	app.resize(model.Width, model.Height)
	return app
}

// Init returns the initial command for the TUI.
func (a *App) Init() tea.Cmd {
	return tea.Batch(tui.WaitForChange(a.changes), a.model.Spinner.Tick)
}

// Update handles messages and updates the application state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == tui.KeyCtrlC {
			if a.model.CtrlCPending {
				// Second press within timeout - exit
				return a, a.quit()
			}
			// First press - set pending and start timeout
			a.model.CtrlCPending = true
			return a, tea.Tick(time.Second, func(time.Time) tea.Msg {
				return tui.CtrlCResetMsg{}
			})
		}
		if a.model.Composing {
			return a.updateComposer(msg)
		}
		return a.updateControls(msg)

	case tui.CtrlCResetMsg:
		a.model.CtrlCPending = false
		return a, nil

	case tui.ChangedMsg:
		a.refresh()
		return a, tui.WaitForChange(a.changes)

	case tui.OpDoneMsg:
		a.model.Busy--
		a.model.Status = describeErr(msg.Op, msg.Err)
		return a, nil

	case tui.NavigateMsg:
		a.model.LastNav = msg.Target
		a.model.Status = navigationLabel(msg.Target)
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.model.Spinner, cmd = a.model.Spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

// updateComposer handles keys while the operator is typing.
func (a *App) updateComposer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Blur):
		a.blur()
		return a, nil

	case key.Matches(msg, a.keys.Send):
		text := strings.TrimSpace(a.model.Composer.Value())
		if text == "" {
			return a, nil
		}
		a.model.Composer.Reset()
		a.blur()
		return a, a.op(opSend, func(ctx context.Context) error {
			return a.model.Assistant.SendUserMessage(ctx, text)
		})
	}

	var cmd tea.Cmd
	a.model.Composer, cmd = a.model.Composer.Update(msg)
	return a, cmd
}

// updateControls handles the single-key controls.
func (a *App) updateControls(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	asst := a.model.Assistant
	switch {
	case key.Matches(msg, a.keys.Start):
		id, ok := a.scenarioForKey(msg.String())
		if !ok {
			return a, nil
		}
		a.model.Status = ""
		return a, a.op(opStart, func(context.Context) error {
			if !asst.Start(id) {
				return fmt.Errorf("unknown scenario %q", id)
			}
			return nil
		})

	case key.Matches(msg, a.keys.Pause):
		asst.TogglePause()
		return a, nil

	case key.Matches(msg, a.keys.Stop):
		asst.Stop()
		return a, nil

	case key.Matches(msg, a.keys.NewSession):
		a.model.Status = ""
		return a, a.op(opNew, func(context.Context) error {
			asst.NewSession()
			return nil
		})

	case key.Matches(msg, a.keys.Confirm):
		return a, a.op(opConfirm, asst.ConfirmAudience)

	case key.Matches(msg, a.keys.Reject):
		return a, a.op(opReject, asst.RejectAudience)

	case key.Matches(msg, a.keys.Tasks):
		return a, a.press("goto_tasks")

	case key.Matches(msg, a.keys.Audience):
		return a, a.press("goto_audience")

	case key.Matches(msg, a.keys.Focus):
		if asst.State().IsPlaying {
			a.model.Status = "演示进行中，按 s 停止后再输入"
			return a, nil
		}
		a.model.Composing = true
		return a, a.model.Composer.Focus()
	}

	var cmd tea.Cmd
	a.model.Viewport, cmd = a.model.Viewport.Update(msg)
	return a, cmd
}

// scenarioForKey maps a digit key to the scenario at that position.
func (a *App) scenarioForKey(k string) (string, bool) {
	if len(k) != 1 || k[0] < '1' || k[0] > '9' {
		return "", false
	}
	scenarios := a.model.Assistant.Scenarios()
	idx := int(k[0] - '1')
	if idx >= len(scenarios) {
		return "", false
	}
	return scenarios[idx].ID, true
}

// press triggers action on the newest message offering it.
func (a *App) press(action string) tea.Cmd {
	msgs := a.model.Assistant.Messages()
	if len(msgs) == 0 || !hasAction(msgs[len(msgs)-1], action) {
		return nil
	}
	nav, ok := a.model.Assistant.OnActionButton(action)
	if !ok {
		return nil
	}
	return func() tea.Msg { return tui.NavigateMsg{Target: nav} }
}

func hasAction(msg conversation.Message, action string) bool {
	for _, b := range msg.ActionButtons {
		if b.Action == action {
			return true
		}
	}
	return false
}

// op runs fn off the UI loop and reports its outcome as tui.OpDoneMsg.
func (a *App) op(name string, fn func(context.Context) error) tea.Cmd {
	a.model.Busy++
	ctx := a.ctx
	return func() tea.Msg {
		return tui.OpDoneMsg{Op: name, Err: fn(ctx)}
	}
}

func (a *App) blur() {
	a.model.Composing = false
	a.model.Composer.Blur()
}

// quit stops any playback and pending reply before exiting.
func (a *App) quit() tea.Cmd {
	a.model.Assistant.Stop()
	a.cancel()
	a.unsubscribe()
	return tea.Quit
}

// resize adapts the components to a new terminal size.
func (a *App) resize(width, height int) {
	a.model.Width = width
	a.model.Height = height
	w := a.model.ContentWidth()
	a.model.Viewport.Width = w
	a.model.Composer.Width = w - 4
	a.help.Width = w
	if md, err := views.NewMarkdownRenderer(a.model.Cfg.UI.MarkdownStyle, w-6); err == nil {
		a.md = md
	}
	a.refresh()
}

// refresh re-renders the conversation into the viewport and sizes it to
// the space the surrounding chrome leaves.
func (a *App) refresh() {
	w := a.model.ContentWidth()
	content := views.RenderMessages(a.model.Assistant.Messages(), w, a.md)
	if p := a.picker(); p != "" {
		content += "\n\n" + p
	}
	a.model.Viewport.SetContent(content)

	chrome := lipgloss.Height(a.header()) + lipgloss.Height(a.footer())
	if o := a.overlay(); o != "" {
		chrome += lipgloss.Height(o)
	}
	h := a.model.Height - chrome
	if h < 3 {
		h = 3
	}
	a.model.Viewport.Height = h
	a.model.Viewport.GotoBottom()
}

// View renders the current application state.
func (a *App) View() string {
	parts := []string{a.header(), a.model.Viewport.View()}
	if o := a.overlay(); o != "" {
		parts = append(parts, o)
	}
	parts = append(parts, a.footer())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) header() string {
	state := a.model.Assistant.State()
	h := tui.TitleStyle.Render(title)
	if bar := views.RenderControlBar(state, a.model.ContentWidth()); bar != "" {
		h += "\n" + bar
	}
	return h
}

func (a *App) picker() string {
	asst := a.model.Assistant
	if !views.ShowPicker(len(asst.Messages()), asst.State()) {
		return ""
	}
	return views.RenderPicker(asst.Scenarios(), a.model.ContentWidth())
}

// overlay is the profile card opened by a scenario, if any.
func (a *App) overlay() string {
	subject := a.model.Assistant.Signals().ProfileSubject
	if subject == "" {
		return ""
	}
	p, ok := a.model.Assistant.Profile(subject)
	return views.RenderProfile(subject, p, ok, a.model.ContentWidth())
}

func (a *App) footer() string {
	asst := a.model.Assistant
	signals := asst.Signals()
	state := asst.State()

	var lines []string
	if signals.Typing {
		lines = append(lines, a.model.Spinner.View()+tui.DimStyle.Render(" 正在输入..."))
	} else {
		lines = append(lines, "")
	}

	var composer string
	if state.IsPlaying {
		composer = "> " + signals.Composer
	} else {
		composer = a.model.Composer.View()
	}
	lines = append(lines, tui.BoxStyle.Width(a.model.ContentWidth()).Render(composer))

	switch {
	case a.model.CtrlCPending:
		lines = append(lines, tui.WarningStyle.Render("再按一次 Ctrl+C 退出"))
	case a.model.Status != "":
		lines = append(lines, tui.StatusBarStyle.Render(a.model.Status))
	default:
		lines = append(lines, "")
	}
	lines = append(lines, a.help.View(a.keys))
	return strings.Join(lines, "\n")
}

// describeErr turns an operation's outcome into a status line.
func describeErr(op string, err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, assistant.ErrPlaying):
		return "演示进行中，按 s 停止后再操作"
	case errors.Is(err, assistant.ErrBusy):
		return "正在回复，请稍候"
	case errors.Is(err, playback.ErrStopped), errors.Is(err, context.Canceled):
		return ""
	}
	return fmt.Sprintf("%s: %v", op, err)
}

func navigationLabel(nav assistant.Navigation) string {
	switch nav {
	case assistant.NavTasks:
		return "→ 推送任务"
	case assistant.NavAudience:
		return "→ 人群管理"
	}
	return "→ " + string(nav)
}
