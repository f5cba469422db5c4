// Package tui is the interactive comparison screen: prompt entry, two
// parameter panels, side-by-side responses, preference capture, statistics
// and export.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/timvw/prompt-selector/internal/api"
	"github.com/timvw/prompt-selector/internal/export"
	"github.com/timvw/prompt-selector/internal/model"
	telem "github.com/timvw/prompt-selector/internal/otel"
	"github.com/timvw/prompt-selector/internal/session"
	"github.com/timvw/prompt-selector/internal/starfield"
)

// Backend is the subset of the REST client the screen needs.
type Backend interface {
	Generate(ctx context.Context, req model.GenerateRequest) (*model.GenerateResponse, error)
	RecordPreference(ctx context.Context, id model.PromptID, pref model.Preference) (*model.PreferenceAck, error)
	Stats(ctx context.Context) (*model.Stats, error)
	ExportTrainingData(ctx context.Context) (model.ExportPayload, error)
}

// focusArea tracks which part of the screen receives arrow keys.
type focusArea int

const (
	focusPrompt focusArea = iota
	focusParamsA
	focusParamsB
	focusResponses // only reachable while a pair is on display
)

// messages
type generateResultMsg struct {
	resp *model.GenerateResponse
	err  error
}

type preferenceResultMsg struct {
	choice model.Preference
	err    error
}

type statsResultMsg struct {
	stats *model.Stats
	err   error
}

type exportResultMsg struct {
	path string
	err  error
}

type bannerExpiredMsg struct{ seq int }

// TUI runs the interactive comparison screen.
type TUI struct {
	Backend        Backend
	ModelName      string
	ParamsA        model.SamplingParams
	ParamsB        model.SamplingParams
	Theme          string
	BannerDuration time.Duration // 0 hides the banner immediately
	ExportDir      string
	Stars          bool
	FrameInterval  time.Duration
	Logger         *log.Logger
	Metrics        *telem.Metrics
}

type tuiModel struct {
	ctx     context.Context
	backend Backend
	session *session.Coordinator
	logger  *log.Logger
	metrics *telem.Metrics
	now     func() time.Time

	bannerDuration time.Duration
	exportDir      string

	// widgets
	prompt  textarea.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	stars   *starfield.Field // nil when disabled
	md      *markdown
	styles  styles

	focus       focusArea
	fieldCursor [2]int
	advanced    bool

	// status
	message   string
	exporting bool

	// dimensions
	width  int
	height int
}

// Run starts the program and blocks until the user quits.
func (t *TUI) Run(ctx context.Context) error {
	m := newModel(ctx, t)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func newModel(ctx context.Context, t *TUI) *tuiModel {
	logger := t.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ta := textarea.New()
	ta.Placeholder = "Type your prompt here... (ctrl+s to generate)"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(4)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	theme := ThemeByName(t.Theme)
	m := &tuiModel{
		ctx:            ctx,
		backend:        t.Backend,
		session:        session.New(t.ModelName, t.ParamsA, t.ParamsB),
		logger:         logger,
		metrics:        t.Metrics,
		now:            time.Now,
		bannerDuration: t.BannerDuration,
		exportDir:      t.ExportDir,
		prompt:         ta,
		spinner:        sp,
		help:           help.New(),
		keys:           defaultKeyMap(),
		md:             newMarkdown(theme.Name),
		styles:         newStyles(theme),
	}
	m.spinner.Style = m.styles.busy
	if t.Stars {
		m.stars = starfield.New(starfield.WithInterval(t.FrameInterval))
	}
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, m.fetchStats()}
	if m.stars != nil {
		cmds = append(cmds, m.stars.Init())
	}
	return tea.Batch(cmds...)
}

// --- commands ---

func (m *tuiModel) doGenerate(req model.GenerateRequest) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		resp, err := backend.Generate(ctx, req)
		return generateResultMsg{resp: resp, err: err}
	}
}

func (m *tuiModel) doRecord(id model.PromptID, choice model.Preference) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		_, err := backend.RecordPreference(ctx, id, choice)
		return preferenceResultMsg{choice: choice, err: err}
	}
}

func (m *tuiModel) fetchStats() tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		s, err := backend.Stats(ctx)
		return statsResultMsg{stats: s, err: err}
	}
}

func (m *tuiModel) doExport() tea.Cmd {
	backend, ctx, dir, now := m.backend, m.ctx, m.exportDir, m.now
	return func() tea.Msg {
		payload, err := backend.ExportTrainingData(ctx)
		if err != nil {
			return exportResultMsg{err: err}
		}
		path, err := export.Write(dir, payload, now())
		return exportResultMsg{path: path, err: err}
	}
}

func (m *tuiModel) scheduleBannerHide(seq int) tea.Cmd {
	return tea.Tick(m.bannerDuration, func(time.Time) tea.Msg {
		return bannerExpiredMsg{seq: seq}
	})
}

// --- update ---

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prompt.SetWidth(max(msg.Width-6, 20))
		m.help.Width = msg.Width
		m.md.Reset()
		if m.stars != nil {
			if w, h := m.stars.Size(); w != msg.Width || h != msg.Height {
				m.stars.Resize(msg.Width, msg.Height)
			}
		}
		return m, nil

	case starfield.FrameMsg:
		if m.stars == nil {
			return m, nil
		}
		return m, m.stars.Update(msg)

	case spinner.TickMsg:
		if m.session.State() != session.StateGenerating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case generateResultMsg:
		return m.handleGenerateResult(msg)

	case preferenceResultMsg:
		return m.handlePreferenceResult(msg)

	case statsResultMsg:
		if msg.err != nil {
			m.logger.Debug("stats refresh failed", "err", msg.err)
			return m, nil
		}
		m.session.SetStats(msg.stats)
		return m, nil

	case exportResultMsg:
		m.exporting = false
		m.metrics.RecordExport(m.ctx, msg.err)
		if msg.err != nil {
			m.logger.Error("export failed", "err", msg.err)
			m.session.SetAlert(session.AlertExport)
			return m, nil
		}
		m.logger.Info("training data exported", "path", msg.path)
		m.message = fmt.Sprintf("Exported training data to %s", msg.path)
		return m, nil

	case bannerExpiredMsg:
		m.session.HideBanner(msg.seq)
		return m, nil
	}

	// Cursor blink and other textarea internals.
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *tuiModel) handleGenerateResult(msg generateResultMsg) (tea.Model, tea.Cmd) {
	err := m.session.CompleteGenerate(msg.resp, msg.err)
	m.metrics.RecordGeneration(m.ctx, err)
	if err != nil {
		m.logger.Error("generation failed", "status", api.StatusCode(msg.err), "err", err)
		m.focusPrompt()
		return m, nil
	}
	m.logger.Info("responses generated", "id", m.session.ID())
	m.message = ""
	m.setFocus(focusResponses)
	return m, nil
}

func (m *tuiModel) handlePreferenceResult(msg preferenceResultMsg) (tea.Model, tea.Cmd) {
	// Stats are refreshed whether or not the record succeeded.
	cmds := []tea.Cmd{m.fetchStats()}
	if msg.err != nil {
		m.logger.Debug("recording preference failed", "choice", msg.choice, "status", api.StatusCode(msg.err), "err", msg.err)
		return m, tea.Batch(cmds...)
	}
	m.metrics.RecordPreference(m.ctx, string(msg.choice))
	seq, ok := m.session.PreferenceRecorded(nil)
	if ok {
		if m.bannerDuration > 0 {
			cmds = append(cmds, m.scheduleBannerHide(seq))
		} else {
			m.session.HideBanner(seq)
		}
	}
	return m, tea.Batch(cmds...)
}

// typing reports whether key presses go to the prompt textarea.
func (m *tuiModel) typing() bool {
	return m.focus == focusPrompt && m.session.Editable()
}

func (m *tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global bindings first.
	switch {
	case key.Matches(msg, m.keys.ForceQ):
		return m.quit()
	case key.Matches(msg, m.keys.Generate):
		return m.generate()
	case key.Matches(msg, m.keys.Focus):
		m.cycleFocus()
		return m, nil
	case key.Matches(msg, m.keys.Advanced):
		m.advanced = !m.advanced
		if !m.advanced {
			m.fieldCursor = [2]int{}
		}
		return m, nil
	case key.Matches(msg, m.keys.Export):
		return m.export()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.fetchStats()
	case key.Matches(msg, m.keys.Dismiss):
		m.session.DismissAlert()
		m.message = ""
		if m.typing() && m.session.HasResponses() {
			m.setFocus(focusResponses)
		}
		return m, nil
	}

	if m.typing() {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		m.session.SetPrompt(m.prompt.Value())
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.ChooseA):
		return m.choose(model.PreferenceA)
	case key.Matches(msg, m.keys.ChooseB):
		return m.choose(model.PreferenceB)
	case key.Matches(msg, m.keys.Tie):
		return m.choose(model.PreferenceTie)
	case key.Matches(msg, m.keys.Another):
		if m.session.Reset() {
			m.md.Reset()
			m.prompt.Reset()
			m.message = ""
			m.focusPrompt()
		}
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.moveField(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveField(1)
	case key.Matches(msg, m.keys.Left):
		m.stepField(-1)
	case key.Matches(msg, m.keys.Right):
		m.stepField(1)
	}
	return m, nil
}

func (m *tuiModel) quit() (tea.Model, tea.Cmd) {
	if m.stars != nil {
		m.stars.Stop()
	}
	return m, tea.Quit
}

func (m *tuiModel) generate() (tea.Model, tea.Cmd) {
	req, err := m.session.BeginGenerate()
	if err != nil {
		switch {
		case errors.Is(err, session.ErrEmptyPrompt):
			m.message = "Enter a prompt first."
		case errors.Is(err, session.ErrAwaitingSelection):
			m.message = "Choose a response first."
		}
		return m, nil
	}
	m.logger.Info("generating responses", "model", req.ModelName)
	m.message = ""
	m.md.Reset() // the previous pair will not be shown again
	m.prompt.Blur()
	return m, tea.Batch(m.doGenerate(req), m.spinner.Tick)
}

func (m *tuiModel) choose(choice model.Preference) (tea.Model, tea.Cmd) {
	id := m.session.ID()
	if !m.session.Select(choice) {
		return m, nil
	}
	m.logger.Info("preference selected", "id", id, "choice", choice)
	return m, m.doRecord(id, choice)
}

func (m *tuiModel) export() (tea.Model, tea.Cmd) {
	if m.exporting {
		return m, nil
	}
	m.exporting = true
	m.message = "Exporting..."
	return m, m.doExport()
}

// --- focus and parameter editing ---

func (m *tuiModel) setFocus(f focusArea) {
	m.focus = f
	if m.typing() {
		m.prompt.Focus()
	} else {
		m.prompt.Blur()
	}
}

func (m *tuiModel) focusPrompt() {
	m.setFocus(focusPrompt)
}

func (m *tuiModel) cycleFocus() {
	next := m.focus + 1
	if next == focusResponses && !m.session.HasResponses() {
		next++
	}
	if next > focusResponses {
		next = focusPrompt
	}
	m.setFocus(next)
}

// focusedVariant returns the variant whose panel has focus.
func (m *tuiModel) focusedVariant() (session.Variant, bool) {
	switch m.focus {
	case focusParamsA:
		return session.VariantA, true
	case focusParamsB:
		return session.VariantB, true
	}
	return 0, false
}

// visibleFields lists the parameter rows currently shown.
func (m *tuiModel) visibleFields() []model.Field {
	if m.advanced {
		return model.Fields
	}
	return model.Fields[:1]
}

func (m *tuiModel) moveField(delta int) {
	v, ok := m.focusedVariant()
	if !ok {
		return
	}
	n := len(m.visibleFields())
	m.fieldCursor[v] = (m.fieldCursor[v] + delta + n) % n
}

func (m *tuiModel) stepField(n int) {
	v, ok := m.focusedVariant()
	if !ok {
		return
	}
	fields := m.visibleFields()
	m.session.StepParam(v, fields[min(m.fieldCursor[v], len(fields)-1)], n)
}
