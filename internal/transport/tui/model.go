// Package tui is the full-screen terminal front end of a game.
package tui

import (
	"context"
	"errors"
	"strconv"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"quizshow/internal/app"
	"quizshow/internal/domain"
)

// Game is the part of app.Game the terminal UI drives.
type Game interface {
	Snapshot() app.Snapshot
	Summary() app.Summary
	Observe(func(app.Snapshot))
	Start() bool
	ContinueFromIntro() bool
	SetDraft(text string) bool
	SubmitTrueFalse(answer bool) bool
	SubmitFillBlank(text string) bool
	SubmitStructured() bool
	SelfMark(correct bool) bool
	Next() bool
	Restart() bool
}

// Options configures the UI model.
type Options struct {
	Title   string
	Rules   app.Rules
	NoColor bool
	// Recent, if set, lists earlier results shown on the results screen.
	Recent func() []app.Result
}

// Model renders a game with Bubble Tea.
type Model struct {
	game    Game
	changes <-chan struct{}
	snap    app.Snapshot
	title   string
	rules   app.Rules
	noColor bool

	recentFn func() []app.Result
	recent   []app.Result

	// questionKey identifies the question the inputs belong to.
	questionKey string
	input       textinput.Model
	area        textarea.Model
	bar         progress.Model
	width       int
}

// NewModel subscribes to game changes and returns the initial model.
func NewModel(game Game, opts Options) Model {
	changes := make(chan struct{}, 1)
	game.Observe(func(app.Snapshot) {
		// Coalesce: one pending notification is enough, the model re-reads
		// the snapshot.
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	input := textinput.New()
	input.Placeholder = "type your answer"
	input.CharLimit = 200
	input.Width = 50

	area := textarea.New()
	area.Placeholder = "write your answer"
	area.SetWidth(70)
	area.SetHeight(8)
	area.ShowLineNumbers = false

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40
	bar.ShowPercentage = false

	rules := opts.Rules
	if rules[0].Number == 0 {
		rules = app.DefaultRules()
	}

	m := Model{
		game:    game,
		rules:   rules,
		changes: changes,
		title:   opts.Title,
		noColor: opts.NoColor,
		input:   input,
		area:    area,
		bar:     bar,

		recentFn: opts.Recent,
	}
	m.refresh()
	return m
}

// Init waits for the first game notification.
func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// Update handles keys and game notifications.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.bar.Width = min(max(typed.Width-20, 10), 60)
		m.area.SetWidth(min(max(typed.Width-4, 20), 100))
		return m, nil
	case changedMsg:
		cmd := m.refresh()
		return m, tea.Batch(cmd, waitForChange(m.changes))
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "ctrl+r":
		m.game.Restart()
		cmd := m.refresh()
		return m, cmd
	}

	switch m.snap.Phase.Kind {
	case domain.PhaseStart:
		if key.String() == "enter" {
			m.game.Start()
		}
	case domain.PhaseRoundIntro:
		if key.String() == "enter" {
			m.game.ContinueFromIntro()
		}
	case domain.PhaseRoundPlay:
		return m.handlePlayKey(key)
	case domain.PhaseResults:
		switch key.String() {
		case "r", "enter":
			m.game.Restart()
		case "q":
			return m, tea.Quit
		}
	}
	cmd := m.refresh()
	return m, cmd
}

func (m Model) handlePlayKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.snap.Session
	if view == nil {
		return m, nil
	}
	switch view.State {
	case app.StateActive:
		return m.handleAnswerKey(key)
	case app.StateAwaitingSelfMark:
		switch key.String() {
		case "y":
			m.game.SelfMark(true)
		case "n":
			m.game.SelfMark(false)
		}
	case app.StateFinalized:
		if key.String() == "enter" {
			m.game.Next()
		}
	}
	cmd := m.refresh()
	return m, cmd
}

func (m Model) handleAnswerKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.snap.Question.(type) {
	case domain.TrueFalse:
		switch key.String() {
		case "t":
			m.game.SubmitTrueFalse(true)
		case "f":
			m.game.SubmitTrueFalse(false)
		}
	case domain.FillBlank:
		if key.String() == "enter" {
			m.game.SubmitFillBlank(m.input.Value())
			break
		}
		m.input, cmd = m.input.Update(key)
		m.game.SetDraft(m.input.Value())
	case domain.Structured:
		if key.String() == "ctrl+s" {
			m.game.SetDraft(m.area.Value())
			m.game.SubmitStructured()
			break
		}
		m.area, cmd = m.area.Update(key)
		m.game.SetDraft(m.area.Value())
	}
	refresh := m.refresh()
	return m, tea.Batch(cmd, refresh)
}

// refresh re-reads the game and resets the inputs when a new question opens.
func (m *Model) refresh() tea.Cmd {
	prev := m.snap.Phase
	m.snap = m.game.Snapshot()
	if m.snap.Phase.Kind == domain.PhaseResults && prev != m.snap.Phase && m.recentFn != nil {
		m.recent = m.recentFn()
	}
	key := ""
	if m.snap.Session != nil {
		key = m.snap.GameID + "/" + strconv.Itoa(m.snap.Session.QuestionID)
	}
	if key == m.questionKey {
		return nil
	}
	m.questionKey = key
	m.input.Reset()
	m.area.Reset()
	m.input.Blur()
	m.area.Blur()
	switch m.snap.Question.(type) {
	case domain.FillBlank:
		return m.input.Focus()
	case domain.Structured:
		return m.area.Focus()
	}
	return nil
}

// changedMsg reports that the game state moved.
type changedMsg struct{}

// waitForChange blocks until the game reports a change.
func waitForChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if changes == nil {
			return nil
		}
		if _, ok := <-changes; !ok {
			return tea.Quit()
		}
		return changedMsg{}
	}
}

// Run drives game in the terminal until the player quits or ctx is done.
func Run(ctx context.Context, game Game, opts Options) error {
	_, err := tea.NewProgram(NewModel(game, opts), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
