package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"quizshow/internal/app"
	"quizshow/internal/domain"
)

var roundColors = [domain.RoundCount]lipgloss.Color{"42", "33", "135"}

const (
	colorMuted   = lipgloss.Color("242")
	colorCorrect = lipgloss.Color("42")
	colorWrong   = lipgloss.Color("196")
	colorWarn    = lipgloss.Color("214")
)

// View renders the current phase.
func (m Model) View() string {
	var body string
	switch m.snap.Phase.Kind {
	case domain.PhaseStart:
		body = m.renderStart()
	case domain.PhaseRoundIntro:
		body = m.renderIntro()
	case domain.PhaseRoundPlay:
		body = m.renderPlay()
	case domain.PhaseResults:
		body = m.renderResults()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), "", body, "", m.renderFooter())
}

func (m Model) renderHeader() string {
	title := m.title
	if title == "" {
		title = "Quiz Show"
	}
	line := fmt.Sprintf("%s | Score: %d / %d", title, m.snap.Score, m.snap.TotalPossible)
	return m.bold(line, lipgloss.Color("252"))
}

func (m Model) renderStart() string {
	lines := []string{m.bold("Three rounds. Three ways to think.", lipgloss.Color("252")), ""}
	for i, rule := range m.rules {
		lines = append(lines, m.style(
			fmt.Sprintf("Round %d  %-22s %2d pts  %3ds", rule.Number, rule.Title, rule.Points, rule.Seconds),
			roundColors[i]))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderIntro() string {
	rule := m.snap.Rule
	color := roundColors[rule.Number-1]
	return strings.Join([]string{
		m.bold(fmt.Sprintf("ROUND %d", rule.Number), color),
		m.bold(rule.Title, color),
		"",
		rule.Description,
		"",
		m.style(fmt.Sprintf("%d questions | %d points each | %d seconds per question",
			m.snap.QuestionCount, rule.Points, rule.Seconds), colorMuted),
	}, "\n")
}

func (m Model) renderPlay() string {
	view := m.snap.Session
	if view == nil {
		return ""
	}
	rule := m.snap.Rule
	color := roundColors[rule.Number-1]

	lines := []string{
		m.style(fmt.Sprintf("Round %d: %s | Question %d of %d",
			rule.Number, rule.Title, m.snap.QuestionIndex+1, m.snap.QuestionCount), color),
		m.renderCountdown(view),
		"",
		m.bold(m.snap.Question.Text(), lipgloss.Color("252")),
		"",
	}

	switch view.State {
	case app.StateActive:
		switch m.snap.Question.(type) {
		case domain.FillBlank:
			lines = append(lines, m.input.View())
		case domain.Structured:
			lines = append(lines, m.area.View())
		}
	default:
		lines = append(lines, m.renderResolution(view)...)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderCountdown(view *app.SessionView) string {
	if view.Duration == 0 {
		return ""
	}
	ratio := float64(view.Remaining) / float64(view.Duration)
	label := fmt.Sprintf(" %ds", view.Remaining)
	if view.State == app.StateActive && view.Remaining <= 5 {
		label = m.style(label, colorWarn)
	}
	return m.bar.ViewAs(ratio) + label
}

func (m Model) renderResolution(view *app.SessionView) []string {
	var lines []string
	if view.TimedOut {
		lines = append(lines, m.bold("Time's up!", colorWarn))
	}
	switch view.State {
	case app.StateAwaitingSelfMark:
		lines = append(lines,
			m.style("Your answer:", colorMuted), view.Submitted, "",
			m.style("Sample answer:", colorMuted), view.Reveal)
		return lines
	case app.StateFinalized:
		if view.Verdict == domain.VerdictCorrect {
			lines = append(lines, m.bold("Correct!", colorCorrect))
		} else {
			lines = append(lines, m.bold("Incorrect", colorWrong))
		}
		lines = append(lines, "Your answer: "+view.Submitted)
		if view.Expected != "" {
			lines = append(lines, "Answer: "+view.Expected)
		}
		if view.Reveal != "" {
			lines = append(lines, "", m.style(view.Reveal, colorMuted))
		}
	}
	return lines
}

func (m Model) renderResults() string {
	sum := m.game.Summary()
	lines := []string{
		m.bold(string(sum.Grade), gradeColor(sum.Grade)),
		fmt.Sprintf("%d / %d points (%d%%)", sum.Score, sum.Possible, sum.Percent),
		"",
	}
	for i, tally := range sum.Tallies {
		lines = append(lines, m.style(fmt.Sprintf("Round %d  %-22s %3d/%3d pts  %d/%d correct  %3d%%",
			tally.Round, m.rules[i].Title, tally.PointsEarned, tally.PointsPossible,
			tally.QuestionsCorrect, tally.QuestionsTotal, tally.Percent()), roundColors[i]))
	}
	if len(m.recent) > 0 {
		lines = append(lines, "", m.bold("Recent games", lipgloss.Color("252")))
		for _, r := range m.recent {
			lines = append(lines, m.style(fmt.Sprintf("%s  %3d/%d  %-14s",
				r.FinishedAt.Local().Format("2006-01-02 15:04"), r.Score, r.Possible, r.Grade), colorMuted))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	var keys string
	switch m.snap.Phase.Kind {
	case domain.PhaseStart:
		keys = "enter start"
	case domain.PhaseRoundIntro:
		keys = "enter begin round"
	case domain.PhaseRoundPlay:
		keys = m.playKeys()
	case domain.PhaseResults:
		keys = "r play again | q quit"
	}
	return m.style(keys+" | ctrl+r restart | esc quit", colorMuted)
}

func (m Model) playKeys() string {
	view := m.snap.Session
	if view == nil {
		return ""
	}
	switch view.State {
	case app.StateAwaitingSelfMark:
		return "y I got it right | n I got it wrong"
	case app.StateFinalized:
		return "enter next"
	}
	switch m.snap.Question.(type) {
	case domain.TrueFalse:
		return "t true | f false"
	case domain.FillBlank:
		return "enter submit"
	default:
		return "ctrl+s submit"
	}
}

func gradeColor(g app.Grade) lipgloss.Color {
	switch g {
	case app.GradeOutstanding, app.GradeExcellent:
		return colorCorrect
	case app.GradeGoodJob, app.GradeKeepLearning:
		return colorWarn
	default:
		return colorWrong
	}
}

// style applies optional color styling.
func (m Model) style(text string, color lipgloss.Color) string {
	if m.noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func (m Model) bold(text string, color lipgloss.Color) string {
	if m.noColor {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color).Render(text)
}
