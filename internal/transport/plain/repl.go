// Package plain plays a game over line-oriented input and output, for pipes
// and terminals without full-screen support.
package plain

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"quizshow/internal/app"
	"quizshow/internal/domain"
)

// Game is the part of app.Game the REPL drives.
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

const help = `commands:
  start | continue | next | restart | status | quit
  true | false               answer a true/false question
  answer <text>              answer a fill-in-the-blank question
  submit <text>              submit a structured answer
  mark yes|no                mark your structured answer`

// REPL reads one command per line and prints the resulting state.
type REPL struct {
	game Game

	// Recent, if set, lists earlier results printed after a finished game.
	Recent func() []app.Result

	mu       sync.Mutex
	out      io.Writer
	announce string
}

func New(game Game, out io.Writer) *REPL {
	r := &REPL{game: game, out: out}
	game.Observe(r.observe)
	return r
}

// Run processes commands from in until quit, EOF or ctx is done.
func (r *REPL) Run(ctx context.Context, in io.Reader) error {
	r.printf("%s\n\n", help)
	r.render(r.game.Snapshot())

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit := r.exec(line); quit {
			return nil
		}
	}
	return scanner.Err()
}

func (r *REPL) exec(line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	var applied bool
	switch strings.ToLower(cmd) {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		r.printf("%s\n", help)
		return false
	case "status":
		r.render(r.game.Snapshot())
		return false
	case "start":
		applied = r.game.Start()
	case "continue", "c":
		applied = r.game.ContinueFromIntro()
	case "true", "t":
		applied = r.game.SubmitTrueFalse(true)
	case "false", "f":
		applied = r.game.SubmitTrueFalse(false)
	case "answer", "a":
		applied = r.game.SubmitFillBlank(arg)
	case "submit", "s":
		if arg != "" {
			r.game.SetDraft(arg)
		}
		applied = r.game.SubmitStructured()
	case "mark", "m":
		switch strings.ToLower(arg) {
		case "yes", "y":
			applied = r.game.SelfMark(true)
		case "no", "n":
			applied = r.game.SelfMark(false)
		}
	case "next", "n":
		applied = r.game.Next()
	case "restart", "r":
		applied = r.game.Restart()
	default:
		r.printf("unknown command %q, type help\n", cmd)
		return false
	}

	if !applied {
		r.printf("(ignored)\n")
		return false
	}
	r.render(r.game.Snapshot())
	return false
}

// observe announces timeouts as they happen; everything else is printed in
// response to a command.
func (r *REPL) observe(snap app.Snapshot) {
	v := snap.Session
	if v == nil || !v.TimedOut {
		return
	}
	key := fmt.Sprintf("%s/%d", snap.GameID, v.QuestionID)
	r.mu.Lock()
	if r.announce == key {
		r.mu.Unlock()
		return
	}
	r.announce = key
	r.mu.Unlock()

	r.printf("\ntime is up!\n")
	r.render(snap)
}

func (r *REPL) render(snap app.Snapshot) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] score %d/%d\n", snap.Phase, snap.Score, snap.TotalPossible)

	switch snap.Phase.Kind {
	case domain.PhaseStart:
		b.WriteString("type start to begin\n")
	case domain.PhaseRoundIntro:
		fmt.Fprintf(&b, "Round %d: %s (%d questions, %d points each, %d seconds)\n%s\ntype continue\n",
			snap.Rule.Number, snap.Rule.Title, snap.QuestionCount, snap.Rule.Points, snap.Rule.Seconds, snap.Rule.Description)
	case domain.PhaseRoundPlay:
		writeQuestion(&b, snap)
	case domain.PhaseResults:
		sum := r.game.Summary()
		fmt.Fprintf(&b, "%s: %d/%d (%d%%)\n", sum.Grade, sum.Score, sum.Possible, sum.Percent)
		for _, t := range sum.Tallies {
			fmt.Fprintf(&b, "  round %d: %d/%d points, %d/%d correct\n",
				t.Round, t.PointsEarned, t.PointsPossible, t.QuestionsCorrect, t.QuestionsTotal)
		}
		if r.Recent != nil {
			if recent := r.Recent(); len(recent) > 0 {
				b.WriteString("recent games:\n")
				for _, res := range recent {
					fmt.Fprintf(&b, "  %s %d/%d %s\n",
						res.FinishedAt.Local().Format("2006-01-02 15:04"), res.Score, res.Possible, res.Grade)
				}
			}
		}
		b.WriteString("type restart to play again\n")
	}
	r.printf("%s", b.String())
}

func writeQuestion(b *strings.Builder, snap app.Snapshot) {
	v := snap.Session
	fmt.Fprintf(b, "Q%d/%d (%ds): %s\n", snap.QuestionIndex+1, snap.QuestionCount, v.Remaining, snap.Question.Text())
	switch v.State {
	case app.StateActive:
		switch snap.Question.(type) {
		case domain.TrueFalse:
			b.WriteString("answer with true or false\n")
		case domain.FillBlank:
			b.WriteString("answer with: answer <text>\n")
		case domain.Structured:
			b.WriteString("answer with: submit <text>\n")
		}
	case app.StateAwaitingSelfMark:
		fmt.Fprintf(b, "your answer: %s\nsample answer: %s\nmark yes|no\n", v.Submitted, v.Reveal)
	case app.StateFinalized:
		fmt.Fprintf(b, "%s: you answered %q", v.Verdict, v.Submitted)
		if v.Expected != "" {
			fmt.Fprintf(b, ", answer %q", v.Expected)
		}
		b.WriteString("\n")
		if v.Reveal != "" {
			fmt.Fprintf(b, "%s\n", v.Reveal)
		}
		b.WriteString("type next\n")
	}
}

func (r *REPL) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}
