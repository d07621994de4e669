package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// uiModeDecision captures whether to use the full-screen UI.
type uiModeDecision struct {
	useLive bool
	warning string
}

// isTerminal reports whether a reader or writer is a TTY.
var isTerminal = defaultIsTerminal

// resolveUIMode picks the full-screen UI only when both ends are terminals.
func resolveUIMode(mode string, stdin io.Reader, stdout io.Writer) (uiModeDecision, error) {
	normalized := strings.ToLower(strings.TrimSpace(mode))
	if normalized == "" {
		normalized = "auto"
	}
	tty := isTerminal(stdout) && isTerminal(stdin)
	switch normalized {
	case "auto":
		return uiModeDecision{useLive: tty}, nil
	case "live":
		if tty {
			return uiModeDecision{useLive: true}, nil
		}
		return uiModeDecision{
			useLive: false,
			warning: "Live UI requested but the terminal is not interactive; falling back to plain output.",
		}, nil
	case "plain":
		return uiModeDecision{useLive: false}, nil
	default:
		return uiModeDecision{}, fmt.Errorf("invalid ui mode %q (expected auto|live|plain)", mode)
	}
}

// defaultIsTerminal inspects a stream for TTY support.
func defaultIsTerminal(stream any) bool {
	if stream == nil {
		return false
	}
	if file, ok := stream.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	if fder, ok := stream.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(fder.Fd()))
	}
	return false
}
