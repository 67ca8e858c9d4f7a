package apply

import (
	"fmt"
	"io"
	"strings"

	"github.com/mtlprog/internfinder/internal/domain"
)

// ConsoleNotifier prints notices for terminal use.
type ConsoleNotifier struct {
	w io.Writer
}

// NewConsoleNotifier creates a ConsoleNotifier writing to w.
func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{w: w}
}

// Notify prints the notice title and its message lines indented.
func (n *ConsoleNotifier) Notify(notice domain.Notice) {
	fmt.Fprintf(n.w, "[%s] %s\n", notice.Level, notice.Title)
	for _, line := range strings.Split(notice.Message, "\n") {
		if line != "" {
			fmt.Fprintf(n.w, "    %s\n", line)
		}
	}
}

// Dismiss is a no-op on a terminal.
func (n *ConsoleNotifier) Dismiss() {}
