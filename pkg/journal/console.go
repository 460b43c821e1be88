package journal

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Console writes entries to a terminal, one line each, colored by severity.
type Console struct {
	Out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{Out: out}
}

func (c *Console) Log(message string, severity Severity) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	switch severity {
	case SeveritySuccess:
		fmt.Fprintln(c.Out, green("✓ "+message))
	case SeverityError:
		fmt.Fprintln(c.Out, red("✗ "+message))
	default:
		fmt.Fprintln(c.Out, message)
	}
}
