// SPDX-License-Identifier: EPL-2.0

package conda

import (
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// TerminalPrompter asks for a directory through a huh input form on the
// controlling terminal.
type TerminalPrompter struct{}

// AskDir implements Prompter.
func (TerminalPrompter) AskDir(title string) (string, error) {
	var answer string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(title).
			Placeholder("/opt/conda").
			Value(&answer),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// StdinIsTerminal reports whether standard input is attached to a terminal.
// When it is not, the interactive recovery prompt must not be used.
func StdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
