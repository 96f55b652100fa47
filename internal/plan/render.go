// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"mvdan.cc/sh/v3/syntax"
)

// Format selects a plan renderer.
type Format string

const (
	// FormatText is a plain numbered list.
	FormatText Format = "text"
	// FormatMarkdown renders a markdown summary through glamour.
	FormatMarkdown Format = "markdown"
	// FormatScript emits an executable POSIX shell script with every
	// argument shell-quoted.
	FormatScript Format = "script"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatMarkdown, FormatScript:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown plan format %q (want text, markdown, or script)", s)
	}
}

// Render renders the plan in the requested format. style is the glamour
// style name used for markdown ("auto", "dark", "light").
func (p *Plan) Render(format Format, style string) (string, error) {
	switch format {
	case FormatText:
		return p.renderText(), nil
	case FormatMarkdown:
		return glamour.Render(p.renderMarkdown(), style)
	case FormatScript:
		return p.renderScript()
	default:
		return "", fmt.Errorf("unknown plan format %q", format)
	}
}

func (p *Plan) renderText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Environment %s (python %s) at %s\n", p.EnvName, p.Python, p.CondaRoot)
	for i, cmd := range p.Commands {
		fmt.Fprintf(&b, "%2d. %s\n    %s\n", i+1, cmd.Description, strings.Join(cmd.Argv, " "))
	}
	return b.String()
}

func (p *Plan) renderMarkdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Provisioning plan: %s\n\n", p.EnvName)
	fmt.Fprintf(&b, "- Python: `%s`\n", p.Python)
	fmt.Fprintf(&b, "- Conda root: `%s`\n", p.CondaRoot)
	fmt.Fprintf(&b, "- Steps: %d\n\n", len(p.Commands))
	for i, cmd := range p.Commands {
		fmt.Fprintf(&b, "%d. **%s**\n\n", i+1, cmd.Description)
		fmt.Fprintf(&b, "   ```\n   %s\n   ```\n\n", strings.Join(cmd.Argv, " "))
	}
	return b.String()
}

// renderScript emits a script equivalent to the plan: strict-error mode so
// the first failing step aborts the rest, PATH prefixed in place of
// `conda activate`, one command per step with safely quoted arguments.
func (p *Plan) renderScript() (string, error) {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&b, "# provisioning script for environment %q\n", p.EnvName)
	b.WriteString("set -eu\n\n")

	quotedDirs := make([]string, len(p.BinDirs))
	for i, dir := range p.BinDirs {
		q, err := syntax.Quote(dir, syntax.LangPOSIX)
		if err != nil {
			return "", fmt.Errorf("quoting %q: %w", dir, err)
		}
		quotedDirs[i] = q
	}
	fmt.Fprintf(&b, "PATH=%s:\"$PATH\"\nexport PATH\n\n", strings.Join(quotedDirs, ":"))

	for _, cmd := range p.Commands {
		fmt.Fprintf(&b, "# %s\n", cmd.Description)
		quoted := make([]string, len(cmd.Argv))
		for i, arg := range cmd.Argv {
			q, err := syntax.Quote(arg, syntax.LangPOSIX)
			if err != nil {
				return "", fmt.Errorf("quoting %q: %w", arg, err)
			}
			quoted[i] = q
		}
		b.WriteString(strings.Join(quoted, " "))
		b.WriteString("\n")
	}

	return b.String(), nil
}
