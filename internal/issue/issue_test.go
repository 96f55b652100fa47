// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestGetKnownIssues(t *testing.T) {
	t.Parallel()

	ids := []Id{
		CondaNotFoundId,
		ForgefileNotFoundId,
		ForgefileParseErrorId,
		EnvAlreadyExistsId,
		InstallStepFailedId,
		NonInteractiveStdinId,
		ConfigLoadFailedId,
	}

	for _, id := range ids {
		iss := Get(id)
		if iss == nil {
			t.Fatalf("Get(%d) = nil, want issue", id)
		}
		if iss.Id() != id {
			t.Errorf("Get(%d).Id() = %d", id, iss.Id())
		}
		if strings.TrimSpace(string(iss.MarkdownMsg())) == "" {
			t.Errorf("issue %d has empty markdown message", id)
		}
	}
}

func TestValuesSortedAndComplete(t *testing.T) {
	t.Parallel()

	vals := Values()
	if len(vals) != len(issues) {
		t.Fatalf("Values() returned %d issues, want %d", len(vals), len(issues))
	}
	for i := 1; i < len(vals); i++ {
		if vals[i-1].Id() >= vals[i].Id() {
			t.Errorf("Values() not sorted by id: %d before %d", vals[i-1].Id(), vals[i].Id())
		}
	}
}

func TestRenderUsesRenderer(t *testing.T) {
	// Swaps the package-level render func; not parallel.
	orig := render
	defer func() { render = orig }()

	var gotStyle string
	render = func(in, stylePath string) (string, error) {
		gotStyle = stylePath
		return "rendered:" + in[:10], nil
	}

	out, err := Get(CondaNotFoundId).Render("dark")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if gotStyle != "dark" {
		t.Errorf("style = %q, want dark", gotStyle)
	}
	if !strings.HasPrefix(out, "rendered:") {
		t.Errorf("output = %q", out)
	}
}
