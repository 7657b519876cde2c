// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestIdsAreUniqueAndCataloged(t *testing.T) {
	ids := []Id{
		RiotfileNotFoundId,
		RiotfileParseErrorId,
		InterpreterNotFoundId,
		VirtualenvFailedId,
		DevInstallFailedId,
		ConfigLoadFailedId,
		ShellNotFoundId,
		InvalidPatternId,
		EnvFileNotFoundId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true

		issue := Get(id)
		if issue == nil {
			t.Errorf("Get(%d) returned nil", id)
			continue
		}
		if issue.Id() != id {
			t.Errorf("Get(%d).Id() = %d", id, issue.Id())
		}
		if strings.TrimSpace(string(issue.MarkdownMsg())) == "" {
			t.Errorf("issue %d has no message", id)
		}
	}

	if RiotfileNotFoundId != 1 {
		t.Errorf("RiotfileNotFoundId = %d, want 1", RiotfileNotFoundId)
	}
	if len(Values()) != len(ids) {
		t.Errorf("Values() has %d issues, want %d", len(Values()), len(ids))
	}
}

func TestValuesOrdered(t *testing.T) {
	values := Values()
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Fatalf("Values() not ordered at %d", i)
		}
	}
}

func TestIssueLinksAreCloned(t *testing.T) {
	issue := &Issue{id: 99, docLinks: []HttpLink{"https://example.com/docs"}}

	links := issue.DocLinks()
	links[0] = "modified"
	if issue.DocLinks()[0] != "https://example.com/docs" {
		t.Error("DocLinks() should return a clone")
	}
}

func TestIssueRender(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	render = func(in string, _ string) (string, error) {
		return in, nil
	}

	rendered, err := Get(RiotfileNotFoundId).Render("dark")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(rendered, "No riotfile found") {
		t.Errorf("Render() = %q", rendered)
	}

	linked := &Issue{id: 99, mdMsg: "# x", extLinks: []HttpLink{"https://example.com"}}
	rendered, err = linked.Render("dark")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(rendered, "See also") || !strings.Contains(rendered, "https://example.com") {
		t.Errorf("Render() without links section: %q", rendered)
	}
}

func TestIssueRenderGlamour(t *testing.T) {
	rendered, err := Get(InvalidPatternId).Render("notty")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(rendered, "Invalid name pattern") {
		t.Errorf("Render() = %q", rendered)
	}
}
