// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	// Verify all IDs are unique and sequential
	ids := []Id{
		EnvNotFoundId,
		SourceScriptMissingId,
		SourceScriptFailedId,
		InterpreterNotFoundId,
		EntryScriptMissingId,
		ConfigLoadFailedId,
		SelfPathUnresolvableId,
		SessionLogFailedId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}

	// Verify IDs start at 1 (iota + 1)
	if EnvNotFoundId != 1 {
		t.Errorf("EnvNotFoundId = %d, want 1", EnvNotFoundId)
	}
}

func TestGet_AllIdsRegistered(t *testing.T) {
	for id := EnvNotFoundId; id <= SessionLogFailedId; id++ {
		if Get(id) == nil {
			t.Errorf("Get(%d) returned nil, issue not registered", id)
		}
	}
}

func TestIssue_Id(t *testing.T) {
	issue := Get(EnvNotFoundId)
	if issue == nil {
		t.Fatal("Get(EnvNotFoundId) returned nil")
	}

	if issue.Id() != EnvNotFoundId {
		t.Errorf("issue.Id() = %d, want %d", issue.Id(), EnvNotFoundId)
	}
}

func TestIssue_MarkdownMsg(t *testing.T) {
	issue := Get(SourceScriptMissingId)
	if issue == nil {
		t.Fatal("Get(SourceScriptMissingId) returned nil")
	}

	msg := issue.MarkdownMsg()
	if msg == "" {
		t.Error("MarkdownMsg() returned empty string")
	}

	if !strings.Contains(string(msg), "Dependency script missing") {
		t.Error("MarkdownMsg() should contain 'Dependency script missing'")
	}
}

func TestValues_ReturnsAllIssues(t *testing.T) {
	values := Values()
	if len(values) != len(issues) {
		t.Errorf("Values() returned %d issues, want %d", len(values), len(issues))
	}
}

func TestIssue_Render(t *testing.T) {
	// Swap the renderer to avoid terminal detection in tests
	orig := render
	render = func(in, _ string) (string, error) { return in, nil }
	defer func() { render = orig }()

	out, err := Get(EnvNotFoundId).Render("dark")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "Runtime environment not found") {
		t.Error("Render() output missing issue headline")
	}
}
