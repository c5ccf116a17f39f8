package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deepagents/deepchat/pkg/api"
	"github.com/deepagents/deepchat/pkg/transcript"
)

func TestBuildTranscript(t *testing.T) {
	t.Parallel()

	snap := transcript.Snapshot{Messages: []transcript.Message{
		{Role: transcript.RoleUser, Text: "list the files", Closed: true},
		{
			Role:     transcript.RoleAssistant,
			Text:     "Here you go.",
			Thinking: "short plan",
			ToolCalls: []transcript.ToolCall{
				{Name: "execute", Args: `{"cmd":"ls"}`, Status: transcript.ToolDone, Output: "README.md"},
				{Name: "execute", Args: `{"cmd":"pwd"}`, Status: transcript.ToolRunning},
			},
			Todos: []api.Todo{
				{Content: "List files", Status: api.TodoCompleted},
				{Content: "Summarize", ActiveForm: "Summarizing", Status: api.TodoInProgress},
			},
			Closed: true,
		},
		{Role: transcript.RoleSystem, Text: "Error: boom", Closed: true},
	}}

	got := buildTranscript(snap)

	assert.Contains(t, got, "**You**: list the files")
	assert.Contains(t, got, "Here you go.")
	assert.Contains(t, got, "> short plan")
	assert.Contains(t, got, "✅ `execute({\"cmd\":\"ls\"})`")
	assert.Contains(t, got, "README.md")
	assert.Contains(t, got, "🔧 `execute({\"cmd\":\"pwd\"})` — running")
	assert.Contains(t, got, "- [x] List files")
	assert.Contains(t, got, "- [~] Summarizing")
	assert.Contains(t, got, "_Error: boom_")
}

func TestBuildTranscript_ApprovalPrompt(t *testing.T) {
	t.Parallel()

	snap := transcript.Snapshot{Messages: []transcript.Message{
		{
			Role: transcript.RoleAssistant,
			ApprovalRequests: []api.ApprovalRequest{
				{ToolCallID: "call_1", ToolName: "execute", Args: `{"cmd":"rm -rf /tmp/x"}`},
			},
		},
	}}

	got := buildTranscript(snap)

	assert.Contains(t, got, "Approval required")
	assert.Contains(t, got, "execute")
	assert.Contains(t, got, "Press `y` to approve all")
}

func TestFormatListing(t *testing.T) {
	t.Parallel()

	got := formatListing(&api.FileListing{
		Uploads:   []string{"/uploads/data.csv"},
		Workspace: []string{"/workspace/out/report.md"},
	})

	assert.Contains(t, got, "uploads:")
	assert.Contains(t, got, "data.csv")
	assert.Contains(t, got, "out/")
	assert.Contains(t, got, "report.md")
}

func TestFormatListing_Empty(t *testing.T) {
	t.Parallel()

	got := formatListing(&api.FileListing{})
	assert.Contains(t, got, "(empty)")
}

func TestTruncateWithEllipsis(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncateWithEllipsis("short", 10))
	assert.Equal(t, "longer ...", truncateWithEllipsis("longer text than fits", 10))
}
