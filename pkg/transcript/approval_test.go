package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepagents/deepchat/pkg/api"
	"github.com/deepagents/deepchat/pkg/stream"
)

func TestResolveApprovals_DenyBatch(t *testing.T) {
	t.Parallel()

	r := New()
	apply(r,
		stream.Start(),
		stream.ApprovalRequired([]api.ApprovalRequest{
			{ToolCallID: "call_1", ToolName: "execute", Args: `{"cmd":"rm"}`},
			{ToolCallID: "call_2", ToolName: "write_file", Args: `{"path":"x"}`},
			{ToolCallID: "call_3", ToolName: "execute", Args: `{"cmd":"mv"}`},
		}),
	)

	resp, ok := r.ResolveApprovals(false)
	require.True(t, ok)
	assert.Equal(t, map[string]bool{
		"call_1": false,
		"call_2": false,
		"call_3": false,
	}, resp.Approval)

	snap := r.Snapshot()
	assert.False(t, snap.Messages[0].PendingApproval())
	assert.Equal(t, "Denied - continuing...", snap.Messages[0].Text)

	// The decision is one-shot
	_, ok = r.ResolveApprovals(false)
	assert.False(t, ok)
}

func TestResolveApprovals_ApprovePlaceholderOverwritten(t *testing.T) {
	t.Parallel()

	r := New()
	apply(r,
		stream.Start(),
		stream.ApprovalRequired([]api.ApprovalRequest{
			{ToolCallID: "call_1", ToolName: "execute"},
		}),
	)

	resp, ok := r.ResolveApprovals(true)
	require.True(t, ok)
	assert.Equal(t, map[string]bool{"call_1": true}, resp.Approval)
	assert.Equal(t, "Approved - continuing...", r.Snapshot().Messages[0].Text)

	// Streamed text after the decision replaces the placeholder wholesale
	// rather than appending to it.
	snap := apply(r,
		stream.TextDelta("Running "),
		stream.TextDelta("the command."),
	)
	assert.Equal(t, "Running the command.", snap.Messages[0].Text)
}

func TestResolveApprovals_KeepsExistingText(t *testing.T) {
	t.Parallel()

	r := New()
	apply(r,
		stream.Start(),
		stream.TextDelta("I need to run a command."),
		stream.ApprovalRequired([]api.ApprovalRequest{
			{ToolCallID: "call_1", ToolName: "execute"},
		}),
	)

	_, ok := r.ResolveApprovals(true)
	require.True(t, ok)

	// No placeholder when the message already has content
	assert.Equal(t, "I need to run a command.", r.Snapshot().Messages[0].Text)
}

func TestResolveApprovals_NonePending(t *testing.T) {
	t.Parallel()

	r := New()
	apply(r, stream.Start(), stream.TextDelta("hello"))

	_, ok := r.ResolveApprovals(true)
	assert.False(t, ok)
}

func TestPendingApprovals(t *testing.T) {
	t.Parallel()

	r := New()
	assert.Nil(t, r.PendingApprovals())

	apply(r,
		stream.Start(),
		stream.ApprovalRequired([]api.ApprovalRequest{
			{ToolCallID: "call_1", ToolName: "execute", Args: `{"cmd":"ls"}`},
		}),
	)

	pending := r.PendingApprovals()
	require.Len(t, pending, 1)
	assert.Equal(t, "call_1", pending[0].ToolCallID)

	// Returned slice is a copy
	pending[0].ToolCallID = "tampered"
	assert.Equal(t, "call_1", r.PendingApprovals()[0].ToolCallID)
}

func TestPendingApprovals_SurvivesDone(t *testing.T) {
	t.Parallel()

	// The gate outlives the turn: a done frame closes the message but the
	// batch stays answerable until the user decides.
	r := New()
	apply(r,
		stream.Start(),
		stream.ApprovalRequired([]api.ApprovalRequest{
			{ToolCallID: "call_1", ToolName: "execute"},
		}),
		stream.Done(),
	)

	require.Len(t, r.PendingApprovals(), 1)

	resp, ok := r.ResolveApprovals(true)
	require.True(t, ok)
	assert.Equal(t, map[string]bool{"call_1": true}, resp.Approval)
}
