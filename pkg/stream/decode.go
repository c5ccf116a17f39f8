package stream

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/deepagents/deepchat/pkg/api"
)

// envelope is the superset of fields across all inbound frame kinds. Decoding
// through a typed envelope instead of map assertions means a malformed field
// yields an error, never a panic.
type envelope struct {
	Type       string            `json:"type"`
	SessionID  string            `json:"session_id"`
	Content    string            `json:"content"`
	ToolName   string            `json:"tool_name"`
	ToolCallID string            `json:"tool_call_id"`
	ArgsDelta  string            `json:"args_delta"`
	Args       json.RawMessage   `json:"args"`
	Output     string            `json:"output"`
	Todos      []api.Todo        `json:"todos"`
	Requests   []approvalRequest `json:"requests"`
}

// approvalRequest mirrors api.ApprovalRequest but keeps args raw so that both
// object and string encodings are accepted.
type approvalRequest struct {
	ToolCallID string          `json:"tool_call_id"`
	ToolName   string          `json:"tool_name"`
	Args       json.RawMessage `json:"args"`
}

// Decode turns one UTF-8 JSON frame into an Event. Unknown event types and
// malformed frames return an error; the caller drops the frame and keeps the
// connection alive.
func Decode(frame []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("decoding frame: %w", err)
	}

	switch env.Type {
	case "session_created":
		return SessionCreated(env.SessionID), nil
	case "start":
		return Start(), nil
	case "status":
		return Status(env.Content), nil
	case "tool_call_start":
		return ToolCallStart(env.ToolName, env.ToolCallID), nil
	case "tool_args_delta":
		return ToolArgsDelta(env.ToolName, env.ArgsDelta), nil
	case "tool_start":
		return ToolStart(env.ToolName, normalizeArgs(env.Args)), nil
	case "tool_output":
		return ToolOutput(env.ToolName, env.Output), nil
	case "text_delta":
		return TextDelta(env.Content), nil
	case "thinking_delta":
		return ThinkingDelta(env.Content), nil
	case "response":
		return Response(env.Content), nil
	case "todos_update":
		return TodosUpdate(env.Todos), nil
	case "approval_required":
		requests := make([]api.ApprovalRequest, 0, len(env.Requests))
		for _, req := range env.Requests {
			requests = append(requests, api.ApprovalRequest{
				ToolCallID: req.ToolCallID,
				ToolName:   req.ToolName,
				Args:       normalizeArgs(req.Args),
			})
		}
		return ApprovalRequired(requests), nil
	case "done":
		return Done(), nil
	case "error":
		return Error(env.Content), nil
	default:
		return nil, fmt.Errorf("unknown event type %q", env.Type)
	}
}

// normalizeArgs returns the canonical JSON text of a tool argument payload.
// The server sends arguments either as a JSON object or as a pre-serialized
// string; a string is unwrapped, anything else is compacted as-is.
func normalizeArgs(raw json.RawMessage) string {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
