// Package stream defines the typed events a deep agent server emits over the
// chat WebSocket, and the decoding of raw frames into them. Events are
// immutable: constructed once from a decoded frame and consumed exactly once
// by the transcript reducer.
package stream

import (
	"github.com/deepagents/deepchat/pkg/api"
)

type Event interface {
	isEvent()
}

// SessionCreatedEvent is sent once when the server mints a new session id.
type SessionCreatedEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
}

func SessionCreated(sessionID string) Event {
	return &SessionCreatedEvent{
		Type:      "session_created",
		SessionID: sessionID,
	}
}

func (e *SessionCreatedEvent) isEvent() {}

// StartEvent opens a new assistant turn.
type StartEvent struct {
	Type string `json:"type"`
}

func Start() Event {
	return &StartEvent{Type: "start"}
}

func (e *StartEvent) isEvent() {}

// StatusEvent carries a transient human-readable status line for the active
// turn. Last write wins.
type StatusEvent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func Status(content string) Event {
	return &StatusEvent{
		Type:    "status",
		Content: content,
	}
}

func (e *StatusEvent) isEvent() {}

// ToolCallStartEvent opens a tool call whose arguments will stream in via
// tool_args_delta frames. The tool call id may be empty.
type ToolCallStartEvent struct {
	Type       string `json:"type"`
	ToolName   string `json:"tool_name"`
	ToolCallID string `json:"tool_call_id,omitempty"`
}

func ToolCallStart(toolName, toolCallID string) Event {
	return &ToolCallStartEvent{
		Type:       "tool_call_start",
		ToolName:   toolName,
		ToolCallID: toolCallID,
	}
}

func (e *ToolCallStartEvent) isEvent() {}

// ToolArgsDeltaEvent carries an argument fragment for the streaming tool call.
type ToolArgsDeltaEvent struct {
	Type      string `json:"type"`
	ToolName  string `json:"tool_name,omitempty"`
	ArgsDelta string `json:"args_delta"`
}

func ToolArgsDelta(toolName, argsDelta string) Event {
	return &ToolArgsDeltaEvent{
		Type:      "tool_args_delta",
		ToolName:  toolName,
		ArgsDelta: argsDelta,
	}
}

func (e *ToolArgsDeltaEvent) isEvent() {}

// ToolStartEvent marks a tool call as running with its complete argument
// payload. Args is the canonical JSON text of the arguments regardless of
// whether the server sent an object or a pre-serialized string.
type ToolStartEvent struct {
	Type     string `json:"type"`
	ToolName string `json:"tool_name"`
	Args     string `json:"args"`
}

func ToolStart(toolName, args string) Event {
	return &ToolStartEvent{
		Type:     "tool_start",
		ToolName: toolName,
		Args:     args,
	}
}

func (e *ToolStartEvent) isEvent() {}

// ToolOutputEvent completes the active tool call with its result.
type ToolOutputEvent struct {
	Type     string `json:"type"`
	ToolName string `json:"tool_name"`
	Output   string `json:"output"`
}

func ToolOutput(toolName, output string) Event {
	return &ToolOutputEvent{
		Type:     "tool_output",
		ToolName: toolName,
		Output:   output,
	}
}

func (e *ToolOutputEvent) isEvent() {}

// TextDeltaEvent appends a fragment of assistant display text.
type TextDeltaEvent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func TextDelta(content string) Event {
	return &TextDeltaEvent{
		Type:    "text_delta",
		Content: content,
	}
}

func (e *TextDeltaEvent) isEvent() {}

// ThinkingDeltaEvent appends a fragment of streamed reasoning text.
type ThinkingDeltaEvent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func ThinkingDelta(content string) Event {
	return &ThinkingDeltaEvent{
		Type:    "thinking_delta",
		Content: content,
	}
}

func (e *ThinkingDeltaEvent) isEvent() {}

// ResponseEvent replaces the turn's display text with the final response.
// Mutually exclusive with text_delta in correct server behavior.
type ResponseEvent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func Response(content string) Event {
	return &ResponseEvent{
		Type:    "response",
		Content: content,
	}
}

func (e *ResponseEvent) isEvent() {}

// TodosUpdateEvent replaces the turn's todo list wholesale.
type TodosUpdateEvent struct {
	Type  string     `json:"type"`
	Todos []api.Todo `json:"todos"`
}

func TodosUpdate(todos []api.Todo) Event {
	return &TodosUpdateEvent{
		Type:  "todos_update",
		Todos: todos,
	}
}

func (e *TodosUpdateEvent) isEvent() {}

// ApprovalRequiredEvent surfaces a batch of tool calls awaiting a user
// decision. The turn stays open while the batch is pending.
type ApprovalRequiredEvent struct {
	Type     string                `json:"type"`
	Requests []api.ApprovalRequest `json:"requests"`
}

func ApprovalRequired(requests []api.ApprovalRequest) Event {
	return &ApprovalRequiredEvent{
		Type:     "approval_required",
		Requests: requests,
	}
}

func (e *ApprovalRequiredEvent) isEvent() {}

// DoneEvent closes the active turn.
type DoneEvent struct {
	Type string `json:"type"`
}

func Done() Event {
	return &DoneEvent{Type: "done"}
}

func (e *DoneEvent) isEvent() {}

// ErrorEvent reports a server-side failure. It closes the active turn when
// one is open; the session itself survives.
type ErrorEvent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func Error(content string) Event {
	return &ErrorEvent{
		Type:    "error",
		Content: content,
	}
}

func (e *ErrorEvent) isEvent() {}
