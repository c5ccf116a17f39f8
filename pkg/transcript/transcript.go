// Package transcript folds the server's event stream into a structured
// conversation transcript: messages, nested tool calls, streamed reasoning,
// todo lists and pending approval batches. The fold is a single-threaded
// state machine over one "active message" cursor; consumers only ever see
// immutable snapshots.
package transcript

import (
	"github.com/deepagents/deepchat/pkg/api"
)

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ToolStatus is the lifecycle stage of a tool call. It only ever advances.
type ToolStatus int

const (
	// ToolStreaming means the call was opened and its arguments are still
	// arriving as deltas.
	ToolStreaming ToolStatus = iota
	// ToolRunning means the server started executing the call.
	ToolRunning
	// ToolDone means the call produced its output.
	ToolDone
)

func (s ToolStatus) String() string {
	switch s {
	case ToolStreaming:
		return "streaming"
	case ToolRunning:
		return "running"
	case ToolDone:
		return "done"
	default:
		return "unknown"
	}
}

// ToolCall is one tool invocation within a message, in invocation order.
type ToolCall struct {
	Name       string
	ToolCallID string
	Status     ToolStatus
	Args       string
	Output     string
}

// Message is the transcript's unit of display. Fields are mutated in place
// while the message is active and frozen once Closed is set.
type Message struct {
	Role             Role
	Text             string
	Thinking         string
	StatusLine       string
	ToolCalls        []ToolCall
	Todos            []api.Todo
	ApprovalRequests []api.ApprovalRequest
	Closed           bool
}

// PendingApproval reports whether the message is waiting on a user decision.
func (m *Message) PendingApproval() bool {
	return len(m.ApprovalRequests) > 0
}

// Snapshot is an immutable copy of the transcript handed to consumers after
// each reduction step. Consumers must not be able to reach reducer-owned
// memory through it, so every slice is copied.
type Snapshot struct {
	SessionID string
	Messages  []Message
}

func (m *Message) clone() Message {
	c := *m
	if m.ToolCalls != nil {
		c.ToolCalls = make([]ToolCall, len(m.ToolCalls))
		copy(c.ToolCalls, m.ToolCalls)
	}
	if m.Todos != nil {
		c.Todos = make([]api.Todo, len(m.Todos))
		copy(c.Todos, m.Todos)
	}
	if m.ApprovalRequests != nil {
		c.ApprovalRequests = make([]api.ApprovalRequest, len(m.ApprovalRequests))
		copy(c.ApprovalRequests, m.ApprovalRequests)
	}
	return c
}
