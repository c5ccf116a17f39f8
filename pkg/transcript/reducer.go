package transcript

import (
	"log/slog"

	"github.com/deepagents/deepchat/pkg/api"
	"github.com/deepagents/deepchat/pkg/stream"
)

// SessionHook is invoked at most once, when the server mints a session id.
// It is the reducer's only side effect; everything else is a pure fold.
type SessionHook func(sessionID string)

// Reducer folds stream events into the transcript. It is not safe for
// concurrent use: Apply must be called from a single goroutine, one event at
// a time, in arrival order.
type Reducer struct {
	sessionID string
	onSession SessionHook

	messages []*Message

	// Cursor state. active points at the one message open for mutation,
	// activeTool indexes into its ToolCalls (-1 when none). textBuf
	// accumulates text_delta fragments separately from Message.Text so a
	// placeholder written by the approval gate is overwritten, not appended
	// to, by the next delta.
	active     *Message
	activeTool int
	textBuf    string
}

type Option func(*Reducer)

// WithSessionID seeds the reducer with a locally cached session id. A
// session_created event is ignored once an id is known.
func WithSessionID(id string) Option {
	return func(r *Reducer) {
		r.sessionID = id
	}
}

// WithSessionHook installs the effect handler for session_created.
func WithSessionHook(hook SessionHook) Option {
	return func(r *Reducer) {
		r.onSession = hook
	}
}

func New(opts ...Option) *Reducer {
	r := &Reducer{activeTool: -1}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SessionID returns the current session id, if any.
func (r *Reducer) SessionID() string {
	return r.sessionID
}

// Snapshot returns an immutable copy of the transcript.
func (r *Reducer) Snapshot() Snapshot {
	messages := make([]Message, len(r.messages))
	for i, m := range r.messages {
		messages[i] = m.clone()
	}
	return Snapshot{SessionID: r.sessionID, Messages: messages}
}

// Apply folds one event into the transcript and returns the resulting
// snapshot. Turn-scoped events arriving while no message is active are
// dropped silently: a late or duplicate frame must never destabilize the
// transcript.
func (r *Reducer) Apply(ev stream.Event) Snapshot {
	switch ev := ev.(type) {
	case *stream.SessionCreatedEvent:
		if r.sessionID == "" && ev.SessionID != "" {
			r.sessionID = ev.SessionID
			if r.onSession != nil {
				r.onSession(ev.SessionID)
			}
		}

	case *stream.StartEvent:
		if r.active != nil {
			// The server opened a turn without closing the previous one.
			// Freeze the stale message so only one stays mutable.
			r.active.Closed = true
		}
		msg := &Message{Role: RoleAssistant}
		r.messages = append(r.messages, msg)
		r.active = msg
		r.activeTool = -1
		r.textBuf = ""

	case *stream.StatusEvent:
		if r.active != nil {
			r.active.StatusLine = ev.Content
		}

	case *stream.ToolCallStartEvent:
		if r.active == nil {
			r.drop(ev)
			break
		}
		r.active.ToolCalls = append(r.active.ToolCalls, ToolCall{
			Name:       ev.ToolName,
			ToolCallID: ev.ToolCallID,
			Status:     ToolStreaming,
		})
		r.activeTool = len(r.active.ToolCalls) - 1

	case *stream.ToolArgsDeltaEvent:
		if tool := r.currentTool(); tool != nil {
			tool.Args += ev.ArgsDelta
		} else {
			r.drop(ev)
		}

	case *stream.ToolStartEvent:
		if r.active == nil {
			r.drop(ev)
			break
		}
		if tool := r.currentTool(); tool != nil && tool.Status == ToolStreaming {
			tool.Status = ToolRunning
			tool.Args = ev.Args
			break
		}
		// Non-streaming invocation path: the call shows up fully formed.
		r.active.ToolCalls = append(r.active.ToolCalls, ToolCall{
			Name:   ev.ToolName,
			Status: ToolRunning,
			Args:   ev.Args,
		})
		r.activeTool = len(r.active.ToolCalls) - 1

	case *stream.ToolOutputEvent:
		if tool := r.currentTool(); tool != nil {
			tool.Output = ev.Output
			tool.Status = ToolDone
		} else {
			r.drop(ev)
		}

	case *stream.TextDeltaEvent:
		if r.active != nil {
			r.textBuf += ev.Content
			r.active.Text = r.textBuf
		} else {
			r.drop(ev)
		}

	case *stream.ThinkingDeltaEvent:
		if r.active != nil {
			r.active.Thinking += ev.Content
		} else {
			r.drop(ev)
		}

	case *stream.ResponseEvent:
		if r.active != nil {
			r.active.Text = ev.Content
		} else {
			r.drop(ev)
		}

	case *stream.TodosUpdateEvent:
		if r.active != nil {
			todos := make([]api.Todo, len(ev.Todos))
			copy(todos, ev.Todos)
			r.active.Todos = todos
		} else {
			r.drop(ev)
		}

	case *stream.ApprovalRequiredEvent:
		if r.active != nil {
			requests := make([]api.ApprovalRequest, len(ev.Requests))
			copy(requests, ev.Requests)
			r.active.ApprovalRequests = requests
		} else {
			r.drop(ev)
		}

	case *stream.DoneEvent:
		r.closeTurn()

	case *stream.ErrorEvent:
		if r.active != nil {
			r.active.Role = RoleSystem
			r.active.Text = "Error: " + ev.Content
		} else {
			r.messages = append(r.messages, &Message{
				Role:   RoleSystem,
				Text:   "Error: " + ev.Content,
				Closed: true,
			})
		}
		r.closeTurn()
	}

	return r.Snapshot()
}

// AppendUserMessage echoes a sent message into the transcript immediately,
// before the server's start event arrives.
func (r *Reducer) AppendUserMessage(text string) Snapshot {
	r.messages = append(r.messages, &Message{
		Role:   RoleUser,
		Text:   text,
		Closed: true,
	})
	return r.Snapshot()
}

// AppendSystemMessage adds a standalone system-role message.
func (r *Reducer) AppendSystemMessage(text string) Snapshot {
	r.messages = append(r.messages, &Message{
		Role:   RoleSystem,
		Text:   text,
		Closed: true,
	})
	return r.Snapshot()
}

func (r *Reducer) currentTool() *ToolCall {
	if r.active == nil || r.activeTool < 0 || r.activeTool >= len(r.active.ToolCalls) {
		return nil
	}
	return &r.active.ToolCalls[r.activeTool]
}

func (r *Reducer) closeTurn() {
	if r.active != nil {
		r.active.Closed = true
	}
	r.active = nil
	r.activeTool = -1
	r.textBuf = ""
}

func (r *Reducer) drop(ev stream.Event) {
	slog.Debug("Dropping event with no active target", "event", ev)
}
