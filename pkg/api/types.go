// Package api defines the wire types exchanged with a deep agent server:
// the outbound WebSocket frames and the payloads of the workspace HTTP
// endpoints. Inbound stream events live in pkg/stream.
package api

// ChatRequest starts or continues a turn. SessionID is required on the first
// frame of a resumed session and optional afterwards; when omitted on a fresh
// connection the server mints a session and answers with session_created.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ApprovalResponse resolves a pending approval batch. Every tool call id from
// the batch maps to the same user decision.
type ApprovalResponse struct {
	Approval map[string]bool `json:"approval"`
}

// ApprovalRequest is one entry of an approval_required batch.
type ApprovalRequest struct {
	ToolCallID string `json:"tool_call_id"`
	ToolName   string `json:"tool_name"`
	Args       string `json:"args"`
}

// Todo status values used by the server's todo tooling.
const (
	TodoPending    = "pending"
	TodoInProgress = "in_progress"
	TodoCompleted  = "completed"
)

// Todo is one entry of a todos_update list.
type Todo struct {
	Content    string `json:"content"`
	ActiveForm string `json:"activeForm,omitempty"`
	Status     string `json:"status"`
}

// DisplayText returns the text to show for the todo: the active-form phrasing
// while the todo is in progress, the plain content otherwise.
func (t Todo) DisplayText() string {
	if t.Status == TodoInProgress && t.ActiveForm != "" {
		return t.ActiveForm
	}
	return t.Content
}

// FileListing is the response of GET /files.
type FileListing struct {
	Uploads   []string `json:"uploads"`
	Workspace []string `json:"workspace"`
}

// FileContentResponse is the response of GET /files/content/<path>.
type FileContentResponse struct {
	Content string `json:"content"`
}

// UploadResponse is the response of POST /upload.
type UploadResponse struct {
	Filename string `json:"filename"`
}

// ErrorResponse is the error body returned by the workspace HTTP endpoints.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
