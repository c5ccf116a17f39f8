package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"github.com/deepagents/deepchat/pkg/api"
	"github.com/deepagents/deepchat/pkg/transcript"
	"github.com/deepagents/deepchat/pkg/ws"
)

// renderChatContent rebuilds the transcript markdown and pushes it through
// the glamour renderer into the viewport.
func (m *model) renderChatContent() {
	if m.renderer == nil {
		return
	}

	raw := buildTranscript(m.snapshot)
	rendered, err := m.renderer.Render(raw)
	if err != nil {
		m.err = err
		return
	}
	m.chatContent = rendered
	m.chatViewport.SetContent(m.chatContent)
}

// buildTranscript flattens a snapshot into markdown.
func buildTranscript(snap transcript.Snapshot) string {
	var b strings.Builder
	for i := range snap.Messages {
		writeMessage(&b, &snap.Messages[i])
	}
	return b.String()
}

func writeMessage(b *strings.Builder, msg *transcript.Message) {
	switch msg.Role {
	case transcript.RoleUser:
		fmt.Fprintf(b, "\n**You**: %s\n", msg.Text)
		return
	case transcript.RoleSystem:
		fmt.Fprintf(b, "\n_%s_\n", msg.Text)
		return
	}

	b.WriteString("\n**Agent**:\n")

	if msg.Thinking != "" {
		for line := range strings.Lines(msg.Thinking) {
			fmt.Fprintf(b, "> %s", line)
		}
		b.WriteString("\n\n")
	}

	for i := range msg.ToolCalls {
		writeToolCall(b, &msg.ToolCalls[i])
	}

	if len(msg.Todos) > 0 {
		b.WriteString("\n")
		for _, todo := range msg.Todos {
			fmt.Fprintf(b, "- %s %s\n", todoMarker(todo), todo.DisplayText())
		}
	}

	if msg.Text != "" {
		b.WriteString("\n" + msg.Text + "\n")
	}

	if msg.PendingApproval() {
		writeApprovalPrompt(b, msg.ApprovalRequests)
	}
}

func writeToolCall(b *strings.Builder, tool *transcript.ToolCall) {
	args := truncateWithEllipsis(tool.Args, 60)
	switch tool.Status {
	case transcript.ToolDone:
		fmt.Fprintf(b, "\n> ✅ `%s(%s)`\n", tool.Name, args)
		if tool.Output != "" {
			fmt.Fprintf(b, "> %s\n", truncateWithEllipsis(strings.ReplaceAll(tool.Output, "\n", " "), 80))
		}
	default:
		fmt.Fprintf(b, "\n> 🔧 `%s(%s)` — %s\n", tool.Name, args, tool.Status)
	}
}

func todoMarker(todo api.Todo) string {
	switch todo.Status {
	case api.TodoCompleted:
		return "[x]"
	case api.TodoInProgress:
		return "[~]"
	default:
		return "[ ]"
	}
}

func writeApprovalPrompt(b *strings.Builder, requests []api.ApprovalRequest) {
	b.WriteString("\n⚠️  **Approval required**:\n\n")
	for _, req := range requests {
		fmt.Fprintf(b, "- `%s(%s)`\n", req.ToolName, truncateWithEllipsis(req.Args, 60))
	}
	b.WriteString("\nPress `y` to approve all, `n` to deny all.\n")
}

func (m *model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()
	chatView := m.chatViewport.View()
	footer := m.renderFooter()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		chatView,
		footer,
	)
}

func (m *model) renderHeader() string {
	title := headerStyle.Render("deepchat")

	var conn string
	switch m.connState {
	case ws.Connected:
		conn = connectedStyle.Render("● connected")
	case ws.Connecting:
		conn = mutedStyle.Render(m.spinner.View() + "connecting...")
	default:
		conn = disconnectedStyle.Render("● disconnected")
	}

	var status string
	if m.working {
		status = " " + m.spinner.View() + statusStyle.Render(m.currentStatus())
	}

	return title + "  " + conn + status
}

// currentStatus surfaces the open message's server status line.
func (m *model) currentStatus() string {
	for i := len(m.snapshot.Messages) - 1; i >= 0; i-- {
		msg := m.snapshot.Messages[i]
		if !msg.Closed {
			if msg.StatusLine != "" {
				return msg.StatusLine
			}
			break
		}
	}
	return "Working..."
}

func (m *model) renderFooter() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.pendingApproval() {
		return footerStyle.Render("\n" + approvalStyle.Render("Approve tool calls? [y/n]") + "\n")
	}
	return footerStyle.Render("\n" + m.textInput.View() + "\n")
}
