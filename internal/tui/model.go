package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/textinput"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/deepagents/deepchat/pkg/api"
	"github.com/deepagents/deepchat/pkg/stream"
	"github.com/deepagents/deepchat/pkg/transcript"
	"github.com/deepagents/deepchat/pkg/tui/subscription"
	"github.com/deepagents/deepchat/pkg/workspace"
	"github.com/deepagents/deepchat/pkg/ws"
)

// model represents the application state
type model struct {
	// TUI components
	chatViewport viewport.Model
	textInput    textinput.Model
	spinner      spinner.Model
	renderer     *glamour.TermRenderer

	// Content state
	snapshot    transcript.Snapshot
	chatContent string // rendered chat content
	connState   ws.State
	err         error

	// App state
	ready        bool
	width        int
	height       int
	chatHeight   int
	userScrolled bool // Track if user has manually scrolled
	working      bool // Track if the agent is actively working

	// Business logic
	reducer *transcript.Reducer
	client  *ws.Client
	files   *workspace.Client
	eventCh <-chan stream.Event
	stateCh <-chan ws.State
}

// NewModel creates and initializes a new model. Events and connection state
// transitions arrive on the two channels; the model applies each event to
// the reducer from the update loop, so the reducer needs no locking.
func NewModel(client *ws.Client, files *workspace.Client, reducer *transcript.Reducer, eventCh <-chan stream.Event, stateCh <-chan ws.State) *model {
	ti := textinput.New()
	ti.Placeholder = "Enter your message..."
	ti.Focus()
	ti.CharLimit = 0
	ti.Prompt = inputPromptStyle.Render("> ")
	ti.VirtualCursor = true

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))

	return &model{
		chatViewport: viewport.New(),
		textInput:    ti,
		spinner:      s,
		reducer:      reducer,
		client:       client,
		files:        files,
		eventCh:      eventCh,
		stateCh:      stateCh,
		snapshot:     reducer.Snapshot(),
	}
}

func (m *model) listenEvents() tea.Cmd {
	return subscription.FromChannel(m.eventCh, func(ev stream.Event) tea.Msg {
		return streamEventMsg{event: ev}
	})
}

func (m *model) listenState() tea.Cmd {
	return subscription.FromChannel(m.stateCh, func(s ws.State) tea.Msg {
		return connStateMsg{state: s}
	})
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.listenEvents(),
		m.listenState(),
	)
}

func (m *model) updateDimensions(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 1
	footerHeight := 3
	m.chatHeight = height - headerHeight - footerHeight

	m.chatViewport.SetWidth(width - 2)
	m.chatViewport.SetHeight(m.chatHeight - 2)
	m.chatViewport.Style = chatViewportStyle.
		Width(width).
		Height(m.chatHeight)

	m.textInput.SetWidth(width - 2)

	var err error
	m.renderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		m.err = err
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.updateDimensions(msg.Width, msg.Height)
		m.ready = true
		m.renderChatContent()
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "y", "Y":
			if m.pendingApproval() {
				m.resolveApprovals(true)
				return m, nil
			}
		case "n", "N":
			if m.pendingApproval() {
				m.resolveApprovals(false)
				return m, nil
			}
		case "enter":
			if strings.TrimSpace(m.textInput.Value()) == "" {
				return m, nil
			}
			return m, m.handleUserInput()
		}

	case streamEventMsg:
		m.applyEvent(msg.event)
		return m, m.listenEvents()

	case connStateMsg:
		m.connState = msg.state
		if msg.state == ws.Disconnected {
			m.working = false
		}
		return m, m.listenState()

	case infoMsg:
		m.snapshot = m.reducer.AppendSystemMessage(msg.text)
		m.renderChatContent()
		m.scrollToBottom()
		return m, nil

	case errorMsg:
		m.err = error(msg)
		return m, nil

	case spinner.TickMsg:
		var spinnerCmd tea.Cmd
		m.spinner, spinnerCmd = m.spinner.Update(msg)
		return m, spinnerCmd
	}

	// Handle viewport updates and track user scrolling
	prevChatY := m.chatViewport.YOffset

	var vpCmd tea.Cmd
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	if m.chatViewport.YOffset != prevChatY {
		maxScroll := max(len(strings.Split(m.chatContent, "\n"))-m.chatViewport.Height(), 0)
		m.userScrolled = m.chatViewport.YOffset < maxScroll
	}
	if vpCmd != nil {
		cmds = append(cmds, vpCmd)
	}

	var tiCmd tea.Cmd
	m.textInput, tiCmd = m.textInput.Update(msg)
	if tiCmd != nil {
		cmds = append(cmds, tiCmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *model) applyEvent(ev stream.Event) {
	m.snapshot = m.reducer.Apply(ev)

	switch ev.(type) {
	case *stream.StartEvent:
		m.working = true
	case *stream.DoneEvent, *stream.ErrorEvent:
		m.working = false
	}

	m.renderChatContent()
	if !m.userScrolled {
		m.scrollToBottom()
	}
}

func (m *model) pendingApproval() bool {
	return m.reducer.PendingApprovals() != nil
}

func (m *model) resolveApprovals(approved bool) {
	resp, ok := m.reducer.ResolveApprovals(approved)
	if !ok {
		return
	}
	if err := m.client.Send(resp); err != nil {
		m.snapshot = m.reducer.AppendSystemMessage("Failed to send approval decision. Check the connection and try again.")
	} else {
		m.snapshot = m.reducer.Snapshot()
	}
	m.renderChatContent()
	m.scrollToBottom()
}

// handleUserInput processes user input and returns appropriate commands
func (m *model) handleUserInput() tea.Cmd {
	input := strings.TrimSpace(m.textInput.Value())
	m.textInput.Reset()

	if strings.HasPrefix(input, "/") {
		return m.handleCommand(input)
	}

	m.snapshot = m.reducer.AppendUserMessage(input)
	m.userScrolled = false

	if err := m.client.Send(api.ChatRequest{Message: input, SessionID: m.reducer.SessionID()}); err != nil {
		if errors.Is(err, ws.ErrNotConnected) {
			m.snapshot = m.reducer.AppendSystemMessage("Not connected. The message was not sent.")
		} else {
			m.snapshot = m.reducer.AppendSystemMessage("Failed to send message: " + err.Error())
		}
	}

	m.renderChatContent()
	m.scrollToBottom()
	return nil
}

// handleCommand dispatches slash commands against the workspace API.
func (m *model) handleCommand(input string) tea.Cmd {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)
	sessionID := m.reducer.SessionID()

	switch cmd {
	case "/quit":
		return tea.Quit

	case "/files":
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			listing, err := m.files.ListFiles(ctx, sessionID)
			if err != nil {
				return errorMsg(err)
			}
			return infoMsg{text: formatListing(listing)}
		}

	case "/upload":
		if arg == "" {
			return func() tea.Msg { return infoMsg{text: "Usage: /upload <local-path>"} }
		}
		return func() tea.Msg {
			f, err := os.Open(arg)
			if err != nil {
				return errorMsg(err)
			}
			defer f.Close()
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			uploaded, err := m.files.Upload(ctx, sessionID, filepath.Base(arg), f)
			if err != nil {
				return errorMsg(err)
			}
			return infoMsg{text: fmt.Sprintf("Uploaded %s", uploaded.Filename)}
		}

	case "/reset":
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := m.files.Reset(ctx, sessionID); err != nil {
				return errorMsg(err)
			}
			return infoMsg{text: "Workspace reset."}
		}

	default:
		return func() tea.Msg {
			return infoMsg{text: "Unknown command. Available: /files, /upload <path>, /reset, /quit"}
		}
	}
}

func formatListing(listing *api.FileListing) string {
	var b strings.Builder
	b.WriteString("Workspace files:\n")
	if len(listing.Uploads) == 0 && len(listing.Workspace) == 0 {
		b.WriteString("  (empty)")
		return b.String()
	}
	if len(listing.Uploads) > 0 {
		b.WriteString("  uploads:\n")
		writeTree(&b, workspace.BuildTree(listing.Uploads), 2)
	}
	if len(listing.Workspace) > 0 {
		b.WriteString("  workspace:\n")
		writeTree(&b, workspace.BuildTree(listing.Workspace), 2)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeTree(b *strings.Builder, nodes []*workspace.Node, depth int) {
	for _, node := range nodes {
		b.WriteString(strings.Repeat("  ", depth))
		if node.IsDir {
			b.WriteString(node.Name + "/\n")
			writeTree(b, node.Children, depth+1)
		} else {
			b.WriteString(node.Name + "\n")
		}
	}
}

func (m *model) scrollToBottom() {
	m.chatViewport.GotoBottom()
	m.userScrolled = false
}
