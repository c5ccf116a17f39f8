package tui

import (
	"github.com/deepagents/deepchat/pkg/stream"
	"github.com/deepagents/deepchat/pkg/ws"
)

// Message types
// We define dedicated types to leverage Bubble Tea's type-based message routing.
// They remain unexported as they are internal to the TUI.
type (
	streamEventMsg struct{ event stream.Event }
	connStateMsg   struct{ state ws.State }
	infoMsg        struct{ text string }
	errorMsg       error
)
