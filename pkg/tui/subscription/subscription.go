// Package subscription bridges external event sources into the TUI.
//
// A subscription converts an external source (a channel fed by the
// connection's reader goroutine, for example) into a tea.Cmd producing
// tea.Msg values, which the Update function handles like any other message.
// To keep listening, re-subscribe after handling each message.
package subscription

import tea "github.com/charmbracelet/bubbletea/v2"

// FromChannel creates a tea.Cmd that waits for a value from the channel
// and converts it to a tea.Msg using the provided function.
//
// The returned Cmd blocks until a value is received or the channel is closed.
// When the channel is closed, it returns nil (no message).
func FromChannel[T any](ch <-chan T, toMsg func(T) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		val, ok := <-ch
		if !ok {
			return nil
		}
		return toMsg(val)
	}
}
