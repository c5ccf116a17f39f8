package root

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/deepagents/deepchat/internal/tui"
	"github.com/deepagents/deepchat/pkg/sessionstore"
	"github.com/deepagents/deepchat/pkg/stream"
	"github.com/deepagents/deepchat/pkg/transcript"
	"github.com/deepagents/deepchat/pkg/workspace"
	"github.com/deepagents/deepchat/pkg/ws"
)

type runFlags struct {
	serverURL  string
	sessionID  string
	newSession bool
	noResume   bool
}

func newRunCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Connect to an agent server and chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.serverURL, "server", "http://localhost:8000", "Agent server base URL")
	cmd.Flags().StringVar(&flags.sessionID, "session", "", "Attach to a specific session id")
	cmd.Flags().BoolVar(&flags.newSession, "new-session", false, "Start a fresh session instead of resuming")
	cmd.Flags().BoolVar(&flags.noResume, "no-resume", false, "Do not persist or resume session ids")

	return cmd
}

func runChat(cmd *cobra.Command, flags runFlags) error {
	ctx := cmd.Context()

	// Resolve which session to attach to. Priority: explicit --session,
	// --new-session, then the persisted id from the previous run. With no
	// id at all the server mints one and sends it back as the first event.
	store, err := sessionstore.Load()
	if err != nil {
		return fmt.Errorf("loading session store: %w", err)
	}

	sessionID := flags.sessionID
	switch {
	case sessionID != "":
	case flags.newSession:
		sessionID = uuid.NewString()
	case !flags.noResume:
		sessionID = store.ID()
	}

	opts := []transcript.Option{transcript.WithSessionID(sessionID)}
	if !flags.noResume {
		opts = append(opts, transcript.WithSessionHook(func(id string) {
			if err := store.Set(id); err != nil {
				slog.Warn("Failed to persist session id", "error", err)
			}
		}))
	}
	reducer := transcript.New(opts...)

	if flags.newSession && !flags.noResume {
		if err := store.Set(sessionID); err != nil {
			slog.Warn("Failed to persist session id", "error", err)
		}
	}

	eventCh := make(chan stream.Event, 100)
	stateCh := make(chan ws.State, 16)

	client, err := ws.NewClient(flags.serverURL,
		ws.WithFrameHandler(func(ev stream.Event) {
			eventCh <- ev
		}),
		ws.WithStateHandler(func(s ws.State) {
			stateCh <- s
		}),
	)
	if err != nil {
		return fmt.Errorf("creating connection: %w", err)
	}
	defer client.Close()

	files, err := workspace.NewClient(flags.serverURL)
	if err != nil {
		return fmt.Errorf("creating workspace client: %w", err)
	}

	client.Connect(ctx)

	m := tui.NewModel(client, files, reducer, eventCh, stateCh)

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err = p.Run()
	return err
}
