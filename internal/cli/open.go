package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"nearbuy-chat/internal/chatsync"
	"nearbuy-chat/internal/realtime"
)

const openHelp = `Type a message and press enter to send it.
  /read   mark the conversation read
  /inbox  show the inbox
  /quit   leave the room`

// NewOpenCommand creates the open command.
func NewOpenCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "open <room-id>",
		Short: "Open a conversation and chat interactively",
		Long: `Open a conversation: load its history, join the live channel and send what you type.

` + openHelp,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			roomID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || roomID <= 0 {
				return fmt.Errorf("invalid room id %q", args[0])
			}
			return runOpen(cmd, rootOpts, roomID)
		},
	}
}

func runOpen(cmd *cobra.Command, opts *RootOptions, roomID int64) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	sess, err := newSession(ctx, opts)
	if err != nil {
		return err
	}
	defer sess.Close()
	self := sess.me.ID
	logger := opts.logger.With("room_id", roomID)

	inbox := chatsync.NewInbox(self)
	if rows, err := sess.api.FetchRooms(ctx); err != nil {
		logger.Warn("inbox unavailable", "err", err)
	} else {
		summaries := make([]chatsync.Summary, 0, len(rows))
		for _, row := range rows {
			summaries = append(summaries, chatsync.SummaryFromModel(row, self))
		}
		inbox.Replace(summaries)
	}
	var other string
	if s, ok := inbox.Get(roomID); ok {
		other = s.OtherName
	}

	connOpts := realtime.OptionsFromConfig(opts.cfg, sess.api.Token(), self)
	connOpts.Logger = opts.logger
	conn, err := realtime.NewConn(connOpts)
	if err != nil {
		return err
	}
	conn.Start(ctx)
	defer conn.Close()

	waitCtx, cancel := context.WithTimeout(ctx, opts.cfg.HTTPTimeout)
	err = conn.WaitConnected(waitCtx)
	cancel()

	out := &lineWriter{w: cmd.OutOrStdout()}
	if err != nil {
		out.println("live channel unavailable, messages are sent over HTTP until it reconnects")
	}

	tr := newTranscript(self, other)
	incoming := make(chan struct{}, 1)
	room := chatsync.NewRoom(chatsync.RoomConfig{
		RoomID:  roomID,
		Self:    self,
		API:     sess.api,
		Channel: conn.Room(roomID),
		Logger:  opts.logger,
		Inbox:   inbox,
		OnChange: func(msgs []chatsync.Message) {
			lines, fromOther := tr.diff(msgs)
			out.println(lines...)
			if fromOther {
				select {
				case incoming <- struct{}{}:
				default:
				}
			}
		},
		OnError: func(err error) {
			out.println("! " + err.Error())
		},
	})
	defer room.Close()

	if err := room.Open(ctx); err != nil {
		return err
	}
	listing := room.Listing()
	out.println(fmt.Sprintf("== %s (%.2f) ==", listing.Title, listing.Price), openHelp)
	// the mark below covers everything seeded from history
	drain(incoming)
	markRead(ctx, room, out)

	return chatLoop(ctx, cmd.InOrStdin(), room, inbox, incoming, out)
}

func chatLoop(ctx context.Context, in io.Reader, room *chatsync.Room, inbox *chatsync.Inbox, incoming <-chan struct{}, out *lineWriter) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-incoming:
			markRead(ctx, room, out)
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			switch strings.TrimSpace(line) {
			case "":
			case "/quit":
				return nil
			case "/read":
				markRead(ctx, room, out)
			case "/inbox":
				var buf strings.Builder
				_ = writeInbox(&buf, inbox.Sorted())
				out.println(strings.TrimRight(buf.String(), "\n"))
			default:
				if _, err := room.Send(ctx, line); err != nil {
					out.println("! " + err.Error())
				}
			}
		}
	}
}

func markRead(ctx context.Context, room *chatsync.Room, out *lineWriter) {
	if err := room.MarkVisibleAsRead(ctx); err != nil {
		out.println("! " + err.Error())
	}
}

func drain(ch <-chan struct{}) {
	select {
	case <-ch:
	default:
	}
}

// lineWriter serialises output from the room loop and the input loop.
type lineWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lineWriter) println(lines ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range lines {
		fmt.Fprintln(l.w, line)
	}
}
