package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"nearbuy-chat/internal/chatsync"
)

// NewInboxCommand creates the inbox command.
func NewInboxCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "inbox",
		Short:        "List conversations, active before sold, newest first",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer sess.Close()

			rows, err := sess.api.FetchRooms(cmd.Context())
			if err != nil {
				return err
			}

			inbox := chatsync.NewInbox(sess.me.ID)
			summaries := make([]chatsync.Summary, 0, len(rows))
			for _, row := range rows {
				summaries = append(summaries, chatsync.SummaryFromModel(row, sess.me.ID))
			}
			inbox.Replace(summaries)

			return writeInbox(cmd.OutOrStdout(), inbox.Sorted())
		},
	}
}

func writeInbox(w io.Writer, rows []chatsync.Summary) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "no conversations yet")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROOM\tLISTING\tWITH\tSTATUS\tUNREAD\tLAST")
	for _, s := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n",
			s.RoomID, s.ListingTitle, s.OtherName, s.Status, s.UnreadCount, lastLine(s))
	}
	return tw.Flush()
}

func lastLine(s chatsync.Summary) string {
	if s.LastMessageAt == nil {
		return "-"
	}
	text := s.LastMessage
	if r := []rune(text); len(r) > 40 {
		text = string(r[:39]) + "…"
	}
	return s.LastMessageAt.Local().Format(time.DateTime) + " " + text
}
