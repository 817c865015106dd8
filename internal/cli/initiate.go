package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"nearbuy-chat/internal/api"
)

// NewInitiateCommand creates the initiate command.
func NewInitiateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "initiate <listing-id>",
		Short:        "Start (or find) the conversation with the seller of a listing",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			listingID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid listing id %q", args[0])
			}

			sess, err := newSession(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer sess.Close()

			resp, err := sess.api.InitiateRoom(cmd.Context(), listingID)
			if errors.Is(err, api.ErrSelfConversation) {
				return errors.New("this is your own listing; buyers start conversations")
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "room %d: %s (%.2f)\n", resp.RoomID, resp.ListingTitle, resp.ListingPrice)
			return nil
		},
	}
}
