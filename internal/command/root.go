package command

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "tictactoe",
		Short: "Tic-tac-toe game server",
		Long: heredoc.Doc(`
			Hosts tic-tac-toe games for front ends over REST and WebSocket,
			keeping every game in Redis.
		`),
		Args: cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(Serve())
	root.AddCommand(Replay())

	return root
}
