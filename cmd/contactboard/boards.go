package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"contactboard/internal/domain"
)

func newBoardsCmd(withApp appRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boards",
		Short: "Manage boards",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List boards",
			Args:  cobra.NoArgs,
			RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
				data, err := a.repo.Load(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(data.Boards) == 0 {
					fmt.Fprintln(out, "No boards yet.")
					return nil
				}

				stats := data.Stats()
				fmt.Fprintf(out, "Total boards: %d  Total contacts: %d\n\n", stats.Boards, stats.Contacts)
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tCONTACTS")
				for _, b := range data.Boards {
					fmt.Fprintf(tw, "%s\t%s\t%d\n", b.ID, b.Name, len(b.Contacts))
				}
				return tw.Flush()
			}),
		},
		&cobra.Command{
			Use:   "create <name>",
			Short: "Create a board",
			Args:  cobra.MinimumNArgs(1),
			RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
				name := strings.TrimSpace(strings.Join(args, " "))
				if err := domain.ValidateBoardName(name); err != nil {
					return err
				}
				board, err := a.repo.CreateBoard(cmd.Context(), name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created board %q (id: %s)\n", board.Name, board.ID)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show a board and its contacts",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
				board, ok, err := a.repo.GetBoard(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !ok {
					return domain.BoardNotFound(args[0])
				}
				printBoard(cmd, board)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a board and all of its contacts",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
				if err := a.repo.DeleteBoard(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted board %s\n", args[0])
				return nil
			}),
		},
	)
	return cmd
}

func printBoard(cmd *cobra.Command, board domain.Board) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (id: %s)\n", board.Name, board.ID)
	if len(board.Contacts) == 0 {
		fmt.Fprintln(out, "No contacts yet.")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPOSITION\tCOMPANY\tLOCATION\tINTERESTS")
	for _, c := range board.Contacts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Position, c.Company, c.Location, c.Interests)
	}
	_ = tw.Flush()
}
