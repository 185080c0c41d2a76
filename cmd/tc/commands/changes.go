package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/tcapi/internal/constants"
	"github.com/fivetwenty-io/tcapi/pkg/tcapi"
)

// NewChangesCommand creates the changes command group.
func NewChangesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "changes",
		Aliases: []string{"change"},
		Short:   "Query VCS changes",
		Long:    "List the VCS changes of a build and inspect single changes",
	}

	cmd.AddCommand(newChangesListCommand())
	cmd.AddCommand(newChangesGetCommand())

	return cmd
}

func newChangesListCommand() *cobra.Command {
	var buildArg string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the changes of a build",
		RunE: func(cmd *cobra.Command, args []string) error {
			buildID, err := parseID(buildArg, constants.ErrInvalidBuildID)
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			changes, err := client.Changes().List(cmd.Context(), tcapi.BuildChangesLocator(buildID))
			if err != nil {
				return fmt.Errorf("failed to list changes: %w", err)
			}

			structured, err := writeStructured(cmd.OutOrStdout(), changes)
			if structured || err != nil {
				return err
			}

			rows := make([][]string, 0, len(changes))
			for _, change := range changes {
				rows = append(rows, []string{
					strconv.FormatInt(change.ID, 10),
					orNotAvailable(change.Version),
					orNotAvailable(change.Username),
					displayDate(change.Date),
				})
			}

			return renderTable(cmd.OutOrStdout(), []string{"ID", "Version", "Username", "Date"}, rows)
		},
	}

	cmd.Flags().StringVar(&buildArg, "build", "", "build id")
	_ = cmd.MarkFlagRequired("build")

	return cmd
}

func newChangesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get CHANGE_ID",
		Short: "Show change details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changeID, err := parseID(args[0], constants.ErrInvalidChangeID)
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			change, err := client.Changes().GetMetadata(cmd.Context(), tcapi.IDLocator(changeID))
			if err != nil {
				return fmt.Errorf("failed to get change: %w", err)
			}

			structured, err := writeStructured(cmd.OutOrStdout(), change)
			if structured || err != nil {
				return err
			}

			return renderTable(cmd.OutOrStdout(), []string{"Property", "Value"}, [][]string{
				{"ID", strconv.FormatInt(change.ID, 10)},
				{"Version", orNotAvailable(change.Version)},
				{"Username", orNotAvailable(change.Username)},
				{"Date", displayDate(change.Date)},
				{"Comment", orNotAvailable(change.Comment)},
				{"Files", strconv.Itoa(change.Files.Count)},
				{"Web URL", orNotAvailable(change.WebURL)},
			})
		},
	}
}
