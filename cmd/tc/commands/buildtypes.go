package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/tcapi/pkg/tcapi"
)

// NewBuildTypesCommand creates the buildtypes command group.
func NewBuildTypesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "buildtypes",
		Aliases: []string{"buildtype", "bt"},
		Short:   "Query build configurations",
	}

	cmd.AddCommand(newBuildTypesGetCommand())

	return cmd
}

func newBuildTypesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get BUILD_TYPE_ID",
		Short: "Show build configuration details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			buildType, err := client.BuildTypes().Get(cmd.Context(), tcapi.IDLocator(args[0]))
			if err != nil {
				return fmt.Errorf("failed to get build type: %w", err)
			}

			structured, err := writeStructured(cmd.OutOrStdout(), buildType)
			if structured || err != nil {
				return err
			}

			return renderTable(cmd.OutOrStdout(), []string{"Property", "Value"}, [][]string{
				{"ID", buildType.ID},
				{"Name", orNotAvailable(buildType.Name)},
				{"Project", orNotAvailable(buildType.ProjectName)},
				{"Project ID", orNotAvailable(buildType.ProjectID)},
				{"Templates", strconv.Itoa(buildType.Templates.Count)},
				{"Steps", strconv.Itoa(buildType.Steps.Count)},
				{"Triggers", strconv.Itoa(buildType.Triggers.Count)},
				{"Snapshot Dependencies", strconv.Itoa(buildType.SnapshotDependencies.Count)},
				{"Web URL", orNotAvailable(buildType.WebURL)},
			})
		},
	}
}
