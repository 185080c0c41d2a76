package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/tcapi/internal/constants"
	"github.com/fivetwenty-io/tcapi/internal/publish"
	"github.com/fivetwenty-io/tcapi/pkg/tcapi"
)

// BuildFilter holds the build list flags.
type BuildFilter struct {
	BuildType       string
	Project         string
	Branch          string
	Status          string
	State           string
	Since           string
	Count           int
	NoDefaultFilter bool
	NoPaginate      bool
	Extra           []string
}

func (f *BuildFilter) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.BuildType, "build-type", "", "build configuration id")
	flags.StringVar(&f.Project, "project", "", "project id, including subprojects")
	flags.StringVar(&f.Branch, "branch", "", "branch name")
	flags.StringVar(&f.Status, "status", "", "build status (SUCCESS, FAILURE, UNKNOWN)")
	flags.StringVar(&f.State, "state", "", "build state (queued, running, finished)")
	flags.StringVar(&f.Since, "since", "", "builds started after a TeamCity date (20240131T154501+0000) or a duration (24h)")
	flags.IntVar(&f.Count, "count", 0, "maximum builds per page")
	flags.BoolVar(&f.NoDefaultFilter, "no-default-filter", false, "include personal, canceled and failed-to-start builds")
	flags.BoolVar(&f.NoPaginate, "no-paginate", false, "only fetch the first page")
	flags.StringArrayVar(&f.Extra, "locator", nil, "additional locator dimension as key=value (repeatable)")
}

// Locator compiles the filter flags into a build locator. Dimensions are
// added in flag declaration order followed by --locator pairs.
func (f *BuildFilter) Locator(now time.Time) (tcapi.Locator, error) {
	locator := tcapi.Locator{}

	if f.BuildType != "" {
		locator = locator.With("buildType", tcapi.IDLocator(f.BuildType))
	}

	if f.Project != "" {
		locator = locator.With("affectedProject", tcapi.IDLocator(f.Project))
	}

	if f.Branch != "" {
		locator = locator.With("branch", tcapi.Locator{}.With("name", f.Branch))
	}

	if f.Status != "" {
		locator = locator.With("status", f.Status)
	}

	if f.State != "" {
		locator = locator.With("state", f.State)
	}

	if f.Since != "" {
		since, err := parseSince(f.Since, now)
		if err != nil {
			return nil, err
		}

		locator = locator.With("sinceDate", since)
	}

	if f.Count > 0 {
		locator = locator.With("count", f.Count)
	}

	if f.NoDefaultFilter {
		locator = locator.With("defaultFilter", false)
	}

	return AppendLocatorPairs(locator, f.Extra)
}

// ListOptions returns the pagination options selected by the flags.
func (f *BuildFilter) ListOptions() *tcapi.ListOptions {
	if f.NoPaginate {
		return &tcapi.ListOptions{}
	}

	return tcapi.DefaultListOptions()
}

// NewBuildsCommand creates the builds command group.
func NewBuildsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "builds",
		Aliases: []string{"build", "b"},
		Short:   "Query builds",
		Long:    "List and inspect TeamCity builds, their snapshot dependencies and changes",
	}

	cmd.AddCommand(newBuildsListCommand())
	cmd.AddCommand(newBuildsGetCommand())
	cmd.AddCommand(newBuildsDepsCommand())
	cmd.AddCommand(newBuildsHydrateCommand())

	return cmd
}

func newBuildsListCommand() *cobra.Command {
	filter := &BuildFilter{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List builds",
		Long:  "List builds matching the given filters, following every page unless --no-paginate is set",
		RunE: func(cmd *cobra.Command, args []string) error {
			locator, err := filter.Locator(time.Now())
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			builds, err := client.Builds().List(cmd.Context(), locator, filter.ListOptions())
			if err != nil {
				return fmt.Errorf("failed to list builds: %w", err)
			}

			return writeBuilds(cmd, builds)
		},
	}

	filter.register(cmd)

	return cmd
}

func newBuildsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get BUILD_ID",
		Short: "Show build details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buildID, err := parseID(args[0], constants.ErrInvalidBuildID)
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			build, err := client.Builds().GetMetadata(cmd.Context(), tcapi.IDLocator(buildID))
			if err != nil {
				return fmt.Errorf("failed to get build: %w", err)
			}

			structured, err := writeStructured(cmd.OutOrStdout(), build)
			if structured || err != nil {
				return err
			}

			changes := constants.NotAvailable
			if build.Changes != nil {
				changes = strconv.Itoa(build.Changes.Count)
			}

			buildType := build.BuildTypeID
			if build.BuildType != nil && build.BuildType.Name != "" {
				buildType = fmt.Sprintf("%s (%s)", build.BuildType.Name, build.BuildTypeID)
			}

			return renderTable(cmd.OutOrStdout(), []string{"Property", "Value"}, [][]string{
				{"ID", strconv.FormatInt(build.ID, 10)},
				{"Number", orNotAvailable(build.Number)},
				{"Build Type", orNotAvailable(buildType)},
				{"Branch", orNotAvailable(build.BranchName)},
				{"Status", orNotAvailable(build.Status)},
				{"State", orNotAvailable(build.State)},
				{"Status Text", orNotAvailable(build.StatusText)},
				{"Queued", displayDate(build.QueuedDate)},
				{"Started", displayDate(build.StartDate)},
				{"Finished", displayDate(build.FinishDate)},
				{"Changes", changes},
				{"Web URL", orNotAvailable(build.WebURL)},
			})
		},
	}
}

func newBuildsDepsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deps BUILD_ID",
		Short: "List snapshot dependency builds",
		Long:  "List every build the given build depends on through snapshot dependencies, whatever its status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buildID, err := parseID(args[0], constants.ErrInvalidBuildID)
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			builds, err := client.Builds().ListSnapshotDependencies(cmd.Context(), buildID)
			if err != nil {
				return fmt.Errorf("failed to list snapshot dependencies: %w", err)
			}

			return writeBuilds(cmd, builds)
		},
	}
}

func newBuildsHydrateCommand() *cobra.Command {
	var (
		filter      = &BuildFilter{}
		bestEffort  bool
		natsURL     string
		natsSubject string
	)

	cmd := &cobra.Command{
		Use:   "hydrate",
		Short: "List builds with full metadata and changes",
		Long: `List builds matching the given filters and resolve, for each one, its full
metadata and the full record of every change. With --nats-url the hydrated
builds are also published to NATS, one message per build.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if natsURL != "" && natsSubject == "" {
				return constants.ErrNATSSubjectRequired
			}

			locator, err := filter.Locator(time.Now())
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			builds, err := client.Builds().List(cmd.Context(), locator, filter.ListOptions())
			if err != nil {
				return fmt.Errorf("failed to list builds: %w", err)
			}

			opts := &tcapi.HydrationOptions{Policy: tcapi.JoinFailFast}
			if bestEffort {
				opts.Policy = tcapi.JoinBestEffort
			}

			hydrated, joinErr := client.Builds().HydrateWithChanges(cmd.Context(), builds, opts)
			if joinErr != nil && !bestEffort {
				return fmt.Errorf("failed to hydrate builds: %w", joinErr)
			}

			if natsURL != "" {
				err = publishBuilds(cmd.Context(), natsURL, natsSubject, hydrated)
				if err != nil {
					return err
				}
			}

			err = writeHydratedBuilds(cmd, hydrated)
			if err != nil {
				return err
			}

			return reportJoinFailures(cmd, joinErr)
		},
	}

	filter.register(cmd)
	cmd.Flags().BoolVar(&bestEffort, "best-effort", false, "report builds that fail to hydrate instead of failing")
	cmd.Flags().StringVar(&natsURL, "nats-url", "", "NATS server URL to publish hydrated builds to")
	cmd.Flags().StringVar(&natsSubject, "nats-subject", "", "NATS subject for hydrated builds")

	return cmd
}

func publishBuilds(ctx context.Context, url, subject string, builds []tcapi.BuildMetadataWithChangeMetadata) error {
	var logger tcapi.Logger
	if verbose() {
		logger = NewStderrLogger()
	}

	publisher, err := publish.Connect(publish.Config{URL: url, Subject: subject, Name: "tc"}, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer publisher.Close()

	err = publisher.PublishBuilds(ctx, builds)
	if err != nil {
		return fmt.Errorf("failed to publish builds: %w", err)
	}

	return nil
}

func reportJoinFailures(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}

	var joinErr *tcapi.JoinError
	if !errors.As(err, &joinErr) {
		return err
	}

	for _, failure := range joinErr.Failures {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: build %d could not be hydrated: %v\n", failure.BuildID, failure.Err)
	}

	return nil
}

func writeBuilds(cmd *cobra.Command, builds []tcapi.Build) error {
	structured, err := writeStructured(cmd.OutOrStdout(), builds)
	if structured || err != nil {
		return err
	}

	rows := make([][]string, 0, len(builds))
	for _, build := range builds {
		rows = append(rows, []string{
			strconv.FormatInt(build.ID, 10),
			orNotAvailable(build.BuildTypeID),
			orNotAvailable(build.Number),
			orNotAvailable(build.Status),
			orNotAvailable(build.State),
			orNotAvailable(build.BranchName),
		})
	}

	return renderTable(cmd.OutOrStdout(), []string{"ID", "Build Type", "Number", "Status", "State", "Branch"}, rows)
}

func writeHydratedBuilds(cmd *cobra.Command, builds []tcapi.BuildMetadataWithChangeMetadata) error {
	structured, err := writeStructured(cmd.OutOrStdout(), builds)
	if structured || err != nil {
		return err
	}

	rows := make([][]string, 0, len(builds))
	for _, build := range builds {
		authors := constants.NotAvailable
		if len(build.Changes) > 0 {
			authors = build.Changes[0].Username
		}

		rows = append(rows, []string{
			strconv.FormatInt(build.ID, 10),
			orNotAvailable(build.BuildTypeID),
			orNotAvailable(build.Number),
			orNotAvailable(build.Status),
			displayDate(build.FinishDate),
			strconv.Itoa(len(build.Changes)),
			orNotAvailable(authors),
		})
	}

	return renderTable(cmd.OutOrStdout(),
		[]string{"ID", "Build Type", "Number", "Status", "Finished", "Changes", "Latest Author"}, rows)
}
