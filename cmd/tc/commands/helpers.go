package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/tcapi/internal/constants"
	"github.com/fivetwenty-io/tcapi/pkg/tcapi"
	"github.com/fivetwenty-io/tcapi/pkg/tcclient"
)

// defaultJSONIndent is the indent used for JSON output.
const defaultJSONIndent = "  "

// CreateClient builds a client from the effective configuration: flags,
// TEAMCITY_* environment variables and the config file, in that order.
func CreateClient() (tcapi.Client, error) {
	host := viper.GetString("host")
	if host == "" {
		return nil, constants.ErrNoHostConfigured
	}

	concurrency := viper.GetInt("concurrency")
	if concurrency < 0 {
		return nil, constants.ErrInvalidConcurrency
	}

	config := &tcapi.Config{
		Host:                 host,
		Token:                viper.GetString("token"),
		APIVersion:           viper.GetString("api-version"),
		HydrationConcurrency: concurrency,
	}

	if verbose() {
		config.Logger = NewStderrLogger()
		config.Debug = true
	}

	client, err := tcclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

func verbose() bool {
	return viper.GetBool("verbose")
}

// outputFormat returns the validated --output value.
func outputFormat() (string, error) {
	output := viper.GetString("output")
	if output == "" {
		return constants.FormatTable, nil
	}

	switch output {
	case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
		return output, nil
	default:
		return "", fmt.Errorf("%w: %s", constants.ErrInvalidOutput, output)
	}
}

// writeStructured writes value as JSON or YAML. It reports false for table
// output so the caller can render its own table.
func writeStructured(out io.Writer, value interface{}) (bool, error) {
	format, err := outputFormat()
	if err != nil {
		return true, err
	}

	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", defaultJSONIndent)

		return true, encoder.Encode(value)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(out)

		return true, encoder.Encode(value)
	default:
		return false, nil
	}
}

func renderTable(out io.Writer, header []string, rows [][]string) error {
	columns := make([]any, 0, len(header))
	for _, column := range header {
		columns = append(columns, column)
	}

	table := tablewriter.NewWriter(out)
	table.Header(columns...)

	for _, row := range rows {
		_ = table.Append(row)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// parseID parses a numeric TeamCity id argument.
func parseID(value string, sentinel error) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w: %q", sentinel, value)
	}

	return id, nil
}

// displayDate renders a TeamCity date in local time, or N/A.
func displayDate(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	parsed, err := tcapi.ParseDate(value)
	if err != nil {
		return value
	}

	return parsed.Local().Format(constants.DisplayTimeFormat)
}

func orNotAvailable(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

// parseSince accepts a TeamCity date or a Go duration relative to now.
func parseSince(value string, now time.Time) (time.Time, error) {
	duration, durationErr := time.ParseDuration(value)
	if durationErr == nil {
		return now.Add(-duration), nil
	}

	parsed, err := tcapi.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing --since: %w", err)
	}

	return parsed, nil
}

// StderrLogger writes leveled log lines to stderr.
type StderrLogger struct {
	out io.Writer
}

// NewStderrLogger creates a logger writing to os.Stderr.
func NewStderrLogger() *StderrLogger {
	return &StderrLogger{out: os.Stderr}
}

func (l *StderrLogger) Debug(msg string, fields map[string]interface{}) {
	l.log("DEBUG", msg, fields)
}

func (l *StderrLogger) Info(msg string, fields map[string]interface{}) {
	l.log("INFO", msg, fields)
}

func (l *StderrLogger) Warn(msg string, fields map[string]interface{}) {
	l.log("WARN", msg, fields)
}

func (l *StderrLogger) Error(msg string, fields map[string]interface{}) {
	l.log("ERROR", msg, fields)
}

func (l *StderrLogger) log(level, msg string, fields map[string]interface{}) {
	data, err := json.Marshal(fields)
	if err != nil || len(fields) == 0 {
		_, _ = fmt.Fprintf(l.out, "[%s] %s\n", level, msg)

		return
	}

	_, _ = fmt.Fprintf(l.out, "[%s] %s %s\n", level, msg, data)
}
