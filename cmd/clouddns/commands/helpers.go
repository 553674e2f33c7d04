package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/clouddns/internal/constants"
)

// Common string constants used throughout the commands package.
const (
	// JSON formatting.
	defaultJSONIndent = "  "

	// Common values.
	Yes = "yes"
	No  = "no"
)

// outputFormat returns the requested output format. Without one, a terminal
// gets a table and anything else gets JSON.
func outputFormat(w io.Writer) (string, error) {
	format := strings.ToLower(viper.GetString("output"))

	switch format {
	case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
		return format, nil
	case "":
		if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
			return constants.FormatTable, nil
		}

		return constants.FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", constants.ErrInvalidOutputType, format)
	}
}

// table is the table rendition of a value.
type table struct {
	headers []string
	rows    [][]string
}

func (t *table) append(row ...string) {
	t.rows = append(t.rows, row)
}

// render writes value as JSON or YAML, or tab as a table.
func render(cmd *cobra.Command, value interface{}, tab *table) error {
	out := cmd.OutOrStdout()

	format, err := outputFormat(out)
	if err != nil {
		return err
	}

	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", defaultJSONIndent)

		return encoder.Encode(value)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(out)
		defer func() { _ = encoder.Close() }()

		return encoder.Encode(value)
	default:
		return renderTable(out, tab)
	}
}

func renderTable(out io.Writer, tab *table) error {
	if len(tab.rows) == 0 {
		_, _ = fmt.Fprintln(out, "No results found")

		return nil
	}

	writer := tablewriter.NewWriter(out)

	headers := make([]any, len(tab.headers))
	for i, header := range tab.headers {
		headers[i] = header
	}

	writer.Header(headers...)

	for _, row := range tab.rows {
		_ = writer.Append(row)
	}

	err := writer.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// propertyTable is a two-column table for a single resource.
func propertyTable() *table {
	return &table{headers: []string{"Property", "Value"}}
}

func truncate(value string) string {
	if len(value) <= constants.StringTruncationLimit {
		return value
	}

	return value[:constants.StringTruncationLimit-3] + "..."
}

func orNotAvailable(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return constants.None
	}

	return strings.Join(values, ", ")
}

func yesNo(value bool) string {
	if value {
		return Yes
	}

	return No
}

func title(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return cases.Title(language.English).String(value)
}

func itoa(value int) string {
	return strconv.Itoa(value)
}

// resolveZone returns the zone from the --zone flag or the config file.
func resolveZone() (string, error) {
	zone := viper.GetString("zone")
	if zone == "" {
		return "", constants.ErrZoneRequired
	}

	return zone, nil
}
