// Package output renders command results as tables, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table", "":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format: %s (valid: table, json, yaml)", s)
	}
}

type (
	Formatter struct {
		Format    Format
		NoHeaders bool
		Quiet     bool
		Writer    io.Writer
	}

	// TableData is what table output renders. Structured formats print Value
	// instead when it is set, so they keep the original field types.
	TableData struct {
		Headers []string
		Rows    [][]string
		Value   any
	}
)

func NewFormatter(format Format, noHeaders, quiet bool, w io.Writer) *Formatter {
	return &Formatter{
		Format:    format,
		NoHeaders: noHeaders,
		Quiet:     quiet,
		Writer:    w,
	}
}

// Print writes data as JSON or YAML. Table output falls back to JSON.
func (f *Formatter) Print(data any) error {
	if f.Quiet {
		return nil
	}

	if f.Format == FormatYAML {
		return f.printYAML(data)
	}

	return f.printJSON(data)
}

func (f *Formatter) PrintTable(data TableData) error {
	if f.Quiet {
		return nil
	}

	if f.Format != FormatTable {
		if data.Value != nil {
			return f.Print(data.Value)
		}

		return f.Print(rowsAsMaps(data))
	}

	table := tablewriter.NewWriter(f.Writer)

	if !f.NoHeaders && len(data.Headers) > 0 {
		table.SetHeader(data.Headers)
	}

	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	table.AppendBulk(data.Rows)
	table.Render()

	return nil
}

// PrintMessage writes a human readable line. It is silent for structured
// formats so their output stays parseable.
func (f *Formatter) PrintMessage(format string, args ...any) {
	if f.Quiet || f.Format != FormatTable {
		return
	}

	_, _ = fmt.Fprintf(f.Writer, format+"\n", args...)
}

func (f *Formatter) printJSON(data any) error {
	encoder := json.NewEncoder(f.Writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(data)
}

func (f *Formatter) printYAML(data any) error {
	encoder := yaml.NewEncoder(f.Writer)
	encoder.SetIndent(2)

	if err := encoder.Encode(data); err != nil {
		return err
	}

	return encoder.Close()
}

func rowsAsMaps(data TableData) []map[string]string {
	rows := make([]map[string]string, len(data.Rows))

	for i, row := range data.Rows {
		rowMap := make(map[string]string, len(row))
		for j, cell := range row {
			if j < len(data.Headers) {
				rowMap[strings.ToLower(data.Headers[j])] = cell
			}
		}

		rows[i] = rowMap
	}

	return rows
}
