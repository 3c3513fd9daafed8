// Package output prints command results for the CLI: status lines, tables,
// JSON and YAML. Colors are dropped automatically when the writer is not a
// terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// Formats accepted by --output.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	warnColor    = color.New(color.FgYellow)
	headerColor  = color.New(color.FgWhite, color.Bold)
)

// Printer writes results to out and diagnostics to errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer
}

func New(out, errOut io.Writer) *Printer {
	return &Printer{out: out, errOut: errOut}
}

func (p *Printer) Success(format string, a ...any) {
	successColor.Fprintf(p.out, "✓ "+format+"\n", a...)
}

func (p *Printer) Error(format string, a ...any) {
	errorColor.Fprintf(p.errOut, "✗ "+format+"\n", a...)
}

func (p *Printer) Info(format string, a ...any) {
	infoColor.Fprintf(p.out, format+"\n", a...)
}

func (p *Printer) Warn(format string, a ...any) {
	warnColor.Fprintf(p.errOut, "⚠ "+format+"\n", a...)
}

// Text writes s as is, followed by a newline.
func (p *Printer) Text(s string) {
	fmt.Fprintln(p.out, s)
}

func (p *Printer) JSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *Printer) YAML(v any) error {
	enc := yaml.NewEncoder(p.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Table collects rows and prints them as aligned columns.
type Table struct {
	headers []string
	rows    [][]string
}

func NewTable(headers []string) *Table {
	return &Table{
		headers: headers,
		rows:    [][]string{},
	}
}

func (t *Table) AddRow(row []string) {
	t.rows = append(t.rows, row)
}

func (p *Printer) Table(t *Table) {
	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = len(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	for i, header := range t.headers {
		headerColor.Fprintf(p.out, "%-*s  ", widths[i], header)
	}
	fmt.Fprintln(p.out)

	for i := range t.headers {
		fmt.Fprint(p.out, strings.Repeat("-", widths[i])+"  ")
	}
	fmt.Fprintln(p.out)

	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				fmt.Fprintf(p.out, "%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(p.out)
	}
}
