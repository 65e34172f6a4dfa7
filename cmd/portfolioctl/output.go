package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/tidwall/pretty"
	"golang.org/x/term"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
)

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// printer writes command output. Colors are used only on terminals.
type printer struct {
	out   io.Writer
	color bool
}

func newPrinter(out io.Writer) *printer {
	return &printer{
		out:   out,
		color: isTerminal(out) && os.Getenv("NO_COLOR") == "",
	}
}

func (p *printer) print(c *color.Color, prefix, format string, a ...any) {
	msg := prefix + fmt.Sprintf(format, a...)
	if p.color {
		c.Fprintln(p.out, msg)
		return
	}
	fmt.Fprintln(p.out, msg)
}

// Success prints a message prefixed with a checkmark.
func (p *printer) Success(format string, a ...any) {
	p.print(green, "✓ ", format, a...)
}

// Warning prints a highlighted message.
func (p *printer) Warning(format string, a ...any) {
	p.print(yellow, "! ", format, a...)
}

// Failure prints an error message.
func (p *printer) Failure(format string, a ...any) {
	p.print(red, "✗ ", format, a...)
}

// Info prints a plain line.
func (p *printer) Info(format string, a ...any) {
	fmt.Fprintf(p.out, format+"\n", a...)
}

// JSON pretty-prints raw JSON.
func (p *printer) JSON(raw []byte) {
	out := pretty.Pretty(raw)
	if p.color {
		out = pretty.Color(out, nil)
	}
	p.out.Write(out)
}

// Table prints rows aligned under headers.
func (p *printer) Table(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func confirmAction(in io.Reader, out io.Writer, prompt string, skipConfirm bool) bool {
	if skipConfirm {
		return true
	}

	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
		return answer == "y" || answer == "yes"
	}
	return false
}

func mustJSON(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
