package generator

import (
	"fmt"
	"io"
	"strings"
)

const ruleIndentation = "    "

type outputWriter struct {
	w   io.Writer
	err error
}

func (w *outputWriter) write(format string, a ...any) {
	if w.err != nil {
		return
	}

	_, w.err = fmt.Fprintf(w.w, format, a...)
}

func (w *outputWriter) WriteBlockStart(selector string) {
	w.write("%s {\n", selector)
}

func (w *outputWriter) WriteRules(lines []string) {
	w.write("%s\n", strings.Join(lines, "\n"))
}

func (w *outputWriter) WriteBlockEnd() {
	w.write("}\n")
}

func (w *outputWriter) Err() error {
	return w.err
}

func ruleLine(property string, value []string) string {
	return fmt.Sprintf("%s%s: %s;", ruleIndentation, property, strings.Join(value, " "))
}

// selectorLines prefixes every comma-separated part of selector with parent. The
// commas stay at the end of their part, so "a,b" under " ul" becomes
// " ul a,\n ul b".
func selectorLines(parent, selector string) string {
	parts := strings.SplitAfter(selector, ",")
	if len(parts) > 1 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	for i, part := range parts {
		parts[i] = parent + " " + part
	}

	return strings.Join(parts, "\n")
}
