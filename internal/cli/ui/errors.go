package ui

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/conduit-lang/kmeta/internal/annotation"
	kerrors "github.com/conduit-lang/kmeta/internal/errors"
)

// ErrorLevel is the severity a message is rendered with.
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions describes one rendered message.
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Cause        string
	Suggestions  []string
	Hint         string
	HelpCommands []string
	NoColor      bool
}

// FormatError renders a message such as:
//
//	❌ ANN001: Annotation 'a.b.DumpFuncton' is not supported by this session
//
//	   Did you mean: a.b.DumpFunction?
//
//	   → List supported annotations: kmeta query --help
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	var header, body *color.Color
	var symbol string
	switch opts.Level {
	case ErrorLevelWarning:
		header, body, symbol = color.New(color.FgYellow, color.Bold), color.New(color.FgYellow), "⚠️"
	case ErrorLevelInfo:
		header, body, symbol = color.New(color.FgCyan, color.Bold), color.New(color.FgCyan), "ℹ️"
	default:
		header, body, symbol = color.New(color.FgRed, color.Bold), color.New(color.FgRed), "❌"
	}
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)
	if opts.NoColor {
		for _, c := range []*color.Color{header, body, yellow, cyan} {
			c.DisableColor()
		}
	}

	if opts.Context != "" {
		header.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(opts.Context), opts.Problem)
	} else {
		header.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}
	if opts.Cause != "" {
		body.Fprintf(&b, "   Caused by: %s\n", opts.Cause)
	}
	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}
	if opts.Hint != "" {
		b.WriteString("\n")
		body.Fprintf(&b, "   %s\n", opts.Hint)
	}
	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}
	return b.String()
}

// WriteError writes FormatError(opts) to w.
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// FromError builds the options for err. Coded errors carry their code as
// context and their suggestion as hint; an unsupported annotation also
// gets the closest supported classes as suggestions.
func FromError(err error, supported []annotation.Class, noColor bool) ErrorOptions {
	opts := ErrorOptions{Problem: err.Error(), NoColor: noColor}

	var kerr *kerrors.Error
	if !stderrors.As(err, &kerr) {
		return opts
	}
	opts.Context = string(kerr.Code)
	opts.Problem = kerr.Message
	opts.Hint = kerr.Suggestion
	if cause := kerr.Unwrap(); cause != nil {
		opts.Cause = cause.Error()
	}
	switch kerr.Severity {
	case kerrors.SeverityWarning:
		opts.Level = ErrorLevelWarning
	case kerrors.SeverityInfo:
		opts.Level = ErrorLevelInfo
	}

	switch kerr.Code {
	case kerrors.ErrUnsupportedAnnotation:
		opts.Suggestions = SimilarClasses(annotation.Class(kerr.Subject), supported)
		opts.HelpCommands = []string{"List the session's units: kmeta dump"}
	case kerrors.ErrNoRound:
		opts.HelpCommands = []string{"Load a fixture first: kmeta query --fixture tree.yaml <annotation>"}
	}
	return opts
}

// FormatSuccess renders a green check line.
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message) + "\n"
}

// WriteSuccess writes FormatSuccess(message) to w.
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprint(w, FormatSuccess(message, noColor))
}

// Warning renders a warning without context.
func Warning(message string, noColor bool) string {
	return FormatError(ErrorOptions{Level: ErrorLevelWarning, Problem: message, NoColor: noColor})
}
