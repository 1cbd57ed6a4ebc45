package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed)
	okColor    = color.New(color.FgGreen)
	debugColor = color.New(color.FgHiBlack)
	boldColor  = color.New(color.Bold)
	titleColor = color.New(color.FgRed, color.Bold)
)

// Logger writes human-oriented CLI output: results to out, warnings and
// errors to errOut. In JSON mode all text output is dropped so that stdout
// carries only the JSON document.
type Logger struct {
	out      io.Writer
	errOut   io.Writer
	verbose  bool
	jsonMode bool
}

// NewLogger creates a Logger writing to stdout and stderr.
func NewLogger() *Logger {
	return NewLoggerWithWriters(os.Stdout, os.Stderr)
}

// NewLoggerWithWriters creates a Logger with explicit writers.
func NewLoggerWithWriters(out, errOut io.Writer) *Logger {
	return &Logger{out: out, errOut: errOut}
}

// DefaultLogger is used before a command has configured its own output.
var DefaultLogger = NewLogger()

// SetOutput replaces both writers.
func (l *Logger) SetOutput(out, errOut io.Writer) {
	l.out = out
	l.errOut = errOut
}

// SetNoColor turns color off for every fatih/color writer in the process.
func (l *Logger) SetNoColor(noColor bool) {
	color.NoColor = noColor
}

func (l *Logger) SetVerbose(verbose bool)   { l.verbose = verbose }
func (l *Logger) SetJSONMode(jsonMode bool) { l.jsonMode = jsonMode }
func (l *Logger) IsVerbose() bool           { return l.verbose }
func (l *Logger) IsJSONMode() bool          { return l.jsonMode }
func (l *Logger) Writer() io.Writer         { return l.out }
func (l *Logger) ErrWriter() io.Writer      { return l.errOut }

// emit writes one line unless JSON mode is on. A nil color writes plain text.
func (l *Logger) emit(w io.Writer, c *color.Color, prefix, format string, args []interface{}) {
	if l.jsonMode {
		return
	}
	msg := prefix + fmt.Sprintf(format, args...) + "\n"
	if c == nil {
		io.WriteString(w, msg)
		return
	}
	c.Fprint(w, msg)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.emit(l.out, nil, "", format, args)
}

func (l *Logger) Success(format string, args ...interface{}) {
	l.emit(l.out, okColor, "✓ ", format, args)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.emit(l.errOut, warnColor, "Warning: ", format, args)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.emit(l.errOut, errorColor, "Error: ", format, args)
}

// Debug prints only in verbose mode.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.emit(l.out, debugColor, "[DEBUG] ", format, args)
}

func (l *Logger) Bold(format string, args ...interface{}) {
	l.emit(l.out, boldColor, "", format, args)
}

func (l *Logger) Println(format string, args ...interface{}) {
	l.emit(l.out, nil, "", format, args)
}

// Print writes without a trailing newline.
func (l *Logger) Print(format string, args ...interface{}) {
	if l.jsonMode {
		return
	}
	fmt.Fprintf(l.out, format, args...)
}

// PrintJSON writes v as indented JSON to stdout, in any mode.
func (l *Logger) PrintJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(l.out, string(data))
	return err
}

// PrintErrorInfo prints a framed error block on stderr. The wrapped error
// chain is shown only in verbose mode.
func (l *Logger) PrintErrorInfo(info *ErrorInfo) {
	if info == nil || l.jsonMode {
		return
	}
	title := info.Title
	if title == "" {
		title = "Error"
	}

	fmt.Fprintln(l.errOut, RedSeparator())
	titleColor.Fprintf(l.errOut, "%s: %s\n", title, info.Message)
	for _, d := range info.Details {
		fmt.Fprintf(l.errOut, "  %s\n", d)
	}
	if info.Hint != "" {
		fmt.Fprintln(l.errOut)
		warnColor.Fprintf(l.errOut, "Hint: %s\n", info.Hint)
	}
	if l.verbose && info.Err != nil {
		debugColor.Fprintf(l.errOut, "[DEBUG] %+v\n", info.Err)
	}
	fmt.Fprintln(l.errOut, RedSeparator())
}

// PrintBlock prints a titled block, such as a signed transaction, framed by
// cyan rules.
func (l *Logger) PrintBlock(title, body string) {
	if l.jsonMode {
		return
	}
	fmt.Fprintln(l.out, CyanSeparator())
	boldColor.Fprintln(l.out, title)
	fmt.Fprintln(l.out, CyanSeparator())
	fmt.Fprintln(l.out, body)
	fmt.Fprintln(l.out, CyanSeparator())
}
