package output

import (
	"strings"

	"github.com/fatih/color"
)

const separatorWidth = 60

// Separator returns the rule drawn around error and transaction blocks.
func Separator() string {
	return strings.Repeat("─", separatorWidth)
}

// RedSeparator is the rule used around error blocks.
func RedSeparator() string {
	return color.New(color.FgRed).Sprint(Separator())
}

// CyanSeparator is the rule used around informational blocks such as a
// signed transaction or an approval request.
func CyanSeparator() string {
	return color.New(color.FgCyan).Sprint(Separator())
}
