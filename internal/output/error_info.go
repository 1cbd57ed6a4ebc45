package output

// ErrorInfo describes a failure presented to the user.
type ErrorInfo struct {
	Title   string   // Short heading (defaults to "Error")
	Message string   // User-facing message
	Hint    string   // Recovery suggestion, if any
	Details []string // Extra lines such as tx hash or codespace
	Err     error    // Underlying error, shown in verbose mode
}
