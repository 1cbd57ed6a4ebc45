package output

// Notifier is the part of Logger used by packages that only report side
// notes, such as the config loader warning about unknown keys.
type Notifier interface {
	Warn(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

var _ Notifier = (*Logger)(nil)
