package core

// Logger is any service that can report application events.
// expected args: error, map[string]interface{}, Actor.
// An Actor among args identifies the person the entry is reported for.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
