package exec

// LoggingHook receives every unexpected failure, in both modes, whether or not
// the failure is returned to the caller. The error is always an *ExecuteError.
type LoggingHook interface {
	Log(err error)
}

// LoggingHookFunc adapts a function to LoggingHook.
type LoggingHookFunc func(err error)

func (f LoggingHookFunc) Log(err error) { f(err) }
