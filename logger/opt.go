package logger

import "log"

// A LoggerOptFn is a functional option configuring a TrailLogger when constructing a new one.
type LoggerOptFn func(*TrailLogger)

// WithEnv sets the environment TrailLogger is operating in.
func WithEnv(env string) func(*TrailLogger) {
	return func(l *TrailLogger) {
		l.env = env
	}
}

// WithLevel sets the log level TrailLogger uses.
func WithLevel(level LogLevel) func(*TrailLogger) {
	return func(l *TrailLogger) {
		l.ll = level
	}
}

// WithLogger sets the log.Logger TrailLogger uses.
func WithLogger(log *log.Logger) func(*TrailLogger) {
	return func(l *TrailLogger) {
		l.l = log
	}
}

// WithSkip sets the number of frames in the call stack
// to skip in order to log the desired file and line number
// of the calling code.
func WithSkip(skip int) func(*TrailLogger) {
	return func(l *TrailLogger) {
		l.skip = skip
	}
}
