package logger

// LoggerInterface is the logging surface the pipeline depends on.
type LoggerInterface interface {
	Info(...any)
	Warn(...any)
	Error(...any)
	Debug(...any)

	Infof(string, ...any)
	Warnf(string, ...any)
	Errorf(string, ...any)
	Debugf(string, ...any)

	Infow(string, ...any)
	Warnw(string, ...any)
	Errorw(string, ...any)
	Debugw(string, ...any)

	With(...any) LoggerInterface
	SafeSync()
}
