package sel

import "time"

// SelectionLogEvent describes one selection or derivation for logging. For
// plain selectors Engine and Expr stay empty; for derivations Hit reflects
// the derivation memo cell.
type SelectionLogEvent struct {
	Selector string
	Engine   string
	Expr     string
	Hit      bool
	Duration time.Duration
	Err      error
}

// SelectionLogger records selection events.
type SelectionLogger interface {
	LogSelection(SelectionLogEvent)
}

// SelectionLoggerFunc adapts a function to SelectionLogger.
type SelectionLoggerFunc func(SelectionLogEvent)

func (f SelectionLoggerFunc) LogSelection(event SelectionLogEvent) {
	if f != nil {
		f(event)
	}
}

// discardSelections is the default logger; it drops every event.
var discardSelections SelectionLogger = SelectionLoggerFunc(func(SelectionLogEvent) {})

// WithSelectionLogger attaches a selection logger to selectors and views.
func WithSelectionLogger(logger SelectionLogger) Option {
	return func(cfg *selectorConfig) {
		if logger == nil {
			logger = discardSelections
		}
		cfg.logger = logger
	}
}
