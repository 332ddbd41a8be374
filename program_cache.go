package sel

// ProgramCache stores compiled derivation programs keyed by expression
// strings.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// WithProgramCache registers a program cache for expression derivers.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *selectorConfig) {
		cfg.programCache = cache
	}
}
