package sel

import "github.com/goliatone/go-selectors/pkg/observe"

// WithObserveHooks attaches selection event hooks to the configuration.
// Hooks are cloned and nil entries dropped to preserve immutability.
func WithObserveHooks(hooks observe.Hooks) Option {
	normalized := cloneObserveHooks(hooks)
	return func(cfg *selectorConfig) {
		cfg.observeHooks = normalized
	}
}

func cloneObserveHooks(hooks observe.Hooks) observe.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]observe.Hook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return observe.Hooks(normalized)
}
