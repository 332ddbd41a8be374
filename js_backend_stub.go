//go:build !js_eval

package sel

// NewJSDeriver is unavailable without the js_eval build tag.
func NewJSDeriver(opts ...DeriverOption) Deriver {
	return nil
}

func jsDeriverAvailable() bool { return false }
