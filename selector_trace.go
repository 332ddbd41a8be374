package sel

import (
	"encoding/json"
	"time"
)

// Trace captures how one selection resolved: whether the memo cell hit, and
// which argument positions of the most recent tuple differed when it missed.
type Trace struct {
	Selector string        `json:"selector"`
	Hit      bool          `json:"hit"`
	Changed  []int         `json:"changed,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated
// via ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
