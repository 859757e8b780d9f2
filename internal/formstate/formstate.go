package formstate

import (
	"encoding/json"

	"fe/types"

	"github.com/charmbracelet/log"
)

// StorageKey is the fixed key the form is persisted under.
const StorageKey = "replicate-ai-form"

// FormState is the user's last-entered generation parameters.
type FormState struct {
	Prompt      string `json:"prompt"`
	Model       string `json:"model"`
	AspectRatio string `json:"aspectRatio"`
}

func Defaults() FormState {
	return FormState{
		Model:       types.DefaultModel,
		AspectRatio: types.DefaultAspectRatio,
	}
}

// WithDefaults fills missing fields; the prompt defaults to empty.
func (f FormState) WithDefaults() FormState {
	d := Defaults()
	if f.Model == "" {
		f.Model = d.Model
	}
	if f.AspectRatio == "" {
		f.AspectRatio = d.AspectRatio
	}
	return f
}

// Load restores the persisted form. The bool reports whether a saved state
// was found; absent or malformed data yields the defaults and false.
func Load(s *Store) (FormState, bool) {
	raw, ok, err := s.Get(StorageKey)
	if err != nil {
		log.Warn("ignoring unreadable form state", "component", "formstate", "path", s.Path(), "err", err)
		return Defaults(), false
	}
	if !ok {
		return Defaults(), false
	}

	var state FormState
	if err := json.Unmarshal(raw, &state); err != nil {
		log.Warn("ignoring malformed form state", "component", "formstate", "err", err)
		return Defaults(), false
	}
	return state.WithDefaults(), true
}

func Save(s *Store, state FormState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.Set(StorageKey, raw)
}
