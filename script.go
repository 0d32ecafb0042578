package offcanvas

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScriptStep is one action of a render script.
type ScriptStep struct {
	Action string  `yaml:"action"` // capture, wait, zoom or debug
	Label  string  `yaml:"label,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
	Zoom   float64 `yaml:"zoom,omitempty"`
	On     bool    `yaml:"on,omitempty"`
}

type script struct {
	Steps []ScriptStep `yaml:"steps"`
}

// ScriptRunner plays a sequence of captures, waits and zoom changes against
// a Renderer, one step per tick, for automated visual checks.
type ScriptRunner struct {
	steps     []ScriptStep
	cursor    int
	waitCount int
	done      bool
}

// ParseScript parses a YAML render script.
func ParseScript(data []byte) (*ScriptRunner, error) {
	var s script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse render script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse render script: no steps")
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "capture", "wait", "zoom", "debug":
		default:
			return nil, fmt.Errorf("parse render script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// LoadScript reads a YAML render script from path.
func LoadScript(path string) (*ScriptRunner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading render script: %w", err)
	}
	return ParseScript(data)
}

// Done reports whether every step has run.
func (s *ScriptRunner) Done() bool { return s.done }

// Step advances the script by one tick.
func (s *ScriptRunner) Step(r *Renderer) error {
	if s.done {
		return nil
	}
	if s.waitCount > 0 {
		s.waitCount--
		return nil
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return nil
	}

	st := s.steps[s.cursor]
	s.cursor++

	var err error
	switch st.Action {
	case "capture":
		err = r.Capture(st.Label)
	case "zoom":
		r.SetZoom(st.Zoom)
	case "debug":
		r.SetDebugMode(st.On)
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this tick counts as one
		}
	}

	if s.cursor >= len(s.steps) && s.waitCount == 0 {
		s.done = true
	}
	return err
}
