package celeste

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// testStep represents a single action in an input script.
type testStep struct {
	Action string  `yaml:"action" json:"action"`
	Key    string  `yaml:"key,omitempty" json:"key,omitempty"`
	Button string  `yaml:"button,omitempty" json:"button,omitempty"`
	X      float64 `yaml:"x,omitempty" json:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty" json:"y,omitempty"`
	Frames int     `yaml:"frames,omitempty" json:"frames,omitempty"`
}

// testScript is the top-level structure of an input script.
type testScript struct {
	Steps []testStep `yaml:"steps" json:"steps"`
}

// TestRunner sequences injected input events across frames for automated
// headless runs. Attach it with InputManager.SetTestRunner.
//
// Supported actions: "key" (tap), "keydown", "keyup", "click", "press",
// "release", "move" and "wait".
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a YAML or JSON input script (JSON is valid YAML) and
// returns a TestRunner.
func LoadTestScript(data []byte) (*TestRunner, error) {
	var script testScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if err := validateStep(st); err != nil {
			return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

func validateStep(st testStep) error {
	switch st.Action {
	case "key", "keydown", "keyup":
		if _, err := ParseKey(st.Key); err != nil {
			return err
		}
	case "click", "press", "release", "move", "wait":
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	if st.Button != "" {
		if _, err := ParseMouseButton(st.Button); err != nil {
			return err
		}
	}
	return nil
}

// SetTestRunner attaches a TestRunner. Its step method runs at the start of
// every HandleInput.
func (m *InputManager) SetTestRunner(runner *TestRunner) {
	m.testRunner = runner
}

// Done reports whether all steps in the script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *TestRunner) step(m *InputManager) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(m.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	button, _ := ParseMouseButton(st.Button)
	switch st.Action {
	case "key":
		k, _ := ParseKey(st.Key)
		m.InjectKeyTap(k)
	case "keydown":
		k, _ := ParseKey(st.Key)
		m.InjectKeyDown(k)
	case "keyup":
		k, _ := ParseKey(st.Key)
		m.InjectKeyUp(k)
	case "click":
		m.InjectPress(st.X, st.Y, button)
		m.InjectRelease(st.X, st.Y, button)
	case "press":
		m.InjectPress(st.X, st.Y, button)
	case "release":
		m.InjectRelease(st.X, st.Y, button)
	case "move":
		m.InjectMove(st.X, st.Y)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(m.injectQueue) == 0 {
		r.done = true
	}
}
