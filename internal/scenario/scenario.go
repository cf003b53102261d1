// Package scenario describes transition trees and the inputs driving them
// in YAML, and replays them on a manual loop.
//
// A scenario file:
//
//	name: nested-leave
//	show: true
//	root:
//	  name: dialog
//	  leave: transition duration-100
//	  children:
//	    - name: panel
//	      leave: transition duration-300
//	      leaveFrom: opacity-100
//	      leaveTo: opacity-0
//	      text: hello
//	steps:
//	  - show: false
//	  - settle: true
package scenario

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vango-transition/internal/errors"
	"github.com/vango-dev/vango-transition/pkg/render"
	"github.com/vango-dev/vango-transition/pkg/transition"
	"github.com/vango-dev/vango-transition/pkg/vdom"
)

// Scenario is a transition tree plus the steps that drive it.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	// FrameInterval overrides the simulated paint frame (e.g., "16ms").
	FrameInterval string `yaml:"frameInterval,omitempty"`

	Show   bool `yaml:"show"`
	Appear bool `yaml:"appear,omitempty"`

	Root  Node   `yaml:"root"`
	Steps []Step `yaml:"steps"`
}

// Node describes one transition node and its nested children.
type Node struct {
	Name string `yaml:"name"`
	As   string `yaml:"as,omitempty"`

	Class     string `yaml:"class,omitempty"`
	Enter     string `yaml:"enter,omitempty"`
	EnterFrom string `yaml:"enterFrom,omitempty"`
	EnterTo   string `yaml:"enterTo,omitempty"`
	Entered   string `yaml:"entered,omitempty"`
	Leave     string `yaml:"leave,omitempty"`
	LeaveFrom string `yaml:"leaveFrom,omitempty"`
	LeaveTo   string `yaml:"leaveTo,omitempty"`

	// Strategy is "unmount" (default) or "hidden".
	Strategy string `yaml:"strategy,omitempty"`

	// Text is rendered before the children.
	Text     string `yaml:"text,omitempty"`
	Children []Node `yaml:"children,omitempty"`
}

// Step is one input. Exactly one field is set.
type Step struct {
	Show    *bool  `yaml:"show,omitempty"`
	Frames  int    `yaml:"frames,omitempty"`
	Advance string `yaml:"advance,omitempty"`
	Settle  bool   `yaml:"settle,omitempty"`
	Fire    *Fire  `yaml:"fire,omitempty"`
	Remove  string `yaml:"remove,omitempty"`
}

// Fire dispatches a DOM event on a node's element.
type Fire struct {
	Node  string `yaml:"node"`
	Event string `yaml:"event"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E150").WithSubject(path).Wrap(err)
	}
	sc, err := Parse(data)
	if err != nil {
		if ve, ok := err.(*errors.VangoError); ok && ve.Subject == "" {
			ve.WithSubject(path)
		}
		return nil, err
	}
	return sc, nil
}

// Parse parses and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, errors.New("E150").WithDetail("Failed to parse scenario: " + err.Error())
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks node names are unique and every step is well formed.
func (sc *Scenario) Validate() error {
	if sc.FrameInterval != "" {
		if d, err := time.ParseDuration(sc.FrameInterval); err != nil || d <= 0 {
			return invalid("frameInterval %q is not a positive duration", sc.FrameInterval)
		}
	}

	names := make(map[string]bool)
	var walk func(n Node) error
	walk = func(n Node) error {
		if n.Name == "" {
			return invalid("every node needs a name")
		}
		if names[n.Name] {
			return invalid("node name %q is used twice", n.Name)
		}
		names[n.Name] = true
		if _, err := parseStrategy(n.Strategy); err != nil {
			return err
		}
		for _, c := range n.Children {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(sc.Root); err != nil {
		return err
	}

	for i, st := range sc.Steps {
		set := 0
		if st.Show != nil {
			set++
		}
		if st.Frames != 0 {
			set++
		}
		if st.Advance != "" {
			set++
			if d, err := time.ParseDuration(st.Advance); err != nil || d < 0 {
				return invalid("step %d: advance %q is not a duration", i+1, st.Advance)
			}
		}
		if st.Settle {
			set++
		}
		if st.Fire != nil {
			set++
			if !names[st.Fire.Node] {
				return invalid("step %d: unknown node %q", i+1, st.Fire.Node)
			}
			if st.Fire.Event == "" {
				return invalid("step %d: fire needs an event", i+1)
			}
		}
		if st.Remove != "" {
			set++
			if !names[st.Remove] || st.Remove == sc.Root.Name {
				return invalid("step %d: cannot remove %q", i+1, st.Remove)
			}
		}
		if set != 1 {
			return invalid("step %d must set exactly one action, got %d", i+1, set)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New("E150").WithDetail(fmt.Sprintf(format, args...))
}

func parseStrategy(s string) (render.Strategy, error) {
	switch s {
	case "", "unmount":
		return render.Unmount, nil
	case "hidden":
		return render.Hidden, nil
	}
	return 0, invalid("unknown strategy %q", s)
}

// props converts n into transition props. Hooks are attached by the
// runner.
func (n Node) props() transition.ChildProps {
	strategy, _ := parseStrategy(n.Strategy)
	return transition.ChildProps{
		Name:      n.Name,
		As:        n.As,
		Attrs:     vdom.Props{"id": n.Name},
		Class:     n.Class,
		Enter:     n.Enter,
		EnterFrom: n.EnterFrom,
		EnterTo:   n.EnterTo,
		Entered:   n.Entered,
		Leave:     n.Leave,
		LeaveFrom: n.LeaveFrom,
		LeaveTo:   n.LeaveTo,
		Strategy:  strategy,
	}
}
