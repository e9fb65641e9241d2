package rehearsal

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/waypoint/pkg/ui"
)

// Op names a timeline event.
type Op string

const (
	OpOpenWindow  Op = "open-window"
	OpCloseWindow Op = "close-window"
	OpAttachScene Op = "attach-scene"
	OpAdd         Op = "add"
	OpRemove      Op = "remove"
	OpHide        Op = "hide"
	OpShow        Op = "show"
	OpMove        Op = "move"
	OpNext        Op = "next"
	OpBack        Op = "back"
	OpAbort       Op = "abort"
)

// Script is a scene plus a timeline of events.
type Script struct {
	Name     string        `yaml:"name"`
	Windows  []WindowSpec  `yaml:"windows"`
	Timeline []Event       `yaml:"timeline"`
	Until    time.Duration `yaml:"until"` // Zero runs DefaultTail past the last event
}

// WindowSpec declares a window. Windows start open unless Closed is set.
type WindowSpec struct {
	ID      string       `yaml:"id"`
	Title   string       `yaml:"title"`
	Main    bool         `yaml:"main"`
	Focused bool         `yaml:"focused"`
	Closed  bool         `yaml:"closed"`
	Scene   *ElementSpec `yaml:"scene"`
}

// ElementSpec declares an element tree. An element with Content is a scroll pane
// whose own bounds are the viewport.
type ElementSpec struct {
	ID       string        `yaml:"id"`
	Kind     string        `yaml:"kind"`
	Text     string        `yaml:"text"`
	Classes  []string      `yaml:"classes"`
	Hidden   bool          `yaml:"hidden"`
	Bounds   ui.Bounds     `yaml:"bounds"`
	Content  *ui.Bounds    `yaml:"content"`
	Children []ElementSpec `yaml:"children"`
}

// Event is one timeline entry. Which fields apply depends on Op.
type Event struct {
	At      time.Duration `yaml:"at"`
	Op      Op            `yaml:"op"`
	Window  string        `yaml:"window"`  // open-window, close-window, attach-scene
	Target  string        `yaml:"target"`  // remove, hide, show, move
	Parent  string        `yaml:"parent"`  // add
	Element *ElementSpec  `yaml:"element"` // add, attach-scene
	DX      float64       `yaml:"dx"`
	DY      float64       `yaml:"dy"`
}

// LoadScript reads and validates a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScript decodes and validates a YAML script. Unknown fields are rejected.
func ParseScript(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks identifiers and references without running anything.
func (s *Script) Validate() error {
	windows := make(map[string]bool)
	elements := make(map[string]bool)

	var collect func(where string, e *ElementSpec) error
	collect = func(where string, e *ElementSpec) error {
		if e.ID == "" {
			return fmt.Errorf("%s: element without id", where)
		}
		if elements[e.ID] {
			return fmt.Errorf("%s: duplicate element id %q", where, e.ID)
		}
		elements[e.ID] = true
		for i := range e.Children {
			if err := collect(where, &e.Children[i]); err != nil {
				return err
			}
		}
		return nil
	}

	for i, w := range s.Windows {
		where := fmt.Sprintf("windows[%d]", i)
		if w.ID == "" {
			return fmt.Errorf("%s: window without id", where)
		}
		if windows[w.ID] {
			return fmt.Errorf("%s: duplicate window id %q", where, w.ID)
		}
		windows[w.ID] = true
		if w.Scene != nil {
			if err := collect(where, w.Scene); err != nil {
				return err
			}
		}
	}
	for i := range s.Timeline {
		if e := s.Timeline[i].Element; e != nil {
			if err := collect(fmt.Sprintf("timeline[%d]", i), e); err != nil {
				return err
			}
		}
	}

	for i, ev := range s.Timeline {
		where := fmt.Sprintf("timeline[%d]", i)
		if ev.At < 0 {
			return fmt.Errorf("%s: negative time %s", where, ev.At)
		}
		switch ev.Op {
		case OpOpenWindow, OpCloseWindow:
			if !windows[ev.Window] {
				return fmt.Errorf("%s: unknown window %q", where, ev.Window)
			}
		case OpAttachScene:
			if !windows[ev.Window] {
				return fmt.Errorf("%s: unknown window %q", where, ev.Window)
			}
			if ev.Element == nil {
				return fmt.Errorf("%s: attach-scene needs an element", where)
			}
		case OpAdd:
			if !elements[ev.Parent] {
				return fmt.Errorf("%s: unknown parent %q", where, ev.Parent)
			}
			if ev.Element == nil {
				return fmt.Errorf("%s: add needs an element", where)
			}
		case OpRemove, OpHide, OpShow, OpMove:
			if !elements[ev.Target] {
				return fmt.Errorf("%s: unknown target %q", where, ev.Target)
			}
		case OpNext, OpBack, OpAbort:
		default:
			return fmt.Errorf("%s: unknown op %q", where, ev.Op)
		}
	}
	if s.Until < 0 {
		return fmt.Errorf("until: negative time %s", s.Until)
	}
	return nil
}
