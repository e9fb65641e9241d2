// Package locator builds window and element locators, either from plain ids and
// titles or from boolean expr-lang expressions evaluated against each candidate.
//
// Window expressions see: id, title, main, showing, focused.
// Element expressions see: id, kind, text, classes, visible.
//
// Element search is depth-first in pre-order and only matches effectively visible
// elements, so a locator never anchors on something the user cannot see.
package locator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ui"
)

var (
	windowSample = map[string]any{
		"id":      "",
		"title":   "",
		"main":    false,
		"showing": false,
		"focused": false,
	}
	elementSample = map[string]any{
		"id":      "",
		"kind":    "",
		"text":    "",
		"classes": []string{},
		"visible": false,
	}
)

func windowEnv(w ui.Window) map[string]any {
	return map[string]any{
		"id":      w.ID(),
		"title":   w.Title(),
		"main":    w.IsMain(),
		"showing": w.IsShowing(),
		"focused": w.IsFocused(),
	}
}

func elementEnv(e ui.Element) map[string]any {
	return map[string]any{
		"id":      e.ID(),
		"kind":    e.Kind(),
		"text":    e.Text(),
		"classes": e.Classes(),
		"visible": e.IsEffectivelyVisible(),
	}
}

func compile(src string, sample map[string]any) (*vm.Program, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("empty locator expression")
	}
	program, err := expr.Compile(src, expr.Env(sample), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile locator %q: %w", src, err)
	}
	return program, nil
}

func matches(program *vm.Program, env map[string]any) bool {
	out, err := expr.Run(program, env)
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}

// Window compiles a window locator. The first open window, in registry order, for
// which src evaluates to true is the match.
func Window(src string) (domain.WindowLocator, error) {
	program, err := compile(src, windowSample)
	if err != nil {
		return nil, err
	}
	return func(env ui.Environment) ui.Window {
		for _, w := range env.Windows() {
			if matches(program, windowEnv(w)) {
				return w
			}
		}
		return nil
	}, nil
}

// Element compiles an element locator.
func Element(src string) (domain.ElementLocator, error) {
	program, err := compile(src, elementSample)
	if err != nil {
		return nil, err
	}
	return ElementWhere(func(e ui.Element) bool {
		return matches(program, elementEnv(e))
	}), nil
}

// ElementWhere returns a locator matching the first effectively visible element,
// in pre-order, that satisfies pred.
func ElementWhere(pred func(ui.Element) bool) domain.ElementLocator {
	return func(scene ui.Element) ui.Element {
		var found ui.Element
		ui.Walk(scene, func(e ui.Element) bool {
			if e.IsEffectivelyVisible() && pred(e) {
				found = e
				return false
			}
			return true
		})
		return found
	}
}

// WindowByID matches the open window with the given id.
func WindowByID(id string) domain.WindowLocator {
	return func(env ui.Environment) ui.Window {
		for _, w := range env.Windows() {
			if w.ID() == id {
				return w
			}
		}
		return nil
	}
}

// WindowByTitle matches the first open window with the given title.
func WindowByTitle(title string) domain.WindowLocator {
	return func(env ui.Environment) ui.Window {
		for _, w := range env.Windows() {
			if w.Title() == title {
				return w
			}
		}
		return nil
	}
}

// ElementByID matches the visible element with the given id.
func ElementByID(id string) domain.ElementLocator {
	return ElementWhere(func(e ui.Element) bool { return e.ID() == id })
}

// ElementByClass matches the first visible element carrying class.
func ElementByClass(class string) domain.ElementLocator {
	return ElementWhere(func(e ui.Element) bool { return slices.Contains(e.Classes(), class) })
}
