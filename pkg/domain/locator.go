package domain

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/waypoint/pkg/ui"
)

// WindowLocator finds a window in the live environment. It returns nil when no
// window matches. Locators are pure and may be called any number of times.
type WindowLocator func(env ui.Environment) ui.Window

// ElementLocator finds an element in a window's scene. It returns nil when no
// element matches.
type ElementLocator func(scene ui.Element) ui.Element

// MainWindow is the default fallback locator: the first open main window.
func MainWindow(env ui.Environment) ui.Window {
	for _, w := range env.Windows() {
		if w.IsMain() {
			return w
		}
	}
	return nil
}

// SafeWindow calls loc and treats a panic as "no match" for this attempt.
func SafeWindow(loc WindowLocator, env ui.Environment, logger *slog.Logger) (w ui.Window) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("window locator panicked", "err", fmt.Sprint(r))
			w = nil
		}
	}()
	return loc(env)
}

// SafeElement calls loc and treats a panic as "no match" for this attempt.
func SafeElement(loc ElementLocator, scene ui.Element, logger *slog.Logger) (el ui.Element) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("element locator panicked", "err", fmt.Sprint(r))
			el = nil
		}
	}()
	return loc(scene)
}
