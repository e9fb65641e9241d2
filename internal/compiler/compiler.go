// Package compiler turns walkthrough definitions into runnable tours.
package compiler

import (
	"fmt"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/effects"
	"github.com/aretw0/waypoint/pkg/locator"
	"github.com/aretw0/waypoint/pkg/schema"
)

// Compiler resolves locators and actions of a definition.
// Actions carry the state they need to undo themselves, so every Compile call
// builds fresh instances and a compiled tour must not be shared between sessions.
type Compiler struct {
	registry *effects.Registry
}

// New creates a compiler resolving action names through registry.
func New(registry *effects.Registry) *Compiler {
	return &Compiler{registry: registry}
}

// Parse decodes, validates and compiles a YAML definition.
func (c *Compiler) Parse(data []byte) (*domain.Tour, error) {
	def, err := schema.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidDefinition, err)
	}
	return c.Compile(def)
}

// Compile validates def and builds a tour from it.
func (c *Compiler) Compile(def *schema.Definition) (*domain.Tour, error) {
	if err := schema.Validate(def); err != nil {
		return nil, err
	}

	tour := &domain.Tour{
		ID:    def.ID,
		Title: def.Title,
		Steps: make([]domain.Step, 0, len(def.Steps)),
	}
	if def.FallbackWindow != "" {
		loc, err := locator.Window(def.FallbackWindow)
		if err != nil {
			return nil, fmt.Errorf("%w: fallback_window: %w", domain.ErrInvalidDefinition, err)
		}
		tour.FallbackWindow = loc
	}

	for i, sd := range def.Steps {
		step, err := c.step(sd)
		if err != nil {
			return nil, fmt.Errorf("tour %s step %d: %w", def.ID, i, err)
		}
		tour.Steps = append(tour.Steps, step)
	}
	return tour, nil
}

func (c *Compiler) step(sd schema.StepDef) (domain.Step, error) {
	switch sd.Kind {
	case schema.KindAnchor:
		vc := domain.VisibleComponent{Title: sd.Title, Content: sd.Content}
		if sd.Window != "" {
			loc, err := locator.Window(sd.Window)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", domain.ErrInvalidDefinition, err)
			}
			vc.Window = loc
		}
		if sd.Element != "" {
			loc, err := locator.Element(sd.Element)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", domain.ErrInvalidDefinition, err)
			}
			vc.Element = loc
		}
		return vc, nil

	case schema.KindEffect:
		action, err := c.registry.Build(sd.Action.Name, sd.Action.Params)
		if err != nil {
			return nil, err
		}
		return domain.SideEffect{Title: sd.Title, Effect: action}, nil
	}
	return nil, fmt.Errorf("%w: unknown step kind %q", domain.ErrInvalidDefinition, sd.Kind)
}
