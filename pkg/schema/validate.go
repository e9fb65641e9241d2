package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/locator"
)

var compiledSchema = sync.OnceValues(func() (*sjsonschema.Schema, error) {
	schemaJSON, err := GenerateJSONSchema()
	if err != nil {
		return nil, err
	}
	var schemaDoc any
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource(SchemaID, schemaDoc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return c.Compile(SchemaID)
})

// Validate checks def structurally and semantically. The returned error wraps
// domain.ErrInvalidDefinition and an *AggregateError listing every failure.
func Validate(def *Definition) error {
	errs := validateStructure(def)
	if len(errs) == 0 {
		errs = validateSemantics(def)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidDefinition, &AggregateError{Errors: errs})
	}
	return nil
}

func validateStructure(def *Definition) []error {
	sch, err := compiledSchema()
	if err != nil {
		return []error{&ValidationError{Key: "", Reason: fmt.Sprintf("compile schema: %v", err)}}
	}

	data, err := json.Marshal(def)
	if err != nil {
		return []error{&ValidationError{Key: "", Reason: fmt.Sprintf("marshal for schema validation: %v", err)}}
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return []error{&ValidationError{Key: "", Reason: fmt.Sprintf("unmarshal document: %v", err)}}
	}

	err = sch.Validate(doc)
	if err == nil {
		return nil
	}
	ve, ok := err.(*sjsonschema.ValidationError)
	if !ok {
		return []error{&ValidationError{Key: "", Reason: err.Error()}}
	}
	var errs []error
	for _, cause := range flattenValidationErrors(ve) {
		errs = append(errs, &ValidationError{
			Key:    strings.Join(cause.InstanceLocation, "/"),
			Reason: fmt.Sprintf("%v", cause.ErrorKind),
		})
	}
	return errs
}

// flattenValidationErrors recursively collects all leaf validation errors.
func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}

func validateSemantics(def *Definition) []error {
	var errs []error
	if strings.TrimSpace(def.ID) == "" {
		errs = append(errs, &ValidationError{Key: "id", Reason: "must not be blank"})
	}
	if def.FallbackWindow != "" {
		if _, err := locator.Window(def.FallbackWindow); err != nil {
			errs = append(errs, &ValidationError{Key: "fallback_window", Reason: err.Error(), Value: def.FallbackWindow})
		}
	}

	for i, step := range def.Steps {
		path := fmt.Sprintf("steps/%d", i)
		switch step.Kind {
		case KindAnchor:
			if step.Action != nil {
				errs = append(errs, &ValidationError{Key: path + "/action", Reason: "anchor steps cannot carry an action"})
			}
			if step.Window != "" {
				if _, err := locator.Window(step.Window); err != nil {
					errs = append(errs, &ValidationError{Key: path + "/window", Reason: err.Error(), Value: step.Window})
				}
			}
			if step.Element != "" {
				if _, err := locator.Element(step.Element); err != nil {
					errs = append(errs, &ValidationError{Key: path + "/element", Reason: err.Error(), Value: step.Element})
				}
			}
		case KindEffect:
			if step.Action == nil {
				errs = append(errs, &ValidationError{Key: path + "/action", Reason: "effect steps require an action"})
			}
			if step.Window != "" || step.Element != "" {
				errs = append(errs, &ValidationError{Key: path, Reason: "effect steps cannot carry locators"})
			}
		default:
			errs = append(errs, &ValidationError{Key: path + "/kind", Reason: "unknown step kind", Value: step.Kind})
		}
	}
	return errs
}
