// Package schema defines the YAML format of walkthrough definitions and validates it.
//
// A definition lists steps of two kinds. Anchor steps point at an element through
// expr-lang locator predicates; effect steps name a registered action:
//
//	id: dark-theme
//	title: Switch to the dark theme
//	steps:
//	  - kind: anchor
//	    title: Open the preferences
//	    element: 'id == "preferences"'
//	  - kind: effect
//	    title: Enable the dark theme
//	    action:
//	      name: set-flag
//	      params: { key: theme.dark, value: true }
//
// Validation runs in two phases. The structural phase checks the document against the
// JSON Schema generated from the Go types; the semantic phase checks rules the schema
// cannot express, such as step kinds and locator expressions that must compile.
package schema
