// Package effects runs the reversible actions behind side-effect steps and builds
// them from declarative definitions.
//
// The Executor is the only place an action is invoked. It bounds each call with a
// timeout, converts panics into failures and reports every outcome through the
// lifecycle hooks. The Registry maps action names to factories so tour definitions
// can reference actions by name.
package effects
