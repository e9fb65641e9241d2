package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrStepOutOfRange is returned when navigating to an index outside the tour.
var ErrStepOutOfRange = errors.New("step index out of range")

// ErrTourFinished is returned when navigating a tour that completed or quit.
var ErrTourFinished = errors.New("tour already finished")

// ErrUnknownAction is returned when a definition names an unregistered action.
var ErrUnknownAction = errors.New("unknown action")

// ErrInvalidDefinition is returned when a walkthrough definition fails validation.
var ErrInvalidDefinition = errors.New("invalid walkthrough definition")

// ErrTourNotFound is returned when a catalog has no tour with the requested ID.
var ErrTourNotFound = errors.New("tour not found")
