package models

import (
	"errors"
	"fmt"
)

// Section identifies an expandable content panel on the product page
type Section string

// Expandable sections. SectionNone means every panel is collapsed.
const (
	SectionNone        Section = "none"
	SectionDescription Section = "description"
	SectionShipping    Section = "shipping"
	SectionReviews     Section = "reviews"
)

// ErrInvalidSection is returned for anything but description, shipping or reviews
var ErrInvalidSection = errors.New("invalid section")

// ParseSection converts a toggleable section name. "none" is not toggleable.
func ParseSection(name string) (Section, error) {
	switch s := Section(name); s {
	case SectionDescription, SectionShipping, SectionReviews:
		return s, nil
	default:
		return SectionNone, fmt.Errorf("%w: %q", ErrInvalidSection, name)
	}
}

// CartRequestState represents the lifecycle of a simulated add-to-cart request
type CartRequestState string

// Cart request states
const (
	CartIdle       CartRequestState = "idle"
	CartSubmitting CartRequestState = "submitting"
	CartSucceeded  CartRequestState = "succeeded"
)

// AcceptsSubmit returns true if a new add-to-cart request may start.
// A request already in flight is never restarted.
func (s CartRequestState) AcceptsSubmit() bool {
	return s == CartIdle || s == CartSucceeded
}

// IsSubmitting returns true while a request is in flight
func (s CartRequestState) IsSubmitting() bool {
	return s == CartSubmitting
}

// IsSucceeded returns true while the success confirmation is showing
func (s CartRequestState) IsSucceeded() bool {
	return s == CartSucceeded
}
