package repository

import (
	"errors"
	"regexp"
)

// ErrProductNotFound is returned when no catalog entry exists for a slug
var ErrProductNotFound = errors.New("product not found")

// ErrInvalidSlug is returned for slugs that are not lowercase kebab case
var ErrInvalidSlug = errors.New("invalid product slug")

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func validSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}
