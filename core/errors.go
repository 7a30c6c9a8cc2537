package core

import "errors"

var (
	ErrViewNotFound = errors.New("quiz: view not found")
	ErrInvalidView  = errors.New("quiz: invalid view name")
)

func IsViewNotFound(err error) bool {
	return errors.Is(err, ErrViewNotFound)
}
