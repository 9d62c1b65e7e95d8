package core

import "errors"

var (
	ErrInvalidGridSize  = errors.New("invalid grid size")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrUnknownDirection = errors.New("unknown direction")
)
