package services

import "github.com/rotisserie/eris"

var (
	ErrNotFound   = eris.New("package not found")
	ErrValidation = eris.New("validation failed")
	ErrConflict   = eris.New("package already exists")
)
