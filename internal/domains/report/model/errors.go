package model

import "errors"

var (
	ErrBookNotFound = errors.New("book not found")
	ErrInvalidQuery = errors.New("invalid search query")
)
