package model

const (
	// Score
	MinScore = 1
	MaxScore = 5

	// Content limits
	MaxTextLength = 5000

	DefaultPerPage = 20
	MaxPerPage     = 100
)
