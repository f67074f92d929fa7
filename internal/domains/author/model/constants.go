package model

const (
	MaxNameLength        = 255
	MaxCountryLength     = 100
	MaxDescriptionLength = 5000

	DefaultPerPage = 20
	MaxPerPage     = 100

	// Object keys are authors/{id}/{variant}.jpg
	ImageKeyPrefix = "authors/"
	ImageVariant   = "medium"
)
