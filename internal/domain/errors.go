package domain

import "errors"

var (
	// ErrSourceNotFound signals a missing data source.
	ErrSourceNotFound = errors.New("data source not found")
	// ErrDimensionMismatch signals vectors of different dimensions compared.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrChatProviderError signals a text-generation provider failure.
	ErrChatProviderError = errors.New("chat provider error")
	// ErrNoJSONFound signals that a model response contained no JSON object.
	ErrNoJSONFound = errors.New("no JSON object in model response")
	// ErrInvalidIntent signals a parsed intent missing required keys.
	ErrInvalidIntent = errors.New("invalid intent structure")
	// ErrEmptyQuestion signals an empty or whitespace-only question.
	ErrEmptyQuestion = errors.New("question is empty")
)
