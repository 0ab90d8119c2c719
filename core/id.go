package core

import "github.com/google/uuid"

// NewID returns a random identifier suitable for local correlation.
func NewID() string { return uuid.NewString() }
