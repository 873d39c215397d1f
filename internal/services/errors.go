package services

import "errors"

// Failure taxonomy shared by the handlers. Handlers map these onto
// HTTP statuses; anything else coming out of a service is treated as a
// store failure and surfaces as a 500 with a generic body.
var (
	ErrValidation         = errors.New("invalid input")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTaskNotFound       = errors.New("task not found")
)
