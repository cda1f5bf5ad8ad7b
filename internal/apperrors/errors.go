package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInvalidState indicates that an operation was attempted against an entity
// whose current status does not permit it (e.g. posting a non-draft entry).
var ErrInvalidState = errors.New("invalid state for operation")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrLockBusy indicates that the coordination lock for an operation is held
// elsewhere. Transient; callers may retry or surface it as "in progress".
var ErrLockBusy = errors.New("resource is locked by another operation")

// ErrProvisioning indicates that tenant schema provisioning failed for a reason
// other than the schema already existing.
var ErrProvisioning = errors.New("tenant provisioning failed")

// ErrInternal indicates an unexpected infrastructure failure.
var ErrInternal = errors.New("internal error")
