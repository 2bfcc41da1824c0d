package service

import "errors"

// ErrNotOwned is returned when a caller references a resource that belongs
// to another user.
var ErrNotOwned = errors.New("resource not owned by caller")
