package repository

import "errors"

// ErrSlotTaken is returned when a write would give a doctor two active
// appointments at the same instant.
var ErrSlotTaken = errors.New("slot already taken")

// ErrDuplicateUser is returned when a username or email is already registered.
var ErrDuplicateUser = errors.New("username or email already registered")
