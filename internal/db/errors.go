package db

import "errors"

// ErrNotFound marks a mutation that targeted a missing row.
var ErrNotFound = errors.New("not found")

// ErrSubjectInUse marks a subject delete blocked by grades or job requirements.
var ErrSubjectInUse = errors.New("subject is referenced by grades or job requirements")

// ErrAlreadyApplied marks a duplicate application for the same (student, job).
var ErrAlreadyApplied = errors.New("application already exists")

// ErrInvalidTransition marks a disallowed job or application status change.
var ErrInvalidTransition = errors.New("invalid status transition")
