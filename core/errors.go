package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	msgs := make([]string, 0, len(err.Fields))
	for _, f := range err.Fields {
		msgs = append(msgs, f.Field+": "+f.Error)
	}
	return strings.Join(msgs, "; ")
}

// NotFoundError is returned when an operation references an id that does not exist.
type NotFoundError struct {
	Kind string // "student", "attendance", ...
	ID   int
}

func NewNotFoundError(kind string, id int) error {
	return &NotFoundError{Kind: kind, ID: id}
}

func (err NotFoundError) Error() string {
	if err.ID == 0 {
		return err.Kind + " not found"
	}
	return fmt.Sprintf("%s %d not found", err.Kind, err.ID)
}

// DataIntegrityError reports a stored record whose weak reference no longer resolves,
// eg. a reschedule that outlived its student.
type DataIntegrityError struct {
	Kind  string // kind of the dangling record
	ID    int    // id of the dangling record (0 when records have no id)
	RefID int    // the unresolved student id
}

func NewDataIntegrityError(kind string, id, refID int) error {
	return &DataIntegrityError{Kind: kind, ID: id, RefID: refID}
}

func (err DataIntegrityError) Error() string {
	if err.ID == 0 {
		return fmt.Sprintf("%s references missing student %d", err.Kind, err.RefID)
	}
	return fmt.Sprintf("%s %d references missing student %d", err.Kind, err.ID, err.RefID)
}

// SaveError reports the collections that could not be persisted.
// The in-memory state it accompanies is still valid.
type SaveError struct {
	Failed map[string]error
}

func (err SaveError) Error() string {
	names := make([]string, 0, len(err.Failed))
	for name := range err.Failed {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, fmt.Sprintf("%s: %v", name, err.Failed[name]))
	}
	return "unsaved changes: " + strings.Join(msgs, "; ")
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsDataIntegrity(err error) bool {
	var target *DataIntegrityError
	return errors.As(err, &target)
}

// IsSaveWarning reports whether err only signals a failed flush.
func IsSaveWarning(err error) bool {
	var target *SaveError
	return errors.As(err, &target)
}
