package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/estatehub/estatehub-admin/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSlugTaken          = errors.New("slug already in use")
)

// Violation is one failed validation rule on one form field.
type Violation struct {
	Field   string
	Message string
}

// ValidationError carries every violation found in a submission. It is
// returned before any write happens.
type ValidationError struct {
	Violations []Violation
	cause      error
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), "; ")
}

func (e *ValidationError) Unwrap() error { return e.cause }

// Messages returns the violation messages in field order.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return msgs
}

// Has reports whether field has at least one violation.
func (e *ValidationError) Has(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// ConflictError reports a uniqueness violation, found either by a pre-check
// or by the database rejecting a duplicate key.
type ConflictError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConflictError) Error() string { return e.Message }
func (e *ConflictError) Unwrap() error { return e.Err }

// StorageError wraps a failed write. Its transaction has been rolled back.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

// UploadError is a non-fatal image storage failure.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string { return "image upload failed: " + e.Err.Error() }
func (e *UploadError) Unwrap() error { return e.Err }

// violationsFrom flattens ozzo validation errors into violations, ordered by
// the given field order and then alphabetically for anything not listed.
func violationsFrom(err error, order ...string) ([]Violation, error) {
	if err == nil {
		return nil, nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return nil, err
	}

	rank := make(map[string]int, len(order))
	for i, f := range order {
		rank[f] = i
	}

	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool {
		ri, iok := rank[fields[i]]
		rj, jok := rank[fields[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return fields[i] < fields[j]
		}
	})

	violations := make([]Violation, 0, len(fields))
	for _, f := range fields {
		fieldErr := errs[f]
		if nested, ok := fieldErr.(validation.Errors); ok {
			sub, err := violationsFrom(nested)
			if err != nil {
				return nil, err
			}
			for _, v := range sub {
				violations = append(violations, Violation{Field: f, Message: v.Message})
			}
			continue
		}
		violations = append(violations, Violation{Field: f, Message: fieldErr.Error()})
	}
	return violations, nil
}

// writeError classifies an error returned from a write transaction.
func writeError(op, field, conflictMsg string, err error) error {
	if errors.Is(err, repository.ErrDuplicate) || errors.Is(err, ErrSlugTaken) {
		return &ConflictError{Field: field, Message: conflictMsg, Err: err}
	}
	return &StorageError{Op: op, Err: err}
}

// sortViolations orders violations by field rank, keeping the relative order
// of violations on the same field.
func sortViolations(vs []Violation, order []string) {
	rank := make(map[string]int, len(order))
	for i, f := range order {
		rank[f] = i
	}
	sort.SliceStable(vs, func(i, j int) bool {
		ri, iok := rank[vs[i].Field]
		rj, jok := rank[vs[j].Field]
		if !iok {
			ri = len(order)
		}
		if !jok {
			rj = len(order)
		}
		return ri < rj
	})
}
