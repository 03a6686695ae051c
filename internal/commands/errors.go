package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to wrapped command failures so hosts can route them
// without string-matching messages.
const (
	codeValidationFailed = "SITEEDIT_COMMAND_VALIDATION_FAILED"
	codeContextCanceled  = "SITEEDIT_COMMAND_CANCELED"
	codeContextTimeout   = "SITEEDIT_COMMAND_TIMEOUT"
	codeContextError     = "SITEEDIT_COMMAND_CONTEXT_ERROR"
	codeExecuteFailed    = "SITEEDIT_COMMAND_FAILED"
)

// wrap categorizes err unless an upstream layer already did.
func wrap(err error, category goerrors.Category, msg, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, msg).WithTextCode(code)
}

func wrapValidationError(err error) error {
	return wrap(err, goerrors.CategoryValidation, "command message rejected", codeValidationFailed)
}

func wrapContextError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return wrap(err, goerrors.CategoryCommand, "command canceled", codeContextCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return wrap(err, goerrors.CategoryCommand, "command deadline exceeded", codeContextTimeout)
	default:
		return wrap(err, goerrors.CategoryCommand, "command context error", codeContextError)
	}
}

func wrapExecuteError(err error) error {
	return wrap(err, goerrors.CategoryCommand, "command failed", codeExecuteFailed)
}
