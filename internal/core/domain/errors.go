package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrAcquisition       = errors.New("document acquisition failed")
	ErrEmptyDocument     = errors.New("no text extracted")
	ErrTemporary         = errors.New("temporary failure")
)

// Wire-level error codes shared by synchronous rejections and failure callbacks.
const (
	CodeMissingSignature  = "MISSING_SIGNATURE"
	CodeInvalidSignature  = "INVALID_SIGNATURE"
	CodeNoData            = "NO_DATA"
	CodeMissingFields     = "MISSING_FIELDS"
	CodeMissingText       = "MISSING_TEXT"
	CodeEmptyText         = "EMPTY_TEXT"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeFileTooLarge      = "FILE_TOO_LARGE"
	CodeDownloadError     = "DOWNLOAD_ERROR"
	CodeProcessingError   = "PROCESSING_ERROR"
	CodeAnalysisError     = "ANALYSIS_ERROR"
	CodeRateLimited       = "RATE_LIMITED"
	CodeServiceBusy       = "SERVICE_BUSY"
	CodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	CodeInternalError     = "INTERNAL_ERROR"
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
