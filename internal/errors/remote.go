package errors

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
)

// MapRemoteError classifies an error returned while talking to a remote HTTP service.
// It handles the common failure shapes of net/http and encoding/json:
// - context.DeadlineExceeded / net timeouts → Timeout
// - context.Canceled → Canceled
// - JSON syntax and type errors, truncated bodies → Decode
// - anything else (dial failures, resets, DNS) → Transport
//
// Errors that already carry an AppError are returned unchanged.
func MapRemoteError(err error, message string) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, message)
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, message)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Wrap(err, ErrCodeTimeout, message)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return Wrap(err, ErrCodeDecode, message)
	}

	return Wrap(err, ErrCodeTransport, message)
}
