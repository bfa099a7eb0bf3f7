// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

// Package blunder provides error-handling wrappers
//
// These wrappers allow callers to provide additional information in Go errors
// while still conforming to the Go error interface.
//
// This package provides APIs to add an errno-style value to regular Go errors
// so that callers can test for a condition (e.g. an invalid key) without
// parsing error strings.
//
// This package is currently implemented on top of the ansel1/merry package:
//	https://github.com/ansel1/merry
//
// merry adds a stacktrace to every error it wraps, retrievable via Details()
// or Stacktrace().
package blunder

import (
	"fmt"

	"github.com/ansel1/merry"
	"golang.org/x/sys/unix"

	"github.com/NVIDIA/navmap/logger"
)

// NavMapError values are carried by errors returned from navmap packages.
//
// Where a linux/POSIX errno fits, its value is used. Conditions with no
// errno counterpart are numbered from 1000.
type NavMapError int

const (
	InvalidArgError   NavMapError = NavMapError(int(unix.EINVAL))  // Invalid argument
	NotFoundError     NavMapError = NavMapError(int(unix.ENOENT))  // No such entry
	OutOfRangeError   NavMapError = NavMapError(int(unix.ERANGE))  // Key not within a range view
	NotSupportedError NavMapError = NavMapError(int(unix.ENOTSUP)) // Operation not supported
)

const ( // reset iota to 0
	// InvalidKeyError is returned when a key cannot be ordered by a map's OrderingPolicy
	InvalidKeyError NavMapError = 1000 + iota
	// CorruptMapError is returned by Validate() when the ordering invariant is found broken
	CorruptMapError
)

const SuccessError NavMapError = 0

// Default errno values for success and failure
const (
	successErrno = 0
	failureErrno = -1
)

const errnoKey = "errno"

// Value returns the int value for the specified NavMapError constant
func (errValue NavMapError) Value() int {
	return int(errValue)
}

func (errValue NavMapError) String() string {
	switch errValue {
	case SuccessError:
		return "SuccessError"
	case InvalidArgError:
		return "InvalidArgError"
	case NotFoundError:
		return "NotFoundError"
	case OutOfRangeError:
		return "OutOfRangeError"
	case NotSupportedError:
		return "NotSupportedError"
	case InvalidKeyError:
		return "InvalidKeyError"
	case CorruptMapError:
		return "CorruptMapError"
	default:
		return fmt.Sprintf("NavMapError(%d)", int(errValue))
	}
}

// NewError creates a new merry/blunder.NavMapError-annotated error using the given
// format string and arguments.
func NewError(errValue NavMapError, format string, a ...interface{}) error {
	return merry.WrapSkipping(fmt.Errorf(format, a...), 1).WithValue(errnoKey, int(errValue))
}

// AddError is used to add NavMapError detail to a Go error.
//
// Replacing an already present value is logged (at warning level) since it
// usually means an error is being reclassified by accident.
func AddError(e error, errValue NavMapError) error {
	if nil == e {
		// The caller intends a non-nil error, so make one
		return merry.New("regular error").WithValue(errnoKey, int(errValue))
	}

	prevValue := Errno(e)
	if (successErrno != prevValue) && (failureErrno != prevValue) && (int(errValue) != prevValue) {
		logger.Warnf("replacing error value %v with value %v for error %v", NavMapError(prevValue), errValue, e)
	}

	return merry.WrapSkipping(e, 1).WithValue(errnoKey, int(errValue))
}

// Errno extracts errno from the error, if it was previously wrapped.
// Otherwise a default value is returned.
func Errno(e error) int {
	if nil == e {
		return successErrno
	}

	errno, ok := merry.Value(e, errnoKey).(int)
	if !ok {
		return failureErrno
	}

	return errno
}

// ErrorString returns e.Error() followed by the NavMapError value, if any
func ErrorString(e error) string {
	if nil == e {
		return ""
	}

	errno, ok := merry.Value(e, errnoKey).(int)
	if !ok {
		return e.Error()
	}

	return fmt.Sprintf("%s. Error Value: %v", e.Error(), NavMapError(errno))
}

// Is checks if an error carries a particular NavMapError
//
// NOTE: Because NavMapErrors sharing an errno share a value, one cannot use
// this API to distinguish between them.
func Is(e error, theError NavMapError) bool {
	return Errno(e) == theError.Value()
}

// IsNot checks if an error does NOT carry a particular NavMapError
func IsNot(e error, theError NavMapError) bool {
	return Errno(e) != theError.Value()
}

// IsSuccess checks if an error is the success NavMapError
func IsSuccess(e error) bool {
	return Errno(e) == successErrno
}

// IsNotSuccess checks if an error is NOT the success NavMapError
func IsNotSuccess(e error) bool {
	return Errno(e) != successErrno
}

// Location returns the file and line number of the code that generated the error.
// Returns zero values if e has no stacktrace.
func Location(e error) (file string, line int) {
	file, line = merry.Location(e)
	return
}

// Details wraps merry.Details, which returns all error details including stacktrace in a string.
func Details(e error) string {
	return merry.Details(e)
}

// Stacktrace wraps merry.Stacktrace, which returns error stacktrace (if set) in a string.
func Stacktrace(e error) string {
	return merry.Stacktrace(e)
}
