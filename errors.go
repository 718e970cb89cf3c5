// Copyright 2025 The Bitlayout Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bitlayout

import "fmt"

// errCode classifies the errors this package returns. Every error value
// produced by bitlayout unwraps to exactly one of these sentinels, so callers
// can dispatch with errors.Is.
type errCode int

const (
	_ errCode = iota
	errInvalidWidth
	errInvalidType
	errDuplicateName
	errReservedName
	errOverflow
	errUnknownLabel
	errSchemaMismatch
	errInvalidEncoding
)

var sentinels = [...]error{
	errInvalidWidth:    sentinelError("invalid width"),
	errInvalidType:     sentinelError("invalid type"),
	errDuplicateName:   sentinelError("duplicate field name"),
	errReservedName:    sentinelError("reserved field name"),
	errOverflow:        sentinelError("overflow"),
	errUnknownLabel:    sentinelError("unknown label"),
	errSchemaMismatch:  sentinelError("schema mismatch"),
	errInvalidEncoding: sentinelError("invalid encoding"),
}

// sentinelError is a trivial string error used as the unwrap target for the
// taxonomy below, so errors.Is(err, ErrOverflow) works without exposing the
// errCode type.
type sentinelError string

func (e sentinelError) Error() string { return string(e) }

// Exported sentinels for errors.Is comparisons.
var (
	ErrInvalidWidth    = sentinels[errInvalidWidth]
	ErrInvalidType      = sentinels[errInvalidType]
	ErrDuplicateName   = sentinels[errDuplicateName]
	ErrReservedName    = sentinels[errReservedName]
	ErrOverflow        = sentinels[errOverflow]
	ErrUnknownLabel    = sentinels[errUnknownLabel]
	ErrSchemaMismatch  = sentinels[errSchemaMismatch]
	ErrInvalidEncoding = sentinels[errInvalidEncoding]
)

// layoutError is a contextualized error: a code plus the path/detail at
// which it was raised.
type layoutError struct {
	code   errCode
	path   string
	detail string
}

// Error implements error.
func (e *layoutError) Error() string {
	if e.path == "" {
		return fmt.Sprintf("bitlayout: %s: %s", sentinels[e.code], e.detail)
	}
	return fmt.Sprintf("bitlayout: %s at %q: %s", sentinels[e.code], e.path, e.detail)
}

// Unwrap implements error unwrapping via errors.Unwrap/errors.Is.
func (e *layoutError) Unwrap() error {
	return sentinels[e.code]
}

func newErr(code errCode, path, format string, args ...any) *layoutError {
	return &layoutError{code: code, path: path, detail: fmt.Sprintf(format, args...)}
}
