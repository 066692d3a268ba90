package models

import (
	"errors"
	"fmt"
)

// ErrNoTranscript means the video exists but no usable captions were found.
var ErrNoTranscript = errors.New("no transcript found")

// InputError reports empty or invalid request input.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

// RetrievalError wraps a failure of the transcript source.
type RetrievalError struct {
	VideoID string
	Err     error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieve transcript for %s: %v", e.VideoID, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// ServiceError wraps a failed or unparseable language-service call.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// PersistenceError wraps a failed transcript-file or history write.
type PersistenceError struct {
	Target string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Target, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
