package catalog

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies a failed catalog request.
type ErrorKind int

const (
	KindTimeout ErrorKind = iota + 1
	KindHTTP
	KindNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindHTTP:
		return "http"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// FetchError is returned for every classified catalog failure. Requests are
// never retried.
type FetchError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("catalog: unexpected status %d", e.StatusCode)
	default:
		if e.Err != nil {
			return fmt.Sprintf("catalog: %s error: %v", e.Kind, e.Err)
		}
		return fmt.Sprintf("catalog: %s error", e.Kind)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Message is the text shown to shoppers.
func (e *FetchError) Message() string {
	switch e.Kind {
	case KindTimeout:
		return "Request timeout. Please check your connection and try again."
	case KindHTTP:
		return fmt.Sprintf("API error: %d", e.StatusCode)
	default:
		return "Network error. Please check your connection."
	}
}

// classify wraps a transport error. Caller cancellation is returned as is.
func classify(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &FetchError{Kind: KindTimeout, Err: err}
	}
	return &FetchError{Kind: KindNetwork, Err: err}
}
