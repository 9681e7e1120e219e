package ilsws

import (
	"fmt"
	"strings"
)

// Error describes a failed ILSWS call. Kind is domain.ErrUnauthorized for a
// 401 and domain.ErrUpstream otherwise; Err holds the transport or decoding
// cause when there is one.
type Error struct {
	Op         string
	StatusCode int
	Messages   []string
	Kind       error
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ilsws %s failed", e.Op)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if len(e.Messages) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(e.Messages, "; "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the kind and the cause to support errors.Is/errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// messageList is the error body ILSWS returns for rejected requests.
type messageList struct {
	MessageList []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"messageList"`
}

func (m messageList) messages() []string {
	out := make([]string, 0, len(m.MessageList))
	for _, msg := range m.MessageList {
		if msg.Message != "" {
			out = append(out, msg.Message)
		}
	}
	return out
}
