// Package sse turns event sources into Server-Sent Events streams and
// reads such streams back on the client side.
package sse

import (
	"encoding/json"
	"io"

	"sleuth/internal/core/domain"
)

// Frame is one unit written to an SSE response: either a data frame
// carrying a JSON-encoded event or a keepalive comment.
type Frame struct {
	Event     domain.Event
	Data      []byte
	KeepAlive bool
}

var keepAliveFrame = Frame{KeepAlive: true}

// NewFrame encodes ev as a single-line JSON data frame.
func NewFrame(ev domain.Event) (Frame, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Event: ev, Data: data}, nil
}

func faultFrame(msg string) Frame {
	ev := domain.Fault(msg)
	// FaultEvent has only string and bool fields, Marshal cannot fail.
	data, _ := json.Marshal(ev)
	return Frame{Event: ev, Data: data}
}

// Bytes returns the wire form of the frame.
func (f Frame) Bytes() []byte {
	if f.KeepAlive {
		return []byte(": keepalive\n\n")
	}
	b := make([]byte, 0, len(f.Data)+8)
	b = append(b, "data: "...)
	b = append(b, f.Data...)
	b = append(b, '\n', '\n')
	return b
}

// WriteTo writes the frame to w.
func (f Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.Bytes())
	return int64(n), err
}
