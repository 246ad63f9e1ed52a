package ui

import (
	"io"
	"os"
)

// Option configures a presenter built by New.
type Option func(*options)

type options struct {
	w io.Writer
}

// WithWriter sends output to w instead of stdout.
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.w = w }
}

func (o options) writer() io.Writer {
	if o.w == nil {
		return os.Stdout
	}
	return o.w
}
