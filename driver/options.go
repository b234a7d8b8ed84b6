package driver

import (
	"github.com/mwblythe/squote"
)

// Options for a wrapped driver
type Options struct {
	builder *squote.Builder
	name    string
}

func (o *Options) set(options ...Option) {
	for _, opt := range options {
		opt(o)
	}
}

// Option is a functional option
type Option func(*Options)

// Builder is the squote builder to render with
func Builder(b *squote.Builder) Option {
	return func(o *Options) {
		o.builder = b
	}
}

// Name of the new squote driver
func Name(name string) Option {
	return func(o *Options) {
		o.name = name
	}
}
