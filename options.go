package redstruct

type Options struct {
	Namespace string
	Name      string
}

type Option func(*Options)

// WithNamespace overrides the default namespace ("queue" or "stack").
// The namespace is the first component of the persisted list key.
func WithNamespace(ns string) Option {
	return func(o *Options) { o.Namespace = ns }
}

// WithName sets an explicit structure name for the Factory. NewQueue and
// NewStack take the name as a parameter and reject a WithName that
// disagrees with it.
func WithName(name string) Option {
	return func(o *Options) { o.Name = name }
}
