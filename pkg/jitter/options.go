package jitter

import "log/slog"

type options struct {
	logger   *slog.Logger
	listener Listener
	capacity int
}

// Option overrides Buffer defaults.
type Option func(o *options)

// WithLogger sets the logger used for rejected offers and lost slots.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithListener registers l for buffer events. Callbacks run while the buffer
// is locked and must not call back into it.
func WithListener(l Listener) Option {
	return func(o *options) {
		o.listener = l
	}
}

// WithCapacity bounds the number of buffered entries; offers beyond it are
// rejected with RejectedOverflow. Zero means unbounded.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger:   slog.Default(),
		listener: NullListener{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.listener == nil {
		o.listener = NullListener{}
	}
	if o.capacity < 0 {
		o.capacity = 0
	}
	return o
}
