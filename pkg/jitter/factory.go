package jitter

// Factory creates Buffers sharing one Config, typically one per stream.
type Factory[T any] struct {
	cfg  Config
	opts []Option
}

func NewFactory[T any](cfg Config, opts ...Option) (*Factory[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Factory[T]{cfg: cfg, opts: opts}, nil
}

func (f *Factory[T]) Config() Config {
	return f.cfg
}

func (f *Factory[T]) CreateBuffer(opts ...Option) *Buffer[T] {
	all := make([]Option, 0, len(f.opts)+len(opts)+1)
	all = append(all, WithCapacity(f.cfg.Capacity))
	all = append(all, f.opts...)
	all = append(all, opts...)
	return MustNew[T](f.cfg.Depth, f.cfg.Interval, all...)
}
