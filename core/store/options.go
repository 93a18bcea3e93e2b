package store

import "go.uber.org/zap"

// Option configures a GormStore or Memory.
type Option func(*options)

type options struct {
	log *zap.Logger
}

// WithLogger sets the logger used for records that cannot be read.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// warnCorrupt reports a record LoadAll hands back unchanged because it is
// not a JSON object.
func warnCorrupt(log *zap.Logger, namespace, key string, err error) {
	log.Warn("Stored item is not a JSON object, returning it unchanged",
		zap.String("namespace", namespace), zap.String("key", key), zap.Error(err))
}
