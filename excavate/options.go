package excavate

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/joshuapare/hivexcavator/pkg/types"
)

// DefaultIndent is the number of spaces per depth level.
const DefaultIndent = 2

// DefaultMaxDepth is the deepest node a walk renders before giving up.
const DefaultMaxDepth = types.WindowsMaxTreeDepthPractical

// Option configures an Excavator or a Walker.
type Option func(*options)

type options struct {
	sink     Sink
	logger   *log.Logger
	maxDepth int
	indent   int
}

func defaultOptions() options {
	return options{
		maxDepth: DefaultMaxDepth,
		indent:   DefaultIndent,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = discardLogger()
	}
	if o.sink == nil {
		o.sink = NewTextSink(os.Stdout, nil)
	}
	return o
}

// WithSink sends rendered lines to s instead of plain text on stdout.
func WithSink(s Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithLogger logs decode and traversal problems to l.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMaxDepth sets the depth past which a walk fails with ErrTooDeep.
// Values below 1 keep the default.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}

// WithIndent sets the spaces per depth level. Negative values keep the
// default.
func WithIndent(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.indent = n
		}
	}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
