package squote

// DefaultCacheSize is the number of parsed templates a Builder keeps
const DefaultCacheSize = 256

// Options for the squote Builder
type Options struct {
	escaper   Escaper  // escaping primitive of the target connection
	logger    Logger   // where logs go
	logLevel  LogLevel // minimum level logged
	logQuery  bool     // log rendered SQL?
	logBinds  bool     // log bind values?
	cacheSize int      // parsed template cache size, 0 disables
	nilValues bool     // render nil as NULL (otherwise ErrNullValue)
}

// Option is a functional option for NewBuilder
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		escaper:   Backslash,
		logger:    StdLogger{},
		logLevel:  LogLevelInfo,
		cacheSize: DefaultCacheSize,
		nilValues: true,
	}
}

func (o *Options) set(options ...Option) {
	for _, opt := range options {
		opt(o)
	}
}

// WithEscaper sets the escaping primitive (default Backslash)
func WithEscaper(e Escaper) Option {
	return func(o *Options) {
		if e != nil {
			o.escaper = e
		}
	}
}

// WithLogger sets the logger (default StdLogger)
func WithLogger(l Logger) Option {
	return func(o *Options) {
		o.logger = l
	}
}

// WithLogLevel sets the minimum level logged (default info).
// Query and bind logging happen at info.
func WithLogLevel(level LogLevel) Option {
	return func(o *Options) {
		o.logLevel = level
	}
}

// Log turns on logging of both rendered SQL and bind values
func Log(b bool) Option {
	return func(o *Options) {
		o.logQuery = b
		o.logBinds = b
	}
}

// LogQuery turns on logging of rendered SQL
func LogQuery(b bool) Option {
	return func(o *Options) {
		o.logQuery = b
	}
}

// LogBinds turns on logging of bind values
func LogBinds(b bool) Option {
	return func(o *Options) {
		o.logBinds = b
	}
}

// CacheSize sets how many parsed templates are cached (0 disables)
func CacheSize(n int) Option {
	return func(o *Options) {
		if n < 0 {
			n = 0
		}
		o.cacheSize = n
	}
}

// NilValues controls nil handling. When true (the default) nil values render
// as NULL; when false they fail with ErrNullValue.
func NilValues(b bool) Option {
	return func(o *Options) {
		o.nilValues = b
	}
}
