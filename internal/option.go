package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	clean  bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithClean forces the output directory to be recreated before building,
// overriding the configured value.
func WithClean() Option {
	return func(a *application) {
		a.clean = true
	}
}
