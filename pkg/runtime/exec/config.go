package exec

type Config struct {
	bin string

	// models maps model identifiers to model files. Unknown identifiers are
	// used as paths directly.
	models map[string]string

	args []string
}

type Option func(*Config)

func WithModels(models map[string]string) Option {
	return func(c *Config) {
		c.models = models
	}
}

func WithArgs(args ...string) Option {
	return func(c *Config) {
		c.args = append(c.args, args...)
	}
}

func (c *Config) modelPath(name string) string {
	if path, ok := c.models[name]; ok && path != "" {
		return path
	}

	return name
}
