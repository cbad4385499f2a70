package subject

// Config holds environment-driven subject settings.
type Config struct {
	Name     string `env:"SUBJECT_NAME"`
	Overflow string `env:"SUBJECT_OVERFLOW" envDefault:"drop"`
}

// DefaultConfig returns the settings used by New without options.
func DefaultConfig() Config {
	return Config{
		Overflow: OverflowDrop.String(),
	}
}

// NewFromConfig creates a subject from cfg. Options passed explicitly take
// precedence over cfg.
func NewFromConfig[T any](cfg Config, opts ...Option) (*Subject[T], error) {
	overflow, err := ParseOverflow(cfg.Overflow)
	if err != nil {
		return nil, err
	}

	base := []Option{WithOverflow(overflow)}
	if cfg.Name != "" {
		base = append(base, WithName(cfg.Name))
	}

	return New[T](append(base, opts...)...), nil
}
