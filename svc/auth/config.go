package auth

// Config holds the session signing secret. Rotating it invalidates every
// issued session.
type Config struct {
	JWTSecret string `env:"JWT_SECRET,required"`
}

func (c *Config) Validate() error {
	if len(c.JWTSecret) < MinSecretLength {
		return ErrWeakSecret
	}
	return nil
}
