package account

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Config holds configuration for the remote account service.
type Config struct {
	// BaseURL is the account service root. Empty disables account sync.
	BaseURL string `mapstructure:"base_url" default:""`
	// Token is the bearer token sent with every request.
	Token string `mapstructure:"token" default:""`
	// TimeoutSeconds bounds each request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Enabled reports whether an account is configured.
func (c Config) Enabled() bool {
	return c.BaseURL != ""
}

// Validate validates the account configuration.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, is.URL),
		validation.Field(&c.Token, validation.When(c.Enabled(), validation.Required)),
		validation.Field(&c.TimeoutSeconds, validation.Min(0)),
	)
}
