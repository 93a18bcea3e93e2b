package database

import validation "github.com/go-ozzo/ozzo-validation/v4"

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config holds configuration for the local library database.
type Config struct {
	// Driver is the database driver (mysql, sqlite).
	Driver string `mapstructure:"driver" default:"sqlite"`
	// Host is the database host (mysql only).
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port (mysql only).
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user (mysql only).
	User string `mapstructure:"user" default:"root"`
	// Password is the database password (mysql only).
	Password string `mapstructure:"password" default:""`
	// Name is the database name, or the file path for sqlite.
	Name string `mapstructure:"name" default:"library.db"`
	// TimeoutSeconds bounds connection setup and the initial ping.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Validate validates the database configuration.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverMySQL, DriverSQLite)),
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Host, validation.When(c.Driver == DriverMySQL, validation.Required)),
		validation.Field(&c.Port, validation.When(c.Driver == DriverMySQL, validation.Required, validation.Min(1), validation.Max(65535))),
	)
}
