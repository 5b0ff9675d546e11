package config

import (
	"github.com/kelseyhightower/envconfig"
)

// App holds everything the process reads from the environment.
// Populate a .env file or export the variables before starting.
type App struct {
	Port string `envconfig:"PORT" default:"4000"`

	// Either a full DATABASE_URL or the discrete DB_* fields.
	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBHost      string `envconfig:"DB_HOST" default:"localhost"`
	DBPort      string `envconfig:"DB_PORT" default:"5432"`
	DBUser      string `envconfig:"DB_USER" default:"postgres"`
	DBPassword  string `envconfig:"DB_PASSWORD"`
	DBName      string `envconfig:"DB_NAME" default:"threadcart"`

	// JWTSecret may be left empty; main substitutes an ephemeral secret
	// and previously issued tokens stop verifying after a restart.
	JWTSecret      string `envconfig:"JWT_SECRET"`
	GoogleClientID string `envconfig:"GOOGLE_CLIENT_ID"`
	AdminAPIKey    string `envconfig:"ADMIN_API_KEY"`

	// FrontendURL is used for payment redirect targets and the mock
	// checkout page.
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:5173"`

	PayOS PayOS
}

// PayOS selects and configures the payment gateway. Mode is an explicit
// deployment decision: "live" talks to the PayOS API, "mock" serves an
// in-app simulated checkout.
type PayOS struct {
	Mode        string `envconfig:"PAYOS_MODE" default:"mock"`
	ClientID    string `envconfig:"PAYOS_CLIENT_ID"`
	APIKey      string `envconfig:"PAYOS_API_KEY"`
	ChecksumKey string `envconfig:"PAYOS_CHECKSUM_KEY"`
	BaseURL     string `envconfig:"PAYOS_BASE_URL" default:"https://api-sandbox.payos.vn"`
}

// HasLiveCredentials reports whether the live client can be constructed.
func (p PayOS) HasLiveCredentials() bool {
	return p.ClientID != "" && p.APIKey != "" && p.ChecksumKey != ""
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
