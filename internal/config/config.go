package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// maxAccounts is the highest numbered CALDAV_<n>_* account slot scanned.
const maxAccounts = 10

// ErrNoAccounts is returned when neither numbered nor legacy account
// variables are set.
var ErrNoAccounts = errors.New("no CalDAV accounts configured, set CALDAV_1_BASE_URL, CALDAV_1_USERNAME, CALDAV_1_PASSWORD, CALDAV_1_NAME")

// Settings holds the process-level configuration read from the environment.
// Transport and instrumentation flags on the serve command take precedence
// over these values.
type Settings struct {
	Host string `env:"HOST" envDefault:"127.0.0.1"`
	Port int    `env:"PORT" envDefault:"8000"`
}

// AccountConfig holds the credentials for a single CalDAV account.
type AccountConfig struct {
	Name     string
	BaseURL  string
	Username string
	Password string
}

// ParseSettings loads Settings from environment variables.
func ParseSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

// ParseAccounts reads CalDAV account credentials from the environment.
//
// Numbered accounts use the CALDAV_1_* through CALDAV_10_* prefixes; a slot
// is configured when its BASE_URL, USERNAME and PASSWORD are all set, and
// NAME defaults to "Account <n>". When no numbered slot is configured the
// legacy unnumbered CALDAV_* variables are tried as a single account named
// "Default".
func ParseAccounts() ([]AccountConfig, error) {
	var accounts []AccountConfig

	for i := 1; i <= maxAccounts; i++ {
		prefix := fmt.Sprintf("CALDAV_%d_", i)
		acct := AccountConfig{
			Name:     os.Getenv(prefix + "NAME"),
			BaseURL:  os.Getenv(prefix + "BASE_URL"),
			Username: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		}
		if acct.BaseURL == "" || acct.Username == "" || acct.Password == "" {
			continue
		}
		if acct.Name == "" {
			acct.Name = fmt.Sprintf("Account %d", i)
		}
		accounts = append(accounts, acct)
	}

	if len(accounts) == 0 {
		acct := AccountConfig{
			Name:     os.Getenv("CALDAV_NAME"),
			BaseURL:  os.Getenv("CALDAV_BASE_URL"),
			Username: os.Getenv("CALDAV_USERNAME"),
			Password: os.Getenv("CALDAV_PASSWORD"),
		}
		if acct.BaseURL != "" && acct.Username != "" && acct.Password != "" {
			if acct.Name == "" {
				acct.Name = "Default"
			}
			accounts = append(accounts, acct)
		}
	}

	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}
	return accounts, nil
}
