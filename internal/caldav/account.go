package caldav

import (
	"context"
	"fmt"

	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"

	"github.com/modelcal/caldav-mcp/internal/config"
	"github.com/modelcal/caldav-mcp/internal/logging"
)

// Account is a connected CalDAV account with its discovered calendars.
type Account struct {
	name     string
	baseURL  string
	username string
	password string

	client    *caldav.Client
	calendars []CalendarInfo
	logger    logging.Logger
}

// NewAccount creates an unconnected account from its configuration.
// A nil logger falls back to the default slog logger.
func NewAccount(cfg config.AccountConfig, logger logging.Logger) *Account {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &Account{
		name:     cfg.Name,
		baseURL:  cfg.BaseURL,
		username: cfg.Username,
		password: cfg.Password,
		logger:   logger,
	}
}

// Name returns the configured account name.
func (a *Account) Name() string {
	return a.name
}

// BaseURL returns the configured CalDAV server URL.
func (a *Account) BaseURL() string {
	return a.baseURL
}

// Connect authenticates against the CalDAV server and discovers the
// account's calendars via the principal and calendar home set.
func (a *Account) Connect(ctx context.Context) error {
	a.logger.Info("connecting to CalDAV account",
		logging.KeyAccount, a.name,
		"base_url", a.baseURL)

	httpClient := webdav.HTTPClientWithBasicAuth(nil, a.username, a.password)
	client, err := caldav.NewClient(httpClient, a.baseURL)
	if err != nil {
		return fmt.Errorf("failed to create CalDAV client for %s: %w", a.name, err)
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return fmt.Errorf("failed to find principal for %s: %w", a.name, err)
	}

	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return fmt.Errorf("failed to find calendar home set for %s: %w", a.name, err)
	}

	calendars, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return fmt.Errorf("failed to list calendars for %s: %w", a.name, err)
	}

	a.client = client
	a.calendars = a.calendars[:0]
	for _, cal := range calendars {
		name := cal.Name
		if name == "" {
			name = "Unnamed Calendar"
		}
		a.calendars = append(a.calendars, CalendarInfo{
			Name:        name,
			URL:         cal.Path,
			Description: cal.Description,
			Account:     a.name,
		})
	}

	a.logger.Info("connected to CalDAV account",
		logging.KeyAccount, a.name,
		"calendars", len(a.calendars))
	return nil
}

// Calendars returns the calendars discovered by Connect.
func (a *Account) Calendars() []CalendarInfo {
	return a.calendars
}

// calendarPath resolves a calendar URL or path against the discovered
// calendars and returns the server-relative path.
func (a *Account) calendarPath(calendarURL string) (string, bool) {
	want := NormalizeURL(calendarURL)
	for _, cal := range a.calendars {
		if NormalizeURL(cal.URL) == want {
			return cal.URL, true
		}
	}
	return "", false
}

// Registry holds every configured account and routes calendar URLs to the
// account that owns them.
type Registry struct {
	accounts []*Account
	logger   logging.Logger
}

// NewRegistry creates a registry of unconnected accounts.
func NewRegistry(configs []config.AccountConfig, logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	r := &Registry{logger: logger}
	for _, cfg := range configs {
		r.accounts = append(r.accounts, NewAccount(cfg, logger))
	}
	return r
}

// Connect connects every account. Accounts that fail are logged and
// skipped; an error is returned only when no account could be connected.
func (r *Registry) Connect(ctx context.Context) error {
	connected := 0
	var lastErr error
	for _, acct := range r.accounts {
		if err := acct.Connect(ctx); err != nil {
			r.logger.Error("failed to connect CalDAV account",
				logging.KeyAccount, acct.Name(),
				logging.KeyError, err.Error())
			lastErr = err
			continue
		}
		connected++
	}
	if connected == 0 {
		if lastErr != nil {
			return fmt.Errorf("no CalDAV account could be connected: %w", lastErr)
		}
		return fmt.Errorf("no CalDAV accounts configured")
	}
	return nil
}

// Accounts returns the registered accounts.
func (r *Registry) Accounts() []*Account {
	return r.accounts
}

// Calendars returns the calendars of all connected accounts.
func (r *Registry) Calendars() []CalendarInfo {
	var out []CalendarInfo
	for _, acct := range r.accounts {
		out = append(out, acct.Calendars()...)
	}
	return out
}

// AccountFor returns the connected account that owns the given calendar URL.
func (r *Registry) AccountFor(calendarURL string) (*Account, error) {
	for _, acct := range r.accounts {
		if _, ok := acct.calendarPath(calendarURL); ok {
			return acct, nil
		}
	}
	return nil, fmt.Errorf("calendar not found: %s", calendarURL)
}
