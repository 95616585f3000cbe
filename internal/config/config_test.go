package config

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearAccountEnv unsets every account variable so tests do not pick up
// credentials from the invoking shell. t.Setenv registers the restore and
// marks the test as incompatible with t.Parallel.
func clearAccountEnv(t *testing.T) {
	t.Helper()
	unset := func(key string) {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	for _, suffix := range []string{"BASE_URL", "USERNAME", "PASSWORD", "NAME"} {
		unset("CALDAV_" + suffix)
		for i := 1; i <= maxAccounts; i++ {
			unset(fmt.Sprintf("CALDAV_%d_%s", i, suffix))
		}
	}
}

func TestParseAccountsNumbered(t *testing.T) {
	clearAccountEnv(t)
	t.Setenv("CALDAV_1_BASE_URL", "https://dav.example.com")
	t.Setenv("CALDAV_1_USERNAME", "alice")
	t.Setenv("CALDAV_1_PASSWORD", "secret")
	t.Setenv("CALDAV_1_NAME", "Personal")
	t.Setenv("CALDAV_3_BASE_URL", "https://dav.work.example.com")
	t.Setenv("CALDAV_3_USERNAME", "alice@work")
	t.Setenv("CALDAV_3_PASSWORD", "hunter2")

	accounts, err := ParseAccounts()
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	assert.Equal(t, "Personal", accounts[0].Name)
	assert.Equal(t, "https://dav.example.com", accounts[0].BaseURL)

	// Gaps in the numbering are allowed; the unnamed slot gets a default.
	assert.Equal(t, "Account 3", accounts[1].Name)
	assert.Equal(t, "alice@work", accounts[1].Username)
}

func TestParseAccountsIncompleteSlotSkipped(t *testing.T) {
	clearAccountEnv(t)
	t.Setenv("CALDAV_1_BASE_URL", "https://dav.example.com")
	t.Setenv("CALDAV_1_USERNAME", "alice")
	// Password missing: slot is not configured.

	_, err := ParseAccounts()
	assert.ErrorIs(t, err, ErrNoAccounts)
}

func TestParseAccountsLegacyFallback(t *testing.T) {
	clearAccountEnv(t)
	t.Setenv("CALDAV_BASE_URL", "https://dav.example.com")
	t.Setenv("CALDAV_USERNAME", "alice")
	t.Setenv("CALDAV_PASSWORD", "secret")

	accounts, err := ParseAccounts()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Default", accounts[0].Name)
}

func TestParseAccountsNumberedShadowsLegacy(t *testing.T) {
	clearAccountEnv(t)
	t.Setenv("CALDAV_BASE_URL", "https://legacy.example.com")
	t.Setenv("CALDAV_USERNAME", "legacy")
	t.Setenv("CALDAV_PASSWORD", "legacy")
	t.Setenv("CALDAV_2_BASE_URL", "https://dav.example.com")
	t.Setenv("CALDAV_2_USERNAME", "alice")
	t.Setenv("CALDAV_2_PASSWORD", "secret")

	accounts, err := ParseAccounts()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "https://dav.example.com", accounts[0].BaseURL)
}

func TestParseAccountsNone(t *testing.T) {
	clearAccountEnv(t)
	_, err := ParseAccounts()
	assert.ErrorIs(t, err, ErrNoAccounts)
}

func TestParseSettingsDefaults(t *testing.T) {
	for _, key := range []string{"HOST", "PORT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	s, err := ParseSettings()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", s.Host)
	assert.Equal(t, 8000, s.Port)
}
