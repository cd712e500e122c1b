package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("BUDGET_PATH_TEST", "/srv/budget")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"home", "~", home},
		{"home prefix", "~/ledger.db", filepath.Join(home, "ledger.db")},
		{"env var", "$BUDGET_PATH_TEST/ledger.db", "/srv/budget/ledger.db"},
		{"plain", "/var/lib/budget.db", "/var/lib/budget.db"},
		{"tilde inside", "/tmp/~x", "/tmp/~x"},
		{"tilde user form is not expanded", "~bob/ledger.db", "~bob/ledger.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func withoutHome(t *testing.T) {
	t.Helper()
	orig := userHomeDir
	userHomeDir = func() (string, error) { return "", errors.New("$HOME is not defined") }
	t.Cleanup(func() { userHomeDir = orig })
}

func TestExpandPath_NoHome(t *testing.T) {
	withoutHome(t)

	_, err := ExpandPath("~/ledger.db")
	require.ErrorIs(t, err, ErrNoHome)

	got, err := ExpandPath("/var/lib/budget.db")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/budget.db", got)
}

func TestLoad_UnresolvableHome(t *testing.T) {
	withoutHome(t)

	v := viper.New()
	v.Set("storage.path", "~/ledger.db")
	_, err := Load(v)
	require.ErrorIs(t, err, common.ErrInvalidConfig)
	require.ErrorIs(t, err, ErrNoHome)

	v = viper.New()
	_, err = Load(v)
	require.ErrorIs(t, err, ErrNoHome, "the default location lives under the home directory too")
}
