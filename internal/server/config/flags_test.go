package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected func() Config
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "127.0.0.1:9090", "-d", "sqlite://x.db", "-s", "secret", "-t", "5", "-b", "12", "-l", "error"},
			expected: func() Config {
				c := defaults()
				c.Addr = "127.0.0.1:9090"
				c.DatabaseDSN = "sqlite://x.db"
				c.SecretKey = "secret"
				c.TokenTTL = 5 * time.Minute
				c.BcryptCost = 12
				c.LogLevel = "error"
				return c
			},
		},
		{
			name:     "foreign flags ignored",
			args:     []string{"-c", "cfg.json", "-x", "1", "-verbose"},
			expected: defaults,
		},
		{
			name:    "bad int",
			args:    []string{"-b", "many"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t, tt.args...)

			c := defaults()
			err := parseFlags(&c)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected(), c))
		})
	}
}

func TestParseFlags_KeepsSubMinuteTTLWithoutFlag(t *testing.T) {
	isolate(t)
	os.Args = []string{"testbin", "-a", ":1"}

	c := defaults()
	c.TokenTTL = 90 * time.Second
	require.NoError(t, parseFlags(&c))
	assert.Equal(t, 90*time.Second, c.TokenTTL)
}
