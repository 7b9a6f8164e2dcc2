package cmd

import (
	"bytes"
	"testing"

	"github.com/nfrund/authform/internal/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestCheckPassword(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		out, err := run(t, "check-password", "Abcdef1!")
		require.NoError(t, err)
		assert.Equal(t, "valid\n", out)
	})

	t.Run("reports first failing rule", func(t *testing.T) {
		out, err := run(t, "check-password", "abcdefgh")
		require.Error(t, err)
		assert.Contains(t, out, form.MsgUppercase)
	})

	t.Run("requires an argument", func(t *testing.T) {
		_, err := run(t, "check-password")
		assert.Error(t, err)
	})
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "authform v"+version+"\n", out)
}
