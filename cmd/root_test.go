package cmd

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel(t *testing.T) {
	flags := rootCmd.PersistentFlags()
	defer func() { _ = flags.Set("log-level", "warning") }()

	assert.Equal(t, logrus.WarnLevel, newLogger(false).GetLevel())
	require.NoError(t, flags.Set("log-level", "info"))
	assert.Equal(t, logrus.InfoLevel, newLogger(false).GetLevel())
	assert.Equal(t, logrus.DebugLevel, newLogger(true).GetLevel())
	require.NoError(t, flags.Set("log-level", "loud"))
	assert.Equal(t, logrus.WarnLevel, newLogger(false).GetLevel())
}
