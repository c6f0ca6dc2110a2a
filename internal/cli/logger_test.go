package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerWithWriter_Levels(t *testing.T) {
	tests := []struct {
		name          string
		verbose       bool
		quiet         bool
		expectedLevel zerolog.Level
	}{
		{"default is info level", false, false, zerolog.InfoLevel},
		{"verbose is debug level", true, false, zerolog.DebugLevel},
		{"quiet is warn level", false, true, zerolog.WarnLevel},
		{"verbose wins over quiet", true, true, zerolog.DebugLevel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := InitLoggerWithWriter(tc.verbose, tc.quiet, &buf)
			assert.Equal(t, tc.expectedLevel, logger.GetLevel())
		})
	}
}

func TestInitLoggerWithWriter_FlagsSensitiveMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLoggerWithWriter(false, false, &buf)

	logger.Info().Msg("using AKIA" + "TESTONLYEXAMPLE7")
	assert.Contains(t, buf.String(), `"contains_filtered_data":true`)
}

func TestInitLogger_WritesFilteredLogFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("FLOWSYNTH_HOME", home)
	t.Cleanup(CloseLogFile)

	logger := InitLogger(false, false)
	logger.Info().Str("key", "AKIA"+"TESTONLYEXAMPLE7").Msg("loaded credentials")
	CloseLogFile()

	data, err := os.ReadFile(filepath.Join(home, "logs", "flowsynth.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "loaded credentials")
	assert.Contains(t, string(data), "[REDACTED]")
	assert.NotContains(t, string(data), "TESTONLYEXAMPLE7")
}

func TestLogFilePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("FLOWSYNTH_HOME", "")
	t.Setenv("HOME", home)

	path, err := LogFilePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".flowsynth", "logs", "flowsynth.log"), path)

	t.Setenv("FLOWSYNTH_HOME", "/custom")
	path, err = LogFilePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/custom", "logs", "flowsynth.log"), path)
}

func TestGetLogger_AfterCommand(t *testing.T) {
	setupProject(t, nil)

	_, _, err := runCLI(t, "validate", "--verbose")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, GetLogger().GetLevel())
}
