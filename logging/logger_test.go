package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainFormatter(t *testing.T) {
	var buf bytes.Buffer
	cfg := GetDefaultConfig()
	logger := cfg.CreateLoggerWithOutput(&buf, false, false)

	logger.WithFields(logrus.Fields{"part": 2, "name": "Elbe"}).Infof("LABELS: placed %d", 1)

	line := buf.String()
	assert.Regexp(t, `^INFO \d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} LABELS: placed 1 name=Elbe part=2\n$`, line)
}

func TestPlainFormatter_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := GetDefaultConfig()
	logger := cfg.CreateLoggerWithOutput(&buf, false, false)
	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	cfg.Debug = true
	logger = cfg.CreateLoggerWithOutput(&buf, false, false)
	logger.Debug("shown")
	assert.Contains(t, buf.String(), "DEBG ")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := GetDefaultConfig()
	cfg.Format = FORMAT_JSON
	logger := cfg.CreateLoggerWithOutput(&buf, false, false)

	logger.WithField("batch", "abc").Warn("IMPORT: skipped")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "warning", decoded["level"])
	assert.Equal(t, "IMPORT: skipped", decoded["msg"])
	assert.Equal(t, "abc", decoded["batch"])
}

func TestFileOutput(t *testing.T) {
	var buf bytes.Buffer
	cfg := GetDefaultConfig()
	cfg.Filename = filepath.Join(t.TempDir(), "riverlabel.log")
	logger := cfg.CreateLoggerWithOutput(&buf, false, false)

	logger.Info("STARTUP: hello")

	contents, err := os.ReadFile(cfg.Filename)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "STARTUP: hello")
	assert.Contains(t, buf.String(), "STARTUP: hello")
}

func TestConfig_Validate(t *testing.T) {
	cfg := GetDefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Format = "xml"
	assert.ErrorContains(t, cfg.Validate(), "invalid logging format")

	cfg = GetDefaultConfig()
	cfg.Filename = "x.log"
	cfg.MaxSizeMB = 0
	assert.Error(t, cfg.Validate())
}
