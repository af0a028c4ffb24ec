package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/flowgraph/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestConfig_New(t *testing.T) {
	tests := []struct {
		format string
		check  func(t *testing.T, out string)
	}{
		{
			format: "json",
			check: func(t *testing.T, out string) {
				var entry map[string]interface{}
				require.NoError(t, json.Unmarshal([]byte(out), &entry))
				assert.Equal(t, "info", entry["lvl"])
				assert.Equal(t, "Compiled definition", entry["msg"])
				assert.Equal(t, "1.500ms", entry["took"])
			},
		},
		{
			format: "logfmt",
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "lvl=info")
				assert.Contains(t, out, `msg="Compiled definition"`)
				assert.Contains(t, out, "took=1.500ms")
			},
		},
		{
			// A buffer is not a terminal.
			format: "auto",
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "lvl=info")
			},
		},
		{
			format: "console",
			check: func(t *testing.T, out string) {
				assert.True(t, strings.Contains(out, "info\tCompiled definition"), out)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			config := logger.NewConfig()
			config.Format = tt.format
			log, err := config.New(&buf)
			require.NoError(t, err)

			log.Debug("Filtered out")
			log.Info("Compiled definition", zap.Duration("took", 1500*time.Microsecond))
			require.NoError(t, log.Sync())
			tt.check(t, strings.TrimSpace(buf.String()))
		})
	}
}

func TestConfig_New_UnknownFormat(t *testing.T) {
	config := logger.Config{Format: "xml", Level: zapcore.InfoLevel}
	_, err := config.New(&bytes.Buffer{})
	assert.EqualError(t, err, "unknown logging format: xml")
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf)
	log.Debug("Resolving", zap.String("id", "0000000000001000"))
	assert.Contains(t, buf.String(), "debug\tResolving")
}

func TestContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, logger.FromContext(ctx))
	assert.NotNil(t, logger.FromContextOrNop(ctx))

	log := logger.New(io.Discard)
	ctx = logger.NewContextWithLogger(ctx, log)
	assert.Same(t, log, logger.FromContext(ctx))
	assert.Same(t, log, logger.FromContextOrNop(ctx))
}
