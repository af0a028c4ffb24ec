package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
)

// levels are the log levels a command may be started with. Panic and fatal
// levels are not among them.
var levels = []zapcore.Level{
	zapcore.DebugLevel,
	zapcore.InfoLevel,
	zapcore.WarnLevel,
	zapcore.ErrorLevel,
}

// LevelFlag is a pflag.Value storing a log level in Level. Parsing is case
// insensitive.
type LevelFlag struct {
	Level *zapcore.Level
}

var _ pflag.Value = LevelFlag{}

func (f LevelFlag) String() string {
	if f.Level == nil {
		return ""
	}
	return f.Level.String()
}

func (f LevelFlag) Set(s string) error {
	l, err := zapcore.ParseLevel(strings.TrimSpace(s))
	if err != nil || !slices.Contains(levels, l) {
		names := make([]string, len(levels))
		for i, l := range levels {
			names[i] = l.String()
		}
		return fmt.Errorf("unknown log level %q; supported levels are %s", s, strings.Join(names, ", "))
	}
	*f.Level = l
	return nil
}

func (LevelFlag) Type() string {
	return "level"
}

// LevelVar registers a log level flag on fs, storing the parsed level in p.
func LevelVar(fs *pflag.FlagSet, p *zapcore.Level, name string, value zapcore.Level, usage string) {
	LevelVarP(fs, p, name, "", value, usage)
}

// LevelVarP is LevelVar with a one letter shorthand.
func LevelVarP(fs *pflag.FlagSet, p *zapcore.Level, name, shorthand string, value zapcore.Level, usage string) {
	*p = value
	fs.VarP(LevelFlag{Level: p}, name, shorthand, usage)
}
