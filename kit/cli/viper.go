package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Opt is a single command-line option
type Opt struct {
	DestP interface{} // pointer to the destination

	Flag     string
	Short    rune
	Desc     string
	Required bool
	// Persistent options are inherited by subcommands.
	Persistent bool

	Default interface{}
}

// NewOpt creates a new command line option.
func NewOpt(destP interface{}, flag string, dflt interface{}, desc string) Opt {
	return Opt{
		DestP:   destP,
		Flag:    flag,
		Default: dflt,
		Desc:    desc,
	}
}

// Program parses CLI options
type Program struct {
	// Run is invoked by cobra on execute. A program without Run only hosts
	// subcommands.
	Run func() error
	// Name is the name of the program in help usage and the env var prefix.
	Name string
	// Opts are the command line/env var options to the program
	Opts []Opt
}

// NewCommand creates a new cobra command to be executed that respects env vars
// and a config file.
//
// Uses the upper-case version of the program's name as a prefix
// to all environment variables. The config file is read from the path in
// <NAME>_CONFIG_PATH, which may be a file or a directory holding
// config.json, config.toml or config.yaml; without it, the working
// directory is searched.
//
// This is to simplify the viper/cobra boilerplate.
func NewCommand(v *viper.Viper, p *Program) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:  p.Name,
		Args: cobra.NoArgs,
	}
	if p.Run != nil {
		cmd.RunE = func(_ *cobra.Command, _ []string) error {
			return p.Run()
		}
	}

	v.SetEnvPrefix(strings.ToUpper(p.Name))
	v.AutomaticEnv()
	// This normalizes "-" to an underscore in env names.
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if err := initializeConfig(v, strings.ToUpper(p.Name)+"_CONFIG_PATH"); err != nil {
		return nil, err
	}

	if err := BindOptions(v, cmd, p.Opts); err != nil {
		return nil, err
	}
	return cmd, nil
}

func initializeConfig(v *viper.Viper, pathEnv string) error {
	configPath := os.Getenv(pathEnv)
	if configPath == "" {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	} else if fi, err := os.Stat(configPath); err == nil && fi.IsDir() {
		v.SetConfigName("config")
		v.AddConfigPath(configPath)
	} else {
		v.SetConfigFile(filepath.Clean(configPath))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// BindOptions adds opts to the specified command and automatically
// registers those options with viper.
func BindOptions(v *viper.Viper, cmd *cobra.Command, opts []Opt) error {
	for _, o := range opts {
		flags := cmd.Flags()
		if o.Persistent {
			flags = cmd.PersistentFlags()
		}
		var short string
		if o.Short != 0 {
			short = string(o.Short)
		}

		switch destP := o.DestP.(type) {
		case *string:
			var d string
			if o.Default != nil {
				d = o.Default.(string)
			}
			flags.StringVarP(destP, o.Flag, short, d, o.Desc)
			mustBindPFlag(v, o.Flag, flags)
			*destP = v.GetString(o.Flag)
		case *int:
			var d int
			if o.Default != nil {
				d = o.Default.(int)
			}
			flags.IntVarP(destP, o.Flag, short, d, o.Desc)
			mustBindPFlag(v, o.Flag, flags)
			*destP = v.GetInt(o.Flag)
		case *int32:
			var d int32
			switch dflt := o.Default.(type) {
			case int32:
				d = dflt
			case int:
				d = int32(dflt)
			}
			flags.Int32VarP(destP, o.Flag, short, d, o.Desc)
			mustBindPFlag(v, o.Flag, flags)
			*destP = v.GetInt32(o.Flag)
		case *int64:
			var d int64
			switch dflt := o.Default.(type) {
			case int64:
				d = dflt
			case int:
				d = int64(dflt)
			}
			flags.Int64VarP(destP, o.Flag, short, d, o.Desc)
			mustBindPFlag(v, o.Flag, flags)
			*destP = v.GetInt64(o.Flag)
		case *bool:
			var d bool
			if o.Default != nil {
				d = o.Default.(bool)
			}
			flags.BoolVarP(destP, o.Flag, short, d, o.Desc)
			mustBindPFlag(v, o.Flag, flags)
			*destP = v.GetBool(o.Flag)
		case *time.Duration:
			var d time.Duration
			if o.Default != nil {
				d = o.Default.(time.Duration)
			}
			flags.DurationVarP(destP, o.Flag, short, d, o.Desc)
			mustBindPFlag(v, o.Flag, flags)
			*destP = v.GetDuration(o.Flag)
		case *[]string:
			var d []string
			if o.Default != nil {
				d = o.Default.([]string)
			}
			flags.StringSliceVarP(destP, o.Flag, short, d, o.Desc)
			mustBindPFlag(v, o.Flag, flags)
			*destP = v.GetStringSlice(o.Flag)
		case *zapcore.Level:
			var d zapcore.Level
			if o.Default != nil {
				d = o.Default.(zapcore.Level)
			}
			LevelVarP(flags, destP, o.Flag, short, d, o.Desc)
			mustBindPFlag(v, o.Flag, flags)
			if v.IsSet(o.Flag) {
				if err := (LevelFlag{Level: destP}).Set(v.GetString(o.Flag)); err != nil {
					return fmt.Errorf("invalid value for %s: %w", o.Flag, err)
				}
			}
		case pflag.Value:
			if o.Default != nil {
				if err := destP.Set(o.Default.(string)); err != nil {
					return err
				}
			}
			flags.VarP(destP, o.Flag, short, o.Desc)
			mustBindPFlag(v, o.Flag, flags)
			if v.IsSet(o.Flag) {
				if err := destP.Set(v.GetString(o.Flag)); err != nil {
					return fmt.Errorf("invalid value for %s: %w", o.Flag, err)
				}
			}
		default:
			// if you get a panic here, sorry about that!
			// anyway, go ahead and make a PR and add another type.
			return fmt.Errorf("unknown destination type %T", o.DestP)
		}

		// A value from the environment or the config file satisfies a
		// required flag.
		if o.Required && !v.IsSet(o.Flag) {
			if o.Persistent {
				if err := cmd.MarkPersistentFlagRequired(o.Flag); err != nil {
					return err
				}
			} else if err := cmd.MarkFlagRequired(o.Flag); err != nil {
				return err
			}
		}
	}
	return nil
}

func mustBindPFlag(v *viper.Viper, key string, flags *pflag.FlagSet) {
	if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
		panic(err)
	}
}
