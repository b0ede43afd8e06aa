// SPDX-FileCopyrightText: 2026 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/xmidt-org/arrange"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

var errNoTemplate = errors.New("a template file is required")

// options are the command line values that live outside of viper.
type options struct {
	template string
	version  bool
}

func setupFlagSet(fs *pflag.FlagSet) {
	fs.StringP("file", "f", "", "the configuration file to use.  Overrides the search path.")
	fs.StringP("template", "t", "", "the metadata template to save, as JSON or YAML.")
	fs.StringP("env", "e", ".env", "an optional dotenv file loaded before configuration.")
	fs.BoolP("debug", "d", false, "enables debug logging.  Overrides configuration.")
	fs.BoolP("version", "v", false, "print version and exit")
}

func setup(args []string) (*viper.Viper, *zap.Logger, options, error) {
	var o options
	l, err := zap.NewDevelopment() // initial value
	if err != nil {
		return nil, l, o, fmt.Errorf("failed to create zap logger: %w", err)
	}

	fs := pflag.NewFlagSet(applicationName, pflag.ContinueOnError)
	setupFlagSet(fs)
	err = fs.Parse(args)
	if err != nil {
		return nil, l, o, fmt.Errorf("failed to parse args: %w", err)
	}
	if o.version, _ = fs.GetBool("version"); o.version {
		return nil, l, o, nil
	}
	if o.template, _ = fs.GetString("template"); len(o.template) < 1 {
		return nil, l, o, errNoTemplate
	}

	env, _ := fs.GetString("env")
	if err = loadEnv(env); err != nil {
		return nil, l, o, fmt.Errorf("failed to load env file: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(applicationName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file, _ := fs.GetString("file"); len(file) > 0 {
		v.SetConfigFile(file)
		err = v.ReadInConfig()
	} else {
		v.SetConfigName(applicationName)
		v.AddConfigPath(fmt.Sprintf("/etc/%s", applicationName))
		v.AddConfigPath(fmt.Sprintf("$HOME/.%s", applicationName))
		v.AddConfigPath(".")
		err = v.ReadInConfig()
	}
	if err != nil {
		return v, l, o, fmt.Errorf("failed to read config file: %w", err)
	}

	if debug, _ := fs.GetBool("debug"); debug {
		logging := v.GetStringMap("logging")
		logging["level"] = "DEBUG"
		v.Set("logging", logging)
	}

	var c sallust.Config
	err = v.UnmarshalKey("logging", &c, arrange.ComposeDecodeHooks(sallust.DecodeHook))
	if err != nil {
		return v, l, o, err
	}

	l, err = c.Build()
	return v, l, o, err
}

// loadEnv loads name into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadEnv(name string) error {
	if len(name) < 1 {
		return nil
	}
	if err := godotenv.Load(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func printVersionInfo(w io.Writer) {
	fmt.Fprintf(w, "%s:\n", applicationName)
	fmt.Fprintf(w, "  version: \t%s\n", Version)
	fmt.Fprintf(w, "  go version: \t%s\n", runtime.Version())
	fmt.Fprintf(w, "  built time: \t%s\n", BuildTime)
	fmt.Fprintf(w, "  git commit: \t%s\n", GitCommit)
	fmt.Fprintf(w, "  os/arch: \t%s/%s\n", runtime.GOOS, runtime.GOARCH)
}
