// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command seqsim runs clocked logic circuits described in YAML files and
// inspects raw memory images.
//
package main

import (
	"fmt"
	"os"

	"github.com/db47h/seqsim/mem"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type logOptions struct {
	level string
	json  bool
}

func (o *logOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.level, "log-level", "info", "log level (trace, debug, info, warn, error)")
	fs.BoolVar(&o.json, "log-json", false, "log in JSON format")
}

func (o *logOptions) setup() error {
	lvl, err := logrus.ParseLevel(o.level)
	if err != nil {
		return errors.Wrap(err, "log-level")
	}
	l := logrus.StandardLogger()
	l.SetLevel(lvl)
	if o.json {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	mem.SetLogger(l.WithField("pkg", "mem"))
	return nil
}

func newRootCmd() *cobra.Command {
	var lo logOptions
	cmd := &cobra.Command{
		Use:           "seqsim",
		Short:         "Clocked logic simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return lo.setup()
		},
	}
	lo.addFlags(cmd.PersistentFlags())
	cmd.AddCommand(newRunCmd(), newImageCmd())
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "seqsim:", err)
		os.Exit(1)
	}
}
