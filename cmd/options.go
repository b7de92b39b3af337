// Copyright © 2024 The ELPS authors

package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Option configures an exported command factory (ServeCommand,
// LocateCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	fs  afero.Fs
	log logrus.FieldLogger
}

// WithFs sets the filesystem traces, templates and source files are read
// from. The OS filesystem is used by default.
func WithFs(fs afero.Fs) Option {
	return func(c *cmdConfig) { c.fs = fs }
}

// WithLogger sets the logger of the serve command. The logrus standard
// logger is used by default.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *cmdConfig) { c.log = log }
}

func newCmdConfig(opts []Option) *cmdConfig {
	c := &cmdConfig{}
	for _, opt := range opts {
		opt(c)
	}
	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	return c
}
