/*
DESCRIPTION
  options.go provides option functions for configuring parameter set parsing.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package h264dec

import (
	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// Option configures a parse. An Option returning an error aborts the parse
// before any bits are read.
type Option func(*parseConfig) error

// parseConfig holds the settings applied by Options.
type parseConfig struct {
	// log, if not nil, receives debug messages describing parse progress.
	log logging.Logger

	// strict, if true, causes malformed rbsp_trailing_bits to fail the parse.
	strict bool
}

var errNilLogger = errors.New("nil logger")

// WithLogger returns an Option that sets the logger used to report parsing
// progress. Messages are only logged at the debug level.
func WithLogger(l logging.Logger) Option {
	return func(c *parseConfig) error {
		if l == nil {
			return errNilLogger
		}
		c.log = l
		return nil
	}
}

// StrictTrailingBits returns an Option that makes a malformed
// rbsp_trailing_bits structure a parse failure. By default trailing bits are
// checked but a malformation is only logged.
func StrictTrailingBits() Option {
	return func(c *parseConfig) error {
		c.strict = true
		return nil
	}
}

// newParseConfig applies opts to a default parseConfig.
func newParseConfig(opts []Option) (*parseConfig, error) {
	c := &parseConfig{}
	for _, opt := range opts {
		err := opt(c)
		if err != nil {
			return nil, errors.Wrap(err, "option failed")
		}
	}
	return c, nil
}

// debug logs msg at the debug level if a logger has been set.
func (c *parseConfig) debug(msg string, args ...interface{}) {
	if c.log == nil {
		return
	}
	c.log.Debug(msg, args...)
}
