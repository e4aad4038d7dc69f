// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package config

import (
	"errors"
	"fmt"

	"github.com/tomtom215/runestatus-sync/internal/validation"
)

// Validate checks struct rules and the cross-field constraints tags cannot express.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if c.API.Enabled && c.API.ListenAddr == "" {
		return errors.New("api.listen_addr is required when api.enabled is true")
	}
	return c.validateAuthHeader()
}

// validateAuthHeader rejects half-configured static auth.
func (c *Config) validateAuthHeader() error {
	hasHeader := c.Transport.AuthHeader != ""
	hasToken := c.Transport.AuthToken != ""
	if hasHeader != hasToken {
		return errors.New("transport.auth_header and transport.auth_token must be set together")
	}
	if hasHeader && !validHeaderName(c.Transport.AuthHeader) {
		return fmt.Errorf("transport.auth_header %q is not a valid header name", c.Transport.AuthHeader)
	}
	return nil
}

// validHeaderName reports whether name uses only RFC 7230 token characters.
func validHeaderName(name string) bool {
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-' || c == '_' || c == '.' || c == '!' || c == '#' || c == '$' ||
			c == '%' || c == '&' || c == '\'' || c == '*' || c == '+' || c == '^' ||
			c == '`' || c == '|' || c == '~':
		default:
			return false
		}
	}
	return name != ""
}
