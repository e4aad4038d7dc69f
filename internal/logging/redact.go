// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package logging

import (
	"net/url"
	"strings"
)

// RedactToken masks a credential for logging, keeping only the first four
// characters so two tokens can still be told apart.
//
//	RedactToken("abcd1234efgh") // "abcd********"
func RedactToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + strings.Repeat("*", 8)
}

// RedactURL strips userinfo and query values from raw so endpoints can be
// logged without leaking embedded credentials. Unparseable input is returned
// as "<invalid url>".
func RedactURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	if u.User != nil {
		u.User = url.User("redacted")
	}
	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			q.Set(key, "redacted")
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}
