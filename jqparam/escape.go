// SPDX-FileCopyrightText: 2026 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package jqparam

import (
	"net/url"
	"strings"
)

// query escaping leaves these characters readable, the same way browsers'
// form serializers do.
var unescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
	"%40", "@",
	"%3A", ":",
	"%24", "$",
	"%2C", ",",
	"%3B", ";",
)

func escape(s string) string {
	return unescaper.Replace(url.QueryEscape(s))
}
