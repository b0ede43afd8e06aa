// SPDX-FileCopyrightText: 2026 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

var (
	placeholderRegex = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)
	extensionRegex   = regexp.MustCompile(`/\.([A-Za-z0-9_]+)$`)
	slashesRegex     = regexp.MustCompile(`/{2,}`)
)

// route is a URL template with :name placeholders in its path, such as
// /api/templates/:id.
type route struct {
	origin              string
	path                string
	query               string
	keepTrailingSlashes bool
}

func parseRoute(template, address string, keepTrailingSlashes bool) (route, error) {
	if len(strings.TrimSpace(template)) < 1 {
		return route{}, ErrURLEmpty
	}

	u, err := url.Parse(template)
	if err != nil {
		return route{}, fmt.Errorf(errWrappedFmt, ErrInvalidURL, err.Error())
	}

	r := route{keepTrailingSlashes: keepTrailingSlashes}
	rest := template
	if u.IsAbs() {
		if len(u.Host) < 1 {
			return route{}, fmt.Errorf(errWrappedFmt, ErrInvalidURL, template)
		}
		r.origin = u.Scheme + "://" + u.Host
		rest = strings.TrimPrefix(template, r.origin)
	} else if len(address) > 0 {
		r.origin = strings.TrimRight(address, "/")
		if !strings.HasPrefix(rest, "/") {
			rest = "/" + rest
		}
	}

	if i := strings.IndexByte(rest, '#'); i >= 0 {
		rest = rest[:i]
	}
	r.path, r.query, _ = strings.Cut(rest, "?")
	return r, nil
}

// expand fills in the placeholders. Placeholders without a value are removed
// along with the slash before them. Values left over are added to the query
// string unless they were taken from the entity.
func (r route) expand(p resolvedParams) string {
	used := map[string]bool{}
	path := placeholderRegex.ReplaceAllStringFunc(r.path, func(m string) string {
		name := m[1:]
		used[name] = true
		if v, ok := p.values[name]; ok {
			return url.PathEscape(v)
		}
		return ""
	})

	path = slashesRegex.ReplaceAllString(path, "/")
	path = extensionRegex.ReplaceAllString(path, ".$1")
	if !r.keepTrailingSlashes {
		path = strings.TrimRight(path, "/")
	}

	var names []string
	for name := range p.values {
		if !used[name] && !p.derived[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	query := r.query
	if len(names) > 0 {
		extra := url.Values{}
		for _, name := range names {
			extra.Set(name, p.values[name])
		}
		if len(query) > 0 {
			query += "&"
		}
		query += extra.Encode()
	}

	u := r.origin + path
	if len(query) > 0 {
		u += "?" + query
	}
	return u
}

func (r route) String() string {
	s := r.origin + r.path
	if len(r.query) > 0 {
		s += "?" + r.query
	}
	return s
}
