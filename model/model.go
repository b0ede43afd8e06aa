// SPDX-FileCopyrightText: 2026 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package model

// MetadataTemplate is a named, ordered selection of sample metadata fields
// used to lay out a project line list.
type MetadataTemplate struct {
	// ID identifies a template that already exists on the server. It is left
	// out of requests when zero so that saving creates a new template.
	ID int64 `json:"id,omitempty" yaml:"id,omitempty" form:"id,omitempty"`

	// Name is how users refer to the template.
	Name string `json:"name" yaml:"name" form:"name"`

	// Fields are the metadata field labels in display order.
	Fields []string `json:"fields" yaml:"fields" form:"fields"`
}
