// SPDX-FileCopyrightText: 2026 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/xmidt-org/linelist/model"
)

// loadTemplate reads a metadata template from a JSON or YAML file, chosen by
// extension.
func loadTemplate(path string) (model.MetadataTemplate, error) {
	var t model.MetadataTemplate
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("failed to read template: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &t)
	case ".json":
		err = json.Unmarshal(data, &t)
	default:
		return t, fmt.Errorf("unsupported template file %q: expected .json, .yaml or .yml", path)
	}
	if err != nil {
		return t, fmt.Errorf("failed to decode template %s: %w", path, err)
	}
	return t, nil
}
