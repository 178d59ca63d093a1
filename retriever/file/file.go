// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package file implements a [referencing.Retriever] for "file://" URIs
// and bare filesystem paths, decoding either JSON or YAML documents.
package file

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Retriever reads schema documents from the local filesystem. The zero
// value is ready to use.
type Retriever struct{}

// Retrieve implements referencing.Retriever. uri is expected to be a
// "file://" URI (as produced by referencing.PathToURI) or a bare path;
// the document is decoded as YAML when its extension is ".yaml" or
// ".yml", JSON otherwise -- YAML is a superset of JSON, so plain JSON
// files decode the same way either way.
func (Retriever) Retrieve(uri string) (any, error) {
	path, err := toFilePath(uri)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decode(path, data)
}

func toFilePath(uri string) (string, error) {
	if !strings.Contains(uri, "://") {
		return uri, nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("file retriever: unsupported scheme %q", u.Scheme)
	}
	path := u.Path
	if runtime.GOOS == "windows" {
		path = strings.TrimPrefix(path, "/")
		path = filepath.FromSlash(path)
	}
	return path, nil
}

func decode(path string, data []byte) (any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return normalizeYAML(doc), nil
	default:
		decoder := json.NewDecoder(strings.NewReader(string(data)))
		decoder.UseNumber()
		var doc any
		if err := decoder.Decode(&doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
}

// normalizeYAML walks the value gopkg.in/yaml.v3 decoded, recursing
// through map[string]any and []any and storing each child back in
// place. It converts nothing: any other value, including a map[any]any
// produced for a mapping with non-string keys and yaml.v3's own number
// types, is returned as it is.
func normalizeYAML(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		for k, val := range vv {
			vv[k] = normalizeYAML(val)
		}
		return vv
	case []any:
		for i, val := range vv {
			vv[i] = normalizeYAML(val)
		}
		return vv
	default:
		return v
	}
}
