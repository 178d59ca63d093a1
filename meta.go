// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package referencing

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sync"
)

//go:embed metaschemas
var metaFS embed.FS

// metaSchemaPaths maps each [Draft] to its embedded meta-schema file.
var metaSchemaPaths = map[Draft]string{
	Draft4:    "metaschemas/draft4.json",
	Draft6:    "metaschemas/draft6.json",
	Draft7:    "metaschemas/draft7.json",
	Draft2019: "metaschemas/draft2019.json",
	Draft2020: "metaschemas/draft2020.json",
}

var (
	metaOnce  sync.Once
	metaByURI map[string]any
	metaErr   error
)

// loadMetaSchemas parses every embedded meta-schema exactly once
// (spec.md §4.4: "a process-wide, lazily-initialized table"), indexing
// each by every URI it is known under (its own "$id" plus, for
// draft6/7, both the http and https spellings already covered by
// metaSchemaURIs).
func loadMetaSchemas() (map[string]any, error) {
	metaOnce.Do(func() {
		table := make(map[string]any)
		for draft, path := range metaSchemaPaths {
			doc, err := parseMetaSchemaFile(path)
			if err != nil {
				metaErr = fmt.Errorf("loading meta-schema for %s: %w", draft, err)
				return
			}
			for uri, d := range metaSchemaURIs {
				if d == draft {
					table[uri] = doc
				}
			}
		}
		metaByURI = table
	})
	return metaByURI, metaErr
}

func parseMetaSchemaFile(path string) (any, error) {
	f, err := metaFS.Open(path)
	if err != nil {
		if fs.ErrNotExist == err {
			return nil, err
		}
		return nil, err
	}
	defer f.Close()
	decoder := json.NewDecoder(f)
	decoder.UseNumber()
	var doc any
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// lookupMetaSchema returns the decoded contents of the built-in
// meta-schema known under uri, if any.
func lookupMetaSchema(uri string) (any, bool) {
	table, err := loadMetaSchemas()
	if err != nil {
		return nil, false
	}
	doc, ok := table[uri]
	return doc, ok
}

// isMetaSchemaURI reports whether uri names one of the built-in
// meta-schemas this registry ships.
func isMetaSchemaURI(uri string) bool {
	_, ok := metaSchemaURIs[uri]
	return ok
}
