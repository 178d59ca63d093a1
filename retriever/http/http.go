// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package http implements a [referencing.Retriever] for "http://" and
// "https://" URIs.
package http

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Retriever fetches schema documents over HTTP(S) using an
// *http.Client. The zero value uses http.DefaultClient.
type Retriever struct {
	Client *http.Client
}

func (r Retriever) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return http.DefaultClient
}

// Retrieve implements referencing.Retriever.
func (r Retriever) Retrieve(uri string) (any, error) {
	resp, err := r.client().Get(uri)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status code %d", uri, resp.StatusCode)
	}
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	var doc any
	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}
