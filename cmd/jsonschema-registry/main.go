// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command jsonschema-registry builds a [referencing.Registry] from one
// or more schema files and resolves a single reference against it, for
// inspecting how a set of documents wires together without running a
// validator.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	referencing "github.com/santhosh-tekuri/jsonschema-referencing"
	fileretriever "github.com/santhosh-tekuri/jsonschema-referencing/retriever/file"
	httpretriever "github.com/santhosh-tekuri/jsonschema-referencing/retriever/http"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: jsonschema-registry [--ref REF] [--base URI] <schema-file>...")
	pflag.PrintDefaults()
}

func main() {
	ref := pflag.String("ref", "#", "reference to resolve against the base URI, once the registry is built")
	base := pflag.String("base", "", "base URI for resolution (defaults to the first schema file's own URI)")
	asYAML := pflag.Bool("yaml", false, "print the resolved node as YAML instead of JSON")
	pflag.Usage = usage
	pflag.Parse()

	if pflag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	if err := run(pflag.Args(), *base, *ref, *asYAML); err != nil {
		fmt.Fprintln(os.Stderr, "jsonschema-registry:", err)
		os.Exit(1)
	}
}

func run(paths []string, base, ref string, asYAML bool) error {
	retriever := schemeDispatchRetriever{}

	var pairs []referencing.ResourcePair
	var firstURI string
	for _, path := range paths {
		abs, err := absPath(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		uri, err := referencing.PathToURI(abs)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		contents, err := retriever.Retrieve(uri)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		resource, err := referencing.DetectResource(contents)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %s: %v\n", path, err)
		}
		pairs = append(pairs, referencing.ResourcePair{URI: uri, Resource: resource})
		if firstURI == "" {
			firstURI = uri
		}
	}

	if base == "" {
		base = firstURI
	}

	registry, err := referencing.NewRegistryOptions().
		WithRetriever(retriever).
		TryFromResources(pairs)
	if err != nil {
		return fmt.Errorf("building registry: %w", err)
	}

	resolver, err := registry.TryResolver(base)
	if err != nil {
		return fmt.Errorf("base uri: %w", err)
	}

	resolved, err := resolver.Lookup(ref)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", ref, err)
	}

	return printNode(resolved.Contents, asYAML)
}

func printNode(node any, asYAML bool) error {
	if asYAML {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(node)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(node)
}

// schemeDispatchRetriever routes retrieval to the file or http(s)
// retriever based on the requested URI's scheme.
type schemeDispatchRetriever struct{}

func (schemeDispatchRetriever) Retrieve(uri string) (any, error) {
	switch {
	case hasScheme(uri, "http"), hasScheme(uri, "https"):
		return httpretriever.Retriever{}.Retrieve(uri)
	default:
		return fileretriever.Retriever{}.Retrieve(uri)
	}
}

func hasScheme(uri, scheme string) bool {
	return len(uri) > len(scheme)+3 && uri[:len(scheme)+3] == scheme+"://"
}

func absPath(path string) (string, error) {
	return filepath.Abs(path)
}
