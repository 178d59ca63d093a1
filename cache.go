// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package referencing

import "sync"

// resolutionCache memoizes base+ref -> resolved URI lookups (spec.md
// §4.2). It has two modes:
//
//   - local: mutable, guarded by a mutex, used while a [Registry] is
//     still under construction (the build itself runs on a single
//     goroutine).
//   - shared: frozen at [Registry] build completion. Lookups either hit
//     the frozen map (read with no lock) or fall through to a fresh
//     per-resolution computation; nothing is ever written back, so no
//     lock is needed post-freeze.
//
// This mirrors the Rust original's UriCache/SharedUriCache split
// (registry.rs), which exists there to avoid paying Arc clone/lock
// overhead after the registry stops mutating. In Go the equivalent
// saving is simpler: drop the mutex entirely once frozen.
type resolutionCache struct {
	mu     sync.Mutex
	local  map[cacheKey]URI
	shared map[cacheKey]URI
	frozen bool
}

type cacheKey struct {
	base string
	ref  string
}

// newResolutionCache returns an empty, mutable cache.
func newResolutionCache() *resolutionCache {
	return &resolutionCache{local: make(map[cacheKey]URI)}
}

// resolveAgainst returns the URI obtained by resolving ref against
// base, consulting and populating the cache as appropriate.
func (c *resolutionCache) resolveAgainst(base URI, ref string) (URI, error) {
	key := cacheKey{base: base.String(), ref: ref}

	if c.frozen {
		if u, ok := c.shared[key]; ok {
			return u, nil
		}
		return ResolveWithFragment(base, ref)
	}

	c.mu.Lock()
	if u, ok := c.local[key]; ok {
		c.mu.Unlock()
		return u, nil
	}
	c.mu.Unlock()

	resolved, err := ResolveWithFragment(base, ref)
	if err != nil {
		return URI{}, err
	}

	c.mu.Lock()
	c.local[key] = resolved
	c.mu.Unlock()
	return resolved, nil
}

// freeze converts the cache to shared (read-only) mode. After freeze,
// the cache must not be mutated further; it is safe to read from
// multiple goroutines without synchronization.
func (c *resolutionCache) freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		return
	}
	shared := make(map[cacheKey]URI, len(c.local))
	for k, v := range c.local {
		shared[k] = v
	}
	c.shared = shared
	c.local = nil
	c.frozen = true
}

// clone returns an independent mutable copy of c, used when a
// [Registry] is extended with additional resources (spec.md §4.6:
// "extending a Registry never mutates the original").
func (c *resolutionCache) clone() *resolutionCache {
	cp := newResolutionCache()
	if c.frozen {
		for k, v := range c.shared {
			cp.local[k] = v
		}
		return cp
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range c.local {
		cp.local[k] = v
	}
	return cp
}
