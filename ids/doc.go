// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ids generates run identifiers and their public share slugs.
//
// Run IDs are random UUIDs and stay internal. Share slugs are derived from
// a run ID with an HMAC keyed by the server's slug salt, truncated to 64 bits
// and encoded in base62 so they are safe in URLs.
package ids
