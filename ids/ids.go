// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ids

import (
	"crypto/hmac"
	"crypto/sha256"

	"github.com/google/uuid"
)

// NewRunID returns a random identifier for one run of the screening.
// A reset run gets a fresh ID so stale rows can never leak into it.
func NewRunID() string {
	return uuid.NewString()
}

// ShareSlug creates a short, deterministic URL slug for a run ID.
// Uses HMAC so slugs cannot be guessed from run IDs without the salt.
func ShareSlug(runID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(runID))
	sum := h.Sum(nil)

	return base62Encode(sum[:8])
}

// base62Encode converts up to 8 bytes to base62 (0-9, a-z, A-Z)
func base62Encode(data []byte) string {
	const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	var num uint64
	for i := 0; i < len(data) && i < 8; i++ {
		num = num<<8 | uint64(data[i])
	}

	if num == 0 {
		return "0"
	}

	result := make([]byte, 0, 11)
	for num > 0 {
		result = append(result, base62Chars[num%62])
		num /= 62
	}

	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return string(result)
}
