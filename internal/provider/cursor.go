package provider

import (
	"strings"

	"feedhub/internal/domain"
)

// Adapters whose sort key can repeat inside one account (timestamps) append
// the item ID to the key, so every cursor names exactly one position. Items
// sharing a key are ordered by ascending ID.
const cursorSeparator = "|"

// JoinCursor builds a cursor from a sort key and the item ID at that key.
func JoinCursor(key, id string) domain.Cursor {
	if id == "" {
		return key
	}
	return key + cursorSeparator + id
}

// SplitCursor is the inverse of JoinCursor. A bare key yields an empty id.
func SplitCursor(c domain.Cursor) (key, id string) {
	key, id, _ = strings.Cut(c, cursorSeparator)
	return key, id
}

// CompareNewestFirst orders two items newest first. keyCmp is the
// comparison of a's key with b's key.
func CompareNewestFirst(keyCmp int, idA, idB string) int {
	if keyCmp != 0 {
		return -keyCmp
	}
	return strings.Compare(idA, idB)
}

// OlderThanCursor reports whether an item lies strictly after the cursor in
// newest-first order. keyCmp compares the item's key with the cursor's key.
// A cursor without an ID excludes every item sharing its key.
func OlderThanCursor(keyCmp int, id, cursorID string) bool {
	if keyCmp != 0 {
		return keyCmp < 0
	}
	return cursorID != "" && id > cursorID
}

// NewerThanCursor reports whether an item lies strictly before the cursor
// in newest-first order.
func NewerThanCursor(keyCmp int, id, cursorID string) bool {
	if keyCmp != 0 {
		return keyCmp > 0
	}
	return cursorID != "" && id < cursorID
}
