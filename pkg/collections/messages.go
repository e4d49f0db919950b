package collections

import (
	"sync/atomic"

	"github.com/spaolacci/murmur3"
)

// MessageLookup resolves a symbolic message key to display text.
type MessageLookup func(key string) string

// CodeTable maps a call site such as "locked.Map.Add" to a stable numeric code.
type CodeTable func(site string) int

var defaultMessages = map[string]string{
	"NullArgument":     "value cannot be nil",
	"RangeError":       "index or count is out of range",
	"InvalidRange":     "offset and length were out of bounds or count is greater than the number of elements from index to the end",
	"DuplicateKey":     "an element with the same key already exists",
	"TypeMismatch":     "value is not of the expected type",
	"KeyNotFound":      "the given key was not present",
	"UsedAfterDispose": "cannot access a disposed container",
	"InvalidOperation": "operation is not valid in the current state",
	"Unknown":          "unknown error",
}

var (
	messageLookup atomic.Pointer[MessageLookup]
	codeTable     atomic.Pointer[CodeTable]
)

// DefaultMessageLookup returns the built-in English text for key, or key
// itself when it is unknown.
func DefaultMessageLookup(key string) string {
	if msg, ok := defaultMessages[key]; ok {
		return msg
	}
	return key
}

// DefaultCodeTable derives a code from the murmur3 hash of site. The result
// is stable across processes and releases, and always has the high bit set
// so that it never collides with small application codes.
func DefaultCodeTable(site string) int {
	return int(0x8000_0000 | murmur3.Sum32([]byte(site))&0x7fff_ffff)
}

// SetMessageLookup replaces the message lookup. A nil fn restores the default.
func SetMessageLookup(fn MessageLookup) {
	if fn == nil {
		messageLookup.Store(nil)
		return
	}
	messageLookup.Store(&fn)
}

// SetCodeTable replaces the code table. A nil fn restores the default.
func SetCodeTable(fn CodeTable) {
	if fn == nil {
		codeTable.Store(nil)
		return
	}
	codeTable.Store(&fn)
}

func lookupMessage(key string) string {
	if fn := messageLookup.Load(); fn != nil {
		return (*fn)(key)
	}
	return DefaultMessageLookup(key)
}

func codeFor(site string) int {
	if site == "" {
		return 0
	}
	if fn := codeTable.Load(); fn != nil {
		return (*fn)(site)
	}
	return DefaultCodeTable(site)
}
