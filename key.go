package lazylink

import (
	"strconv"

	"github.com/zeebo/xxh3"
)

// GroupKey derive the key of a group from its namespace, sequence and normalized identity.
//
// The same inputs always give the same key, generated code and the decl package rely on it.
func GroupKey(namespace string, seq int, id Identity) uint64 {
	h := xxh3.New()
	_, _ = h.WriteString(namespace)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(strconv.Itoa(seq))
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(id.String())
	return h.Sum64()
}
