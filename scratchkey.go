package rescache

import (
	"encoding/binary"

	"github.com/creachadair/cityhash"
)

// ResourceType is a process-global tag identifying a family of
// interchangeable resources. Allocate one with [NewResourceType].
type ResourceType uint16

// ScratchKey is the coarse identity used to find resources that are
// interchangeable for compatible work: any two resources sharing a
// ScratchKey are candidates for reuse in place of one another. The
// domain is fixed at construction; the payload words describe whatever
// distinguishes one resource shape from another within that domain
// (dimensions, format, sample count, and so on).
//
// ScratchKey is comparable, and its Hash method is the checksum
// [Cache] actually indexes it by internally.
type ScratchKey struct {
	domain  ResourceType
	payload string // packed little-endian uint32 words; comparable, immutable
	hash    uint64
	valid   bool
}

// NewScratchKey builds a valid ScratchKey from a domain and a payload
// of 32-bit words. The domain should come from [NewResourceType]; the
// payload is caller-defined and only needs to be consistent for
// resources meant to be interchangeable.
func NewScratchKey(domain ResourceType, payload ...uint32) ScratchKey {
	buf := make([]byte, 4*len(payload))
	for i, word := range payload {
		binary.LittleEndian.PutUint32(buf[i*4:], word)
	}
	return ScratchKey{
		domain:  domain,
		payload: string(buf),
		hash:    cityhash.Hash64WithSeed(buf, uint64(domain)),
		valid:   true,
	}
}

// InvalidScratchKey returns the zero ScratchKey, the value a resource
// without scratch reuse should report from its ScratchKey() method.
func InvalidScratchKey() ScratchKey { return ScratchKey{} }

// IsValid reports whether the key was built by [NewScratchKey] rather
// than being the zero value.
func (self ScratchKey) IsValid() bool { return self.valid }

// Domain returns the key's resource type.
func (self ScratchKey) Domain() ResourceType { return self.domain }

// Hash returns the checksum mixing the payload with the domain. This
// is the bucket key the cache's internal scratch index actually looks
// up by, not just a diagnostic aid.
func (self ScratchKey) Hash() uint64 { return self.hash }
