package rescache

import (
	"encoding/binary"

	"github.com/creachadair/cityhash"
)

// KeyDomain is a process-global tag identifying a namespace of
// caller-chosen unique identities. Allocate one with [NewKeyDomain].
type KeyDomain uint16

// UniqueKey is the fine identity used to pin exactly one resource to a
// caller-chosen name: at most one resource in a [Cache] may carry a
// given UniqueKey at a time. Like [ScratchKey], it is comparable, and
// its Hash method is the checksum [Cache] indexes it by internally.
type UniqueKey struct {
	domain  KeyDomain
	payload string
	hash    uint64
	valid   bool
}

// NewUniqueKey builds a valid UniqueKey from a domain and a payload of
// 32-bit words. The domain should come from [NewKeyDomain].
func NewUniqueKey(domain KeyDomain, payload ...uint32) UniqueKey {
	buf := make([]byte, 4*len(payload))
	for i, word := range payload {
		binary.LittleEndian.PutUint32(buf[i*4:], word)
	}
	return UniqueKey{
		domain:  domain,
		payload: string(buf),
		hash:    cityhash.Hash64WithSeed(buf, uint64(domain)),
		valid:   true,
	}
}

// InvalidUniqueKey returns the zero UniqueKey, the value a resource
// without a unique identity should report from its UniqueKey() method.
func InvalidUniqueKey() UniqueKey { return UniqueKey{} }

// IsValid reports whether the key was built by [NewUniqueKey].
func (self UniqueKey) IsValid() bool { return self.valid }

// Domain returns the key's namespace.
func (self UniqueKey) Domain() KeyDomain { return self.domain }

// Hash returns the checksum mixing the payload with the domain. This
// is the bucket key the cache's internal unique index actually looks
// up by, not just a diagnostic aid.
func (self UniqueKey) Hash() uint64 { return self.hash }
