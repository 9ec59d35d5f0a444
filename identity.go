package dieselcore

import (
	"strconv"

	"github.com/dchest/siphash"
)

// identityKey is fixed for the lifetime of the process so equal paths always
// map to equal identities.
const (
	identityKey0 uint64 = 0x64696573656c636f
	identityKey1 uint64 = 0x7265736f75726365
)

// Identity names a GPU resource by the keyed 64-bit hash of its path.
type Identity uint64

func NewIdentity(path string) Identity {
	return Identity(siphash.Hash(identityKey0, identityKey1, []byte(path)))
}

func (id Identity) String() string {
	return strconv.FormatUint(uint64(id), 16)
}
