//
// Derives the addresses of named actors and contracts.
//
// Actors get a stellar address from the keypair seeded with their name, so
// the same name always maps to the same address. Contracts get a `KT1`
// prefixed base58check address of the hash of their name.
//
package keypair

import (
	"crypto/sha256"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	stellar "github.com/stellar/go/keypair"
)

const (
	ContractPrefix = "KT1"

	contractVersion byte = 0x01
)

// Aliases to stellar types
type Full = stellar.Full
type KP = stellar.KP

// Aliases to stellar functions
var Master = stellar.Master
var Parse = stellar.Parse

func ActorAddress(name string) string {
	return Master(name).Address()
}

func ContractAddress(name string) string {
	h := sha256.Sum256([]byte(name))
	return ContractPrefix + base58.CheckEncode(h[:20], contractVersion)
}

// IsContractAddress reports whether address was made by ContractAddress.
func IsContractAddress(address string) bool {
	if !strings.HasPrefix(address, ContractPrefix) {
		return false
	}
	_, version, err := base58.CheckDecode(strings.TrimPrefix(address, ContractPrefix))
	return err == nil && version == contractVersion
}

// IsActorAddress reports whether address is a valid stellar address.
func IsActorAddress(address string) bool {
	kp, err := Parse(address)
	if err != nil {
		return false
	}
	_, ok := kp.(*stellar.FromAddress)
	return ok
}
