package identity

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrInvalidKey is returned when key material cannot be parsed or decrypted.
var ErrInvalidKey = errors.New("invalid key material")

// Signer holds the client's signing identity: a secp256k1 private key and
// its derived address. The key never leaves this package and is never
// logged. A Signer is created once at client construction and is immutable.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// FromHex creates a Signer from a hex-encoded private key, with or without
// a 0x prefix.
func FromHex(hexKey string) (*Signer, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &Signer{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// FromKeystore creates a Signer from an encrypted geth keystore file.
// The password file's content is trimmed of trailing whitespace.
func FromKeystore(keystorePath, passwordPath string) (*Signer, error) {
	keyJSON, err := os.ReadFile(keystorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore file: %w", err)
	}
	password, err := os.ReadFile(passwordPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read password file: %w", err)
	}

	key, err := keystore.DecryptKey(keyJSON, strings.TrimSpace(string(password)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	return &Signer{
		key:     key.PrivateKey,
		address: crypto.PubkeyToAddress(key.PrivateKey.PublicKey),
	}, nil
}

// Address returns the public address derived from the signing key.
func (s *Signer) Address() common.Address {
	return s.address
}

// SignTx signs a transaction for the given chain. Signing is deterministic
// with respect to the transaction payload and key; it touches no network.
func (s *Signer) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return signed, nil
}
