package identity

import (
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Well-known test vector: this key derives the address below.
const (
	testKeyHex  = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	testAddress = "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"
)

func TestFromHexDerivesAddress(t *testing.T) {
	signer, err := FromHex(testKeyHex)
	if err != nil {
		t.Fatalf("failed to create signer: %v", err)
	}
	if signer.Address() != common.HexToAddress(testAddress) {
		t.Errorf("derived address %s, want %s", signer.Address().Hex(), testAddress)
	}
}

func TestFromHexAccepts0xPrefix(t *testing.T) {
	a, err := FromHex(testKeyHex)
	if err != nil {
		t.Fatal(err)
	}
	b, err := FromHex("0x" + testKeyHex)
	if err != nil {
		t.Fatal(err)
	}
	if a.Address() != b.Address() {
		t.Error("0x prefix changed the derived address")
	}
}

func TestFromHexRejectsMalformedKey(t *testing.T) {
	for _, bad := range []string{"", "zz", "1234", testKeyHex + "00"} {
		if _, err := FromHex(bad); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("FromHex(%q): expected ErrInvalidKey, got %v", bad, err)
		}
	}
}

func TestSignTxRecoversToSignerAddress(t *testing.T) {
	signer, err := FromHex(testKeyHex)
	if err != nil {
		t.Fatal(err)
	}

	chainID := big.NewInt(1337)
	tx := types.NewTransaction(7, common.HexToAddress(testAddress), big.NewInt(0), 300000, big.NewInt(1e9), []byte{0x01, 0x02})

	signed, err := signer.SignTx(tx, chainID)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	from, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	if err != nil {
		t.Fatalf("failed to recover sender: %v", err)
	}
	if from != signer.Address() {
		t.Errorf("recovered sender %s, want %s", from.Hex(), signer.Address().Hex())
	}
	if signed.Nonce() != 7 {
		t.Errorf("signing changed the nonce: %d", signed.Nonce())
	}
}

func TestFromKeystore(t *testing.T) {
	dir := t.TempDir()
	ks := keystore.NewKeyStore(dir, keystore.LightScryptN, keystore.LightScryptP)
	account, err := ks.NewAccount("hunter2")
	if err != nil {
		t.Fatalf("failed to create keystore account: %v", err)
	}

	passwordPath := filepath.Join(dir, "password")
	if err := os.WriteFile(passwordPath, []byte("hunter2\n"), 0600); err != nil {
		t.Fatal(err)
	}

	signer, err := FromKeystore(account.URL.Path, passwordPath)
	if err != nil {
		t.Fatalf("failed to load keystore: %v", err)
	}
	if signer.Address() != account.Address {
		t.Errorf("keystore address %s, want %s", signer.Address().Hex(), account.Address.Hex())
	}
}

func TestFromKeystoreWrongPassword(t *testing.T) {
	dir := t.TempDir()
	ks := keystore.NewKeyStore(dir, keystore.LightScryptN, keystore.LightScryptP)
	account, err := ks.NewAccount("correct")
	if err != nil {
		t.Fatal(err)
	}

	passwordPath := filepath.Join(dir, "password")
	if err := os.WriteFile(passwordPath, []byte("wrong"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := FromKeystore(account.URL.Path, passwordPath); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey for wrong password, got %v", err)
	}
}

func TestFromKeystoreMissingFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := FromKeystore(filepath.Join(dir, "absent"), filepath.Join(dir, "absent")); err == nil {
		t.Error("expected error for missing keystore file")
	}
}
