package chain

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
)

// LoadPrivateKey decrypts a go-ethereum keystore file using the password
// stored in passwordFile. The decrypted key never touches the logs; the
// logging layer additionally redacts anything key-shaped as a backstop.
func LoadPrivateKey(keyFile, passwordFile string) (*ecdsa.PrivateKey, error) {
	keyJSON, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore file: %w", err)
	}

	passBytes, err := os.ReadFile(passwordFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read password file: %w", err)
	}
	password := strings.TrimSpace(string(passBytes))

	key, err := keystore.DecryptKey(keyJSON, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt keystore: %w", err)
	}

	return key.PrivateKey, nil
}
