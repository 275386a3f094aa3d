package keys

import (
	"crypto/ecdsa"
	"encoding/hex"
	"os"
	"path"
	"strings"
	"sync"
)

// Keyfile reads and writes the node's private key from/to an unencrypted and
// unformatted file containing a raw hex dump of the key's D value.
type Keyfile struct {
	l    sync.Mutex
	path string
}

// NewKeyfile instantiates a new Keyfile with an underlying file.
func NewKeyfile(keyfile string) *Keyfile {
	return &Keyfile{
		path: keyfile,
	}
}

// Path returns the location of the underlying file.
func (k *Keyfile) Path() string {
	return k.path
}

// ReadKey reads from the underlying file, which is expected to contain a raw
// hex dump of the key's D value (big.Int), as produced by WriteKey. It refuses
// to proceed if the file is accessible by anyone other than its owner.
func (k *Keyfile) ReadKey() (*ecdsa.PrivateKey, error) {
	k.l.Lock()
	defer k.l.Unlock()

	if err := CheckKeyFilePermissions(k.path); err != nil {
		return nil, err
	}

	buf, err := os.ReadFile(k.path)
	if err != nil {
		return nil, err
	}

	trimmedKeyString := strings.TrimSpace(string(buf))

	key, err := hex.DecodeString(trimmedKeyString)
	if err != nil {
		return nil, err
	}

	return ParsePrivateKey(key)
}

// WriteKey writes a raw hex dump of the key's D value (big.Int) to the
// underlying file, with owner-only permissions.
func (k *Keyfile) WriteKey(key *ecdsa.PrivateKey) error {
	k.l.Lock()
	defer k.l.Unlock()

	rawKey := hex.EncodeToString(DumpPrivateKey(key))

	if err := os.MkdirAll(path.Dir(k.path), 0700); err != nil {
		return err
	}

	return os.WriteFile(k.path, []byte(rawKey), 0600)
}
