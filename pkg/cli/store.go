package cli

import (
	"encoding/json"
	"os"
	"time"

	"github.com/Bithomp/xrpl-walletkit/pkg/signflow"
)

// fileStore persists the last signed-in identity as a small JSON file, so a
// later invocation can show who is signed in without a new wallet prompt
type fileStore struct {
	path string
}

func newFileStore(path string) *fileStore {
	return &fileStore{path: path}
}

type storedIdentity struct {
	Address    string    `json:"address"`
	Wallet     string    `json:"wallet"`
	SignedInAt time.Time `json:"signedInAt"`
}

// Save implements signflow.SessionStore
func (s *fileStore) Save(identity signflow.Identity) error {
	data, err := json.MarshalIndent(&storedIdentity{
		Address:    identity.Address,
		Wallet:     identity.Wallet,
		SignedInAt: time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Load reads the persisted identity, reporting whether one exists
func (s *fileStore) Load() (*storedIdentity, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, false
	}
	var identity storedIdentity
	if err := json.Unmarshal(data, &identity); err != nil {
		return nil, false
	}
	return &identity, true
}
