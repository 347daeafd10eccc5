package ledgerfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tally-dev/tally/internal/model"
)

// Store reads and writes one ledger file. Each file is a full snapshot.
type Store struct {
	Path  string
	Codec *Codec
}

// NewStore creates a Store for path using codec.
func NewStore(path string, codec *Codec) *Store {
	return &Store{Path: path, Codec: codec}
}

// Exists reports whether the ledger file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

// Load reads every transaction from the file. A missing file is an empty
// ledger, not an error.
func (s *Store) Load() ([]*model.Transaction, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return []*model.Transaction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", s.Path, err)
	}
	defer f.Close()

	txns, err := s.Codec.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", s.Path, err)
	}
	return txns, nil
}

// Save replaces the file's contents with txns. The parent directory must
// already exist.
func (s *Store) Save(txns []*model.Transaction) (err error) {
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("creating ledger %s: %w", s.Path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing ledger %s: %w", s.Path, cerr)
		}
	}()

	if err := s.Codec.Write(f, txns); err != nil {
		return fmt.Errorf("writing ledger %s: %w", s.Path, err)
	}
	return nil
}

// Dir returns the directory holding the ledger file.
func (s *Store) Dir() string {
	return filepath.Dir(s.Path)
}
