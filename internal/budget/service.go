package budget

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tally-dev/tally/internal/gitops"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/ledgerfile"
	"github.com/tally-dev/tally/internal/logging"
	"github.com/tally-dev/tally/internal/model"
)

// ErrNoSuchPosition is returned by RemoveAt for a position outside the ledger.
var ErrNoSuchPosition = errors.New("no transaction at that position")

// Service owns the process's single Ledger and moves it to and from its
// file.
type Service struct {
	store   *ledgerfile.Store
	ledger  *ledger.Ledger
	log     logrus.FieldLogger
	git     *gitIdentity
	changes []string
}

type gitIdentity struct {
	name  string
	email string
}

// Option configures a Service.
type Option func(*Service)

// WithGitCommit makes Save commit the ledger file when it lives inside a
// git work tree.
func WithGitCommit(authorName, authorEmail string) Option {
	return func(s *Service) {
		s.git = &gitIdentity{name: authorName, email: authorEmail}
	}
}

// NewService creates a Service with an empty ledger.
func NewService(store *ledgerfile.Store, log logrus.FieldLogger, opts ...Option) *Service {
	if log == nil {
		log = logging.Discard()
	}
	s := &Service{
		store:  store,
		ledger: ledger.New(),
		log:    logging.For(log, logging.ComponentBudget),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ledger returns the in-memory ledger for queries.
func (s *Service) Ledger() *ledger.Ledger {
	return s.ledger
}

// Path returns the ledger file path.
func (s *Service) Path() string {
	return s.store.Path
}

// Load replaces the ledger with the file's contents. On error the ledger
// is left exactly as it was.
func (s *Service) Load() error {
	txns, err := s.store.Load()
	if err != nil {
		return err
	}
	s.ledger.Replace(txns)
	s.changes = nil
	s.log.WithFields(logrus.Fields{
		logging.FieldPath:  s.store.Path,
		logging.FieldCount: len(txns),
	}).Info("loaded ledger")
	return nil
}

// Save writes the ledger to its file, then commits the file if git
// snapshots are enabled.
func (s *Service) Save() error {
	txns := s.ledger.List()
	if err := s.store.Save(txns); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		logging.FieldPath:  s.store.Path,
		logging.FieldCount: len(txns),
	}).Info("saved ledger")

	changes := s.changes
	s.changes = nil

	if s.git == nil {
		return nil
	}
	dir := s.store.Dir()
	if !gitops.IsRepo(dir) {
		s.log.WithField(logging.FieldPath, dir).Debug("ledger directory is not a git repository, skipping commit")
		return nil
	}
	hash, err := gitops.CommitFile(dir, filepath.Base(s.store.Path), commitMessage(changes), s.git.name, s.git.email)
	if err != nil {
		return fmt.Errorf("committing ledger: %w", err)
	}
	if hash != "" {
		s.log.WithField(logging.FieldCommit, hash).Info("committed ledger")
	}
	return nil
}

// Add appends a transaction.
func (s *Service) Add(t *model.Transaction) {
	if t == nil {
		return
	}
	s.ledger.Add(t)
	s.note("add", t)
}

// Remove drops the given instance; it reports whether it was present.
func (s *Service) Remove(t *model.Transaction) bool {
	if !s.ledger.Remove(t) {
		return false
	}
	s.note("remove", t)
	return true
}

// RemoveAt removes the transaction shown at the 1-based position pos in
// List order and returns it.
func (s *Service) RemoveAt(pos int) (*model.Transaction, error) {
	txns := s.ledger.List()
	if pos < 1 || pos > len(txns) {
		return nil, fmt.Errorf("%w: %d (ledger has %d)", ErrNoSuchPosition, pos, len(txns))
	}
	t := txns[pos-1]
	s.Remove(t)
	s.log.WithField(logging.FieldPosition, pos).Debug("removed transaction")
	return t, nil
}

// Import appends a batch of transactions in order and returns how many
// were added.
func (s *Service) Import(txns []*model.Transaction) int {
	n := 0
	for _, t := range txns {
		if t == nil {
			continue
		}
		s.ledger.Add(t)
		n++
	}
	if n > 0 {
		s.changes = append(s.changes, fmt.Sprintf("import %d transactions", n))
	}
	return n
}

func (s *Service) note(verb string, t *model.Transaction) {
	s.log.WithFields(logrus.Fields{
		logging.FieldAmount:   t.Amount.String(),
		logging.FieldCategory: t.Category,
	}).Debugf("%s transaction", verb)
	s.changes = append(s.changes, fmt.Sprintf("%s %s %s %s", verb, t.Date.Format("2006-01-02"), t.Description, t.Amount.String()))
}

func commitMessage(changes []string) string {
	switch len(changes) {
	case 0:
		return "ledger: save"
	case 1:
		return "ledger: " + changes[0]
	}
	return fmt.Sprintf("ledger: %d changes\n\n%s", len(changes), strings.Join(changes, "\n"))
}
