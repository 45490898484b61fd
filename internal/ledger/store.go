package ledger

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/tracker/internal/transaction"
)

// DefaultKey is the record name the browser tracker used in local storage.
const DefaultKey = "transactions"

// Store is the sole owner of a ledger's transaction sequence. Every mutation
// rewrites the whole sequence to the backend while holding the lock, so
// concurrent writers cannot lose each other's updates.
type Store struct {
	backend   Backend
	key       string
	now       func() time.Time
	listeners []Listener
	logger    *slog.Logger

	mu     sync.Mutex
	txs    []transaction.Transaction
	lastID int64
}

type Option func(*Store)

// WithClock overrides the clock used for ids and default dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithListener(l Listener) Option {
	return func(s *Store) { s.listeners = append(s.listeners, l) }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates an empty store for key. Call Load to rehydrate it.
func New(backend Backend, key string, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     key,
		now:     time.Now,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Key returns the backend record this store persists to.
func (s *Store) Key() string { return s.key }

// Load replaces the in-memory sequence with the persisted one. Missing,
// unreadable or malformed data yields an empty ledger; it never fails.
func (s *Store) Load(ctx context.Context) []transaction.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to read ledger, starting empty", "key", s.key, "error", err)
	}

	return slices.Clone(s.txs)
}

// load rehydrates the sequence and returns the backend read error, if any.
// The sequence is left empty in that case.
func (s *Store) load(ctx context.Context) error {
	txs, err := s.read(ctx)

	s.txs = txs
	s.lastID = 0

	for _, tx := range s.txs {
		s.lastID = max(s.lastID, tx.ID)
	}

	return err
}

func (s *Store) read(ctx context.Context) ([]transaction.Transaction, error) {
	data, found, err := s.backend.Read(ctx, s.key)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, nil
	}

	txs, err := transaction.Decode(data)
	if err != nil {
		s.logger.WarnContext(ctx, "discarding malformed ledger", "key", s.key, "error", err)
		return nil, nil
	}

	return txs, nil
}

// List returns a copy of the current sequence in insertion order.
func (s *Store) List() []transaction.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.txs)
}

func (s *Store) Get(id int64) (transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return transaction.Transaction{}, ErrNotFound
	}

	return s.txs[i], nil
}

// Add validates the draft, appends the new transaction and persists the
// ledger. A *transaction.ValidationError leaves the ledger untouched. A
// *PersistError is returned together with the transaction, which stays in
// memory.
func (s *Store) Add(ctx context.Context, draft transaction.Draft) (transaction.Transaction, error) {
	tx, err := s.add(ctx, draft)
	if err != nil {
		return tx, err
	}

	s.notify(ctx, EventAdded, tx)

	return tx, nil
}

func (s *Store) add(ctx context.Context, draft transaction.Draft) (transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	tx, err := transaction.Build(draft, now)
	if err != nil {
		return transaction.Transaction{}, err
	}

	tx.ID = s.nextID(now)
	s.txs = append(s.txs, tx)

	return tx, s.persist(ctx)
}

// AddBatch validates every draft before appending any of them, then persists
// once. Invalid drafts are reported in a *transaction.BatchError.
func (s *Store) AddBatch(ctx context.Context, drafts []transaction.Draft) ([]transaction.Transaction, error) {
	if len(drafts) == 0 {
		return nil, nil
	}

	txs, err := s.addBatch(ctx, drafts)
	if err != nil {
		return txs, err
	}

	for _, tx := range txs {
		s.notify(ctx, EventAdded, tx)
	}

	return txs, nil
}

func (s *Store) addBatch(ctx context.Context, drafts []transaction.Draft) ([]transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	txs := make([]transaction.Transaction, 0, len(drafts))
	invalid := make(map[int]*transaction.ValidationError)

	for i, d := range drafts {
		tx, err := transaction.Build(d, now)
		if err != nil {
			var verr *transaction.ValidationError
			if errors.As(err, &verr) {
				invalid[i] = verr
				continue
			}

			return nil, err
		}

		txs = append(txs, tx)
	}

	if len(invalid) > 0 {
		return nil, &transaction.BatchError{Errors: invalid}
	}

	for i := range txs {
		txs[i].ID = s.nextID(now)
	}

	s.txs = append(s.txs, txs...)

	return txs, s.persist(ctx)
}

// Remove deletes the transaction with the given id and persists the ledger.
func (s *Store) Remove(ctx context.Context, id int64) (transaction.Transaction, error) {
	tx, err := s.remove(ctx, id)
	if err != nil {
		return tx, err
	}

	s.notify(ctx, EventRemoved, tx)

	return tx, nil
}

func (s *Store) remove(ctx context.Context, id int64) (transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return transaction.Transaction{}, ErrNotFound
	}

	tx := s.txs[i]
	s.txs = slices.Delete(s.txs, i, i+1)

	return tx, s.persist(ctx)
}

// Persist writes the whole in-memory sequence to the backend. It can be used
// to retry after a *PersistError.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) error {
	data, err := transaction.Encode(s.txs)
	if err != nil {
		return &PersistError{Key: s.key, Err: err}
	}

	if err := s.backend.Write(ctx, s.key, data); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist ledger", "key", s.key, "error", err)
		return &PersistError{Key: s.key, Err: err}
	}

	return nil
}

// nextID derives a millisecond timestamp id, bumped past the last issued one
// so ids stay unique and increasing even within the same millisecond.
func (s *Store) nextID(now time.Time) int64 {
	id := max(now.UnixMilli(), s.lastID+1)
	s.lastID = id

	return id
}

func (s *Store) index(id int64) int {
	return slices.IndexFunc(s.txs, func(tx transaction.Transaction) bool { return tx.ID == id })
}

func (s *Store) notify(ctx context.Context, kind EventKind, tx transaction.Transaction) {
	ev := Event{Kind: kind, Key: s.key, Transaction: tx}
	for _, l := range s.listeners {
		l.Notify(ctx, ev)
	}
}
