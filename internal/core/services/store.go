package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/ports"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// errUnchanged lets a mutation report that nothing needs to be persisted.
var errUnchanged = errors.New("unchanged")

type StoreOptions struct {
	Catalog                domain.Catalog
	Location               *time.Location
	StartingBalance        decimal.Decimal
	StrictOrderTransitions bool
	Clock                  func() time.Time
	NewID                  func() string
	Recorder               ports.OperationRecorder
	Logger                 *slog.Logger
}

func (o *StoreOptions) defaults() {
	if o.Catalog.Len() == 0 {
		o.Catalog = domain.DefaultCatalog()
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	if o.Recorder == nil {
		o.Recorder = ports.NopRecorder{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Store owns the in-memory economy. A mutation holds the write lock for the
// whole read-compute-write-persist cycle and works on a clone; the clone
// only becomes current once its snapshot has been saved.
type Store struct {
	mu      sync.RWMutex
	economy *domain.Economy
	gateway *SnapshotGateway
	opts    StoreOptions
}

var _ ports.DirectoryService = (*Store)(nil)

func NewStore(economy *domain.Economy, gateway *SnapshotGateway, opts StoreOptions) *Store {
	opts.defaults()
	return &Store{economy: economy, gateway: gateway, opts: opts}
}

// OpenStore loads the economy through gateway and wraps it in a Store.
func OpenStore(ctx context.Context, gateway *SnapshotGateway, opts StoreOptions) (*Store, error) {
	economy, err := gateway.Load(ctx)
	if err != nil {
		return nil, err
	}
	return NewStore(economy, gateway, opts), nil
}

func (s *Store) now() time.Time {
	return s.opts.Clock().In(s.opts.Location)
}

type mutation func(e *domain.Economy, now time.Time) ([]domain.OrderEvent, error)

func (s *Store) mutate(ctx context.Context, op string, fn mutation) (err error) {
	start := time.Now()
	defer func() { s.opts.Recorder.RecordOperation(op, err, time.Since(start)) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.economy.Clone()
	events, err := fn(working, s.now())
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return domain.Wrap(op, err)
	}

	if err := s.gateway.Save(ctx, working, events); err != nil {
		s.opts.Logger.Error("mutation not persisted", "op", op, "error", err)
		return domain.Wrap(op, err)
	}
	s.economy = working
	return nil
}

func (s *Store) read(op string, fn func(e *domain.Economy, now time.Time) error) (err error) {
	start := time.Now()
	defer func() { s.opts.Recorder.RecordOperation(op, err, time.Since(start)) }()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Wrap(op, fn(s.economy, s.now()))
}

// Flush saves the current state. Called on shutdown.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.gateway.Save(ctx, s.economy, nil); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

func (s *Store) Authenticate(ctx context.Context, class, username, credential string) (domain.Identity, error) {
	var id domain.Identity
	err := s.read("authenticate", func(e *domain.Economy, _ time.Time) error {
		p, err := e.Authenticate(class, username, credential)
		if err != nil {
			return err
		}
		id = p.Identity()
		return nil
	})
	return id, err
}

func (s *Store) FindStudent(ctx context.Context, class, username string) (domain.StudentView, error) {
	var view domain.StudentView
	err := s.read("find_student", func(e *domain.Economy, now time.Time) error {
		st, err := e.Student(class, username)
		if err != nil {
			return err
		}
		view = domain.NewStudentView(st, now)
		return nil
	})
	return view, err
}

func (s *Store) CreateClass(ctx context.Context, name string) (domain.ClassView, error) {
	var view domain.ClassView
	err := s.mutate(ctx, "create_class", func(e *domain.Economy, _ time.Time) ([]domain.OrderEvent, error) {
		c, err := e.CreateClass(name)
		if err != nil {
			return nil, err
		}
		view = domain.ClassView{Name: c.Name}
		return nil, nil
	})
	if err == nil {
		s.opts.Logger.Info("class created", "class", view.Name)
	}
	return view, err
}

// AddStudents enrolls the roster into class and returns the usernames that
// were new. Usernames already enrolled are skipped, never overwritten.
func (s *Store) AddStudents(ctx context.Context, class string, roster []domain.RosterEntry) ([]string, error) {
	var created []string
	err := s.mutate(ctx, "add_students", func(e *domain.Economy, _ time.Time) ([]domain.OrderEvent, error) {
		var err error
		created, err = e.EnrollRoster(class, roster, s.opts.StartingBalance)
		if err != nil {
			return nil, err
		}
		if len(created) == 0 {
			return nil, errUnchanged
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	if len(created) > 0 {
		s.opts.Logger.Info("students enrolled", "class", class, "created", len(created))
	}
	return created, nil
}

func (s *Store) Classes(ctx context.Context) ([]domain.ClassView, error) {
	views := []domain.ClassView{}
	err := s.read("list_classes", func(e *domain.Economy, _ time.Time) error {
		for _, c := range e.Classes() {
			views = append(views, domain.ClassView{Name: c.Name, Students: len(c.Students())})
		}
		return nil
	})
	return views, err
}
