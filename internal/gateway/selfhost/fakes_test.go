package selfhost

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/stretchr/testify/mock"

	"chatroom/internal/dbmongo"
	"chatroom/internal/dbmysql"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *dbmysql.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*dbmysql.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmysql.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*dbmysql.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmysql.User), args.Error(1)
}

// fakeMessageRepo keeps rows in memory with MySQL's ordering.
type fakeMessageRepo struct {
	mu      sync.Mutex
	rows    []dbmysql.Message
	seq     uint64
	listErr error
	lists   int
}

func (r *fakeMessageRepo) Create(ctx context.Context, msg *dbmysql.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	msg.Seq = r.seq
	r.rows = append(r.rows, *msg)
	return nil
}

func (r *fakeMessageRepo) List(ctx context.Context, collection string, desc bool) ([]dbmysql.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []dbmysql.Message
	for _, m := range r.rows {
		if m.Collection == collection {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if desc {
			a, b = b, a
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.Seq < b.Seq
	})
	return out, nil
}

func (r *fakeMessageRepo) LatestSeq(ctx context.Context, collection string) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var max uint64
	for _, m := range r.rows {
		if m.Collection == collection && m.Seq > max {
			max = m.Seq
		}
	}
	return max, nil
}

func (r *fakeMessageRepo) failLists(err error) {
	r.mu.Lock()
	r.listErr = err
	r.mu.Unlock()
}

// insertExternal simulates a write by another process (no hub event).
func (r *fakeMessageRepo) insertExternal(msg dbmysql.Message) {
	r.Create(context.Background(), &msg)
}

type fakeRefRepo struct {
	mu   sync.Mutex
	refs map[string]dbmysql.MediaRef
}

func (r *fakeRefRepo) Create(ctx context.Context, ref *dbmysql.MediaRef) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refs == nil {
		r.refs = make(map[string]dbmysql.MediaRef)
	}
	r.refs[ref.Path] = *ref
	return nil
}

func (r *fakeRefRepo) ByPath(ctx context.Context, path string) (*dbmysql.MediaRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, ok := r.refs[path]
	if !ok {
		return nil, dbmysql.ErrMediaNotFound
	}
	return &ref, nil
}

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) UploadFile(ctx context.Context, filename, mimeType, uploader string, content io.Reader) (*dbmongo.MediaFile, error) {
	data, _ := io.ReadAll(content)
	args := m.Called(ctx, filename, mimeType, uploader, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmongo.MediaFile), args.Error(1)
}
