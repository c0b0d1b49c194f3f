package service

import (
	"context"
	"reflect"
	"sort"
	"time"

	"gorm.io/gorm/schema"

	"github.com/marketplace-api/marketplace/internal/core/domain"
	"github.com/marketplace-api/marketplace/internal/core/ports"
)

// memStore is an in-memory ports.Store. Filters are matched against struct
// fields by their gorm column name.
type memStore[T any] struct {
	rows   map[uint]*T
	nextID uint
	addErr error
}

func newMemStore[T any]() *memStore[T] {
	return &memStore[T]{rows: make(map[uint]*T)}
}

func idOf[T any](v *T) uint {
	return uint(reflect.ValueOf(v).Elem().FieldByName("ID").Uint())
}

func (s *memStore[T]) Find(_ context.Context, id uint) (*T, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *row
	return &clone, nil
}

func (s *memStore[T]) List(_ context.Context, filters ...ports.Filter) ([]T, error) {
	ids := make([]uint, 0, len(s.rows))
	for id := range s.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := []T{}
	for _, id := range ids {
		row := s.rows[id]
		if matches(row, filters) {
			out = append(out, *row)
		}
	}
	return out, nil
}

func matches[T any](row *T, filters []ports.Filter) bool {
	v := reflect.ValueOf(row).Elem()
	naming := schema.NamingStrategy{}
	for _, f := range filters {
		found := false
		for i := 0; i < v.NumField(); i++ {
			if naming.ColumnName("", v.Type().Field(i).Name) != f.Column {
				continue
			}
			found = true
			if v.Field(i).Interface() != f.Value {
				return false
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *memStore[T]) Add(_ context.Context, entity *T) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.nextID++
	reflect.ValueOf(entity).Elem().FieldByName("ID").SetUint(uint64(s.nextID))
	clone := *entity
	s.rows[s.nextID] = &clone
	return nil
}

func (s *memStore[T]) Save(_ context.Context, entity *T) error {
	id := idOf(entity)
	if _, ok := s.rows[id]; !ok {
		return domain.ErrNotFound
	}
	clone := *entity
	s.rows[id] = &clone
	return nil
}

func (s *memStore[T]) Remove(_ context.Context, entity *T) error {
	delete(s.rows, idOf(entity))
	return nil
}

type stubUserRepo struct {
	users  map[uint]*domain.User
	nextID uint
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uint]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	clone.Roles = append([]domain.Role(nil), u.Roles...)
	return &clone
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if domain.NormalizeUsername(u.Username) == domain.NormalizeUsername(username) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if domain.NormalizeUsername(u.Username) == domain.NormalizeUsername(user.Username) {
			return domain.ErrUserExists
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := []domain.User{}
	for id := uint(1); id <= r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			out = append(out, *cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) AddRole(_ context.Context, user *domain.User, role *domain.Role) error {
	stored, ok := r.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	stored.Roles = append(stored.Roles, *role)
	user.Roles = append(user.Roles, *role)
	return nil
}

type stubRoleRepo struct {
	roles []domain.Role
}

func newStubRoleRepo(names ...string) *stubRoleRepo {
	r := &stubRoleRepo{}
	for _, n := range names {
		_ = r.Create(context.Background(), &domain.Role{Name: n})
	}
	return r
}

func (r *stubRoleRepo) Exists(_ context.Context, name string) (bool, error) {
	for _, role := range r.roles {
		if role.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	for _, role := range r.roles {
		if role.Name == name {
			clone := role
			return &clone, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r *stubRoleRepo) Create(_ context.Context, role *domain.Role) error {
	role.ID = uint(len(r.roles) + 1)
	r.roles = append(r.roles, *role)
	return nil
}

func (r *stubRoleRepo) List(_ context.Context) ([]domain.Role, error) {
	return append([]domain.Role(nil), r.roles...), nil
}

type stubCatalogRepo struct {
	entries map[domain.CatalogKind][]domain.CatalogEntry
}

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{entries: make(map[domain.CatalogKind][]domain.CatalogEntry)}
}

func (r *stubCatalogRepo) List(_ context.Context, kind domain.CatalogKind) ([]domain.CatalogEntry, error) {
	return append([]domain.CatalogEntry{}, r.entries[kind]...), nil
}

func (r *stubCatalogRepo) FindByName(_ context.Context, kind domain.CatalogKind, name string) (*domain.CatalogEntry, error) {
	for _, e := range r.entries[kind] {
		if e.Name == name {
			clone := e
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubCatalogRepo) Create(_ context.Context, kind domain.CatalogKind, entry *domain.CatalogEntry) error {
	entry.ID = uint(len(r.entries[kind]) + 1)
	r.entries[kind] = append(r.entries[kind], *entry)
	return nil
}

type issuedToken struct {
	userID   uint
	username string
	roles    []string
}

type stubTokens struct {
	issued []issuedToken
}

func (s *stubTokens) Issue(userID uint, username string, roles []string) (string, time.Time, error) {
	s.issued = append(s.issued, issuedToken{userID: userID, username: username, roles: roles})
	return "signed-token", time.Now().Add(3 * time.Hour), nil
}

type visitKey struct{ user, pub uint }

type stubDedup struct {
	marked  map[visitKey]uint
	seenErr error
}

func newStubDedup() *stubDedup {
	return &stubDedup{marked: make(map[visitKey]uint)}
}

func (d *stubDedup) Seen(_ context.Context, userID, publicationID uint) (uint, bool, error) {
	if d.seenErr != nil {
		return 0, false, d.seenErr
	}
	id, ok := d.marked[visitKey{userID, publicationID}]
	return id, ok, nil
}

func (d *stubDedup) Mark(_ context.Context, userID, publicationID, visitID uint) error {
	d.marked[visitKey{userID, publicationID}] = visitID
	return nil
}
