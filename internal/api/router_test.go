package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/marketplace-api/marketplace/internal/core/domain"
	"github.com/marketplace-api/marketplace/internal/core/ports"
	"github.com/marketplace-api/marketplace/internal/core/service"
	"github.com/marketplace-api/marketplace/internal/pkg/token"
)

// --- in-memory collaborators ---

type memUsers struct {
	byID map[uint]*domain.User
}

func (m *memUsers) clone(u *domain.User) *domain.User {
	c := *u
	c.Roles = append([]domain.Role(nil), u.Roles...)
	return &c
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range m.byID {
		if domain.NormalizeUsername(u.Username) == domain.NormalizeUsername(username) {
			return m.clone(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) FindByID(_ context.Context, id uint) (*domain.User, error) {
	if u, ok := m.byID[id]; ok {
		return m.clone(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) Create(_ context.Context, u *domain.User) error {
	u.ID = uint(len(m.byID) + 1)
	m.byID[u.ID] = m.clone(u)
	return nil
}

func (m *memUsers) Update(_ context.Context, u *domain.User) error {
	m.byID[u.ID] = m.clone(u)
	return nil
}

func (m *memUsers) List(context.Context) ([]domain.User, error) {
	out := []domain.User{}
	for id := uint(1); id <= uint(len(m.byID)); id++ {
		out = append(out, *m.clone(m.byID[id]))
	}
	return out, nil
}

func (m *memUsers) AddRole(_ context.Context, u *domain.User, r *domain.Role) error {
	m.byID[u.ID].Roles = append(m.byID[u.ID].Roles, *r)
	u.Roles = append(u.Roles, *r)
	return nil
}

type memRoles struct{ roles []domain.Role }

func (m *memRoles) Exists(_ context.Context, name string) (bool, error) {
	_, err := m.FindByName(context.Background(), name)
	return err == nil, nil
}

func (m *memRoles) FindByName(_ context.Context, name string) (*domain.Role, error) {
	for _, r := range m.roles {
		if r.Name == name {
			c := r
			return &c, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (m *memRoles) Create(_ context.Context, r *domain.Role) error {
	r.ID = uint(len(m.roles) + 1)
	m.roles = append(m.roles, *r)
	return nil
}

func (m *memRoles) List(context.Context) ([]domain.Role, error) { return m.roles, nil }

type memCards struct{ rows map[uint]domain.Card }

func (m *memCards) Find(_ context.Context, id uint) (*domain.Card, error) {
	c, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (m *memCards) List(_ context.Context, filters ...ports.Filter) ([]domain.Card, error) {
	out := []domain.Card{}
	for _, c := range m.rows {
		if len(filters) == 0 || c.UserID == filters[0].Value {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCards) Add(_ context.Context, c *domain.Card) error {
	c.ID = uint(len(m.rows) + 1)
	m.rows[c.ID] = *c
	return nil
}

func (m *memCards) Save(_ context.Context, c *domain.Card) error {
	m.rows[c.ID] = *c
	return nil
}

func (m *memCards) Remove(_ context.Context, c *domain.Card) error {
	delete(m.rows, c.ID)
	return nil
}

// --- harness ---

type testServer struct {
	e        *echo.Echo
	accounts *service.AccountService
	cards    *memCards
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	tokens, err := token.NewManager(token.Config{
		Key:      "0123456789abcdef0123456789abcdef",
		Issuer:   "marketplace-api",
		Audience: "marketplace-clients",
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	log := zerolog.Nop()
	accounts := service.NewAccountService(&memUsers{byID: map[uint]*domain.User{}}, &memRoles{}, tokens, log)
	if err := accounts.EnsureRoles(context.Background(), domain.DefaultRoles...); err != nil {
		t.Fatalf("EnsureRoles: %v", err)
	}
	cards := &memCards{rows: map[uint]domain.Card{}}

	e := NewRouter(Dependencies{
		Log:         log,
		Tokens:      tokens,
		Accounts:    accounts,
		Cards:       service.NewCardService(cards, log),
		CORSOrigins: []string{"*"},
	})
	return &testServer{e: e, accounts: accounts, cards: cards}
}

func (s *testServer) do(t *testing.T, method, path, bearer, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, username, password string) {
	t.Helper()
	body := `{"username":"` + username + `","password":"` + password + `","first_name":"Alice","last_name":"Liddell","email":"` + username + `@example.com"}`
	if rec := s.do(t, http.MethodPost, "/api/account/register", "", body); rec.Code != http.StatusCreated {
		t.Fatalf("register %s: %d %s", username, rec.Code, rec.Body.String())
	}
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/account/login", "", `{"username":"`+username+`","password":"`+password+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", username, rec.Code, rec.Body.String())
	}
	var res struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &res)
	return res.Token
}

// --- scenarios ---

func TestRouter_RegisterLoginUpdateProfile(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice", "wonderland")
	tok := s.login(t, "alice", "wonderland")

	if rec := s.do(t, http.MethodPut, "/api/account/update", tok, `{"first_name":"Alicia"}`); rec.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rec.Code, rec.Body.String())
	}

	rec := s.do(t, http.MethodGet, "/api/account/me", tok, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("me: %d", rec.Code)
	}
	var me struct {
		FirstName string   `json:"first_name"`
		LastName  string   `json:"last_name"`
		Email     string   `json:"email"`
		Roles     []string `json:"roles"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &me)
	if me.FirstName != "Alicia" || me.LastName != "Liddell" || me.Email != "alice@example.com" {
		t.Fatalf("unexpected profile after patch: %+v", me)
	}
	if len(me.Roles) != 1 || me.Roles[0] != domain.RoleUser {
		t.Fatalf("unexpected roles: %v", me.Roles)
	}
}

func TestRouter_UsernamesIgnoreCase(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "Alice", "wonderland")

	body := `{"username":"alice","password":"other"}`
	if rec := s.do(t, http.MethodPost, "/api/account/register", "", body); rec.Code != http.StatusConflict {
		t.Fatalf("case variant: expected 409, got %d %s", rec.Code, rec.Body.String())
	}
	if tok := s.login(t, "ALICE", "wonderland"); tok == "" {
		t.Fatalf("expected a token")
	}
}

func TestRouter_LoginFailuresLookAlike(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice", "wonderland")

	bad := s.do(t, http.MethodPost, "/api/account/login", "", `{"username":"alice","password":"nope"}`)
	ghost := s.do(t, http.MethodPost, "/api/account/login", "", `{"username":"ghost","password":"nope"}`)

	if bad.Code != http.StatusUnauthorized || ghost.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", bad.Code, ghost.Code)
	}
	if bad.Body.String() != ghost.Body.String() {
		t.Fatalf("bodies differ: %q vs %q", bad.Body.String(), ghost.Body.String())
	}
}

func TestRouter_AuthenticationAndAuthorization(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "bob", "builder")
	userTok := s.login(t, "bob", "builder")

	if err := s.accounts.EnsureAdmin(context.Background(), "root", "rootpass", ""); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	adminTok := s.login(t, "root", "rootpass")

	if rec := s.do(t, http.MethodGet, "/api/account/users", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/api/account/users", "garbage", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/api/account/users", userTok, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin: expected 403, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, "/api/account/role", userTok, `{"name":"moderator"}`); rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin create role: expected 403, got %d", rec.Code)
	}

	if rec := s.do(t, http.MethodGet, "/api/account/users", adminTok, ""); rec.Code != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, "/api/account/role", adminTok, `{"name":"moderator"}`); rec.Code != http.StatusCreated {
		t.Fatalf("create role: expected 201, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, "/api/account/role", adminTok, `{"name":"moderator"}`); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate role: expected 409, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, "/api/account/assign-role", adminTok, `{"username":"bob","role":"User"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("already assigned: expected 400, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, "/api/account/assign-role", adminTok, `{"username":"nobody","role":"admin"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown user: expected 404, got %d", rec.Code)
	}
}

func TestRouter_CardOwnership(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice", "a")
	s.register(t, "mallory", "m")
	alice := s.login(t, "alice", "a")
	mallory := s.login(t, "mallory", "m")

	if rec := s.do(t, http.MethodPost, "/api/cards", alice, `{"card_number":"411111111111"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("short card: expected 400, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, "/api/cards", alice, `{"card_number":"`+strings.Repeat("4", 40)+`"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("long card: expected 400, got %d", rec.Code)
	}
	if len(s.cards.rows) != 0 {
		t.Fatalf("invalid cards must not be stored")
	}

	rec := s.do(t, http.MethodPost, "/api/cards", alice, `{"card_number":"4111111111111111","holder_name":"Alice"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create card: %d %s", rec.Code, rec.Body.String())
	}

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec := s.do(t, method, "/api/cards/1", mallory, "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s other's card: expected 404, got %d", method, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "not found or access denied") {
			t.Fatalf("unexpected body %s", rec.Body.String())
		}
	}
	if rec := s.do(t, http.MethodDelete, "/api/cards/1", alice, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("owner delete: expected 204, got %d", rec.Code)
	}
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)
	if rec := s.do(t, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("readiness with no checks: expected 200, got %d", rec.Code)
	}
}
