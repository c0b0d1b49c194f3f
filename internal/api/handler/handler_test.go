package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marketplace-api/marketplace/internal/api/middleware"
	"github.com/marketplace-api/marketplace/internal/core/domain"
	"github.com/marketplace-api/marketplace/internal/core/ports"
)

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func authenticate(c echo.Context, userID uint, roles ...string) {
	c.Set(middleware.CtxUserID, userID)
	c.Set(middleware.CtxRoles, roles)
}

func statusOf(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return 0
}

// --- account ---

type stubAccountService struct {
	ports.AccountService
	registered []ports.RegisterInput
	registerFn func(ports.RegisterInput) (*domain.User, error)
	login      *ports.LoginResult
	loginErr   error
	profile    *domain.User
}

func (s *stubAccountService) Register(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
	s.registered = append(s.registered, in)
	return s.registerFn(in)
}

func (s *stubAccountService) Login(context.Context, string, string) (*ports.LoginResult, error) {
	return s.login, s.loginErr
}

func (s *stubAccountService) Profile(_ context.Context, userID uint) (*domain.User, error) {
	if s.profile == nil || s.profile.ID != userID {
		return nil, domain.ErrUserNotFound
	}
	return s.profile, nil
}

func TestAccountHandler_Register(t *testing.T) {
	svc := &stubAccountService{registerFn: func(in ports.RegisterInput) (*domain.User, error) {
		return &domain.User{ID: 1, Username: in.Username, PasswordHash: "hash", Roles: []domain.Role{{Name: domain.RoleUser}}}, nil
	}}
	h := NewAccountHandler(svc)

	c, rec := newTestContext(http.MethodPost, "/api/account/register", `{"username":"alice","password":"pw","email":"alice@example.com"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
	var got userResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Username != "alice" || len(got.Roles) != 1 || got.Roles[0] != domain.RoleUser {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestAccountHandler_Register_Invalid(t *testing.T) {
	svc := &stubAccountService{}
	h := NewAccountHandler(svc)

	cases := map[string]string{
		"missing password": `{"username":"alice"}`,
		"bad email":        `{"username":"alice","password":"pw","email":"nope"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodPost, "/api/account/register", body)
			if err := h.Register(c); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	c, _ := newTestContext(http.MethodPost, "/api/account/register", `{"username":`)
	if err := h.Register(c); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed json, got %v", err)
	}
	if len(svc.registered) != 0 {
		t.Fatalf("service must not be called on invalid input")
	}
}

func TestAccountHandler_Login(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := &stubAccountService{login: &ports.LoginResult{Token: "tok", ExpiresAt: exp}}
	h := NewAccountHandler(svc)

	c, rec := newTestContext(http.MethodPost, "/api/account/login", `{"username":"alice","password":"pw"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	var got loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Token != "tok" || !got.Expiration.Equal(exp) {
		t.Fatalf("unexpected login response: %+v", got)
	}

	svc.login, svc.loginErr = nil, domain.ErrInvalidCredentials
	c, _ = newTestContext(http.MethodPost, "/api/account/login", `{"username":"alice","password":"bad"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccountHandler_Me_RequiresClaims(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{profile: &domain.User{ID: 5, Username: "eve"}})

	c, _ := newTestContext(http.MethodGet, "/api/account/me", "")
	if err := h.Me(c); statusOf(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %v", err)
	}

	c, rec := newTestContext(http.MethodGet, "/api/account/me", "")
	authenticate(c, 5, domain.RoleUser)
	if err := h.Me(c); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"username":"eve"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

// --- cards ---

type stubCardService struct {
	ports.CardService
	cards map[uint]*domain.Card
}

func (s *stubCardService) Create(_ context.Context, userID uint, in ports.CreateCardInput) (*domain.Card, error) {
	if err := domain.ValidateCardNumber(in.Number); err != nil {
		return nil, err
	}
	card := &domain.Card{ID: uint(len(s.cards) + 1), UserID: userID, Number: in.Number, HolderName: in.HolderName}
	s.cards[card.ID] = card
	return card, nil
}

func (s *stubCardService) Get(_ context.Context, userID, id uint) (*domain.Card, error) {
	card, ok := s.cards[id]
	if !ok || !card.OwnedBy(userID) {
		return nil, domain.ErrNotFound
	}
	return card, nil
}

func TestCardHandler_CreateMasksNumber(t *testing.T) {
	h := NewCardHandler(&stubCardService{cards: map[uint]*domain.Card{}})

	c, rec := newTestContext(http.MethodPost, "/api/cards", `{"card_number":"4111111111111234","holder_name":"Alice"}`)
	authenticate(c, 1)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var got cardResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.CardNumber != "************1234" {
		t.Fatalf("expected masked number, got %q", got.CardNumber)
	}
}

func TestCardHandler_ShortNumber(t *testing.T) {
	svc := &stubCardService{cards: map[uint]*domain.Card{}}
	h := NewCardHandler(svc)

	c, _ := newTestContext(http.MethodPost, "/api/cards", `{"card_number":"4111"}`)
	authenticate(c, 1)
	if err := h.Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(svc.cards) != 0 {
		t.Fatalf("no card should be stored")
	}
}

func TestCardHandler_LongNumber(t *testing.T) {
	svc := &stubCardService{cards: map[uint]*domain.Card{}}
	h := NewCardHandler(svc)

	c, _ := newTestContext(http.MethodPost, "/api/cards", `{"card_number":"`+strings.Repeat("4", 40)+`"}`)
	authenticate(c, 1)
	if err := h.Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(svc.cards) != 0 {
		t.Fatalf("no card should be stored")
	}
}

func TestCardHandler_GetOtherUsersCard(t *testing.T) {
	svc := &stubCardService{cards: map[uint]*domain.Card{1: {ID: 1, UserID: 1, Number: "4111111111111111"}}}
	h := NewCardHandler(svc)

	c, _ := newTestContext(http.MethodGet, "/api/cards/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	authenticate(c, 2)
	if err := h.Get(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	c, _ = newTestContext(http.MethodGet, "/api/cards/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	authenticate(c, 1)
	if err := h.Get(c); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %v", err)
	}
}

// --- publications and visits ---

type stubPublicationService struct {
	ports.PublicationService
	pubs         map[uint]*domain.Publication
	lastCategory string
}

func (s *stubPublicationService) Get(_ context.Context, id uint) (*domain.Publication, error) {
	p, ok := s.pubs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *stubPublicationService) List(_ context.Context, category string) ([]domain.Publication, error) {
	s.lastCategory = category
	return []domain.Publication{}, nil
}

type stubVisitService struct {
	ports.VisitService
	replay bool
}

func (s *stubVisitService) Record(_ context.Context, userID, publicationID uint) (*ports.VisitResult, error) {
	return &ports.VisitResult{
		Visit:           &domain.PublicationVisit{ID: 1, UserID: userID, PublicationID: publicationID},
		AlreadyRecorded: s.replay,
	}, nil
}

type stubTracker struct {
	tracked []uint
}

func (s *stubTracker) Track(userID, _ uint) {
	s.tracked = append(s.tracked, userID)
}

func TestPublicationHandler_GetTracksVisitWhenAuthenticated(t *testing.T) {
	pubs := &stubPublicationService{pubs: map[uint]*domain.Publication{3: {ID: 3, UserID: 9, Title: "Bike"}}}
	visits := &stubTracker{}
	h := NewPublicationHandler(pubs, visits)

	get := func(authed bool) *httptest.ResponseRecorder {
		c, rec := newTestContext(http.MethodGet, "/api/publications/3", "")
		c.SetParamNames("id")
		c.SetParamValues("3")
		if authed {
			authenticate(c, 4)
		}
		if err := h.Get(c); err != nil {
			t.Fatalf("Get: %v", err)
		}
		return rec
	}

	if rec := get(false); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(visits.tracked) != 0 {
		t.Fatalf("anonymous view must not be tracked")
	}

	get(true)
	if len(visits.tracked) != 1 || visits.tracked[0] != 4 {
		t.Fatalf("expected visit for user 4, got %v", visits.tracked)
	}

	h = NewPublicationHandler(pubs, nil)
	if rec := get(true); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 without a tracker, got %d", rec.Code)
	}
}

func TestPublicationHandler_CategoryFilters(t *testing.T) {
	pubs := &stubPublicationService{}
	h := NewPublicationHandler(pubs, nil)

	c, _ := newTestContext(http.MethodGet, "/api/publications?category=Books", "")
	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	if pubs.lastCategory != "Books" {
		t.Fatalf("expected Books filter, got %q", pubs.lastCategory)
	}

	c, _ = newTestContext(http.MethodGet, "/api/publications/by-category?categoryName=Games", "")
	if err := h.ByCategory(c); err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	if pubs.lastCategory != "Games" {
		t.Fatalf("expected Games filter, got %q", pubs.lastCategory)
	}

	c, _ = newTestContext(http.MethodGet, "/api/publications/by-category", "")
	if err := h.ByCategory(c); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 without categoryName, got %v", err)
	}
}

func TestVisitHandler_RecordStatus(t *testing.T) {
	visits := &stubVisitService{}
	h := NewVisitHandler(visits)

	record := func() int {
		c, rec := newTestContext(http.MethodPost, "/api/history", `{"publication_id":3}`)
		authenticate(c, 4)
		if err := h.Record(c); err != nil {
			t.Fatalf("Record: %v", err)
		}
		return rec.Code
	}

	if code := record(); code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	visits.replay = true
	if code := record(); code != http.StatusOK {
		t.Fatalf("expected 200 on replay, got %d", code)
	}
}

// --- photos and cart ---

type stubPhotoService struct {
	ports.PhotoService
	created []ports.CreatePhotoInput
}

func (s *stubPhotoService) Create(_ context.Context, userID uint, in ports.CreatePhotoInput) (*domain.Photo, error) {
	s.created = append(s.created, in)
	return &domain.Photo{ID: uint(len(s.created)), UserID: userID, URL: in.URL}, nil
}

func TestPhotoHandler_CreateRequiresHTTPURL(t *testing.T) {
	svc := &stubPhotoService{}
	h := NewPhotoHandler(svc)

	c, _ := newTestContext(http.MethodPost, "/api/photos", `{"url":"not a url"}`)
	authenticate(c, 1)
	if err := h.Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	c, rec := newTestContext(http.MethodPost, "/api/photos", `{"url":"https://cdn.example.com/a.png"}`)
	authenticate(c, 1)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated || len(svc.created) != 1 {
		t.Fatalf("expected 201 and one stored photo, got %d and %d", rec.Code, len(svc.created))
	}
}

type stubCartService struct {
	ports.CartService
	quantities map[uint]int
}

func (s *stubCartService) Add(_ context.Context, userID, publicationID uint, quantity int) (*ports.CartResult, error) {
	_, existed := s.quantities[publicationID]
	s.quantities[publicationID] += quantity
	item := &domain.CartItem{ID: publicationID, UserID: userID, PublicationID: publicationID, Quantity: s.quantities[publicationID]}
	return &ports.CartResult{Item: item, Created: !existed}, nil
}

func TestCartHandler_AddStatus(t *testing.T) {
	h := NewCartHandler(&stubCartService{quantities: map[uint]int{}})

	add := func(body string) (int, error) {
		c, rec := newTestContext(http.MethodPost, "/api/cart", body)
		authenticate(c, 1)
		err := h.Add(c)
		return rec.Code, err
	}

	if _, err := add(`{"publication_id":3,"quantity":0}`); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for zero quantity, got %v", err)
	}
	if code, err := add(`{"publication_id":3,"quantity":1}`); err != nil || code != http.StatusCreated {
		t.Fatalf("first add: expected 201, got %d %v", code, err)
	}
	if code, err := add(`{"publication_id":3,"quantity":2}`); err != nil || code != http.StatusOK {
		t.Fatalf("repeat add: expected 200, got %d %v", code, err)
	}
}

// --- health ---

func TestHealthHandler_Readiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	c, rec := newTestContext(http.MethodGet, "/health/ready", "")
	if err := NewHealthDependenciesHandler(map[string]Check{"postgres": ok}).Readiness(c); err != nil {
		t.Fatalf("Readiness: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, rec = newTestContext(http.MethodGet, "/health/ready", "")
	_ = NewHealthDependenciesHandler(map[string]Check{"postgres": ok, "redis": down}).Readiness(c)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var body readinessResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Status != "degraded" || body.Dependencies["redis"].Status != "unhealthy" || body.Dependencies["postgres"].Status != "ok" {
		t.Fatalf("unexpected readiness body: %+v", body)
	}
}

// --- validator ---

func TestValidator_UsesJSONFieldNames(t *testing.T) {
	err := NewValidator().Validate(&createTransactionRequest{Amount: -1})

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *domain.ValidationError, got %T", err)
	}
	for _, want := range []string{"publication_id is required", "amount must be at least 0"} {
		if !strings.Contains(verr.Message, want) {
			t.Errorf("message %q missing %q", verr.Message, want)
		}
	}
}
