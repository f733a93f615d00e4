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

	"github.com/ecom/user-service/internal/core/domain"
	"github.com/ecom/user-service/internal/core/ports"
)

type stubUserService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	getByIDFn  func(ctx context.Context, id string) (*domain.User, error)
	getByEmail func(ctx context.Context, email string) (*domain.User, error)
	updateFn   func(ctx context.Context, id string, in ports.UpdateInput) (*domain.User, error)
}

func (s *stubUserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubUserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubUserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getByEmail(ctx, email)
}

func (s *stubUserService) Update(ctx context.Context, id string, in ports.UpdateInput) (*domain.User, error) {
	return s.updateFn(ctx, id, in)
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sampleUser() *domain.User {
	return &domain.User{
		ID:           "abc123",
		Email:        "a@x.com",
		PasswordHash: "$2a$10$secretdigest",
		FirstName:    "Ada",
		Role:         domain.RoleBuyer,
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestUserHandler_Register_Success(t *testing.T) {
	stub := &stubUserService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Email != "a@x.com" || in.Password != "pw123" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.Role != domain.RoleBuyer {
				t.Fatalf("expected defaulted role, got %q", in.Role)
			}
			return sampleUser(), nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/users/register",
		`{"email":"a@x.com","password":"pw123","first_name":"Ada"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["email"] != "a@x.com" || resp["role"] != "BUYER" {
		t.Fatalf("unexpected payload: %v", resp)
	}
	body := rec.Body.String()
	if strings.Contains(body, "password") || strings.Contains(body, "secretdigest") {
		t.Fatalf("response leaks credential material: %s", body)
	}
}

func TestUserHandler_Register_ValidationFailures(t *testing.T) {
	stub := &stubUserService{
		registerFn: func(_ context.Context, _ ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	cases := []string{
		`{"password":"pw"}`,                           // missing email
		`{"email":"not-an-email","password":"pw"}`,    // malformed email
		`{"email":"a@x.com"}`,                         // missing password
		`{"email":"a@x.com","password":"pw","role":"WIZARD"}`, // unknown role
		`not-json`,
	}

	for _, body := range cases {
		c, _ := newTestContext(t, http.MethodPost, "/api/users/register", body)
		err := h.Register(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400 HTTPError, got %v", body, err)
		}
	}
}

func TestUserHandler_Register_Duplicate(t *testing.T) {
	stub := &stubUserService{
		registerFn: func(_ context.Context, _ ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewUserHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/api/users/register",
		`{"email":"a@x.com","password":"pw123"}`)

	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists passthrough, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestUserHandler_Login_Success(t *testing.T) {
	stub := &stubUserService{
		loginFn: func(_ context.Context, email, password string) (string, *domain.User, error) {
			if email != "a@x.com" || password != "pw123" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", sampleUser(), nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/users/login",
		`{"email":"a@x.com","password":"pw123"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "token123" || resp.Email != "a@x.com" || resp.Role != "BUYER" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_Login_Failures(t *testing.T) {
	for _, want := range []error{domain.ErrUserNotFound, domain.ErrInvalidCredentials} {
		stub := &stubUserService{
			loginFn: func(_ context.Context, _, _ string) (string, *domain.User, error) {
				return "", nil, want
			},
		}
		h := NewUserHandler(stub)

		c, _ := newTestContext(t, http.MethodPost, "/api/users/login",
			`{"email":"a@x.com","password":"pw"}`)

		if err := h.Login(c); !errors.Is(err, want) {
			t.Fatalf("expected %v passthrough, got %v", want, err)
		}
	}
}

func TestUserHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubUserService{
		loginFn: func(_ context.Context, _, _ string) (string, *domain.User, error) {
			t.Fatalf("service must not be called")
			return "", nil, nil
		},
	}
	h := NewUserHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/api/users/login", `{`)
	err := h.Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Lookup
// ---------------------------------------------------------------------------

func TestUserHandler_GetByID(t *testing.T) {
	stub := &stubUserService{
		getByIDFn: func(_ context.Context, id string) (*domain.User, error) {
			if id != "abc123" {
				t.Fatalf("unexpected id: %s", id)
			}
			return sampleUser(), nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/api/users/abc123", "")
	c.SetParamNames("id")
	c.SetParamValues("abc123")

	if err := h.GetByID(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); strings.Contains(body, "secretdigest") {
		t.Fatalf("response leaks digest: %s", body)
	}
}

func TestUserHandler_GetByID_NotFound(t *testing.T) {
	stub := &stubUserService{
		getByIDFn: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	h := NewUserHandler(stub)

	c, _ := newTestContext(t, http.MethodGet, "/api/users/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.GetByID(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound passthrough, got %v", err)
	}
}

func TestUserHandler_GetByEmail(t *testing.T) {
	stub := &stubUserService{
		getByEmail: func(_ context.Context, email string) (*domain.User, error) {
			if email != "a@x.com" {
				t.Fatalf("unexpected email: %s", email)
			}
			return sampleUser(), nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/api/users/email/a@x.com", "")
	c.SetParamNames("email")
	c.SetParamValues("a@x.com")

	if err := h.GetByEmail(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestUserHandler_Update_OwnerSuccess(t *testing.T) {
	stub := &stubUserService{
		getByIDFn: func(_ context.Context, _ string) (*domain.User, error) {
			return sampleUser(), nil
		},
		updateFn: func(_ context.Context, id string, in ports.UpdateInput) (*domain.User, error) {
			if id != "abc123" {
				t.Fatalf("unexpected id: %s", id)
			}
			if in.FirstName == nil || *in.FirstName != "Grace" {
				t.Fatalf("first name not forwarded: %+v", in)
			}
			if in.Email != nil || in.Password != nil || in.Role != nil {
				t.Fatalf("absent fields must stay nil: %+v", in)
			}
			u := sampleUser()
			u.FirstName = "Grace"
			return u, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodPut, "/api/users/abc123", `{"first_name":"Grace"}`)
	c.SetParamNames("id")
	c.SetParamValues("abc123")
	c.Set("sub", "a@x.com")
	c.Set("role", "BUYER")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["first_name"] != "Grace" {
		t.Fatalf("unexpected payload: %v", resp)
	}
}

func TestUserHandler_Update_AdminBypassesOwnership(t *testing.T) {
	stub := &stubUserService{
		getByIDFn: func(_ context.Context, _ string) (*domain.User, error) {
			t.Fatalf("admin path must not pre-fetch the record")
			return nil, nil
		},
		updateFn: func(_ context.Context, _ string, _ ports.UpdateInput) (*domain.User, error) {
			return sampleUser(), nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodPut, "/api/users/abc123", `{"last_name":"Hopper"}`)
	c.SetParamNames("id")
	c.SetParamValues("abc123")
	c.Set("sub", "admin@x.com")
	c.Set("role", "ADMIN")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Update_ForbiddenForOtherUser(t *testing.T) {
	stub := &stubUserService{
		getByIDFn: func(_ context.Context, _ string) (*domain.User, error) {
			return sampleUser(), nil // owned by a@x.com
		},
		updateFn: func(_ context.Context, _ string, _ ports.UpdateInput) (*domain.User, error) {
			t.Fatalf("update must not run for a foreign record")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	c, _ := newTestContext(t, http.MethodPut, "/api/users/abc123", `{"first_name":"Eve"}`)
	c.SetParamNames("id")
	c.SetParamValues("abc123")
	c.Set("sub", "intruder@x.com")
	c.Set("role", "BUYER")

	err := h.Update(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403 HTTPError, got %v", err)
	}
}

func TestUserHandler_Update_MissingClaims(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	c, _ := newTestContext(t, http.MethodPut, "/api/users/abc123", `{"first_name":"X"}`)
	c.SetParamNames("id")
	c.SetParamValues("abc123")

	err := h.Update(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestUserHandler_Update_DuplicateEmail(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(_ context.Context, _ string, _ ports.UpdateInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewUserHandler(stub)

	c, _ := newTestContext(t, http.MethodPut, "/api/users/abc123", `{"email":"taken@x.com"}`)
	c.SetParamNames("id")
	c.SetParamValues("abc123")
	c.Set("sub", "admin@x.com")
	c.Set("role", "ADMIN")

	if err := h.Update(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists passthrough, got %v", err)
	}
}
