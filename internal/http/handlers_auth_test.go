package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/marketplace-ui/internal/domain/auth"
	"github.com/target/marketplace-ui/internal/service"
)

// mockAuthService is a test double for service.AuthService.
type mockAuthService struct {
	beginLoginFunc    func(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	beginSignupFunc   func(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	completeLoginFunc func(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	getSessionFunc    func(ctx context.Context, sessionID string) (*domainauth.Session, error)
	logoutFunc        func(ctx context.Context, sessionID string) error
}

func defaultBegin(string) *service.BeginLoginResult {
	return &service.BeginLoginResult{
		AuthURL: "https://example.com/auth?state=test-state&nonce=test-nonce",
		State:   "test-state",
		Nonce:   "test-nonce",
	}
}

func (m *mockAuthService) BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error) {
	if m.beginLoginFunc != nil {
		return m.beginLoginFunc(ctx, redirectURL)
	}
	return defaultBegin(redirectURL), nil
}

func (m *mockAuthService) BeginSignup(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error) {
	if m.beginSignupFunc != nil {
		return m.beginSignupFunc(ctx, redirectURL)
	}
	return defaultBegin(redirectURL), nil
}

func (m *mockAuthService) CompleteLogin(
	ctx context.Context,
	input service.CompleteLoginInput,
) (*service.CompleteLoginResult, error) {
	if m.completeLoginFunc != nil {
		return m.completeLoginFunc(ctx, input)
	}
	return &service.CompleteLoginResult{
		Session: domainauth.Session{
			ID:        "test-session-id",
			User:      buyerUser(),
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}, nil
}

func (m *mockAuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if m.getSessionFunc != nil {
		return m.getSessionFunc(ctx, sessionID)
	}
	return &domainauth.Session{
		ID:        sessionID,
		User:      sellerUser(),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, sessionID)
	}
	return nil
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandlers_Login_Success(t *testing.T) {
	var gotRedirect string
	h := &AuthHandlers{Svc: &mockAuthService{
		beginLoginFunc: func(_ context.Context, redirectURL string) (*service.BeginLoginResult, error) {
			gotRedirect = redirectURL
			return defaultBegin(redirectURL), nil
		},
	}}

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=/messages", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://example.com/auth?state=test-state&nonce=test-nonce", rec.Header().Get("Location"))
	assert.Equal(t, "/messages", gotRedirect)

	cookies := rec.Result().Cookies()
	if c := cookieByName(cookies, "oauth_state"); assert.NotNil(t, c) {
		assert.Equal(t, "test-state", c.Value)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, 600, c.MaxAge)
	}
	if c := cookieByName(cookies, "oauth_nonce"); assert.NotNil(t, c) {
		assert.Equal(t, "test-nonce", c.Value)
	}
	if c := cookieByName(cookies, "post_login_redirect"); assert.NotNil(t, c) {
		assert.Equal(t, "/messages", c.Value)
	}
}

func TestAuthHandlers_Login_DefaultsToDashboard(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "missing", query: ""},
		{name: "absolute URL", query: "?redirect_uri=https://evil.example.com/x"},
		{name: "protocol relative", query: "?redirect_uri=//evil.example.com"},
		{name: "relative without slash", query: "?redirect_uri=dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := &AuthHandlers{Svc: &mockAuthService{
				beginLoginFunc: func(_ context.Context, redirectURL string) (*service.BeginLoginResult, error) {
					got = redirectURL
					return defaultBegin(redirectURL), nil
				},
			}}
			h.Login(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/auth/login"+tt.query, nil))
			assert.Equal(t, "/dashboard", got)
		})
	}
}

func TestAuthHandlers_Signup_UsesSignupFlow(t *testing.T) {
	signupCalled := false
	h := &AuthHandlers{Svc: &mockAuthService{
		beginLoginFunc: func(context.Context, string) (*service.BeginLoginResult, error) {
			t.Fatal("BeginLogin must not be called for signup")
			return nil, nil
		},
		beginSignupFunc: func(_ context.Context, redirectURL string) (*service.BeginLoginResult, error) {
			signupCalled = true
			return defaultBegin(redirectURL), nil
		},
	}}

	rec := httptest.NewRecorder()
	h.Signup(rec, httptest.NewRequest(http.MethodGet, "/auth/signup", nil))

	assert.True(t, signupCalled)
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestAuthHandlers_Login_ProviderNotReady(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{
		beginLoginFunc: func(context.Context, string) (*service.BeginLoginResult, error) {
			return nil, service.ErrProviderNotReady
		},
	}}

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "auth_not_ready")
}

func TestAuthHandlers_Login_Failure(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{
		beginLoginFunc: func(context.Context, string) (*service.BeginLoginResult, error) {
			return nil, errors.New("idp unreachable")
		},
	}}

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "login_failed")
}

func callbackRequest(query string, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/auth/callback"+query, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestAuthHandlers_Callback_Validation(t *testing.T) {
	stateCookie := &http.Cookie{Name: "oauth_state", Value: "test-state"}
	nonceCookie := &http.Cookie{Name: "oauth_nonce", Value: "test-nonce"}

	tests := []struct {
		name    string
		req     *http.Request
		errCode string
	}{
		{name: "missing code", req: callbackRequest("?state=test-state", stateCookie, nonceCookie), errCode: "missing_code"},
		{name: "missing state", req: callbackRequest("?code=c", stateCookie, nonceCookie), errCode: "missing_state"},
		{name: "state mismatch", req: callbackRequest("?code=c&state=other", stateCookie, nonceCookie), errCode: "invalid_state"},
		{name: "no state cookie", req: callbackRequest("?code=c&state=test-state", nonceCookie), errCode: "invalid_state"},
		{name: "no nonce cookie", req: callbackRequest("?code=c&state=test-state", stateCookie), errCode: "missing_nonce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &AuthHandlers{Svc: &mockAuthService{}}
			rec := httptest.NewRecorder()
			h.Callback(rec, tt.req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.errCode)
		})
	}
}

func TestAuthHandlers_Callback_Success(t *testing.T) {
	var gotInput service.CompleteLoginInput
	h := &AuthHandlers{
		SessionCookie: "mkt_session",
		Svc: &mockAuthService{
			completeLoginFunc: func(_ context.Context, in service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
				gotInput = in
				return &service.CompleteLoginResult{Session: domainauth.Session{
					ID:        "sess-1",
					User:      buyerUser(),
					ExpiresAt: time.Now().Add(time.Hour),
				}}, nil
			},
		},
	}

	rec := httptest.NewRecorder()
	h.Callback(rec, callbackRequest("?code=abc&state=test-state",
		&http.Cookie{Name: "oauth_state", Value: "test-state"},
		&http.Cookie{Name: "oauth_nonce", Value: "test-nonce"},
		&http.Cookie{Name: "post_login_redirect", Value: "/BuyerSetting"},
	))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/BuyerSetting", rec.Header().Get("Location"))
	assert.Equal(t, service.CompleteLoginInput{Code: "abc", State: "test-state", Nonce: "test-nonce"}, gotInput)

	cookies := rec.Result().Cookies()
	if c := cookieByName(cookies, "mkt_session"); assert.NotNil(t, c) {
		assert.Equal(t, "sess-1", c.Value)
		assert.Greater(t, c.MaxAge, 0)
	}
	if c := cookieByName(cookies, "oauth_state"); assert.NotNil(t, c) {
		assert.Equal(t, -1, c.MaxAge)
	}
	if c := cookieByName(cookies, "post_login_redirect"); assert.NotNil(t, c) {
		assert.Equal(t, -1, c.MaxAge)
	}
}

func TestAuthHandlers_Callback_DefaultRedirect(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}}

	rec := httptest.NewRecorder()
	h.Callback(rec, callbackRequest("?code=abc&state=test-state",
		&http.Cookie{Name: "oauth_state", Value: "test-state"},
		&http.Cookie{Name: "oauth_nonce", Value: "test-nonce"},
	))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	assert.NotNil(t, cookieByName(rec.Result().Cookies(), "session_id"))
}

func TestAuthHandlers_Callback_CompleteFails(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{
		completeLoginFunc: func(context.Context, service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
			return nil, errors.New("token rejected")
		},
	}}

	rec := httptest.NewRecorder()
	h.Callback(rec, callbackRequest("?code=abc&state=test-state",
		&http.Cookie{Name: "oauth_state", Value: "test-state"},
		&http.Cookie{Name: "oauth_nonce", Value: "test-nonce"},
	))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "login_completion_failed")
	assert.Nil(t, cookieByName(rec.Result().Cookies(), "session_id"))
}

func TestAuthHandlers_Logout(t *testing.T) {
	var loggedOut string
	h := &AuthHandlers{Svc: &mockAuthService{
		logoutFunc: func(_ context.Context, id string) error {
			loggedOut = id
			return nil
		},
	}}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, "sess-1", loggedOut)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/sign-in", rec.Header().Get("Location"))
	if c := cookieByName(rec.Result().Cookies(), "session_id"); assert.NotNil(t, c) {
		assert.Equal(t, -1, c.MaxAge)
	}
}

func TestAuthHandlers_Logout_Variants(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{
		logoutFunc: func(context.Context, string) error { return errors.New("redis down") },
	}}

	// HTMX
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Hx-Request", "true")
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `location.replace("/sign-in")`)

	// JSON
	req = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Accept", "application/json")
	rec = httptest.NewRecorder()
	h.Logout(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","redirect_to":"/sign-in"}`, rec.Body.String())
}

func TestAuthHandlers_Status(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}}

	// No cookie
	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/auth/status", nil))
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())

	// Valid session
	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	rec = httptest.NewRecorder()
	h.Status(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":true`)
	assert.Contains(t, rec.Body.String(), `"is_seller":true`)
	assert.Contains(t, rec.Body.String(), `"id":"seller-1"`)
}

func TestAuthHandlers_Status_InvalidSession(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{
		getSessionFunc: func(context.Context, string) (*domainauth.Session, error) {
			return nil, errors.New("session expired")
		},
	}}

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "old"})
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
	if c := cookieByName(rec.Result().Cookies(), "session_id"); assert.NotNil(t, c) {
		assert.Equal(t, -1, c.MaxAge)
	}
}

func TestSafeRedirectPath(t *testing.T) {
	tests := map[string]string{
		"":                         "/dashboard",
		"/messages":                "/messages",
		"/profile/abc?tab=bio":     "/profile/abc?tab=bio",
		"https://evil.example.com": "/dashboard",
		"//evil.example.com/x":     "/dashboard",
		"javascript:alert(1)":      "/dashboard",
		"messages":                 "/dashboard",
		"/\\evil.example.com":      "/dashboard",
		"/\\/evil.example.com":     "/dashboard",
		"/messages\\x":             "/dashboard",
		"/%5Cevil.example.com":     "/%5Cevil.example.com",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeRedirectPath(in), in)
	}
}
