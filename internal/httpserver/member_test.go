package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/domain"
)

func TestSignupHandler_Created(t *testing.T) {
	deps := newTestDeps(user(1))
	router := deps.router(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/member/signup", "name=Kim&email=user%40example.com&password=Secret1%21&address=Seoul", ""))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"username":"user@example.com"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("password leaked: %s", rec.Body.String())
	}
	if deps.members.lastInput.Address != "Seoul" || deps.members.lastInput.Password != "Secret1!" {
		t.Fatalf("unexpected signup input %+v", deps.members.lastInput)
	}
}

func TestSignupHandler_ValidationErrors(t *testing.T) {
	deps := newTestDeps(nil)
	verr := &domain.ValidationError{}
	verr.Add("email", "email required")
	verr.Add("password", "password required")
	deps.members.signupErr = verr
	router := deps.router(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/member/signup", "name=Kim", ""))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"email":"email required"`) || !strings.Contains(body, `"password":"password required"`) {
		t.Fatalf("expected field errors, got %s", body)
	}
}

func TestLoginHandler_SetsSession(t *testing.T) {
	router := newTestDeps(user(1)).router(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/member/login", "email=user%40example.com&password=Secret1%21", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"token":"session-token"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	cookie := rec.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "session=session-token") || !strings.Contains(cookie, "HttpOnly") {
		t.Fatalf("unexpected cookie %q", cookie)
	}
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	deps := newTestDeps(nil)
	deps.members.loginErr = domain.ErrUnauthorized
	router := deps.router(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/member/login", "email=user%40example.com&password=bad", ""))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLoginHandler_MissingFields(t *testing.T) {
	router := newTestDeps(nil).router(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/member/login", "email=user%40example.com", ""))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"password":"password required"`) {
		t.Fatalf("expected password field error, got %s", rec.Body.String())
	}
}

func TestLogoutHandler(t *testing.T) {
	deps := newTestDeps(user(1))
	router := deps.router(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/member/logout", "", "tok-1"))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if deps.members.loggedOut != "tok-1" {
		t.Fatalf("expected token tok-1 to be revoked, got %q", deps.members.loggedOut)
	}
}

func TestAuth_SessionCookie(t *testing.T) {
	deps := newTestDeps(user(1))
	router := deps.router(t)

	req := httptest.NewRequest(http.MethodGet, "/order/list", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "cookie-token"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if deps.members.lastToken != "cookie-token" {
		t.Fatalf("expected cookie token to be used, got %q", deps.members.lastToken)
	}
}

func TestAuth_RejectsNonBearerHeader(t *testing.T) {
	router := newTestDeps(user(1)).router(t)

	req := httptest.NewRequest(http.MethodGet, "/order/list", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
