package controllers_test

import (
	"net/http"
	"testing"

	"tareas/controllers"
)

func TestRegisterAndLogin(t *testing.T) {
	app := newTestApp(t)

	user := app.register(t, "maria", "maria@example.com", "secretpass")
	if user.ID == 0 {
		t.Fatal("expected user id to be assigned")
	}
	if user.Email != "maria@example.com" {
		t.Fatalf("email = %q", user.Email)
	}

	cookies := app.login(t, "maria", "secretpass")

	var access, refresh bool
	for _, cookie := range cookies {
		switch cookie.Name {
		case controllers.AccessCookieName:
			access = cookie.HttpOnly && cookie.Value != ""
		case controllers.RefreshCookieName:
			refresh = cookie.HttpOnly && cookie.Value != ""
		}
	}
	if !access || !refresh {
		t.Fatalf("expected http-only access and refresh cookies, got %v", cookies)
	}
}

func TestRegisterDuplicateIsCaseInsensitive(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "Carlos", "carlos@example.com", "secretpass")

	w := app.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "CARLOS",
		"email":    "otro@example.com",
		"password": "secretpass",
	}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate username: status %d, body %s", w.Code, w.Body.String())
	}

	w = app.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "carlos2",
		"email":    "CARLOS@example.com",
		"password": "secretpass",
	}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate email: status %d, body %s", w.Code, w.Body.String())
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "ana",
		"email":    "ana@example.com",
		"password": "corta",
	}, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "pedro", "pedro@example.com", "secretpass")

	w := app.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "pedro",
		"password": "incorrecta",
	}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
}

func TestLoginWithEmail(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "lucia", "lucia@example.com", "secretpass")

	w := app.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "lucia@example.com",
		"password": "secretpass",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
}

func TestMeRequiresAuth(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/auth/me", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
}

func TestMeReturnsCurrentUser(t *testing.T) {
	app := newTestApp(t)
	_, cookies := app.signup(t, "sofia", "sofia@example.com", "secretpass")

	w := app.do(t, http.MethodGet, "/api/v1/auth/me", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}

	var got map[string]any
	decodeJSON(t, w, &got)
	if got["username"] != "sofia" {
		t.Fatalf("username = %v", got["username"])
	}
	if _, leaked := got["password"]; leaked {
		t.Fatal("password hash leaked in response")
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	app := newTestApp(t)
	_, cookies := app.signup(t, "diego", "diego@example.com", "secretpass")

	w := app.do(t, http.MethodPost, "/api/v1/auth/refresh", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}

	var fresh bool
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == controllers.AccessCookieName && cookie.Value != "" {
			fresh = true
		}
	}
	if !fresh {
		t.Fatal("expected a fresh access cookie")
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	app := newTestApp(t)
	_, cookies := app.signup(t, "elena", "elena@example.com", "secretpass")

	// Presentar el access token como si fuera el refresh.
	var access string
	for _, cookie := range cookies {
		if cookie.Name == controllers.AccessCookieName {
			access = cookie.Value
		}
	}
	forged := []*http.Cookie{{Name: controllers.RefreshCookieName, Value: access}}

	w := app.do(t, http.MethodPost, "/api/v1/auth/refresh", nil, forged)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
}

func TestTokensSurviveUsernameChange(t *testing.T) {
	app := newTestApp(t)
	_, cookies := app.signup(t, "viejo", "viejo@example.com", "secretpass")

	w := app.do(t, http.MethodPut, "/api/v1/users/me", map[string]string{
		"username": "nuevo",
	}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("rename: %d, body %s", w.Code, w.Body.String())
	}

	// Las cookies emitidas antes del cambio siguen siendo válidas: el
	// token identifica por id, no por username.
	w = app.do(t, http.MethodGet, "/api/v1/auth/me", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("me after rename: %d, body %s", w.Code, w.Body.String())
	}
	var got map[string]any
	decodeJSON(t, w, &got)
	if got["username"] != "nuevo" {
		t.Fatalf("username = %v", got["username"])
	}

	w = app.do(t, http.MethodPost, "/api/v1/auth/refresh", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("refresh after rename: %d, body %s", w.Code, w.Body.String())
	}
}

func TestLogoutClearsCookies(t *testing.T) {
	app := newTestApp(t)
	_, cookies := app.signup(t, "hugo", "hugo@example.com", "secretpass")

	w := app.do(t, http.MethodPost, "/api/v1/auth/logout", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	for _, cookie := range w.Result().Cookies() {
		if cookie.Value != "" && (cookie.Name == controllers.AccessCookieName || cookie.Name == controllers.RefreshCookieName) {
			t.Fatalf("cookie %s not cleared", cookie.Name)
		}
	}
}
