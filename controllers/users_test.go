package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"tareas/models"
)

func TestGetUsersRequiresSuperuser(t *testing.T) {
	app := newTestApp(t)
	_, cookies := app.signup(t, "normal", "normal@example.com", "secretpass")

	w := app.do(t, http.MethodGet, "/api/v1/users", nil, cookies)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
}

func TestGetUsersAsSuperuser(t *testing.T) {
	app := newTestApp(t)
	admin, _ := app.signup(t, "admin", "admin@example.com", "secretpass")
	app.gdb.Model(&models.User{}).Where("id = ?", admin.ID).Update("is_superuser", true)
	cookies := app.login(t, "admin", "secretpass")

	app.register(t, "otro", "otro@example.com", "secretpass")

	w := app.do(t, http.MethodGet, "/api/v1/users", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var users []models.User
	decodeJSON(t, w, &users)
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}

func TestGetUserByIDSelfOnly(t *testing.T) {
	app := newTestApp(t)
	me, cookies := app.signup(t, "yo", "yo@example.com", "secretpass")
	other := app.register(t, "vecino", "vecino@example.com", "secretpass")

	w := app.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", me.ID), nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("self: status %d, body %s", w.Code, w.Body.String())
	}

	w = app.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", other.ID), nil, cookies)
	if w.Code != http.StatusForbidden {
		t.Fatalf("other: status %d, body %s", w.Code, w.Body.String())
	}
}

func TestUpdateMe(t *testing.T) {
	app := newTestApp(t)
	_, cookies := app.signup(t, "rosa", "rosa@example.com", "secretpass")

	w := app.do(t, http.MethodPut, "/api/v1/users/me", map[string]string{
		"full_name": "Rosa García",
	}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var got models.User
	decodeJSON(t, w, &got)
	if got.FullName != "Rosa García" {
		t.Fatalf("full_name = %q", got.FullName)
	}
}

func TestUpdateMeDuplicateEmail(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "primero", "primero@example.com", "secretpass")
	_, cookies := app.signup(t, "segundo", "segundo@example.com", "secretpass")

	w := app.do(t, http.MethodPut, "/api/v1/users/me", map[string]string{
		"email": "PRIMERO@example.com",
	}, cookies)
	if w.Code != http.StatusConflict {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
}

func TestDeleteUserCascades(t *testing.T) {
	app := newTestApp(t)
	admin, _ := app.signup(t, "root", "root@example.com", "secretpass")
	app.gdb.Model(&models.User{}).Where("id = ?", admin.ID).Update("is_superuser", true)
	adminCookies := app.login(t, "root", "secretpass")

	victim, victimCookies := app.signup(t, "victima", "victima@example.com", "secretpass")
	contact := app.createContact(t, victimCookies, "Amigo", "whatsapp", "+5215512345678")
	app.createTask(t, victimCookies, "Recordatorio", []int64{contact.ID})

	w := app.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", victim.ID), nil, adminCookies)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}

	var n int
	app.gdb.Model(&models.Task{}).Where("user_id = ?", victim.ID).Count(&n)
	if n != 0 {
		t.Fatalf("expected victim tasks deleted, found %d", n)
	}
	app.gdb.Model(&models.Contact{}).Where("user_id = ?", victim.ID).Count(&n)
	if n != 0 {
		t.Fatalf("expected victim contacts deleted, found %d", n)
	}
}
