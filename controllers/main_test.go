package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"tareas/cache"
	"tareas/config"
	"tareas/controllers"
	"tareas/db"
	"tareas/models"
	"tareas/router"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type testApp struct {
	engine *gin.Engine
	gdb    *gorm.DB
	conf   config.Configuration
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conf := config.Configuration{
		Database: "sqlite3",
		DbName:   filepath.Join(t.TempDir(), "test.db"),
		Debug:    true,
	}
	conf.Security.JwtSecret = "test-secret"
	conf.Security.AccessTokenExpireMinutes = 30
	conf.Security.RefreshTokenExpireDays = 7
	conf.CorsOrigins = []string{"http://localhost:5173"}

	gdb, err := db.Connect(conf)
	if err != nil {
		t.Fatalf("db.Connect: %v", err)
	}
	t.Cleanup(func() { gdb.Close() })
	if err := db.Migrate(gdb).Error; err != nil {
		t.Fatalf("db.Migrate: %v", err)
	}

	engine := gin.New()
	router.Initialize(engine, router.Deps{
		DB:       gdb,
		Tokens:   controllers.NewTokenManager(conf),
		Denylist: cache.NewDenylist(nil),
		Cfg:      conf,
	})

	return &testApp{engine: engine, gdb: gdb, conf: conf}
}

func (a *testApp) do(t *testing.T, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) register(t *testing.T, username, email, password string) models.User {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", username, w.Code, w.Body.String())
	}
	var user models.User
	if err := json.Unmarshal(w.Body.Bytes(), &user); err != nil {
		t.Fatalf("register %s: decode: %v", username, err)
	}
	return user
}

func (a *testApp) login(t *testing.T, username, password string) []*http.Cookie {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d, body %s", username, w.Code, w.Body.String())
	}
	return w.Result().Cookies()
}

// signup registra, loguea y devuelve las cookies de sesión.
func (a *testApp) signup(t *testing.T, username, email, password string) (models.User, []*http.Cookie) {
	t.Helper()
	user := a.register(t, username, email, password)
	return user, a.login(t, username, password)
}

func (a *testApp) createContact(t *testing.T, cookies []*http.Cookie, name, channelType, channelValue string) models.Contact {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/contacts", map[string]string{
		"name":          name,
		"channel_type":  channelType,
		"channel_value": channelValue,
	}, cookies)
	if w.Code != http.StatusCreated {
		t.Fatalf("create contact %s: status %d, body %s", name, w.Code, w.Body.String())
	}
	var contact models.Contact
	decodeJSON(t, w, &contact)
	return contact
}

// taskPayload es la respuesta de tareas con tags e history_count.
type taskPayload struct {
	models.Task
	Tags         []string `json:"tags"`
	HistoryCount int      `json:"history_count"`
}

func (a *testApp) createTask(t *testing.T, cookies []*http.Cookie, title string, contactIDs []int64) taskPayload {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/tasks", map[string]any{
		"title":              title,
		"scheduled_datetime": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"contact_ids":        contactIDs,
	}, cookies)
	if w.Code != http.StatusCreated {
		t.Fatalf("create task %s: status %d, body %s", title, w.Code, w.Body.String())
	}
	var task taskPayload
	decodeJSON(t, w, &task)
	return task
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}
