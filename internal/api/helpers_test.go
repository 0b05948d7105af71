package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"canchas-backend/config"
	"canchas-backend/internal/auth"
	"canchas-backend/internal/model"
	"canchas-backend/internal/notification"
	"canchas-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// 2025-05-01 15:00 in UTC-3.
var fixedNow = time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []notification.BookingNotice
}

func (n *recordingNotifier) Dispatch(notice notification.BookingNotice) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	return true
}

type testEnv struct {
	router   *gin.Engine
	db       *gorm.DB
	store    store.Store
	issuer   *auth.Issuer
	notifier *recordingNotifier
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	return cfg
}

func newTestEnv(t *testing.T, cfg *config.Config, strict bool) *testEnv {
	t.Helper()
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, testDB.AutoMigrate(&model.Field{}, &model.Slot{}, &model.PushSubscription{}))

	s := store.NewGormStore(testDB)
	now := func() time.Time { return fixedNow }
	issuer := auth.NewIssuer("test-secret", time.Hour, now)
	notifier := &recordingNotifier{}

	handler := NewHandler(s, Options{
		Issuer:            issuer,
		Notifier:          notifier,
		Now:               now,
		StrictTransitions: strict,
		OpenOwnerRoutes:   cfg.Auth.LegacyOpenOwnerRoutes,
		OwnerLoginURL:     "https://canchas.example/login-cancha",
	})
	return &testEnv{
		router:   NewRouter(handler, cfg, nil, nil),
		db:       testDB,
		store:    s,
		issuer:   issuer,
		notifier: notifier,
	}
}

func (e *testEnv) seedField(t *testing.T, username, password string) *model.Field {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	field := &model.Field{
		Name:         "Cancha " + username,
		Phone:        "381 555-1234",
		Username:     username,
		PasswordHash: hash,
	}
	require.NoError(t, e.store.CreateField(context.Background(), field))
	return field
}

func (e *testEnv) seedSlot(t *testing.T, fieldID int64, date, hhmm string) *model.Slot {
	t.Helper()
	slot := &model.Slot{FieldID: fieldID, Date: date, Time: hhmm, Status: model.StatusAvailable}
	require.NoError(t, e.store.CreateSlot(context.Background(), slot))
	return slot
}

func (e *testEnv) tokenFor(t *testing.T, field *model.Field) string {
	t.Helper()
	token, _, err := e.issuer.Issue(field.ID, field.Username)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) slot(t *testing.T, id int64) model.Slot {
	t.Helper()
	var slot model.Slot
	require.NoError(t, e.db.First(&slot, id).Error)
	return slot
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}
