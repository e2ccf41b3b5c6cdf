package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"moodmap-backend/internal/config"
	"moodmap-backend/models"
	"moodmap-backend/services"
)

const fixedValidationMsg = "Valid text, type (PEAK/PIT/BUFFALO), lat, and lng are required"

type stubStore struct {
	posts     []models.Post
	insertErr error
	findErr   error
	deleted   int64
	lastQuery *services.FeedQuery
	inserted  []models.Post
}

func (s *stubStore) Insert(ctx context.Context, post *models.Post) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	post.ID = primitive.NewObjectID()
	s.inserted = append(s.inserted, *post)
	return nil
}

func (s *stubStore) Find(ctx context.Context, q services.FeedQuery) ([]models.Post, error) {
	s.lastQuery = &q
	return s.posts, s.findErr
}

func (s *stubStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.deleted, nil
}

func newTestRouter(t *testing.T, store services.PostStore, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupPostRoutes(router, cfg, store, nil)
	return router
}

func testConfig() *config.Config {
	return &config.Config{CronSecret: "s3cret"}
}

func TestCreatePostSuccess(t *testing.T) {
	store := &stubStore{}
	router := newTestRouter(t, store, testConfig())

	body := `{"text": "  hello  ", "type": "BUFFALO", "lat": 35.1, "lng": -78.2}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var post models.Post
	if err := json.Unmarshal(w.Body.Bytes(), &post); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if post.Text != "hello" {
		t.Errorf("text = %q, want trimmed %q", post.Text, "hello")
	}
	if post.Type != models.TypeBuffalo {
		t.Errorf("type = %q, want BUFFALO", post.Type)
	}
	if got := post.ExpiresAt.Sub(post.CreatedAt); got != 24*time.Hour {
		t.Errorf("expiresAt - createdAt = %v, want 24h", got)
	}
	if post.ID.IsZero() {
		t.Error("expected assigned id in response")
	}
	if len(store.inserted) != 1 {
		t.Fatalf("inserted %d posts, want 1", len(store.inserted))
	}
}

func TestCreatePostValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"whitespace text", `{"text": "   ", "type": "PEAK", "lat": 35, "lng": -78}`},
		{"bad type", `{"text": "hi", "type": "VALLEY", "lat": 35, "lng": -78}`},
		{"missing lat", `{"text": "hi", "type": "PEAK", "lng": -78}`},
		{"missing lng", `{"text": "hi", "type": "PEAK", "lat": 35}`},
		{"lat as string", `{"text": "hi", "type": "PEAK", "lat": "35", "lng": -78}`},
		{"lng as string", `{"text": "hi", "type": "PEAK", "lat": 35, "lng": "-78"}`},
		{"not json", `not json at all`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &stubStore{}
			router := newTestRouter(t, store, testConfig())

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			var resp map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp["error"] != fixedValidationMsg {
				t.Errorf("error = %q, want the fixed validation message", resp["error"])
			}
			if len(store.inserted) != 0 {
				t.Error("validation failure must not persist anything")
			}
		})
	}
}

func TestCreatePostModerationEnforced(t *testing.T) {
	cfg := testConfig()
	cfg.BlockedWords = []string{"badger"}
	cfg.ModerationEnforced = true

	store := &stubStore{}
	router := newTestRouter(t, store, cfg)

	body := `{"text": "total b4dger move", "type": "PIT", "lat": 35, "lng": -78}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(store.inserted) != 0 {
		t.Error("blocked content must not persist")
	}
}

func TestCreatePostStoreFailure(t *testing.T) {
	store := &stubStore{insertErr: errors.New("down")}
	router := newTestRouter(t, store, testConfig())

	body := `{"text": "hi", "type": "PEAK", "lat": 35, "lng": -78}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestListFeedGlobal(t *testing.T) {
	store := &stubStore{posts: []models.Post{{Text: "hi", Type: models.TypePeak}}}
	router := newTestRouter(t, store, testConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if store.lastQuery == nil {
		t.Fatal("store never queried")
	}
	if len(store.lastQuery.Filter) != 0 {
		t.Errorf("global feed filter = %v, want empty", store.lastQuery.Filter)
	}

	var posts []models.Post
	if err := json.Unmarshal(w.Body.Bytes(), &posts); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("returned %d posts, want 1", len(posts))
	}
}

func TestListFeedEmptyIsArray(t *testing.T) {
	store := &stubStore{posts: nil}
	router := newTestRouter(t, store, testConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts", nil))

	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("empty feed body = %q, want []", got)
	}
}

func TestListFeedInvalidLocationFallsBack(t *testing.T) {
	store := &stubStore{}
	router := newTestRouter(t, store, testConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts?lat=999&lng=-78", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("malformed geo input must not error, got %d", w.Code)
	}
	expiry, ok := store.lastQuery.Filter["expires_at"].(bson.M)
	if !ok {
		t.Fatalf("fallback filter = %v, want expiry-filtered", store.lastQuery.Filter)
	}
	if _, ok := expiry["$gt"]; !ok {
		t.Errorf("fallback expiry filter = %v, want $gt", expiry)
	}
	if _, located := store.lastQuery.Filter["lat"]; located {
		t.Error("fallback must ignore location entirely")
	}
}

func TestListFeedBoundingBox(t *testing.T) {
	store := &stubStore{}
	router := newTestRouter(t, store, testConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts?lat=35&lng=-78&radiusKm=10", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	for _, key := range []string{"lat", "lng", "expires_at"} {
		if _, ok := store.lastQuery.Filter[key]; !ok {
			t.Errorf("bounding box filter missing %q: %v", key, store.lastQuery.Filter)
		}
	}
}

func TestCleanupRequiresSecret(t *testing.T) {
	store := &stubStore{deleted: 7}
	router := newTestRouter(t, store, testConfig())

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong secret", "Bearer nope", http.StatusUnauthorized},
		{"not bearer", "s3cret", http.StatusUnauthorized},
		{"correct", "Bearer s3cret", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/posts/cron/cleanup", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			router.ServeHTTP(w, req)

			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d", w.Code, tc.status)
			}
			if tc.status == http.StatusOK {
				var resp map[string]int64
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp["deleted"] != 7 {
					t.Errorf("deleted = %d, want 7", resp["deleted"])
				}
			}
		})
	}
}
