package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"portfolio/site/internal/config"
	"portfolio/site/internal/database"
	"portfolio/site/internal/handler"
	"portfolio/site/internal/hub"
	"portfolio/site/internal/models"
	"portfolio/site/internal/router"
	"portfolio/site/internal/seed"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const adminPassword = "password123"

func init() {
	gin.SetMode(gin.TestMode)
}

// setupRouter points the package globals at a fresh seeded database.
func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db, err := database.OpenMemory(t.Name())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := seed.Run(context.Background(), db, seed.Options{AdminUsername: "admin", AdminPassword: adminPassword}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := config.Defaults()
	cfg.PublicDir = t.TempDir()
	cfg.JWTSecret = "test-secret"
	config.AppConfig = cfg
	database.DB = db

	r, err := router.New(router.Options{Config: cfg})
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return r, db
}

func do(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r http.Handler) string {
	t.Helper()
	w := do(r, http.MethodPost, "/api/v1/auth/login", "", handler.LoginInput{Username: "admin", Password: adminPassword})
	if w.Code != http.StatusOK {
		t.Fatalf("login: status %d, body %s", w.Code, w.Body.String())
	}
	var resp handler.TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("login: bad token response %s", w.Body.String())
	}
	return resp.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func TestPages(t *testing.T) {
	r, _ := setupRouter(t)

	tests := []struct {
		path string
		code int
		want []string
	}{
		{"/", http.StatusOK, []string{"My projects", "Shop Front", "Data Lab", `href="/projects/shop-front"`}},
		{"/projects", http.StatusOK, []string{"My projects", "Portfolio"}},
		{"/projects/data-lab", http.StatusOK, []string{"Data Lab", "No images available for this project", "Tech Stack"}},
		{"/skills", http.StatusOK, []string{"My Skills Deck", "Close card overlay"}},
		{"/contact", http.StatusOK, []string{"CONTACT DIRECTORY", "bslowik4@gmail.com"}},
		{"/cv", http.StatusOK, []string{"CURRICULUM VITAE", "IBM"}},
		{"/projects/missing", http.StatusNotFound, []string{"404", "Project not found"}},
		{"/nowhere", http.StatusNotFound, []string{"404", "Page not found"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.path, "", nil)
			if w.Code != tt.code {
				t.Fatalf("status = %d, want %d", w.Code, tt.code)
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("content type = %q", ct)
			}
			body := w.Body.String()
			for _, s := range tt.want {
				if !strings.Contains(body, s) {
					t.Errorf("body missing %q", s)
				}
			}
		})
	}
}

func TestPages_DatabaseFailure(t *testing.T) {
	r, db := setupRouter(t)
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.Close()

	w := do(r, http.MethodGet, "/", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("home status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), handler.ProjectsFailedMessage) {
		t.Error("home page should explain that projects failed to load")
	}

	w = do(r, http.MethodGet, "/skills", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("skills status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), handler.SkillsFailedMessage) {
		t.Error("skills page should explain that skills failed to load")
	}

	if w := do(r, http.MethodGet, "/healthz", "", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("healthz status = %d, want 503", w.Code)
	}
}

func TestHealth(t *testing.T) {
	r, _ := setupRouter(t)
	if w := do(r, http.MethodGet, "/ping", "", nil); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "pong") {
		t.Errorf("ping: %d %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodGet, "/healthz", "", nil); w.Code != http.StatusOK {
		t.Errorf("healthz status = %d", w.Code)
	}
}

func TestPublicAPI(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodGet, "/api/v1/projects?limit=2", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("projects status = %d", w.Code)
	}
	page := decode[struct {
		Data []struct {
			Slug         string   `json:"slug"`
			Technologies []any    `json:"technologies"`
			Tags         []string `json:"tags"`
		} `json:"data"`
		Meta handler.PaginationMeta `json:"meta"`
	}](t, w)
	if page.Meta.TotalItems != 3 || page.Meta.TotalPages != 2 || len(page.Data) != 2 {
		t.Errorf("unexpected page %+v", page)
	}

	w = do(r, http.MethodGet, "/api/v1/projects/shop-front", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("project status = %d", w.Code)
	}
	project := decode[map[string]any](t, w)
	if techs, _ := project["technologies"].([]any); len(techs) != 8 {
		t.Errorf("expected 8 technologies on shop-front, got %v", project["technologies"])
	}

	if w := do(r, http.MethodGet, "/api/v1/projects/missing", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing project status = %d, want 404", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/v1/unknown", "", nil); w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), `"error"`) {
		t.Errorf("unknown api route: %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/api/v1/skills", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("skills status = %d", w.Code)
	}
	groups := decode[[]struct {
		Type   string           `json:"type"`
		Skills []map[string]any `json:"skills"`
	}](t, w)
	if len(groups) == 0 {
		t.Fatal("expected skill groups")
	}
	total := 0
	for _, g := range groups {
		total += len(g.Skills)
	}
	if total != 17 {
		t.Errorf("expected 17 skills across groups, got %d", total)
	}
}

func TestLogin(t *testing.T) {
	r, _ := setupRouter(t)

	tests := []struct {
		name string
		body any
		want int
	}{
		{"missing fields", map[string]string{"username": "admin"}, http.StatusBadRequest},
		{"unknown user", handler.LoginInput{Username: "ghost", Password: adminPassword}, http.StatusUnauthorized},
		{"wrong password", handler.LoginInput{Username: "admin", Password: "nope"}, http.StatusUnauthorized},
		{"ok", handler.LoginInput{Username: "admin", Password: adminPassword}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(r, http.MethodPost, "/api/v1/auth/login", "", tt.body); w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}

	token := login(t, r)
	w := do(r, http.MethodGet, "/api/v1/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me status = %d", w.Code)
	}
	if me := decode[handler.UserResponse](t, w); me.Username != "admin" || me.Role != models.RoleAdmin {
		t.Errorf("unexpected account %+v", me)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	r, _ := setupRouter(t)
	if w := do(r, http.MethodPost, "/api/v1/admin/technologies", "", handler.TechnologyInput{Name: "Rust"}); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestTechnologyCRUD(t *testing.T) {
	r, db := setupRouter(t)
	token := login(t, r)

	events := hub.NewClient()
	hub.GlobalHub.Subscribe(hub.TopicTechnologies, events)
	defer hub.GlobalHub.Unsubscribe(hub.TopicTechnologies, events)

	level := 7
	w := do(r, http.MethodPost, "/api/v1/admin/technologies", token, handler.TechnologyInput{Name: "Rust", SkillLevel: &level, Type: "Language"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	created := decode[handler.TechnologyResponse](t, w)
	if created.Type != "Language" || created.SkillLevel == nil || *created.SkillLevel != 7 {
		t.Errorf("unexpected technology %+v", created)
	}
	expectEvent(t, events, "technology.created")

	tests := []struct {
		name  string
		input any
		want  int
	}{
		{"duplicate", handler.TechnologyInput{Name: "Rust"}, http.StatusConflict},
		{"unknown type", handler.TechnologyInput{Name: "Zig", Type: "Quantum"}, http.StatusBadRequest},
		{"level too high", map[string]any{"name": "Zig", "skill_level": 11}, http.StatusBadRequest},
		{"no name", map[string]any{"type": "Backend"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(r, http.MethodPost, "/api/v1/admin/technologies", token, tt.input); w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}

	w = do(r, http.MethodGet, "/api/v1/admin/technologies?limit=5", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	list := decode[handler.PaginatedResponse[handler.TechnologyResponse]](t, w)
	if list.Meta.TotalItems != 18 || len(list.Data) != 5 {
		t.Errorf("unexpected list meta %+v (%d items)", list.Meta, len(list.Data))
	}

	path := fmt.Sprintf("/api/v1/admin/technologies/%d", created.ID)
	w = do(r, http.MethodPut, path, token, handler.TechnologyInput{Name: "Rust"})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", w.Code, w.Body.String())
	}
	if updated := decode[handler.TechnologyResponse](t, w); updated.Type != "Others" || updated.SkillLevel != nil {
		t.Errorf("update should replace every field, got %+v", updated)
	}
	expectEvent(t, events, "technology.updated")

	if w := do(r, http.MethodDelete, path, token, nil); w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	expectEvent(t, events, "technology.deleted")
	if w := do(r, http.MethodDelete, path, token, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}

	var count int64
	db.Unscoped().Model(&models.Technology{}).Where("name = ?", "Rust").Count(&count)
	if count != 0 {
		t.Errorf("expected technology to be removed, found %d rows", count)
	}
}

func TestProjectCRUD(t *testing.T) {
	r, db := setupRouter(t)
	token := login(t, r)

	var techs []models.Technology
	db.Order("id ASC").Limit(3).Find(&techs)
	if len(techs) != 3 {
		t.Fatalf("expected seeded technologies, got %d", len(techs))
	}

	events := hub.NewClient()
	hub.GlobalHub.Subscribe(hub.TopicProjects, events)
	defer hub.GlobalHub.Unsubscribe(hub.TopicProjects, events)

	w := do(r, http.MethodPost, "/api/v1/admin/projects", token, handler.ProjectInput{
		Name:          "Łódź Weather",
		Tags:          []string{" Side ", ""},
		TechnologyIDs: []uint{techs[0].ID, techs[1].ID},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	created := decode[handler.ProjectResponse](t, w)
	if created.Slug != "lodz-weather" {
		t.Errorf("slug = %q, want lodz-weather", created.Slug)
	}
	if len(created.Tags) != 1 || created.Tags[0] != "Side" {
		t.Errorf("tags = %v, want [Side]", created.Tags)
	}
	if len(created.Technologies) != 2 {
		t.Errorf("expected 2 technologies, got %d", len(created.Technologies))
	}
	expectEvent(t, events, "project.created")

	tests := []struct {
		name  string
		input handler.ProjectInput
		want  int
	}{
		{"duplicate slug", handler.ProjectInput{Name: "Other", Slug: "lodz-weather"}, http.StatusConflict},
		{"invalid slug", handler.ProjectInput{Name: "Other", Slug: "Bad Slug"}, http.StatusBadRequest},
		{"unsluggable name", handler.ProjectInput{Name: "!!!"}, http.StatusBadRequest},
		{"unknown technology", handler.ProjectInput{Name: "Other", TechnologyIDs: []uint{9999}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(r, http.MethodPost, "/api/v1/admin/projects", token, tt.input); w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}

	path := fmt.Sprintf("/api/v1/admin/projects/%d", created.ID)
	w = do(r, http.MethodPut, path, token, handler.ProjectInput{
		Name:          "Weather",
		Slug:          "weather",
		TechnologyIDs: []uint{techs[2].ID},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", w.Code, w.Body.String())
	}
	updated := decode[handler.ProjectResponse](t, w)
	if updated.Slug != "weather" || len(updated.Technologies) != 1 || updated.Technologies[0].ID != techs[2].ID {
		t.Errorf("unexpected update result %+v", updated)
	}
	expectEvent(t, events, "project.updated")

	if w := do(r, http.MethodGet, "/api/v1/projects/weather", "", nil); w.Code != http.StatusOK {
		t.Errorf("public lookup after update = %d", w.Code)
	}
	if w := do(r, http.MethodPut, "/api/v1/admin/projects/9999", token, handler.ProjectInput{Name: "X"}); w.Code != http.StatusNotFound {
		t.Errorf("update missing = %d, want 404", w.Code)
	}

	if w := do(r, http.MethodDelete, path, token, nil); w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	expectEvent(t, events, "project.deleted")
	if w := do(r, http.MethodGet, "/projects/weather", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("deleted project page = %d, want 404", w.Code)
	}

	var links int64
	db.Table("project_technologies").Where("project_id = ?", created.ID).Count(&links)
	if links != 0 {
		t.Errorf("expected technology links to be removed, found %d", links)
	}
}

func expectEvent(t *testing.T, c hub.Client, eventType string) {
	t.Helper()
	select {
	case msg := <-c:
		var e hub.Event
		if err := json.Unmarshal(msg, &e); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if e.Type != eventType {
			t.Errorf("event type = %q, want %q", e.Type, eventType)
		}
	default:
		t.Errorf("expected %s event", eventType)
	}
}

// insertBeforeCreate makes the next insert into table collide with row, as if
// another writer got there between the uniqueness check and the insert.
func insertBeforeCreate(t *testing.T, db *gorm.DB, table string, row any) {
	t.Helper()
	done := false
	err := db.Callback().Create().Before("gorm:create").Register("test:insert_before_create", func(tx *gorm.DB) {
		if done || tx.Statement.Table != table {
			return
		}
		done = true
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(row).Error; err != nil {
			t.Errorf("insert %s: %v", table, err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
}

func TestCreateTechnology_ConcurrentDuplicate(t *testing.T) {
	r, db := setupRouter(t)
	token := login(t, r)
	insertBeforeCreate(t, db, "technologies", &models.Technology{Name: "Rust", Type: models.TechLanguage})

	w := do(r, http.MethodPost, "/api/v1/admin/technologies", token, handler.TechnologyInput{Name: "Rust"})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 (body %s)", w.Code, w.Body.String())
	}
}

func TestCreateProject_ConcurrentDuplicate(t *testing.T) {
	r, db := setupRouter(t)
	token := login(t, r)
	insertBeforeCreate(t, db, "projects", &models.Project{Name: "Weather", Slug: "weather"})

	w := do(r, http.MethodPost, "/api/v1/admin/projects", token, handler.ProjectInput{Name: "Weather"})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 (body %s)", w.Code, w.Body.String())
	}
}

func TestAdminWrites_DatabaseFailure(t *testing.T) {
	r, db := setupRouter(t)
	token := login(t, r)

	for _, table := range []string{"project_technologies", "projects", "technologies"} {
		if err := db.Exec("DROP TABLE " + table).Error; err != nil {
			t.Fatalf("drop %s: %v", table, err)
		}
	}

	tests := []struct {
		method, path string
		body         any
	}{
		{http.MethodPut, "/api/v1/admin/projects/1", handler.ProjectInput{Name: "Weather"}},
		{http.MethodDelete, "/api/v1/admin/projects/1", nil},
		{http.MethodPut, "/api/v1/admin/technologies/1", handler.TechnologyInput{Name: "Rust"}},
		{http.MethodDelete, "/api/v1/admin/technologies/1", nil},
		{http.MethodPost, "/api/v1/admin/technologies", handler.TechnologyInput{Name: "Rust"}},
		{http.MethodPost, "/api/v1/admin/projects", handler.ProjectInput{Name: "Weather"}},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			if w := do(r, tt.method, tt.path, token, tt.body); w.Code != http.StatusInternalServerError {
				t.Errorf("status = %d, want 500 (body %s)", w.Code, w.Body.String())
			}
		})
	}
}
