package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/CarlosSalomon/Celebrate/internal/budget"
	"github.com/CarlosSalomon/Celebrate/internal/handler"
	"github.com/CarlosSalomon/Celebrate/internal/model"
	"github.com/CarlosSalomon/Celebrate/internal/notes"
	"github.com/CarlosSalomon/Celebrate/internal/outbox"
	"github.com/CarlosSalomon/Celebrate/internal/store"
	"github.com/CarlosSalomon/Celebrate/internal/ws"
)

func setup(t *testing.T) (*fiber.App, *store.Store) {
	t.Helper()
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	secret := os.Getenv("JWT_SECRET")
	if dbURL == "" || secret == "" {
		t.Skip("DATABASE_URL or JWT_SECRET not set")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(pool.Close)

	if migration, err := os.ReadFile("../../db/migrations/001_init.sql"); err == nil {
		if _, err := pool.Exec(context.Background(), string(migration)); err != nil {
			t.Logf("migration: %v", err)
		}
	}

	noteStore, err := notes.Open(filepath.Join(t.TempDir(), "notes.db"))
	if err != nil {
		t.Fatalf("notes db: %v", err)
	}
	t.Cleanup(func() { noteStore.Close() })

	st := store.New(pool)
	h := handler.New(handler.Config{
		Store:  st,
		Notes:  noteStore,
		Hub:    ws.NewHub(handler.Snapshots(st)),
		Secret: secret,
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
				message = fe.Message
			}
			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	handler.RegisterRoutes(app, h, secret)
	return app, st
}

func do(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, 10000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

type session struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func registerUser(t *testing.T, app *fiber.App) session {
	t.Helper()
	email := fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8])
	resp := do(t, app, "POST", "/api/auth/register", "", map[string]string{
		"email": email, "password": "testpass123", "name": "Test User",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: status %d", resp.StatusCode)
	}
	var s session
	decode(t, resp, &s)
	return s
}

func createEvent(t *testing.T, app *fiber.App, token string, budget float64) *model.Event {
	t.Helper()
	resp := do(t, app, "POST", "/api/events", token, map[string]any{
		"name": "Birthday Bash", "eventType": "birthday", "budget": budget, "guestCount": 20,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create event: status %d", resp.StatusCode)
	}
	var e model.Event
	decode(t, resp, &e)
	return &e
}

func seedVendor(t *testing.T, st *store.Store, category string, price float64) *model.Vendor {
	t.Helper()
	v := &model.Vendor{
		ID:       uuid.New().String(),
		Name:     fmt.Sprintf("vendor-%s", uuid.New().String()[:8]),
		Category: category,
		Price:    price,
		Rating:   4.5,
	}
	if err := st.CreateVendor(context.Background(), v); err != nil {
		t.Fatalf("seed vendor: %v", err)
	}
	return v
}

type summaryResponse struct {
	Budget         float64                `json:"budget"`
	TotalSpent     float64                `json:"totalSpent"`
	Remaining      float64                `json:"remaining"`
	Percentage     float64                `json:"percentage"`
	DisplayPercent float64                `json:"displayPercent"`
	Overspent      bool                   `json:"overspent"`
	HiredVendors   []model.VendorLineItem `json:"hiredVendors"`
}

func budgetSummary(t *testing.T, app *fiber.App, token, eventID string) summaryResponse {
	t.Helper()
	resp := do(t, app, "GET", "/api/events/"+eventID+"/budget", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("budget summary: status %d", resp.StatusCode)
	}
	var s summaryResponse
	decode(t, resp, &s)
	return s
}

// ----- auth -----

func TestRegister(t *testing.T) {
	app, _ := setup(t)
	s := registerUser(t, app)
	if s.UserID == "" || s.Token == "" || s.RefreshToken == "" {
		t.Fatalf("incomplete session: %+v", s)
	}
	if s.Name != "Test User" {
		t.Errorf("name: got %q", s.Name)
	}
}

func TestRegisterValidation(t *testing.T) {
	app, _ := setup(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"empty email", map[string]string{"email": "", "password": "testpass123", "name": "X"}},
		{"empty password", map[string]string{"email": "a@b.com", "password": "", "name": "X"}},
		{"short password", map[string]string{"email": "a@b.com", "password": "short", "name": "X"}},
		{"empty name", map[string]string{"email": "a@b.com", "password": "testpass123", "name": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, app, "POST", "/api/auth/register", "", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	app, _ := setup(t)

	email := fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8])
	body := map[string]string{"email": email, "password": "testpass123", "name": "First"}
	resp := do(t, app, "POST", "/api/auth/register", "", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first register: status %d", resp.StatusCode)
	}

	body["name"] = "Second"
	resp = do(t, app, "POST", "/api/auth/register", "", body)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d", resp.StatusCode)
	}
}

func TestLogin(t *testing.T) {
	app, _ := setup(t)

	email := fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8])
	do(t, app, "POST", "/api/auth/register", "", map[string]string{
		"email": email, "password": "testpass123", "name": "Login User",
	})

	resp := do(t, app, "POST", "/api/auth/login", "", map[string]string{
		"email": email, "password": "testpass123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: status %d", resp.StatusCode)
	}
	var s session
	decode(t, resp, &s)
	if s.Token == "" {
		t.Fatal("empty token")
	}
	if s.Name != "Login User" {
		t.Errorf("name: got %q", s.Name)
	}

	resp = do(t, app, "POST", "/api/auth/login", "", map[string]string{
		"email": email, "password": "wrongpassword",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("wrong password: expected 401, got %d", resp.StatusCode)
	}

	resp = do(t, app, "POST", "/api/auth/login", "", map[string]string{
		"email": "nobody@nowhere.com", "password": "testpass123",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unknown user: expected 401, got %d", resp.StatusCode)
	}
}

func TestRefreshRotation(t *testing.T) {
	app, _ := setup(t)
	s := registerUser(t, app)

	resp := do(t, app, "POST", "/api/auth/refresh", "", map[string]string{"refreshToken": s.RefreshToken})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh: status %d", resp.StatusCode)
	}
	var rotated struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refreshToken"`
	}
	decode(t, resp, &rotated)
	if rotated.Token == "" || rotated.RefreshToken == "" {
		t.Fatal("incomplete refresh response")
	}
	if rotated.RefreshToken == s.RefreshToken {
		t.Fatal("refresh token not rotated")
	}

	// the spent token must be dead
	resp = do(t, app, "POST", "/api/auth/refresh", "", map[string]string{"refreshToken": s.RefreshToken})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("reused refresh token: expected 401, got %d", resp.StatusCode)
	}
}

func TestLogoutRevokesRefresh(t *testing.T) {
	app, _ := setup(t)
	s := registerUser(t, app)

	resp := do(t, app, "POST", "/api/auth/logout", s.Token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("logout: status %d", resp.StatusCode)
	}

	resp = do(t, app, "POST", "/api/auth/refresh", "", map[string]string{"refreshToken": s.RefreshToken})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("refresh after logout: expected 401, got %d", resp.StatusCode)
	}
}

func TestUnauthenticated(t *testing.T) {
	app, _ := setup(t)
	resp := do(t, app, "GET", "/api/events", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
}

func TestProfileUpdate(t *testing.T) {
	app, _ := setup(t)
	s := registerUser(t, app)

	resp := do(t, app, "PUT", "/api/me", s.Token, map[string]string{
		"name": "Renamed", "photoUrl": "https://example.com/p.png",
	})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("update profile: status %d", resp.StatusCode)
	}

	resp = do(t, app, "GET", "/api/me", s.Token, nil)
	var u model.User
	decode(t, resp, &u)
	if u.Name != "Renamed" {
		t.Errorf("name: got %q", u.Name)
	}
	if u.PhotoURL != "https://example.com/p.png" {
		t.Errorf("photoUrl: got %q", u.PhotoURL)
	}
}

func TestChangePassword(t *testing.T) {
	app, _ := setup(t)

	email := fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8])
	resp := do(t, app, "POST", "/api/auth/register", "", map[string]string{
		"email": email, "password": "testpass123", "name": "X",
	})
	var s session
	decode(t, resp, &s)

	resp = do(t, app, "PUT", "/api/me/password", s.Token, map[string]string{"password": "short"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("short password: expected 400, got %d", resp.StatusCode)
	}

	// the registration token is freshly issued, so this passes the
	// recent-login gate
	resp = do(t, app, "PUT", "/api/me/password", s.Token, map[string]string{"password": "newpass456"})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("change password: status %d", resp.StatusCode)
	}

	resp = do(t, app, "POST", "/api/auth/login", "", map[string]string{"email": email, "password": "newpass456"})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("login with new password: status %d", resp.StatusCode)
	}
	resp = do(t, app, "POST", "/api/auth/login", "", map[string]string{"email": email, "password": "testpass123"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("login with old password: expected 401, got %d", resp.StatusCode)
	}

	// all refresh tokens die with the old password
	resp = do(t, app, "POST", "/api/auth/refresh", "", map[string]string{"refreshToken": s.RefreshToken})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("refresh after password change: expected 401, got %d", resp.StatusCode)
	}
}

// ----- events -----

func TestEventCRUD(t *testing.T) {
	app, _ := setup(t)
	s := registerUser(t, app)

	e := createEvent(t, app, s.Token, 1000)
	if e.ID == "" {
		t.Fatal("empty event id")
	}
	if e.Name != "Birthday Bash" || e.Budget != 1000 || e.GuestCount != 20 {
		t.Errorf("event fields: %+v", e)
	}

	resp := do(t, app, "GET", "/api/events/"+e.ID, s.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get event: status %d", resp.StatusCode)
	}
	var got model.Event
	decode(t, resp, &got)
	if got.OwnerID != s.UserID {
		t.Errorf("owner: got %q, want %q", got.OwnerID, s.UserID)
	}

	resp = do(t, app, "GET", "/api/events", s.Token, nil)
	var list []model.Event
	decode(t, resp, &list)
	found := false
	for _, x := range list {
		if x.ID == e.ID {
			found = true
		}
	}
	if !found {
		t.Error("created event missing from list")
	}

	resp = do(t, app, "PUT", "/api/events/"+e.ID, s.Token, map[string]any{
		"name": "Garden Party", "eventType": "birthday", "budget": 1500, "guestCount": 25,
	})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("update event: status %d", resp.StatusCode)
	}
	resp = do(t, app, "GET", "/api/events/"+e.ID, s.Token, nil)
	decode(t, resp, &got)
	if got.Name != "Garden Party" || got.Budget != 1500 {
		t.Errorf("update not applied: %+v", got)
	}
}

func TestEventValidation(t *testing.T) {
	app, _ := setup(t)
	s := registerUser(t, app)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"empty name", map[string]any{"name": "", "budget": 100}},
		{"zero budget", map[string]any{"name": "X", "budget": 0}},
		{"negative budget", map[string]any{"name": "X", "budget": -5}},
		{"bad date", map[string]any{"name": "X", "budget": 100, "date": "tomorrow"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, app, "POST", "/api/events", s.Token, tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestEventNotFound(t *testing.T) {
	app, _ := setup(t)
	s := registerUser(t, app)

	resp := do(t, app, "GET", "/api/events/"+uuid.New().String(), s.Token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

// ----- hire / cancel / budget -----

func TestHireAndBudget(t *testing.T) {
	app, st := setup(t)
	s := registerUser(t, app)
	e := createEvent(t, app, s.Token, 1000)
	dj := seedVendor(t, st, budget.CategoryDJ, 300)

	resp := do(t, app, "POST", "/api/events/"+e.ID+"/vendors", s.Token, map[string]string{"vendorId": dj.ID})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("hire: status %d", resp.StatusCode)
	}
	var hired struct {
		LineItem model.VendorLineItem `json:"lineItem"`
		Added    bool                 `json:"added"`
	}
	decode(t, resp, &hired)
	if !hired.Added {
		t.Fatal("first hire not added")
	}
	if hired.LineItem.ID == "" || hired.LineItem.VendorID != dj.ID {
		t.Errorf("line item: %+v", hired.LineItem)
	}

	sum := budgetSummary(t, app, s.Token, e.ID)
	if sum.TotalSpent != 300 || sum.Remaining != 700 || sum.Percentage != 30 {
		t.Errorf("after hire: %+v", sum)
	}
	if sum.Overspent {
		t.Error("not overspent yet")
	}

	// the category flag flips with the hire
	resp = do(t, app, "GET", "/api/events/"+e.ID, s.Token, nil)
	var got model.Event
	decode(t, resp, &got)
	if !got.Status.DJ {
		t.Error("dj flag not set after hire")
	}
}

func TestHireIdempotent(t *testing.T) {
	app, st := setup(t)
	s := registerUser(t, app)
	e := createEvent(t, app, s.Token, 1000)
	dj := seedVendor(t, st, budget.CategoryDJ, 300)

	hire := func() (model.VendorLineItem, bool) {
		resp := do(t, app, "POST", "/api/events/"+e.ID+"/vendors", s.Token, map[string]string{"vendorId": dj.ID})
		var hired struct {
			LineItem model.VendorLineItem `json:"lineItem"`
			Added    bool                 `json:"added"`
		}
		decode(t, resp, &hired)
		return hired.LineItem, hired.Added
	}

	first, added := hire()
	if !added {
		t.Fatal("first hire not added")
	}
	second, added := hire()
	if added {
		t.Error("second identical hire reported as added")
	}
	// the duplicate must hand back the stored row, not a dangling id
	if second.ID != first.ID {
		t.Errorf("duplicate hire id: got %q, want %q", second.ID, first.ID)
	}

	sum := budgetSummary(t, app, s.Token, e.ID)
	if len(sum.HiredVendors) != 1 {
		t.Errorf("expected 1 line item, got %d", len(sum.HiredVendors))
	}
	if sum.TotalSpent != 300 {
		t.Errorf("total spent: got %v", sum.TotalSpent)
	}

	// the id from the duplicate response is cancellable
	resp := do(t, app, "POST", "/api/events/"+e.ID+"/vendors/cancel", s.Token, map[string]any{
		"lineItemId": second.ID,
	})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("cancel with duplicate-response id: status %d", resp.StatusCode)
	}
}

func TestOverspend(t *testing.T) {
	app, st := setup(t)
	s := registerUser(t, app)
	e := createEvent(t, app, s.Token, 1000)
	dj := seedVendor(t, st, budget.CategoryDJ, 300)
	catering := seedVendor(t, st, budget.CategoryCatering, 900)

	do(t, app, "POST", "/api/events/"+e.ID+"/vendors", s.Token, map[string]string{"vendorId": dj.ID})
	do(t, app, "POST", "/api/events/"+e.ID+"/vendors", s.Token, map[string]string{"vendorId": catering.ID})

	sum := budgetSummary(t, app, s.Token, e.ID)
	if sum.TotalSpent != 1200 || sum.Remaining != -200 {
		t.Errorf("overspend figures: %+v", sum)
	}
	if sum.Percentage != 120 {
		t.Errorf("raw percentage: got %v", sum.Percentage)
	}
	if sum.DisplayPercent != 100 {
		t.Errorf("display percent: got %v", sum.DisplayPercent)
	}
	if !sum.Overspent {
		t.Error("overspent flag not set")
	}
}

func TestCancelService(t *testing.T) {
	app, st := setup(t)
	s := registerUser(t, app)
	e := createEvent(t, app, s.Token, 1000)
	dj := seedVendor(t, st, budget.CategoryDJ, 300)
	catering := seedVendor(t, st, budget.CategoryCatering, 900)

	resp := do(t, app, "POST", "/api/events/"+e.ID+"/vendors", s.Token, map[string]string{"vendorId": dj.ID})
	var hired struct {
		LineItem model.VendorLineItem `json:"lineItem"`
	}
	decode(t, resp, &hired)
	do(t, app, "POST", "/api/events/"+e.ID+"/vendors", s.Token, map[string]string{"vendorId": catering.ID})

	resp = do(t, app, "POST", "/api/events/"+e.ID+"/vendors/cancel", s.Token, map[string]any{
		"lineItemId": hired.LineItem.ID,
	})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("cancel: status %d", resp.StatusCode)
	}

	sum := budgetSummary(t, app, s.Token, e.ID)
	if sum.TotalSpent != 900 || sum.Remaining != 100 {
		t.Errorf("after cancel: %+v", sum)
	}
	if len(sum.HiredVendors) != 1 {
		t.Errorf("expected 1 remaining line item, got %d", len(sum.HiredVendors))
	}

	// flag stays up after cancel unless reset is configured
	resp = do(t, app, "GET", "/api/events/"+e.ID, s.Token, nil)
	var got model.Event
	decode(t, resp, &got)
	if !got.Status.DJ {
		t.Error("dj flag cleared on cancel with default config")
	}

	// cancelling the same item again is a 404
	resp = do(t, app, "POST", "/api/events/"+e.ID+"/vendors/cancel", s.Token, map[string]any{
		"lineItemId": hired.LineItem.ID,
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("double cancel: expected 404, got %d", resp.StatusCode)
	}
}

func TestCancelByNameAndPrice(t *testing.T) {
	app, st := setup(t)
	s := registerUser(t, app)
	e := createEvent(t, app, s.Token, 1000)
	dj := seedVendor(t, st, budget.CategoryDJ, 300)

	do(t, app, "POST", "/api/events/"+e.ID+"/vendors", s.Token, map[string]string{"vendorId": dj.ID})

	resp := do(t, app, "POST", "/api/events/"+e.ID+"/vendors/cancel", s.Token, map[string]any{
		"name": dj.Name, "price": dj.Price,
	})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("cancel by name: status %d", resp.StatusCode)
	}

	sum := budgetSummary(t, app, s.Token, e.ID)
	if sum.TotalSpent != 0 {
		t.Errorf("total spent after cancel: got %v", sum.TotalSpent)
	}
}

func TestHireUnknownVendor(t *testing.T) {
	app, _ := setup(t)
	s := registerUser(t, app)
	e := createEvent(t, app, s.Token, 1000)

	resp := do(t, app, "POST", "/api/events/"+e.ID+"/vendors", s.Token, map[string]string{
		"vendorId": uuid.New().String(),
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestVendorCatalog(t *testing.T) {
	app, st := setup(t)
	s := registerUser(t, app)
	v := seedVendor(t, st, budget.CategoryVenue, 2000)

	resp := do(t, app, "GET", "/api/categories", s.Token, nil)
	var cats []string
	decode(t, resp, &cats)
	if len(cats) != 5 {
		t.Errorf("expected 5 categories, got %d", len(cats))
	}

	resp = do(t, app, "GET", "/api/vendors?category="+budget.CategoryVenue, s.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list vendors: status %d", resp.StatusCode)
	}
	var vendors []model.Vendor
	decode(t, resp, &vendors)
	found := false
	for _, x := range vendors {
		if x.ID == v.ID {
			found = true
		}
	}
	if !found {
		t.Error("seeded vendor missing from catalog")
	}

	resp = do(t, app, "GET", "/api/vendors?category=Fireworks", s.Token, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown category: expected 400, got %d", resp.StatusCode)
	}
}

// ----- guests -----

func TestGuestFlow(t *testing.T) {
	app, _ := setup(t)
	s := registerUser(t, app)
	e := createEvent(t, app, s.Token, 500)

	resp := do(t, app, "POST", "/api/events/"+e.ID+"/guests", s.Token, map[string]string{
		"name": "Ada", "email": "ada@example.com",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add guest: status %d", resp.StatusCode)
	}
	var g model.Guest
	decode(t, resp, &g)
	if g.Status != model.GuestPending {
		t.Errorf("new guest status: got %q", g.Status)
	}

	toggle := func() model.GuestStatus {
		resp := do(t, app, "POST", "/api/events/"+e.ID+"/guests/"+g.ID+"/toggle", s.Token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("toggle: status %d", resp.StatusCode)
		}
		var out struct {
			Status model.GuestStatus `json:"status"`
		}
		decode(t, resp, &out)
		return out.Status
	}

	if got := toggle(); got != model.GuestConfirmed {
		t.Errorf("first toggle: got %q", got)
	}

	resp = do(t, app, "GET", "/api/events/"+e.ID+"/guests", s.Token, nil)
	var list struct {
		Guests    []model.Guest `json:"guests"`
		Confirmed int           `json:"confirmed"`
	}
	decode(t, resp, &list)
	if list.Confirmed != 1 {
		t.Errorf("confirmed count: got %d", list.Confirmed)
	}

	if got := toggle(); got != model.GuestDeclined {
		t.Errorf("second toggle: got %q", got)
	}
	if got := toggle(); got != model.GuestPending {
		t.Errorf("third toggle: got %q", got)
	}

	resp = do(t, app, "DELETE", "/api/events/"+e.ID+"/guests/"+g.ID, s.Token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete guest: status %d", resp.StatusCode)
	}
	resp = do(t, app, "POST", "/api/events/"+e.ID+"/guests/"+g.ID+"/toggle", s.Token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("toggle deleted guest: expected 404, got %d", resp.StatusCode)
	}
}

// ----- tasks -----

func TestTaskFlow(t *testing.T) {
	app, _ := setup(t)
	s := registerUser(t, app)
	e := createEvent(t, app, s.Token, 500)

	resp := do(t, app, "POST", "/api/events/"+e.ID+"/tasks", s.Token, map[string]string{"title": "Book venue"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add task: status %d", resp.StatusCode)
	}
	var task model.Task
	decode(t, resp, &task)
	if task.IsCompleted {
		t.Error("new task already completed")
	}

	resp = do(t, app, "POST", "/api/events/"+e.ID+"/tasks/"+task.ID+"/toggle", s.Token, nil)
	var out struct {
		IsCompleted bool `json:"isCompleted"`
	}
	decode(t, resp, &out)
	if !out.IsCompleted {
		t.Error("toggle did not complete task")
	}

	resp = do(t, app, "DELETE", "/api/events/"+e.ID+"/tasks/"+task.ID, s.Token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete task: status %d", resp.StatusCode)
	}

	resp = do(t, app, "GET", "/api/events/"+e.ID+"/tasks", s.Token, nil)
	var tasks []model.Task
	decode(t, resp, &tasks)
	for _, x := range tasks {
		if x.ID == task.ID {
			t.Error("deleted task still listed")
		}
	}
}

// ----- notes -----

func TestNoteFlow(t *testing.T) {
	app, _ := setup(t)
	s := registerUser(t, app)
	e := createEvent(t, app, s.Token, 500)

	resp := do(t, app, "POST", "/api/events/"+e.ID+"/notes", s.Token, map[string]string{"content": "remember the cake"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add note: status %d", resp.StatusCode)
	}
	var created struct {
		ID int64 `json:"id"`
	}
	decode(t, resp, &created)

	resp = do(t, app, "GET", "/api/events/"+e.ID+"/notes", s.Token, nil)
	var list []model.Note
	decode(t, resp, &list)
	if len(list) != 1 || list[0].Content != "remember the cake" {
		t.Errorf("notes list: %+v", list)
	}

	resp = do(t, app, "DELETE", fmt.Sprintf("/api/events/%s/notes/%d", e.ID, created.ID), s.Token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete note: status %d", resp.StatusCode)
	}
	resp = do(t, app, "DELETE", fmt.Sprintf("/api/events/%s/notes/%d", e.ID, created.ID), s.Token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("double delete: expected 404, got %d", resp.StatusCode)
	}
}

func TestNoteDeleteScopedToOwnEvent(t *testing.T) {
	app, _ := setup(t)
	victim := registerUser(t, app)
	attacker := registerUser(t, app)
	victimEvent := createEvent(t, app, victim.Token, 500)
	attackerEvent := createEvent(t, app, attacker.Token, 500)

	resp := do(t, app, "POST", "/api/events/"+victimEvent.ID+"/notes", victim.Token, map[string]string{"content": "private"})
	var created struct {
		ID int64 `json:"id"`
	}
	decode(t, resp, &created)

	// owning a different event must not unlock another event's notes
	resp = do(t, app, "DELETE", fmt.Sprintf("/api/events/%s/notes/%d", attackerEvent.ID, created.ID), attacker.Token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("cross-event delete: expected 404, got %d", resp.StatusCode)
	}

	resp = do(t, app, "GET", "/api/events/"+victimEvent.ID+"/notes", victim.Token, nil)
	var list []model.Note
	decode(t, resp, &list)
	if len(list) != 1 {
		t.Fatalf("victim note gone: %d notes left", len(list))
	}
}

// ----- notifications -----

func TestHireQueuesNotification(t *testing.T) {
	app, st := setup(t)
	s := registerUser(t, app)
	e := createEvent(t, app, s.Token, 1000)
	dj := seedVendor(t, st, budget.CategoryDJ, 300)

	do(t, app, "POST", "/api/events/"+e.ID+"/vendors", s.Token, map[string]string{"vendorId": dj.ID})

	// drain the outbox the way the background loop does
	d := outbox.NewDispatcher(st, nil, nil, time.Second)
	if err := d.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}

	resp := do(t, app, "GET", "/api/notifications", s.Token, nil)
	var list []model.Notification
	decode(t, resp, &list)

	var n *model.Notification
	for i := range list {
		if list[i].Title == "Vendor hired" {
			n = &list[i]
		}
	}
	if n == nil {
		t.Fatal("hire notification not delivered")
	}
	if n.Type != model.NotifySuccess {
		t.Errorf("notification type: got %q", n.Type)
	}
	if n.IsRead {
		t.Error("new notification already read")
	}

	resp = do(t, app, "POST", "/api/notifications/"+n.ID+"/read", s.Token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("mark read: status %d", resp.StatusCode)
	}
	resp = do(t, app, "GET", "/api/notifications", s.Token, nil)
	decode(t, resp, &list)
	for _, x := range list {
		if x.ID == n.ID && !x.IsRead {
			t.Error("notification still unread")
		}
	}
}

// ----- IDOR / ownership -----

func TestOwnershipHidden(t *testing.T) {
	app, st := setup(t)
	owner := registerUser(t, app)
	stranger := registerUser(t, app)
	e := createEvent(t, app, owner.Token, 1000)
	dj := seedVendor(t, st, budget.CategoryDJ, 300)

	paths := []struct {
		method, path string
		body         any
	}{
		{"GET", "/api/events/" + e.ID, nil},
		{"GET", "/api/events/" + e.ID + "/budget", nil},
		{"POST", "/api/events/" + e.ID + "/vendors", map[string]string{"vendorId": dj.ID}},
		{"POST", "/api/events/" + e.ID + "/guests", map[string]string{"name": "Eve"}},
		{"GET", "/api/events/" + e.ID + "/tasks", nil},
		{"GET", "/api/events/" + e.ID + "/notes", nil},
	}
	for _, p := range paths {
		resp := do(t, app, p.method, p.path, stranger.Token, p.body)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s %s: expected 404 for foreign event, got %d", p.method, p.path, resp.StatusCode)
		}
	}

	// foreign update must not touch the row
	resp := do(t, app, "PUT", "/api/events/"+e.ID, stranger.Token, map[string]any{
		"name": "Hijacked", "budget": 1,
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("foreign update: expected 404, got %d", resp.StatusCode)
	}
	resp = do(t, app, "GET", "/api/events/"+e.ID, owner.Token, nil)
	var got model.Event
	decode(t, resp, &got)
	if got.Name != "Birthday Bash" {
		t.Errorf("foreign update leaked through: %+v", got)
	}
}

func TestOwnershipList(t *testing.T) {
	app, _ := setup(t)
	owner := registerUser(t, app)
	stranger := registerUser(t, app)
	createEvent(t, app, owner.Token, 1000)

	resp := do(t, app, "GET", "/api/events", stranger.Token, nil)
	var list []model.Event
	decode(t, resp, &list)
	for _, x := range list {
		if x.OwnerID == owner.UserID {
			t.Error("stranger can see the owner's event")
		}
	}
}
