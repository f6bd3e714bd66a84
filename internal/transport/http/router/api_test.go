package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"bookswap/internal/core/auth"
	"bookswap/internal/core/database"
	"bookswap/internal/domain"
	"bookswap/internal/repo"
	"bookswap/internal/service"
	"bookswap/internal/transport/http/handler"
	"bookswap/internal/transport/http/router"
	"bookswap/pkg/utils"
	"go.uber.org/zap"
)

func init() { gin.SetMode(gin.TestMode) }

type testAPI struct {
	engine *gin.Engine
	db     *gorm.DB
	jwter  *auth.JWTer
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Book{}, &domain.SwapRequest{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "bookswap", TTL: time.Hour}
	log := zap.NewNop()

	userRepo := repo.NewUserRepo(db)
	bookRepo := repo.NewBookRepo(db)

	authH := handler.NewAuthHandler(service.NewAuthService(userRepo, jwter), log)
	bookH := handler.NewBookHandler(service.NewBookService(bookRepo, nil), log)
	reqH := handler.NewRequestHandler(service.NewRequestService(repo.NewSwapRequestRepo(db), bookRepo), log)

	return &testAPI{
		engine: router.NewAPIEngine(log, jwter, authH, bookH, reqH),
		db:     db,
		jwter:  jwter,
	}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

// 注册 + 登录，返回 token
func (a *testAPI) signup(t *testing.T, email, name string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/register", "", gin.H{"email": email, "password": "pw", "name": name})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", email, w.Code, w.Body.String())
	}
	w = a.do(t, http.MethodPost, "/api/login", "", gin.H{"email": email, "password": "pw"})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", email, w.Code, w.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	decode(t, w, &out)
	if out.Token == "" {
		t.Fatal("login returned empty token")
	}
	return out.Token
}

func (a *testAPI) addBook(t *testing.T, token, title string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/add-books", token, gin.H{"title": title, "author": "A", "description": "d"})
	if w.Code != http.StatusCreated {
		t.Fatalf("add book: status %d body %s", w.Code, w.Body.String())
	}
	var out struct {
		ID string `json:"id"`
	}
	decode(t, w, &out)
	return out.ID
}

func TestHello(t *testing.T) {
	a := newTestAPI(t)
	w := a.do(t, http.MethodGet, "/api/hello", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var out struct {
		Message string `json:"message"`
	}
	decode(t, w, &out)
	if out.Message == "" {
		t.Error("empty message")
	}
}

func TestRegisterValidationAndConflict(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodPost, "/api/register", "", gin.H{"email": "a@x.com"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing password: status = %d, want 400", w.Code)
	}

	w = a.do(t, http.MethodPost, "/api/register", "", gin.H{"email": "a@x.com", "password": "pw", "name": "A"})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status = %d body %s", w.Code, w.Body.String())
	}
	var out struct {
		UserID string `json:"userId"`
	}
	decode(t, w, &out)
	if out.UserID == "" {
		t.Error("no userId in response")
	}
	if bytes.Contains(w.Body.Bytes(), []byte("pw")) || bytes.Contains(w.Body.Bytes(), []byte("$2")) {
		t.Error("password material echoed back")
	}

	// 同邮箱再注册必须 409
	w = a.do(t, http.MethodPost, "/api/register", "", gin.H{"email": "a@x.com", "password": "pw2", "name": "B"})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate: status = %d, want 409", w.Code)
	}
}

func TestLoginFailuresHaveIdenticalShape(t *testing.T) {
	a := newTestAPI(t)
	a.signup(t, "a@x.com", "A")

	wrongPw := a.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "a@x.com", "password": "bad"})
	unknown := a.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "nobody@x.com", "password": "pw"})

	if wrongPw.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d/%d, want 401/401", wrongPw.Code, unknown.Code)
	}
	if wrongPw.Body.String() != unknown.Body.String() {
		t.Errorf("bodies differ: %q vs %q", wrongPw.Body.String(), unknown.Body.String())
	}
}

func TestLoginTokenClaims(t *testing.T) {
	a := newTestAPI(t)
	tok := a.signup(t, "a@x.com", "A")

	claims, err := a.jwter.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var u domain.User
	if err := a.db.First(&u, "email = ?", "a@x.com").Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if claims.UserID != u.ID || claims.Email != u.Email {
		t.Errorf("claims %s/%s, want %s/%s", claims.UserID, claims.Email, u.ID, u.Email)
	}
}

func TestProfile(t *testing.T) {
	a := newTestAPI(t)
	tok := a.signup(t, "a@x.com", "A")

	w := a.do(t, http.MethodGet, "/api/profile", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", w.Code)
	}

	w = a.do(t, http.MethodGet, "/api/profile", "garbage", nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("bad token: status = %d, want 403", w.Code)
	}

	w = a.do(t, http.MethodGet, "/api/profile", tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	var out map[string]any
	decode(t, w, &out)
	if out["email"] != "a@x.com" || out["name"] != "A" {
		t.Errorf("profile = %v", out)
	}
	if _, leaked := out["passwordHash"]; leaked {
		t.Error("password hash leaked")
	}
	if bytes.Contains(w.Body.Bytes(), []byte("$2")) {
		t.Error("bcrypt hash in body")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	a := newTestAPI(t)
	a.signup(t, "a@x.com", "A")

	expired := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "bookswap", TTL: -2 * time.Minute}
	tok, err := expired.Issue("whoever", "a@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	w := a.do(t, http.MethodGet, "/api/profile", tok, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestBookListPublicAndFiltered(t *testing.T) {
	a := newTestAPI(t)
	tok := a.signup(t, "owner@x.com", "Owner")
	a.addBook(t, tok, "Visible")

	// UNAVAILABLE 的书只能直接种进库里（没有接口会翻状态）
	var u domain.User
	if err := a.db.First(&u, "email = ?", "owner@x.com").Error; err != nil {
		t.Fatalf("load owner: %v", err)
	}
	hidden := domain.Book{ID: utils.NewID(), Title: "Hidden", Author: "A", Status: domain.BookStatusUnavailable, OwnerID: u.ID}
	if err := a.db.Create(&hidden).Error; err != nil {
		t.Fatalf("seed hidden: %v", err)
	}

	w := a.do(t, http.MethodGet, "/api/get-books", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var books []struct {
		Title  string `json:"title"`
		Status string `json:"status"`
		Owner  struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"owner"`
	}
	decode(t, w, &books)
	if len(books) != 1 {
		t.Fatalf("len = %d, want 1: %s", len(books), w.Body.String())
	}
	if books[0].Title != "Visible" || books[0].Status != domain.BookStatusAvailable {
		t.Errorf("wrong book: %+v", books[0])
	}
	if books[0].Owner.Name != "Owner" || books[0].Owner.ID != u.ID {
		t.Errorf("owner not annotated: %+v", books[0].Owner)
	}
}

func TestBookUpdateOwnership(t *testing.T) {
	a := newTestAPI(t)
	ownerTok := a.signup(t, "owner@x.com", "Owner")
	otherTok := a.signup(t, "other@x.com", "Other")
	bookID := a.addBook(t, ownerTok, "Book")

	body := gin.H{"title": "Renamed", "author": "B", "condition": "worn"}

	w := a.do(t, http.MethodPost, "/api/update/"+bookID, otherTok, body)
	if w.Code != http.StatusForbidden {
		t.Errorf("other caller: status = %d, want 403", w.Code)
	}
	w = a.do(t, http.MethodPost, "/api/update/no-such-id", otherTok, body)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing id: status = %d, want 404", w.Code)
	}
	w = a.do(t, http.MethodPost, "/api/update/"+bookID, ownerTok, body)
	if w.Code != http.StatusOK {
		t.Fatalf("owner update: status = %d body %s", w.Code, w.Body.String())
	}
	var out struct {
		Title     string `json:"title"`
		Condition string `json:"condition"`
	}
	decode(t, w, &out)
	if out.Title != "Renamed" || out.Condition != "worn" {
		t.Errorf("update not applied: %+v", out)
	}
}

func TestBookDeleteOwnership(t *testing.T) {
	a := newTestAPI(t)
	ownerTok := a.signup(t, "owner@x.com", "Owner")
	otherTok := a.signup(t, "other@x.com", "Other")
	bookID := a.addBook(t, ownerTok, "Book")

	w := a.do(t, http.MethodDelete, "/api/delete-book/"+bookID, otherTok, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("other caller: status = %d, want 403", w.Code)
	}
	w = a.do(t, http.MethodDelete, "/api/delete-book/"+bookID, ownerTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("owner delete: status = %d body %s", w.Code, w.Body.String())
	}
	w = a.do(t, http.MethodDelete, "/api/delete-book/"+bookID, ownerTok, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("gone: status = %d, want 404", w.Code)
	}
}

func TestSwapRequests(t *testing.T) {
	a := newTestAPI(t)
	ownerTok := a.signup(t, "owner@x.com", "Owner")
	reqTok := a.signup(t, "req@x.com", "Req")
	bookID := a.addBook(t, ownerTok, "Swap Me")

	// 自己的书 → 400，且绝不落库
	w := a.do(t, http.MethodPost, "/api/requests", ownerTok, gin.H{"bookId": bookID})
	if w.Code != http.StatusBadRequest {
		t.Errorf("self request: status = %d, want 400", w.Code)
	}
	var count int64
	if err := a.db.Model(&domain.SwapRequest{}).Count(&count).Error; err != nil || count != 0 {
		t.Errorf("self request persisted (count=%d, err=%v)", count, err)
	}

	// 别人的书 → 201
	w = a.do(t, http.MethodPost, "/api/requests", reqTok, gin.H{"bookId": bookID})
	if w.Code != http.StatusCreated {
		t.Fatalf("request: status = %d body %s", w.Code, w.Body.String())
	}

	// 不存在的书：契约里没有 404，走 500
	w = a.do(t, http.MethodPost, "/api/requests", reqTok, gin.H{"bookId": "no-such-book"})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("missing book: status = %d, want 500", w.Code)
	}

	// owner 看 incoming，requester 看不到
	w = a.do(t, http.MethodGet, "/api/requests/incoming", ownerTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("incoming: status = %d", w.Code)
	}
	var incoming []struct {
		BookID    string `json:"bookId"`
		Requester struct {
			Name string `json:"name"`
		} `json:"requester"`
		Book struct {
			Title string `json:"title"`
		} `json:"book"`
	}
	decode(t, w, &incoming)
	if len(incoming) != 1 {
		t.Fatalf("incoming len = %d, want 1", len(incoming))
	}
	if incoming[0].Requester.Name != "Req" || incoming[0].Book.Title != "Swap Me" {
		t.Errorf("annotation wrong: %+v", incoming[0])
	}

	w = a.do(t, http.MethodGet, "/api/requests/incoming", reqTok, nil)
	var none []any
	decode(t, w, &none)
	if len(none) != 0 {
		t.Errorf("requester sees %d incoming", len(none))
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newTestAPI(t)
	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/profile"},
		{http.MethodPost, "/api/add-books"},
		{http.MethodPost, "/api/update/x"},
		{http.MethodDelete, "/api/delete-book/x"},
		{http.MethodPost, "/api/requests"},
		{http.MethodGet, "/api/requests/incoming"},
	}
	for _, p := range paths {
		t.Run(fmt.Sprintf("%s %s", p.method, p.path), func(t *testing.T) {
			w := a.do(t, p.method, p.path, "", nil)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}
