package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"abrigo-animais/internal/router"
	"abrigo-animais/pkg/token"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tokens, err := token.NewService(token.Config{
		Secret:     "router-test-secret",
		Issuer:     "abrigo-test",
		Expiration: time.Hour,
	})
	if err != nil {
		t.Fatalf("token service: %v", err)
	}

	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier: nil, // modo dev: X-Debug-User-ID injeta claims
		Tokens:       tokens,
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_AdoptionFlow(t *testing.T) {
	ts := newTestServer(t)

	animalID := createAnimal(t, ts.URL, "Rex")

	// 1) Pedido público vira pending
	payload := map[string]any{
		"animalId":     animalID,
		"adopterName":  "João Pereira",
		"adopterEmail": "joao@email.com",
		"adopterPhone": "11988887777",
		"motivation":   "sempre quis um cachorro e tenho espaço em casa",
	}
	st, body := doJSON(t, ts.URL, "POST", "/api/adoptions", "", "", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create adoption, got %d body=%s", st, string(body))
	}
	var created struct {
		Adoption struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"adoption"`
	}
	_ = json.Unmarshal(body, &created)
	if created.Adoption.Status != "pending" {
		t.Fatalf("expected pending status, got %q", created.Adoption.Status)
	}

	// 2) Pedido idêntico com o pendente vivo => 400
	st, body = doJSON(t, ts.URL, "POST", "/api/adoptions", "", "", payload)
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 duplicate adoption, got %d body=%s", st, string(body))
	}

	// 3) Admin aprova; o animal sai da vitrine para inProcess
	st, body = doJSON(t, ts.URL, "PATCH", "/api/adoptions/"+created.Adoption.ID+"/status",
		"admin-1", "admin", map[string]any{"status": "approved"})
	if st != http.StatusOK {
		t.Fatalf("expected 200 approve adoption, got %d body=%s", st, string(body))
	}

	st, body = doJSON(t, ts.URL, "GET", "/api/animals/"+animalID, "", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 get animal, got %d", st)
	}
	var animal struct {
		Status string `json:"status"`
	}
	_ = json.Unmarshal(body, &animal)
	if animal.Status != "inProcess" {
		t.Fatalf("expected animal inProcess after approval, got %q", animal.Status)
	}
}

func TestHTTP_AnimalListPagination(t *testing.T) {
	ts := newTestServer(t)

	for i := 0; i < 25; i++ {
		createAnimal(t, ts.URL, fmt.Sprintf("Animal %02d", i))
	}

	st, body := doJSON(t, ts.URL, "GET", "/api/animals?page=2&limit=10", "", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list animals, got %d body=%s", st, string(body))
	}

	var resp struct {
		Items      []json.RawMessage `json:"items"`
		Pagination struct {
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
			Total int64 `json:"total"`
			Pages int   `json:"pages"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal list: %v body=%s", err, string(body))
	}

	if len(resp.Items) != 10 {
		t.Fatalf("expected 10 items on page 2, got %d", len(resp.Items))
	}
	if resp.Pagination.Total != 25 {
		t.Fatalf("expected total 25, got %d", resp.Pagination.Total)
	}
	if resp.Pagination.Pages != 3 {
		t.Fatalf("expected 3 pages, got %d", resp.Pagination.Pages)
	}
}

func TestHTTP_NewsPublishTimestamp(t *testing.T) {
	ts := newTestServer(t)

	// Rascunho não tem publishedAt
	st, body := doForm(t, ts.URL, "POST", "/api/news", "editor-1", "admin", map[string]string{
		"title":   "Campanha de vacinação",
		"content": "O abrigo realizará uma grande campanha de vacinação gratuita neste sábado.",
		"excerpt": "Vacinação gratuita no sábado",
		"status":  "draft",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create news, got %d body=%s", st, string(body))
	}
	var created struct {
		News struct {
			ID          string     `json:"id"`
			Slug        string     `json:"slug"`
			PublishedAt *time.Time `json:"publishedAt"`
		} `json:"news"`
	}
	_ = json.Unmarshal(body, &created)
	if created.News.PublishedAt != nil {
		t.Fatalf("draft should not have publishedAt, got %v", created.News.PublishedAt)
	}
	if created.News.Slug != "campanha-de-vacinacao" {
		t.Fatalf("unexpected slug %q", created.News.Slug)
	}

	// Publicar carimba publishedAt
	st, body = doJSON(t, ts.URL, "PUT", "/api/news/"+created.News.ID, "editor-1", "admin",
		map[string]any{"status": "published"})
	if st != http.StatusOK {
		t.Fatalf("expected 200 publish news, got %d body=%s", st, string(body))
	}
	var published struct {
		News struct {
			PublishedAt *time.Time `json:"publishedAt"`
		} `json:"news"`
	}
	_ = json.Unmarshal(body, &published)
	if published.News.PublishedAt == nil {
		t.Fatal("published article must have publishedAt")
	}

	// Voltar para rascunho limpa o carimbo
	st, body = doJSON(t, ts.URL, "PUT", "/api/news/"+created.News.ID, "editor-1", "admin",
		map[string]any{"status": "draft"})
	if st != http.StatusOK {
		t.Fatalf("expected 200 unpublish news, got %d body=%s", st, string(body))
	}
	var draft struct {
		News struct {
			PublishedAt *time.Time `json:"publishedAt"`
		} `json:"news"`
	}
	_ = json.Unmarshal(body, &draft)
	if draft.News.PublishedAt != nil {
		t.Fatalf("draft should clear publishedAt, got %v", draft.News.PublishedAt)
	}
}

func TestHTTP_AuthRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	st, body := doJSON(t, ts.URL, "POST", "/api/auth/register", "", "", map[string]any{
		"name":     "Maria Souza",
		"email":    "maria@email.com",
		"password": "senha-muito-secreta",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 register, got %d body=%s", st, string(body))
	}

	st, body = doJSON(t, ts.URL, "POST", "/api/auth/login", "", "", map[string]any{
		"email":    "maria@email.com",
		"password": "senha-muito-secreta",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 login, got %d body=%s", st, string(body))
	}
	var login struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(body, &login)
	if login.Token == "" {
		t.Fatalf("login must return a token, body=%s", string(body))
	}

	st, _ = doJSON(t, ts.URL, "POST", "/api/auth/login", "", "", map[string]any{
		"email":    "maria@email.com",
		"password": "senha-errada",
	})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 bad password, got %d", st)
	}
}

func createAnimal(t *testing.T, baseURL, name string) string {
	t.Helper()

	st, body := doForm(t, baseURL, "POST", "/api/animals", "admin-1", "admin", map[string]string{
		"name":        name,
		"species":     "cachorro",
		"age":         "adulto",
		"size":        "médio",
		"gender":      "macho",
		"description": "muito dócil, adora crianças e passeios",
		"city":        "São Paulo",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create animal, got %d body=%s", st, string(body))
	}

	var resp struct {
		Animal struct {
			ID string `json:"id"`
		} `json:"animal"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Animal.ID == "" {
		t.Fatalf("create animal: missing id body=%s", string(body))
	}
	return resp.Animal.ID
}

func doJSON(t *testing.T, baseURL, method, path, debugUserID, debugRole string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	setDebugAuth(req, debugUserID, debugRole)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

func doForm(t *testing.T, baseURL, method, path, debugUserID, debugRole string, fields map[string]string) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req, err := http.NewRequest(method, baseURL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	setDebugAuth(req, debugUserID, debugRole)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

func setDebugAuth(req *http.Request, userID, role string) {
	if userID != "" {
		req.Header.Set("X-Debug-User-ID", userID)
	}
	if role != "" {
		req.Header.Set("X-Debug-Role", role)
	}
}
