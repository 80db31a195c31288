package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
)

// fixedGen answers every prompt with the same payload so integration
// tests never talk to a model server.
type fixedGen struct{ out string }

func (f fixedGen) Generate(ctx context.Context, prompt string) (string, error) {
	return f.out, nil
}

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	// allow callers to pass nil for body safely
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	cfg = loadConfig()
	cfg.DataDir = t.TempDir()
	cfg.UploadDir = t.TempDir()
	jwtSecret = []byte(cfg.JWTSecret)
	gen = fixedGen{out: `{"days": 5, "storage_tip": "Keep refrigerated"}`}
	initDB()
	r := gin.Default()
	setupRoutes(r)
	return r
}

func tinyPNG(t *testing.T) []byte {
	img := image.NewGray(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)

	// 1. Register user
	regBody, _ := json.Marshal(map[string]string{"username": "user1", "password": "passw1"})
	resp := performRequest(r, http.MethodPost, "/register", bytes.NewBuffer(regBody), "", "application/json")
	if resp.Code != 200 && resp.Code != 409 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 2. Login
	loginBody, _ := json.Marshal(map[string]string{"username": "user1", "password": "passw1"})
	resp = performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(loginBody), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", loginResp)
	}

	// 3. Scan a pair of labels (blank images just yield defaults)
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	pw, _ := mw.CreateFormFile("product", "product.png")
	_, _ = pw.Write(tinyPNG(t))
	ew, _ := mw.CreateFormFile("expiry", "expiry.png")
	_, _ = ew.Write(tinyPNG(t))
	_ = mw.Close()
	resp = performRequest(r, http.MethodPost, "/scan", buf, token, mw.FormDataContentType())
	if resp.Code != 200 {
		t.Fatalf("scan failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 4. Save a reviewed product
	prodBody, _ := json.Marshal(map[string]string{
		"name": "Basmati Rice", "category": "Rice/Grains",
		"quantity": "1kg", "expiry": "31-10-2027",
	})
	resp = performRequest(r, http.MethodPost, "/products", bytes.NewBuffer(prodBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("save product failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 5. List inventory with urgency
	resp = performRequest(r, http.MethodGet, "/products", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("list products failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var listResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &listResp)
	items, _ := listResp["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 item got %d: %s", len(items), resp.Body.String())
	}

	// 6. Add fresh produce
	produceBody, _ := json.Marshal(map[string]any{"name": "Spinach", "category": "Leafy Greens", "quantity": 2})
	resp = performRequest(r, http.MethodPost, "/produce", bytes.NewBuffer(produceBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("add produce failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 7. Usage plan
	planBody, _ := json.Marshal(map[string]any{"stovetop": true, "skill": "beginner"})
	resp = performRequest(r, http.MethodPost, "/products/Basmati Rice/plan", bytes.NewBuffer(planBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("usage plan failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 8. List scans
	resp = performRequest(r, http.MethodGet, "/scans", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("list scans failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 9. Delete the product
	resp = performRequest(r, http.MethodDelete, "/products/Basmati Rice", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("delete product failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 10. Unauthorized access to protected endpoint should be 401
	unauth := performRequest(r, http.MethodGet, "/products", nil, "", "")
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthorized list products got %d", unauth.Code)
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	cfg = loadConfig()
	initDB()
}
