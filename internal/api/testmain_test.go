package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"loantrack/internal/auth"
	"loantrack/internal/config"
	"loantrack/internal/db"
	"loantrack/internal/loan"
	"loantrack/internal/upload"
	"loantrack/internal/user"
)

const testSecret = "api_test_secret"

func setupTestDB(t *testing.T) {
	dbConn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := dbConn.AutoMigrate(&user.User{}, &loan.Loan{}, &loan.Photo{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	db.DB = dbConn
	resetTables(t)
}

func resetTables(t *testing.T) {
	for _, table := range []string{"photos", "loans", "users"} {
		if err := db.DB.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("failed to reset %s: %v", table, err)
		}
	}
}

func testCfg() *config.Config {
	cfg := &config.Config{}
	cfg.Server.JWTSecret = testSecret
	return cfg
}

func testSaver(t *testing.T) *upload.Saver {
	s, err := upload.New(t.TempDir(), 5*1024*1024)
	if err != nil {
		t.Fatalf("upload.New: %v", err)
	}
	return s
}

func seedUser(t *testing.T, email string, role user.Role, approved bool) user.User {
	u := user.User{Name: "Test Bruker", Email: email, PasswordHash: "hash", Role: role, IsApproved: approved}
	if err := db.DB.Create(&u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}

func seedLoan(t *testing.T, owner user.User, item string, status loan.Status) loan.Loan {
	l := loan.Loan{UserID: owner.ID, ItemName: item, Status: status, LoanedAt: time.Now().UTC()}
	if err := db.DB.Create(&l).Error; err != nil {
		t.Fatalf("failed to seed loan: %v", err)
	}
	return l
}

func bearerFor(t *testing.T, u user.User) string {
	token, err := auth.GenerateJWT(testSecret, u.ID, u.Email, string(u.Role), time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}

// principalMiddleware injects a principal directly, for handler-level tests
// that bypass the real auth middleware.
func principalMiddleware(u user.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth.SetPrincipalForTest(c, auth.Principal{
			ID:         u.ID,
			Email:      u.Email,
			Role:       u.Role,
			IsApproved: u.IsApproved,
		})
		c.Next()
	}
}

func jsonRequest(method, path string, payload interface{}) *http.Request {
	var body *bytes.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func formRequest(t *testing.T, method, path string, fields map[string]string, photoNames []string) *http.Request {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, name := range photoNames {
		fw, err := mw.CreateFormFile("photos", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte("fake-image-bytes")); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	mw.Close()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return out
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	out := decodeBody(t, w)
	if out["success"] != true {
		t.Fatalf("expected success=true, body: %s", w.Body.String())
	}
	data, ok := out["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing data object: %s", w.Body.String())
	}
	return data
}

func errCodeOf(t *testing.T, w *httptest.ResponseRecorder) string {
	out := decodeBody(t, w)
	if out["success"] != false {
		t.Fatalf("expected success=false, body: %s", w.Body.String())
	}
	errObj, ok := out["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing error object: %s", w.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
