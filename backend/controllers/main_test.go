package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"learnhub/backend/config"
	"learnhub/backend/models"
	"learnhub/backend/routes"
	"learnhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	app     *fiber.App
	db      *gorm.DB
	cfg     *config.Config
	gateway *httptest.Server

	adminUser   models.User
	regularUser models.User
	adminToken  string
	userToken   string
)

func TestMain(m *testing.M) {
	setup()
	code := m.Run()
	teardown()
	os.Exit(code)
}

func setup() {
	// Fake payment gateway that approves every charge.
	gateway = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"reference": "pay_test_123",
			"status":    "succeeded",
		})
	}))

	cfg = &config.Config{
		JWTSecret:         "testsecret",
		ServerPort:        "8080",
		PaymentGatewayURL: gateway.URL,
		EmailFrom:         "noreply@test.local",
	}

	var err error
	db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic(err)
	}
	if err := utils.MigrateDB(db); err != nil {
		panic(err)
	}

	app = fiber.New()
	routes.SetupRoutes(app, db, cfg, utils.InitLogger())

	adminUser = createUser("admin", "admin@example.com", "admin")
	regularUser = createUser("student", "student@example.com", "user")
	adminToken = tokenFor(adminUser)
	userToken = tokenFor(regularUser)
}

func teardown() {
	gateway.Close()
}

func createUser(username, email, role string) models.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
	}
	db.Create(&user)
	return user
}

func tokenFor(user models.User) string {
	token, err := utils.GenerateJWTToken(user.ID, cfg)
	if err != nil {
		panic(err)
	}
	return token
}

// doRequest runs a JSON request through the app and decodes the response
// body into a generic map.
func doRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return resp, result
}

func dataMap(t *testing.T, result map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := result["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no data object: %v", result)
	}
	return data
}

func dataList(t *testing.T, result map[string]interface{}) []interface{} {
	t.Helper()
	data, ok := result["data"].([]interface{})
	if !ok {
		t.Fatalf("response has no data list: %v", result)
	}
	return data
}

// getJSONList fetches an endpoint that returns a bare JSON array.
func getJSONList(t *testing.T, path string) []interface{} {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	var list []interface{}
	json.NewDecoder(resp.Body).Decode(&list)
	return list
}

func idOf(t *testing.T, data map[string]interface{}) uint {
	t.Helper()
	id, ok := data["ID"].(float64)
	if !ok {
		if alt, ok2 := data["id"].(float64); ok2 {
			return uint(alt)
		}
		t.Fatalf("no id in %v", data)
	}
	return uint(id)
}
