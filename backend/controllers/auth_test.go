package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	resp, result := doRequest(t, "POST", "/api/auth/register", "", map[string]interface{}{
		"username":  "newuser",
		"email":     "newuser@example.com",
		"password":  "supersecret",
		"full_name": "New User",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, result["token"])
	user := result["user"].(map[string]interface{})
	assert.Equal(t, "newuser", user["username"])

	resp, result = doRequest(t, "POST", "/api/auth/login", "", map[string]interface{}{
		"username": "newuser",
		"password": "supersecret",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, result["token"])

	// Login by email works too.
	resp, _ = doRequest(t, "POST", "/api/auth/login", "", map[string]interface{}{
		"username": "newuser@example.com",
		"password": "supersecret",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	resp, _ := doRequest(t, "POST", "/api/auth/register", "", map[string]interface{}{
		"username": "ab",
		"email":    "not-an-email",
		"password": "short",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	resp, _ := doRequest(t, "POST", "/api/auth/login", "", map[string]interface{}{
		"username": "student",
		"password": "wrongpassword",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProfileRequiresAuth(t *testing.T) {
	resp, _ := doRequest(t, "GET", "/api/user/profile", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, result := doRequest(t, "GET", "/api/user/profile", userToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := dataMap(t, result)
	assert.Equal(t, "student", data["username"])
	assert.Equal(t, "student@example.com", data["email"])
}

func TestUpdateProfile(t *testing.T) {
	resp, result := doRequest(t, "PUT", "/api/user/profile", userToken, map[string]interface{}{
		"bio": "Lifelong learner",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Lifelong learner", dataMap(t, result)["bio"])

	// Password change needs the correct old password.
	resp, _ = doRequest(t, "PUT", "/api/user/profile", userToken, map[string]interface{}{
		"old_password": "nope",
		"new_password": "anothersecret",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
