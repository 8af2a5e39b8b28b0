package controllers_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotesListingAndSearch(t *testing.T) {
	createNote(t, "Linear Algebra Summary", 4, false)
	createNote(t, "Calculus Cheat Sheet", 0, true)

	resp, result := doRequest(t, "GET", "/api/notes/?search=algebra", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := result["data"].([]interface{})
	require.NotEmpty(t, list)
	found := list[0].(map[string]interface{})
	assert.Equal(t, "Linear Algebra Summary", found["title"])
	assert.Equal(t, "markdown", found["file_type"])
}

func TestFreeNoteView(t *testing.T) {
	noteID := createNote(t, "Free Physics Notes", 0, true)

	resp, result := doRequest(t, "GET", fmt.Sprintf("/api/notes/%d/view", noteID), userToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := dataMap(t, result)
	document := data["document"].(map[string]interface{})
	assert.Equal(t, "markdown", document["file_type"])
	assert.Equal(t, "# Free Physics Notes", document["markdown_content"])

	protection := data["protection"].(map[string]interface{})
	watermark := protection["watermark"].(string)
	assert.Contains(t, watermark, "student@example.com")
	assert.Equal(t, true, protection["disableContextMenu"])
	assert.Equal(t, true, protection["blurOnTabHidden"])

	shortcuts := protection["blockedShortcuts"].([]interface{})
	joined := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		joined = append(joined, s.(string))
	}
	assert.Contains(t, joined, "ctrl+p")
	assert.Contains(t, joined, "f12")
	assert.Contains(t, joined, "ctrl+shift+i")
}

func TestViewRequiresAuth(t *testing.T) {
	noteID := createNote(t, "Members Only", 0, true)

	resp, _ := doRequest(t, "GET", fmt.Sprintf("/api/notes/%d/view", noteID), "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHTMLUploadConvertsToMarkdown(t *testing.T) {
	resp, result := doRequest(t, "POST", "/api/admin/notes", adminToken, map[string]interface{}{
		"title":        "Converted Chemistry Notes",
		"subject":      "chemistry",
		"is_free":      true,
		"html_content": "<h1>Stoichiometry</h1><p>Balancing equations.</p>",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	data := dataMap(t, result)
	assert.Equal(t, "markdown", data["FileType"])
	markdown := data["MarkdownContent"].(string)
	assert.True(t, strings.HasPrefix(markdown, "# Stoichiometry"), "got %q", markdown)
	assert.Contains(t, markdown, "Balancing equations.")
}

func TestPDFNoteViewReturnsURL(t *testing.T) {
	resp, result := doRequest(t, "POST", "/api/admin/notes", adminToken, map[string]interface{}{
		"title":     "Scanned Lecture PDF",
		"is_free":   true,
		"file_type": "pdf",
		"file_url":  "https://cdn.learnhub.dev/notes/scan.pdf",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	noteID := idOf(t, dataMap(t, result))

	_, result = doRequest(t, "GET", fmt.Sprintf("/api/notes/%d/view", noteID), userToken, nil)
	document := dataMap(t, result)["document"].(map[string]interface{})
	assert.Equal(t, "pdf", document["file_type"])
	assert.Equal(t, "https://cdn.learnhub.dev/notes/scan.pdf", document["file_url"])
}

func TestAdminNoteUpdateAndDelete(t *testing.T) {
	noteID := createNote(t, "Ephemeral Notes", 2, false)

	resp, result := doRequest(t, "PUT", fmt.Sprintf("/api/admin/notes/%d", noteID), adminToken, map[string]interface{}{
		"title": "Renamed Notes",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Renamed Notes", dataMap(t, result)["Title"])

	resp, _ = doRequest(t, "DELETE", fmt.Sprintf("/api/admin/notes/%d", noteID), adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, "GET", fmt.Sprintf("/api/notes/%d", noteID), "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestNoteUploadRequiresAdmin(t *testing.T) {
	resp, _ := doRequest(t, "POST", "/api/admin/notes", userToken, map[string]interface{}{
		"title": "Sneaky upload",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
