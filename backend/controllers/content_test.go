package controllers_test

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCourse(t *testing.T, title string, price float64) uint {
	t.Helper()
	resp, result := doRequest(t, "POST", "/api/admin/courses", adminToken, map[string]interface{}{
		"title": title,
		"level": "beginner",
		"price": price,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return idOf(t, dataMap(t, result))
}

func publishCourse(t *testing.T, courseID uint) {
	t.Helper()
	resp, _ := doRequest(t, "PUT", fmt.Sprintf("/api/admin/courses/%d/publish", courseID), adminToken, map[string]interface{}{
		"published": true,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func contentPath(courseID uint, parts ...interface{}) string {
	path := fmt.Sprintf("/api/admin/courses/%d/content", courseID)
	for _, p := range parts {
		path += fmt.Sprintf("/%v", p)
	}
	return path
}

func TestContentEditingFlow(t *testing.T) {
	courseID := createCourse(t, "Go from scratch", 49.99)

	// Two sections with placeholder titles.
	resp, result := doRequest(t, "POST", contentPath(courseID, "sections"), adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, result = doRequest(t, "POST", contentPath(courseID, "sections"), adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	sections := dataList(t, result)
	require.Len(t, sections, 2)
	first := sections[0].(map[string]interface{})
	second := sections[1].(map[string]interface{})
	assert.Equal(t, "Section 1", first["title"])
	assert.Equal(t, "Section 2", second["title"])
	assert.Equal(t, float64(0), first["order"])
	assert.Equal(t, float64(1), second["order"])

	// Subsection and a lecture under the first section.
	resp, _ = doRequest(t, "POST", contentPath(courseID, "sections", 0, "subsections"), adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, result = doRequest(t, "POST", contentPath(courseID, "sections", 0, "subsections", 0, "items"), adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	sections = dataList(t, result)
	sub := sections[0].(map[string]interface{})["subsections"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Subsection 1", sub["title"])
	item := sub["content"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Lecture 1", item["title"])
	assert.Equal(t, "video", item["type"])
	assert.Equal(t, "0:00", item["duration"])
	assert.Equal(t, false, item["isFree"])

	// Rename the section and point the lecture at a video.
	resp, result = doRequest(t, "PUT", contentPath(courseID, "sections", 0), adminToken, map[string]interface{}{
		"field": "title", "value": "Introduction",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Introduction", dataList(t, result)[0].(map[string]interface{})["title"])

	resp, _ = doRequest(t, "PUT", contentPath(courseID, "sections", 0, "subsections", 0, "items", 0), adminToken, map[string]interface{}{
		"field": "videoUrl", "value": "https://cdn.learnhub.dev/intro.mp4",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Switching to article keeps the video URL on the item.
	resp, result = doRequest(t, "PUT", contentPath(courseID, "sections", 0, "subsections", 0, "items", 0), adminToken, map[string]interface{}{
		"type": "article",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	sections = dataList(t, result)
	item = sections[0].(map[string]interface{})["subsections"].([]interface{})[0].(map[string]interface{})["content"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "article", item["type"])
	assert.Equal(t, "https://cdn.learnhub.dev/intro.mp4", item["videoUrl"])

	// Free-preview flag.
	resp, _ = doRequest(t, "PUT", contentPath(courseID, "sections", 0, "subsections", 0, "items", 0), adminToken, map[string]interface{}{
		"isFree": true,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Deleting the first section cascades and renumbers the survivor.
	resp, result = doRequest(t, "DELETE", contentPath(courseID, "sections", 0), adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	sections = dataList(t, result)
	require.Len(t, sections, 1)
	survivor := sections[0].(map[string]interface{})
	assert.Equal(t, "Section 2", survivor["title"])
	assert.Equal(t, float64(0), survivor["order"])
}

func TestContentBadIndexes(t *testing.T) {
	courseID := createCourse(t, "Index checks", 10)

	resp, _ := doRequest(t, "POST", contentPath(courseID, "sections", 5, "subsections"), adminToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, "DELETE", contentPath(courseID, "sections", 0), adminToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	_, _ = doRequest(t, "POST", contentPath(courseID, "sections"), adminToken, nil)
	resp, _ = doRequest(t, "PUT", contentPath(courseID, "sections", 0), adminToken, map[string]interface{}{
		"field": "videoUrl", "value": "x",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "unknown field on a section")
}

func TestReplaceContentNormalizesOrders(t *testing.T) {
	courseID := createCourse(t, "Replace content", 10)

	// Client sends a tree with stale order values.
	resp, result := doRequest(t, "PUT", contentPath(courseID), adminToken, []map[string]interface{}{
		{"title": "B", "description": "", "order": 7, "subsections": []interface{}{}},
		{"title": "A", "description": "", "order": 0, "subsections": []map[string]interface{}{
			{"title": "A1", "description": "", "order": 9, "content": []interface{}{}},
		}},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	sections := dataList(t, result)
	require.Len(t, sections, 2)
	assert.Equal(t, float64(0), sections[0].(map[string]interface{})["order"])
	assert.Equal(t, float64(1), sections[1].(map[string]interface{})["order"])
	subs := sections[1].(map[string]interface{})["subsections"].([]interface{})
	assert.Equal(t, float64(0), subs[0].(map[string]interface{})["order"])

	// The stored tree reflects the normalization.
	resp, result = doRequest(t, "GET", contentPath(courseID), adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	sections = dataList(t, result)
	assert.Equal(t, "B", sections[0].(map[string]interface{})["title"])
}

func TestContentRequiresAdmin(t *testing.T) {
	courseID := createCourse(t, "Admin only", 10)

	resp, _ := doRequest(t, "POST", contentPath(courseID, "sections"), userToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = doRequest(t, "POST", contentPath(courseID, "sections"), "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
