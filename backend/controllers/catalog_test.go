package controllers_test

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedCurriculum gives the course one section, one subsection and two
// lectures; the first lecture is a free preview.
func seedCurriculum(t *testing.T, courseID uint) {
	t.Helper()
	_, _ = doRequest(t, "POST", contentPath(courseID, "sections"), adminToken, nil)
	_, _ = doRequest(t, "POST", contentPath(courseID, "sections", 0, "subsections"), adminToken, nil)
	for i := 0; i < 2; i++ {
		_, _ = doRequest(t, "POST", contentPath(courseID, "sections", 0, "subsections", 0, "items"), adminToken, nil)
		resp, _ := doRequest(t, "PUT", contentPath(courseID, "sections", 0, "subsections", 0, "items", i), adminToken, map[string]interface{}{
			"field": "videoUrl", "value": fmt.Sprintf("https://cdn.learnhub.dev/lecture-%d.mp4", i),
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	resp, _ := doRequest(t, "PUT", contentPath(courseID, "sections", 0, "subsections", 0, "items", 0), adminToken, map[string]interface{}{
		"isFree": true,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func courseItems(t *testing.T, data map[string]interface{}) []interface{} {
	t.Helper()
	content, ok := data["content"].([]interface{})
	require.True(t, ok, "detail response carries the content tree")
	require.NotEmpty(t, content)
	sub := content[0].(map[string]interface{})["subsections"].([]interface{})[0].(map[string]interface{})
	return sub["content"].([]interface{})
}

func TestCatalogHidesUnpublishedCourses(t *testing.T) {
	courseID := createCourse(t, "Unpublished draft", 30)

	resp, _ := doRequest(t, "GET", fmt.Sprintf("/api/courses/%d", courseID), "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	_, result := doRequest(t, "GET", "/api/courses/?search=Unpublished%20draft", "", nil)
	list, _ := result["data"].([]interface{})
	assert.Empty(t, list)
}

func TestCourseDetailStripsPaidContentForAnonymous(t *testing.T) {
	courseID := createCourse(t, "Paid course outline", 59)
	seedCurriculum(t, courseID)
	publishCourse(t, courseID)

	resp, result := doRequest(t, "GET", fmt.Sprintf("/api/courses/%d", courseID), "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := dataMap(t, result)
	assert.Equal(t, false, data["enrolled"])

	items := courseItems(t, data)
	require.Len(t, items, 2)
	free := items[0].(map[string]interface{})
	paid := items[1].(map[string]interface{})
	assert.Equal(t, "https://cdn.learnhub.dev/lecture-0.mp4", free["videoUrl"])
	assert.Equal(t, "", paid["videoUrl"], "paid lecture payload must be stripped")
	assert.Equal(t, "Lecture 2", paid["title"], "outline stays visible")

	// Admins always see the full tree.
	_, result = doRequest(t, "GET", fmt.Sprintf("/api/courses/%d", courseID), adminToken, nil)
	items = courseItems(t, dataMap(t, result))
	assert.Equal(t, "https://cdn.learnhub.dev/lecture-1.mp4", items[1].(map[string]interface{})["videoUrl"])
}

func TestEnrollFree(t *testing.T) {
	courseID := createCourse(t, "Free course", 0)
	seedCurriculum(t, courseID)
	publishCourse(t, courseID)

	resp, _ := doRequest(t, "POST", fmt.Sprintf("/api/courses/%d/enroll", courseID), userToken, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Enrolled users get the full tree.
	_, result := doRequest(t, "GET", fmt.Sprintf("/api/courses/%d", courseID), userToken, nil)
	data := dataMap(t, result)
	assert.Equal(t, true, data["enrolled"])
	items := courseItems(t, data)
	assert.Equal(t, "https://cdn.learnhub.dev/lecture-1.mp4", items[1].(map[string]interface{})["videoUrl"])

	// Double enrollment is rejected.
	resp, _ = doRequest(t, "POST", fmt.Sprintf("/api/courses/%d/enroll", courseID), userToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestEnrollFreeRejectsPaidCourse(t *testing.T) {
	courseID := createCourse(t, "Not actually free", 25)
	publishCourse(t, courseID)

	resp, _ := doRequest(t, "POST", fmt.Sprintf("/api/courses/%d/enroll", courseID), userToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCourseReviews(t *testing.T) {
	courseID := createCourse(t, "Reviewed course", 15)
	publishCourse(t, courseID)

	resp, _ := doRequest(t, "POST", fmt.Sprintf("/api/courses/%d/reviews", courseID), userToken, map[string]interface{}{
		"text":   "Great explanations",
		"rating": 5,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, "POST", fmt.Sprintf("/api/courses/%d/reviews", courseID), userToken, map[string]interface{}{
		"rating": 11,
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	reviews := getJSONList(t, fmt.Sprintf("/api/courses/%d/reviews", courseID))
	require.Len(t, reviews, 1)
	assert.Equal(t, "Great explanations", reviews[0].(map[string]interface{})["Text"])
}
