package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/skillswaphq/skillswap/database"
	"github.com/skillswaphq/skillswap/models"
	"github.com/skillswaphq/skillswap/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var apiTestSeq atomic.Int64

// setupServer boots the API against a fresh in-memory database.
func setupServer(t *testing.T) *fiber.App {
	t.Helper()

	t.Setenv("DATABASE_URL", fmt.Sprintf("file:api_test_%d?mode=memory&cache=shared", apiTestSeq.Add(1)))
	t.Setenv("JWT_SECRET", "api-test-secret")

	database.ConnectDB()
	database.Migrate()

	app := fiber.New()
	routes.AuthRoutes(app)
	routes.ProfileRoutes(app)
	routes.CatalogRoutes(app)
	routes.OfferRoutes(app)
	routes.ExchangeRoutes(app)
	routes.FeedbackRoutes(app)
	routes.AdminRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, url, token string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, url, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

// signup registers and logs in a user, returning the bearer token.
func signup(t *testing.T, app *fiber.App, name, email string) string {
	t.Helper()

	status, _ := doJSON(t, app, "POST", "/api/v1/auth/register", "", fiber.Map{
		"full_name": name,
		"email":     email,
		"password":  "password123",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, app, "POST", "/api/v1/auth/login", "", fiber.Map{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func seedSkill(t *testing.T) *models.Skill {
	t.Helper()
	category := models.SkillCategory{Name: "Programming", IsActive: true}
	require.NoError(t, database.DB.Create(&category).Error)
	skill := models.Skill{
		Name:        "Go",
		CategoryID:  category.ID,
		Description: "Build backend services with Go, from basics through production concerns.",
		IsActive:    true,
	}
	require.NoError(t, database.DB.Create(&skill).Error)
	return &skill
}

func createOfferViaAPI(t *testing.T, app *fiber.App, token string, skillID string, maxStudents int) string {
	t.Helper()
	status, body := doJSON(t, app, "POST", "/api/v1/teaching-skills", token, fiber.Map{
		"skill_id":            skillID,
		"proficiency_level":   "EXPERT",
		"years_of_experience": 8,
		"learning_outcomes":   "Write and deploy production Go services",
		"teaching_methods":    "Weekly pairing and code review",
		"estimated_duration":  8,
		"duration_type":       "WEEKS",
		"max_students":        maxStudents,
	})
	require.Equal(t, http.StatusCreated, status, "%v", body)
	return body["id"].(string)
}

func requestExchange(t *testing.T, app *fiber.App, token, offerID string) (int, map[string]interface{}) {
	t.Helper()
	return doJSON(t, app, "POST", "/api/v1/exchanges", token, fiber.Map{
		"user_skill_id":     offerID,
		"learning_goals":    "Go from intermediate to confident",
		"availability":      "Tuesday and Thursday evenings, some weekends",
		"proposed_duration": 24,
	})
}

func TestExchangeLifecycleEndToEnd(t *testing.T) {
	app := setupServer(t)
	skill := seedSkill(t)

	teacherToken := signup(t, app, "Teacher", "teacher@example.com")
	learnerToken := signup(t, app, "Learner", "learner@example.com")

	offerID := createOfferViaAPI(t, app, teacherToken, skill.ID.String(), 3)

	status, body := requestExchange(t, app, learnerToken, offerID)
	require.Equal(t, http.StatusCreated, status)
	exchangeID := body["id"].(string)
	assert.Equal(t, "PENDING", body["status"])

	// The learner cannot accept their own request.
	status, body = doJSON(t, app, "POST", "/api/v1/exchanges/"+exchangeID+"/status", learnerToken,
		fiber.Map{"status": "ACCEPTED"})
	require.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Only the teacher can accept this request.", body["error"])

	for _, step := range []struct {
		token  string
		status string
	}{
		{teacherToken, "ACCEPTED"},
		{learnerToken, "IN_PROGRESS"},
		{learnerToken, "COMPLETED"},
	} {
		status, body = doJSON(t, app, "POST", "/api/v1/exchanges/"+exchangeID+"/status", step.token,
			fiber.Map{"status": step.status})
		require.Equal(t, http.StatusOK, status, "%v", body)
		assert.Equal(t, step.status, body["status"])
	}

	status, body = doJSON(t, app, "POST", "/api/v1/feedback", learnerToken, fiber.Map{
		"exchange_id": exchangeID,
		"rating":      4.5,
		"comment":     "Sessions were well structured and the homework was on point.",
	})
	require.Equal(t, http.StatusCreated, status, "%v", body)
	assert.Equal(t, true, body["is_within_update_window"])

	status, body = doJSON(t, app, "GET", "/api/v1/teaching-skills/"+offerID, learnerToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 4.5, body["rating"])
	assert.Equal(t, float64(100), body["success_rate"])
	assert.Equal(t, float64(1), body["student_count"])
	assert.Equal(t, float64(1), body["feedback_count"])

	// The feedback also shows up on the offer's feedback list.
	status, body = doJSON(t, app, "GET", "/api/v1/teaching-skills/"+offerID+"/feedback", teacherToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])
}

func TestAcceptBeyondCapacityConflicts(t *testing.T) {
	app := setupServer(t)
	skill := seedSkill(t)

	teacherToken := signup(t, app, "Teacher", "teacher@example.com")
	firstToken := signup(t, app, "First", "first@example.com")
	secondToken := signup(t, app, "Second", "second@example.com")

	offerID := createOfferViaAPI(t, app, teacherToken, skill.ID.String(), 1)

	status, body := requestExchange(t, app, firstToken, offerID)
	require.Equal(t, http.StatusCreated, status)
	firstID := body["id"].(string)

	status, body = requestExchange(t, app, secondToken, offerID)
	require.Equal(t, http.StatusCreated, status)
	secondID := body["id"].(string)

	status, _ = doJSON(t, app, "POST", "/api/v1/exchanges/"+firstID+"/status", teacherToken,
		fiber.Map{"status": "ACCEPTED"})
	require.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, app, "POST", "/api/v1/exchanges/"+secondID+"/status", teacherToken,
		fiber.Map{"status": "ACCEPTED"})
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Maximum student limit reached.", body["error"])
}

func TestCancelExchangeViaAPI(t *testing.T) {
	app := setupServer(t)
	skill := seedSkill(t)

	teacherToken := signup(t, app, "Teacher", "teacher@example.com")
	learnerToken := signup(t, app, "Learner", "learner@example.com")

	offerID := createOfferViaAPI(t, app, teacherToken, skill.ID.String(), 1)
	status, body := requestExchange(t, app, learnerToken, offerID)
	require.Equal(t, http.StatusCreated, status)
	exchangeID := body["id"].(string)

	status, body = doJSON(t, app, "POST", "/api/v1/exchanges/"+exchangeID+"/status", learnerToken,
		fiber.Map{"status": "CANCELLED"})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "A cancellation reason of at least 10 characters is required.", body["error"])

	status, body = doJSON(t, app, "POST", "/api/v1/exchanges/"+exchangeID+"/status", learnerToken,
		fiber.Map{"status": "CANCELLED", "reason": "My work schedule changed"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "CANCELLED", body["status"])
	assert.Equal(t, "My work schedule changed", body["cancel_reason"])
}

func TestExchangeVisibility(t *testing.T) {
	app := setupServer(t)
	skill := seedSkill(t)

	teacherToken := signup(t, app, "Teacher", "teacher@example.com")
	learnerToken := signup(t, app, "Learner", "learner@example.com")
	outsiderToken := signup(t, app, "Outsider", "outsider@example.com")

	offerID := createOfferViaAPI(t, app, teacherToken, skill.ID.String(), 1)
	status, body := requestExchange(t, app, learnerToken, offerID)
	require.Equal(t, http.StatusCreated, status)
	exchangeID := body["id"].(string)

	status, _ = doJSON(t, app, "GET", "/api/v1/exchanges/"+exchangeID, outsiderToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, app, "GET", "/api/v1/exchanges/"+exchangeID, teacherToken, nil)
	assert.Equal(t, http.StatusOK, status)

	// The outsider's exchange list stays empty.
	status, body = doJSON(t, app, "GET", "/api/v1/exchanges", outsiderToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["count"])

	status, body = doJSON(t, app, "GET", "/api/v1/exchanges?role=teacher", teacherToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])
}

func TestAuthFlows(t *testing.T) {
	app := setupServer(t)

	signup(t, app, "Someone", "someone@example.com")

	t.Run("duplicate email", func(t *testing.T) {
		status, body := doJSON(t, app, "POST", "/api/v1/auth/register", "", fiber.Map{
			"full_name": "Someone Else",
			"email":     "someone@example.com",
			"password":  "password123",
		})
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "Email already exists", body["error"])
	})

	t.Run("wrong password", func(t *testing.T) {
		status, _ := doJSON(t, app, "POST", "/api/v1/auth/login", "", fiber.Map{
			"email":    "someone@example.com",
			"password": "wrongpass",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("protected route without token", func(t *testing.T) {
		status, _ := doJSON(t, app, "GET", "/api/v1/profile/me", "", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("protected route with a garbage token", func(t *testing.T) {
		status, _ := doJSON(t, app, "GET", "/api/v1/profile/me", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("deactivated account cannot log in", func(t *testing.T) {
		require.NoError(t, database.DB.Model(&models.User{}).
			Where("email = ?", "someone@example.com").Update("is_active", false).Error)

		status, body := doJSON(t, app, "POST", "/api/v1/auth/login", "", fiber.Map{
			"email":    "someone@example.com",
			"password": "password123",
		})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "This account has been deactivated.", body["error"])
	})
}

func TestProfileUpdate(t *testing.T) {
	app := setupServer(t)
	token := signup(t, app, "Profile User", "profile@example.com")

	status, body := doJSON(t, app, "PUT", "/api/v1/profile/me", token, fiber.Map{
		"bio":       "Teaching woodworking on weekends.",
		"location":  "Lisbon",
		"time_zone": "Europe/Lisbon",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Teaching woodworking on weekends.", body["bio"])
	assert.Equal(t, "Lisbon", body["location"])
	// Untouched fields keep their values.
	assert.Equal(t, "Profile User", body["full_name"])
}

func TestAdminEndpoints(t *testing.T) {
	app := setupServer(t)

	userToken := signup(t, app, "Plain User", "plain@example.com")
	signup(t, app, "Admin User", "admin@example.com")
	require.NoError(t, database.DB.Model(&models.User{}).
		Where("email = ?", "admin@example.com").Update("role", "admin").Error)
	status, body := doJSON(t, app, "POST", "/api/v1/auth/login", "", fiber.Map{
		"email":    "admin@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, status)
	adminToken := body["token"].(string)

	t.Run("non-admins are rejected", func(t *testing.T) {
		status, _ := doJSON(t, app, "GET", "/api/v1/admin/users", userToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("admin lists users", func(t *testing.T) {
		status, body := doJSON(t, app, "GET", "/api/v1/admin/users", adminToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(2), body["count"])
	})

	t.Run("admin deactivates a user", func(t *testing.T) {
		var user models.User
		require.NoError(t, database.DB.First(&user, "email = ?", "plain@example.com").Error)

		status, _ := doJSON(t, app, "PUT", "/api/v1/admin/users/"+user.ID.String()+"/status", adminToken,
			fiber.Map{"is_active": false})
		require.Equal(t, http.StatusOK, status)

		var reloaded models.User
		require.NoError(t, database.DB.First(&reloaded, "id = ?", user.ID).Error)
		assert.False(t, reloaded.IsActive)
	})

	t.Run("any user proposes categories, only admins edit them", func(t *testing.T) {
		status, body := doJSON(t, app, "POST", "/api/v1/categories", userToken,
			fiber.Map{"name": "Languages"})
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, "Languages", body["name"])

		categoryID := body["id"].(string)
		status, _ = doJSON(t, app, "PUT", "/api/v1/categories/"+categoryID, userToken,
			fiber.Map{"name": "Renamed Languages"})
		assert.Equal(t, http.StatusForbidden, status)
		status, _ = doJSON(t, app, "POST", "/api/v1/categories/"+categoryID+"/toggle-status", userToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
		status, _ = doJSON(t, app, "DELETE", "/api/v1/categories/"+categoryID, userToken, nil)
		assert.Equal(t, http.StatusForbidden, status)

		status, _ = doJSON(t, app, "PUT", "/api/v1/categories/"+categoryID, adminToken,
			fiber.Map{"name": "World Languages"})
		assert.Equal(t, http.StatusOK, status)
	})
}

func TestCatalogBrowsing(t *testing.T) {
	app := setupServer(t)
	skill := seedSkill(t)
	token := signup(t, app, "Browser", "browser@example.com")

	// Reads need a login but no admin role.
	status, _ := doJSON(t, app, "GET", "/api/v1/skills", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := doJSON(t, app, "GET", "/api/v1/skills", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])

	status, body = doJSON(t, app, "GET", "/api/v1/skills/"+skill.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Go", body["name"])
	assert.Equal(t, float64(0), body["total_teachers"])

	status, body = doJSON(t, app, "GET", "/api/v1/categories", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])
}
