package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Baaaki/content-square/internal/middleware"
	"github.com/Baaaki/content-square/internal/models"
	"github.com/Baaaki/content-square/internal/router"
	"github.com/Baaaki/content-square/internal/security"
	"github.com/Baaaki/content-square/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type envelope struct {
	Status  bool            `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message *string         `json:"message"`
}

// APIIntegrationTestSuite drives the full router over httptest
type APIIntegrationTestSuite struct {
	suite.Suite
	testDB *testutil.TestDatabase
	engine *gin.Engine
}

func (s *APIIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	s.testDB = testutil.SetupTestDatabase(s.T())
	s.engine = router.New(router.Options{
		DB:                    s.testDB.DB,
		Tokens:                security.NewTokenService("test-secret-key", time.Hour),
		RateLimit:             middleware.RateLimiterConfig{MaxRequests: 10000, Window: time.Minute},
		RequestTimeout:        5 * time.Second,
		MaxBodyBytes:          1 << 20,
		MaxConcurrentRequests: 16,
	})
}

func (s *APIIntegrationTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *APIIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
}

func (s *APIIntegrationTestSuite) do(method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.T(), json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *APIIntegrationTestSuite) decode(w *httptest.ResponseRecorder) envelope {
	var env envelope
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func (s *APIIntegrationTestSuite) message(env envelope) string {
	if env.Message == nil {
		return ""
	}
	return *env.Message
}

func (s *APIIntegrationTestSuite) register(email string) string {
	w := s.do(http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Ada", "surname": "Lovelace", "email": email, "password": "SecurePass123",
	})
	require.Equal(s.T(), http.StatusOK, w.Code)

	env := s.decode(w)
	require.True(s.T(), env.Status, s.message(env))

	var tokens struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(s.T(), json.Unmarshal(env.Data, &tokens))
	assert.Equal(s.T(), "bearer", tokens.TokenType)
	return tokens.AccessToken
}

func (s *APIIntegrationTestSuite) createdID(env envelope) uint {
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(s.T(), json.Unmarshal(env.Data, &created))
	return created.ID
}

func (s *APIIntegrationTestSuite) TestRoot() {
	w := s.do(http.MethodGet, "/", "", nil)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.JSONEq(s.T(), `{"message":"API running"}`, w.Body.String())
}

func (s *APIIntegrationTestSuite) TestHealthAndMetrics() {
	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.JSONEq(s.T(), `{"status":"ok"}`, w.Body.String())

	w = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Contains(s.T(), w.Body.String(), "http_requests_total")
}

func (s *APIIntegrationTestSuite) TestProtectedRouteRequiresToken() {
	w := s.do(http.MethodGet, "/posts/all", "", nil)

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	assert.Equal(s.T(), "Bearer", w.Header().Get("WWW-Authenticate"))
	assert.False(s.T(), s.decode(w).Status)

	w = s.do(http.MethodGet, "/posts/all", "garbage", nil)
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *APIIntegrationTestSuite) TestRegisterDuplicateEmail() {
	s.register("dup@example.com")

	w := s.do(http.MethodPost, "/auth/register", "", map[string]string{
		"name": "B", "surname": "C", "email": "dup@example.com", "password": "OtherPass1",
	})

	assert.Equal(s.T(), http.StatusOK, w.Code, "domain errors keep HTTP 200")
	env := s.decode(w)
	assert.False(s.T(), env.Status)
	assert.Equal(s.T(), "Email is already registered", s.message(env))
	assert.JSONEq(s.T(), "null", string(env.Data))
}

func (s *APIIntegrationTestSuite) TestRegisterInvalidBody() {
	w := s.do(http.MethodPost, "/auth/register", "", map[string]string{"email": "x@example.com"})

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.False(s.T(), s.decode(w).Status)
}

func (s *APIIntegrationTestSuite) TestLoginMessagesMatch() {
	s.register("login@example.com")

	wrong := s.decode(s.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": "login@example.com", "password": "nope",
	}))
	unknown := s.decode(s.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ghost@example.com", "password": "SecurePass123",
	}))

	assert.False(s.T(), wrong.Status)
	assert.False(s.T(), unknown.Status)
	assert.Equal(s.T(), s.message(wrong), s.message(unknown))

	ok := s.decode(s.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": "login@example.com", "password": "SecurePass123",
	}))
	assert.True(s.T(), ok.Status)
}

func (s *APIIntegrationTestSuite) TestRefreshUsesTokenHeader() {
	token := s.register("refresh@example.com")

	env := s.decode(s.do(http.MethodPost, "/auth/refresh", "", nil, "token", token))
	assert.True(s.T(), env.Status)

	env = s.decode(s.do(http.MethodPost, "/auth/refresh", "", nil, "token", "invalid"))
	assert.False(s.T(), env.Status)
	assert.Equal(s.T(), "Invalid or expired token", s.message(env))

	w := s.do(http.MethodPost, "/auth/refresh", "", nil)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *APIIntegrationTestSuite) TestPaginationValidation() {
	token := s.register("pager@example.com")

	for _, query := range []string{"skip=-1", "limit=0", "limit=101", "skip=abc"} {
		w := s.do(http.MethodGet, "/users/all?"+query, token, nil)
		assert.Equal(s.T(), http.StatusBadRequest, w.Code, query)
	}

	w := s.do(http.MethodGet, "/users/all", token, nil)
	require.Equal(s.T(), http.StatusOK, w.Code)
	var page struct {
		Total int64 `json:"total"`
		Skip  int   `json:"skip"`
		Limit int   `json:"limit"`
		Users []struct {
			Email string `json:"email"`
			Role  struct {
				Name string `json:"name"`
			} `json:"role"`
		} `json:"users"`
	}
	require.NoError(s.T(), json.Unmarshal(s.decode(w).Data, &page))
	assert.Equal(s.T(), int64(1), page.Total)
	assert.Equal(s.T(), 0, page.Skip)
	assert.Equal(s.T(), 10, page.Limit)
	require.Len(s.T(), page.Users, 1)
	assert.Equal(s.T(), models.RoleAdmin, page.Users[0].Role.Name)
}

func (s *APIIntegrationTestSuite) TestUserCrud() {
	token := s.register("admin@example.com")
	role := testutil.Role(s.T(), s.testDB.DB, models.RoleCantEdit)

	env := s.decode(s.do(http.MethodPost, "/users/create", token, map[string]any{
		"name": "Grace", "surname": "Hopper", "email": "grace@example.com", "password": "Pass123456", "role_id": role.ID,
	}))
	require.True(s.T(), env.Status, s.message(env))
	id := s.createdID(env)

	env = s.decode(s.do(http.MethodPost, "/users/get", token, map[string]any{"id": id}))
	require.True(s.T(), env.Status)
	assert.Contains(s.T(), string(env.Data), models.RoleCantEdit)

	admin := testutil.Role(s.T(), s.testDB.DB, models.RoleAdmin)
	env = s.decode(s.do(http.MethodPost, "/users/update", token, map[string]any{
		"id": id, "surname": "Murray", "role_id": admin.ID,
	}))
	require.True(s.T(), env.Status, s.message(env))

	env = s.decode(s.do(http.MethodPost, "/users/get", token, map[string]any{"id": id}))
	require.True(s.T(), env.Status)
	var user struct {
		Name    string `json:"name"`
		Surname string `json:"surname"`
		Role    struct {
			Name string `json:"name"`
		} `json:"role"`
	}
	require.NoError(s.T(), json.Unmarshal(env.Data, &user))
	assert.Equal(s.T(), "Grace", user.Name)
	assert.Equal(s.T(), "Murray", user.Surname)
	assert.Equal(s.T(), models.RoleAdmin, user.Role.Name, "role_id patch must be stored")

	env = s.decode(s.do(http.MethodPost, "/users/delete", token, map[string]any{"id": id}))
	require.True(s.T(), env.Status)

	env = s.decode(s.do(http.MethodPost, "/users/get", token, map[string]any{"id": id}))
	assert.False(s.T(), env.Status)
	assert.Equal(s.T(), "User not found", s.message(env))
}

func (s *APIIntegrationTestSuite) TestPostPermissions() {
	ownerToken := s.register("owner@example.com")
	otherToken := s.register("other@example.com")

	env := s.decode(s.do(http.MethodPost, "/posts/create", ownerToken, map[string]any{"title": "Mine", "content": "Body"}))
	require.True(s.T(), env.Status, s.message(env))
	postID := s.createdID(env)

	// Both users are admins, ownership still decides
	env = s.decode(s.do(http.MethodPost, "/posts/update", otherToken, map[string]any{"id": postID, "title": "Hijack"}))
	assert.False(s.T(), env.Status)
	assert.Equal(s.T(), "You do not have permission to edit this post", s.message(env))

	env = s.decode(s.do(http.MethodPost, "/posts/delete", otherToken, map[string]any{"id": postID}))
	assert.False(s.T(), env.Status)
	assert.Equal(s.T(), "You do not have permission to delete this post", s.message(env))

	env = s.decode(s.do(http.MethodPost, "/posts/update", ownerToken, map[string]any{"id": postID, "title": "Edited"}))
	assert.True(s.T(), env.Status, s.message(env))

	env = s.decode(s.do(http.MethodPost, "/posts/get", otherToken, map[string]any{"id": postID}))
	require.True(s.T(), env.Status)
	var post struct {
		Title   string `json:"title"`
		OwnerID uint   `json:"owner_id"`
	}
	require.NoError(s.T(), json.Unmarshal(env.Data, &post))
	assert.Equal(s.T(), "Edited", post.Title)
	assert.NotZero(s.T(), post.OwnerID)
}

func (s *APIIntegrationTestSuite) TestTagAssociations() {
	token := s.register("tagger@example.com")

	var postIDs []uint
	for i := 0; i < 2; i++ {
		env := s.decode(s.do(http.MethodPost, "/posts/create", token, map[string]any{
			"title": fmt.Sprintf("P%d", i+1), "content": "Body",
		}))
		require.True(s.T(), env.Status)
		postIDs = append(postIDs, s.createdID(env))
	}

	env := s.decode(s.do(http.MethodPost, "/tags/create", token, map[string]any{"name": "go", "post_ids": []uint{postIDs[0]}}))
	require.True(s.T(), env.Status, s.message(env))
	tagID := s.createdID(env)

	// Delete P2, then try to associate {P1, P2}
	require.True(s.T(), s.decode(s.do(http.MethodPost, "/posts/delete", token, map[string]any{"id": postIDs[1]})).Status)
	env = s.decode(s.do(http.MethodPost, "/tags/update", token, map[string]any{"id": tagID, "post_ids": postIDs}))
	assert.False(s.T(), env.Status)
	assert.Equal(s.T(), fmt.Sprintf("Post with ID %d does not exist or was deleted", postIDs[1]), s.message(env))

	tag := s.getTag(token, tagID)
	require.Len(s.T(), tag.Posts, 1)
	assert.Equal(s.T(), postIDs[0], tag.Posts[0].ID)
	assert.Equal(s.T(), "tagger@example.com", tag.Posts[0].Owner.Email)

	// Empty set clears
	env = s.decode(s.do(http.MethodPost, "/tags/update", token, map[string]any{"id": tagID, "post_ids": []uint{}}))
	require.True(s.T(), env.Status, s.message(env))
	assert.Empty(s.T(), s.getTag(token, tagID).Posts)
}

type tagPayload struct {
	ID    uint `json:"id"`
	Posts []struct {
		ID    uint `json:"id"`
		Owner struct {
			Email string `json:"email"`
		} `json:"owner"`
	} `json:"posts"`
}

func (s *APIIntegrationTestSuite) getTag(token string, id uint) tagPayload {
	env := s.decode(s.do(http.MethodPost, "/tags/get", token, map[string]any{"id": id}))
	require.True(s.T(), env.Status, s.message(env))

	var tag tagPayload
	require.NoError(s.T(), json.Unmarshal(env.Data, &tag))
	return tag
}

// Register, create, delete twice, list
func (s *APIIntegrationTestSuite) TestEndToEndRepeatedPostDelete() {
	token := s.register("u1@example.com")

	env := s.decode(s.do(http.MethodPost, "/posts/create", token, map[string]any{"title": "P1", "content": "Body"}))
	require.True(s.T(), env.Status, s.message(env))
	postID := s.createdID(env)

	env = s.decode(s.do(http.MethodPost, "/posts/delete", token, map[string]any{"id": postID}))
	assert.True(s.T(), env.Status)

	env = s.decode(s.do(http.MethodPost, "/posts/delete", token, map[string]any{"id": postID}))
	assert.True(s.T(), env.Status, "second delete still reports success")

	env = s.decode(s.do(http.MethodGet, "/posts/all", token, nil))
	require.True(s.T(), env.Status)
	var page struct {
		Total int64             `json:"total"`
		Posts []json.RawMessage `json:"posts"`
	}
	require.NoError(s.T(), json.Unmarshal(env.Data, &page))
	assert.Equal(s.T(), int64(0), page.Total)
	assert.Empty(s.T(), page.Posts)
}

func TestAPIIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(APIIntegrationTestSuite))
}
