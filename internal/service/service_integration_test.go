package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Baaaki/content-square/internal/authz"
	"github.com/Baaaki/content-square/internal/models"
	"github.com/Baaaki/content-square/internal/repository"
	"github.com/Baaaki/content-square/internal/security"
	"github.com/Baaaki/content-square/internal/service"
	"github.com/Baaaki/content-square/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ServiceIntegrationTestSuite runs the orchestrators against in-memory SQLite
type ServiceIntegrationTestSuite struct {
	suite.Suite
	testDB *testutil.TestDatabase
	repos  *repository.Repositories
	tokens *security.TokenService
	auth   *service.AuthService
	users  *service.UserService
	posts  *service.PostService
	tags   *service.TagService
	ctx    context.Context
}

func (s *ServiceIntegrationTestSuite) SetupSuite() {
	s.testDB = testutil.SetupTestDatabase(s.T())
	s.ctx = context.Background()

	s.repos = repository.New(s.testDB.DB)
	s.tokens = security.NewTokenService("test-secret-key", time.Hour)
	s.auth = service.NewAuthService(s.repos, s.tokens)
	s.users = service.NewUserService(s.repos)
	s.posts = service.NewPostService(s.repos, authz.Default())
	s.tags = service.NewTagService(s.repos)
}

func (s *ServiceIntegrationTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *ServiceIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
}

func (s *ServiceIntegrationTestSuite) register(email string) *service.TokenPair {
	pair, err := s.auth.Register(s.ctx, service.RegisterInput{
		Name:     "Ada",
		Surname:  "Lovelace",
		Email:    email,
		Password: "SecurePass123",
	})
	require.NoError(s.T(), err)
	return pair
}

func (s *ServiceIntegrationTestSuite) actorFor(token string) authz.Actor {
	user, err := s.auth.Authenticate(s.ctx, token)
	require.NoError(s.T(), err)
	return service.ActorFrom(user)
}

func (s *ServiceIntegrationTestSuite) assertKind(err error, kind service.Kind, message string) {
	require.Error(s.T(), err)
	assert.Equal(s.T(), kind, service.KindOf(err))
	if message != "" {
		assert.Equal(s.T(), message, service.MessageOf(err))
	}
}

func ptr[T any](v T) *T { return &v }

// Auth

func (s *ServiceIntegrationTestSuite) TestRegister_AssignsAdminAndIssuesToken() {
	pair := s.register("ada@example.com")

	assert.Equal(s.T(), "bearer", pair.TokenType)
	user, err := s.auth.Authenticate(s.ctx, pair.AccessToken)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "ada@example.com", user.Email)
	assert.Equal(s.T(), models.RoleAdmin, user.Role.Name)
	assert.NotEqual(s.T(), "SecurePass123", user.PasswordHash)
}

func (s *ServiceIntegrationTestSuite) TestRegister_DuplicateEmailConflicts() {
	s.register("dup@example.com")

	_, err := s.auth.Register(s.ctx, service.RegisterInput{
		Name: "Other", Surname: "Person", Email: "dup@example.com", Password: "AnotherPass1",
	})

	s.assertKind(err, service.KindConflict, service.MsgEmailRegistered)
	var count int64
	s.testDB.DB.Model(&models.User{}).Where("email = ?", "dup@example.com").Count(&count)
	assert.Equal(s.T(), int64(1), count)
}

func (s *ServiceIntegrationTestSuite) TestRegister_ValidationErrors() {
	testCases := []struct {
		name  string
		input service.RegisterInput
	}{
		{name: "missing_name", input: service.RegisterInput{Surname: "X", Email: "a@example.com", Password: "p"}},
		{name: "invalid_email", input: service.RegisterInput{Name: "A", Surname: "B", Email: "not-an-email", Password: "p"}},
		{name: "missing_password", input: service.RegisterInput{Name: "A", Surname: "B", Email: "a@example.com"}},
		{name: "name_too_long", input: service.RegisterInput{Name: string(make([]byte, 51)), Surname: "B", Email: "a@example.com", Password: "p"}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.auth.Register(s.ctx, tc.input)
			s.assertKind(err, service.KindValidation, "")
		})
	}
}

func (s *ServiceIntegrationTestSuite) TestLogin_SameMessageForUnknownEmailAndWrongPassword() {
	s.register("login@example.com")

	_, wrongPassword := s.auth.Login(s.ctx, "login@example.com", "wrong")
	_, unknownEmail := s.auth.Login(s.ctx, "nobody@example.com", "SecurePass123")

	s.assertKind(wrongPassword, service.KindUnauthorized, service.MsgInvalidCredentials)
	s.assertKind(unknownEmail, service.KindUnauthorized, service.MsgInvalidCredentials)
	assert.Equal(s.T(), wrongPassword.Error(), unknownEmail.Error())
}

func (s *ServiceIntegrationTestSuite) TestLogin_Success() {
	s.register("ok@example.com")

	pair, err := s.auth.Login(s.ctx, "ok@example.com", "SecurePass123")

	require.NoError(s.T(), err)
	assert.NotEmpty(s.T(), pair.AccessToken)
}

func (s *ServiceIntegrationTestSuite) TestLogin_SoftDeletedUserRejected() {
	pair := s.register("gone@example.com")
	user, err := s.auth.Authenticate(s.ctx, pair.AccessToken)
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.users.Delete(s.ctx, user.ID))

	_, err = s.auth.Login(s.ctx, "gone@example.com", "SecurePass123")
	s.assertKind(err, service.KindUnauthorized, service.MsgInvalidCredentials)

	_, err = s.auth.Authenticate(s.ctx, pair.AccessToken)
	s.assertKind(err, service.KindUnauthorized, service.MsgUserNotFound)
}

func (s *ServiceIntegrationTestSuite) TestRefresh_DoesNotCheckUserState() {
	pair := s.register("refresh@example.com")
	user, err := s.auth.Authenticate(s.ctx, pair.AccessToken)
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.users.Delete(s.ctx, user.ID))

	refreshed, err := s.auth.Refresh(pair.AccessToken)

	require.NoError(s.T(), err)
	claims, err := s.tokens.Validate(refreshed.AccessToken)
	require.NoError(s.T(), err)
	id, err := claims.SubjectID()
	require.NoError(s.T(), err)
	assert.Equal(s.T(), user.ID, id)
}

func (s *ServiceIntegrationTestSuite) TestRefresh_InvalidToken() {
	_, err := s.auth.Refresh("not-a-token")

	s.assertKind(err, service.KindUnauthorized, service.MsgInvalidToken)
}

func (s *ServiceIntegrationTestSuite) TestAuthenticate_ZeroTTLTokenRejected() {
	token, err := s.tokens.IssueWithTTL(1, 0)
	require.NoError(s.T(), err)

	_, err = s.auth.Authenticate(s.ctx, token)

	s.assertKind(err, service.KindUnauthorized, service.MsgInvalidToken)
}

// Users

func (s *ServiceIntegrationTestSuite) TestUserCreate_DeletedEmailCannotBeReused() {
	role := testutil.Role(s.T(), s.testDB.DB, models.RoleCantEdit)
	deleted := testutil.CreateTestUser(s.T(), s.testDB.DB, "old@example.com", "Pass123456", models.RoleCantEdit)
	testutil.SoftDeleteRow(s.T(), s.testDB.DB, deleted)

	_, err := s.users.Create(s.ctx, service.CreateUserInput{
		Name: "New", Surname: "User", Email: "old@example.com", Password: "Pass123456", RoleID: role.ID,
	})

	s.assertKind(err, service.KindConflict, service.MsgEmailRegistered)
}

func (s *ServiceIntegrationTestSuite) TestUserCreate_UnknownRole() {
	_, err := s.users.Create(s.ctx, service.CreateUserInput{
		Name: "New", Surname: "User", Email: "new@example.com", Password: "Pass123456", RoleID: 9999,
	})

	s.assertKind(err, service.KindNotFound, service.MsgRoleMissing)
}

func (s *ServiceIntegrationTestSuite) TestUserCreateGetList() {
	role := testutil.Role(s.T(), s.testDB.DB, models.RoleCantDelete)

	created, err := s.users.Create(s.ctx, service.CreateUserInput{
		Name: "Grace", Surname: "Hopper", Email: "grace@example.com", Password: "Pass123456", RoleID: role.ID,
	})
	require.NoError(s.T(), err)

	got, err := s.users.Get(s.ctx, created.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.RoleCantDelete, got.Role.Name)

	page, err := s.users.List(s.ctx, 0, 10)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), page.Total)
	assert.Equal(s.T(), 10, page.Limit)
}

func (s *ServiceIntegrationTestSuite) TestUserUpdate_PartialFields() {
	user := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	admin := testutil.Role(s.T(), s.testDB.DB, models.RoleAdmin)

	err := s.users.Update(s.ctx, service.UpdateUserInput{
		ID:       user.ID,
		Name:     ptr("Renamed"),
		RoleID:   ptr(admin.ID),
		Password: ptr("NewPass123"),
	})
	require.NoError(s.T(), err)

	got, err := s.users.Get(s.ctx, user.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Renamed", got.Name)
	assert.Equal(s.T(), user.Surname, got.Surname)
	assert.Equal(s.T(), user.Email, got.Email)
	assert.Equal(s.T(), models.RoleAdmin, got.Role.Name)

	_, err = s.auth.Login(s.ctx, user.Email, "NewPass123")
	assert.NoError(s.T(), err)
}

func (s *ServiceIntegrationTestSuite) TestUserUpdate_EmailRules() {
	user := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	other := testutil.DefaultAdminUser(s.T(), s.testDB.DB)

	err := s.users.Update(s.ctx, service.UpdateUserInput{ID: user.ID, Email: ptr(other.Email)})
	s.assertKind(err, service.KindConflict, service.MsgEmailTakenByOther)

	err = s.users.Update(s.ctx, service.UpdateUserInput{ID: user.ID, Email: ptr(user.Email)})
	assert.NoError(s.T(), err, "keeping the own email is allowed")

	err = s.users.Update(s.ctx, service.UpdateUserInput{ID: user.ID, RoleID: ptr(uint(9999))})
	s.assertKind(err, service.KindNotFound, service.MsgRoleMissing)

	err = s.users.Update(s.ctx, service.UpdateUserInput{ID: 4242, Name: ptr("x")})
	s.assertKind(err, service.KindNotFound, service.MsgUserNotFound)
}

func (s *ServiceIntegrationTestSuite) TestUserDelete() {
	user := testutil.DefaultTestUser(s.T(), s.testDB.DB)

	require.NoError(s.T(), s.users.Delete(s.ctx, user.ID))

	_, err := s.users.Get(s.ctx, user.ID)
	s.assertKind(err, service.KindNotFound, service.MsgUserNotFound)

	err = s.users.Delete(s.ctx, 4242)
	s.assertKind(err, service.KindNotFound, service.MsgUserNotFound)
}

// Posts

func (s *ServiceIntegrationTestSuite) TestPostCreate_DefaultsOwnerToActor() {
	user := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	actor := service.ActorFrom(user)

	post, err := s.posts.Create(s.ctx, actor, service.CreatePostInput{Title: "Hello", Content: "World"})

	require.NoError(s.T(), err)
	assert.Equal(s.T(), user.ID, post.OwnerID)
}

func (s *ServiceIntegrationTestSuite) TestPostCreate_OwnerMustBeActive() {
	user := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	gone := testutil.DefaultAdminUser(s.T(), s.testDB.DB)
	testutil.SoftDeleteRow(s.T(), s.testDB.DB, gone)

	_, err := s.posts.Create(s.ctx, service.ActorFrom(user), service.CreatePostInput{
		Title: "Hello", Content: "World", OwnerID: ptr(gone.ID),
	})

	s.assertKind(err, service.KindNotFound, service.MsgOwnerMissing)
}

func (s *ServiceIntegrationTestSuite) TestPostCreate_WithTags() {
	user := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	goTag := testutil.CreateTestTag(s.T(), s.testDB.DB, "go")

	post, err := s.posts.Create(s.ctx, service.ActorFrom(user), service.CreatePostInput{
		Title: "Hello", Content: "World", TagIDs: []uint{goTag.ID},
	})
	require.NoError(s.T(), err)

	got, err := s.posts.Get(s.ctx, post.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), got.Tags, 1)
	assert.Equal(s.T(), "go", got.Tags[0].Name)

	_, err = s.posts.Create(s.ctx, service.ActorFrom(user), service.CreatePostInput{
		Title: "Other", Content: "Post", TagIDs: []uint{goTag.ID, 777},
	})
	s.assertKind(err, service.KindValidation, "Tag with ID 777 does not exist or was deleted")

	page, err := s.posts.List(s.ctx, 0, 10)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), page.Total, "failed create must not leave a post behind")
}

func (s *ServiceIntegrationTestSuite) TestPostUpdate_OnlyOwner() {
	owner := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	admin := testutil.DefaultAdminUser(s.T(), s.testDB.DB)
	post := testutil.CreateTestPost(s.T(), s.testDB.DB, owner.ID, "Original")

	err := s.posts.Update(s.ctx, service.ActorFrom(admin), service.UpdatePostInput{ID: post.ID, Title: ptr("Hijacked")})
	s.assertKind(err, service.KindForbidden, service.MsgCannotEditPost)

	err = s.posts.Update(s.ctx, service.ActorFrom(owner), service.UpdatePostInput{ID: post.ID, Title: ptr("Edited")})
	require.NoError(s.T(), err)

	got, err := s.posts.Get(s.ctx, post.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Edited", got.Title)
	assert.Equal(s.T(), post.Content, got.Content)
}

func (s *ServiceIntegrationTestSuite) TestPostDelete_OnlyOwner() {
	owner := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	admin := testutil.DefaultAdminUser(s.T(), s.testDB.DB)
	post := testutil.CreateTestPost(s.T(), s.testDB.DB, owner.ID, "Mine")

	err := s.posts.Delete(s.ctx, service.ActorFrom(admin), post.ID)
	s.assertKind(err, service.KindForbidden, service.MsgCannotDeletePost)

	_, err = s.posts.Get(s.ctx, post.ID)
	assert.NoError(s.T(), err)

	err = s.posts.Delete(s.ctx, service.ActorFrom(owner), 4242)
	s.assertKind(err, service.KindNotFound, service.MsgPostNotFound)
}

// Tags

func (s *ServiceIntegrationTestSuite) TestTagCreate_ValidatesPostsFirst() {
	owner := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	post := testutil.CreateTestPost(s.T(), s.testDB.DB, owner.ID, "P1")

	_, err := s.tags.Create(s.ctx, service.CreateTagInput{Name: "go", PostIDs: []uint{post.ID, 999}})
	s.assertKind(err, service.KindValidation, "Post with ID 999 does not exist or was deleted")

	page, err := s.tags.List(s.ctx, 0, 10)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(0), page.Total)

	tag, err := s.tags.Create(s.ctx, service.CreateTagInput{Name: "go", PostIDs: []uint{post.ID}})
	require.NoError(s.T(), err)

	got, err := s.tags.Get(s.ctx, tag.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), got.Posts, 1)
	assert.Equal(s.T(), owner.ID, got.Posts[0].Owner.ID)
}

func (s *ServiceIntegrationTestSuite) TestTagUpdate_ClearAndAbort() {
	owner := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	p1 := testutil.CreateTestPost(s.T(), s.testDB.DB, owner.ID, "P1")
	p2 := testutil.CreateTestPost(s.T(), s.testDB.DB, owner.ID, "P2")
	tag := testutil.CreateTestTag(s.T(), s.testDB.DB, "go", p1)

	// {P1, P2} with P2 deleted aborts and keeps the prior set
	testutil.SoftDeleteRow(s.T(), s.testDB.DB, p2)
	err := s.tags.Update(s.ctx, service.UpdateTagInput{ID: tag.ID, Name: ptr("golang"), PostIDs: &[]uint{p1.ID, p2.ID}})
	s.assertKind(err, service.KindValidation, "")

	got, err := s.tags.Get(s.ctx, tag.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "go", got.Name, "name change is rolled back too")
	require.Len(s.T(), got.Posts, 1)
	assert.Equal(s.T(), p1.ID, got.Posts[0].ID)

	// Absent post_ids leaves associations alone
	require.NoError(s.T(), s.tags.Update(s.ctx, service.UpdateTagInput{ID: tag.ID, Name: ptr("golang")}))
	got, err = s.tags.Get(s.ctx, tag.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "golang", got.Name)
	assert.Len(s.T(), got.Posts, 1)

	// Empty post_ids clears
	require.NoError(s.T(), s.tags.Update(s.ctx, service.UpdateTagInput{ID: tag.ID, PostIDs: &[]uint{}}))
	got, err = s.tags.Get(s.ctx, tag.ID)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), got.Posts)
}

func (s *ServiceIntegrationTestSuite) TestTagDelete() {
	tag := testutil.CreateTestTag(s.T(), s.testDB.DB, "go")

	require.NoError(s.T(), s.tags.Delete(s.ctx, tag.ID))

	_, err := s.tags.Get(s.ctx, tag.ID)
	s.assertKind(err, service.KindNotFound, service.MsgTagNotFound)
}

func (s *ServiceIntegrationTestSuite) TestList_InvalidPagination() {
	_, err := s.posts.List(s.ctx, -1, 10)
	s.assertKind(err, service.KindValidation, "")

	_, err = s.tags.List(s.ctx, 0, 0)
	s.assertKind(err, service.KindValidation, "")

	_, err = s.users.List(s.ctx, 0, 101)
	s.assertKind(err, service.KindValidation, "")
}

// End to end: register, create, delete twice, list
func (s *ServiceIntegrationTestSuite) TestPostLifecycle_RepeatedDelete() {
	pair := s.register("u1@example.com")
	actor := s.actorFor(pair.AccessToken)

	post, err := s.posts.Create(s.ctx, actor, service.CreatePostInput{Title: "P1", Content: "Body"})
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.posts.Delete(s.ctx, actor, post.ID))

	var first models.Post
	require.NoError(s.T(), s.testDB.DB.Unscoped().First(&first, post.ID).Error)

	time.Sleep(5 * time.Millisecond)
	require.NoError(s.T(), s.posts.Delete(s.ctx, actor, post.ID), "second delete still succeeds")

	var second models.Post
	require.NoError(s.T(), s.testDB.DB.Unscoped().First(&second, post.ID).Error)
	assert.True(s.T(), second.DeletedAt.Time.After(first.DeletedAt.Time))

	page, err := s.posts.List(s.ctx, 0, 10)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(0), page.Total)
	assert.Empty(s.T(), page.Items)
}

func TestServiceIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceIntegrationTestSuite))
}
