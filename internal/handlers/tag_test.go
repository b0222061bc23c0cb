package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/evolvetodo/todo-api/internal/dto"
	"github.com/evolvetodo/todo-api/internal/models"
	"github.com/evolvetodo/todo-api/internal/repository"
	"github.com/evolvetodo/todo-api/internal/services"
)

// TagHandlerTestSuite defines the test suite for TagHandler
type TagHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TagHandler
}

// SetupTest runs before each test
func (suite *TagHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Tag{},
		&models.TaskTag{},
	)
	suite.Require().NoError(err)

	tagRepo := repository.NewTagRepository(suite.db)
	tagService := services.NewTagService(tagRepo)

	suite.handler = NewTagHandler(tagService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TagHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TagHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Email:        email,
		Name:         email,
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *TagHandlerTestSuite) createTestTag(name string, userID uint64) *models.Tag {
	tag := &models.Tag{
		UserID: userID,
		Name:   name,
		Color:  models.DefaultTagColor,
	}
	suite.db.Create(tag)
	return tag
}

func (suite *TagHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("user_id", userID)

	return c, w
}

// TestCreateTag_Success tests creation with the default color
func (suite *TagHandlerTestSuite) TestCreateTag_Success() {
	user := suite.createTestUser("test@example.com")

	body, _ := json.Marshal(map[string]interface{}{"name": "errands"})

	c, w := suite.createAuthContext("POST", "/api/tags", body, user.ID)

	suite.handler.CreateTag(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.TagDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "errands", response.Name)
	assert.Equal(suite.T(), models.DefaultTagColor, response.Color)
}

// TestCreateTag_DuplicateName tests the per-user name uniqueness conflict
func (suite *TagHandlerTestSuite) TestCreateTag_DuplicateName() {
	user := suite.createTestUser("test@example.com")
	suite.createTestTag("errands", user.ID)

	body, _ := json.Marshal(map[string]interface{}{"name": "errands"})

	c, w := suite.createAuthContext("POST", "/api/tags", body, user.ID)

	suite.handler.CreateTag(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestCreateTag_SameNameDifferentUser tests that uniqueness is scoped per user
func (suite *TagHandlerTestSuite) TestCreateTag_SameNameDifferentUser() {
	first := suite.createTestUser("first@example.com")
	second := suite.createTestUser("second@example.com")
	suite.createTestTag("errands", first.ID)

	body, _ := json.Marshal(map[string]interface{}{"name": "errands"})

	c, w := suite.createAuthContext("POST", "/api/tags", body, second.ID)

	suite.handler.CreateTag(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)
}

// TestCreateTag_InvalidColor tests hex color validation
func (suite *TagHandlerTestSuite) TestCreateTag_InvalidColor() {
	user := suite.createTestUser("test@example.com")

	body, _ := json.Marshal(map[string]interface{}{"name": "errands", "color": "blue"})

	c, w := suite.createAuthContext("POST", "/api/tags", body, user.ID)

	suite.handler.CreateTag(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateTag_NameTooLong tests the tag name length cap
func (suite *TagHandlerTestSuite) TestCreateTag_NameTooLong() {
	user := suite.createTestUser("test@example.com")

	body, _ := json.Marshal(map[string]interface{}{"name": strings.Repeat("a", 51)})

	c, w := suite.createAuthContext("POST", "/api/tags", body, user.ID)

	suite.handler.CreateTag(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestListTags_ScopedToOwner tests that listing only shows the caller's tags
func (suite *TagHandlerTestSuite) TestListTags_ScopedToOwner() {
	owner := suite.createTestUser("owner@example.com")
	stranger := suite.createTestUser("stranger@example.com")
	suite.createTestTag("mine", owner.ID)
	suite.createTestTag("theirs", stranger.ID)

	c, w := suite.createAuthContext("GET", "/api/tags", nil, owner.ID)

	suite.handler.ListTags(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Tags []dto.TagDTO `json:"tags"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Tags, 1)
	assert.Equal(suite.T(), "mine", response.Tags[0].Name)
}

// TestUpdateTag_RenameToTakenName tests renaming onto an existing name
func (suite *TagHandlerTestSuite) TestUpdateTag_RenameToTakenName() {
	user := suite.createTestUser("test@example.com")
	suite.createTestTag("errands", user.ID)
	suite.createTestTag("chores", user.ID)

	body, _ := json.Marshal(map[string]interface{}{"name": "errands"})

	c, w := suite.createAuthContext("PATCH", "/api/tags/2", body, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "2"}}

	suite.handler.UpdateTag(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestUpdateTag_SameNameNoConflict tests that keeping the current name succeeds
func (suite *TagHandlerTestSuite) TestUpdateTag_SameNameNoConflict() {
	user := suite.createTestUser("test@example.com")
	suite.createTestTag("errands", user.ID)

	body, _ := json.Marshal(map[string]interface{}{"name": "errands", "color": "#ff0000"})

	c, w := suite.createAuthContext("PATCH", "/api/tags/1", body, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.UpdateTag(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TagDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "#ff0000", response.Color)
}

// TestUpdateTag_Forbidden tests that a stranger cannot update a tag
func (suite *TagHandlerTestSuite) TestUpdateTag_Forbidden() {
	owner := suite.createTestUser("owner@example.com")
	stranger := suite.createTestUser("stranger@example.com")
	suite.createTestTag("private", owner.ID)

	body, _ := json.Marshal(map[string]interface{}{"name": "hijacked"})

	c, w := suite.createAuthContext("PATCH", "/api/tags/1", body, stranger.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.UpdateTag(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestDeleteTag_RemovesLinksKeepsTasks tests that deleting a tag detaches it
// from every task without touching the tasks themselves
func (suite *TagHandlerTestSuite) TestDeleteTag_RemovesLinksKeepsTasks() {
	user := suite.createTestUser("test@example.com")
	tag := suite.createTestTag("errands", user.ID)

	task := &models.Task{UserID: user.ID, Title: "Tagged Task", Priority: models.PriorityMedium}
	suite.db.Create(task)
	suite.db.Create(&models.TaskTag{TaskID: task.ID, TagID: tag.ID})

	c, w := suite.createAuthContext("DELETE", "/api/tags/1", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.DeleteTag(c)

	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	var linkCount int64
	suite.db.Model(&models.TaskTag{}).Count(&linkCount)
	assert.Equal(suite.T(), int64(0), linkCount)

	var taskCount int64
	suite.db.Model(&models.Task{}).Count(&taskCount)
	assert.Equal(suite.T(), int64(1), taskCount)
}

// TestDeleteTag_NameReusableAfterDelete tests that a deleted tag's name frees up
func (suite *TagHandlerTestSuite) TestDeleteTag_NameReusableAfterDelete() {
	user := suite.createTestUser("test@example.com")
	suite.createTestTag("errands", user.ID)

	c, w := suite.createAuthContext("DELETE", "/api/tags/1", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	suite.handler.DeleteTag(c)
	suite.Require().Equal(http.StatusNoContent, w.Code)

	body, _ := json.Marshal(map[string]interface{}{"name": "errands"})
	c, w = suite.createAuthContext("POST", "/api/tags", body, user.ID)
	suite.handler.CreateTag(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)
}

// TestDeleteTag_Forbidden tests that a stranger cannot delete a tag
func (suite *TagHandlerTestSuite) TestDeleteTag_Forbidden() {
	owner := suite.createTestUser("owner@example.com")
	stranger := suite.createTestUser("stranger@example.com")
	suite.createTestTag("private", owner.ID)

	c, w := suite.createAuthContext("DELETE", "/api/tags/1", nil, stranger.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.DeleteTag(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestTagHandlerTestSuite runs the test suite
func TestTagHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TagHandlerTestSuite))
}
