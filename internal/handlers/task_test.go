package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/taskhive/project-management-api/internal/constants"
	"github.com/taskhive/project-management-api/internal/database"
	"github.com/taskhive/project-management-api/internal/logger"
	"github.com/taskhive/project-management-api/internal/models"
	"github.com/taskhive/project-management-api/internal/repository"
	"github.com/taskhive/project-management-api/internal/services"
	"github.com/taskhive/project-management-api/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db          *gorm.DB
	router      *gin.Engine
	currentUser *models.User
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(filepath.Join(suite.T().TempDir(), "test.db")), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	suite.Require().NoError(database.Migrate(suite.db))

	// Set the test DB as the default database
	database.SetDB(suite.db)

	userRepo := repository.NewUserRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	projectRepo := repository.NewProjectRepository(suite.db)

	store := storage.NewLocalStore(suite.T().TempDir())
	log := logger.New(gin.TestMode)

	taskService := services.NewTaskService(suite.db, taskRepo, projectRepo, userRepo, store, log)
	handler := NewTaskHandler(taskService)

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	// Create router with a stub auth middleware that injects the current
	// user; role-dependent behavior comes from the service, so one route
	// tree serves both roles
	suite.router = gin.New()
	suite.router.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, suite.currentUser.ID)
		c.Set(constants.ContextKeyUserRole, suite.currentUser.Role)
		c.Next()
	})

	project := suite.router.Group("/api/projects/:project_id")
	{
		project.POST("/tasks", handler.CreateTask)
		task := project.Group("/tasks/:task_number")
		{
			task.GET("", handler.GetTask)
			task.PUT("", handler.UpdateTask)
			task.DELETE("", handler.DeleteTask)
			task.PUT("/status", handler.UpdateStatus)
			task.POST("/approve", handler.ApproveTask)
			task.POST("/reject", handler.RejectTask)
			task.POST("/complete", handler.CompleteTask)
			task.GET("/comments", handler.ListComments)
			task.POST("/comments", handler.AddComment)
		}
	}
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) createUser(email string, role models.Role) *models.User {
	user := &models.User{
		Name:         email,
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createProject(name string, start, due *time.Time) *models.Project {
	project := &models.Project{
		Name:      name,
		StartDate: start,
		DueDate:   due,
		Priority:  models.PriorityMedium,
	}
	suite.db.Create(project)
	return project
}

func (suite *TaskHandlerTestSuite) addMember(projectID, userID uint64) {
	suite.db.Exec("INSERT INTO project_members (project_id, user_id) VALUES (?, ?)", projectID, userID)
}

func (suite *TaskHandlerTestSuite) createTask(projectID, number uint64, status models.TaskStatus, assignee *uint64) *models.Task {
	task := &models.Task{
		ProjectID:  projectID,
		TaskNumber: number,
		Title:      fmt.Sprintf("Task %d", number),
		Status:     status,
		Priority:   models.PriorityMedium,
		AssignedTo: assignee,
	}
	suite.db.Create(task)
	return task
}

func (suite *TaskHandlerTestSuite) do(method, url string, payload any) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

type taskResponse struct {
	Task struct {
		ProjectID      uint64            `json:"project_id"`
		TaskNumber     uint64            `json:"task_number"`
		Title          string            `json:"title"`
		Status         models.TaskStatus `json:"status"`
		CompletionDate *time.Time        `json:"completion_date"`
		AssignedTo     *uint64           `json:"assigned_to"`
	} `json:"task"`
}

// TestCreateTask_SequentialNumbers verifies task numbers count up per project
func (suite *TaskHandlerTestSuite) TestCreateTask_SequentialNumbers() {
	admin := suite.createUser("admin@example.com", models.RoleAdmin)
	suite.currentUser = admin
	project := suite.createProject("Launch", nil, nil)
	other := suite.createProject("Other", nil, nil)
	suite.createTask(other.ID, 1, models.TaskStatusTodo, nil)

	w := suite.do("POST", fmt.Sprintf("/api/projects/%d/tasks", project.ID), gin.H{"title": "First"})
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var first taskResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &first))
	assert.Equal(suite.T(), uint64(1), first.Task.TaskNumber)

	w = suite.do("POST", fmt.Sprintf("/api/projects/%d/tasks", project.ID), gin.H{"title": "Second"})
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var second taskResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &second))
	assert.Equal(suite.T(), uint64(2), second.Task.TaskNumber)
}

// TestCreateTask_DateOutOfRange verifies the project date bounds are enforced
func (suite *TaskHandlerTestSuite) TestCreateTask_DateOutOfRange() {
	admin := suite.createUser("admin@example.com", models.RoleAdmin)
	suite.currentUser = admin

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	project := suite.createProject("Bounded", &start, &due)

	w := suite.do("POST", fmt.Sprintf("/api/projects/%d/tasks", project.ID), gin.H{
		"title":    "Late",
		"due_date": "2026-12-01T00:00:00Z",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "DATE_OUT_OF_RANGE", response["code"])

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Zero(suite.T(), count)
}

// TestCreateTask_CompletedStampsDate verifies a task born completed carries
// a completion date
func (suite *TaskHandlerTestSuite) TestCreateTask_CompletedStampsDate() {
	admin := suite.createUser("admin@example.com", models.RoleAdmin)
	suite.currentUser = admin
	project := suite.createProject("Launch", nil, nil)

	w := suite.do("POST", fmt.Sprintf("/api/projects/%d/tasks", project.ID), gin.H{
		"title":  "Done on arrival",
		"status": "completed",
	})
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response taskResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), models.TaskStatusCompleted, response.Task.Status)
	assert.NotNil(suite.T(), response.Task.CompletionDate)
}

// TestCreateTask_AssigneeNotMember verifies only project members can be
// assigned
func (suite *TaskHandlerTestSuite) TestCreateTask_AssigneeNotMember() {
	admin := suite.createUser("admin@example.com", models.RoleAdmin)
	outsider := suite.createUser("outsider@example.com", models.RoleMember)
	suite.currentUser = admin
	project := suite.createProject("Launch", nil, nil)

	w := suite.do("POST", fmt.Sprintf("/api/projects/%d/tasks", project.ID), gin.H{
		"title":       "Unassignable",
		"assigned_to": outsider.ID,
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestUpdateStatus_MemberCompletedLandsPendingReview verifies a member's
// completion attempt becomes a review request instead
func (suite *TaskHandlerTestSuite) TestUpdateStatus_MemberCompletedLandsPendingReview() {
	admin := suite.createUser("admin@example.com", models.RoleAdmin)
	member := suite.createUser("member@example.com", models.RoleMember)
	project := suite.createProject("Launch", nil, nil)
	suite.addMember(project.ID, member.ID)
	suite.createTask(project.ID, 1, models.TaskStatusInProgress, &member.ID)

	suite.currentUser = member
	w := suite.do("PUT", fmt.Sprintf("/api/projects/%d/tasks/1/status", project.ID), gin.H{"status": "completed"})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response taskResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), models.TaskStatusPendingReview, response.Task.Status)
	assert.Nil(suite.T(), response.Task.CompletionDate)

	// Admins get a review notification, the member does not
	var notifications []models.Notification
	suite.db.Where("type = ?", models.NotificationReview).Find(&notifications)
	suite.Require().Len(notifications, 1)
	assert.Equal(suite.T(), admin.ID, notifications[0].UserID)
}

// TestUpdateStatus_AdminCompletedStampsDate verifies an admin completion is
// final and dated
func (suite *TaskHandlerTestSuite) TestUpdateStatus_AdminCompletedStampsDate() {
	admin := suite.createUser("admin@example.com", models.RoleAdmin)
	suite.currentUser = admin
	project := suite.createProject("Launch", nil, nil)
	suite.createTask(project.ID, 1, models.TaskStatusInProgress, nil)

	w := suite.do("PUT", fmt.Sprintf("/api/projects/%d/tasks/1/status", project.ID), gin.H{"status": "completed"})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response taskResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), models.TaskStatusCompleted, response.Task.Status)
	assert.NotNil(suite.T(), response.Task.CompletionDate)
}

// TestApproveTask verifies review approval completes the task and notifies
// the assignee
func (suite *TaskHandlerTestSuite) TestApproveTask() {
	admin := suite.createUser("admin@example.com", models.RoleAdmin)
	member := suite.createUser("member@example.com", models.RoleMember)
	project := suite.createProject("Launch", nil, nil)
	suite.addMember(project.ID, member.ID)
	suite.createTask(project.ID, 1, models.TaskStatusPendingReview, &member.ID)

	suite.currentUser = admin
	w := suite.do("POST", fmt.Sprintf("/api/projects/%d/tasks/1/approve", project.ID), nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response taskResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), models.TaskStatusCompleted, response.Task.Status)
	assert.NotNil(suite.T(), response.Task.CompletionDate)

	var notification models.Notification
	err := suite.db.Where("user_id = ? AND type = ?", member.ID, models.NotificationReview).First(&notification).Error
	assert.NoError(suite.T(), err)
}

// TestRejectTask verifies review rejection sends the task back to in
// progress
func (suite *TaskHandlerTestSuite) TestRejectTask() {
	admin := suite.createUser("admin@example.com", models.RoleAdmin)
	member := suite.createUser("member@example.com", models.RoleMember)
	project := suite.createProject("Launch", nil, nil)
	suite.addMember(project.ID, member.ID)
	suite.createTask(project.ID, 1, models.TaskStatusPendingReview, &member.ID)

	suite.currentUser = admin
	w := suite.do("POST", fmt.Sprintf("/api/projects/%d/tasks/1/reject", project.ID), nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response taskResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), models.TaskStatusInProgress, response.Task.Status)
	assert.Nil(suite.T(), response.Task.CompletionDate)
}

// TestApproveTask_NotPendingReview verifies approval only applies to tasks
// awaiting review
func (suite *TaskHandlerTestSuite) TestApproveTask_NotPendingReview() {
	admin := suite.createUser("admin@example.com", models.RoleAdmin)
	suite.currentUser = admin
	project := suite.createProject("Launch", nil, nil)
	suite.createTask(project.ID, 1, models.TaskStatusTodo, nil)

	w := suite.do("POST", fmt.Sprintf("/api/projects/%d/tasks/1/approve", project.ID), nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestAddComment_NotifiesAdminsNotAuthor verifies comment fan-out excludes
// the author
func (suite *TaskHandlerTestSuite) TestAddComment_NotifiesAdminsNotAuthor() {
	admin := suite.createUser("admin@example.com", models.RoleAdmin)
	member := suite.createUser("member@example.com", models.RoleMember)
	project := suite.createProject("Launch", nil, nil)
	suite.addMember(project.ID, member.ID)
	suite.createTask(project.ID, 1, models.TaskStatusInProgress, &member.ID)

	suite.currentUser = member
	w := suite.do("POST", fmt.Sprintf("/api/projects/%d/tasks/1/comments", project.ID), gin.H{"content": "On it"})
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var notifications []models.Notification
	suite.db.Where("type = ?", models.NotificationComment).Find(&notifications)
	suite.Require().Len(notifications, 1)
	assert.Equal(suite.T(), admin.ID, notifications[0].UserID)
}

// TestGetTask_NotFound verifies a missing composite key yields 404
func (suite *TaskHandlerTestSuite) TestGetTask_NotFound() {
	admin := suite.createUser("admin@example.com", models.RoleAdmin)
	suite.currentUser = admin
	project := suite.createProject("Launch", nil, nil)

	w := suite.do("GET", fmt.Sprintf("/api/projects/%d/tasks/42", project.ID), nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestDeleteTask_Cascades verifies comments and attachments go with the task
func (suite *TaskHandlerTestSuite) TestDeleteTask_Cascades() {
	admin := suite.createUser("admin@example.com", models.RoleAdmin)
	suite.currentUser = admin
	project := suite.createProject("Launch", nil, nil)
	task := suite.createTask(project.ID, 1, models.TaskStatusTodo, nil)

	suite.db.Create(&models.Comment{Task: task.Ref(), UserID: &admin.ID, Content: "note"})
	suite.db.Create(&models.Attachment{Task: task.Ref(), Filename: "spec.txt", FileURL: "/uploads/tasks/1/1/spec.txt"})

	w := suite.do("DELETE", fmt.Sprintf("/api/projects/%d/tasks/1", project.ID), nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var comments, attachments, tasks int64
	suite.db.Model(&models.Comment{}).Count(&comments)
	suite.db.Model(&models.Attachment{}).Count(&attachments)
	suite.db.Model(&models.Task{}).Count(&tasks)
	assert.Zero(suite.T(), comments)
	assert.Zero(suite.T(), attachments)
	assert.Zero(suite.T(), tasks)
}

// TestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
