package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/project-management-api/internal/dto"
	apierrors "github.com/taskhive/project-management-api/internal/errors"
	"github.com/taskhive/project-management-api/internal/middleware"
	"github.com/taskhive/project-management-api/internal/services"
)

// FileHandler exposes project file and task attachment endpoints. Uploads
// come in as multipart form data under the "file" field.
type FileHandler struct {
	fileService *services.FileService
}

func NewFileHandler(fileService *services.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// UploadProjectFile stores a file against a project
func (h *FileHandler) UploadProjectFile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	projectID, ok := parseID(c, "project_id")
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "No file provided")
		return
	}

	src, err := header.Open()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	defer src.Close()

	file, err := h.fileService.UploadProjectFile(userID, projectID, header.Filename, src)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"file": dto.ToProjectFileDTO(*file)})
}

// ListProjectFiles lists a project's files
func (h *FileHandler) ListProjectFiles(c *gin.Context) {
	projectID, ok := parseID(c, "project_id")
	if !ok {
		return
	}

	files, err := h.fileService.ListProjectFiles(projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": dto.ToProjectFileDTOs(files)})
}

// DeleteProjectFile removes a project file
func (h *FileHandler) DeleteProjectFile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	projectID, ok := parseID(c, "project_id")
	if !ok {
		return
	}
	fileID, ok := parseID(c, "file_id")
	if !ok {
		return
	}

	if err := h.fileService.DeleteProjectFile(userID, projectID, fileID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}

// UploadAttachment stores a file against a task
func (h *FileHandler) UploadAttachment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	ref, ok := parseTaskRef(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "No file provided")
		return
	}

	src, err := header.Open()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	defer src.Close()

	attachment, err := h.fileService.UploadAttachment(userID, ref, header.Filename, src)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"file": dto.ToAttachmentDTO(*attachment)})
}

// ListAttachments lists a task's attachments
func (h *FileHandler) ListAttachments(c *gin.Context) {
	ref, ok := parseTaskRef(c)
	if !ok {
		return
	}

	attachments, err := h.fileService.ListAttachments(ref)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": dto.ToAttachmentDTOs(attachments)})
}

// DeleteAttachment removes a task attachment
func (h *FileHandler) DeleteAttachment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	ref, ok := parseTaskRef(c)
	if !ok {
		return
	}
	fileID, ok := parseID(c, "file_id")
	if !ok {
		return
	}

	if err := h.fileService.DeleteAttachment(userID, ref, fileID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attachment deleted successfully"})
}
