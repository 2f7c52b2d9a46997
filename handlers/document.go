package handlers

import (
	"io"
	"net/http"

	"sailsmart/models"
	"sailsmart/services/document"
	"sailsmart/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

// DocumentHandler serves the identity document vault.
type DocumentHandler struct {
	Service document.DocumentService
}

func NewDocumentHandler(svc document.DocumentService) *DocumentHandler {
	return &DocumentHandler{Service: svc}
}

// Upload handles POST /api/documents as multipart form data with a "file" part and a
// "documentType" field. The content type is sniffed from the bytes, not taken from the client.
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		utils.RespondError(c, utils.Validation("file is required"))
		return
	}
	if header.Size > models.MaxDocumentBytes {
		utils.RespondError(c, utils.Validation("file is larger than 10 MB"))
		return
	}
	f, err := header.Open()
	if err != nil {
		utils.RespondError(c, utils.Validation("could not read uploaded file"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, models.MaxDocumentBytes+1))
	if err != nil {
		utils.RespondError(c, utils.Validation("could not read uploaded file"))
		return
	}

	doc, err := h.Service.Upload(c.Request.Context(), userID, models.DocumentType(c.PostForm("documentType")), document.FileInput{
		Name:     header.Filename,
		MimeType: mimetype.Detect(data).String(),
		Data:     data,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// List handles GET /api/documents.
func (h *DocumentHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	docs, err := h.Service.List(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// Grant handles POST /api/documents/:id/grants.
func (h *DocumentHandler) Grant(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req models.GrantInput
	if !bindJSON(c, &req) {
		return
	}
	grant, err := h.Service.Grant(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, grant)
}

// Revoke handles DELETE /api/documents/:id/grants/:grantID.
func (h *DocumentHandler) Revoke(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.Service.Revoke(c.Request.Context(), userID, c.Param("id"), c.Param("grantID")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AccessURL handles GET /api/documents/:id/url.
func (h *DocumentHandler) AccessURL(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	url, err := h.Service.AccessURL(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
