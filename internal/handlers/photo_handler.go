package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "moneylog/internal/errors"
	"moneylog/internal/services"
)

// PhotoHandler handles photo upload requests. Uploads arrive as multipart
// forms with the file under the "photo" field.
type PhotoHandler struct {
	photoService services.PhotoServicer
}

// NewPhotoHandler creates a new PhotoHandler.
func NewPhotoHandler(photoService services.PhotoServicer) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

// UploadPhoto stores a photo for the caller.
// @Summary     Upload a photo
// @Tags        photos
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       photo formData file true "Image file (JPEG, PNG, or GIF, max 5MB)"
// @Param       description formData string false "Description"
// @Success     201 {object} SuccessResponse
// @Failure     400 {object} ErrorResponse "Missing file or unsupported type"
// @Router      /photos [post]
func (h *PhotoHandler) UploadPhoto(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		respondWithError(c, apperrors.ErrPhotoMissing)
		return
	}

	photo, err := h.photoService.UploadPhoto(userID, file, c.PostForm("description"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondCreated(c, "Photo uploaded successfully", photo)
}

// ListPhotos returns every photo with uploader usernames.
// @Summary     List photos
// @Tags        photos
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} SuccessResponse
// @Router      /photos [get]
func (h *PhotoHandler) ListPhotos(c *gin.Context) {
	photos, err := h.photoService.ListPhotos()
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", photos)
}

// UpdatePhoto changes a photo's description and optionally replaces the
// image.
// @Summary     Update a photo
// @Tags        photos
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       photoId path int true "Photo ID"
// @Param       photo formData file false "Replacement image"
// @Param       description formData string false "Description"
// @Success     200 {object} SuccessResponse
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Photo not found"
// @Router      /photos/{photoId} [put]
func (h *PhotoHandler) UpdatePhoto(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	photoID, err := parsePathID(c, "photoId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	// The file is optional on update.
	file, err := c.FormFile("photo")
	if err != nil {
		file = nil
	}

	photo, err := h.photoService.UpdatePhoto(userID, photoID, file, c.PostForm("description"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Photo updated successfully", photo)
}

// DeletePhoto removes a photo the caller owns.
// @Summary     Delete a photo
// @Tags        photos
// @Produce     json
// @Security    BearerAuth
// @Param       photoId path int true "Photo ID"
// @Success     200 {object} SuccessResponse
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Photo not found"
// @Router      /photos/{photoId} [delete]
func (h *PhotoHandler) DeletePhoto(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	photoID, err := parsePathID(c, "photoId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.photoService.DeletePhoto(userID, photoID); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Photo deleted successfully", nil)
}
