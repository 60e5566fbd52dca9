package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	apperrors "moneylog/internal/errors"
	"moneylog/internal/logger"
	"moneylog/internal/models"
	"moneylog/internal/storage"
)

const (
	maxPhotoSize   = 5 * 1024 * 1024
	photoURLPrefix = "/uploads/personal-photos/"
)

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// photoService pairs photo rows with their files in the blob store. A
// failure on either side cleans up the other so neither orphans.
type photoService struct {
	db    *gorm.DB
	store storage.BlobStore
}

// NewPhotoService creates a new PhotoServicer.
func NewPhotoService(db *gorm.DB, store storage.BlobStore) PhotoServicer {
	return &photoService{db: db, store: store}
}

// UploadPhoto validates and stores the file, then inserts the row. The file
// is removed again if the insert fails.
func (s *photoService) UploadPhoto(userID uint, file *multipart.FileHeader, description string) (*models.Photo, error) {
	if file == nil {
		return nil, apperrors.ErrPhotoMissing
	}
	filename, err := s.saveUpload(file)
	if err != nil {
		return nil, err
	}

	photo := &models.Photo{
		UserID:      userID,
		ImageURL:    photoURLPrefix + filename,
		Description: description,
	}
	if err := s.db.Create(photo).Error; err != nil {
		s.removeFile(filename)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return photo, nil
}

// ListPhotos returns every photo with its uploader's username, newest first.
func (s *photoService) ListPhotos() ([]models.Photo, error) {
	var photos []models.Photo
	err := s.db.Model(&models.Photo{}).
		Select("photos.*, users.username").
		Joins("JOIN users ON users.id = photos.user_id").
		Order("photos.created_at DESC").
		Scan(&photos).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return photos, nil
}

// UpdatePhoto changes the description and, when a file is supplied,
// replaces the image. The old file is deleted only after the row update
// succeeds; a failed update deletes the new file instead.
func (s *photoService) UpdatePhoto(userID, photoID uint, file *multipart.FileHeader, description string) (*models.Photo, error) {
	var photo models.Photo
	if err := s.db.First(&photo, photoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPhotoNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if photo.UserID != userID {
		return nil, apperrors.WithMessage(apperrors.ErrPhotoForbidden, "Not authorized to edit this photo")
	}

	updates := map[string]interface{}{
		"description": description,
		"created_at":  time.Now(),
	}

	oldURL := photo.ImageURL
	var newFilename string
	if file != nil {
		var err error
		newFilename, err = s.saveUpload(file)
		if err != nil {
			return nil, err
		}
		updates["image_url"] = photoURLPrefix + newFilename
	}

	if err := s.db.Model(&photo).Updates(updates).Error; err != nil {
		if newFilename != "" {
			s.removeFile(newFilename)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if newFilename != "" {
		s.removeFile(path.Base(oldURL))
	}
	return &photo, nil
}

// DeletePhoto removes the file and the row. Only the owner may delete.
func (s *photoService) DeletePhoto(userID, photoID uint) error {
	var photo models.Photo
	if err := s.db.First(&photo, photoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPhotoNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if photo.UserID != userID {
		return apperrors.WithMessage(apperrors.ErrPhotoForbidden, "Not authorized to delete this photo")
	}

	s.removeFile(path.Base(photo.ImageURL))

	if err := s.db.Delete(&photo).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// saveUpload validates the upload and writes it under a timestamped name,
// returning the stored filename.
func (s *photoService) saveUpload(file *multipart.FileHeader) (string, error) {
	if file.Size > maxPhotoSize {
		return "", apperrors.ErrPhotoTooLarge
	}
	if !allowedPhotoTypes[file.Header.Get("Content-Type")] {
		return "", apperrors.ErrPhotoType
	}

	src, err := file.Open()
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	defer src.Close()

	filename := fmt.Sprintf("photo-%d%s", time.Now().UnixMilli(), filepath.Ext(file.Filename))
	if err := s.store.Save(filename, src); err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return filename, nil
}

func (s *photoService) removeFile(filename string) {
	if err := s.store.Remove(filename); err != nil {
		logger.Get().Warnw("failed to remove photo file", "file", filename, "error", err)
	}
}
