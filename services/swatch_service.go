package services

import (
	"fmt"
	"mime/multipart"

	"github.com/bestline-mfg/bestline-orders-api/utils"
)

// SwatchService handles fabric swatch and artwork reference images attached
// to orders
type SwatchService interface {
	// UploadSwatch validates and uploads a swatch image for an order,
	// returns the storage key
	UploadSwatch(orderID uint, fileHeader *multipart.FileHeader) (string, error)

	// GetSwatchURL generates a URL for accessing an uploaded swatch
	GetSwatchURL(swatchKey string) (string, error)

	// DeleteSwatch removes a swatch from storage
	DeleteSwatch(swatchKey string) error
}

// S3SwatchService implements SwatchService using AWS S3 for storage
type S3SwatchService struct {
	s3Service S3Interface
}

var swatchServiceInstance SwatchService

// InitSwatchService initializes the swatch service with an S3 backend
func InitSwatchService(s3Service S3Interface) SwatchService {
	swatchServiceInstance = &S3SwatchService{
		s3Service: s3Service,
	}
	return swatchServiceInstance
}

// GetSwatchService returns the initialized swatch service instance
func GetSwatchService() SwatchService {
	return swatchServiceInstance
}

// SetSwatchService sets the swatch service instance (primarily for testing)
func SetSwatchService(service SwatchService) {
	swatchServiceInstance = service
}

// UploadSwatch validates and uploads a swatch image to S3
func (s *S3SwatchService) UploadSwatch(orderID uint, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateSwatchFile(fileHeader); err != nil {
		return "", err
	}

	swatchKey, err := s.s3Service.UploadFile(fmt.Sprintf("swatches/order-%d", orderID), fileHeader)
	if err != nil {
		return "", fmt.Errorf("failed to upload swatch: %w", err)
	}

	return swatchKey, nil
}

// GetSwatchURL generates a presigned URL for accessing an uploaded swatch
func (s *S3SwatchService) GetSwatchURL(swatchKey string) (string, error) {
	if swatchKey == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(swatchKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate swatch URL: %w", err)
	}

	return url, nil
}

// DeleteSwatch removes a swatch from storage
func (s *S3SwatchService) DeleteSwatch(swatchKey string) error {
	if swatchKey == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(swatchKey); err != nil {
		return fmt.Errorf("failed to delete swatch: %w", err)
	}

	return nil
}
