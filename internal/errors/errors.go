package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrCarNotFound is returned when a car is not found.
	ErrCarNotFound = errors.New("car not found")
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrEmptyFile is returned when an uploaded file is missing or empty.
	ErrEmptyFile = errors.New("file is empty or null")
	// ErrFileTooLarge is returned when an uploaded file exceeds the size cap.
	ErrFileTooLarge = errors.New("file size exceeds maximum limit of 10MB")
	// ErrInvalidFileType is returned when the file extension is not an allowed image type.
	ErrInvalidFileType = errors.New("file type not allowed. Allowed types: jpg, jpeg, png, gif, webp")
	// ErrNotAnImage is returned when the declared content type is not an image.
	ErrNotAnImage = errors.New("file is not an image")
	// ErrStorageUpload is returned when the object store rejects an upload.
	ErrStorageUpload = errors.New("failed to upload image to storage")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrCarNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "CAR_NOT_FOUND")
	case ErrInvalidCredentials:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_CREDENTIALS")
	case ErrEmptyFile:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMPTY_FILE")
	case ErrFileTooLarge:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "FILE_TOO_LARGE")
	case ErrInvalidFileType:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_FILE_TYPE")
	case ErrNotAnImage:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NOT_AN_IMAGE")
	case ErrStorageUpload:
		return NewHTTPError(http.StatusBadGateway, err.Error(), "STORAGE_UPLOAD_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
