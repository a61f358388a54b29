package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Pagination represents pagination metadata
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// PaginatedResponse wraps paginated data
type PaginatedResponse struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

// OK sends a success response
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Status: "success", Data: data})
}

// Created sends a 201 success response
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Status: "success", Data: data})
}

// Paginated sends a success response with pagination metadata
func Paginated(c *gin.Context, items interface{}, page, pageSize int, total int64) {
	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)
	c.JSON(http.StatusOK, Response{
		Status: "success",
		Data: PaginatedResponse{
			Items: items,
			Pagination: Pagination{
				Page:       page,
				PageSize:   pageSize,
				Total:      total,
				TotalPages: totalPages,
			},
		},
	})
}

// Error sends an error response, mapping AppError codes to HTTP status.
func Error(c *gin.Context, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		c.JSON(appErr.HTTPStatus(), Response{Status: "error", Message: appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, Response{Status: "error", Message: "internal server error"})
}

// BadRequest sends a 400 with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Status: "error", Message: message})
}
