package service

import (
	"net/http"

	"github.com/mytrippers/flight-search-service/internal/pkg/exception"
)

var ErrNoProviders = exception.ApplicationError{
	Message:    "no flight providers registered",
	StatusCode: http.StatusInternalServerError,
}

var ErrDetailsNotFound = exception.ApplicationError{
	Message:    "enhanced flight details not found",
	StatusCode: http.StatusNotFound,
}
