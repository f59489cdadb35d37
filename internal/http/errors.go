package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/guttosm/loadplan-service/internal/domain/dto"
	"github.com/guttosm/loadplan-service/internal/engine"
	"github.com/guttosm/loadplan-service/internal/export"
	"github.com/guttosm/loadplan-service/internal/i18n"
	"github.com/guttosm/loadplan-service/internal/repository"
	"github.com/guttosm/loadplan-service/internal/service"
)

// classifyError maps a service error to a status code and message key.
func classifyError(err error) (int, string) {
	var engineErr *engine.ValidationError
	var dtoErr *dto.ValidationError

	switch {
	case errors.As(err, &engineErr) && engineErr.Field == "shipment_index":
		return http.StatusBadRequest, i18n.ErrKeyShipmentIndex
	case errors.As(err, &dtoErr) && dtoErr.Field == "shipment_index":
		return http.StatusBadRequest, i18n.ErrKeyShipmentIndex
	case errors.Is(err, export.ErrUnsupportedFormat):
		return http.StatusBadRequest, i18n.ErrKeyExportFormat
	case errors.As(err, &dtoErr), errors.Is(err, engine.ErrInvalidInput):
		return http.StatusBadRequest, i18n.ErrKeyInvalidPlanInput
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, i18n.ErrKeyNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict, i18n.ErrKeyConflict
	case errors.Is(err, service.ErrCatalogDisabled):
		return http.StatusServiceUnavailable, i18n.ErrKeyCatalogDisabled
	case repository.IsUnavailable(err):
		return http.StatusServiceUnavailable, i18n.ErrKeyServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, i18n.ErrKeyTimeout
	}
	return http.StatusInternalServerError, i18n.ErrKeyInternalError
}

// errorDetails returns the offending field of a validation error, if any.
func errorDetails(err error) map[string]string {
	var engineErr *engine.ValidationError
	if errors.As(err, &engineErr) {
		return map[string]string{engineErr.Field: engineErr.Reason}
	}
	var dtoErr *dto.ValidationError
	if errors.As(err, &dtoErr) {
		return map[string]string{dtoErr.Field: dtoErr.Message}
	}
	return nil
}
