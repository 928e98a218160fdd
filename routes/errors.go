package routes

import (
	"errors"

	"github.com/theophane330/HABIPRO-NEW/services"
	"github.com/theophane330/HABIPRO-NEW/utils"

	"github.com/kataras/iris/v12"
)

// handleServiceError maps the services error taxonomy onto HTTP codes.
func handleServiceError(err error, ctx iris.Context) {
	var transition *services.InvalidTransitionError

	switch {
	case errors.Is(err, services.ErrDuplicateActiveLease),
		errors.Is(err, services.ErrDuplicatePayment):
		utils.JSONError(ctx, iris.StatusConflict, "conflict", err.Error())
	case errors.Is(err, services.ErrLeaseNotFound),
		errors.Is(err, services.ErrContractNotFound),
		errors.Is(err, services.ErrTenantNotFound),
		errors.Is(err, services.ErrPropertyNotFound):
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, services.ErrNotOwner):
		utils.JSONError(ctx, iris.StatusForbidden, "forbidden", err.Error())
	case errors.As(err, &transition):
		utils.JSONError(ctx, iris.StatusUnprocessableEntity, "invalid_transition", err.Error())
	default:
		utils.CreateInternalServerError(ctx)
	}
}
