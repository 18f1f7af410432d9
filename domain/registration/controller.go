package registration

import (
	"net/http"

	"github.com/akeren/college-forms/config/router"
	apperrors "github.com/akeren/college-forms/pkg/errors"
)

const (
	formName     = "registration"
	registerPage = "register.html"
)

func NewRegistrationController(service RegistrationService) *router.RESTController {
	return router.NewRESTController(
		"RegistrationController",
		"/register",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.AddGetHandler(c, "", rs.PageHandler(registerPage))
			rs.AddPostHandler(c, "", submitRegistrationHandler(rs, service))
		},
	)
}

func submitRegistrationHandler(rs *router.RouterService, service RegistrationService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req RegistrationRequest
		if err := ctx.ShouldBind(&req); err != nil {
			logger.Error("Failed to bind registration request", "error", err)
			rs.RecordSubmission(formName, "invalid")
			return router.TextResult(http.StatusBadRequest, MsgInvalidBody)
		}

		outcome, err := service.SubmitRegistration(ctx.Request.Context(), &req)
		if err != nil {
			rs.RecordSubmission(formName, "error")
			return router.TextResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
			)
		}

		rs.RecordSubmission(formName, string(outcome))

		if outcome == OutcomeAlreadyRegistered {
			return router.TextResult(http.StatusOK, MsgAlreadyRegistered)
		}
		return router.TextResult(http.StatusOK, MsgRegistered)
	}
}
