package contact

import (
	"net/http"

	"github.com/akeren/college-forms/config/router"
	apperrors "github.com/akeren/college-forms/pkg/errors"
)

const (
	formName    = "contact"
	contactPage = "contact.html"
)

// NewContactController owns the home page, which is the contact form, and the
// contact submission endpoint.
func NewContactController(service ContactService) *router.RESTController {
	return router.NewRESTController(
		"ContactController",
		"/",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.AddGetHandler(c, "", rs.PageHandler(contactPage))
			rs.AddPostHandler(c, "contact", submitContactHandler(rs, service))
		},
	)
}

func submitContactHandler(rs *router.RouterService, service ContactService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req ContactRequest
		if err := ctx.ShouldBind(&req); err != nil {
			logger.Error("Failed to bind contact request", "error", err)
			rs.RecordSubmission(formName, "invalid")
			return router.TextResult(http.StatusBadRequest, MsgInvalidBody)
		}

		if err := service.SubmitContact(ctx.Request.Context(), &req); err != nil {
			rs.RecordSubmission(formName, "error")
			return router.TextResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
			)
		}

		rs.RecordSubmission(formName, "recorded")
		return router.TextResult(http.StatusOK, MsgRecorded)
	}
}
