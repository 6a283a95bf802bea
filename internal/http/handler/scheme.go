package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"schemeagent/internal/service"
)

const schemeNotFound = "scheme not found"

type discoverRequest struct {
	SourceURL string `json:"source_url"`
	Text      string `json:"text"`
}

func schemeID(c *fiber.Ctx) (string, bool) {
	id := c.Params("schemeID")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// ListSchemes returns a page of the scheme catalogue.
//
//	@Summary	List schemes
//	@Tags		schemes
//	@Produce	json
//	@Param		limit	query		int	false	"Page size"	default(20)
//	@Param		offset	query		int	false	"Offset"	default(0)
//	@Success	200		{object}	service.SchemeListResult
//	@Router		/schemes [get]
func ListSchemes(svc service.SchemeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "20"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeInternal(c, err)
		}
		return c.JSON(res)
	}
}

// DiscoverSchemes extracts schemes from page text and stores the new ones.
//
//	@Summary	Discover schemes
//	@Tags		schemes
//	@Accept		json
//	@Produce	json
//	@Param		request	body		discoverRequest	true	"Source page"
//	@Success	200		{object}	service.DiscoverResult
//	@Failure	400		{object}	errorPayload
//	@Router		/schemes/discover [post]
func DiscoverSchemes(svc service.SchemeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req discoverRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		res, err := svc.Discover(c.UserContext(), req.SourceURL, req.Text)
		if err != nil {
			return writeServiceError(c, err, schemeNotFound)
		}
		return c.JSON(res)
	}
}

// ListUserSchemes returns every scheme with the user's eligibility verdict.
//
//	@Summary	Schemes with eligibility
//	@Tags		eligibility
//	@Produce	json
//	@Param		userID	path	string	true	"User ID"
//	@Success	200		{array}	service.SchemeVerdict
//	@Router		/users/{userID}/schemes [get]
func ListUserSchemes(svc service.SchemeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.ListForUser(c.UserContext(), c.Params("userID"))
		if err != nil {
			return writeServiceError(c, err, schemeNotFound)
		}
		if res == nil {
			res = []service.SchemeVerdict{}
		}
		return c.JSON(res)
	}
}

// EvaluateScheme returns the user's verdict for one scheme.
//
//	@Summary	Eligibility for one scheme
//	@Tags		eligibility
//	@Produce	json
//	@Param		userID		path		string	true	"User ID"
//	@Param		schemeID	path		string	true	"Scheme ID"
//	@Success	200			{object}	service.SchemeVerdict
//	@Failure	404			{object}	errorPayload
//	@Router		/users/{userID}/schemes/{schemeID}/eligibility [get]
func EvaluateScheme(svc service.SchemeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := schemeID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		res, err := svc.Evaluate(c.UserContext(), c.Params("userID"), id)
		if err != nil {
			return writeServiceError(c, err, schemeNotFound)
		}
		return c.JSON(res)
	}
}

// ApplicationKit prepares the cover letter, checklist and next steps.
//
//	@Summary	Application kit
//	@Tags		eligibility
//	@Produce	json
//	@Param		userID		path		string	true	"User ID"
//	@Param		schemeID	path		string	true	"Scheme ID"
//	@Success	200			{object}	service.ApplicationKit
//	@Failure	409			{object}	errorPayload
//	@Router		/users/{userID}/schemes/{schemeID}/kit [get]
func ApplicationKit(svc service.SchemeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := schemeID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		kit, err := svc.Kit(c.UserContext(), c.Params("userID"), id)
		if err != nil {
			return writeServiceError(c, err, schemeNotFound)
		}
		return c.JSON(kit)
	}
}
