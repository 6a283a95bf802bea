package handler

import (
	"github.com/gofiber/fiber/v2"

	"schemeagent/internal/model"
	"schemeagent/internal/service"
)

// GetProfile returns the profile of the user.
//
//	@Summary	Get profile
//	@Tags		profile
//	@Produce	json
//	@Param		userID	path		string	true	"User ID"
//	@Success	200		{object}	model.Profile
//	@Failure	404		{object}	errorPayload
//	@Router		/users/{userID}/profile [get]
func GetProfile(svc service.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.Get(c.UserContext(), c.Params("userID"))
		if err != nil {
			return writeServiceError(c, err, "profile not found")
		}
		return c.JSON(p)
	}
}

// UpsertProfile creates or replaces the profile of the user.
//
//	@Summary	Create or replace profile
//	@Tags		profile
//	@Accept		json
//	@Produce	json
//	@Param		userID	path		string			true	"User ID"
//	@Param		profile	body		model.Profile	true	"Profile"
//	@Success	200		{object}	model.Profile
//	@Failure	400		{object}	errorPayload
//	@Router		/users/{userID}/profile [put]
func UpsertProfile(svc service.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.Profile
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		p, err := svc.Upsert(c.UserContext(), c.Params("userID"), &in)
		if err != nil {
			return writeServiceError(c, err, "profile not found")
		}
		return c.JSON(p)
	}
}
