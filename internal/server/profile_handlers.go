// Package server contains the HTTP handlers and routing for the API.
package server

import (
	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/profiles/:username
// @Summary Get a public profile
// @Tags profiles
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profiles/{username} [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return respondError(c, models.NewValidationError("Username is required"))
	}

	profile, err := s.profileService.GetProfile(c.Context(), username, s.identity(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(profile)
}

// GetMyAccount handles GET /api/users/me
// @Summary Get the authenticated user's account
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me [get]
func (s *Server) GetMyAccount(c *fiber.Ctx) error {
	user, err := s.profileService.GetAccount(c.Context(), s.identity(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(user)
}

// UpdateMyAccount handles PUT and PATCH /api/users/me. Omitted fields keep
// their stored value.
// @Summary Update the authenticated user's account
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{first_name=string,last_name=string,bio=string,profile_picture=string} true "Fields to update"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me [put]
func (s *Server) UpdateMyAccount(c *fiber.Ctx) error {
	var req struct {
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		Bio            string `json:"bio"`
		ProfilePicture string `json:"profile_picture"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, errInvalidBody())
	}

	user, err := s.profileService.UpdateAccount(c.Context(), service.UpdateAccountInput{
		Identity:       s.identity(c),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(user)
}
