package http

import (
	"log/slog"
	"net/http"

	"kamaru/internal/transport/http/dto"
	"kamaru/internal/transport/http/dto/request"
	"kamaru/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// Register godoc
// @Summary Register a user
// @Description Creates an account. Only an admin bearer may set is_admin.
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.UserRegisterInput true "Account data"
// @Success 201 {object} response.Response{data=models.User}
// @Failure 400 {object} response.ErrorResponse "Invalid input"
// @Failure 401 {object} response.ErrorResponse "Invalid bearer token"
// @Failure 403 {object} response.ErrorResponse "Admin required for is_admin"
// @Failure 409 {object} response.ErrorResponse "Email or username taken"
// @Router /api/users/register [post]
func (r *Routers) Register(c echo.Context) error {
	const op = "http.routers.Register"

	log := r.log.With(slog.String("op", op))

	caller, err := r.gate.Optional(c.Request().Context(), bearerToken(c))
	if err != nil {
		return r.fail(c, log, err)
	}

	var req dto.UserRegisterInput
	if err := bind(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	user, err := r.User.Register(c.Request().Context(), req, caller)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(user))
}

// Login godoc
// @Summary Log in
// @Description Exchanges email and password for an access and refresh token.
// @Tags users
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Credentials"
// @Success 200 {object} response.Response{data=dto.LoginResponse}
// @Failure 400 {object} response.ErrorResponse "Invalid input"
// @Failure 401 {object} response.ErrorResponse "Invalid email or password"
// @Failure 429 {object} response.ErrorResponse "Too many attempts"
// @Router /api/users/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(slog.String("op", op))

	var req request.LoginRequest
	if err := bind(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	if err := c.Validate(req); err != nil {
		return r.fail(c, log, err)
	}

	pair, user, err := r.User.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.NewLoginResponse(pair, user)))
}

// Refresh godoc
// @Summary Rotate tokens
// @Description Exchanges a refresh token for a new pair. Each refresh token works once.
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} response.Response{data=models.TokenPair}
// @Failure 401 {object} response.ErrorResponse "Invalid refresh token"
// @Router /api/users/refresh [post]
func (r *Routers) Refresh(c echo.Context) error {
	const op = "http.routers.Refresh"

	log := r.log.With(slog.String("op", op))

	var req dto.RefreshTokenRequest
	if err := bind(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	if err := c.Validate(req); err != nil {
		return r.fail(c, log, err)
	}

	pair, err := r.User.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(pair))
}

// Logout godoc
// @Summary Log out
// @Description Revokes a refresh token.
// @Tags users
// @Accept json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 204
// @Failure 401 {object} response.ErrorResponse "Invalid refresh token"
// @Router /api/users/logout [post]
func (r *Routers) Logout(c echo.Context) error {
	const op = "http.routers.Logout"

	log := r.log.With(slog.String("op", op))

	var req dto.RefreshTokenRequest
	if err := bind(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	if err := c.Validate(req); err != nil {
		return r.fail(c, log, err)
	}

	if err := r.User.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ForgotPassword godoc
// @Summary Request a password reset code
// @Description Mails a short reset code. The answer is the same whether or not the email is registered.
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Email"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Invalid email"
// @Failure 502 {object} response.ErrorResponse "Email could not be delivered"
// @Router /api/users/forgot_password [post]
func (r *Routers) ForgotPassword(c echo.Context) error {
	const op = "http.routers.ForgotPassword"

	log := r.log.With(slog.String("op", op))

	var req dto.ForgotPasswordRequest
	if err := bind(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	if err := r.User.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.MessageResponse("if the email is registered, a reset code has been sent"))
}

// ResetPassword godoc
// @Summary Reset the password
// @Description Sets a new password using the code from the reset email.
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Code and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Invalid input"
// @Failure 404 {object} response.ErrorResponse "Unknown code"
// @Failure 410 {object} response.ErrorResponse "Expired code"
// @Router /api/users/reset_password [post]
func (r *Routers) ResetPassword(c echo.Context) error {
	const op = "http.routers.ResetPassword"

	log := r.log.With(slog.String("op", op))

	var req dto.ResetPasswordRequest
	if err := bind(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	if err := r.User.ResetPassword(c.Request().Context(), req.ShortToken, req.NewPassword); err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.MessageResponse("password updated"))
}

// Profile godoc
// @Summary Current user
// @Tags users
// @Produce json
// @Success 200 {object} response.Response{data=models.User}
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Security BearerAuth
// @Router /api/users/profile [get]
func (r *Routers) Profile(c echo.Context) error {
	const op = "http.routers.Profile"

	log := r.log.With(slog.String("op", op))

	identity, err := r.requireUser(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	user, err := r.User.GetUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(user))
}

// ListUsers godoc
// @Summary List users
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response{data=[]models.User}
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 403 {object} response.ErrorResponse "Admin required"
// @Security BearerAuth
// @Router /api/users/admin/users [get]
func (r *Routers) ListUsers(c echo.Context) error {
	const op = "http.routers.ListUsers"

	log := r.log.With(slog.String("op", op))

	if _, err := r.requireAdmin(c); err != nil {
		return r.fail(c, log, err)
	}

	users, err := r.User.ListUsers(c.Request().Context())
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(users))
}

// GetUser godoc
// @Summary Get a user
// @Tags admin
// @Produce json
// @Param id path string true "User ID" format(uuid)
// @Success 200 {object} response.Response{data=models.User}
// @Failure 403 {object} response.ErrorResponse "Admin required"
// @Failure 404 {object} response.ErrorResponse "User not found"
// @Security BearerAuth
// @Router /api/users/admin/users/{id} [get]
func (r *Routers) GetUser(c echo.Context) error {
	const op = "http.routers.GetUser"

	log := r.log.With(slog.String("op", op))

	if _, err := r.requireAdmin(c); err != nil {
		return r.fail(c, log, err)
	}

	id, err := paramID(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	user, err := r.User.GetUser(c.Request().Context(), id)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(user))
}

// CreateUser godoc
// @Summary Create a user
// @Description Admin variant of register, may create admins.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.UserRegisterInput true "Account data"
// @Success 201 {object} response.Response{data=models.User}
// @Failure 403 {object} response.ErrorResponse "Admin required"
// @Failure 409 {object} response.ErrorResponse "Email or username taken"
// @Security BearerAuth
// @Router /api/users/admin/users [post]
func (r *Routers) CreateUser(c echo.Context) error {
	const op = "http.routers.CreateUser"

	log := r.log.With(slog.String("op", op))

	admin, err := r.requireAdmin(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	var req dto.UserRegisterInput
	if err := bind(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	user, err := r.User.Register(c.Request().Context(), req, &admin)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(user))
}

// UpdateUser godoc
// @Summary Update a user
// @Description Partial update, omitted fields keep their value.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID" format(uuid)
// @Param request body dto.UserUpdateInput true "Fields to change"
// @Success 200 {object} response.Response{data=models.User}
// @Failure 403 {object} response.ErrorResponse "Admin required"
// @Failure 404 {object} response.ErrorResponse "User not found"
// @Failure 409 {object} response.ErrorResponse "Email or username taken"
// @Security BearerAuth
// @Router /api/users/admin/users/{id} [put]
func (r *Routers) UpdateUser(c echo.Context) error {
	const op = "http.routers.UpdateUser"

	log := r.log.With(slog.String("op", op))

	if _, err := r.requireAdmin(c); err != nil {
		return r.fail(c, log, err)
	}

	id, err := paramID(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	var req dto.UserUpdateInput
	if err := bind(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	user, err := r.User.UpdateUser(c.Request().Context(), id, req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(user))
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags admin
// @Param id path string true "User ID" format(uuid)
// @Success 204
// @Failure 403 {object} response.ErrorResponse "Admin required"
// @Failure 404 {object} response.ErrorResponse "User not found"
// @Security BearerAuth
// @Router /api/users/admin/users/{id} [delete]
func (r *Routers) DeleteUser(c echo.Context) error {
	const op = "http.routers.DeleteUser"

	log := r.log.With(slog.String("op", op))

	if _, err := r.requireAdmin(c); err != nil {
		return r.fail(c, log, err)
	}

	id, err := paramID(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	if err := r.User.DeleteUser(c.Request().Context(), id); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}
