package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"mytube/domain/dto"
	"mytube/infrastructure/logger"
	"mytube/interfaces/middleware"
	"mytube/usecase"
)

const (
	ErrorUnmarshal = "Error while unmarshal"
)

type IAuthHandler interface {
	SignUp(c *gin.Context)
	SignIn(c *gin.Context)
	SignOut(c *gin.Context)
	Refresh(c *gin.Context)
}

type AuthHandler struct {
	registry *usecase.Registry
}

func NewAuthHandler(registry *usecase.Registry) IAuthHandler {
	return &AuthHandler{registry: registry}
}

func (authHandler *AuthHandler) SignUp(c *gin.Context) {
	var req dto.ReqSignUp

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, fmt.Sprintf("%s %v", ErrorUnmarshal, err.Error()))
		return
	}

	app := resolveApp(c, authHandler.registry)
	session, err := app.Session.SignUp(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		abortAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Res{
		ResponseCode:    "200",
		ResponseMessage: "OK",
		Data:            dto.ResAuth{Session: session, Profile: app.Session.CurrentProfile()},
	})
}

func (authHandler *AuthHandler) SignIn(c *gin.Context) {
	var req dto.ReqSignIn

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, fmt.Sprintf("%s %v", ErrorUnmarshal, err.Error()))
		return
	}

	app := resolveApp(c, authHandler.registry)
	session, err := app.Session.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		abortAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Res{
		ResponseCode:    "200",
		ResponseMessage: "OK",
		Data:            dto.ResAuth{Session: session, Profile: app.Session.CurrentProfile()},
	})
}

func (authHandler *AuthHandler) SignOut(c *gin.Context) {
	app := resolveApp(c, authHandler.registry)
	if err := app.Session.SignOut(c.Request.Context()); err != nil {
		logger.GetLogger().WithField("error", err).Error("sign out failed")
		c.JSON(http.StatusBadGateway, dto.Res{ResponseCode: "502", ResponseMessage: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "OK"})
}

func (authHandler *AuthHandler) Refresh(c *gin.Context) {
	app := resolveApp(c, authHandler.registry)
	session, err := app.Session.Refresh(c.Request.Context())
	if err != nil {
		abortAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "OK", Data: session})
}

// abortAuthError maps identity-service failures onto responses. The upstream
// message is passed through untouched so the client can show it verbatim.
func abortAuthError(c *gin.Context, err error) {
	if errors.Is(err, usecase.ErrAuthInFlight) {
		c.JSON(http.StatusConflict, dto.Res{ResponseCode: "409", ResponseMessage: err.Error()})
		return
	}
	c.JSON(http.StatusUnauthorized, dto.Res{ResponseCode: "401", ResponseMessage: err.Error()})
}

func resolveApp(c *gin.Context, registry *usecase.Registry) *usecase.App {
	clientID := c.GetString(middleware.ContextClientID)
	accessToken := c.GetString(middleware.ContextAccessToken)
	return registry.Resolve(c.Request.Context(), clientID, accessToken)
}
