package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"mytube/domain/dto"
	"mytube/domain/model"
	"mytube/infrastructure/logger"
	"mytube/infrastructure/realtime"
	"mytube/interfaces/middleware"
	"mytube/usecase"
)

type IAppHandler interface {
	State(c *gin.Context)
	Navigate(c *gin.Context)
	Search(c *gin.Context)
	SelectVideo(c *gin.Context)
	CloseVideo(c *gin.Context)
	Like(c *gin.Context)
	Dislike(c *gin.Context)
	ToggleWatchLater(c *gin.Context)
	Comments(c *gin.Context)
	PostComment(c *gin.Context)
	Stream(c *gin.Context)
}

type AppHandler struct {
	registry *usecase.Registry
	hub      *realtime.Hub
}

func NewAppHandler(registry *usecase.Registry, hub *realtime.Hub) IAppHandler {
	return &AppHandler{registry: registry, hub: hub}
}

// State returns the full snapshot the client renders from.
func (appHandler *AppHandler) State(c *gin.Context) {
	app := resolveApp(c, appHandler.registry)
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "OK", Data: app.Snapshot()})
}

func (appHandler *AppHandler) Navigate(c *gin.Context) {
	var req dto.ReqNavigate

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, fmt.Sprintf("%s %v", ErrorUnmarshal, err.Error()))
		return
	}

	view := model.View(req.View)
	if !view.Valid() {
		c.JSON(http.StatusBadRequest, dto.Res{ResponseCode: "400", ResponseMessage: "unknown view: " + req.View})
		return
	}

	app := resolveApp(c, appHandler.registry)
	app.View.Navigate(c.Request.Context(), view)
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "OK", Data: app.Snapshot()})
}

func (appHandler *AppHandler) Search(c *gin.Context) {
	var req dto.ReqSearch

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, fmt.Sprintf("%s %v", ErrorUnmarshal, err.Error()))
		return
	}

	app := resolveApp(c, appHandler.registry)
	app.View.Search(c.Request.Context(), req.Query)
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "OK", Data: app.Snapshot()})
}

func (appHandler *AppHandler) SelectVideo(c *gin.Context) {
	var req dto.ReqSelectVideo

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, fmt.Sprintf("%s %v", ErrorUnmarshal, err.Error()))
		return
	}

	app := resolveApp(c, appHandler.registry)
	if err := app.View.Select(c.Request.Context(), req.VideoID); err != nil {
		c.JSON(http.StatusNotFound, dto.Res{ResponseCode: "404", ResponseMessage: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "OK", Data: app.Snapshot()})
}

func (appHandler *AppHandler) CloseVideo(c *gin.Context) {
	app := resolveApp(c, appHandler.registry)
	app.View.CloseVideo()
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "OK", Data: app.Snapshot()})
}

func (appHandler *AppHandler) Like(c *gin.Context) {
	app := resolveApp(c, appHandler.registry)
	app.Interactions.Like(c.Request.Context(), c.Param("videoId"))
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "OK", Data: app.Snapshot()})
}

func (appHandler *AppHandler) Dislike(c *gin.Context) {
	app := resolveApp(c, appHandler.registry)
	app.Interactions.Dislike(c.Request.Context(), c.Param("videoId"))
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "OK", Data: app.Snapshot()})
}

func (appHandler *AppHandler) ToggleWatchLater(c *gin.Context) {
	videoID := c.Param("videoId")
	app := resolveApp(c, appHandler.registry)

	video, ok := app.Catalog.Find(videoID)
	if !ok {
		video, ok = app.Interactions.FindInLists(videoID)
	}
	if !ok {
		c.JSON(http.StatusNotFound, dto.Res{ResponseCode: "404", ResponseMessage: usecase.ErrVideoNotFound.Error()})
		return
	}

	if err := app.Interactions.ToggleWatchLater(c.Request.Context(), video); err != nil {
		if errors.Is(err, usecase.ErrSignInRequired) {
			c.JSON(http.StatusUnauthorized, dto.Res{ResponseCode: "401", ResponseMessage: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "OK", Data: app.Snapshot()})
}

func (appHandler *AppHandler) Comments(c *gin.Context) {
	app := resolveApp(c, appHandler.registry)
	comments := app.Interactions.Comments(c.Param("videoId"))
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "OK", Data: comments})
}

func (appHandler *AppHandler) PostComment(c *gin.Context) {
	var req dto.ReqComment

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, fmt.Sprintf("%s %v", ErrorUnmarshal, err.Error()))
		return
	}

	app := resolveApp(c, appHandler.registry)
	comment := app.Interactions.PostComment(c.Param("videoId"), req.Text)
	if comment == nil {
		// Whitespace-only submissions are dropped without complaint.
		c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "OK"})
		return
	}
	c.JSON(http.StatusCreated, dto.Res{ResponseCode: "201", ResponseMessage: "Created", Data: comment})
}

// Stream serves the per-client session-event feed over SSE.
func (appHandler *AppHandler) Stream(c *gin.Context) {
	resolveApp(c, appHandler.registry)
	appHandler.hub.Serve(c, c.GetString(middleware.ContextClientID))
}
