package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"mytube/domain/dto"
	"mytube/domain/model"
	"mytube/infrastructure/configuration"
)

const (
	// ClientIDHeader carries the anonymous client handle. Signed-in clients
	// are keyed by the token subject instead.
	ClientIDHeader = "X-Client-Id"

	ContextUserID      = "user_id"
	ContextClientID    = "client_id"
	ContextAccessToken = "access_token"
)

// Auth validates the bearer token when one is present. Anonymous requests
// pass through; a token that fails validation is rejected outright.
func Auth() gin.HandlerFunc {
	var res dto.Res
	res.ResponseCode = "401"
	res.ResponseMessage = "Unauthorized"

	return func(ctx *gin.Context) {
		authorization := ctx.Request.Header.Get("Authorization")
		if authorization == "" {
			ctx.Next()
			return
		}
		auth := strings.Split(authorization, "Bearer ")
		if len(auth) != 2 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}
		userClaims, token, err := getClaim(auth[1], configuration.C.Supabase.JWTSecret)
		if token == nil || !token.Valid {
			abort(err, &res)
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}
		ctx.Set(ContextUserID, userClaims.Subject)
		ctx.Set(ContextAccessToken, auth[1])
		ctx.Next()
	}
}

// ClientID resolves the state key for the request: the token subject when
// signed in, the X-Client-Id header otherwise. First-time anonymous visitors
// get a fresh handle echoed back in the response header.
func ClientID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if userID := ctx.GetString(ContextUserID); userID != "" {
			ctx.Set(ContextClientID, userID)
			ctx.Next()
			return
		}
		clientID := ctx.Request.Header.Get(ClientIDHeader)
		if clientID == "" {
			clientID = uuid.NewString()
		}
		ctx.Header(ClientIDHeader, clientID)
		ctx.Set(ContextClientID, clientID)
		ctx.Next()
	}
}

func abort(err error, res *dto.Res) {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		if ve.Errors&jwt.ValidationErrorMalformed != 0 {
			res.ResponseMessage = "That's not even a token"
		} else if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
			// Token is either expired or not active yet
			res.ResponseMessage = "Timing is everything"
		} else {
			res.ResponseMessage = fmt.Sprintf("Couldn't handle this token:%v", err)
		}
	}
}

func getClaim(tokenString, secretKey string) (model.UserClaims, *jwt.Token, error) {
	var userClaims model.UserClaims
	token, err := jwt.ParseWithClaims(
		tokenString,
		&userClaims,
		func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		},
	)
	return userClaims, token, err
}
