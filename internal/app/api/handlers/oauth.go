package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/dasgroupllc/archivebase/internal/platform/airtable"
	"github.com/dasgroupllc/archivebase/pkg/logctx"
	"github.com/dasgroupllc/archivebase/pkg/response"
)

// @Summary      Connect to Airtable
// @Description  Starts the OAuth authorization-code + PKCE flow by redirecting to Airtable's consent page.
// @Tags         Auth
// @Success      302
// @Router       /api/auth/connect [get]
func ApiAuthConnect(oauth *airtable.OAuth) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Redirect(http.StatusFound, oauth.AuthorizationURL())
	}
}

type tokenResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// @Summary      OAuth callback
// @Description  Exchanges the authorization code for tokens. The state token is single-use and expires after ten minutes.
// @Tags         Auth
// @Produce      json
// @Param        code  query string false "Authorization code"
// @Param        state query string false "CSRF state"
// @Success      200  {object}  response.APIResponse[tokenResp]
// @Failure      400  {object}  response.APIResponse[any]
// @Router       /api/auth/callback [get]
func ApiAuthCallback(oauth *airtable.OAuth) gin.HandlerFunc {
	return func(c *gin.Context) {
		if errParam := c.Query("error"); errParam != "" {
			c.JSON(http.StatusBadRequest, response.Err(errParam))
			return
		}
		code := c.Query("code")
		state := c.Query("state")
		if code == "" || state == "" {
			c.JSON(http.StatusBadRequest, response.Err("missing_code_or_state"))
			return
		}

		token, err := oauth.Exchange(c.Request.Context(), code, state)
		if err != nil {
			if errors.Is(err, airtable.ErrInvalidState) {
				c.JSON(http.StatusBadRequest, response.Err("invalid_or_expired_state: the OAuth session expired or the state token is invalid, please try connecting again"))
				return
			}
			var retrieveErr *oauth2.RetrieveError
			if errors.As(err, &retrieveErr) {
				logctx.FromGin(c, zap.S()).Errorw("token_exchange_failed",
					"status", retrieveErr.Response.StatusCode, "body", string(retrieveErr.Body))
				c.JSON(http.StatusBadRequest, response.ErrT("token_exchange_failed",
					map[string]any{"status": retrieveErr.Response.StatusCode, "details": string(retrieveErr.Body)}))
				return
			}
			internalError(c, err)
			return
		}

		scope, _ := token.Extra("scope").(string)
		c.JSON(http.StatusOK, response.OKT(tokenResp{
			AccessToken:  token.AccessToken,
			RefreshToken: token.RefreshToken,
			ExpiresIn:    token.ExpiresIn,
			Scope:        scope,
		}))
	}
}
