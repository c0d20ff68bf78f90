// Copyright (C) 2025 Mono Technologies Inc.
//
// This program is free software; you can redistribute it and/or
// modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.

package bridge

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrUnauthorized is returned when a request does not carry the configured
// bridge credential.
var ErrUnauthorized = errors.New("unauthorized")

// Credential is the single basic-auth credential the bridge accepts.
// It is checked by the bridge only and never forwarded to the store.
type Credential struct {
	Username string
	Password string
}

// Validate compares a presented credential in constant time.
func (c Credential) Validate(username, password string, ok bool) error {
	if !ok {
		return ErrUnauthorized
	}
	userMatch := subtle.ConstantTimeCompare([]byte(c.Username), []byte(username))
	passMatch := subtle.ConstantTimeCompare([]byte(c.Password), []byte(password))
	if userMatch&passMatch != 1 {
		return ErrUnauthorized
	}
	return nil
}

// requireCredential rejects requests whose Authorization header does not
// match cred.
func requireCredential(cred Credential) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if err := cred.Validate(user, pass, ok); err != nil {
			c.Header("WWW-Authenticate", `Basic realm="hashbridge"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
			return
		}
		c.Next()
	}
}
