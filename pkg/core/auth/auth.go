/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package auth issues and verifies operator bearer tokens.
package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/carverauto/fleetradar/pkg/logger"
	"github.com/carverauto/fleetradar/pkg/models"
)

// dummyHash is compared against when the username is unknown so both
// branches cost one bcrypt comparison.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3ZmxVqVPvGq9n5RbbXy5Qy."

type Auth struct {
	config *models.AuthConfig
	now    func() time.Time
	logger logger.Logger
}

var _ AuthService = (*Auth)(nil)

func NewAuth(config *models.AuthConfig, log logger.Logger) (*Auth, error) {
	if config == nil || config.JWTSecret == "" {
		return nil, ErrSecretRequired
	}

	return &Auth{config: config, now: time.Now, logger: log}, nil
}

func (a *Auth) LoginLocal(_ context.Context, username, password string) (*models.Token, error) {
	storedHash, ok := a.config.LocalUsers[username]
	if !ok {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))

		a.logger.Warn().Str("username", username).Msg("Login attempt for unknown user")

		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)); err != nil {
		a.logger.Warn().Str("username", username).Msg("Login attempt with wrong password")

		return nil, ErrInvalidCredentials
	}

	expiration := time.Duration(a.config.JWTExpiration)
	if expiration <= 0 {
		expiration = time.Duration(models.DefaultJWTExpiration)
	}

	access, expiresAt, err := GenerateJWT(username, a.config.JWTSecret, a.now(), expiration)
	if err != nil {
		return nil, err
	}

	a.logger.Info().Str("username", username).Time("expires_at", expiresAt).Msg("Issued access token")

	return &models.Token{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt.UTC(),
	}, nil
}

func (a *Auth) VerifyToken(_ context.Context, token string) (*models.User, error) {
	claims, err := ParseJWT(token, a.config.JWTSecret)
	if err != nil {
		return nil, err
	}

	return &models.User{Username: claims.Subject}, nil
}
