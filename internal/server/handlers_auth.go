package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Kush-Varshney/NexTrade-Platform/internal/common"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/models"
)

const bcryptCost = 10

// --- JWT helpers ---

// signJWT creates a signed HMAC-SHA256 JWT for the given user.
func signJWT(user *models.User, config *common.AuthConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.UserID,
		"email": user.Email,
		"name":  user.Name,
		"iss":   "nextrade-server",
		"iat":   now.Unix(),
		"exp":   now.Add(config.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

// validateJWT parses and validates a JWT token string using the given secret.
func validateJWT(tokenString string, secret []byte) (*jwt.Token, jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return token, claims, nil
}

// userResponse is the user payload returned by auth endpoints. The wallet
// balance is resolved from the ledger engine, never stored on the user.
func (s *Server) userResponse(r *http.Request, user *models.User) map[string]interface{} {
	resp := map[string]interface{}{
		"id":         user.UserID,
		"name":       user.Name,
		"email":      user.Email,
		"pan_number": user.PANNumber,
		"kyc_status": user.KYCStatus,
	}
	if wallet, err := s.app.LedgerEngine.GetWallet(r.Context(), user.UserID); err == nil {
		resp["wallet_balance"] = wallet.Balance
	}
	if !user.LastLogin.IsZero() {
		resp["last_login"] = user.LastLogin
	}
	return resp
}

// handleAuthRegister handles POST /api/auth/register.
func (s *Server) handleAuthRegister(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		PANNumber string `json:"pan_number"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.PANNumber = strings.ToUpper(strings.TrimSpace(req.PANNumber))

	if len(req.Name) < 2 || len(req.Name) > 50 {
		WriteError(w, http.StatusBadRequest, "Name must be between 2 and 50 characters")
		return
	}
	if !strings.Contains(req.Email, "@") {
		WriteError(w, http.StatusBadRequest, "Please enter a valid email")
		return
	}
	if len(req.Password) < 6 {
		WriteError(w, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}
	if !models.ValidPANNumber(req.PANNumber) {
		WriteError(w, http.StatusBadRequest, "Please enter a valid PAN number (e.g., ABCDE1234F)")
		return
	}

	ctx := r.Context()
	users := s.app.Storage.UserStore()

	if _, err := users.GetUserByEmail(ctx, req.Email); err == nil {
		WriteError(w, http.StatusBadRequest, "User with this email already exists")
		return
	}
	if _, err := users.GetUserByPAN(ctx, req.PANNumber); err == nil {
		WriteError(w, http.StatusBadRequest, "User with this PAN number already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to process password")
		return
	}

	user := &models.User{
		UserID:       uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		PANNumber:    req.PANNumber,
		KYCStatus:    models.KYCStatusPending,
		IsActive:     true,
		LastLogin:    time.Now().UTC(),
	}
	if err := users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			WriteError(w, http.StatusBadRequest, "User with this email or PAN number already exists")
			return
		}
		if errors.Is(err, models.ErrConflict) {
			WriteError(w, http.StatusConflict, "Registration conflicted with another request, please retry")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	if _, err := s.app.LedgerEngine.CreateWallet(ctx, user.UserID); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.UserID).Msg("Failed to create wallet")
		WriteError(w, http.StatusInternalServerError, "Failed to create wallet")
		return
	}

	token, err := signJWT(user, &s.app.Config.Auth)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	s.logger.Info().Str("user_id", user.UserID).Str("email", user.Email).Msg("User registered")
	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"token":   token,
		"user":    s.userResponse(r, user),
	})
}

// handleAuthLogin handles POST /api/auth/login.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx := r.Context()
	user, err := s.app.Storage.UserStore().GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to look up user")
		return
	}

	if !user.IsActive {
		WriteError(w, http.StatusUnauthorized, "Account is deactivated. Please contact support.")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := signJWT(user, &s.app.Config.Auth)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	user.LastLogin = time.Now().UTC()
	if err := s.app.Storage.UserStore().SaveUser(ctx, user); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.UserID).Msg("Failed to update last login")
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"user":    s.userResponse(r, user),
	})
}

// handleAuthProfile handles GET and PUT /api/auth/profile.
func (s *Server) handleAuthProfile(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPut) {
		return
	}
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	ctx := r.Context()
	user, err := s.app.Storage.UserStore().GetUser(ctx, userID)
	if err != nil {
		WriteError(w, http.StatusNotFound, "User not found")
		return
	}

	if r.Method == http.MethodPut {
		var req struct {
			Name string `json:"name"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name != "" {
			if len(req.Name) < 2 || len(req.Name) > 50 {
				WriteError(w, http.StatusBadRequest, "Name must be between 2 and 50 characters")
				return
			}
			user.Name = req.Name
			if err := s.app.Storage.UserStore().SaveUser(ctx, user); err != nil {
				WriteError(w, http.StatusInternalServerError, "Failed to update profile")
				return
			}
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Profile updated successfully",
			"user":    s.userResponse(r, user),
		})
		return
	}

	resp := s.userResponse(r, user)
	resp["created_at"] = user.CreatedAt
	WriteJSON(w, http.StatusOK, map[string]interface{}{"user": resp})
}

// handleAuthVerifyToken handles POST /api/auth/verify-token.
func (s *Server) handleAuthVerifyToken(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	user, err := s.app.Storage.UserStore().GetUser(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "User not found")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Token is valid",
		"user":    s.userResponse(r, user),
	})
}
