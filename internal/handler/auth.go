package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taperia-pos/api/internal/auth"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles the clerk PIN login. There is a single clerk; the
// PIN's bcrypt hash comes from configuration.
type AuthHandler struct {
	pinHash   string
	jwtSecret string
}

func NewAuthHandler(pinHash, jwtSecret string) *AuthHandler {
	return &AuthHandler{pinHash: pinHash, jwtSecret: jwtSecret}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
}

type loginRequest struct {
	Pin    string `json:"pin"`
	Device string `json:"device"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Login checks the clerk PIN and issues a bearer token for the device.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Pin == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pin is required"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.pinHash), []byte(req.Pin)); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	device := req.Device
	if device == "" {
		device = "register"
	}

	token, err := auth.GenerateToken(h.jwtSecret, device)
	if err != nil {
		log.Printf("ERROR: generate token: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token})
}
