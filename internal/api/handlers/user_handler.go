package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fintrack/fintrack-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       *int   `json:"age"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GetAll handles the request to list all users. The password hash is never
// part of the response.
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAllUsers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve users")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}

	type userListing struct {
		FirstName      string  `json:"first_name"`
		LastName       string  `json:"last_name"`
		Age            *int    `json:"age"`
		AccountBalance float64 `json:"account_balance"`
		Email          string  `json:"email"`
	}
	listing := make([]userListing, 0, len(users))
	for _, u := range users {
		listing = append(listing, userListing{
			FirstName:      u.FirstName,
			LastName:       u.LastName,
			Age:            u.Age,
			AccountBalance: u.AccountBalance,
			Email:          u.Email,
		})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"Users": listing})
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil ||
		payload.Email == "" || payload.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and Password are required")
		return
	}

	_, err := h.service.RegisterUser(r.Context(), payload.FirstName, payload.LastName,
		payload.Age, payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrDuplicate) {
			respondError(w, http.StatusConflict, "User already exists")
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		respondError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"message": "Registration was successful!"})
}

// Login handles a stateless credential check. No token or session is
// issued.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil ||
		payload.Email == "" || payload.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and Password are required")
		return
	}

	user, err := h.service.AuthenticateUser(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
			respondError(w, http.StatusUnauthorized, "Wrong email or password")
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to authenticate user")
		respondError(w, http.StatusInternalServerError, "Failed to authenticate user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Welcome " + user.FirstName})
}
