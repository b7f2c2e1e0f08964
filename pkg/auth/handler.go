package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"time"

	"github.com/finbook/finbook/internal/rest"
	"github.com/finbook/finbook/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

type UserDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
}

type registerDTO struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionDTO struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering new user")
	var dto registerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := mail.ParseAddress(dto.Email); err != nil {
		rest.Error(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if len(dto.Password) < 8 {
		rest.Error(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}
	if dto.FirstName == "" || dto.LastName == "" {
		rest.Error(w, http.StatusBadRequest, "First and last name are required")
		return
	}

	u, token, err := h.service.Register(r.Context(), dto.Email, dto.Password, dto.FirstName, dto.LastName)
	if errors.Is(err, user.ErrEmailTaken) {
		rest.Error(w, http.StatusConflict, "User already exists")
		return
	}
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(sessionDTO{User: userToDTO(u), Token: token}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto loginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if dto.Email == "" || dto.Password == "" {
		rest.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	u, token, err := h.service.Login(r.Context(), dto.Email, dto.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		rest.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sessionDTO{User: userToDTO(u), Token: token}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var dto struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if dto.Email == "" {
		rest.Error(w, http.StatusBadRequest, "Email is required")
		return
	}

	token, err := h.service.RequestPasswordReset(r.Context(), dto.Email)
	if errors.Is(err, user.ErrUserNotFound) {
		rest.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	// The token is returned directly; there is no mail delivery in this system.
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"resetToken": token}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var dto struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if dto.Token == "" || len(dto.Password) < 8 {
		rest.Error(w, http.StatusBadRequest, "Token and a password of at least 8 characters are required")
		return
	}

	err := h.service.ResetPassword(r.Context(), dto.Token, dto.Password)
	if errors.Is(err, ErrInvalidResetToken) {
		rest.Error(w, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"message": "Password has been reset"}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Profile(r.Context())
	if errors.Is(err, user.ErrUserNotFound) {
		rest.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(userToDTO(u)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var dto struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if dto.FirstName == "" || dto.LastName == "" {
		rest.Error(w, http.StatusBadRequest, "First and last name are required")
		return
	}

	u, err := h.service.UpdateProfile(r.Context(), dto.FirstName, dto.LastName)
	if errors.Is(err, user.ErrUserNotFound) {
		rest.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(userToDTO(u)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func userToDTO(u user.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}
