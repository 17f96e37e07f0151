package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Bhavyabhvy/SpendIQ/internal/services"
	"github.com/Bhavyabhvy/SpendIQ/internal/storage"
)

type authPage struct {
	Error string
	Name  string
	Email string
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "login.html", authPage{})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		email := sanitizeInput(r.Form.Get("email"))
		password := r.Form.Get("password")

		token, _, err := s.users.Login(r.Context(), email, password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				w.WriteHeader(http.StatusUnauthorized)
				s.render(w, r, "login.html", authPage{Error: "Invalid email or password", Email: email})
				return
			}
			slog.ErrorContext(r.Context(), "Login failed", "error", err)
			http.Error(w, "login failed", http.StatusInternalServerError)
			return
		}

		s.setSessionCookie(w, token, s.sessionTTL)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "register.html", authPage{})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		name := sanitizeInput(r.Form.Get("name"))
		email := sanitizeInput(r.Form.Get("email"))
		password := r.Form.Get("password")

		_, err := s.users.Register(r.Context(), name, email, password)
		if err != nil {
			if errors.Is(err, storage.ErrEmailTaken) {
				w.WriteHeader(http.StatusConflict)
				s.render(w, r, "register.html", authPage{Error: "Email already registered", Name: name})
				return
			}
			w.WriteHeader(http.StatusUnprocessableEntity)
			s.render(w, r, "register.html", authPage{Error: err.Error(), Name: name, Email: email})
			return
		}

		http.Redirect(w, r, "/login", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if err := s.users.Logout(r.Context(), cookie.Value); err != nil {
			slog.ErrorContext(r.Context(), "Logout failed", "error", err)
		}
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
