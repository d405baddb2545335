package web

import (
	"net/http"

	"go.uber.org/zap"

	"balift/internal/auth"
)

func (h *Handler) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessions.Current(r); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.render(w, "login.html", pageData{})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	u, err := h.users.Authenticate(r.Context(), username, password)
	if err != nil {
		h.render(w, "login.html", pageData{Error: err.Error()})
		return
	}
	if err := h.sessions.SignIn(w, r, u); err != nil {
		h.log.Error("saving session", zap.Error(err))
		h.render(w, "login.html", pageData{Error: "could not establish session"})
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(w, r); err != nil {
		h.log.Error("clearing session", zap.Error(err))
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handler) handleChangePasswordForm(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())
	h.render(w, "change_password.html", pageData{Principal: p})
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())
	data := pageData{Principal: p}

	current := r.FormValue("current_password")
	newPw := r.FormValue("new_password")
	confirm := r.FormValue("confirm_password")

	if newPw != confirm {
		data.Error = "new passwords do not match"
		h.render(w, "change_password.html", data)
		return
	}

	if err := h.users.ChangePassword(r.Context(), p.UserID, current, newPw); err != nil {
		data.Error = err.Error()
		h.render(w, "change_password.html", data)
		return
	}

	data.Success = "password changed"
	h.render(w, "change_password.html", data)
}

func (h *Handler) handleAddUserForm(w http.ResponseWriter, r *http.Request) {
	h.renderAddUser(w, r, pageData{})
}

func (h *Handler) handleAddUser(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	isAdmin := r.FormValue("is_admin") == "on" || r.FormValue("is_admin") == "true"

	data := pageData{}
	if username == "" {
		data.Error = "username is required"
	} else if _, err := h.users.Register(r.Context(), username, password, isAdmin); err != nil {
		data.Error = err.Error()
	} else {
		data.Success = "user " + username + " created"
	}
	h.renderAddUser(w, r, data)
}

// renderAddUser fills in the account listing shown under the form.
func (h *Handler) renderAddUser(w http.ResponseWriter, r *http.Request, data pageData) {
	p, _ := auth.PrincipalFromContext(r.Context())
	data.Principal = p

	users, err := h.users.Users(r.Context())
	if err != nil {
		h.log.Error("listing users", zap.Error(err))
	} else {
		data.Users = users
	}
	h.render(w, "admin_users.html", data)
}
