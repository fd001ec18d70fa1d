package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Tentennnn/anachaktopup/internal/auth"
	"github.com/Tentennnn/anachaktopup/internal/catalog"
	"github.com/Tentennnn/anachaktopup/internal/settings"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

type AdminHandler struct {
	Guard        *auth.Guard
	Catalog      *catalog.Repository
	Settings     *settings.Store
	SessionStore *sessions.CookieStore
	Templates    *TemplateCache
	UploadDir    string
}

func (h *AdminHandler) LoginGet(w http.ResponseWriter, r *http.Request) {
	tmpl := h.Templates.Get("login.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "admin-session")
	data := map[string]interface{}{
		"Settings":  h.Settings.Load(),
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *AdminHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "admin-session")

	password := r.FormValue("password")

	if err := h.Guard.AttemptLogin(password); err != nil {
		message := "Incorrect password. Please try again."
		if errors.Is(err, auth.ErrNotConfigured) {
			message = "Admin password is not set in configuration. Please contact an administrator."
		}
		session.AddFlash(FlashMessage{Type: "error", Message: message})
		session.Save(r, w) // Save before redirect
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	// Set authenticated session
	session.Values["authenticated"] = true
	session.Options.Path = "/" // Ensure the cookie is valid for all paths
	session.AddFlash(FlashMessage{Type: "success", Message: "Welcome back!"})

	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	slog.Info("Admin login successful, redirecting to /admin")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Guard.Logout()
	session, _ := h.SessionStore.Get(r, "admin-session")
	session.Values["authenticated"] = false
	session.Options.MaxAge = -1 // Expire immediately
	session.Save(r, w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// AuthMiddleware ensures the user is logged in
func (h *AdminHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := h.SessionStore.Get(r, "admin-session")
		if authed, ok := session.Values["authenticated"].(bool); !ok || !authed {
			slog.Info("AuthMiddleware: User not authenticated, redirecting to /login", "path", r.URL.Path)
			session.AddFlash(FlashMessage{Type: "error", Message: "You must be logged in to access this page."})
			session.Save(r, w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// Dashboard shows the item tables, the settings form, and the kill switch.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	tmpl := h.Templates.Get("admin.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "admin-session")
	data := map[string]interface{}{
		"Settings":      h.Settings.Load(),
		"Ranks":         h.Catalog.Ranks(),
		"Coins":         h.Catalog.Coins(),
		"StoreDisabled": h.Settings.StoreDisabled(),
		"CsrfField":     csrf.TemplateField(r),
		"Flashes":       GetFlash(session),
	}
	session.Save(r, w) // Save session to clear flashes
	tmpl.Execute(w, data)
}

// SaveSettings merges the posted site settings and persists them.
func (h *AdminHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "admin-session")
	defer session.Save(r, w)

	if err := r.ParseForm(); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid form data."})
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	update := settings.Update{}
	if r.Form.Has("display_name") {
		v := r.FormValue("display_name")
		update.DisplayName = &v
	}
	if r.Form.Has("connect_address") {
		v := r.FormValue("connect_address")
		update.ConnectAddress = &v
	}
	if r.Form.Has("description") {
		v := r.FormValue("description")
		update.Description = &v
	}
	if r.Form.Has("theme_color") {
		v := r.FormValue("theme_color")
		update.ThemeColor = &v
	}
	h.Settings.Save(update)

	session.AddFlash(FlashMessage{Type: "success", Message: "Settings saved."})
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// ToggleStore flips the store-disabled kill switch.
func (h *AdminHandler) ToggleStore(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "admin-session")
	defer session.Save(r, w)

	disabled := !h.Settings.StoreDisabled()
	h.Settings.SetStoreDisabled(disabled)

	message := "Store enabled."
	if disabled {
		message = "Store disabled. Buyers can no longer submit purchases."
	}
	session.AddFlash(FlashMessage{Type: "success", Message: message})
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
