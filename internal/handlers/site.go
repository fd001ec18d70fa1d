package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Tentennnn/anachaktopup/internal/catalog"
	"github.com/Tentennnn/anachaktopup/internal/ledger"
	"github.com/Tentennnn/anachaktopup/internal/models"
	"github.com/Tentennnn/anachaktopup/internal/purchase"
	"github.com/Tentennnn/anachaktopup/internal/settings"
	"github.com/Tentennnn/anachaktopup/internal/status"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

// recentActivityCount is how many ledger records the home page shows.
const recentActivityCount = 3

type SiteHandler struct {
	Catalog      *catalog.Repository
	Settings     *settings.Store
	Ledger       *ledger.Ledger
	Status       *status.Client
	Pipeline     *purchase.Pipeline
	Configured   func() bool
	SessionStore *sessions.CookieStore
	Templates    *TemplateCache
}

// Home renders server info, status, and the recent activity feed.
func (h *SiteHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	site := h.Settings.Load()
	serverStatus := h.Status.Fetch(r.Context(), site.ConnectAddress)

	recent := h.Ledger.List(r.Context())
	if len(recent) > recentActivityCount {
		recent = recent[:recentActivityCount]
	}

	tmpl := h.Templates.Get("home.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "public-session")
	data := map[string]interface{}{
		"Settings": site,
		"Status":   serverStatus,
		"Recent":   recent,
		"Flashes":  GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// StorePage lists the catalog.
func (h *SiteHandler) StorePage(w http.ResponseWriter, r *http.Request) {
	tmpl := h.Templates.Get("store.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "public-session")
	data := map[string]interface{}{
		"Settings":   h.Settings.Load(),
		"Ranks":      h.Catalog.Ranks(),
		"Coins":      h.Catalog.Coins(),
		"Configured": h.Configured(),
		"Flashes":    GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// BuyForm renders the purchase application form for one item.
func (h *SiteHandler) BuyForm(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("item")
	kind := r.URL.Query().Get("kind")

	itemName, itemPrice, ok := h.lookupItem(name, kind)
	if !ok {
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	}

	tmpl := h.Templates.Get("buy.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "public-session")
	data := map[string]interface{}{
		"Settings":  h.Settings.Load(),
		"ItemName":  itemName,
		"ItemPrice": itemPrice,
		"Kind":      kind,
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// SubmitPurchase runs the submission pipeline for a posted application.
func (h *SiteHandler) SubmitPurchase(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "public-session")
	defer session.Save(r, w)

	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10MB
		session.AddFlash(FlashMessage{Type: "error", Message: "File too large. Max 10MB."})
		http.Redirect(w, r, r.Referer(), http.StatusSeeOther)
		return
	}

	name := r.FormValue("item")
	kind := r.FormValue("kind")
	itemName, itemPrice, ok := h.lookupItem(name, kind)
	if !ok {
		session.AddFlash(FlashMessage{Type: "error", Message: "Unknown item."})
		http.Redirect(w, r, "/store", http.StatusSeeOther)
		return
	}

	platform := purchase.PlatformJava
	if r.FormValue("platform") == string(purchase.PlatformBedrock) {
		platform = purchase.PlatformBedrock
	}

	sub := purchase.Submission{
		BuyerName:     r.FormValue("minecraft_username"),
		Platform:      platform,
		DiscordHandle: r.FormValue("discord_username"),
		ItemName:      itemName,
		ItemPrice:     itemPrice,
	}

	if file, header, err := r.FormFile("payment_proof"); err == nil {
		defer file.Close()
		proof, readErr := io.ReadAll(file)
		if readErr != nil {
			session.AddFlash(FlashMessage{Type: "error", Message: "Could not read the uploaded image."})
			http.Redirect(w, r, r.Referer(), http.StatusSeeOther)
			return
		}
		sub.Proof = proof
		sub.ProofFilename = header.Filename
	}

	if _, err := h.Pipeline.Submit(r.Context(), sub); err != nil {
		var subErr *purchase.SubmissionError
		switch {
		case errors.Is(err, purchase.ErrMissingFields):
			session.AddFlash(FlashMessage{Type: "error", Message: "Minecraft Username and Payment Proof are required."})
		case errors.Is(err, purchase.ErrNotConfigured):
			session.AddFlash(FlashMessage{Type: "error", Message: "Store is not configured correctly. Please contact an admin."})
		case errors.As(err, &subErr):
			slog.Error("Purchase submission failed", "item", itemName, "error", subErr.Err)
			session.AddFlash(FlashMessage{Type: "error", Message: "Failed to submit your purchase. Please try again."})
		default:
			session.AddFlash(FlashMessage{Type: "error", Message: "An unknown error occurred. Please contact support."})
		}
		http.Redirect(w, r, r.Referer(), http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Your purchase has been submitted. Our team will review it shortly."})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RecentPurchasesAPI serves the ledger as JSON, most-recent-first.
func (h *SiteHandler) RecentPurchasesAPI(w http.ResponseWriter, r *http.Request) {
	records := h.Ledger.List(r.Context())
	if records == nil {
		records = []models.PurchaseRecord{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		slog.Error("Failed to encode recent purchases", "error", err)
	}
}

func (h *SiteHandler) lookupItem(name, kind string) (string, float64, bool) {
	if models.ItemKind(kind) == models.KindCoin {
		if item, ok := h.Catalog.CoinByName(name); ok {
			return item.Name, item.Price, true
		}
		return "", 0, false
	}
	if item, ok := h.Catalog.RankByName(name); ok {
		return item.Name, item.Price, true
	}
	return "", 0, false
}
