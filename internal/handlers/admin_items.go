package handlers

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Tentennnn/anachaktopup/internal/catalog"
	"github.com/Tentennnn/anachaktopup/internal/models"
	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/nfnt/resize"
)

// itemForm is the shared field set posted by the create and edit forms.
type itemForm struct {
	Kind          models.ItemKind
	Name          string
	Price         float64
	OriginalPrice *float64
	Bonus         string
	ImageURL      string
	Highlighted   bool
	Features      []string // ranks only
	Amount        int      // coin packages only
}

func (h *AdminHandler) ItemForm(w http.ResponseWriter, r *http.Request) {
	kind := itemKind(r.URL.Query().Get("kind"))
	name := r.URL.Query().Get("name")

	data := map[string]interface{}{
		"Settings":  h.Settings.Load(),
		"Kind":      kind,
		"IsNew":     name == "",
		"CsrfField": csrf.TemplateField(r),
	}

	if name != "" {
		switch kind {
		case models.KindCoin:
			item, ok := h.Catalog.CoinByName(name)
			if !ok {
				http.Error(w, "Item not found", http.StatusNotFound)
				return
			}
			data["Coin"] = item
		default:
			item, ok := h.Catalog.RankByName(name)
			if !ok {
				http.Error(w, "Item not found", http.StatusNotFound)
				return
			}
			data["Rank"] = item
			data["Features"] = strings.Join(item.Features, "\n")
		}
	}

	tmpl := h.Templates.Get("admin_item_form.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "admin-session")
	data["Flashes"] = GetFlash(session)
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *AdminHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "admin-session")
	defer session.Save(r, w)

	form, err := h.parseItemForm(r)
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: err.Error()})
		http.Redirect(w, r, "/admin/items/new?kind="+string(itemKind(r.FormValue("kind"))), http.StatusSeeOther)
		return
	}

	switch form.Kind {
	case models.KindCoin:
		err = h.Catalog.CreateCoin(models.CoinPackage{
			Name:          form.Name,
			Amount:        form.Amount,
			Price:         form.Price,
			OriginalPrice: form.OriginalPrice,
			Bonus:         form.Bonus,
			ImageURL:      form.ImageURL,
			Highlighted:   form.Highlighted,
		})
	default:
		err = h.Catalog.CreateRank(models.Rank{
			Name:          form.Name,
			Price:         form.Price,
			OriginalPrice: form.OriginalPrice,
			Features:      form.Features,
			ImageURL:      form.ImageURL,
			Highlighted:   form.Highlighted,
			Bonus:         form.Bonus,
		})
	}

	var dup *catalog.DuplicateNameError
	if errors.As(err, &dup) {
		session.AddFlash(FlashMessage{Type: "error", Message: dup.Error()})
		http.Redirect(w, r, "/admin/items/new?kind="+string(form.Kind), http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Item added successfully!"})
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AdminHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "admin-session")
	defer session.Save(r, w)

	form, err := h.parseItemForm(r)
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: err.Error()})
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	// Name is the item's identity; the edit form posts it read-only and an
	// unknown name drops the update without touching the catalog.
	switch form.Kind {
	case models.KindCoin:
		h.Catalog.UpdateCoin(models.CoinPackage{
			Name:          form.Name,
			Amount:        form.Amount,
			Price:         form.Price,
			OriginalPrice: form.OriginalPrice,
			Bonus:         form.Bonus,
			ImageURL:      form.ImageURL,
			Highlighted:   form.Highlighted,
		})
	default:
		h.Catalog.UpdateRank(models.Rank{
			Name:          form.Name,
			Price:         form.Price,
			OriginalPrice: form.OriginalPrice,
			Features:      form.Features,
			ImageURL:      form.ImageURL,
			Highlighted:   form.Highlighted,
			Bonus:         form.Bonus,
		})
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Item updated successfully!"})
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// DeleteItem removes an item permanently. The dashboard asks for confirmation
// before posting here.
func (h *AdminHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "admin-session")
	defer session.Save(r, w)

	name := r.FormValue("name")
	if name == "" {
		session.AddFlash(FlashMessage{Type: "error", Message: "Missing item name."})
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	switch itemKind(r.FormValue("kind")) {
	case models.KindCoin:
		h.Catalog.DeleteCoin(name)
	default:
		h.Catalog.DeleteRank(name)
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Item deleted successfully!"})
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AdminHandler) parseItemForm(r *http.Request) (*itemForm, error) {
	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10MB
		return nil, errors.New("File too large. Max 10MB.")
	}

	form := &itemForm{
		Kind:        itemKind(r.FormValue("kind")),
		Name:        strings.TrimSpace(r.FormValue("name")),
		Bonus:       strings.TrimSpace(r.FormValue("bonus")),
		ImageURL:    strings.TrimSpace(r.FormValue("image_url")),
		Highlighted: r.FormValue("highlighted") == "on",
	}

	if form.Name == "" {
		return nil, errors.New("Name is required.")
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		return nil, errors.New("Invalid price format.")
	}
	if price < 0 {
		return nil, errors.New("Price cannot be negative.")
	}
	form.Price = price

	if raw := strings.TrimSpace(r.FormValue("original_price")); raw != "" {
		original, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("Invalid original price format.")
		}
		form.OriginalPrice = &original
	}

	switch form.Kind {
	case models.KindCoin:
		amount, err := strconv.Atoi(r.FormValue("amount"))
		if err != nil || amount <= 0 {
			return nil, errors.New("Coin amount must be a positive number.")
		}
		form.Amount = amount
	default:
		for _, line := range strings.Split(r.FormValue("features"), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				form.Features = append(form.Features, line)
			}
		}
	}

	// Optional image upload replaces the image URL field.
	if uploaded, err := h.saveUpload(r); err != nil {
		return nil, err
	} else if uploaded != "" {
		form.ImageURL = uploaded
	}

	return form, nil
}

// saveUpload decodes an optional item image, resizes it, and stores it under
// the upload directory. Returns the public URL, or "" when no file was sent.
func (h *AdminHandler) saveUpload(r *http.Request) (string, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		return "", nil
	}
	defer file.Close()

	var img image.Image
	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".png":
		img, err = png.Decode(file)
	case ".jpeg", ".jpg":
		img, err = jpeg.Decode(file)
	default:
		return "", errors.New("Unsupported image format. Only PNG, JPG, JPEG are allowed.")
	}
	if err != nil {
		return "", errors.New("Failed to decode image.")
	}

	// Item art renders small; 400px wide is plenty.
	newImage := resize.Resize(400, 0, img, resize.Lanczos3)

	filename := fmt.Sprintf("%s.jpg", uuid.New().String())
	uploadPath := filepath.Join(h.UploadDir, filename)

	out, err := os.Create(uploadPath)
	if err != nil {
		return "", errors.New("Error saving image file.")
	}
	defer out.Close()

	if err := jpeg.Encode(out, newImage, &jpeg.Options{Quality: 80}); err != nil {
		return "", errors.New("Error encoding image.")
	}

	return "/static/uploads/" + filename, nil
}

func itemKind(raw string) models.ItemKind {
	if models.ItemKind(raw) == models.KindCoin {
		return models.KindCoin
	}
	return models.KindRank
}
