package handlers

import (
	"fmt"
	"html/template"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/Tentennnn/anachaktopup/internal/models"
)

// TemplateCache holds parsed templates
type TemplateCache struct {
	cache map[string]*template.Template
	mu    sync.RWMutex
	funcs template.FuncMap
}

func NewTemplateCache() *TemplateCache {
	return &TemplateCache{
		cache: make(map[string]*template.Template),
		funcs: make(template.FuncMap),
	}
}

func (tc *TemplateCache) AddFunc(name string, fn interface{}) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.funcs[name] = fn
}

// Load parses all templates in the templates/ dir
func (tc *TemplateCache) Load(dir string) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	// Global template functions
	tc.funcs["price"] = func(v float64) string {
		return fmt.Sprintf("$%.2f", v)
	}
	tc.funcs["deref"] = func(v *float64) float64 {
		if v == nil {
			return 0
		}
		return *v
	}
	tc.funcs["discount"] = models.DiscountPercent
	tc.funcs["timeAgo"] = TimeAgo

	// Find all HTML files
	files, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return err
	}
	for _, file := range files {
		name := filepath.Base(file)
		tmpl, err := template.New(name).Funcs(tc.funcs).ParseFiles(file)
		if err != nil {
			slog.Error("Failed to parse template", "file", file, "error", err)
			return err
		}
		tc.cache[name] = tmpl
		slog.Debug("Cached template", "name", name)
	}
	return nil
}

func (tc *TemplateCache) Get(name string) *template.Template {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.cache[name]
}

// TimeAgo renders a timestamp as a compact relative age for the activity feed.
func TimeAgo(t time.Time) string {
	seconds := int64(time.Since(t).Seconds())
	switch {
	case seconds < 5:
		return "just now"
	case seconds < 60:
		return fmt.Sprintf("%ds ago", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm ago", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%dh ago", seconds/3600)
	case seconds < 2592000:
		return fmt.Sprintf("%dd ago", seconds/86400)
	case seconds < 31536000:
		return fmt.Sprintf("%dmo ago", seconds/2592000)
	default:
		return fmt.Sprintf("%dy ago", seconds/31536000)
	}
}
