package middleware

import (
	"net/http"
	"strings"
	"time"

	"student_dashboard_go/config"
	"student_dashboard_go/services/i18n"

	"github.com/labstack/echo/v4"
)

const langCookie = "lang"

// Locale middleware picks the language of the preview page.
// Priority:
// 1. Query param "lang" (sets cookie)
// 2. Cookie "lang"
// 3. Accept-Language header
// 4. The configured LOCALE
func Locale(cfg *config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lang := ""
			if q := c.QueryParam("lang"); q != "" {
				lang = supported(q, cfg.Locale)
				SetLanguageCookie(c, cfg, lang)
			} else if cookie, err := c.Cookie(langCookie); err == nil {
				lang = supported(cookie.Value, "")
			}

			if lang == "" {
				lang = fromAcceptLanguage(c.Request().Header.Get("Accept-Language"), cfg.Locale)
			}

			c.Set("locale", lang)
			c.SetRequest(c.Request().WithContext(i18n.WithLocale(c.Request().Context(), lang)))

			return next(c)
		}
	}
}

// SetLanguageCookie remembers lang for a year
func SetLanguageCookie(c echo.Context, cfg *config.Config, lang string) {
	c.SetCookie(&http.Cookie{
		Name:     langCookie,
		Value:    lang,
		Expires:  time.Now().Add(24 * 365 * time.Hour),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   cfg.Environment == "production",
	})
}

// GetLocale returns the current locale from context
func GetLocale(c echo.Context) string {
	if lang, ok := c.Get("locale").(string); ok {
		return lang
	}
	return "en"
}

// supported returns lang if a catalog exists for it, else fallback
func supported(lang, fallback string) string {
	for _, l := range i18n.Languages() {
		if l == lang {
			return lang
		}
	}
	return fallback
}

// fromAcceptLanguage returns the first supported language of the header
func fromAcceptLanguage(header, fallback string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if base == "" {
			continue
		}
		if lang := supported(base, ""); lang != "" {
			return lang
		}
	}
	return fallback
}
