package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func localeProbe(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = LocaleFromContext(r.Context())
	})
}

func TestDetectLocale(t *testing.T) {
	tests := []struct {
		name     string
		xLocale  string
		accept   string
		fallback string
		want     string
	}{
		{"explicit header wins", "fr", "de-DE,de;q=0.9", "en", "fr"},
		{"explicit header with region", "ja-JP", "", "en", "ja"},
		{"invalid explicit falls through", "???", "es-ES,es;q=0.8", "en", "es"},
		{"accept-language matched", "", "de-CH,de;q=0.9,en;q=0.5", "en", "de"},
		{"unsupported maps to closest", "", "fr-CA", "en", "fr"},
		{"nothing uses fallback", "", "", "de", "de"},
		{"nothing and no fallback", "", "", "", "en"},
	}
	for _, tc := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.xLocale != "" {
			r.Header.Set("X-Locale", tc.xLocale)
		}
		if tc.accept != "" {
			r.Header.Set("Accept-Language", tc.accept)
		}
		if got := detectLocale(r, tc.fallback); got != tc.want {
			t.Fatalf("%s: detectLocale = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestLocaleMiddlewareStoresContextValue(t *testing.T) {
	var got string
	h := Locale("en")(localeProbe(&got))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "ja")
	h.ServeHTTP(httptest.NewRecorder(), r)

	if got != "ja" {
		t.Fatalf("locale = %q, want ja", got)
	}
}

func TestLocaleFromContextDefault(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := LocaleFromContext(r.Context()); got != "en" {
		t.Fatalf("locale = %q, want en", got)
	}
}
