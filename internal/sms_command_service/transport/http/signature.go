package http

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"

	chi_middleware "github.com/go-chi/chi/v5/middleware"
)

// SignatureHeader carries the provider's request signature.
const SignatureHeader = "X-Twilio-Signature"

// SignatureVerifier rejects webhook calls that were not signed with the
// account auth token.
type SignatureVerifier struct {
	authToken string
	publicURL string
	logger    *slog.Logger
}

// NewSignatureVerifier builds a verifier. publicURL is the externally
// visible webhook URL; when empty it is rebuilt from the request.
func NewSignatureVerifier(authToken, publicURL string, logger *slog.Logger) *SignatureVerifier {
	return &SignatureVerifier{
		authToken: authToken,
		publicURL: publicURL,
		logger:    logger.With("component", "signature_verifier"),
	}
}

// ComputeSignature is base64(HMAC-SHA1(token, url + sorted key/value pairs)).
func ComputeSignature(authToken, fullURL string, params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(fullURL)
	for _, k := range keys {
		for _, v := range params[k] {
			b.WriteString(k)
			b.WriteString(v)
		}
	}

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Middleware verifies POST requests and passes every other method through.
func (v *SignatureVerifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		ctx := r.Context()
		logger := v.logger.With("request_id", chi_middleware.GetReqID(ctx))

		r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
		if err := r.ParseForm(); err != nil {
			logger.WarnContext(ctx, "Failed to parse form for signature check", "error", err)
			http.Error(w, "Invalid form body", http.StatusBadRequest)
			return
		}

		got := r.Header.Get(SignatureHeader)
		want := ComputeSignature(v.authToken, v.requestURL(r), r.PostForm)
		if got == "" || !hmac.Equal([]byte(got), []byte(want)) {
			logger.WarnContext(ctx, "Webhook signature mismatch", "signature_present", got != "")
			http.Error(w, "Invalid signature", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (v *SignatureVerifier) requestURL(r *http.Request) string {
	if v.publicURL != "" {
		return v.publicURL
	}
	scheme := "https"
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if r.TLS == nil {
		scheme = "http"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
