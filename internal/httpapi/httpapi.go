// Package httpapi exposes the compiler as a bearer-token authenticated HTTP
// service ("minic serve"): POST source text, get back rendered backend IR
// text or a structured front-end error. Routing and JWT verification follow
// the teacher's server package (github.com/go-chi/chi/v5 for URL routing,
// github.com/golang-jwt/jwt/v5 for the bearer token itself), scaled down
// from TunaQuest's per-user session tokens to a single shared signing key
// since this service has no user accounts to authenticate against.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"

	"github.com/dekarrin/minic/internal/config"
	"github.com/dekarrin/minic/internal/driver"
	"github.com/dekarrin/minic/internal/ferr"
)

const issuer = "minic"

// Compiler is the subset of internal/driver's API the service needs: a
// single entry point from source text to rendered backend output.
type Compiler interface {
	CompileText(ctx context.Context, source string, cfg config.Config) (string, error)
}

// API holds the dependencies HTTP handlers need.
type API struct {
	Compiler Compiler
	SignKey  []byte
}

// Router builds the full chi router for the service: a public health check,
// a token-issuing endpoint, and an authenticated compile endpoint.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(a.recoverPanic)

	r.Get("/healthz", a.handleHealth)
	r.Post("/token", a.handleIssueToken)

	r.Group(func(r chi.Router) {
		r.Use(a.requireBearerToken)
		r.Post("/v1/compile", a.handleCompile)
	})

	return r
}

func (a *API) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic handling %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				writeJSONError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleIssueToken mints a short-lived bearer token. There is no user
// database to check credentials against; any caller who can reach this
// endpoint is trusted, matching a compile-as-a-service deployment fronted
// by its own access control (e.g. a reverse proxy or VPN).
func (a *API) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	claims := jwt.MapClaims{
		"iss": issuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := tok.SignedString(a.SignKey)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "could not sign token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": signed})
}

type ctxKey string

const claimsCtxKey ctxKey = "claims"

func (a *API) requireBearerToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if len(authz) <= len(prefix) || authz[:len(prefix)] != prefix {
			writeJSONError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		raw := authz[len(prefix):]

		tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			return a.SignKey, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(issuer), jwt.WithLeeway(time.Minute))
		if err != nil || !tok.Valid {
			writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsCtxKey, tok.Claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type compileRequest struct {
	Source string        `json:"source"`
	Config config.Config `json:"config"`
}

type compileResponse struct {
	Output string `json:"output"`
}

func (a *API) handleCompile(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	var req compileRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	cfg := req.Config
	if cfg.Backend == "" {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	output, err := a.Compiler.CompileText(r.Context(), req.Source, cfg)
	if err != nil {
		var ferror *ferr.Error
		if errors.As(err, &ferror) {
			writeJSONError(w, http.StatusUnprocessableEntity, ferror.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "compile failed")
		return
	}

	writeJSON(w, http.StatusOK, compileResponse{Output: output})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
