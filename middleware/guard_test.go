package middleware

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	otpAuth "github.com/MrEthical07/otpAuth"
)

func newAssertingEngine(t *testing.T) *otpAuth.Engine {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	cfg := otpAuth.DefaultConfig()
	cfg.Seed.Memory = 8192
	cfg.Seed.Time = 1
	cfg.Events.Enabled = false
	cfg.Assertion.Enabled = true
	cfg.Assertion.PrivateKey = priv

	engine, err := otpAuth.New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func issueAssertion(t *testing.T, engine *otpAuth.Engine) (string, otpAuth.PublicKey) {
	t.Helper()
	ctx := context.Background()
	key, err := otpAuth.ParsePublicKey("0x00000000000000000000000000000000000000aa")
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	if _, err := engine.RegisterUser(ctx, "alice", key, "seed123"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	code, err := engine.GenerateOTP(ctx, "alice")
	if err != nil {
		t.Fatalf("GenerateOTP: %v", err)
	}
	res, err := engine.AuthenticateWithResult(ctx, key, code)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	return res.Assertion, key
}

func TestRequireAssertionAdmitsValidToken(t *testing.T) {
	engine := newAssertingEngine(t)
	token, key := issueAssertion(t, engine)

	var seen *otpAuth.AssertionClaims
	h := RequireAssertion(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Fatal("claims missing from context")
		}
		seen = claims
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if seen == nil || seen.Username != "alice" || seen.PublicKey != key {
		t.Fatalf("unexpected claims %+v", seen)
	}
}

func TestRequireAssertionRejects(t *testing.T) {
	engine := newAssertingEngine(t)

	cases := []struct {
		name   string
		engine *otpAuth.Engine
		header string
	}{
		{name: "missing header", engine: engine, header: ""},
		{name: "not bearer", engine: engine, header: "Basic abc"},
		{name: "empty bearer", engine: engine, header: "Bearer "},
		{name: "garbage token", engine: engine, header: "Bearer not.a.token"},
		{name: "nil engine", engine: nil, header: "Bearer x"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			h := RequireAssertion(tc.engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if called {
				t.Fatal("next handler must not run")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}
