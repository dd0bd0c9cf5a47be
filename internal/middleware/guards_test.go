package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type mockAuthorizer struct {
	admin    bool
	approved bool
}

func (m *mockAuthorizer) IsAdmin(_ context.Context, _ int, _ string) bool { return m.admin }
func (m *mockAuthorizer) IsApproved(_ context.Context, _ int) bool        { return m.approved }

func authedRequest(userID int, email string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	ctx := context.WithValue(r.Context(), ContextUserID, userID)
	ctx = context.WithValue(ctx, ContextEmail, email)
	return r.WithContext(ctx)
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestOnlyApproved_Blocks(t *testing.T) {
	var called bool
	guard := OnlyApproved(&mockAuthorizer{approved: false})(okHandler(&called))

	w := httptest.NewRecorder()
	guard.ServeHTTP(w, authedRequest(7, "x@example.com"))

	if called {
		t.Fatal("handler não podia ser chamado")
	}
	if w.Code != http.StatusForbidden {
		t.Fatalf("esperava 403, veio %d", w.Code)
	}

	var body struct {
		Redirect string `json:"redirect"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("resposta não é JSON: %v", err)
	}
	if body.Redirect != "/initial-payment" {
		t.Fatalf("não aprovado deve ser mandado para /initial-payment, veio %q", body.Redirect)
	}
}

func TestOnlyApproved_Passes(t *testing.T) {
	var called bool
	guard := OnlyApproved(&mockAuthorizer{approved: true})(okHandler(&called))

	w := httptest.NewRecorder()
	guard.ServeHTTP(w, authedRequest(7, "x@example.com"))

	if !called || w.Code != http.StatusOK {
		t.Fatalf("morador aprovado deveria passar: called=%v code=%d", called, w.Code)
	}
}

func TestOnlyAdmin_Blocks(t *testing.T) {
	var called bool
	guard := OnlyAdmin(&mockAuthorizer{admin: false, approved: true})(okHandler(&called))

	w := httptest.NewRecorder()
	guard.ServeHTTP(w, authedRequest(7, "x@example.com"))

	if called {
		t.Fatal("handler não podia ser chamado")
	}
	if w.Code != http.StatusForbidden {
		t.Fatalf("esperava 403, veio %d", w.Code)
	}

	var body struct {
		Redirect string `json:"redirect"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Redirect != "/admin-login" {
		t.Fatalf("não-admin deve ser mandado para /admin-login, veio %q", body.Redirect)
	}
}

func TestOnlyAdmin_IgnoresApprovalFlag(t *testing.T) {
	// admin entra no back-office mesmo sem cadastro aprovado
	var called bool
	guard := OnlyAdmin(&mockAuthorizer{admin: true, approved: false})(okHandler(&called))

	w := httptest.NewRecorder()
	guard.ServeHTTP(w, authedRequest(7, "sindico@vigia.com.br"))

	if !called || w.Code != http.StatusOK {
		t.Fatalf("admin deveria passar sem aprovação: called=%v code=%d", called, w.Code)
	}
}

func TestGuards_MissingContext(t *testing.T) {
	var called bool
	guard := OnlyApproved(&mockAuthorizer{approved: true})(okHandler(&called))

	w := httptest.NewRecorder()
	guard.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/test", nil))

	if called {
		t.Fatal("sem user_id no contexto a guarda tem que barrar")
	}
	if w.Code != http.StatusForbidden {
		t.Fatalf("esperava 403, veio %d", w.Code)
	}
}
