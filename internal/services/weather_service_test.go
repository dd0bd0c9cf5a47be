package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vigia/internal/models"
)

type mockWeatherRepo struct {
	byEventID map[string]*models.WeatherAlert
	failIDs   map[string]bool
}

func (m *mockWeatherRepo) UpsertAlert(_ context.Context, a *models.WeatherAlert) error {
	if m.failIDs[a.EventID] {
		return errors.New("db down")
	}
	m.byEventID[a.EventID] = a
	return nil
}

func (m *mockWeatherRepo) ListCurrent(_ context.Context) ([]*models.WeatherAlert, error) {
	var out []*models.WeatherAlert
	for _, a := range m.byEventID {
		out = append(out, a)
	}
	return out, nil
}

func newWeatherFixture(providerURL string) (*WeatherService, *mockWeatherRepo) {
	repo := &mockWeatherRepo{byEventID: make(map[string]*models.WeatherAlert), failIDs: make(map[string]bool)}
	svc := NewWeatherService(repo, providerURL, "chave-api", "Sao Paulo")
	return svc, repo
}

const providerBody = `{"alerts":[
	{"id":"ev-1","event":"Chuva forte","severity":"moderate","description":"Acumulado de 60mm em 24h","start":1756700000,"end":1756790000},
	{"id":"ev-2","event":"Vendaval","severity":"severe","description":"Rajadas acima de 80km/h","start":1756700000}
]}`

func TestIngestAlerts_MapsProviderPayload(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("appid") != "chave-api" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(providerBody))
	}))
	defer provider.Close()

	svc, repo := newWeatherFixture(provider.URL)

	saved, err := svc.IngestAlerts(context.Background())
	if err != nil {
		t.Fatalf("ingestão falhou: %v", err)
	}
	if saved != 2 {
		t.Fatalf("esperava 2 alertas gravados, veio %d", saved)
	}

	chuva := repo.byEventID["ev-1"]
	if chuva == nil || chuva.Event != "Chuva forte" || chuva.Severity != "moderate" {
		t.Fatalf("alerta ev-1 mal mapeado: %+v", chuva)
	}
	if chuva.EndsAt == nil {
		t.Fatal("ev-1 tem fim no provedor, EndsAt não podia ficar nulo")
	}
	if repo.byEventID["ev-2"].EndsAt != nil {
		t.Fatal("ev-2 não tem fim no provedor, EndsAt tinha que ficar nulo")
	}
}

func TestIngestAlerts_RerunDoesNotDuplicate(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(providerBody))
	}))
	defer provider.Close()

	svc, repo := newWeatherFixture(provider.URL)

	if _, err := svc.IngestAlerts(context.Background()); err != nil {
		t.Fatalf("primeira rodada falhou: %v", err)
	}
	if _, err := svc.IngestAlerts(context.Background()); err != nil {
		t.Fatalf("segunda rodada falhou: %v", err)
	}
	if len(repo.byEventID) != 2 {
		t.Fatalf("rodadas seguidas não podem duplicar: esperava 2 alertas, veio %d", len(repo.byEventID))
	}
}

func TestIngestAlerts_SkipsFailedItem(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(providerBody))
	}))
	defer provider.Close()

	svc, repo := newWeatherFixture(provider.URL)
	repo.failIDs["ev-1"] = true

	saved, err := svc.IngestAlerts(context.Background())
	if err != nil {
		t.Fatalf("um item com falha não derruba a rodada: %v", err)
	}
	if saved != 1 {
		t.Fatalf("esperava 1 alerta gravado, veio %d", saved)
	}
	if repo.byEventID["ev-2"] == nil {
		t.Fatal("ev-2 deveria ter sido gravado mesmo com ev-1 falhando")
	}
}

func TestIngestAlerts_ProviderError(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer provider.Close()

	svc, repo := newWeatherFixture(provider.URL)

	if _, err := svc.IngestAlerts(context.Background()); err == nil {
		t.Fatal("status 503 do provedor tinha que virar erro")
	}
	if len(repo.byEventID) != 0 {
		t.Fatal("nada podia ser gravado com o provedor fora")
	}
}

func TestIngestAlerts_DisabledWithoutKey(t *testing.T) {
	called := false
	provider := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))
	defer provider.Close()

	svc, _ := newWeatherFixture(provider.URL)
	svc.APIKey = ""

	saved, err := svc.IngestAlerts(context.Background())
	if err != nil || saved != 0 {
		t.Fatalf("sem chave a ingestão é no-op: saved=%d err=%v", saved, err)
	}
	if called {
		t.Fatal("sem chave o provedor nem deve ser consultado")
	}
}
