package services

import (
	"context"
	"testing"
	"time"

	"vigia/internal/models"
)

type mockEmergencyRepo struct {
	alerts map[int]*models.EmergencyAlert
}

func (m *mockEmergencyRepo) CreateAlert(_ context.Context, a *models.EmergencyAlert) error {
	a.ID = len(m.alerts) + 1
	a.Status = models.AlertStatusActive
	m.alerts[a.ID] = a
	return nil
}

func (m *mockEmergencyRepo) ListAlerts(_ context.Context, onlyActive bool) ([]*models.EmergencyAlert, error) {
	var out []*models.EmergencyAlert
	for _, a := range m.alerts {
		if !onlyActive || a.Status == models.AlertStatusActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockEmergencyRepo) ResolveAlert(_ context.Context, alertID, adminID int, at time.Time) (bool, error) {
	a, ok := m.alerts[alertID]
	if !ok || a.Status != models.AlertStatusActive {
		return false, nil
	}
	a.Status = models.AlertStatusResolved
	a.ResolvedAt = &at
	a.ResolvedBy = &adminID
	return true, nil
}

func newEmergencyFixture() (*EmergencyService, *mockEmergencyRepo) {
	repo := &mockEmergencyRepo{alerts: make(map[int]*models.EmergencyAlert)}
	return NewEmergencyService(repo, NewRealtimeService(nil), nil), repo
}

func TestTriggerAlert_InvalidKind(t *testing.T) {
	svc, repo := newEmergencyFixture()

	err := svc.TriggerAlert(context.Background(), &models.EmergencyAlert{UserID: 1, Kind: "festa"})
	if err == nil {
		t.Fatal("tipo inválido deveria ser rejeitado")
	}
	if len(repo.alerts) != 0 {
		t.Fatal("alerta inválido não pode ser persistido")
	}
}

func TestTriggerAndResolveAlert(t *testing.T) {
	svc, repo := newEmergencyFixture()
	ctx := context.Background()

	a := &models.EmergencyAlert{UserID: 1, Kind: "sos", Description: "pessoa estranha no portão"}
	if err := svc.TriggerAlert(ctx, a); err != nil {
		t.Fatalf("SOS falhou: %v", err)
	}

	resolved, err := svc.ResolveAlert(ctx, a.ID, 9)
	if err != nil || !resolved {
		t.Fatalf("resolução falhou: resolved=%v err=%v", resolved, err)
	}
	if repo.alerts[a.ID].ResolvedBy == nil || *repo.alerts[a.ID].ResolvedBy != 9 {
		t.Fatal("resolução deve registrar quem resolveu")
	}

	// resolver duas vezes é no-op
	resolved, err = svc.ResolveAlert(ctx, a.ID, 9)
	if err != nil {
		t.Fatalf("segunda resolução não pode dar erro: %v", err)
	}
	if resolved {
		t.Fatal("alerta já resolvido não pode ser resolvido de novo")
	}
}

func TestListAlerts_ActiveFilter(t *testing.T) {
	svc, _ := newEmergencyFixture()
	ctx := context.Background()

	a1 := &models.EmergencyAlert{UserID: 1, Kind: "sos"}
	a2 := &models.EmergencyAlert{UserID: 2, Kind: "roubo"}
	_ = svc.TriggerAlert(ctx, a1)
	_ = svc.TriggerAlert(ctx, a2)
	_, _ = svc.ResolveAlert(ctx, a1.ID, 9)

	active, err := svc.ListAlerts(ctx, true)
	if err != nil {
		t.Fatalf("listagem falhou: %v", err)
	}
	if len(active) != 1 || active[0].ID != a2.ID {
		t.Fatalf("filtro de ativos errado: %+v", active)
	}

	all, _ := svc.ListAlerts(ctx, false)
	if len(all) != 2 {
		t.Fatalf("sem filtro deveria vir tudo, veio %d", len(all))
	}
}
