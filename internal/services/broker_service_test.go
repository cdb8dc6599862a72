package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/senyabanana/estate-service/internal/models"
	"github.com/senyabanana/estate-service/internal/testutil"
)

// assertErrorStatus проверяет, что ошибка является ErrorResponse с нужным кодом.
func assertErrorStatus(t *testing.T, err error, expected int) *models.ErrorResponse {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", expected)
	}
	errorResponse, ok := err.(*models.ErrorResponse)
	if !ok {
		t.Fatalf("expected *models.ErrorResponse, got %T: %v", err, err)
	}
	if errorResponse.StatusCode != expected {
		t.Fatalf("expected status %d, got %d (%s)", expected, errorResponse.StatusCode, errorResponse.Message)
	}
	return errorResponse
}

func TestBrokerLoginRequiresUsername(t *testing.T) {
	service := NewBrokerService(testutil.NewFakeBrokerRepo())

	_, err := service.Login(context.Background(), "   ")
	assertErrorStatus(t, err, http.StatusBadRequest)
}

func TestBrokerLoginCreatesApprovedBroker(t *testing.T) {
	service := NewBrokerService(testutil.NewFakeBrokerRepo())

	broker, err := service.Login(context.Background(), "agent1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if broker.Handle != "agent1" {
		t.Errorf("expected handle agent1, got %q", broker.Handle)
	}
	if broker.Status != models.ApprovedBroker {
		t.Errorf("new broker must be approved, got %q", broker.Status)
	}
	if broker.Token == "" {
		t.Error("login must issue a token")
	}
}

func TestBrokerLoginRotatesToken(t *testing.T) {
	repo := testutil.NewFakeBrokerRepo()
	service := NewBrokerService(repo)
	ctx := context.Background()

	first, err := service.Login(ctx, "agent1")
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	second, err := service.Login(ctx, "agent1")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}

	if first.ID != second.ID {
		t.Error("re-login must not create a second broker")
	}
	if len(repo.Brokers) != 1 {
		t.Fatalf("expected 1 broker in the registry, got %d", len(repo.Brokers))
	}
	if first.Token == second.Token {
		t.Error("re-login must rotate the token")
	}

	if _, err := service.Authenticate(ctx, first.Token); err == nil {
		t.Error("old token must stop working after re-login")
	}
	if _, err := service.Authenticate(ctx, second.Token); err != nil {
		t.Errorf("new token must authenticate: %v", err)
	}
}

func TestBrokerAuthenticate(t *testing.T) {
	service := NewBrokerService(testutil.NewFakeBrokerRepo())
	ctx := context.Background()

	_, err := service.Authenticate(ctx, "")
	assertErrorStatus(t, err, http.StatusUnauthorized)

	_, err = service.Authenticate(ctx, "no-such-token")
	assertErrorStatus(t, err, http.StatusUnauthorized)

	broker, err := service.Login(ctx, "agent1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	authenticated, err := service.Authenticate(ctx, broker.Token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if authenticated.ID != broker.ID {
		t.Error("authenticate must return the broker owning the token")
	}
}
