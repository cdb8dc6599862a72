package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/senyabanana/estate-service/internal/handlers"
	"github.com/senyabanana/estate-service/internal/models"
	"github.com/senyabanana/estate-service/internal/router"
	"github.com/senyabanana/estate-service/internal/services"
	"github.com/senyabanana/estate-service/internal/storage"
	"github.com/senyabanana/estate-service/internal/testutil"
)

const testSecret = "290593"

// newTestServer собирает приложение целиком поверх in-memory репозиториев.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	uploads, err := storage.NewUploads(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create upload dir: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	houseRepo := testutil.NewFakeHouseRepo()
	brokerRepo := testutil.NewFakeBrokerRepo()
	requestRepo := testutil.NewFakeRequestRepo(houseRepo, brokerRepo)
	feedbackRepo := testutil.NewFakeFeedbackRepo()

	houseService := services.NewHouseService(houseRepo)
	brokerService := services.NewBrokerService(brokerRepo)
	requestService := services.NewRequestService(requestRepo)
	feedbackService := services.NewFeedbackService(feedbackRepo)

	timeout := 5 * time.Second
	houseHandler := handlers.NewHouseHandler(houseService, uploads, logger, timeout)
	brokerHandler := handlers.NewBrokerHandler(brokerService, testSecret, logger, timeout)
	requestHandler := handlers.NewRequestHandler(requestService, brokerService, uploads, logger, timeout)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService, logger, timeout)

	return router.InitRoutes(houseHandler, brokerHandler, requestHandler, feedbackHandler, uploads.Dir, "*")
}

func doJSON(t *testing.T, server http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Broker-Token", token)
	}
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.NewDecoder(recorder.Body).Decode(target); err != nil {
		t.Fatalf("failed to decode response %q: %v", recorder.Body.String(), err)
	}
}

func loginBroker(t *testing.T, server http.Handler, username string) models.Broker {
	t.Helper()

	recorder := doJSON(t, server, http.MethodPost, "/api/brokers/verify", "", models.VerifyRequest{
		Username: username,
		Password: testSecret,
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("login failed with %d: %s", recorder.Code, recorder.Body.String())
	}
	var broker models.Broker
	decodeBody(t, recorder, &broker)
	if broker.Token == "" {
		t.Fatal("login must return a token")
	}
	return broker
}

func submitRequest(t *testing.T, server http.Handler, token, title string) string {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	fields := map[string]string{
		"title":         title,
		"description":   "Three bedrooms, garden",
		"price":         "2500000",
		"bedrooms":      "3",
		"city":          "Addis Ababa",
		"contact_name":  "Agent One",
		"amenity_water": "true",
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("failed to write field %s: %v", name, err)
		}
	}
	part, err := writer.CreateFormFile("images", "photo.jpg")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte("fake image bytes")); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/broker-requests", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Broker-Token", token)
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("submit failed with %d: %s", recorder.Code, recorder.Body.String())
	}

	var response struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	decodeBody(t, recorder, &response)
	if !response.Success || response.ID == "" {
		t.Fatalf("unexpected submit response: %+v", response)
	}
	return response.ID
}

func TestVerifyBrokerWrongPassword(t *testing.T) {
	server := newTestServer(t)

	recorder := doJSON(t, server, http.MethodPost, "/api/brokers/verify", "", models.VerifyRequest{
		Username: "agent1",
		Password: "wrong",
	})
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var response models.ErrorResponse
	decodeBody(t, recorder, &response)
	if response.Message != "invalid credentials" {
		t.Errorf("unexpected message: %q", response.Message)
	}
}

func TestBrokerProfileHidesToken(t *testing.T) {
	server := newTestServer(t)
	broker := loginBroker(t, server, "agent1")

	recorder := doJSON(t, server, http.MethodGet, "/api/brokers/me", broker.Token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("profile failed with %d: %s", recorder.Code, recorder.Body.String())
	}
	if strings.Contains(recorder.Body.String(), broker.Token) {
		t.Error("profile response must not echo the token")
	}
	var profile models.Broker
	decodeBody(t, recorder, &profile)
	if profile.Handle != "agent1" {
		t.Errorf("unexpected profile handle: %q", profile.Handle)
	}

	recorder = doJSON(t, server, http.MethodGet, "/api/brokers/me", "", nil)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("missing token must give 401, got %d", recorder.Code)
	}
}

func TestBrokerSubmissionApprovalFlow(t *testing.T) {
	server := newTestServer(t)
	broker := loginBroker(t, server, "agent1")

	requestId := submitRequest(t, server, broker.Token, "Villa in Bole")

	// Заявка видна брокеру со статусом pending.
	recorder := doJSON(t, server, http.MethodGet, "/api/broker-requests/mine", broker.Token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("mine failed with %d: %s", recorder.Code, recorder.Body.String())
	}
	var mine []models.BrokerRequest
	decodeBody(t, recorder, &mine)
	if len(mine) != 1 || mine[0].Status != models.PendingRequest {
		t.Fatalf("expected one pending request, got %+v", mine)
	}
	if len(mine[0].Images) != 1 {
		t.Fatalf("expected 1 stored image, got %d", len(mine[0].Images))
	}

	// Заявка видна администратору вместе с контактами брокера.
	recorder = doJSON(t, server, http.MethodGet, "/api/admin/broker-requests", "", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("admin list failed with %d: %s", recorder.Code, recorder.Body.String())
	}
	var adminList []models.AdminBrokerRequest
	decodeBody(t, recorder, &adminList)
	if len(adminList) != 1 || adminList[0].BrokerHandle != "agent1" {
		t.Fatalf("expected one request from agent1, got %+v", adminList)
	}

	// Одобрение публикует объявление.
	recorder = doJSON(t, server, http.MethodPost, "/api/admin/broker-requests/"+requestId+"/decision", "", models.DecisionRequest{Action: "approve"})
	if recorder.Code != http.StatusOK {
		t.Fatalf("approve failed with %d: %s", recorder.Code, recorder.Body.String())
	}
	var decision struct {
		Success bool   `json:"success"`
		HouseID string `json:"houseId"`
	}
	decodeBody(t, recorder, &decision)
	if !decision.Success || decision.HouseID == "" {
		t.Fatalf("unexpected decision response: %+v", decision)
	}

	// Объявление появилось в публичном каталоге.
	recorder = doJSON(t, server, http.MethodGet, "/api/houses", "", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("catalog failed with %d: %s", recorder.Code, recorder.Body.String())
	}
	var houses []models.House
	decodeBody(t, recorder, &houses)
	if len(houses) != 1 || houses[0].ID != decision.HouseID {
		t.Fatalf("expected the approved listing in the catalog, got %+v", houses)
	}
	if houses[0].Status != models.AvailableHouse {
		t.Errorf("published listing must be available, got %q", houses[0].Status)
	}

	// Заявка брокера теперь approved и ссылается на объявление.
	recorder = doJSON(t, server, http.MethodGet, "/api/broker-requests/mine", broker.Token, nil)
	decodeBody(t, recorder, &mine)
	if mine[0].Status != models.ApprovedRequest {
		t.Errorf("request must be approved, got %q", mine[0].Status)
	}
	if mine[0].CreatedHouseID == nil || *mine[0].CreatedHouseID != decision.HouseID {
		t.Error("request must link to the created listing")
	}

	// Повторное одобрение отклоняется и не создает второе объявление.
	recorder = doJSON(t, server, http.MethodPost, "/api/admin/broker-requests/"+requestId+"/decision", "", models.DecisionRequest{Action: "approve"})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("double approve must give 400, got %d: %s", recorder.Code, recorder.Body.String())
	}
	recorder = doJSON(t, server, http.MethodGet, "/api/houses", "", nil)
	houses = nil
	decodeBody(t, recorder, &houses)
	if len(houses) != 1 {
		t.Fatalf("double approve must not publish twice, got %d listings", len(houses))
	}
}

func TestBrokerHouseOwnership(t *testing.T) {
	server := newTestServer(t)
	owner := loginBroker(t, server, "agent1")
	intruder := loginBroker(t, server, "agent2")

	requestId := submitRequest(t, server, owner.Token, "Villa in Bole")
	recorder := doJSON(t, server, http.MethodPost, "/api/admin/broker-requests/"+requestId+"/decision", "", models.DecisionRequest{Action: "approve"})
	var decision struct {
		HouseID string `json:"houseId"`
	}
	decodeBody(t, recorder, &decision)

	update := models.BrokerHouseUpdate{Title: "Villa in Bole, renovated", Description: "Fresh paint", Price: 2700000}

	recorder = doJSON(t, server, http.MethodPut, "/api/broker/houses/"+decision.HouseID, intruder.Token, update)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("foreign edit must give 403, got %d", recorder.Code)
	}

	recorder = doJSON(t, server, http.MethodPut, "/api/broker/houses/"+decision.HouseID, owner.Token, update)
	if recorder.Code != http.StatusOK {
		t.Fatalf("owner edit failed with %d: %s", recorder.Code, recorder.Body.String())
	}

	recorder = doJSON(t, server, http.MethodDelete, "/api/broker/houses/"+decision.HouseID, intruder.Token, nil)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("foreign delete must give 403, got %d", recorder.Code)
	}

	recorder = doJSON(t, server, http.MethodDelete, "/api/broker/houses/"+decision.HouseID, owner.Token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("owner delete failed with %d: %s", recorder.Code, recorder.Body.String())
	}

	recorder = doJSON(t, server, http.MethodGet, "/api/houses", "", nil)
	var houses []models.House
	decodeBody(t, recorder, &houses)
	if len(houses) != 0 {
		t.Fatalf("listing must leave the catalog after broker delete, got %d", len(houses))
	}
}

func TestRejectDecision(t *testing.T) {
	server := newTestServer(t)
	broker := loginBroker(t, server, "agent1")

	requestId := submitRequest(t, server, broker.Token, "Villa in Bole")

	note := "photos too dark"
	recorder := doJSON(t, server, http.MethodPost, "/api/admin/broker-requests/"+requestId+"/decision", "", models.DecisionRequest{Action: "reject", Note: &note})
	if recorder.Code != http.StatusOK {
		t.Fatalf("reject failed with %d: %s", recorder.Code, recorder.Body.String())
	}
	if strings.Contains(recorder.Body.String(), "houseId") {
		t.Error("reject must not return a house id")
	}

	recorder = doJSON(t, server, http.MethodGet, "/api/broker-requests/mine", broker.Token, nil)
	var mine []models.BrokerRequest
	decodeBody(t, recorder, &mine)
	if mine[0].Status != models.RejectedRequest {
		t.Errorf("request must be rejected, got %q", mine[0].Status)
	}
	if mine[0].AdminNote == nil || *mine[0].AdminNote != note {
		t.Error("rejection note must be visible to the broker")
	}

	recorder = doJSON(t, server, http.MethodGet, "/api/houses", "", nil)
	var houses []models.House
	decodeBody(t, recorder, &houses)
	if len(houses) != 0 {
		t.Error("reject must not publish a listing")
	}
}

func TestSubmitRequestRequiresToken(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/broker-requests", strings.NewReader(""))
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("submission without token must give 401, got %d", recorder.Code)
	}
}

func TestFeedbackLifecycle(t *testing.T) {
	server := newTestServer(t)

	recorder := doJSON(t, server, http.MethodPost, "/api/feedback", "", models.FeedbackRequest{Name: "Ann"})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("incomplete feedback must give 400, got %d", recorder.Code)
	}

	recorder = doJSON(t, server, http.MethodPost, "/api/feedback", "", models.FeedbackRequest{
		Name:    "Ann",
		Email:   "ann@example.com",
		Message: "Is the villa still available?",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("feedback submit failed with %d: %s", recorder.Code, recorder.Body.String())
	}
	var submitted struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	decodeBody(t, recorder, &submitted)
	if !submitted.Success || submitted.ID == "" {
		t.Fatalf("unexpected submit response: %+v", submitted)
	}

	// Статус не входит в ответ на отправку, он виден только в списке.
	recorder = doJSON(t, server, http.MethodGet, "/api/feedback", "", nil)
	var unread []models.Feedback
	decodeBody(t, recorder, &unread)
	if len(unread) != 1 || unread[0].Status != models.UnreadFeedback {
		t.Fatalf("expected one unread message, got %+v", unread)
	}

	recorder = doJSON(t, server, http.MethodPut, "/api/feedback/"+submitted.ID, "", models.FeedbackStatusUpdate{})
	if recorder.Code != http.StatusOK {
		t.Fatalf("status update failed with %d: %s", recorder.Code, recorder.Body.String())
	}

	recorder = doJSON(t, server, http.MethodGet, "/api/feedback", "", nil)
	var messages []models.Feedback
	decodeBody(t, recorder, &messages)
	if len(messages) != 1 || messages[0].Status != models.ReadFeedback {
		t.Fatalf("expected one read message, got %+v", messages)
	}

	recorder = doJSON(t, server, http.MethodDelete, "/api/feedback/"+submitted.ID, "", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("delete failed with %d: %s", recorder.Code, recorder.Body.String())
	}
	recorder = doJSON(t, server, http.MethodDelete, "/api/feedback/"+submitted.ID, "", nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("second delete must give 404, got %d", recorder.Code)
	}
}
