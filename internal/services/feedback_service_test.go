package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/senyabanana/estate-service/internal/models"
	"github.com/senyabanana/estate-service/internal/testutil"
)

func TestSubmitFeedbackValidation(t *testing.T) {
	service := NewFeedbackService(testutil.NewFakeFeedbackRepo())

	_, err := service.SubmitFeedback(context.Background(), models.FeedbackRequest{Name: "Ann", Email: "ann@example.com"})
	assertErrorStatus(t, err, http.StatusBadRequest)
}

func TestSubmitFeedbackStartsUnread(t *testing.T) {
	service := NewFeedbackService(testutil.NewFakeFeedbackRepo())

	feedback, err := service.SubmitFeedback(context.Background(), models.FeedbackRequest{
		Name:    "Ann",
		Email:   "ann@example.com",
		Message: "Is the villa still available?",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if feedback.Status != models.UnreadFeedback {
		t.Errorf("new feedback must be unread, got %q", feedback.Status)
	}
	if feedback.ID == "" {
		t.Error("submitted feedback must get an id")
	}
}

func TestUpdateFeedbackStatusDefaultsToRead(t *testing.T) {
	repo := testutil.NewFakeFeedbackRepo()
	service := NewFeedbackService(repo)
	ctx := context.Background()

	feedback, err := service.SubmitFeedback(ctx, models.FeedbackRequest{
		Name:    "Ann",
		Email:   "ann@example.com",
		Message: "Hello",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if err := service.UpdateFeedbackStatus(ctx, feedback.ID, ""); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	messages, _ := service.FetchFeedback(ctx)
	if messages[0].Status != models.ReadFeedback {
		t.Errorf("empty status must default to read, got %q", messages[0].Status)
	}

	err = service.UpdateFeedbackStatus(ctx, "no-such-id", "read")
	assertErrorStatus(t, err, http.StatusNotFound)
}

func TestDeleteFeedback(t *testing.T) {
	service := NewFeedbackService(testutil.NewFakeFeedbackRepo())
	ctx := context.Background()

	err := service.DeleteFeedback(ctx, "no-such-id")
	assertErrorStatus(t, err, http.StatusNotFound)

	feedback, err := service.SubmitFeedback(ctx, models.FeedbackRequest{
		Name:    "Ann",
		Email:   "ann@example.com",
		Message: "Hello",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if err := service.DeleteFeedback(ctx, feedback.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	messages, _ := service.FetchFeedback(ctx)
	if len(messages) != 0 {
		t.Errorf("expected empty feedback list, got %d", len(messages))
	}
}
