package router

import (
	"net/http"
	"strings"

	"github.com/senyabanana/estate-service/internal/handlers"

	"github.com/go-chi/cors"
)

// InitRoutes собирает маршруты приложения и оборачивает их CORS-middleware.
func InitRoutes(
	houseHandler *handlers.HouseHandler,
	brokerHandler *handlers.BrokerHandler,
	requestHandler *handlers.RequestHandler,
	feedbackHandler *handlers.FeedbackHandler,
	uploadDir string,
	allowedOrigins string,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/ping", handlers.PingHandler)

	mux.HandleFunc("GET /api/houses", houseHandler.GetHouses)
	mux.HandleFunc("POST /api/houses", houseHandler.CreateHouse)
	mux.HandleFunc("PUT /api/houses/{houseId}", houseHandler.UpdateHouse)
	mux.HandleFunc("DELETE /api/houses/{houseId}", houseHandler.DeleteHouse)

	mux.HandleFunc("POST /api/brokers/verify", brokerHandler.VerifyBroker)
	mux.HandleFunc("GET /api/brokers/me", brokerHandler.GetProfile)

	mux.HandleFunc("POST /api/broker-requests", requestHandler.CreateRequest)
	mux.HandleFunc("GET /api/broker-requests/mine", requestHandler.GetMyRequests)
	mux.HandleFunc("GET /api/admin/broker-requests", requestHandler.GetAdminRequests)
	mux.HandleFunc("POST /api/admin/broker-requests/{requestId}/decision", requestHandler.DecideRequest)
	mux.HandleFunc("PUT /api/broker/houses/{houseId}", requestHandler.UpdateBrokerHouse)
	mux.HandleFunc("DELETE /api/broker/houses/{houseId}", requestHandler.DeleteBrokerHouse)

	mux.HandleFunc("POST /api/feedback", feedbackHandler.SubmitFeedback)
	mux.HandleFunc("GET /api/feedback", feedbackHandler.GetFeedback)
	mux.HandleFunc("PUT /api/feedback/{feedbackId}", feedbackHandler.UpdateFeedback)
	mux.HandleFunc("DELETE /api/feedback/{feedbackId}", feedbackHandler.DeleteFeedback)

	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	return cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(allowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Broker-Token"},
		AllowCredentials: false,
	})(mux)
}
