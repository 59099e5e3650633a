// Package http exposes the marketplace services as a JSON API.
package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentshare-backend/internal/metrics"
	"rentshare-backend/internal/security"
	"rentshare-backend/internal/service"
)

// Services bundles what the handlers call into.
type Services struct {
	Bookings      service.BookingService
	Calendars     service.CalendarService
	Listings      service.ListingService
	Messages      service.MessageService
	Reviews       service.ReviewService
	Payments      service.PaymentService
	Verification  service.VerificationService
	Profiles      service.ProfileService
	Notifications service.NotificationService
	Activity      service.ActivityService
}

type Handler struct {
	svc     Services
	limiter *UserRateLimiter
}

func NewHandler(svc Services, limiter *UserRateLimiter) *Handler {
	return &Handler{svc: svc, limiter: limiter}
}

// NewRouter registers every route by name; the names key the security table in config.
func NewRouter(h *Handler, tm security.TokenManager) *mux.Router {
	r := mux.NewRouter()
	r.Use(Recoverer, RequestLogger, NewAuthMiddleware(tm).Handler)

	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet).Name("health")
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet).Name("metrics")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Listings
	api.HandleFunc("/categories", h.Categories).Methods(http.MethodGet).Name("listings.categories")
	api.HandleFunc("/listings", h.BrowseListings).Methods(http.MethodGet).Name("listings.browse")
	api.HandleFunc("/listings", h.CreateListing).Methods(http.MethodPost).Name("listings.create")
	api.HandleFunc("/listings/mine", h.MyListings).Methods(http.MethodGet).Name("listings.mine")
	api.HandleFunc("/listings/removed", h.RemovedListings).Methods(http.MethodGet).Name("listings.removed")
	api.HandleFunc("/listings/{id}", h.GetListing).Methods(http.MethodGet).Name("listings.get")
	api.HandleFunc("/listings/{id}", h.UpdateListing).Methods(http.MethodPut).Name("listings.update")
	api.HandleFunc("/listings/{id}", h.RemoveListing).Methods(http.MethodDelete).Name("listings.remove")
	api.HandleFunc("/listings/{id}/pause", h.TogglePause).Methods(http.MethodPost).Name("listings.toggle_pause")
	api.HandleFunc("/listings/{id}/save", h.SaveListing).Methods(http.MethodPost).Name("listings.save")
	api.HandleFunc("/listings/{id}/save", h.UnsaveListing).Methods(http.MethodDelete).Name("listings.unsave")
	api.HandleFunc("/saved", h.SavedListings).Methods(http.MethodGet).Name("listings.saved")

	// Availability, calendar and quotes
	api.HandleFunc("/listings/{id}/availability", h.Availability).Methods(http.MethodGet).Name("listings.availability")
	api.HandleFunc("/listings/{id}/calendar", h.Calendar).Methods(http.MethodGet).Name("listings.calendar")
	api.HandleFunc("/listings/{id}/select", h.Select).Methods(http.MethodPost).Name("listings.select")
	api.HandleFunc("/listings/{id}/quote", h.Quote).Methods(http.MethodGet).Name("listings.quote")

	// Reviews
	api.HandleFunc("/listings/{id}/reviews", h.ListReviews).Methods(http.MethodGet).Name("reviews.list")
	api.HandleFunc("/listings/{id}/reviews", h.AddReview).Methods(http.MethodPost).Name("reviews.create")
	api.HandleFunc("/listings/{id}/reviews/summary", h.ReviewSummary).Methods(http.MethodGet).Name("reviews.summary")

	// Bookings
	api.HandleFunc("/bookings", h.RequestBooking).Methods(http.MethodPost).Name("bookings.create")
	api.HandleFunc("/bookings/{id}", h.GetBooking).Methods(http.MethodGet).Name("bookings.get")
	api.HandleFunc("/bookings/{id}/accept", h.AcceptBooking).Methods(http.MethodPost).Name("bookings.accept")
	api.HandleFunc("/bookings/{id}/decline", h.DeclineBooking).Methods(http.MethodPost).Name("bookings.decline")
	api.HandleFunc("/bookings/{id}/cancel", h.CancelBooking).Methods(http.MethodPost).Name("bookings.cancel")
	api.HandleFunc("/bookings/{id}/authorize", h.AuthorizeBooking).Methods(http.MethodPost).Name("bookings.authorize")
	api.HandleFunc("/rentals", h.Rentals).Methods(http.MethodGet).Name("bookings.rentals")
	api.HandleFunc("/lendings", h.Lendings).Methods(http.MethodGet).Name("bookings.lendings")
	api.HandleFunc("/stats", h.OwnerStats).Methods(http.MethodGet).Name("bookings.stats")

	// Profile
	api.HandleFunc("/profile", h.GetProfile).Methods(http.MethodGet).Name("profile.get")
	api.HandleFunc("/profile", h.UpdateProfile).Methods(http.MethodPatch).Name("profile.update")
	api.HandleFunc("/notifications", h.Notifications).Methods(http.MethodGet).Name("notifications.list")
	api.HandleFunc("/notifications/{id}/read", h.MarkNotificationRead).Methods(http.MethodPost).Name("notifications.read")
	api.HandleFunc("/activity", h.ActivityLog).Methods(http.MethodGet).Name("activity.list")
	api.HandleFunc("/verification", h.SubmitVerification).Methods(http.MethodPost).Name("verification.submit")
	api.HandleFunc("/verification", h.VerificationStatus).Methods(http.MethodGet).Name("verification.current")

	// Messages
	api.HandleFunc("/messages", h.Threads).Methods(http.MethodGet).Name("messages.threads")
	api.HandleFunc("/messages/{userId}", h.Chat).Methods(http.MethodGet).Name("messages.chat")
	api.HandleFunc("/messages/{userId}", h.limiter.Limit(h.SendMessage)).Methods(http.MethodPost).Name("messages.send")
	api.HandleFunc("/messages/{userId}/read", h.MarkChatRead).Methods(http.MethodPost).Name("messages.read")

	// Payments
	api.HandleFunc("/payments/setup-intent", h.CreateSetupIntent).Methods(http.MethodPost).Name("payments.setup_intent")
	api.HandleFunc("/payments/methods", h.ListCards).Methods(http.MethodGet).Name("payments.methods")
	api.HandleFunc("/payments/methods/{pmId}", h.DetachCard).Methods(http.MethodDelete).Name("payments.detach")
	api.HandleFunc("/payments/methods/{pmId}/default", h.SetDefaultCard).Methods(http.MethodPost).Name("payments.set_default")

	// Admin
	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/payments/{intentId}/capture", h.CapturePayment).Methods(http.MethodPost).Name("payments.capture")
	admin.HandleFunc("/payments/{intentId}/cancel", h.CancelPayment).Methods(http.MethodPost).Name("payments.cancel")
	admin.HandleFunc("/payments/{intentId}/refund", h.RefundPayment).Methods(http.MethodPost).Name("payments.refund")
	admin.HandleFunc("/verifications", h.ListVerifications).Methods(http.MethodGet).Name("verification.list")
	admin.HandleFunc("/verifications/{id}/review", h.ReviewVerification).Methods(http.MethodPost).Name("verification.review")

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
