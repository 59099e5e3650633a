package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"rentshare-backend/internal/calendar"
	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/selection"
)

type listingRequest struct {
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	DailyRate         decimal.Decimal `json:"daily_rate"`
	Location          string          `json:"location"`
	ImageURL          string          `json:"image_url"`
	DeliveryAvailable bool            `json:"delivery_available"`
}

func (req listingRequest) toListing(id string) *domain.Listing {
	return &domain.Listing{
		ID:                id,
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		DailyRate:         req.DailyRate,
		Location:          req.Location,
		ImageURL:          req.ImageURL,
		DeliveryAvailable: req.DeliveryAvailable,
	}
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"categories": h.svc.Listings.Categories()})
}

func (h *Handler) BrowseListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ListingFilter{
		Category: q.Get("category"),
		Query:    q.Get("q"),
		Sort:     domain.ListingSort(q.Get("sort")),
	}
	var err error
	if filter.MinRating, err = floatParam(q.Get("min_rating")); err != nil {
		writeError(w, r, domain.Validationf("min_rating must be a number"))
		return
	}
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, r, domain.Validationf("limit must be an integer"))
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		writeError(w, r, domain.Validationf("offset must be an integer"))
		return
	}

	listings, err := h.svc.Listings.Browse(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"listings": listings})
}

func (h *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	l, err := h.svc.Listings.Create(r.Context(), userID(r), req.toListing(""))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *Handler) GetListing(w http.ResponseWriter, r *http.Request) {
	l, err := h.svc.Listings.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *Handler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	l, err := h.svc.Listings.Update(r.Context(), userID(r), req.toListing(mux.Vars(r)["id"]))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *Handler) RemoveListing(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Listings.Remove(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) TogglePause(w http.ResponseWriter, r *http.Request) {
	l, err := h.svc.Listings.TogglePause(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *Handler) MyListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.svc.Listings.ListMine(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"listings": listings})
}

func (h *Handler) RemovedListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.svc.Listings.ListRemoved(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"listings": listings})
}

func (h *Handler) SaveListing(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Listings.Save(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UnsaveListing(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Listings.Unsave(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SavedListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.svc.Listings.ListSaved(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"listings": listings})
}

func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["id"]
	intervals, err := h.svc.Calendars.Availability(r.Context(), itemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item_id": itemID, "booked": intervals})
}

// Calendar renders one month. ?start alone marks a partial selection,
// ?start with ?end a complete one.
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		writeError(w, r, domain.Validationf("year is required"))
		return
	}
	month, err := strconv.Atoi(q.Get("month"))
	if err != nil {
		writeError(w, r, domain.Validationf("month is required"))
		return
	}

	sel := selection.EmptyState()
	if s := q.Get("start"); s != "" {
		start, err := calendar.ParseDate(s)
		if err != nil {
			writeError(w, r, domain.Validationf("invalid start: %v", err))
			return
		}
		sel = selection.Partial(start)
		if e := q.Get("end"); e != "" {
			end, err := calendar.ParseDate(e)
			if err != nil {
				writeError(w, r, domain.Validationf("invalid end: %v", err))
				return
			}
			sel = selection.Completed(start, end)
		}
	}

	cal, err := h.svc.Calendars.Calendar(r.Context(), mux.Vars(r)["id"], year, month, sel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cal)
}

type selectRequest struct {
	State    selection.State `json:"state"`
	Click    calendar.Date   `json:"click"`
	Delivery bool            `json:"delivery"`
}

func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	req := selectRequest{State: selection.EmptyState()}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Click.IsZero() {
		writeError(w, r, domain.Validationf("click date is required"))
		return
	}
	res, err := h.svc.Calendars.Select(r.Context(), mux.Vars(r)["id"], req.State, req.Click, req.Delivery)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end, ok := dateRange(w, r, q.Get("start"), q.Get("end"))
	if !ok {
		return
	}
	quote, err := h.svc.Bookings.Quote(r.Context(), mux.Vars(r)["id"], start, end, q.Get("delivery") == "true")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.svc.Reviews.ForItem(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}

func (h *Handler) AddReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	review, err := h.svc.Reviews.Add(r.Context(), userID(r), mux.Vars(r)["id"], req.Rating, req.Comment)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *Handler) ReviewSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Reviews.Summary(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func dateRange(w http.ResponseWriter, r *http.Request, startStr, endStr string) (calendar.Date, calendar.Date, bool) {
	start, err := calendar.ParseDate(startStr)
	if err != nil {
		writeError(w, r, domain.Validationf("invalid start: %v", err))
		return calendar.Date{}, calendar.Date{}, false
	}
	end, err := calendar.ParseDate(endStr)
	if err != nil {
		writeError(w, r, domain.Validationf("invalid end: %v", err))
		return calendar.Date{}, calendar.Date{}, false
	}
	return start, end, true
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func floatParam(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
