package skyway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/skywayair/skyway-web/internal/models"
)

// Client talks to the Skyway REST backend. Every call runs through the
// middleware chain, so bearer injection and the 401 policy apply uniformly.
type Client struct {
	baseURL string
	http    Doer
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		BaseURL: "http://127.0.0.1:5000",
		Timeout: 10 * time.Second,
	}
}

func NewClient(cfg Config, source TokenSource) *Client {
	base := &http.Client{Timeout: cfg.Timeout}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    Chain(base, WithBearer(source), WithAuthCheck()),
	}
}

// Search fetches the result set for normalized criteria. Only set fields go
// on the wire, and the return date never does: the backend search endpoint
// does not accept a return key.
func (c *Client) Search(ctx context.Context, criteria models.Criteria) (*models.FlightResultSet, error) {
	q := url.Values{}
	if criteria.From != "" {
		q.Set("from", criteria.From)
	}
	if criteria.To != "" {
		q.Set("to", criteria.To)
	}
	if criteria.DepartDate != "" {
		q.Set("depart", criteria.DepartDate)
	}
	q.Set("guests", strconv.Itoa(criteria.Guests))

	var set models.FlightResultSet
	if err := c.getJSON(ctx, "search", "/api/search_flights", q, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

// Airports returns the {code, name} list for origin/destination autocomplete.
func (c *Client) Airports(ctx context.Context) ([]models.Airport, error) {
	var airports []models.Airport
	if err := c.getJSON(ctx, "airports", "/api/airports", nil, &airports); err != nil {
		return nil, err
	}
	return airports, nil
}

// Login exchanges credentials for an access token. A 401 here surfaces as
// ErrAuthExpired, which the login handler reports as bad credentials.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	var resp models.TokenResponse
	if err := c.postJSON(ctx, "login", "/api/login", req, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) error {
	return c.postJSON(ctx, "register", "/api/register", req, nil)
}

// CreateBooking submits one assembled booking request.
func (c *Client) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.BookingResult, error) {
	var result models.BookingResult
	if err := c.postJSON(ctx, "create booking", "/api/booking", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// BookingByID fetches one booking's detail for the summary and confirmation
// views.
func (c *Client) BookingByID(ctx context.Context, bookingID string) (*models.BookingResult, error) {
	q := url.Values{}
	q.Set("bookingId", bookingID)

	var result models.BookingResult
	if err := c.getJSON(ctx, "booking detail", "/api/booking", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// BookingsByEmail lists a traveller's bookings for the trip-history view.
// The reference filter is optional.
func (c *Client) BookingsByEmail(ctx context.Context, email, reference string) ([]models.BookingResult, error) {
	q := url.Values{}
	q.Set("email", email)
	if reference != "" {
		q.Set("reference_number", reference)
	}

	var bookings []models.BookingResult
	if err := c.getJSON(ctx, "trip history", "/api/booking", q, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// ConfirmPayment drives the payment step. A 409 means the booking was
// already paid for and maps to ErrAlreadyPaid; only this operation treats
// 409 that way.
func (c *Client) ConfirmPayment(ctx context.Context, bookingID string) (*models.BookingResult, error) {
	body := map[string]string{"booking_id": bookingID}

	resp, err := c.do(ctx, "confirm payment", http.MethodPost, "/api/booking/confirmation", nil, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return nil, ErrAlreadyPaid
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newFetchError("confirm payment", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var result models.BookingResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, newFetchError("confirm payment", err)
	}
	return &result, nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, out any) error {
	resp, err := c.do(ctx, op, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newFetchError(op, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newFetchError(op, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, op, path string, body, out any) error {
	resp, err := c.do(ctx, op, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newFetchError(op, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newFetchError(op, err)
	}
	return nil
}

// do builds and issues one request through the middleware chain. The
// sentinel errors pass through untouched; everything else wraps into a
// FetchError carrying the operation name.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any) (*http.Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, newFetchError(op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, newFetchError(op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, ErrAuthExpired) {
			return nil, err
		}
		return nil, newFetchError(op, err)
	}
	return resp, nil
}
