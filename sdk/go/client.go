package hotelsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal hotel HTTP API client.
type Client struct {
	BaseURL    string
	ActorID    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL, actorID string) *Client {
	return &Client{
		BaseURL: baseURL,
		ActorID: actorID,
		Timeout: 10 * time.Second,
	}
}

// Reservation represents the API reservation model.
type Reservation struct {
	ID              string  `json:"id"`
	GuestName       string  `json:"guestName"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	CheckIn         string  `json:"checkIn"`
	CheckOut        string  `json:"checkOut"`
	RoomType        string  `json:"roomType"`
	RoomNumber      string  `json:"roomNumber,omitempty"`
	Status          string  `json:"status"`
	TotalAmount     float64 `json:"totalAmount"`
	Guests          int     `json:"guests"`
	SpecialRequests string  `json:"specialRequests,omitempty"`
}

// NewReservation is the payload for CreateReservation.
type NewReservation struct {
	GuestName       string `json:"guestName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	CheckIn         string `json:"checkIn"`
	CheckOut        string `json:"checkOut"`
	RoomType        string `json:"roomType"`
	Guests          int    `json:"guests"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

// Room represents the API room model (partial).
type Room struct {
	ID       string  `json:"id"`
	Number   string  `json:"number"`
	Floor    int     `json:"floor"`
	Type     string  `json:"type"`
	Status   string  `json:"status"`
	Guest    string  `json:"guest,omitempty"`
	CheckOut string  `json:"checkOut,omitempty"`
	Price    float64 `json:"price"`
}

// Task represents a housekeeping task.
type Task struct {
	ID            string `json:"id"`
	RoomNumber    string `json:"roomNumber"`
	Type          string `json:"type"`
	AssignedTo    string `json:"assignedTo"`
	Priority      string `json:"priority"`
	EstimatedTime int    `json:"estimatedTime"`
	Status        string `json:"status"`
}

// BulkResult lists the reservations a bulk transition changed.
type BulkResult struct {
	Affected []string `json:"affected"`
	Count    int      `json:"count"`
}

// Event represents a journal entry.
type Event struct {
	ID         int64          `json:"id"`
	TS         string         `json:"ts"`
	Type       string         `json:"type"`
	EntityID   string         `json:"entity_id"`
	EntityKind string         `json:"entity_kind"`
	ActorID    string         `json:"actor_id"`
	Payload    map[string]any `json:"payload"`
}

// PaginatedEvents wraps list responses with cursors.
type PaginatedEvents struct {
	Items      []Event `json:"items"`
	NextCursor string  `json:"next_cursor"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Code       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d code=%s body=%s", e.StatusCode, e.Code, e.Body)
}

// CreateReservation books a pending reservation.
func (c *Client) CreateReservation(ctx context.Context, in NewReservation) (Reservation, error) {
	var resp Reservation
	err := c.do(ctx, http.MethodPost, "reservations", in, &resp)
	return resp, err
}

// Reservations lists reservations matching status (all when empty).
func (c *Client) Reservations(ctx context.Context, status string) ([]Reservation, error) {
	endpoint := "reservations"
	if status != "" {
		endpoint += "?status=" + url.QueryEscape(status)
	}
	var resp []Reservation
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// Transition applies confirm, check-in, check-out or cancel.
func (c *Client) Transition(ctx context.Context, id, action string) (Reservation, error) {
	var resp Reservation
	endpoint := fmt.Sprintf("reservations/%s/%s", url.PathEscape(id), action)
	err := c.do(ctx, http.MethodPost, endpoint, nil, &resp)
	return resp, err
}

// BulkCheckIn checks in every due confirmed reservation among ids (all when empty).
func (c *Client) BulkCheckIn(ctx context.Context, ids []string) (BulkResult, error) {
	body := map[string]any{}
	if len(ids) > 0 {
		body["ids"] = ids
	}
	var resp BulkResult
	err := c.do(ctx, http.MethodPost, "reservations/bulk/check-in", body, &resp)
	return resp, err
}

// AddRoom registers a room.
func (c *Client) AddRoom(ctx context.Context, number string, floor int, roomType string, capacity int) (Room, error) {
	body := map[string]any{
		"number":   number,
		"floor":    floor,
		"type":     roomType,
		"capacity": capacity,
	}
	var resp Room
	err := c.do(ctx, http.MethodPost, "rooms", body, &resp)
	return resp, err
}

// AssignGuest occupies an available room.
func (c *Client) AssignGuest(ctx context.Context, room, guestName, checkOut string) (Room, error) {
	body := map[string]any{
		"guestName": guestName,
		"checkOut":  checkOut,
	}
	var resp Room
	endpoint := fmt.Sprintf("rooms/%s/assign", url.PathEscape(room))
	err := c.do(ctx, http.MethodPost, endpoint, body, &resp)
	return resp, err
}

// AdvanceTask moves a housekeeping task to status.
func (c *Client) AdvanceTask(ctx context.Context, id, status string) (Task, error) {
	var resp Task
	endpoint := fmt.Sprintf("tasks/%s/advance", url.PathEscape(id))
	err := c.do(ctx, http.MethodPost, endpoint, map[string]any{"status": status}, &resp)
	return resp, err
}

// EventsPage returns a paginated event listing, newest first.
func (c *Client) EventsPage(ctx context.Context, limit int, cursor string) (PaginatedEvents, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	endpoint := "events"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	var resp PaginatedEvents
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/v0/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.ActorID != "" {
		req.Header.Set("X-Actor-Id", c.ActorID)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(b)}
		var env struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if json.Unmarshal(b, &env) == nil {
			apiErr.Code = env.Error.Code
		}
		return apiErr
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
