package rentals

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

// DefaultRequestTimeout bounds a single ListActive call.
const DefaultRequestTimeout = 10 * time.Second

// HTTPSource reads active rentals from the backoffice REST API.
type HTTPSource struct {
	BaseURL string
	Tenant  string
	// Token is sent as a bearer token when non-empty.
	Token   string
	Timeout time.Duration
	Client  *http.Client
}

var _ Source = (*HTTPSource)(nil)

func (s *HTTPSource) endpoint() (string, error) {
	base, err := url.Parse(strings.TrimRight(s.BaseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("base url %q must be absolute", s.BaseURL)
	}
	// RawPath keeps a tenant containing "/" inside a single segment.
	path, rawPath := "/api/v1/rentals", "/api/v1/rentals"
	if s.Tenant != "" {
		path = "/api/v1/tenants/" + s.Tenant + "/rentals"
		rawPath = "/api/v1/tenants/" + url.PathEscape(s.Tenant) + "/rentals"
	}
	base.RawPath = base.EscapedPath() + rawPath
	base.Path += path
	q := base.Query()
	q.Set("status", StatusActive)
	base.RawQuery = q.Encode()
	return base.String(), nil
}

// ListActive fetches the rentals currently checked in.
func (s *HTTPSource) ListActive(ctx context.Context) ([]ActiveRental, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint, err := s.endpoint()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET rentals: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read rentals response: %w", err)
	}
	if resp.StatusCode >= 400 {
		msg := strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return nil, fmt.Errorf("GET rentals: %d %s", resp.StatusCode, msg)
	}

	list, err := parseRentalsJSON(body)
	if err != nil {
		return nil, err
	}
	return FilterActive(list), nil
}

// apiRental matches the JSON returned by the rentals endpoint. Both camelCase
// and snake_case spellings are seen depending on the backend version.
type apiRental struct {
	ID                    json.RawMessage `json:"id"`
	CheckInTime           string          `json:"checkInTime"`
	CheckInTimeSnake      string          `json:"check_in_time"`
	ExpectedDuration      *int            `json:"expectedDurationMinutes"`
	ExpectedDurationSnake *int            `json:"expected_duration_minutes"`
	Status                string          `json:"status"`
	EquipmentTag          string          `json:"equipmentTag"`
	CustomerName          string          `json:"customerName"`
	Equipment             *struct {
		Tag  string `json:"tag"`
		Name string `json:"name"`
	} `json:"equipment"`
	Customer *struct {
		Name      string `json:"name"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"customer"`
}

// parseRentalsJSON parses the API response into ActiveRental values.
// The API may return a JSON array or an object wrapping it under
// "data", "rentals" or "items".
func parseRentalsJSON(data []byte) ([]ActiveRental, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var raw []apiRental

	if data[0] == '[' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse rentals JSON array: %w", err)
		}
	} else {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("parse rentals JSON: %w", err)
		}
		found := false
		for _, key := range []string{"data", "rentals", "items"} {
			if v, ok := wrapper[key]; ok {
				if err := json.Unmarshal(v, &raw); err == nil {
					found = true
					break
				}
			}
		}
		if !found {
			return nil, fmt.Errorf("unexpected API response format")
		}
	}

	list := make([]ActiveRental, len(raw))
	for i, ar := range raw {
		list[i] = ar.toRental()
	}
	return list, nil
}

func (ar apiRental) toRental() ActiveRental {
	r := ActiveRental{
		ID:             rawID(ar.ID),
		Status:         NormalizeStatus(ar.Status),
		EquipmentLabel: ar.EquipmentTag,
		CustomerName:   ar.CustomerName,
	}

	if t, ok := parseTimestamp(firstNonEmpty(ar.CheckInTime, ar.CheckInTimeSnake)); ok {
		r.CheckInTime = &t
	}

	switch {
	case ar.ExpectedDuration != nil:
		r.ExpectedDurationMinutes = ar.ExpectedDuration
	case ar.ExpectedDurationSnake != nil:
		r.ExpectedDurationMinutes = ar.ExpectedDurationSnake
	}

	if r.EquipmentLabel == "" && ar.Equipment != nil {
		r.EquipmentLabel = firstNonEmpty(ar.Equipment.Tag, ar.Equipment.Name)
	}
	if r.CustomerName == "" && ar.Customer != nil {
		full := strings.TrimSpace(ar.Customer.FirstName + " " + ar.Customer.LastName)
		r.CustomerName = firstNonEmpty(ar.Customer.Name, full)
	}
	return r
}

// rawID accepts both string and numeric ids.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	// Zoneless timestamps are wall-clock times at the dock.
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
