// Package eredes queries the E-REDES open-data API for scheduled network
// interruptions.
//
// Information Hiding:
// - Endpoint layout and the opendatasoft query language
// - Filter-value sanitization before embedding into a filter expression
// - Response envelope unwrapping into flat Portuguese-keyed records
package eredes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
)

// Defaults for the public open-data catalog.
const (
	DefaultBaseURL = "https://e-redes.opendatasoft.com/api/v2/catalog/datasets"
	DefaultDataset = "network-scheduling-work"

	requestTimeout = 15 * time.Second

	// maxFilterLen caps sanitized filter values before they are embedded
	// into a query expression.
	maxFilterLen = 100
)

// Record is one scheduled interruption, flattened for the assistant.
type Record struct {
	CodigoPostal string `json:"codigo_postal"`
	Concelho     string `json:"concelho"`
	Freguesia    string `json:"freguesia"`
	Inicio       string `json:"inicio"`
	Fim          string `json:"fim"`
	Duracao      string `json:"duracao"`
}

// Result is the flattened query response.
type Result struct {
	TotalEncontrados int      `json:"total_encontrados"`
	Resultados       []Record `json:"resultados"`
}

// StatusError reports a non-2xx response from the open-data API.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from E-REDES API", e.Code)
}

// Client queries the scheduled-interruptions dataset.
type Client struct {
	httpClient *http.Client
	baseURL    string
	dataset    string
}

// NewClient creates a client for the given catalog base URL and dataset.
// Empty arguments select the public defaults.
func NewClient(baseURL, dataset string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if dataset == "" {
		dataset = DefaultDataset
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    baseURL,
		dataset:    dataset,
	}
}

// wire shapes of the opendatasoft records endpoint.
type recordsEnvelope struct {
	TotalCount int `json:"total_count"`
	Records    []struct {
		Record struct {
			Fields map[string]any `json:"fields"`
		} `json:"record"`
	} `json:"records"`
}

// ScheduledInterruptions queries the API with optional municipality and
// postal-code filters, returning up to limit records ordered by most recent
// start time. Filter values are sanitized before being embedded in the
// query expression.
func (c *Client) ScheduledInterruptions(ctx context.Context, municipality, postalCode string, limit int) (Result, error) {
	endpoint := fmt.Sprintf("%s/%s/records", c.baseURL, c.dataset)

	var whereClauses []string
	if municipality != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("search(municipality, %q)", sanitizeFilter(municipality)))
	}
	if postalCode != "" {
		clean := strings.ReplaceAll(strings.TrimSpace(postalCode), "-", "")
		whereClauses = append(whereClauses, fmt.Sprintf("search(zipcode, %q)", sanitizeFilter(clean)))
	}

	params := url.Values{}
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("order_by", "startdatetime DESC")
	if len(whereClauses) > 0 {
		params.Set("where", strings.Join(whereClauses, " AND "))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, &StatusError{Code: resp.StatusCode}
	}

	var envelope recordsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return Result{}, fmt.Errorf("failed to decode response: %w", err)
	}

	result := Result{TotalEncontrados: envelope.TotalCount}
	for _, rec := range envelope.Records {
		fields := rec.Record.Fields
		result.Resultados = append(result.Resultados, Record{
			CodigoPostal: stringField(fields, "zipcode"),
			Concelho:     stringField(fields, "municipality"),
			Freguesia:    stringField(fields, "parish"),
			Inicio:       stringField(fields, "startdatetime"),
			Fim:          stringField(fields, "enddatetime"),
			Duracao:      stringField(fields, "durationallocation"),
		})
	}

	return result, nil
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

// sanitizeFilter strips a free-text filter value down to letters (accented
// included), digits, spaces and hyphens, then truncates to maxFilterLen
// runes. Everything else could alter the meaning of the surrounding query
// expression.
func sanitizeFilter(value string) string {
	var b strings.Builder
	count := 0
	for _, r := range value {
		if count >= maxFilterLen {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' {
			b.WriteRune(r)
			count++
		}
	}
	return b.String()
}
