package sanity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"order-admin/internal/patterns"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrDocumentNotFound = errors.New("document not found")

type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	APIHost    string
	Token      string
	Timeout    time.Duration
	// BaseURL replaces https://<ProjectID>.<APIHost>/v<APIVersion> when set.
	BaseURL string
}

func (c Config) baseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	host := c.APIHost
	if host == "" {
		host = "api.sanity.io"
	}
	return fmt.Sprintf("https://%s.%s/v%s", c.ProjectID, host, strings.TrimPrefix(c.APIVersion, "v"))
}

// Client talks to the Sanity HTTP data API. Requests are never retried; the
// transport timeout is the only deadline besides the caller's context.
type Client struct {
	http    *resty.Client
	dataset string
	breaker *patterns.CircuitBreakerWrapper
}

func NewClient(cfg Config, breaker *patterns.CircuitBreakerWrapper) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	hc := resty.New().
		SetBaseURL(cfg.baseURL()).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetAuthToken(cfg.Token).
		SetHeader("Accept", "application/json").
		SetPathParam("dataset", cfg.Dataset)

	return &Client{http: hc, dataset: cfg.Dataset, breaker: breaker}
}

type APIError struct {
	StatusCode  int
	Type        string
	Description string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("sanity: status %d", e.StatusCode)
	}
	return fmt.Sprintf("sanity: status %d: %s", e.StatusCode, e.Description)
}

func (e *APIError) Is(target error) bool {
	if target != ErrDocumentNotFound {
		return false
	}
	if e.StatusCode == http.StatusNotFound {
		return true
	}
	return e.Type == "mutationError" && strings.Contains(strings.ToLower(e.Description), "not found")
}

// BreakerSettings are the circuit settings for a Sanity client. Answers the
// API gives about a single request, such as a missing document, leave the
// circuit alone, as does a caller cancelling. Transport errors, 5xx and 429
// count against it.
func BreakerSettings() patterns.BreakerSettings {
	s := patterns.DefaultBreakerSettings
	s.IsSuccessful = func(err error) bool {
		if err == nil || errors.Is(err, context.Canceled) {
			return true
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 && apiErr.StatusCode != http.StatusTooManyRequests
		}
		return false
	}
	return s
}

type errorBody struct {
	Error struct {
		Type        string `json:"type"`
		Description string `json:"description"`
	} `json:"error"`
	Message string `json:"message"`
}

func apiError(resp *resty.Response, body *errorBody) error {
	e := &APIError{StatusCode: resp.StatusCode()}
	if body != nil {
		e.Type = body.Error.Type
		e.Description = body.Error.Description
		if e.Description == "" {
			e.Description = body.Message
		}
	}
	if e.Description == "" {
		e.Description = strings.TrimSpace(resp.String())
	}
	return e
}

func (c *Client) run(fn func() error) error {
	if c.breaker == nil {
		return fn()
	}
	return c.breaker.Run(fn)
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
	Ms     int             `json:"ms"`
}

// Query runs a GROQ query and decodes its result into out. Params are sent
// as $name=<json> query parameters.
func (c *Client) Query(ctx context.Context, query string, params map[string]any, out any) error {
	req := c.http.R().SetContext(ctx).SetQueryParam("query", query)
	for k, v := range params {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("sanity: encode param %s: %w", k, err)
		}
		req.SetQueryParam("$"+k, string(b))
	}

	var res queryResponse
	var errBody errorBody
	err := c.run(func() error {
		resp, err := req.SetResult(&res).SetError(&errBody).Get("/data/query/{dataset}")
		if err != nil {
			return err
		}
		if resp.IsError() {
			return apiError(resp, &errBody)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sanity: query: %w", err)
	}

	log.WithFields(log.Fields{
		"dataset": c.dataset,
		"ms":      res.Ms,
	}).Debug("Sanity query completed")

	if len(res.Result) == 0 || string(res.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(res.Result, out); err != nil {
		return fmt.Errorf("sanity: decode query result: %w", err)
	}
	return nil
}

type Mutation struct {
	Patch  *PatchMutation  `json:"patch,omitempty"`
	Delete *DeleteMutation `json:"delete,omitempty"`
}

type PatchMutation struct {
	ID  string         `json:"id"`
	Set map[string]any `json:"set,omitempty"`
}

type DeleteMutation struct {
	ID string `json:"id"`
}

type mutateRequest struct {
	Mutations     []Mutation `json:"mutations"`
	TransactionID string     `json:"transactionId,omitempty"`
}

type MutationResult struct {
	ID        string `json:"id"`
	Operation string `json:"operation"`
}

type MutateResponse struct {
	TransactionID string           `json:"transactionId"`
	Results       []MutationResult `json:"results"`
}

// Mutate commits all mutations in a single transaction.
func (c *Client) Mutate(ctx context.Context, mutations ...Mutation) (*MutateResponse, error) {
	body := mutateRequest{
		Mutations:     mutations,
		TransactionID: uuid.New().String(),
	}

	var res MutateResponse
	var errBody errorBody
	err := c.run(func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParam("returnIds", "true").
			SetHeader("Content-Type", "application/json").
			SetBody(body).
			SetResult(&res).
			SetError(&errBody).
			Post("/data/mutate/{dataset}")
		if err != nil {
			return err
		}
		if resp.IsError() {
			return apiError(resp, &errBody)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sanity: mutate: %w", err)
	}

	log.WithFields(log.Fields{
		"dataset":     c.dataset,
		"transaction": res.TransactionID,
		"mutations":   len(mutations),
	}).Debug("Sanity mutation committed")

	return &res, nil
}

type mutator interface {
	Mutate(ctx context.Context, mutations ...Mutation) (*MutateResponse, error)
}

// Patch builds a partial update of one document. Nothing is sent until Commit.
type Patch struct {
	client mutator
	id     string
	set    map[string]any
}

func (c *Client) Patch(id string) *Patch {
	return NewPatch(c, id)
}

func NewPatch(m mutator, id string) *Patch {
	return &Patch{client: m, id: id, set: map[string]any{}}
}

func (p *Patch) Set(fields map[string]any) *Patch {
	for k, v := range fields {
		p.set[k] = v
	}
	return p
}

func (p *Patch) Commit(ctx context.Context) error {
	res, err := p.client.Mutate(ctx, Mutation{Patch: &PatchMutation{ID: p.id, Set: p.set}})
	if err != nil {
		return err
	}
	if len(res.Results) == 0 {
		return fmt.Errorf("sanity: patch %s: %w", p.id, ErrDocumentNotFound)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	res, err := c.Mutate(ctx, Mutation{Delete: &DeleteMutation{ID: id}})
	if err != nil {
		return err
	}
	if len(res.Results) == 0 {
		return fmt.Errorf("sanity: delete %s: %w", id, ErrDocumentNotFound)
	}
	return nil
}
