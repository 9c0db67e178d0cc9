// Package vision calls an external OCR backend for image documents. The
// backend is optional: when it is not configured or cannot be reached the
// caller falls back to heuristic extraction.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/taxdesk/taxdesk/internal/core/domain"
	"github.com/taxdesk/taxdesk/internal/core/extraction"
	"github.com/taxdesk/taxdesk/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
}

type Option func(*Client)

func WithResilienceExecutor(executor *resilience.Executor) Option {
	return func(c *Client) { c.executor = executor }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// New returns nil when baseURL is empty; callers treat a nil client as
// "vision not configured".
func New(baseURL, model string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		return nil
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type extractRequest struct {
	Model        string `json:"model"`
	DocumentType string `json:"document_type"`
	MimeType     string `json:"mime_type"`
	Image        string `json:"image"`
}

type extractResponse struct {
	Quality string `json:"quality"`
	Fields  []struct {
		Name       string            `json:"name"`
		Value      domain.FieldValue `json:"value"`
		Confidence float64           `json:"confidence"`
	} `json:"fields"`
	Summary struct {
		Income        int64 `json:"income"`
		Deductions    int64 `json:"deductions"`
		TaxableIncome int64 `json:"taxable_income"`
	} `json:"summary"`
	Messages []string `json:"messages"`
}

func (c *Client) Extract(ctx context.Context, image []byte, mimeType string, declaredType domain.DocumentType) (*domain.ExtractionResult, error) {
	if c == nil {
		return nil, domain.WrapError(domain.ErrVisionUnavailable, "vision extract", errors.New("no backend configured"))
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, domain.WrapError(domain.ErrVisionUnavailable, "vision extract",
			fmt.Errorf("unsupported mime type %q", mimeType))
	}

	request := extractRequest{
		Model:        c.model,
		DocumentType: string(declaredType),
		MimeType:     mimeType,
		Image:        base64.StdEncoding.EncodeToString(image),
	}

	var response extractResponse
	call := func(callCtx context.Context) error {
		return c.postJSON(callCtx, "/v1/extract", request, &response)
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "vision.extract", call, classifyVisionError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, asUnavailable(err)
	}
	return normalizeResult(&response, declaredType), nil
}

// normalizeResult coerces backend output into a result that holds the same
// invariants as heuristic extraction: clamped confidences, vision-tagged
// sources, a known quality value, an advisory whenever quality is below
// good, and a derived taxable income.
func normalizeResult(resp *extractResponse, declaredType domain.DocumentType) *domain.ExtractionResult {
	result := &domain.ExtractionResult{
		DeclaredType: declaredType,
		Quality:      domain.Quality(resp.Quality),
		Fields:       make([]domain.ExtractedField, 0, len(resp.Fields)),
		Messages:     append([]string{}, resp.Messages...),
	}
	switch result.Quality {
	case domain.QualityGood, domain.QualityLow, domain.QualityUnreadable:
	default:
		result.Quality = domain.QualityGood
	}
	if result.Quality != domain.QualityGood && len(result.Messages) == 0 {
		result.Messages = append(result.Messages, extraction.QualityAdvisory(result.Quality))
	}

	for _, f := range resp.Fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			continue
		}
		confidence := f.Confidence
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 1 {
			confidence = 1
		}
		result.Fields = append(result.Fields, domain.ExtractedField{
			Name:       name,
			Value:      f.Value,
			Confidence: confidence,
			Source:     domain.SourceVision,
		})
	}

	income := nonNegative(resp.Summary.Income)
	deductions := nonNegative(resp.Summary.Deductions)
	taxable := nonNegative(resp.Summary.TaxableIncome)
	if taxable == 0 && income > deductions {
		taxable = income - deductions
	}
	result.Summary = domain.Summary{Income: income, Deductions: deductions, TaxableIncome: taxable}
	return result
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal extract request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create extract request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("vision extract request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &HTTPStatusError{
			Operation:  "extract",
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(raw),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode extract response: %w", err)
	}
	return nil
}
