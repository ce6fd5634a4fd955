// ABOUTME: HTTP client for the ViaCEP postal-code lookup service
// ABOUTME: Enriches addresses with street, neighborhood, city, and state by CEP

package viacep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// ErrCepNotFound is returned when the service doesn't know the CEP.
var ErrCepNotFound = errors.New("cep not found")

// ErrInvalidCep is returned when the input is not an 8-digit CEP.
var ErrInvalidCep = errors.New("invalid cep")

// defaultTimeout bounds a lookup when no timeout is configured.
const defaultTimeout = 5 * time.Second

var nonDigits = regexp.MustCompile(`[^0-9]`)

// Address is the enrichment result for one CEP.
type Address struct {
	Cep          string
	Street       string
	Complement   string
	Neighborhood string
	City         string
	State        string
}

// response mirrors the ViaCEP JSON payload.
type response struct {
	Cep          string `json:"cep"`
	Street       string `json:"logradouro"`
	Complement   string `json:"complemento"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
	Error        bool   `json:"erro"`
}

// Client queries the ViaCEP web service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a ViaCEP client for the given base URL (e.g.
// "https://viacep.com.br"). A non-positive timeout falls back to 5s.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Lookup resolves a CEP to an address. The input may contain punctuation
// ("01001-000"); it is normalized to 8 digits. The returned Cep is the
// normalized digit form.
func (c *Client) Lookup(ctx context.Context, cep string) (*Address, error) {
	cleaned := nonDigits.ReplaceAllString(cep, "")
	if len(cleaned) != 8 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCep, cep)
	}

	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, cleaned)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying viacep: %w", err)
	}
	defer resp.Body.Close()

	// ViaCEP answers 400 for syntactically bad CEPs
	if resp.StatusCode == http.StatusBadRequest {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCep, cep)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("viacep returned status %d", resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding viacep response: %w", err)
	}

	if body.Error {
		return nil, ErrCepNotFound
	}

	return &Address{
		Cep:          cleaned,
		Street:       body.Street,
		Complement:   body.Complement,
		Neighborhood: body.Neighborhood,
		City:         body.City,
		State:        body.State,
	}, nil
}
