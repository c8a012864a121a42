package oddsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.the-odds-api.com/v4"

// ErrAPIKeyMissing indica credencial ausente; é falha de configuração do
// servidor, não do chamador, e não adianta retry sem intervenção do operador
var ErrAPIKeyMissing = errors.New("odds api key not configured")

// APIError carrega status e corpo do provedor verbatim
// Erros de cota/plano do The Odds API vêm no corpo; nunca sintetizar mensagem genérica
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("odds api status %d: %s", e.StatusCode, string(e.Body))
}

// JSONBody retorna o corpo como JSON quando parseável
func (e *APIError) JSONBody() (json.RawMessage, bool) {
	if json.Valid(e.Body) {
		return json.RawMessage(e.Body), true
	}
	return nil, false
}

// Client fala com o The Odds API v4.
// A credencial é injetada aqui, nunca lida de estado global
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Config fornece a credencial e overrides opcionais
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewClient monta um cliente configurado do The Odds API
func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL: base,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Sports lista os esportes disponíveis para a credencial configurada
func (c *Client) Sports(ctx context.Context) ([]Sport, error) {
	if c.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	u := fmt.Sprintf("%s/sports?apiKey=%s", c.baseURL, url.QueryEscape(c.apiKey))

	var out []Sport
	if err := c.get(ctx, u, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Odds busca eventos com quotes para um esporte
// regions, markets e oddsFormat são obrigatórios no v4; ausência ou sport
// inválido geram erro do provedor, que é propagado como *APIError
func (c *Client) Odds(ctx context.Context, sport, regions, markets, oddsFormat string) ([]Event, error) {
	if c.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	q := url.Values{}
	q.Set("regions", regions)
	q.Set("markets", markets)
	q.Set("oddsFormat", oddsFormat)
	q.Set("apiKey", c.apiKey)
	u := fmt.Sprintf("%s/sports/%s/odds?%s", c.baseURL, url.PathEscape(sport), q.Encode())

	var out []Event
	if err := c.get(ctx, u, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, u string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call odds api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &APIError{StatusCode: resp.StatusCode, Body: body}
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}
