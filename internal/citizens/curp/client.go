// Package curp queries the government CURP registry used to pre-fill and
// validate citizen identity during registration.
package curp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"portal/pkg/platform/circuit"
)

// DefaultTimeout bounds a single lookup.
const DefaultTimeout = 10 * time.Second

// Record is the identity data the registry returns for one CURP.
type Record struct {
	CURP            string `json:"curp"`
	Names           string `json:"nombres"`
	PaternalSurname string `json:"apellido_paterno"`
	MaternalSurname string `json:"apellido_materno"`
	BirthDate       string `json:"fecha_nacimiento"`
	Sex             string `json:"sexo"`
}

type envelope struct {
	Status    string          `json:"status"`
	Processed json.RawMessage `json:"procesado"`
}

type processed struct {
	Names           string `json:"nombres"`
	PaternalSurname string `json:"apellido_paterno"`
	MaternalSurname string `json:"apellido_materno"`
	BirthDate       string `json:"fecha_nacimiento"`
	Sex             string `json:"sexo"`
}

// Client performs one lookup per call with no retries. With a breaker,
// provider-side failures open the circuit and later lookups fail fast as
// CategoryUnavailable until a trial call succeeds.
type Client struct {
	http    *resty.Client
	baseURL string
	breaker *circuit.Breaker
	logger  *slog.Logger
}

type Option func(*Client)

// WithHTTPClient swaps the transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = resty.NewWithClient(hc).SetTimeout(hc.Timeout)
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) {
		c.breaker = b
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		http:    resty.New().SetTimeout(timeout),
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("Accept-Language", "es-MX,es;q=0.9")
	return c
}

// Lookup fetches the registry record for curp. Every failure is a
// *LookupError.
func (c *Client) Lookup(ctx context.Context, curp string) (*Record, error) {
	curp = Normalize(curp)
	if !Valid(curp) {
		return nil, newError(CategoryInvalidRequest, "formato de CURP inválido", nil)
	}
	if c.breaker != nil && !c.breaker.Allow() {
		return nil, newError(CategoryUnavailable, "el servicio de consulta de CURP no está disponible temporalmente", nil)
	}

	rec, err := c.fetch(ctx, curp)
	if c.breaker != nil {
		c.record(ctx, err)
	}
	return rec, err
}

func (c *Client) record(ctx context.Context, err error) {
	var le *LookupError
	if errors.As(err, &le) && le.IsProviderSide() {
		if c.breaker.RecordFailure().Opened {
			c.logger.WarnContext(ctx, "circuit opened", "breaker", c.breaker.Name(), "category", le.Category)
		}
		return
	}
	if c.breaker.RecordSuccess().Closed {
		c.logger.InfoContext(ctx, "circuit closed", "breaker", c.breaker.Name())
	}
}

func (c *Client) fetch(ctx context.Context, curp string) (*Record, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(c.baseURL + "/" + url.PathEscape(curp))
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, newError(CategoryTimeout, "el proveedor no respondió a tiempo", err)
		}
		return nil, newError(CategoryUnavailable, "error de conexión con el proveedor", err)
	}

	status := resp.StatusCode()
	switch {
	case status == http.StatusNotFound:
		return nil, newError(CategoryNotFound, "CURP no encontrada", nil)
	case status >= 500:
		return nil, newError(CategoryUnavailable, "error temporal del proveedor", nil)
	case status < 200 || status > 299:
		return nil, newError(CategoryBadStatus, "respuesta inesperada del proveedor: "+resp.Status(), nil)
	}

	return parse(curp, resp.Header().Get("Content-Type"), resp.Body())
}

func parse(curp, contentType string, body []byte) (*Record, error) {
	if !strings.Contains(contentType, "application/json") {
		return nil, newError(CategoryMalformedResponse, "la respuesta no es JSON: "+contentType, nil)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, newError(CategoryMalformedResponse, "JSON inválido", err)
	}
	if env.Status == "" {
		return nil, newError(CategoryMalformedResponse, `respuesta sin campo "status"`, nil)
	}
	if env.Status != "success" {
		return nil, newError(CategoryNotFound, "CURP no encontrada o inválida", nil)
	}
	if len(env.Processed) == 0 || string(env.Processed) == "null" {
		return nil, newError(CategoryMalformedResponse, `respuesta sin campo "procesado"`, nil)
	}
	var p processed
	if err := json.Unmarshal(env.Processed, &p); err != nil {
		return nil, newError(CategoryMalformedResponse, `campo "procesado" inválido`, err)
	}
	if strings.TrimSpace(p.Names) == "" {
		return nil, newError(CategoryNotFound, "CURP no encontrada en el padrón", nil)
	}
	return &Record{
		CURP:            curp,
		Names:           p.Names,
		PaternalSurname: p.PaternalSurname,
		MaternalSurname: p.MaternalSurname,
		BirthDate:       p.BirthDate,
		Sex:             p.Sex,
	}, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
