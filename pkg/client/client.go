// Package client consume la API de gestión desde Go: arma formularios a
// partir de los esquemas, valida antes de enviar, serializa en JSON o
// multipart y resuelve los callbacks de éxito o error según el estado HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/jhoicas/Gestion-api/internal/domain/schema"
	"github.com/jhoicas/Gestion-api/pkg/jwt"
)

// GenericError mensaje cuando la respuesta de error no trae el campo error.
const GenericError = "Ocurrió un error inesperado. Intente nuevamente."

// ErrInvalidForm el formulario no pasó la validación local y no se envió.
var ErrInvalidForm = errors.New("client: el formulario tiene errores")

// Callbacks se resuelve exactamente uno por envío.
type Callbacks struct {
	// OnSuccess recibe el cuerpo JSON ya parseado (nil si la respuesta no trae cuerpo).
	OnSuccess func(body any)
	// OnError recibe el campo error del servidor o GenericError.
	OnError func(message string)
}

func (cb Callbacks) success(body any) {
	if cb.OnSuccess != nil {
		cb.OnSuccess(body)
	}
}

func (cb Callbacks) fail(msg string) {
	if cb.OnError != nil {
		cb.OnError(msg)
	}
}

// Client cliente HTTP de la API.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option configura el cliente.
type Option func(*Client)

// WithHTTPClient usa un *http.Client propio.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken fija el token del usuario o del cliente del portal.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New crea el cliente contra baseURL (p. ej. http://localhost:8080).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken reemplaza el token (tras login o logout).
func (c *Client) SetToken(token string) { c.token = token }

// Subject id del usuario o cliente dueño del token, leído sin verificar la
// firma (la verificación es del servidor).
func (c *Client) Subject() (string, error) {
	if c.token == "" {
		return "", fmt.Errorf("client: sin token")
	}
	claims, err := jwt.DecodeUnverified(c.token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Request destino de un envío.
type Request struct {
	Method   string
	Endpoint string            // ruta relativa a baseURL, p. ej. /api/customers
	Headers  map[string]string // p. ej. {"id": "..."} en la convención heredada
}

// Submit valida el formulario y, si no tiene errores, lo envía como JSON o
// multipart según haya archivos. Con errores no hace la petición: devuelve
// ErrInvalidForm y los mensajes quedan en form.Errors(). Mientras un envío
// sigue en curso, otro sobre el mismo formulario devuelve schema.ErrSubmitting
// sin resolver callbacks. Los errores de red o de estado se informan por
// OnError y también se devuelven.
func (c *Client) Submit(ctx context.Context, form *Form, req Request, cb Callbacks) error {
	err := form.Submit(ctx, func(ctx context.Context, values schema.Values) error {
		body, contentType, err := schema.Encode(form.Fields(), values)
		if err != nil {
			cb.fail(GenericError)
			return err
		}
		return c.send(ctx, req, bytes.NewReader(body), contentType, form, cb)
	})
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}
	return err
}

// Send envía una petición sin formulario (delete, acciones).
func (c *Client) Send(ctx context.Context, req Request, cb Callbacks) error {
	return c.send(ctx, req, nil, "", nil, cb)
}

func (c *Client) send(ctx context.Context, r Request, body io.Reader, contentType string, form *Form, cb Callbacks) error {
	raw, status, err := c.do(ctx, r.Method, r.Endpoint, r.Headers, body, contentType)
	if err != nil {
		cb.fail(GenericError)
		return err
	}
	if status < 200 || status > 299 {
		msg := errorMessage(raw)
		if form != nil {
			if fields := fieldErrors(raw); len(fields) > 0 {
				form.SetErrors(fields)
			}
		}
		cb.fail(msg)
		return &StatusError{Status: status, Message: msg}
	}
	parsed, err := parseBody(raw)
	if err != nil {
		cb.fail(GenericError)
		return err
	}
	cb.success(parsed)
	return nil
}

// StatusError respuesta no 2xx.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("client: HTTP %d: %s", e.Status, e.Message)
}

// GetJSON hace un GET y decodifica el cuerpo en out.
func (c *Client) GetJSON(ctx context.Context, endpoint string, headers map[string]string, out any) error {
	raw, status, err := c.do(ctx, http.MethodGet, endpoint, headers, nil, "")
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return &StatusError{Status: status, Message: errorMessage(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("client: respuesta inválida: %w", err)
	}
	return nil
}

// List página de una tabla con la consulta dada.
func (c *Client) List(ctx context.Context, resource string, q schema.TableQuery) (*ListResult, error) {
	var out ListResult
	if err := c.GetJSON(ctx, "/api/"+resource+"?"+EncodeQuery(q).Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListResult página devuelta por el servidor.
type ListResult struct {
	Items []schema.Record `json:"items"`
	Page  schema.PageInfo `json:"page"`
}

// EncodeQuery serializa la consulta de tabla en los parámetros que entiende
// el servidor.
func EncodeQuery(q schema.TableQuery) url.Values {
	v := url.Values{}
	if q.Page.Page > 0 {
		v.Set("page", fmt.Sprint(q.Page.Page))
	}
	if q.Page.Limit > 0 {
		v.Set("limit", fmt.Sprint(q.Page.Limit))
	}
	if q.Sort.Key != "" {
		v.Set("sort", q.Sort.Key)
		dir := string(q.Sort.Direction)
		if dir == "" {
			dir = string(schema.SortNone)
		}
		v.Set("dir", dir)
	}
	for _, f := range q.Filters {
		set := func(prefix, val string) {
			if val != "" {
				v.Set(prefix+"["+f.Key+"]", val)
			}
		}
		set("filter", f.Value)
		set("min", f.Min)
		set("max", f.Max)
		set("from", f.From)
		set("to", f.To)
	}
	return v
}

// OpenModal pide la configuración del modal y, en view/edit, carga el
// registro para precargar el formulario.
func (c *Client) OpenModal(ctx context.Context, resource string, mode schema.Mode, id string) (*Modal, error) {
	endpoint := "/api/schemas/" + resource + "/modal/" + string(mode)
	if id != "" {
		endpoint += "?id=" + url.QueryEscape(id)
	}
	var cfg schema.ModalConfig
	if err := c.GetJSON(ctx, endpoint, nil, &cfg); err != nil {
		return nil, err
	}
	var initial schema.Values
	if cfg.Mode == schema.ModeView || cfg.Mode == schema.ModeEdit {
		var rec schema.Record
		if err := c.GetJSON(ctx, cfg.Endpoint, nil, &rec); err != nil {
			return nil, err
		}
		initial = formValues(cfg.Fields, rec)
	}
	return &Modal{Config: cfg, Form: NewForm(cfg.Fields, initial)}, nil
}

// Modal modal abierto: configuración y formulario.
type Modal struct {
	Config schema.ModalConfig
	Form   *Form
}

// SubmitModal ejecuta el verbo configurado contra el endpoint del modal. En
// delete no se envía cuerpo; en view no hay nada que enviar.
func (c *Client) SubmitModal(ctx context.Context, m *Modal, cb Callbacks) error {
	req := Request{Method: m.Config.Method, Endpoint: m.Config.Endpoint}
	switch m.Config.Mode {
	case schema.ModeView:
		return nil
	case schema.ModeDelete:
		return c.Send(ctx, req, cb)
	}
	return c.Submit(ctx, m.Form, req, cb)
}

// formValues lleva un registro leído a valores de formulario: las
// referencias pobladas vuelven a ser ids.
func formValues(fields []schema.Field, rec schema.Record) schema.Values {
	out := schema.Values{}
	for _, f := range fields {
		v, ok := rec[f.Name]
		if !ok {
			continue
		}
		if f.Type == schema.FieldReference {
			v = schema.ReferenceID(v)
		}
		out[f.Name] = v
	}
	return out
}

func (c *Client) do(ctx context.Context, method, endpoint string, headers map[string]string, body io.Reader, contentType string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, 0, fmt.Errorf("client: armar petición: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("client: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("client: leer respuesta: %w", err)
	}
	return raw, resp.StatusCode, nil
}

func parseBody(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("client: respuesta no es JSON: %w", err)
	}
	return out, nil
}

// errorMessage campo error del cuerpo o GenericError.
func errorMessage(raw []byte) string {
	if !gjson.ValidBytes(raw) {
		return GenericError
	}
	if msg := gjson.GetBytes(raw, "error"); msg.Type == gjson.String && msg.Str != "" {
		return msg.Str
	}
	return GenericError
}

// fieldErrors errores por campo de una respuesta 422.
func fieldErrors(raw []byte) schema.Errors {
	fields := gjson.GetBytes(raw, "fields")
	if !fields.IsObject() {
		return nil
	}
	out := schema.Errors{}
	fields.ForEach(func(k, v gjson.Result) bool {
		out[k.String()] = v.String()
		return true
	})
	return out
}
