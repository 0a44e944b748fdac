// Package printer is the HTTP client for the brother_ql_web label printing
// service.
//
// The service is a Dockerized REST API, typically on port 8013, with no
// authentication. The client wraps its four operations (status query, text
// print, image print, barcode print) and normalizes every failure into one
// of three error kinds: [AuthenticationError], [CommunicationError], or the
// generic [Error]. Calling code can rely on errors.As to branch on them.
package printer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

const maxResponseBodySize = 1 << 20 // 1MB

// requestTimeout is the fixed per-call ceiling. There is no other
// cancellation mechanism besides the caller's context.
const requestTimeout = 30 * time.Second

// connection pooling limits; one printer per client, so keep these tight
const (
	defaultMaxIdleConnsPerHost = 2
	defaultIdleConnTimeout     = 60 * time.Second
)

// Service endpoint paths.
const (
	statusPath       = "/labeldesigner/api/printer_status"
	infoPath         = "/labeldesigner/api/printer_info"
	printPath        = "/labeldesigner/api/print"
	printImagePath   = "/labeldesigner/api/print/image"
	printBarcodePath = "/labeldesigner/api/print/barcode"
)

// StatusSnapshot is the printer status payload as served by the status
// endpoint. It is replaced wholesale on each successful poll and is never
// partially populated.
type StatusSnapshot struct {
	// Status is one of "ready", "printing", "error". Anything else should
	// be treated as unknown by consumers.
	Status string `json:"status"`

	// Printer describes the attached printer hardware.
	Printer PrinterInfo `json:"printer"`

	// LastPrint is the timestamp string of the last print job, if any.
	LastPrint string `json:"last_print,omitempty"`
}

// PrinterInfo describes the printer behind the web service.
type PrinterInfo struct {
	Model     string `json:"model"`
	Connected bool   `json:"connected"`
}

// Result is the normalized response of a print operation.
//
// When the service answers with JSON, Result carries the decoded fields.
// When it answers with a non-empty plain-text body, Status is "success" and
// Message holds the body. An empty 2xx body yields a nil Result.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Client issues HTTP requests against a single brother_ql_web service.
//
// A Client is immutable after construction and safe for concurrent use:
// print operations may overlap a status poll, sharing only the underlying
// connection pool.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	// timeout is requestTimeout; overridable in tests only.
	timeout time.Duration
}

// NewClient creates a [Client] for the service at http://host:port.
//
// The connection descriptor is validated once here; the base URL is fixed
// for the client's lifetime.
func NewClient(host string, port int, logger *slog.Logger) (*Client, error) {
	if host == "" {
		return nil, errors.New("host is required")
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: fmt.Sprintf("http://%s:%d", host, port),
		httpClient: &http.Client{
			// no client-level timeout; the per-request context enforces it
			Transport: &http.Transport{
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
		logger:  logger,
		timeout: requestTimeout,
	}, nil
}

// BaseURL returns the fixed base URL the client was constructed with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Status fetches the current printer status.
func (c *Client) Status(ctx context.Context) (*StatusSnapshot, error) {
	var snap StatusSnapshot
	if err := c.do(ctx, http.MethodGet, c.baseURL+statusPath, nil, nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Info fetches the service's printer information document. The shape is
// service-defined, so the body is returned as a generic map.
func (c *Client) Info(ctx context.Context) (map[string]any, error) {
	info := map[string]any{}
	if err := c.do(ctx, http.MethodGet, c.baseURL+infoPath, nil, nil, &info); err != nil {
		return nil, err
	}
	return info, nil
}

// PrintText prints a text label.
//
// The text is serialized as a single-element JSON array of a text object
// and form-encoded together with the full option set as an
// application/x-www-form-urlencoded body.
func (c *Client) PrintText(ctx context.Context, text string, style TextStyle, opts PrintOptions) (*Result, error) {
	style = style.withDefaults()

	encoded, err := json.Marshal([]textObject{{
		Font:        style.FontFamily,
		Size:        strconv.Itoa(style.FontSize),
		Inverted:    false,
		Todo:        false,
		Align:       style.Alignment,
		LineSpacing: style.LineSpacing,
		Color:       "black",
		Text:        text,
	}})
	if err != nil {
		return nil, &Error{msg: "failed to encode text payload", err: err}
	}

	form := opts.formValues()
	form.Set("text", string(encoded))

	headers := http.Header{}
	headers.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	headers.Set("Accept", "*/*")

	var res Result
	if err := c.do(ctx, http.MethodPost, c.baseURL+printPath, headers, strings.NewReader(form.Encode()), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// PrintImage prints an image label.
//
// The image bytes are attached as a multipart file part named "image" with
// content type image/png; the option set is sent as individual form fields.
func (c *Client) PrintImage(ctx context.Context, image []byte, opts PrintOptions) (*Result, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="label.png"`)
	header.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, &Error{msg: "failed to build multipart body", err: err}
	}
	if _, err := part.Write(image); err != nil {
		return nil, &Error{msg: "failed to build multipart body", err: err}
	}
	for key, values := range opts.formValues() {
		for _, value := range values {
			if err := mw.WriteField(key, value); err != nil {
				return nil, &Error{msg: "failed to build multipart body", err: err}
			}
		}
	}
	if err := mw.Close(); err != nil {
		return nil, &Error{msg: "failed to build multipart body", err: err}
	}

	headers := http.Header{}
	headers.Set("Content-Type", mw.FormDataContentType())

	var res Result
	if err := c.do(ctx, http.MethodPost, c.baseURL+printImagePath, headers, &buf, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// PrintBarcode prints a barcode label. The data and barcode type are passed
// as query parameters together with the option set. barcodeType defaults to
// "CODE128".
func (c *Client) PrintBarcode(ctx context.Context, data, barcodeType string, opts PrintOptions) (*Result, error) {
	if barcodeType == "" {
		barcodeType = DefaultBarcodeType
	}

	params := opts.formValues()
	params.Set("data", data)
	params.Set("type", barcodeType)

	requestURL := c.baseURL + printBarcodePath + "?" + params.Encode()

	var res Result
	if err := c.do(ctx, http.MethodGet, requestURL, nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Close releases idle connections. The client remains usable afterwards.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}

// do executes one request and applies the error taxonomy in priority order:
// auth errors first, then status/transport failures, then content parsing.
// Auth and communication errors are returned as-is, never double-wrapped.
func (c *Client) do(ctx context.Context, method, requestURL string, headers http.Header, body io.Reader, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return &Error{msg: "failed to create request", err: err}
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	// 401/403 take precedence over the generic status check
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &AuthenticationError{StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return &CommunicationError{
			StatusCode: resp.StatusCode,
			msg:        "failed to read printer service response",
			err:        err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &CommunicationError{
			StatusCode: resp.StatusCode,
			msg:        fmt.Sprintf("printer service returned status %d", resp.StatusCode),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	switch {
	case strings.Contains(contentType, "application/json"):
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return &Error{msg: "unexpected response from printer service", err: err}
		}
		return nil
	case len(raw) > 0:
		// non-JSON bodies are treated as a plain success message
		if res, ok := out.(*Result); ok {
			res.Status = "success"
			res.Message = string(raw)
		}
		return nil
	default:
		return nil
	}
}

// transportError maps a transport failure onto a [CommunicationError] with
// a message naming the failure class.
func transportError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &CommunicationError{msg: "timeout communicating with printer service", err: err}
	case isDNSError(err):
		return &CommunicationError{msg: "failed to resolve printer service host", err: err}
	default:
		return &CommunicationError{msg: "error communicating with printer service", err: err}
	}
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// HTTPStatus reports the HTTP status carried by a client error, if any.
// Policy layers (such as treating 400 responses as successes) branch on the
// code returned here rather than inspecting error causes.
func HTTPStatus(err error) (int, bool) {
	var authErr *AuthenticationError
	if errors.As(err, &authErr) {
		return authErr.StatusCode, true
	}
	var commErr *CommunicationError
	if errors.As(err, &commErr) && commErr.StatusCode != 0 {
		return commErr.StatusCode, true
	}
	return 0, false
}
