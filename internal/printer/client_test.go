package printer

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"
)

// testClient creates a Client pointed at an httptest server.
func testClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("failed to parse test server URL: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("failed to parse test server port: %v", err)
	}

	client, err := NewClient(u.Hostname(), port, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		port    int
		wantErr bool
	}{
		{"valid", "192.168.1.50", 8013, false},
		{"empty host", "", 8013, true},
		{"port zero", "printer.local", 0, true},
		{"port negative", "printer.local", -1, true},
		{"port too large", "printer.local", 70000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.host, tt.port, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewClient() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && client.BaseURL() != "http://"+tt.host+":"+strconv.Itoa(tt.port) {
				t.Errorf("BaseURL() = %v", client.BaseURL())
			}
		})
	}
}

func TestClient_Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/labeldesigner/api/printer_status" {
			t.Errorf("path = %v, want /labeldesigner/api/printer_status", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ready","printer":{"model":"QL-810W","connected":true},"last_print":"2026-08-26T10:00:00Z"}`))
	}))
	defer server.Close()

	client := testClient(t, server)

	snap, err := client.Status(context.Background())
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if snap.Status != "ready" {
		t.Errorf("Status = %v, want ready", snap.Status)
	}
	if snap.Printer.Model != "QL-810W" {
		t.Errorf("Printer.Model = %v, want QL-810W", snap.Printer.Model)
	}
	if !snap.Printer.Connected {
		t.Error("Printer.Connected = false, want true")
	}
	if snap.LastPrint != "2026-08-26T10:00:00Z" {
		t.Errorf("LastPrint = %v", snap.LastPrint)
	}
}

// TestClient_AuthError verifies that 401 and 403 produce an
// AuthenticationError, taking precedence over the generic non-2xx handling.
func TestClient_AuthError(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(strconv.Itoa(code), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(code)
			}))
			defer server.Close()

			client := testClient(t, server)

			_, err := client.Status(context.Background())
			var authErr *AuthenticationError
			if !errors.As(err, &authErr) {
				t.Fatalf("Status() error = %T (%v), want *AuthenticationError", err, err)
			}
			if authErr.StatusCode != code {
				t.Errorf("StatusCode = %v, want %v", authErr.StatusCode, code)
			}

			status, ok := HTTPStatus(err)
			if !ok || status != code {
				t.Errorf("HTTPStatus() = %v, %v, want %v, true", status, ok, code)
			}
		})
	}
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(t, server)

	_, err := client.Status(context.Background())
	var commErr *CommunicationError
	if !errors.As(err, &commErr) {
		t.Fatalf("Status() error = %T (%v), want *CommunicationError", err, err)
	}
	if commErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %v, want 500", commErr.StatusCode)
	}
}

// TestClient_Timeout verifies that a slow server produces a
// CommunicationError with no HTTP status attached.
func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := testClient(t, server)
	client.timeout = 50 * time.Millisecond

	_, err := client.Status(context.Background())
	var commErr *CommunicationError
	if !errors.As(err, &commErr) {
		t.Fatalf("Status() error = %T (%v), want *CommunicationError", err, err)
	}
	if _, ok := HTTPStatus(err); ok {
		t.Error("HTTPStatus() ok = true for a transport failure, want false")
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	// bind and immediately close to obtain a port nothing listens on
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()

	client, err := NewClient("127.0.0.1", port, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	_, err = client.Status(context.Background())
	var commErr *CommunicationError
	if !errors.As(err, &commErr) {
		t.Fatalf("Status() error = %T (%v), want *CommunicationError", err, err)
	}
}

func TestClient_PrintText(t *testing.T) {
	var gotForm url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/labeldesigner/api/print" {
			t.Errorf("path = %v, want /labeldesigner/api/print", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error = %v", err)
		}
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","message":"printed"}`))
	}))
	defer server.Close()

	client := testClient(t, server)

	res, err := client.PrintText(context.Background(), "hello", TextStyle{FontSize: 42}, PrintOptions{})
	if err != nil {
		t.Fatalf("PrintText() error = %v", err)
	}
	if res.Status != "success" {
		t.Errorf("Status = %v, want success", res.Status)
	}

	var objs []textObject
	if err := json.Unmarshal([]byte(gotForm.Get("text")), &objs); err != nil {
		t.Fatalf("text field is not a JSON array: %v", err)
	}
	if len(objs) != 1 {
		t.Fatalf("text array length = %v, want 1", len(objs))
	}
	if objs[0].Text != "hello" {
		t.Errorf("text = %v, want hello", objs[0].Text)
	}
	if objs[0].Size != "42" {
		t.Errorf("size = %v, want 42", objs[0].Size)
	}
	if objs[0].Font != DefaultFontFamily {
		t.Errorf("font = %v, want %v", objs[0].Font, DefaultFontFamily)
	}
	if objs[0].Color != "black" {
		t.Errorf("color = %v, want black", objs[0].Color)
	}
	if gotForm.Get("label_size") != DefaultLabelSize {
		t.Errorf("label_size = %v, want %v", gotForm.Get("label_size"), DefaultLabelSize)
	}
}

func TestClient_PrintImage(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G'}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/labeldesigner/api/print/image" {
			t.Errorf("path = %v, want /labeldesigner/api/print/image", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm() error = %v", err)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("FormFile(image) error = %v", err)
		}
		defer func() { _ = file.Close() }()
		if header.Filename != "label.png" {
			t.Errorf("filename = %v, want label.png", header.Filename)
		}
		if r.FormValue("image_mode") != "grayscale" {
			t.Errorf("image_mode = %v, want grayscale", r.FormValue("image_mode"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client := testClient(t, server)

	if _, err := client.PrintImage(context.Background(), payload, PrintOptions{}); err != nil {
		t.Fatalf("PrintImage() error = %v", err)
	}
}

func TestClient_PrintBarcode(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/labeldesigner/api/print/barcode" {
			t.Errorf("path = %v, want /labeldesigner/api/print/barcode", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client := testClient(t, server)

	if _, err := client.PrintBarcode(context.Background(), "4006381333931", "", PrintOptions{}); err != nil {
		t.Fatalf("PrintBarcode() error = %v", err)
	}
	if gotQuery.Get("data") != "4006381333931" {
		t.Errorf("data = %v, want 4006381333931", gotQuery.Get("data"))
	}
	if gotQuery.Get("type") != DefaultBarcodeType {
		t.Errorf("type = %v, want %v", gotQuery.Get("type"), DefaultBarcodeType)
	}
}

// TestClient_PlainTextResponse verifies that a non-JSON 2xx body is treated
// as a plain success message.
func TestClient_PlainTextResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("label queued"))
	}))
	defer server.Close()

	client := testClient(t, server)

	res, err := client.PrintBarcode(context.Background(), "123", "CODE128", PrintOptions{})
	if err != nil {
		t.Fatalf("PrintBarcode() error = %v", err)
	}
	if res.Status != "success" {
		t.Errorf("Status = %v, want success", res.Status)
	}
	if res.Message != "label queued" {
		t.Errorf("Message = %v, want %q", res.Message, "label queued")
	}
}

// TestClient_EmptyResponse verifies that an empty 2xx body succeeds without
// populating the result.
func TestClient_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := testClient(t, server)

	res, err := client.PrintBarcode(context.Background(), "123", "CODE128", PrintOptions{})
	if err != nil {
		t.Fatalf("PrintBarcode() error = %v", err)
	}
	if res.Status != "" || res.Message != "" {
		t.Errorf("Result = %+v, want zero value", res)
	}
}

func TestClient_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	client := testClient(t, server)

	_, err := client.Status(context.Background())
	if err == nil {
		t.Fatal("Status() error = nil, want error")
	}
	var genericErr *Error
	if !errors.As(err, &genericErr) {
		t.Fatalf("Status() error = %T (%v), want *Error", err, err)
	}
	// malformed content must not surface as an auth or communication error
	var authErr *AuthenticationError
	var commErr *CommunicationError
	if errors.As(err, &authErr) || errors.As(err, &commErr) {
		t.Errorf("malformed JSON mapped to %T, want generic *Error", err)
	}
}

func TestClient_Close(t *testing.T) {
	client, err := NewClient("localhost", 8013, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	// safe and idempotent
	client.Close()
	client.Close()

	var nilClient *Client
	nilClient.Close()
}

func TestHTTPStatus_PlainError(t *testing.T) {
	if _, ok := HTTPStatus(errors.New("boom")); ok {
		t.Error("HTTPStatus() ok = true for a plain error, want false")
	}
	if _, ok := HTTPStatus(nil); ok {
		t.Error("HTTPStatus() ok = true for nil, want false")
	}
}
