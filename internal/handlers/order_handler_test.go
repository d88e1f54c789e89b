package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func postOrder(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/order", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

const validOrder = `{"tire":"X","size":"205/55 R16","price":100,"quantity":2,"total":200,"customer":"Jane","phone":"123"}`

func TestOrderHandler_CreateOrder_Sequence(t *testing.T) {
	stub := &telegramStub{}
	stack := newTestStack(t, "", stub)
	today := time.Now().UTC().Format("20060102")

	first := postOrder(t, stack.router, validOrder)
	if first.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", first.Code, first.Body.String())
	}
	body := decodeBody(t, first)
	if body["success"] != true {
		t.Errorf("expected success=true, got %v", body["success"])
	}
	if body["orderId"] != "FTS-"+today+"-001" {
		t.Errorf("orderId = %v, want FTS-%s-001", body["orderId"], today)
	}
	if dt, _ := body["orderDateTime"].(string); len(dt) != len("02.01.2006, 15:04:05") {
		t.Errorf("orderDateTime = %q", dt)
	}

	second := postOrder(t, stack.router, validOrder)
	if got := decodeBody(t, second)["orderId"]; got != "FTS-"+today+"-002" {
		t.Errorf("second orderId = %v, want FTS-%s-002", got, today)
	}

	sent := stub.sent()
	if len(sent) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(sent))
	}
	text, _ := sent[0]["text"].(string)
	if !strings.Contains(text, "FTS-"+today+"-001") || !strings.Contains(text, "Jane") {
		t.Errorf("message does not describe the order:\n%s", text)
	}
	if sent[0]["parse_mode"] != "HTML" || sent[0]["chat_id"] != "42" {
		t.Errorf("unexpected message envelope: %v", sent[0])
	}
}

func TestOrderHandler_CreateOrder_Errors(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "empty customer",
			body:           `{"tire":"X","customer":"","phone":"1"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Missing data",
		},
		{
			name:           "missing tire",
			body:           `{"customer":"Jane","phone":"1"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Missing data",
		},
		{
			name:           "malformed json",
			body:           `{"tire":`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &telegramStub{}
			stack := newTestStack(t, "", stub)

			w := postOrder(t, stack.router, tt.body)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if got := decodeBody(t, w)["error"]; got != tt.expectedError {
				t.Errorf("error = %v, want %q", got, tt.expectedError)
			}
			if n := len(stub.sent()); n != 0 {
				t.Errorf("expected no messages to be sent, got %d", n)
			}
		})
	}
}

func TestOrderHandler_CreateOrder_LegacyStockFields(t *testing.T) {
	stub := &telegramStub{}
	stack := newTestStack(t, "", stub)

	w := postOrder(t, stack.router,
		`{"tire":"X","size":"195/65 R15","price":"80","quantity":"1","total":80,"customer":"Ann","phone":"5","stock":2,"showroom":3,"basement":0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	text, _ := stub.sent()[0]["text"].(string)
	if !strings.Contains(text, "Available: 5") {
		t.Errorf("expected available to be summed from locations:\n%s", text)
	}
	if !strings.Contains(text, "80.00 $") {
		t.Errorf("expected price formatted to two decimals:\n%s", text)
	}
}

func TestOrderHandler_CreateOrder_TelegramRefused(t *testing.T) {
	stub := &telegramStub{
		status: http.StatusBadRequest,
		body:   `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`,
	}
	stack := newTestStack(t, "", stub)

	w := postOrder(t, stack.router, validOrder)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "Telegram error" {
		t.Errorf("error = %v", body["error"])
	}
	details, ok := body["details"].(map[string]interface{})
	if !ok || details["description"] != "Bad Request: chat not found" {
		t.Errorf("upstream body not relayed: %v", body["details"])
	}
	if n := len(stub.sent()); n != 1 {
		t.Errorf("expected exactly one attempt, got %d", n)
	}
}

func TestOrderHandler_CreateOrder_TelegramUnreachable(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()
	stack := newTestStack(t, dead.URL, nil)

	w := postOrder(t, stack.router, validOrder)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
	if got := decodeBody(t, w)["error"]; got != "Server error" {
		t.Errorf("error = %v, want Server error", got)
	}
	if strings.Contains(w.Body.String(), testToken) {
		t.Error("response leaks the bot token")
	}
}

func TestOrderHandler_SendTest(t *testing.T) {
	t.Run("relays upstream body", func(t *testing.T) {
		stub := &telegramStub{body: `{"ok":true,"result":{"message_id":77}}`}
		stack := newTestStack(t, "", stub)

		w := httptest.NewRecorder()
		stack.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/test", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		if w.Body.String() != `{"ok":true,"result":{"message_id":77}}` {
			t.Errorf("body not verbatim: %s", w.Body.String())
		}
		msg := stub.sent()[0]
		if msg["text"] != "✅ Test message from FlyTire backend" {
			t.Errorf("unexpected test text %v", msg["text"])
		}
		if _, ok := msg["parse_mode"]; ok {
			t.Error("test message must be sent without markup")
		}
	})

	t.Run("relays refusals too", func(t *testing.T) {
		stub := &telegramStub{status: http.StatusUnauthorized, body: `{"ok":false,"error_code":401}`}
		stack := newTestStack(t, "", stub)

		w := httptest.NewRecorder()
		stack.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/test", nil))

		if w.Body.String() != `{"ok":false,"error_code":401}` {
			t.Errorf("body not verbatim: %s", w.Body.String())
		}
	})

	t.Run("transport failure", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		dead.Close()
		stack := newTestStack(t, dead.URL, nil)

		w := httptest.NewRecorder()
		stack.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/test", nil))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status 500, got %d", w.Code)
		}
		if got := decodeBody(t, w)["error"]; got != "Test failed" {
			t.Errorf("error = %v, want Test failed", got)
		}
	})
}
