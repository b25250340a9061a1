package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"finances/internal/core"
	"finances/internal/store"
)

func TestNewClient(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Fatalf("expected error for empty base URL")
	}
	c, err := NewClient("http://localhost:8080/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.baseURL != "http://localhost:8080" {
		t.Fatalf("expected trailing slash trimmed, got %q", c.baseURL)
	}
}

func TestGetAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/accounts/3" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"accountId":3,"userId":{"userId":1},"accountName":"Checking","accountBalance":1250.75}`))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL)
	got, err := c.GetAccount(context.Background(), 3)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != 3 || got.UserID != 1 || got.Name != "Checking" {
		t.Fatalf("unexpected account %+v", got)
	}
	if !got.Balance.Equal(decimal.RequireFromString("1250.75")) {
		t.Fatalf("expected balance 1250.75, got %s", got.Balance)
	}
}

func TestListAccountsByUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts/user/7" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[{"accountId":1,"userId":{"userId":7},"accountName":"A","accountBalance":10},
			{"accountId":2,"userId":{"userId":7},"accountName":"B","accountBalance":"20.50"}]`))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL)
	got, err := c.ListAccounts(context.Background(), 7)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(got))
	}
	if !got[1].Balance.Equal(decimal.RequireFromString("20.5")) {
		t.Fatalf("expected string-encoded balance to decode, got %s", got[1].Balance)
	}
}

func TestCreateTransactionRequestShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transactions" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["accountId"] != float64(2) || body["categoryId"] != float64(5) {
			t.Fatalf("unexpected foreign keys in request: %v", body)
		}
		if body["type"] != "expense" {
			t.Fatalf("unexpected type %v", body["type"])
		}
		if _, present := body["debtId"]; present {
			t.Fatalf("nil debt expected to be omitted, got %v", body["debtId"])
		}
		w.Write([]byte(`{
			"transactionId": 11,
			"accountId": {"accountId":2,"userId":{"userId":1},"accountName":"Checking","accountBalance":475},
			"userId": {"userId":1},
			"amount": 25,
			"description": "groceries",
			"categoryId": {"categoryId":5,"categoryName":"Food"},
			"transactionDate": "2025-06-15",
			"type": "expense"
		}`))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL)
	got, err := c.CreateTransaction(context.Background(), core.TransactionDraft{
		UserID: 1, AccountID: 2, CategoryID: 5,
		Amount: decimal.RequireFromString("25"), Type: core.Expense, Description: "groceries",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.ID != 11 || got.Account.ID != 2 || got.Category.Name != "Food" {
		t.Fatalf("unexpected transaction %+v", got)
	}
	if got.Date.Year() != 2025 || got.Date.Month() != 6 || got.Date.Day() != 15 {
		t.Fatalf("expected date-only wire format to parse, got %s", got.Date)
	}
}

func TestCreateTransactionValidatesBeforeRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("invalid draft must not reach the backend")
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL)
	_, err := c.CreateTransaction(context.Background(), core.TransactionDraft{
		UserID: 1, AccountID: 2, CategoryID: 5,
		Amount: decimal.Zero, Type: core.Expense, Description: "abc",
	})
	if store.KindOf(err) != store.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApplyPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/debts/4/payment" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if _, ok := body["paymentAmount"]; !ok {
			t.Fatalf("expected paymentAmount in request, got %v", body)
		}
		w.Write([]byte(`{
			"debtId": 4, "userId": {"userId":1}, "debtName": "Loan",
			"totalOwed": 500, "amountPaid": 250, "monthlyPayment": 50,
			"remainingBalance": 250, "paymentProgress": 50
		}`))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL)
	got, err := c.ApplyPayment(context.Background(), 4, decimal.RequireFromString("50"))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !got.AmountPaid.Equal(decimal.RequireFromString("250")) {
		t.Fatalf("expected amountPaid 250, got %s", got.AmountPaid)
	}
	if !got.RemainingBalance().Equal(decimal.RequireFromString("250")) {
		t.Fatalf("expected remaining 250, got %s", got.RemainingBalance())
	}
}

func TestStatusErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		kind   store.Kind
	}{
		{http.StatusNotFound, store.KindNotFound},
		{http.StatusBadRequest, store.KindValidation},
		{http.StatusUnprocessableEntity, store.KindValidation},
		{http.StatusInternalServerError, store.KindTransport},
		{http.StatusBadGateway, store.KindTransport},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "backend says no", tc.status)
		}))
		c, _ := NewClient(srv.URL)
		_, err := c.GetAccount(context.Background(), 1)
		srv.Close()
		if store.KindOf(err) != tc.kind {
			t.Fatalf("status %d expected kind %v, got %v (%v)", tc.status, tc.kind, store.KindOf(err), err)
		}
	}
}

func TestTransportErrorOnUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // unreachable from here on

	c, _ := NewClient(srv.URL)
	_, err := c.GetAccount(context.Background(), 1)
	if store.KindOf(err) != store.KindTransport {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestParseWireDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-06-15", true},
		{"2025-06-15T10:30:00Z", true},
		{"2025-06-15T10:30:00", true},
		{"garbage", false},
		{"", false},
	}
	for _, tc := range cases {
		got := parseWireDate(tc.in)
		if tc.ok && got.IsZero() {
			t.Fatalf("%q expected to parse", tc.in)
		}
		if !tc.ok && !got.IsZero() {
			t.Fatalf("%q expected zero time, got %s", tc.in, got)
		}
	}
}
