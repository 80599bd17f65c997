package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"payments-backend/internal/apperr"
	"payments-backend/internal/middleware"
	"payments-backend/internal/models"
	"payments-backend/internal/repository"
	"payments-backend/internal/services/accounts"
	"payments-backend/internal/services/auth"
	"payments-backend/internal/services/payments"
	"payments-backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const testCookie = "session"

func init() {
	gin.SetMode(gin.TestMode)
	RegisterValidators()
}

type fixture struct {
	db     *gorm.DB
	router *gin.Engine
	issuer *auth.TokenIssuer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)

	currencyRepo := repository.NewCurrencyRepository(db)
	accountRepo := repository.NewBankAccountRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	ph := NewPaymentHandler(payments.NewPaymentService(paymentRepo, accountRepo, currencyRepo, nil))
	ah := NewBankAccountHandler(accounts.NewAccountService(accountRepo, currencyRepo))
	ch := NewCurrencyHandler(currencyRepo)

	r := gin.New()
	r.GET("/currency", ch.List)
	r.GET("/currency/:code", ch.Get)

	s := r.Group("", middleware.RequireSession(issuer, testCookie))
	s.POST("/payment", ph.Create)
	s.GET("/payment/:id", ph.Get)
	s.POST("/payment/:id/verify", middleware.RequireRole(models.RoleEmployee, models.RoleAdmin), ph.Verify)
	s.POST("/bankaccount", ah.Create)
	s.DELETE("/bankaccount/:id", ah.Delete)

	return &fixture{db: db, router: r, issuer: issuer}
}

func (f *fixture) do(t *testing.T, method, path string, user *models.User, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		token, _, err := f.issuer.Issue(&auth.UserView{ID: user.ID, Role: user.Role, FullName: user.FullName})
		if err != nil {
			t.Fatal(err)
		}
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestStatusFor(t *testing.T) {
	tests := map[apperr.Kind]int{
		apperr.KindNotFound:          http.StatusNotFound,
		apperr.KindConflict:          http.StatusConflict,
		apperr.KindInvalidArgument:   http.StatusBadRequest,
		apperr.KindInsufficientFunds: http.StatusUnprocessableEntity,
		apperr.KindUnauthorized:      http.StatusUnauthorized,
		apperr.KindForbidden:         http.StatusForbidden,
		apperr.KindInternal:          http.StatusInternalServerError,
	}
	for kind, want := range tests {
		if got := statusFor(kind); got != want {
			t.Errorf("statusFor(%s) = %d, want %d", kind, got, want)
		}
	}
}

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Passw0rd!", true},
		{"short1!A", true},
		{"Sh0rt!", false},
		{"password1!", false},
		{"PASSWORD1!", false},
		{"Password!!", false},
		{"Password12", false},
		{"Passw0rd!#", false},
		{"Pässw0rd!", false},
	}
	for _, tt := range tests {
		if got := IsStrongPassword(tt.in); got != tt.want {
			t.Errorf("IsStrongPassword(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSwiftCodePattern(t *testing.T) {
	for _, ok := range []string{"DEUTDEFF", "DEUTDEFF500", "ABSAZAJJ"} {
		if !swiftCodeRegex.MatchString(ok) {
			t.Errorf("%q should match", ok)
		}
	}
	for _, bad := range []string{"deutdeff", "DEUTDE", "DEUTDEFF50", "DEU1DEFF"} {
		if swiftCodeRegex.MatchString(bad) {
			t.Errorf("%q should not match", bad)
		}
	}
}

func TestCreatePayment(t *testing.T) {
	f := newFixture(t)
	alice := testutil.CreateUser(t, f.db, "alice", models.RoleCustomer)
	bob := testutil.CreateUser(t, f.db, "bob", models.RoleCustomer)
	acct := testutil.CreateAccount(t, f.db, alice.ID, "ACC-1", "USD", "500.00")

	valid := func() map[string]any {
		return map[string]any{
			"accountId":      acct.ID.String(),
			"amount":         "100.00",
			"currencyCode":   "USD",
			"payeeAccount":   "GB00BANK1234",
			"payeeSwiftCode": "DEUTDEFF",
		}
	}

	tests := []struct {
		name   string
		user   *models.User
		mutate func(map[string]any)
		want   int
		errMsg string
	}{
		{"no session", nil, nil, http.StatusUnauthorized, "authentication required"},
		{"zero amount", alice, func(b map[string]any) { b["amount"] = "0" }, http.StatusBadRequest, "amount must be greater than 0"},
		{"sub-cent amount", alice, func(b map[string]any) { b["amount"] = "0.001" }, http.StatusBadRequest, "amount must have at most 2 decimal places"},
		{"bad swift", alice, func(b map[string]any) { b["payeeSwiftCode"] = "nope" }, http.StatusBadRequest, ""},
		{"bad account id", alice, func(b map[string]any) { b["accountId"] = "x" }, http.StatusBadRequest, ""},
		{"foreign account", bob, nil, http.StatusNotFound, "bank account not found or does not belong to user"},
		{"unknown currency", alice, func(b map[string]any) { b["currencyCode"] = "XXX" }, http.StatusBadRequest, "invalid currency code"},
		{"over balance", alice, func(b map[string]any) { b["amount"] = "500.01" }, http.StatusUnprocessableEntity, "insufficient balance"},
		{"ok", alice, nil, http.StatusCreated, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := valid()
			if tt.mutate != nil {
				tt.mutate(body)
			}
			w := f.do(t, http.MethodPost, "/payment", tt.user, body)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
			if tt.errMsg != "" {
				if got := decode[map[string]string](t, w)["error"]; got != tt.errMsg {
					t.Errorf("error = %q, want %q", got, tt.errMsg)
				}
			}
		})
	}
}

func TestCreatePaymentResponse(t *testing.T) {
	f := newFixture(t)
	alice := testutil.CreateUser(t, f.db, "alice", models.RoleCustomer)
	acct := testutil.CreateAccount(t, f.db, alice.ID, "ACC-1", "EUR", "50")

	w := f.do(t, http.MethodPost, "/payment", alice, map[string]any{
		"accountId":      acct.ID.String(),
		"amount":         50,
		"currencyCode":   "EUR",
		"payeeAccount":   "DE89370400440532013000",
		"payeeSwiftCode": "COBADEFFXXX",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	got := decode[payments.PaymentView](t, w)
	if got.Status != models.PaymentPending {
		t.Errorf("status = %s", got.Status)
	}
	if got.CurrencyName != "Euro" || got.AccountNumber != "ACC-1" {
		t.Errorf("view = %+v", got)
	}
	if got.Verifications == nil || len(got.Verifications) != 0 {
		t.Errorf("verifications = %v", got.Verifications)
	}
}

func TestVerifyPayment(t *testing.T) {
	f := newFixture(t)
	alice := testutil.CreateUser(t, f.db, "alice", models.RoleCustomer)
	emp := testutil.CreateUser(t, f.db, "emp", models.RoleEmployee)
	acct := testutil.CreateAccount(t, f.db, alice.ID, "ACC-1", "USD", "500")

	w := f.do(t, http.MethodPost, "/payment", alice, map[string]any{
		"accountId": acct.ID.String(), "amount": "10", "currencyCode": "USD",
		"payeeAccount": "X1", "payeeSwiftCode": "DEUTDEFF",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	id := decode[payments.PaymentView](t, w).ID.String()

	if w := f.do(t, http.MethodPost, "/payment/"+id+"/verify", alice, map[string]string{"action": "Verified"}); w.Code != http.StatusForbidden {
		t.Errorf("customer verify = %d, want 403", w.Code)
	}
	if w := f.do(t, http.MethodPost, "/payment/"+id+"/verify", emp, map[string]string{"action": "Approve"}); w.Code != http.StatusBadRequest {
		t.Errorf("unknown action = %d, want 400", w.Code)
	}
	if w := f.do(t, http.MethodPost, "/payment/not-a-uuid/verify", emp, map[string]string{"action": "Verified"}); w.Code != http.StatusBadRequest {
		t.Errorf("bad id = %d, want 400", w.Code)
	}
	if w := f.do(t, http.MethodPost, "/payment/00000000-0000-0000-0000-000000000001/verify", emp, map[string]string{"action": "Verified"}); w.Code != http.StatusNotFound {
		t.Errorf("missing payment = %d, want 404", w.Code)
	}
	if w := f.do(t, http.MethodPost, "/payment/"+id+"/verify", emp, map[string]string{"action": "Verified"}); w.Code != http.StatusOK {
		t.Fatalf("verify = %d %s", w.Code, w.Body.String())
	}

	w = f.do(t, http.MethodGet, "/payment/"+id, alice, nil)
	got := decode[payments.PaymentView](t, w)
	if got.Status != models.PaymentVerified {
		t.Errorf("status = %s", got.Status)
	}
	if len(got.Verifications) != 1 || got.Verifications[0].EmployeeName != emp.FullName {
		t.Errorf("verifications = %+v", got.Verifications)
	}
}

func TestCurrencies(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/currency", nil, nil)
	list := decode[[]currencyResponse](t, w)
	if len(list) != len(models.DefaultCurrencies) {
		t.Errorf("got %d currencies", len(list))
	}
	if w := f.do(t, http.MethodGet, "/currency/ZAR", nil, nil); w.Code != http.StatusOK {
		t.Errorf("ZAR = %d", w.Code)
	}
	if w := f.do(t, http.MethodGet, "/currency/XXX", nil, nil); w.Code != http.StatusNotFound {
		t.Errorf("XXX = %d", w.Code)
	}
}

func TestBankAccountDeleteWithPayments(t *testing.T) {
	f := newFixture(t)
	alice := testutil.CreateUser(t, f.db, "alice", models.RoleCustomer)

	w := f.do(t, http.MethodPost, "/bankaccount", alice, map[string]any{
		"accountNumber": "ACC-9", "accountType": "Savings", "currencyCode": "GBP", "balance": "20",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create account: %d %s", w.Code, w.Body.String())
	}
	acct := decode[accounts.AccountView](t, w)

	if w := f.do(t, http.MethodPost, "/bankaccount", alice, map[string]any{
		"accountNumber": "ACC-9", "accountType": "Savings", "currencyCode": "GBP",
	}); w.Code != http.StatusConflict {
		t.Errorf("duplicate number = %d, want 409", w.Code)
	}

	if w := f.do(t, http.MethodPost, "/payment", alice, map[string]any{
		"accountId": acct.ID.String(), "amount": "5", "currencyCode": "GBP",
		"payeeAccount": "P", "payeeSwiftCode": "BARCGB22",
	}); w.Code != http.StatusCreated {
		t.Fatalf("create payment: %d %s", w.Code, w.Body.String())
	}

	if w := f.do(t, http.MethodDelete, "/bankaccount/"+acct.ID.String(), alice, nil); w.Code != http.StatusConflict {
		t.Errorf("delete = %d, want 409", w.Code)
	}
}
