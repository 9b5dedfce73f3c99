package restapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"w3batch/internal/domain/entity"
)

func doGet(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	router := SetupRouter(NewStatusHandler("w3batch", NewRunStatus()), zap.NewNop())

	if w := doGet(t, router, "/healthz"); w.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", w.Code)
	}
}

func TestStatusLifecycle(t *testing.T) {
	status := NewRunStatus()
	router := SetupRouter(NewStatusHandler("w3batch", status), zap.NewNop())

	var resp APIStatusResponse
	w := doGet(t, router, "/api/v1/status")
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if resp.Running || resp.LastRun != nil {
		t.Errorf("fresh status = %+v, want idle with no last run", resp)
	}

	status.Start("balances")
	w = doGet(t, router, "/api/v1/status")
	resp = APIStatusResponse{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !resp.Running || resp.Action != "balances" {
		t.Errorf("status after Start = %+v, want running balances", resp)
	}

	status.Finish(&entity.Report{Action: "balances", Wallets: 3, Elapsed: 2 * time.Second})
	w = doGet(t, router, "/api/v1/status")
	resp = APIStatusResponse{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if resp.Running {
		t.Error("still running after Finish")
	}
	if resp.LastRun == nil || resp.LastRun.Wallets != 3 || resp.LastRun.ElapsedMs != 2000 {
		t.Errorf("last run = %+v, want 3 wallets in 2000ms", resp.LastRun)
	}
}

func TestReportEndpoint(t *testing.T) {
	status := NewRunStatus()
	router := SetupRouter(NewStatusHandler("w3batch", status), zap.NewNop())

	if w := doGet(t, router, "/api/v1/report"); w.Code != http.StatusNotFound {
		t.Errorf("report before any run = %d, want 404", w.Code)
	}

	status.Finish(&entity.Report{
		Action:   "balances",
		Wallets:  1,
		Sections: []entity.WalletSection{{Wallet: entity.Wallet{Address: "0xA1"}, Records: []entity.BalanceRecord{}}},
	})

	w := doGet(t, router, "/api/v1/report")
	if w.Code != http.StatusOK {
		t.Fatalf("report status = %d, want 200", w.Code)
	}

	var resp APIReportResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if resp.Data.Report == nil || resp.Data.Report.Action != "balances" {
		t.Errorf("report payload = %+v, want balances report", resp.Data.Report)
	}
}
