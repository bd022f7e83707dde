package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/coopledger/internal/domain"
	"github.com/iho/coopledger/internal/usecase"
)

func TestDepositFromDomain_OmitsUnsetOptionalFields(t *testing.T) {
	d := &domain.Deposit{
		ID:       "dep-1",
		MemberID: "m1",
		Amount:   decimal.RequireFromString("10.50"),
		Status:   domain.DepositStatusPending,
	}

	data, err := json.Marshal(DepositFromDomain(d))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	body := string(data)
	for _, field := range []string{"proof_ref", "verified_at", "verified_by"} {
		if strings.Contains(body, field) {
			t.Fatalf("expected %s to be omitted, got %s", field, body)
		}
	}
	if !strings.Contains(body, `"amount":"10.5"`) {
		t.Fatalf("expected amount to be encoded as a string, got %s", body)
	}
}

func TestRegisterFromResult_CarriesHookFailure(t *testing.T) {
	res := &usecase.RegisterResult{
		Member:  &domain.Member{ID: "m1", Role: domain.RoleMember},
		HookErr: domain.ErrCapitalAmountNotConfigured,
	}

	resp := RegisterFromResult(res)
	if resp.Capital != nil {
		t.Fatalf("expected no capital, got %+v", resp.Capital)
	}
	if resp.HookError != domain.ErrCapitalAmountNotConfigured.Error() {
		t.Fatalf("unexpected hook error %q", resp.HookError)
	}

	res.HookErr = nil
	res.Capital = &domain.Capital{ID: "cap-1", MemberID: "m1", Year: 2026}
	if resp := RegisterFromResult(res); resp.Capital == nil || resp.HookError != "" {
		t.Fatalf("expected capital without hook error, got %+v", resp)
	}
}

func TestGenerationReportFromDomain_NeverEmitsNull(t *testing.T) {
	data, err := json.Marshal(GenerationReportFromDomain(&domain.CapitalGenerationReport{Year: 2026}))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if !strings.Contains(string(data), `"created":[]`) || !strings.Contains(string(data), `"skipped":[]`) {
		t.Fatalf("expected empty arrays, got %s", data)
	}
}

func TestPaidCheckFromDomain(t *testing.T) {
	paidAt := time.Now()
	resp := PaidCheckFromDomain(&domain.PaidCheck{
		Paid:    true,
		Capital: &domain.Capital{ID: "cap-1", Status: domain.CapitalStatusPaid, PaidAt: &paidAt},
	})
	if !resp.Paid || resp.Capital == nil || resp.Capital.Status != "PAID" {
		t.Fatalf("unexpected response %+v", resp)
	}

	if resp := PaidCheckFromDomain(&domain.PaidCheck{}); resp.Paid || resp.Capital != nil {
		t.Fatalf("expected unpaid response without capital, got %+v", resp)
	}
}

func TestReconciliationReportFromUseCase(t *testing.T) {
	report := &usecase.ReconciliationReport{
		TotalMembers:      2,
		ReconciledMembers: 1,
		Discrepancies: []*usecase.ReconciliationResult{{
			MemberID:        "m2",
			RecordedBalance: decimal.NewFromInt(20),
			Difference:      decimal.NewFromInt(20),
		}},
	}

	resp := ReconciliationReportFromUseCase(report)
	if len(resp.Discrepancies) != 1 || resp.Discrepancies[0].MemberID != "m2" {
		t.Fatalf("unexpected discrepancies %+v", resp.Discrepancies)
	}
	if resp.WalletsConsistent {
		t.Fatal("expected inconsistency to carry over")
	}

}
