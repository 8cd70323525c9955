package usecase

import (
	"context"
	"errors"
	"testing"

	"telegram-kargo-bot/internal/domain"
	"telegram-kargo-bot/internal/domain/ports/adapter"
)

const validKargo = "/kargo\nAyşe Yılmaz\nAtatürk Cad. No:5 İzmir\n25.12.2025\nAcme Tekstil"

func newSubmissionFixture() (*SubmissionUseCase, *memGroupRepo, *memSubmitter, *memGateway) {
	groups := newMemGroupRepo()
	submitter := newMemSubmitter(groups)
	gw := &memGateway{tracking: adapter.Tracking{ID: "abc123", URL: "https://track.example/t/abc123"}}
	uc := NewSubmissionUseCase(groups, submitter, gw, noopShortener{}, newTestLogger())
	return uc, groups, submitter, gw
}

func TestSubmit_UnseenGroupIsCreatedThenRejected(t *testing.T) {
	ctx := context.Background()
	uc, groups, _, gw := newSubmissionFixture()

	_, err := uc.Submit(ctx, 100, "Yeni Grup", validKargo)
	if !errors.Is(err, domain.ErrQuotaExhausted) {
		t.Fatalf("expected ErrQuotaExhausted for unseen group, got %v", err)
	}
	if gw.calls != 0 {
		t.Fatalf("gateway must not be called when quota is depleted, got %d calls", gw.calls)
	}

	g, err := groups.Find(ctx, 100)
	if err != nil {
		t.Fatalf("group record should have been created: %v", err)
	}
	if g.Quota != 0 || g.Disabled {
		t.Fatalf("new group should start with quota 0, enabled; got %+v", g)
	}
}

func TestSubmit_DisabledGroupRejected(t *testing.T) {
	ctx := context.Background()
	uc, groups, _, gw := newSubmissionFixture()

	if err := groups.SetQuota(ctx, 100, "Grup", 5); err != nil {
		t.Fatal(err)
	}
	if err := groups.SetDisabled(ctx, 100, "Grup", true); err != nil {
		t.Fatal(err)
	}

	_, err := uc.Submit(ctx, 100, "Grup", validKargo)
	if !errors.Is(err, domain.ErrGroupClosed) {
		t.Fatalf("expected ErrGroupClosed even with quota left, got %v", err)
	}
	if gw.calls != 0 {
		t.Fatal("gateway must not be called for a closed group")
	}
}

func TestSubmit_SuccessDecrementsAndLogs(t *testing.T) {
	ctx := context.Background()
	uc, groups, submitter, gw := newSubmissionFixture()

	if err := groups.SetQuota(ctx, 100, "Grup", 3); err != nil {
		t.Fatal(err)
	}

	res, err := uc.Submit(ctx, 100, "Grup", validKargo)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if res.Remaining != 2 {
		t.Errorf("expected remaining 2, got %d", res.Remaining)
	}
	if res.ItemID != "abc123" || res.URL != "https://track.example/t/abc123" {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.FullName != "Ayşe Yılmaz" {
		t.Errorf("unexpected full name: %q", res.FullName)
	}

	if len(submitter.logs) != 1 {
		t.Fatalf("expected exactly one log row, got %d", len(submitter.logs))
	}
	row := submitter.logs[0]
	if row.ItemID != "abc123" || row.Company != "Acme Tekstil" || row.ChatID != 100 {
		t.Errorf("unexpected log row: %+v", row)
	}

	if gw.lastSub.Carrier != "yurtici" {
		t.Errorf("expected carrier yurtici, got %q", gw.lastSub.Carrier)
	}
}

func TestSubmit_GatewayFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	uc, groups, submitter, gw := newSubmissionFixture()
	gw.err = domain.ErrAPIUnavailable

	if err := groups.SetQuota(ctx, 100, "Grup", 3); err != nil {
		t.Fatal(err)
	}

	_, err := uc.Submit(ctx, 100, "Grup", validKargo)
	if !errors.Is(err, domain.ErrAPIUnavailable) {
		t.Fatalf("expected ErrAPIUnavailable, got %v", err)
	}

	g, _ := groups.Find(ctx, 100)
	if g.Quota != 3 {
		t.Errorf("quota must be untouched on API failure, got %d", g.Quota)
	}
	if len(submitter.logs) != 0 {
		t.Errorf("no log row may exist after API failure, got %d", len(submitter.logs))
	}
}

func TestSubmit_TooFewFields(t *testing.T) {
	ctx := context.Background()
	uc, groups, _, gw := newSubmissionFixture()
	if err := groups.SetQuota(ctx, 100, "Grup", 3); err != nil {
		t.Fatal(err)
	}

	for _, text := range []string{
		"/kargo",
		"/kargo\nAd Soyad",
		"/kargo\nAd Soyad\nAdres\n25.12.2025",
		"/kargo\n\n  \nAd Soyad\nAdres\n\n25.12.2025\n  ",
	} {
		_, err := uc.Submit(ctx, 100, "Grup", text)
		if !errors.Is(err, domain.ErrBadFormat) {
			t.Errorf("text %q: expected ErrBadFormat, got %v", text, err)
		}
	}
	if gw.calls != 0 {
		t.Fatal("gateway must not be called for malformed submissions")
	}

	g, _ := groups.Find(ctx, 100)
	if g.Quota != 3 {
		t.Errorf("quota must be untouched on format error, got %d", g.Quota)
	}
}

func TestSubmit_BlankLinesAreSkipped(t *testing.T) {
	ctx := context.Background()
	uc, groups, _, gw := newSubmissionFixture()
	if err := groups.SetQuota(ctx, 100, "Grup", 1); err != nil {
		t.Fatal(err)
	}

	text := "/kargo\n\n  Ayşe Yılmaz  \n\nAdres Satırı\n\n31.1.2026\n\nFirma"
	_, err := uc.Submit(ctx, 100, "Grup", text)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if gw.lastSub.FullName != "Ayşe Yılmaz" || gw.lastSub.Address != "Adres Satırı" || gw.lastSub.Company != "Firma" {
		t.Errorf("fields not trimmed/ordered as expected: %+v", gw.lastSub)
	}
}

func TestSubmit_ETANormalization(t *testing.T) {
	cases := []struct {
		in      string
		wantAPI string
	}{
		{"25.12.2025", "2025-12-25"},
		{"25/12/2025", "2025-12-25"},
		{"5.3.2026", "2026-03-05"},
		{"yarın", "yarın"},
		{"31.02.2025", "31.02.2025"}, // impossible date passes through
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			ctx := context.Background()
			uc, groups, _, gw := newSubmissionFixture()
			if err := groups.SetQuota(ctx, 100, "Grup", 5); err != nil {
				t.Fatal(err)
			}

			text := "/kargo\nAd Soyad\nAdres\n" + tc.in + "\nFirma"
			res, err := uc.Submit(ctx, 100, "Grup", text)
			if err != nil {
				t.Fatalf("Submit failed: %v", err)
			}
			if gw.lastSub.ETA != tc.wantAPI {
				t.Errorf("API eta: got %q, want %q", gw.lastSub.ETA, tc.wantAPI)
			}
			if res.ETAText != tc.in {
				t.Errorf("reply eta must stay original: got %q, want %q", res.ETAText, tc.in)
			}
		})
	}
}

func TestNormalizeETA(t *testing.T) {
	if got := normalizeETA("01.01.2026"); got != "2026-01-01" {
		t.Errorf("got %q", got)
	}
	if got := normalizeETA("not a date"); got != "not a date" {
		t.Errorf("got %q", got)
	}
}

func TestSubmit_RaceLosingSecondSubmitRejected(t *testing.T) {
	// Two submissions with quota 1: the second one passes the gate snapshot
	// but must fail at the conditional decrement.
	ctx := context.Background()
	uc, groups, submitter, _ := newSubmissionFixture()
	if err := groups.SetQuota(ctx, 100, "Grup", 1); err != nil {
		t.Fatal(err)
	}

	if _, err := uc.Submit(ctx, 100, "Grup", validKargo); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	_, err := uc.Submit(ctx, 100, "Grup", validKargo)
	if !errors.Is(err, domain.ErrQuotaExhausted) {
		t.Fatalf("expected ErrQuotaExhausted, got %v", err)
	}

	g, _ := groups.Find(ctx, 100)
	if g.Quota != 0 {
		t.Errorf("quota must not go below zero, got %d", g.Quota)
	}
	if len(submitter.logs) != 1 {
		t.Errorf("expected exactly one log row, got %d", len(submitter.logs))
	}
}
