package domain_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/firewatch/internal/domain"
)

// TestCredential_NeverFormatsSecret tests every printable form of a credential
func TestCredential_NeverFormatsSecret(t *testing.T) {
	cred := domain.NewCredential("AIza-super-secret")

	outputs := []string{
		cred.String(),
		fmt.Sprintf("%v", cred),
		fmt.Sprintf("%+v", struct{ Key domain.Credential }{cred}),
		fmt.Sprintf("%#v", cred),
	}
	raw, err := json.Marshal(struct {
		Key domain.Credential `json:"key"`
	}{cred})
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	outputs = append(outputs, string(raw))

	y, err := yaml.Marshal(domain.AISettings{APIKey: cred})
	if err != nil {
		t.Fatalf("yaml.Marshal: %v", err)
	}
	outputs = append(outputs, string(y))

	for _, out := range outputs {
		if strings.Contains(out, "super-secret") {
			t.Errorf("output leaks credential: %q", out)
		}
	}
	if got := cred.Reveal(); got != "AIza-super-secret" {
		t.Errorf("Reveal() = %q", got)
	}
}

// TestCredential_YAMLRoundTripKeepsRealKey tests decoding keys and the redaction marker
func TestCredential_YAMLRoundTripKeepsRealKey(t *testing.T) {
	var settings domain.AISettings
	if err := yaml.Unmarshal([]byte("api_key: abc123\n"), &settings); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := settings.APIKey.Reveal(); got != "abc123" {
		t.Errorf("APIKey = %q, want abc123", got)
	}

	if err := yaml.Unmarshal([]byte("api_key: '[redacted]'\n"), &settings); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !settings.APIKey.Empty() {
		t.Error("redaction marker should decode to an empty credential")
	}

	out, err := yaml.Marshal(domain.AISettings{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), "api_key:") {
		t.Errorf("empty credential should be omitted, got %q", out)
	}
}

// TestCredential_Redact tests scrubbing the raw key from text
func TestCredential_Redact(t *testing.T) {
	cred := domain.NewCredential("k3y")
	if got := cred.Redact("url?key=k3y"); got != "url?key=[redacted]" {
		t.Errorf("Redact() = %q", got)
	}
	if got := (domain.Credential{}).Redact("unchanged"); got != "unchanged" {
		t.Errorf("empty Redact() = %q", got)
	}
}

// TestError_IsMatchesKind tests kind-based matching through wrapping
func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", domain.NewError(domain.KindQueryFailed, "gateway.execute", "no such table: x", nil))

	if !errors.Is(err, domain.ErrQueryFailed) {
		t.Error("errors.Is(err, ErrQueryFailed) = false")
	}
	if errors.Is(err, domain.ErrRejectedWriteQuery) {
		t.Error("errors.Is(err, ErrRejectedWriteQuery) = true")
	}
	if got := domain.KindOf(err); got != domain.KindQueryFailed {
		t.Errorf("KindOf() = %q", got)
	}
	if got := domain.KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf(plain) = %q, want empty", got)
	}
	if got := errors.Unwrap(err).Error(); got != "gateway.execute: query_failed: no such table: x" {
		t.Errorf("Error() = %q", got)
	}
}

// TestRow_Accessors tests typed column access
func TestRow_Accessors(t *testing.T) {
	row := domain.Row{
		"count":  int64(7),
		"ratio":  2.5,
		"blob":   []byte("12"),
		"name":   "Pine Ridge",
		"absent": nil,
	}

	ints := map[string]int64{"count": 7, "blob": 12, "absent": 0, "missing": 0}
	for col, want := range ints {
		if got := row.Int(col); got != want {
			t.Errorf("Int(%q) = %d, want %d", col, got, want)
		}
	}
	if got := row.Float("ratio"); got != 2.5 {
		t.Errorf("Float(ratio) = %v", got)
	}
	if got := row.String("name"); got != "Pine Ridge" {
		t.Errorf("String(name) = %q", got)
	}
	if got := row.String("blob"); got != "12" {
		t.Errorf("String(blob) = %q", got)
	}
	if got := row.StringOr("absent", "fallback"); got != "fallback" {
		t.Errorf("StringOr(absent) = %q", got)
	}
	if row.Has("absent") {
		t.Error("Has(absent) = true for a NULL column")
	}
	if !domain.ErrorRow("boom").IsError() {
		t.Error("ErrorRow should report IsError")
	}
	if row.IsError() {
		t.Error("data row reports IsError")
	}
}

// TestRate tests percentage rounding and the zero denominator
func TestRate(t *testing.T) {
	tests := []struct {
		num, den float64
		want     float64
	}{
		{2, 3, 66.67},
		{1, 1, 100},
		{5, 0, 0},
		{0, 4, 0},
		{245, 300, 81.67},
	}
	for _, tt := range tests {
		if got := domain.Rate(tt.num, tt.den); got != tt.want {
			t.Errorf("Rate(%v, %v) = %v, want %v", tt.num, tt.den, got, tt.want)
		}
	}
}

// TestNewQueryRequest_Trims tests the blank-input boundary
func TestNewQueryRequest_Trims(t *testing.T) {
	for _, blank := range []string{"", "   ", "\n\t "} {
		if _, ok := domain.NewQueryRequest(blank); ok {
			t.Errorf("NewQueryRequest(%q) accepted blank input", blank)
		}
	}
	req, ok := domain.NewQueryRequest("  Show Zones ")
	if !ok {
		t.Fatal("NewQueryRequest rejected a question")
	}
	if req.Text != "Show Zones" {
		t.Errorf("Text = %q", req.Text)
	}
	if req.Lower() != "show zones" {
		t.Errorf("Lower() = %q", req.Lower())
	}
}

// TestConversationEntry_Complete tests the pending to answered transition
func TestConversationEntry_Complete(t *testing.T) {
	req, _ := domain.NewQueryRequest("status")
	now := time.Date(2025, 7, 28, 9, 0, 0, 0, time.UTC)
	entry := domain.NewConversationEntry(req, domain.ModeFallback, now)

	if !entry.Pending || entry.ID == "" {
		t.Fatalf("new entry = %+v, want pending with an id", entry)
	}
	entry.Complete("answer", true)
	if entry.Pending || entry.Response != "answer" || !entry.Fallback {
		t.Errorf("completed entry = %+v", entry)
	}
}

// TestParseBackendMode tests mode aliases
func TestParseBackendMode(t *testing.T) {
	for raw, want := range map[string]domain.BackendMode{
		"direct":   domain.ModeDirectAPI,
		" SDK ":    domain.ModeVendorSDK,
		"agent":    domain.ModeAgentFramework,
		"fallback": domain.ModeFallback,
	} {
		got, ok := domain.ParseBackendMode(raw)
		if !ok || got != want {
			t.Errorf("ParseBackendMode(%q) = %s, %v; want %s", raw, got, ok, want)
		}
	}
	if _, ok := domain.ParseBackendMode("smoke-signal"); ok {
		t.Error("unknown mode accepted")
	}
	if domain.ModeFallback.Remote() {
		t.Error("fallback reports Remote")
	}
	if !strings.Contains(domain.ModeVendorSDK.Label(), "SDK") {
		t.Errorf("Label() = %q", domain.ModeVendorSDK.Label())
	}
}

// TestResourceRequest_Status tests fulfilment labels
func TestResourceRequest_Status(t *testing.T) {
	tests := []struct {
		req  domain.ResourceRequest
		want string
	}{
		{domain.ResourceRequest{QuantityRequested: 12, QuantityFulfilled: 12}, "Fulfilled"},
		{domain.ResourceRequest{QuantityRequested: 8, QuantityFulfilled: 6}, "Partially Fulfilled"},
		{domain.ResourceRequest{QuantityRequested: 2}, "Pending"},
	}
	for _, tt := range tests {
		if got := tt.req.Status(); got != tt.want {
			t.Errorf("Status(%+v) = %q, want %q", tt.req, got, tt.want)
		}
	}
}
