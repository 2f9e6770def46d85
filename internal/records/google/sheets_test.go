package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"tarjetas/internal/core"
	"tarjetas/internal/records"
)

// fakeSheets serves the three values endpoints the store uses.
type fakeSheets struct {
	mu    sync.Mutex
	rows  [][]interface{}
	calls []string
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method)

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/values/Credits!A:A"):
		_ = json.NewEncoder(w).Encode(gsheet.ValueRange{Range: "Credits!A:A", MajorDimension: "ROWS", Values: f.rows})
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/values/Credits!A:A:clear"):
		f.rows = nil
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/values/Credits!A1"):
		if r.URL.Query().Get("valueInputOption") != "RAW" {
			http.Error(w, `{"error":{"code":400,"message":"bad input option"}}`, http.StatusBadRequest)
			return
		}
		var vr gsheet.ValueRange
		if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.rows = vr.Values
		_, _ = w.Write([]byte(`{}`))
	default:
		http.Error(w, `{"error":{"code":404,"message":"not found"}}`, http.StatusNotFound)
	}
}

func newTestStore(t *testing.T, fake *fakeSheets) *Store {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()),
		goption.WithoutAuthentication())
	require.NoError(t, err)
	return New(svc, "sheet-id", "")
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := &fakeSheets{}
	store := newTestStore(t, fake)

	credits := []core.Credit{
		{Name: "HSBC Viva", Bank: core.BankHSBC, ClosingDay: 10, DueDays: 20, Currency: core.CurrencyMXN, Statements: []core.Statement{}},
		{Name: "Liverpool PP", Bank: core.BankLiverpool, ClosingDay: 5, DueDays: 20, Currency: core.CurrencyMXN, Statements: []core.Statement{}},
	}
	require.NoError(t, store.Save(ctx, credits))
	require.Len(t, fake.rows, 2)

	back, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, credits, back)
}

func TestStoreSaveEmptyOnlyClears(t *testing.T) {
	fake := &fakeSheets{rows: [][]interface{}{{"old"}}}
	store := newTestStore(t, fake)

	require.NoError(t, store.Save(context.Background(), nil))
	assert.Equal(t, []string{http.MethodPost}, fake.calls)
	assert.Empty(t, fake.rows)
}

func TestStoreSaveRejectsOversizedRecord(t *testing.T) {
	fake := &fakeSheets{rows: [][]interface{}{{"old"}}}
	store := newTestStore(t, fake)

	big := core.Credit{Name: "BBVA Azul", Bank: core.BankBBVA, ClosingDay: 23, DueDays: 20, Currency: core.CurrencyMXN,
		Statements: []core.Statement{{Month: 5, Year: 2023, Payments: []core.Payment{
			{PaymentDate: core.NewDate(2023, 5, 30), Amount: core.Cents(1), ProofOfPayment: strings.Repeat("ñ", MaxCellChars)},
		}}}}
	err := store.Save(context.Background(), []core.Credit{big})
	assert.ErrorIs(t, err, ErrRecordTooLarge)
	assert.Empty(t, fake.calls, "nothing cleared or written")
	assert.Len(t, fake.rows, 1)
}

func TestStoreLoadMalformedRow(t *testing.T) {
	fake := &fakeSheets{rows: [][]interface{}{
		{`{"name":"x","bank":"HSBC","closing_day":1,"due_days":1,"currency":"MXN","statements":[]}`},
		{},
	}}
	store := newTestStore(t, fake)

	_, err := store.Load(context.Background())
	var mre *records.MalformedRecordError
	require.ErrorAs(t, err, &mre)
	assert.Equal(t, 2, mre.Line)
}

func TestNewServiceRequiresCredentials(t *testing.T) {
	_, err := NewService(context.Background(), Credentials{})
	assert.Error(t, err)
}

const testOAuthClient = `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"],"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token"}}`

func TestNewServiceOAuthRequiresToken(t *testing.T) {
	_, err := NewService(context.Background(), Credentials{OAuthClientJSON: testOAuthClient})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing oauth token")
}

func TestNewServiceOAuthToken(t *testing.T) {
	svc, err := NewService(context.Background(), Credentials{
		OAuthClientJSON: testOAuthClient,
		OAuthTokenJSON:  `{"access_token":"abc","token_type":"Bearer","refresh_token":"r"}`,
	})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestNewServiceBadOAuthToken(t *testing.T) {
	_, err := NewService(context.Background(), Credentials{OAuthClientJSON: testOAuthClient, OAuthTokenJSON: "{"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse oauth token")
}

func TestReadSecret(t *testing.T) {
	data, err := readSecret("inline", "/does/not/matter")
	require.NoError(t, err)
	assert.Equal(t, "inline", string(data))

	data, err = readSecret("", "")
	require.NoError(t, err)
	assert.Nil(t, data)

	_, err = readSecret("", t.TempDir()+"/missing.json")
	assert.Error(t, err)
}
