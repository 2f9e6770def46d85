// Package google keeps the dataset in a Google Sheets tab, one record per
// row in column A.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"tarjetas/internal/core"
	"tarjetas/internal/records"
)

// Credentials names where Sheets credentials come from. A service
// account (JSON wins over File) is preferred; otherwise an OAuth client
// plus a token saved by sheets-oauth-init is used.
type Credentials struct {
	JSON string
	File string

	OAuthClientJSON string
	OAuthClientFile string
	OAuthTokenJSON  string
	OAuthTokenFile  string
}

type Store struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheet         string
}

var _ records.Store = (*Store)(nil)

// NewService initializes a Sheets service from creds.
func NewService(ctx context.Context, creds Credentials, opts ...goption.ClientOption) (*gsheet.Service, error) {
	auth, err := authOption(ctx, creds)
	if err != nil {
		return nil, err
	}
	opts = append([]goption.ClientOption{auth, goption.WithScopes(gsheet.SpreadsheetsScope)}, opts...)
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

func authOption(ctx context.Context, creds Credentials) (goption.ClientOption, error) {
	sa, err := readSecret(creds.JSON, creds.File)
	if err != nil {
		return nil, fmt.Errorf("read service account: %w", err)
	}
	if sa != nil {
		slog.DebugContext(ctx, "Using Google service account", "credentials_size", len(sa))
		return goption.WithCredentialsJSON(sa), nil
	}

	client, err := readSecret(creds.OAuthClientJSON, creds.OAuthClientFile)
	if err != nil {
		return nil, fmt.Errorf("read oauth client: %w", err)
	}
	if client == nil {
		return nil, errors.New("missing Google credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_OAUTH_CLIENT_JSON/_FILE)")
	}
	cfg, err := OAuthConfig(client)
	if err != nil {
		return nil, err
	}
	tokenJSON, err := readSecret(creds.OAuthTokenJSON, creds.OAuthTokenFile)
	if err != nil {
		return nil, fmt.Errorf("read oauth token: %w", err)
	}
	if tokenJSON == nil {
		return nil, errors.New("missing oauth token (set GOOGLE_OAUTH_TOKEN_JSON or GOOGLE_OAUTH_TOKEN_FILE, or run sheets-oauth-init)")
	}
	var tok oauth2.Token
	if err := json.Unmarshal(tokenJSON, &tok); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}
	slog.DebugContext(ctx, "Using Google OAuth user token")
	return goption.WithTokenSource(cfg.TokenSource(ctx, &tok)), nil
}

// OAuthConfig parses an OAuth client definition for the Sheets scope.
func OAuthConfig(clientJSON []byte) (*oauth2.Config, error) {
	cfg, err := googleoauth.ConfigFromJSON(clientJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}
	return cfg, nil
}

// readSecret returns inline when set, else the contents of file, else nil.
func readSecret(inline, file string) ([]byte, error) {
	if strings.TrimSpace(inline) != "" {
		return []byte(inline), nil
	}
	if strings.TrimSpace(file) == "" {
		return nil, nil
	}
	return os.ReadFile(file)
}

// MaxCellChars is the most characters Sheets accepts in one cell. A
// credit whose record is longer cannot be stored here.
const MaxCellChars = 50000

var ErrRecordTooLarge = errors.New("record exceeds the Sheets cell limit")

// New returns a store for gsheets://spreadsheetID/sheet.
func New(svc *gsheet.Service, spreadsheetID, sheet string) *Store {
	if sheet == "" {
		sheet = "Credits"
	}
	return &Store{svc: svc, spreadsheetID: spreadsheetID, sheet: sheet}
}

func (s *Store) column() string { return fmt.Sprintf("%s!A:A", s.sheet) }

// Load reads column A top to bottom. The API drops trailing empty rows;
// an empty row between records is malformed.
func (s *Store) Load(ctx context.Context) ([]core.Credit, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.column()).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.column(), err)
	}
	credits := make([]core.Credit, 0, len(resp.Values))
	for i, row := range resp.Values {
		var cell string
		if len(row) > 0 {
			cell = fmt.Sprint(row[0])
		}
		c, err := records.DecodeCredit([]byte(cell))
		if err != nil {
			return nil, &records.MalformedRecordError{Line: i + 1, Err: err}
		}
		credits = append(credits, c)
	}
	return credits, nil
}

// Save clears the column and writes every record from A1 down. Cells are
// written RAW so the sheet never reinterprets the JSON. Records are
// checked against MaxCellChars before anything is cleared.
func (s *Store) Save(ctx context.Context, credits []core.Credit) error {
	rows := make([][]interface{}, 0, len(credits))
	for i, c := range credits {
		data, err := records.EncodeCredit(c)
		if err != nil {
			return err
		}
		if n := utf8.RuneCount(data); n > MaxCellChars {
			return fmt.Errorf("%w: credit %d (%q) is %d characters, limit %d", ErrRecordTooLarge, i, c.Name, n, MaxCellChars)
		}
		rows = append(rows, []interface{}{string(data)})
	}

	if _, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, s.column(), &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", s.column(), err)
	}
	if len(rows) == 0 {
		return nil
	}
	vr := &gsheet.ValueRange{MajorDimension: "ROWS", Values: rows}
	target := fmt.Sprintf("%s!A1", s.sheet)
	if _, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, target, vr).ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}
