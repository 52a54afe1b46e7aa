package settings

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Miraubolant/MiroTrak-sub001/internal/db/controller/setting"
	"github.com/Miraubolant/MiroTrak-sub001/internal/db/models"
	"github.com/Miraubolant/MiroTrak-sub001/internal/web/handler"
)

// setupTestApp creates a fiber app serving the settings routes over an in-memory SQLite database.
func setupTestApp(t *testing.T) (*fiber.App, *setting.Store) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Setting{}))

	t.Cleanup(func() { _ = sqlDB.Close() })

	store := setting.New(db)
	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	require.NoError(t, New(store).Init(app))

	return app, store
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, data
}

func TestPost(t *testing.T) {
	app, _ := setupTestApp(t)

	testCases := []struct {
		name          string
		body          string
		expectedCode  int
		expectedValue string
		expectedType  string
	}{
		{
			name:          "string value",
			body:          `{"key":"company_name","value":"Acme"}`,
			expectedCode:  http.StatusOK,
			expectedValue: "Acme",
			expectedType:  "string",
		},
		{
			name:          "number literal",
			body:          `{"key":"vat_rate","value":20.5,"type":"number"}`,
			expectedCode:  http.StatusOK,
			expectedValue: "20.5",
			expectedType:  "number",
		},
		{
			name:          "boolean literal",
			body:          `{"key":"show_logo","value":true,"type":"boolean"}`,
			expectedCode:  http.StatusOK,
			expectedValue: "true",
			expectedType:  "boolean",
		},
		{
			name:          "json object",
			body:          `{"key":"layout","value":{"margin":10},"type":"json"}`,
			expectedCode:  http.StatusOK,
			expectedValue: `{"margin":10}`,
			expectedType:  "json",
		},
		{
			name:         "missing key",
			body:         `{"value":"x"}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "missing value",
			body:         `{"key":"theme"}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "null value",
			body:         `{"key":"theme","value":null}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "unknown type",
			body:         `{"key":"theme","value":"dark","type":"color"}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "value does not match type",
			body:         `{"key":"vat_rate","value":"twenty","type":"number"}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "broken body",
			body:         `{"key":`,
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := doRequest(t, app, http.MethodPost, Path, tc.body)
			require.Equal(t, tc.expectedCode, code, string(body))

			if tc.expectedCode != http.StatusOK {
				var errResp handler.ErrorResponse
				require.NoError(t, json.Unmarshal(body, &errResp))
				assert.NotEmpty(t, errResp.Message)
				assert.NotEmpty(t, errResp.Error)

				return
			}

			var row models.Setting
			require.NoError(t, json.Unmarshal(body, &row))
			assert.Equal(t, tc.expectedValue, row.Value)
			assert.Equal(t, tc.expectedType, row.Type)
		})
	}
}

func TestGet(t *testing.T) {
	app, store := setupTestApp(t)

	_, err := store.Upsert(t.Context(), setting.Input{Key: "currency", Value: "EUR"})
	require.NoError(t, err)

	code, body := doRequest(t, app, http.MethodGet, Path+"/currency", "")
	require.Equal(t, http.StatusOK, code)

	var row models.Setting
	require.NoError(t, json.Unmarshal(body, &row))
	assert.Equal(t, "currency", row.Key)
	assert.Equal(t, "EUR", row.Value)
	assert.False(t, row.CreatedAt.IsZero())

	code, body = doRequest(t, app, http.MethodGet, Path+"/missing", "")
	require.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"message":"Setting not found"}`, string(body))
}

func TestList(t *testing.T) {
	app, store := setupTestApp(t)

	code, body := doRequest(t, app, http.MethodGet, Path, "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(body))

	_, err := store.BulkUpsert(t.Context(), []setting.Input{
		{Key: "a", Value: "1", Type: "number"},
		{Key: "b", Value: "x"},
	})
	require.NoError(t, err)

	code, body = doRequest(t, app, http.MethodGet, Path, "")
	require.Equal(t, http.StatusOK, code)

	var rows []models.Setting
	require.NoError(t, json.Unmarshal(body, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].Key)
	assert.Equal(t, "b", rows[1].Key)
}

func TestBulk(t *testing.T) {
	app, store := setupTestApp(t)

	_, err := store.Upsert(t.Context(), setting.Input{Key: "existing", Value: "kept"})
	require.NoError(t, err)

	t.Run("returns every row after apply", func(t *testing.T) {
		code, body := doRequest(t, app, http.MethodPut, BulkPath,
			`{"settings":[{"key":"a","value":"1","type":"number"},{"key":"b","value":false,"type":"boolean"}]}`)
		require.Equal(t, http.StatusOK, code, string(body))

		var rows []models.Setting
		require.NoError(t, json.Unmarshal(body, &rows))
		require.Len(t, rows, 3)
		assert.Equal(t, "existing", rows[0].Key)
		assert.Equal(t, "false", rows[2].Value)
	})

	t.Run("empty list is accepted", func(t *testing.T) {
		code, _ := doRequest(t, app, http.MethodPut, BulkPath, `{"settings":[]}`)
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("missing settings field", func(t *testing.T) {
		code, _ := doRequest(t, app, http.MethodPut, BulkPath, `{}`)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("failure keeps earlier entries", func(t *testing.T) {
		code, body := doRequest(t, app, http.MethodPut, BulkPath,
			`{"settings":[{"key":"c","value":"ok"},{"key":"d","value":"nope","type":"boolean"}]}`)
		require.Equal(t, http.StatusBadRequest, code)

		var errResp handler.ErrorResponse
		require.NoError(t, json.Unmarshal(body, &errResp))
		assert.Contains(t, errResp.Error, "settings[1]")

		_, err := store.Get(t.Context(), "c")
		require.NoError(t, err)
	})
}

func TestDelete(t *testing.T) {
	app, store := setupTestApp(t)

	_, err := store.Upsert(t.Context(), setting.Input{Key: "theme", Value: "dark"})
	require.NoError(t, err)

	code, body := doRequest(t, app, http.MethodDelete, Path+"/theme", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"message":"Setting deleted successfully"}`, string(body))

	code, _ = doRequest(t, app, http.MethodDelete, Path+"/theme", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestValueText(t *testing.T) {
	testCases := []struct {
		raw      string
		expected string
		wantErr  bool
	}{
		{raw: `"plain"`, expected: "plain"},
		{raw: `"with \"quotes\""`, expected: `with "quotes"`},
		{raw: `42`, expected: "42"},
		{raw: `[1,2]`, expected: "[1,2]"},
		{raw: `null`, wantErr: true},
		{raw: ``, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := valueText(json.RawMessage(tc.raw))
			if tc.wantErr {
				require.ErrorIs(t, err, ErrValueMissing)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestPostLogsTypedValue(t *testing.T) {
	app, _ := setupTestApp(t)

	var buf bytes.Buffer

	prev := log.Logger
	log.Logger = zerolog.New(&buf)

	t.Cleanup(func() { log.Logger = prev })

	testCases := []struct {
		name     string
		body     string
		expected any
	}{
		{name: "string", body: `{"key":"company_name","value":"Acme"}`, expected: "Acme"},
		{name: "boolean", body: `{"key":"show_logo","value":true,"type":"boolean"}`, expected: true},
		{name: "number", body: `{"key":"vat_rate","value":20.5,"type":"number"}`, expected: 20.5},
		{name: "json", body: `{"key":"layout","value":{"margin":12},"type":"json"}`, expected: map[string]any{"margin": float64(12)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf.Reset()

			code, _ := doRequest(t, app, http.MethodPost, Path, tc.body)
			require.Equal(t, http.StatusOK, code)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "setting saved", entry["message"])
			assert.Equal(t, tc.expected, entry["value"])
		})
	}
}
