package contact

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/akeren/college-forms/config/router"
	"github.com/akeren/college-forms/internal/log"
	"github.com/akeren/college-forms/internal/models"
	"github.com/akeren/college-forms/internal/storage"
	"github.com/akeren/college-forms/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, store *storage.Store) *router.RouterService {
	t.Helper()
	t.Setenv("METRICS_ENABLED", "false")

	logger := log.NewDiscardLogger()
	rs := router.CreateRouterService(logger, nil)
	rs.MountAssets(fstest.MapFS{
		"contact.html": {Data: []byte(`<form action="/contact" method="POST"></form>`)},
	})
	rs.MountController(NewContactServiceFactory(store, logger).CreateController())
	return rs
}

func postContact(rs *router.RouterService, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)
	return w
}

func TestHomePageIsContactForm(t *testing.T) {
	rs := newTestRouter(t, storagetest.NewSQLiteStore(t))

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/contact"`)
}

func TestSubmitContactHandler_StoresExactFields(t *testing.T) {
	store := storagetest.NewSQLiteStore(t)
	rs := newTestRouter(t, store)

	w := postContact(rs, url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "message": {"When does term start?"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, MsgRecorded, w.Body.String())

	db, err := store.Conn(t.Context())
	require.NoError(t, err)

	var rows []models.ContactMessage
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ada", rows[0].Name)
	assert.Equal(t, "ada@example.com", rows[0].Email)
	assert.Equal(t, "When does term start?", rows[0].Message)
}

func TestSubmitContactHandler_MultipartBody(t *testing.T) {
	store := storagetest.NewSQLiteStore(t)
	rs := newTestRouter(t, store)

	body := strings.Join([]string{
		"--b",
		`Content-Disposition: form-data; name="name"`,
		"",
		"Grace",
		"--b",
		`Content-Disposition: form-data; name="message"`,
		"",
		"Hi",
		"--b--",
		"",
	}, "\r\n")
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=b")
	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), storagetest.CountRows(t, store, &models.ContactMessage{}, "name = ? AND email = ?", "Grace", ""))
}

func TestSubmitContactHandler_StoreClosed(t *testing.T) {
	store := storagetest.NewSQLiteStore(t)
	rs := newTestRouter(t, store)
	require.NoError(t, store.Close())

	w := postContact(rs, url.Values{"name": {"Ada"}})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, MsgSubmitFailed, w.Body.String())
}
