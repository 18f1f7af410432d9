package registration

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
		"register.html": {Data: []byte(`<form action="/register" method="POST"></form>`)},
	})
	rs.MountController(NewRegistrationServiceFactory(store, logger).CreateController())
	return rs
}

func postForm(rs *router.RouterService, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)
	return w
}

func TestRegisterPage(t *testing.T) {
	rs := newTestRouter(t, storagetest.NewSQLiteStore(t))

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/register", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/register"`)
}

func TestSubmitRegistrationHandler_SuccessThenDuplicate(t *testing.T) {
	store := storagetest.NewSQLiteStore(t)
	rs := newTestRouter(t, store)

	form := url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "phone": {"555-0100"}, "course": {"Mathematics"}}

	w := postForm(rs, form)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, MsgRegistered, w.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))

	w = postForm(rs, form)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, MsgAlreadyRegistered, w.Body.String())

	assert.Equal(t, int64(1), storagetest.CountRows(t, store, &models.Student{}, ""))
}

func TestSubmitRegistrationHandler_MissingFieldsBindEmpty(t *testing.T) {
	store := storagetest.NewSQLiteStore(t)
	rs := newTestRouter(t, store)

	w := postForm(rs, url.Values{"name": {"NoEmail"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, MsgRegistered, w.Body.String())
	assert.Equal(t, int64(1), storagetest.CountRows(t, store, &models.Student{}, "email = ? AND phone = ? AND course = ?", "", "", ""))
}

func TestSubmitRegistrationHandler_JSONBody(t *testing.T) {
	store := storagetest.NewSQLiteStore(t)
	rs := newTestRouter(t, store)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"name":"Grace","email":"grace@example.com","phone":"1","course":"CS"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, MsgRegistered, w.Body.String())
}

func TestSubmitRegistrationHandler_MalformedJSON(t *testing.T) {
	rs := newTestRouter(t, storagetest.NewSQLiteStore(t))

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, MsgInvalidBody, w.Body.String())
}

func TestSubmitRegistrationHandler_StoreUnavailable(t *testing.T) {
	rs := newTestRouter(t, storage.New(log.NewDiscardLogger()))

	w := postForm(rs, url.Values{"name": {"Ada"}, "email": {"ada@example.com"}})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, MsgLookupFailed, w.Body.String())
}
