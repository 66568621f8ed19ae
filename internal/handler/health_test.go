package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func decodeHealth(t *testing.T, w *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestHandleHealthz(t *testing.T) {
	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()

	HandleHealthz().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, `{"status":"ok"}`+"\n", w.Body.String())
}

func TestHandleReadyz(t *testing.T) {
	t.Run("All Dependencies Up", func(t *testing.T) {
		db := &MockPinger{}
		db.On("Ping", mock.Anything).Return(nil)
		cache := &MockPinger{}
		cache.On("Ping", mock.Anything).Return(nil)

		w := httptest.NewRecorder()
		HandleReadyz(map[string]Pinger{"database": db, "redis": cache}).
			ServeHTTP(w, httptest.NewRequest("GET", "/readyz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeHealth(t, w)
		assert.Equal(t, StatusOK, resp.Status)
		assert.Equal(t, map[string]string{"database": StatusOK, "redis": StatusOK}, resp.Checks)
		db.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("Database Connection Failed", func(t *testing.T) {
		db := &MockPinger{}
		db.On("Ping", mock.Anything).Return(errors.New("connection refused"))

		w := httptest.NewRecorder()
		HandleReadyz(map[string]Pinger{"database": db}).
			ServeHTTP(w, httptest.NewRequest("GET", "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decodeHealth(t, w)
		assert.Equal(t, StatusUnavailable, resp.Status)
		assert.Equal(t, MsgDependencyUnavailable, resp.Message)
		assert.Equal(t, StatusUnavailable, resp.Checks["database"])
	})

	t.Run("One Of Two Down Still Reports Both", func(t *testing.T) {
		db := &MockPinger{}
		db.On("Ping", mock.Anything).Return(nil)
		cache := &MockPinger{}
		cache.On("Ping", mock.Anything).Return(context.DeadlineExceeded)

		w := httptest.NewRecorder()
		HandleReadyz(map[string]Pinger{"database": db, "redis": cache}).
			ServeHTTP(w, httptest.NewRequest("GET", "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decodeHealth(t, w)
		assert.Equal(t, StatusOK, resp.Checks["database"])
		assert.Equal(t, StatusUnavailable, resp.Checks["redis"])
	})

	t.Run("Nil Pinger Skipped", func(t *testing.T) {
		w := httptest.NewRecorder()
		HandleReadyz(map[string]Pinger{"redis": nil}).
			ServeHTTP(w, httptest.NewRequest("GET", "/readyz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decodeHealth(t, w).Checks)
	})

	t.Run("PingFunc Adapter", func(t *testing.T) {
		called := false
		p := PingFunc(func(ctx context.Context) error {
			called = true
			return nil
		})

		w := httptest.NewRecorder()
		HandleReadyz(map[string]Pinger{"store": p}).
			ServeHTTP(w, httptest.NewRequest("GET", "/readyz", nil))

		assert.True(t, called)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHandleVersion(t *testing.T) {
	w := httptest.NewRecorder()
	HandleVersion("1.4.0").ServeHTTP(w, httptest.NewRequest("GET", "/version", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var info VersionInfo
	require.NoError(t, json.NewDecoder(w.Body).Decode(&info))
	assert.Equal(t, "1.4.0", info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestHandleVersion_DefaultsToDev(t *testing.T) {
	assert.Equal(t, "dev", buildVersionInfo("").Version)
}
