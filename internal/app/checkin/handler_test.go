package checkin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	core "luogu-auto-checkin/internal/checkin"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sweeperFunc func(ctx context.Context) core.Report

func (f sweeperFunc) Sweep(ctx context.Context) core.Report { return f(ctx) }

func newTestMux(s Sweeper) *chi.Mux {
	r := chi.NewRouter()
	NewRunHandler(NewRunHandlerParams{Sweeper: s, Logger: zap.NewNop().Sugar()}).RegisterRoute(r)
	NewStatusHandler().RegisterRoute(r)
	return r
}

func TestRunHandler_ReturnsReport(t *testing.T) {
	t.Parallel()

	uid := "42"
	calls := 0
	r := newTestMux(sweeperFunc(func(ctx context.Context) core.Report {
		calls++
		return core.Report{
			RunID:     "run-1",
			OK:        true,
			Succeeded: 1,
			Results:   []core.Result{{UID: &uid, OK: true, Message: core.MessageCheckedIn}},
		}
	}))

	req := httptest.NewRequest(http.MethodPost, "/run", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
	require.Equal(t, 1, calls)

	var got struct {
		RunID   string `json:"run_id"`
		OK      bool   `json:"ok"`
		Results []struct {
			UID     *string `json:"uid"`
			OK      bool    `json:"ok"`
			Message string  `json:"message"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, "run-1", got.RunID)
	require.True(t, got.OK)
	require.Len(t, got.Results, 1)
	require.Equal(t, "42", *got.Results[0].UID)
	require.Equal(t, core.MessageCheckedIn, got.Results[0].Message)
}

func TestRunHandler_ConfigFailureStillAnswers200(t *testing.T) {
	t.Parallel()

	r := newTestMux(sweeperFunc(func(ctx context.Context) core.Report {
		return core.Report{OK: false, Error: "missing configuration", ErrorCode: core.ErrorCodeMissingConfiguration, Results: []core.Result{}}
	}))

	req := httptest.NewRequest(http.MethodPost, "/run", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"ok": false`)
	require.Contains(t, rr.Body.String(), `"error_code": "missing_configuration"`)
}

func TestRunHandler_SweepSurvivesClientCancel(t *testing.T) {
	t.Parallel()

	var sweepErr error
	r := newTestMux(sweeperFunc(func(ctx context.Context) core.Report {
		sweepErr = ctx.Err()
		return core.Report{OK: true, Results: []core.Result{}}
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodPost, "/run", nil).WithContext(ctx)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, sweepErr)
}

func TestStatusHandler(t *testing.T) {
	t.Parallel()

	r := newTestMux(sweeperFunc(func(ctx context.Context) core.Report {
		t.Fatal("status page must not run a sweep")
		return core.Report{}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
	require.Equal(t, StatusText, rr.Body.String())
}

func TestRoutes_UnknownPathIsNotFound(t *testing.T) {
	t.Parallel()

	r := newTestMux(sweeperFunc(func(ctx context.Context) core.Report { return core.Report{} }))

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}
