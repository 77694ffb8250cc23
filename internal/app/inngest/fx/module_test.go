package fx

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"luogu-auto-checkin/config"
	"luogu-auto-checkin/internal/app/inngest/sweep"
	core "luogu-auto-checkin/internal/checkin"
	pkginngest "luogu-auto-checkin/internal/pkg/inngest"

	"github.com/inngest/inngestgo"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

type sweeperFunc func(ctx context.Context) core.Report

func (f sweeperFunc) Sweep(ctx context.Context) core.Report { return f(ctx) }

type stepOpcode struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

func newTestClient(t *testing.T, appID, cron string) (*config.Config, inngestgo.Client) {
	t.Helper()

	var (
		cfg    *config.Config
		client inngestgo.Client
	)
	app := fxtest.New(t,
		fx.Provide(func() *viper.Viper {
			vp := config.NewViper()
			vp.Set("inngest.dev", "1")
			vp.Set("inngest.app_id", appID)
			vp.Set("checkin.cron", cron)
			return vp
		}),
		fx.Provide(config.NewConfig),
		fx.Provide(pkginngest.NewInngestClient),
		fx.Populate(&cfg, &client),
	)
	app.RequireStart()
	t.Cleanup(app.RequireStop)

	return cfg, client
}

func newCountingSweep(calls *int32, report core.Report) *sweep.SweepFunction {
	return sweep.NewSweepFunction(sweep.NewSweepFunctionParams{
		Sweeper: sweeperFunc(func(ctx context.Context) core.Report {
			atomic.AddInt32(calls, 1)
			return report
		}),
		Logger: zap.NewNop().Sugar(),
	})
}

func invokeURL(serverURL, fnID string) string {
	q := url.Values{}
	q.Set("fnId", fnID)
	q.Set("stepId", "step")
	return serverURL + "?" + q.Encode()
}

func cronRequest(t *testing.T, steps map[string]json.RawMessage) []byte {
	t.Helper()

	evt := map[string]any{
		"name": "inngest/scheduled.timer",
		"data": map[string]any{"cron": config.DefaultCheckinCron},
	}
	if steps == nil {
		steps = map[string]json.RawMessage{}
	}
	byt, err := json.Marshal(map[string]any{
		"event":  evt,
		"events": []any{evt},
		"steps":  steps,
		"ctx": map[string]any{
			"run_id":  "01JCHECKINRUN",
			"attempt": 0,
		},
	})
	require.NoError(t, err)
	return byt
}

func post(t *testing.T, target string, body []byte) (int, []byte) {
	t.Helper()

	resp, err := http.Post(target, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	byt, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, byt
}

func TestCreateSweepFunction_Config(t *testing.T) {
	t.Parallel()

	cfg, client := newTestClient(t, "checkin-test", config.DefaultCheckinCron)

	var calls int32
	sf, err := createSweepFunction(client, cfg.Checkin.Cron, newCountingSweep(&calls, core.Report{}))
	require.NoError(t, err)

	require.Equal(t, sweep.FunctionID, sf.ID())
	require.Equal(t, "checkin-test-"+sweep.FunctionID, sf.FullyQualifiedID())

	retries := sf.Config().Retries
	require.NotNil(t, retries)
	require.Equal(t, 0, *retries)

	triggers := sf.Trigger().Triggers()
	require.Len(t, triggers, 1)
	require.Nil(t, triggers[0].EventTrigger)
	require.NotNil(t, triggers[0].CronTrigger)
	require.Equal(t, "0 0 * * *", triggers[0].CronTrigger.Cron)

	require.Zero(t, atomic.LoadInt32(&calls))
}

func TestRegisterFunctions_RunsSweepThroughStep(t *testing.T) {
	t.Parallel()

	cfg, client := newTestClient(t, "checkin-test", config.DefaultCheckinCron)

	var calls int32
	want := core.Report{RunID: "run-42", OK: true, Succeeded: 1, Results: []core.Result{}}
	require.NoError(t, registerFunctions(cfg, client, newCountingSweep(&calls, want), zap.NewNop().Sugar()))

	srv := httptest.NewServer(client.Serve())
	t.Cleanup(srv.Close)
	target := invokeURL(srv.URL, "checkin-test-"+sweep.FunctionID)

	status, body := post(t, target, cronRequest(t, nil))
	require.Equal(t, http.StatusPartialContent, status, string(body))
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))

	var ops []stepOpcode
	require.NoError(t, json.Unmarshal(body, &ops), string(body))
	require.Len(t, ops, 1)
	require.Equal(t, "run-checkin-sweep", ops[0].Name)
	require.NotEmpty(t, ops[0].ID)

	var stepReport core.Report
	require.NoError(t, json.Unmarshal(ops[0].Data, &stepReport))
	require.Equal(t, "run-42", stepReport.RunID)

	// Replaying with the memoized step state finishes the run without sweeping again.
	state, err := json.Marshal(map[string]json.RawMessage{"data": ops[0].Data})
	require.NoError(t, err)

	status, body = post(t, target, cronRequest(t, map[string]json.RawMessage{ops[0].ID: state}))
	require.Equal(t, http.StatusOK, status, string(body))
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))

	var got core.Report
	require.NoError(t, json.Unmarshal(body, &got), string(body))
	require.Equal(t, "run-42", got.RunID)
	require.True(t, got.OK)
	require.Equal(t, 1, got.Succeeded)
}

func TestRegisterFunctions_EmptyCronRegistersNothing(t *testing.T) {
	t.Parallel()

	cfg, client := newTestClient(t, "checkin-test", "")

	var calls int32
	require.NoError(t, registerFunctions(cfg, client, newCountingSweep(&calls, core.Report{}), zap.NewNop().Sugar()))

	srv := httptest.NewServer(client.Serve())
	t.Cleanup(srv.Close)

	status, body := post(t, invokeURL(srv.URL, "checkin-test-"+sweep.FunctionID), cronRequest(t, nil))
	require.Equal(t, http.StatusGone, status, string(body))
	require.Zero(t, atomic.LoadInt32(&calls))
}

func TestRegisterFunctions_DisabledWithoutAppID(t *testing.T) {
	t.Parallel()

	cfg, client := newTestClient(t, "", config.DefaultCheckinCron)

	var calls int32
	require.NoError(t, registerFunctions(cfg, client, newCountingSweep(&calls, core.Report{}), zap.NewNop().Sugar()))

	rec := httptest.NewRecorder()
	client.Serve().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/inngest", bytes.NewReader(cronRequest(t, nil))))
	require.Equal(t, http.StatusNotImplemented, rec.Code)
	require.Zero(t, atomic.LoadInt32(&calls))
}
