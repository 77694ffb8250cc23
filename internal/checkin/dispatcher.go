package checkin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"

	"go.uber.org/zap"
)

// Doer issues one HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type DispatcherConfig struct {
	Endpoint  string
	UserAgent string
	Logger    *zap.SugaredLogger
}

// Dispatcher performs the check-in request for one account and classifies the
// response. It never returns an error: every failure becomes a Result.
type Dispatcher struct {
	doer      Doer
	endpoint  string
	userAgent string
	logger    *zap.SugaredLogger
}

func NewDispatcher(doer Doer, cfg DispatcherConfig) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Dispatcher{
		doer:      doer,
		endpoint:  cfg.Endpoint,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

type punchResponse struct {
	Code json.RawMessage `json:"code"`
}

func (d *Dispatcher) Checkin(ctx context.Context, acct Account) Result {
	uid := acct.UID

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.endpoint, nil)
	if err != nil {
		return d.networkError(uid, err)
	}
	req.Header.Set("Cookie", fmt.Sprintf("__client_id=%s; _uid=%s;", acct.ClientID, acct.UID))
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.doer.Do(req)
	if err != nil {
		return d.networkError(uid, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return d.networkError(uid, err)
	}

	if resp.StatusCode != http.StatusOK {
		d.logger.Errorw("checkin_http_error", "uid", uid, "status", resp.StatusCode, "body", string(body))
		return Result{
			UID:    strPtr(uid),
			OK:     false,
			Status: intPtr(resp.StatusCode),
			Body:   string(body),
			Error:  ErrorHTTP,
		}
	}

	if !json.Valid(body) {
		d.logger.Errorw("checkin_invalid_json", "uid", uid, "body", string(body))
		return Result{UID: strPtr(uid), OK: false, Body: string(body), Error: ErrorInvalidJSON}
	}

	d.logger.Debugw("checkin_response", "uid", uid, "body", string(body))

	code, ok := responseCode(body)
	switch {
	case ok && code == 200:
		d.logger.Infow("checkin_succeeded", "uid", uid)
		return Result{UID: strPtr(uid), OK: true, Code: &code, Message: MessageCheckedIn}
	case ok && code == 201:
		d.logger.Infow("checkin_already_done", "uid", uid)
		return Result{UID: strPtr(uid), OK: true, Code: &code, Message: MessageAlreadyCheckedIn}
	}

	res := Result{
		UID:   strPtr(uid),
		OK:    false,
		Body:  json.RawMessage(bytes.TrimSpace(body)),
		Error: ErrorUnexpectedResponse,
	}
	if ok {
		res.Code = &code
	}
	d.logger.Warnw("checkin_unexpected_response", "uid", uid, "body", string(body))
	return res
}

func (d *Dispatcher) networkError(uid string, err error) Result {
	d.logger.Errorw("checkin_network_error", "uid", uid, "err", err)
	return Result{UID: strPtr(uid), OK: false, Error: ErrorNetwork, Detail: err.Error()}
}

// responseCode extracts an integral numeric "code" from a JSON object body.
// 200.0 and 2e2 are the number 200; a quoted code is not a code.
func responseCode(body []byte) (int64, bool) {
	var pr punchResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return 0, false
	}
	raw := bytes.TrimSpace(pr.Code)
	if len(raw) == 0 || raw[0] == '"' {
		return 0, false
	}
	f, err := json.Number(raw).Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
