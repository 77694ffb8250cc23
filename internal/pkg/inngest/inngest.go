package inngest

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"luogu-auto-checkin/config"
	"luogu-auto-checkin/internal/pkg/render"

	"github.com/inngest/inngestgo"
)

const DefaultServePath = "/api/inngest"

// NewInngestClient returns a client that refuses to send or serve when
// INNGEST_APP_ID is unset, so the rest of the app can boot without Inngest.
func NewInngestClient(cfg *config.Config) (inngestgo.Client, error) {
	appID := strings.TrimSpace(cfg.Inngest.AppID)
	if appID == "" {
		return disabledClient{reason: "inngest disabled: set INNGEST_APP_ID to enable"}, nil
	}

	dev := cfg.Inngest.Dev == "1"
	scheme := "https"
	if dev {
		scheme = "http"
	}

	opts := inngestgo.ClientOpts{
		AppID: appID,
		Dev:   inngestgo.BoolPtr(dev),
	}
	if signingKey := strings.TrimSpace(cfg.Inngest.SigningKey); signingKey != "" {
		opts.SigningKey = &signingKey
	}

	c, err := inngestgo.NewClient(opts)
	if err != nil {
		return nil, err
	}

	if serveHost := strings.TrimSpace(cfg.Inngest.ServeHost); serveHost != "" {
		c.SetURL(&url.URL{
			Scheme: scheme,
			Host:   serveHost,
			Path:   ServePath(cfg),
		})
	}

	return c, nil
}

func ServePath(cfg *config.Config) string {
	if cfg != nil {
		if v := strings.TrimSpace(cfg.Inngest.ServePath); v != "" {
			return v
		}
	}
	return DefaultServePath
}

var ErrInngestDisabled = errors.New("inngest disabled")

type disabledClient struct {
	reason string
}

func (c disabledClient) AppID() string { return "" }

func (c disabledClient) Send(ctx context.Context, evt any) (string, error) {
	return "", ErrInngestDisabled
}

func (c disabledClient) SendMany(ctx context.Context, evt []any) ([]string, error) {
	return nil, ErrInngestDisabled
}

func (c disabledClient) Options() inngestgo.ClientOpts { return inngestgo.ClientOpts{} }

func (c disabledClient) Serve() http.Handler { return c.ServeWithOpts(inngestgo.ServeOpts{}) }

func (c disabledClient) ServeWithOpts(opts inngestgo.ServeOpts) http.Handler {
	msg := strings.TrimSpace(c.reason)
	if msg == "" {
		msg = "inngest disabled"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render.ChiErr(w, http.StatusNotImplemented, msg)
	})
}

func (c disabledClient) SetOptions(opts inngestgo.ClientOpts) error { return ErrInngestDisabled }
func (c disabledClient) SetURL(u *url.URL)                           {}
