package inngest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"luogu-auto-checkin/config"
	pkginngest "luogu-auto-checkin/internal/pkg/inngest"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInngestHandler_DisabledAnswers501(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	client, err := pkginngest.NewInngestClient(cfg)
	require.NoError(t, err)

	h := NewInngestHandler(NewInngestHandlerParams{Logger: zap.NewNop().Sugar(), Config: cfg, Client: client})
	r := chi.NewRouter()
	h.RegisterRoute(r)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodPost} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(method, pkginngest.DefaultServePath, nil))
		require.Equal(t, http.StatusNotImplemented, rr.Code, method)
	}
}
