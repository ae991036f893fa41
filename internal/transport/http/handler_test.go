package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/richardliu001/ledger-replay/internal/config"
	"github.com/richardliu001/ledger-replay/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPersister struct {
	runID string
	res   service.Result
	err   error
}

func (p *recordingPersister) Persist(_ context.Context, runID string, res service.Result) error {
	p.runID, p.res = runID, res
	return p.err
}

const body = `type,client,tx,amount
deposit,1,1,5.5
deposit,1,2,2.5
dispute,1,2,
chargeback,1,2,
withdrawal,2,3,1.0
`

func newTestRouter(p Persister) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	log := zap.NewNop().Sugar()
	return NewRouter(NewHandler(p, log), cfg, log)
}

func TestReplay_JSON(t *testing.T) {
	p := &recordingPersister{}
	r := newTestRouter(p)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/replay", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code)
	var resp replayResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, p.runID, resp.RunID)
	assert.Equal(t, resp.RunID, w.Header().Get("X-Run-ID"))
	require.Len(t, resp.Accounts, 1)
	assert.Equal(t, accountResp{Client: 1, Available: "5.5000", Held: "0.0000", Total: "5.5000", Locked: true}, resp.Accounts[0])
	require.Len(t, resp.Rejections, 1)
	assert.Equal(t, uint16(2), resp.Rejections[0].Client)
	assert.Equal(t, "withdrawal", resp.Rejections[0].Type)
}

func TestReplay_CSV(t *testing.T) {
	r := newTestRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/replay?format=csv", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "client,available,held,total,locked\n1,5.5000,0.0000,5.5000,true\n", w.Body.String())
}

func TestReplay_Malformed(t *testing.T) {
	r := newTestRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/replay",
		strings.NewReader("type,client,tx,amount\ndeposit,one,1,1\n")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"line":2`)
}

func TestReplay_PersistFailure(t *testing.T) {
	r := newTestRouter(&recordingPersister{err: errors.New("db down")})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/replay", strings.NewReader(body)))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(1, 1))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}
