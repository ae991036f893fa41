package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/richardliu001/ledger-replay/internal/csvio"
	"github.com/richardliu001/ledger-replay/internal/model"
	"github.com/richardliu001/ledger-replay/internal/service"
	"go.uber.org/zap"
)

// Persister stores a finished replay. SnapshotService satisfies it.
type Persister interface {
	Persist(ctx context.Context, runID string, res service.Result) error
}

// Handler serves replay requests. Every request gets its own processor.
type Handler struct {
	persist Persister
	log     *zap.SugaredLogger
}

func NewHandler(p Persister, log *zap.SugaredLogger) *Handler {
	return &Handler{persist: p, log: log}
}

func RegisterHandlers(r *gin.Engine, h *Handler) {
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	v1 := r.Group("/v1")
	{
		v1.POST("/replay", h.replay)
	}
}

type rejectionResp struct {
	Index  int    `json:"index"`
	Type   string `json:"type"`
	Client uint16 `json:"client"`
	Tx     uint32 `json:"tx"`
	Error  string `json:"error"`
}

type replayResp struct {
	RunID      string          `json:"run_id"`
	Accounts   []accountResp   `json:"accounts"`
	Rejections []rejectionResp `json:"rejections"`
}

type accountResp struct {
	Client    uint16 `json:"client"`
	Available string `json:"available"`
	Held      string `json:"held"`
	Total     string `json:"total"`
	Locked    bool   `json:"locked"`
}

func (h *Handler) replay(c *gin.Context) {
	txs, err := csvio.ReadTransactions(c.Request.Body)
	if err != nil {
		var perr *csvio.ParseError
		if errors.As(err, &perr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": perr.Error(), "line": perr.Line})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	runID := uuid.NewString()
	res := service.NewProcessor(h.log.With("run_id", runID)).Process(txs)

	if h.persist != nil {
		if err := h.persist.Persist(c, runID, res); err != nil {
			h.log.Errorw("persist snapshot", "run_id", runID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "persist snapshot failed", "run_id": runID})
			return
		}
	}

	accounts := res.Sorted()
	c.Header("X-Run-ID", runID)
	if c.Query("format") == csvio.FormatCSV {
		c.Header("Content-Type", "text/csv")
		c.Status(http.StatusOK)
		if err := csvio.WriteAccounts(c.Writer, accounts); err != nil {
			h.log.Errorw("write csv", "run_id", runID, "error", err)
		}
		return
	}

	resp := replayResp{
		RunID:      runID,
		Accounts:   make([]accountResp, 0, len(accounts)),
		Rejections: make([]rejectionResp, 0, len(res.Rejections)),
	}
	for _, a := range accounts {
		resp.Accounts = append(resp.Accounts, accountResp{
			Client:    a.ClientID,
			Available: a.Available.StringFixed(model.Places),
			Held:      a.Held.StringFixed(model.Places),
			Total:     a.Total.StringFixed(model.Places),
			Locked:    a.Locked,
		})
	}
	for _, r := range res.Rejections {
		resp.Rejections = append(resp.Rejections, rejectionResp{
			Index: r.Index, Type: string(r.Tx.Kind), Client: r.Tx.ClientID, Tx: r.Tx.ID, Error: r.Err.Error(),
		})
	}
	c.JSON(http.StatusOK, resp)
}
