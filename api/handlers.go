package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xraph/ezcoin/ezai"
	"github.com/xraph/ezcoin/planner"
	"github.com/xraph/ezcoin/pricing"
	"github.com/xraph/ezcoin/transaction"
)

// ──────────────────────────────────────────────────
// Public
// ──────────────────────────────────────────────────

func (s *Server) health(c *gin.Context) {
	if err := s.ledger.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) packages(c *gin.Context) {
	prices := make([]pricing.Price, 0, 7)
	for _, a := range []pricing.Action{
		pricing.ActionTextPost,
		pricing.ActionImagePost,
		pricing.ActionLike,
		pricing.ActionAISummarize,
		pricing.ActionAIExpand,
		pricing.ActionAISuggest,
		pricing.ActionPermanentSave,
	} {
		p, _ := pricing.Lookup(a) //nolint:errcheck // fixed catalog
		prices = append(prices, p)
	}
	c.JSON(http.StatusOK, gin.H{
		"packages":        pricing.Packages(),
		"payment_methods": pricing.PaymentMethods(),
		"prices":          prices,
		"starting_grant":  s.ledger.StartingGrant(),
	})
}

// ──────────────────────────────────────────────────
// Wallet
// ──────────────────────────────────────────────────

func (s *Server) wallet(c *gin.Context) {
	w := s.ledger.Wallet(Address(c))
	balance, err := w.Balance(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"address":    w.Address(),
		"is_default": w.IsDefault(),
		"balance":    balance,
	})
}

func (s *Server) history(c *gin.Context) {
	txns, err := s.ledger.Wallet(Address(c)).History(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}

type purchaseRequest struct {
	PackageID string `json:"packageId"`
	Amount    int64  `json:"amount"`
	Method    string `json:"method"`
}

func (s *Server) purchase(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ctx := c.Request.Context()
	w := s.ledger.Wallet(Address(c))

	var (
		txn *transaction.Transaction
		err error
	)
	if req.PackageID != "" {
		txn, err = w.PurchasePackage(ctx, req.PackageID, req.Method)
	} else {
		txn, err = w.Purchase(ctx, req.Amount, req.Method)
	}
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.walletAfter(c, txn)
}

type spendRequest struct {
	Amount  int64  `json:"amount"`
	Purpose string `json:"purpose"`
}

func (s *Server) spend(c *gin.Context) {
	var req spendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	txn, err := s.ledger.Wallet(Address(c)).Spend(c.Request.Context(), req.Amount, req.Purpose)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.walletAfter(c, txn)
}

func (s *Server) charge(c *gin.Context) {
	action := pricing.Action(c.Param("action"))
	txn, err := s.ledger.Wallet(Address(c)).Charge(c.Request.Context(), action)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.walletAfter(c, txn)
}

// walletAfter answers a committed mutation with txn and the new balance.
func (s *Server) walletAfter(c *gin.Context, txn *transaction.Transaction) {
	w := s.ledger.Wallet(Address(c))
	balance, err := w.Balance(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"address":     w.Address(),
		"balance":     balance,
		"transaction": txn,
	})
}

// ──────────────────────────────────────────────────
// Planner
// ──────────────────────────────────────────────────

func (s *Server) listEvents(c *gin.Context) {
	ctx := c.Request.Context()
	owner := Address(c)

	viewParam := c.Query("view")
	if viewParam == "" {
		events, err := s.ledger.ListPlannerEvents(ctx, owner)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": events})
		return
	}

	view, err := planner.ParseView(viewParam)
	if err != nil {
		s.respondError(c, err)
		return
	}
	date, err := parseDate(c.Query("date"))
	if err != nil {
		badRequest(c, "date must be YYYY-MM-DD or RFC 3339")
		return
	}
	cal, err := s.ledger.PlannerView(ctx, owner, view, date)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cal)
}

func (s *Server) createEvent(c *gin.Context) {
	var template planner.Event
	if err := c.ShouldBindJSON(&template); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	out, err := s.ledger.CreatePlannerEvent(c.Request.Context(), Address(c), template)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (s *Server) export(c *gin.Context) {
	format, err := planner.ParseFormat(c.DefaultQuery("format", string(planner.FormatJSON)))
	if err != nil {
		s.respondError(c, err)
		return
	}
	events, err := s.ledger.ListPlannerEvents(c.Request.Context(), Address(c))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.Header("Content-Type", format.ContentType())
	c.Header("Content-Disposition", `attachment; filename="`+format.FileName()+`"`)
	c.Status(http.StatusOK)
	if err := planner.Export(c.Writer, format, events); err != nil {
		s.logger.Error("export failed", "owner", Address(c), "format", string(format), "error", err)
	}
}

type suggestRequest struct {
	Posts []planner.Post `json:"posts"`
}

func (s *Server) suggest(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	suggestions := s.ledger.SuggestPlannerEvents(req.Posts)
	if suggestions == nil {
		suggestions = []planner.Event{}
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// ──────────────────────────────────────────────────
// Assistant
// ──────────────────────────────────────────────────

type assistRequest struct {
	Content string `json:"content"`
}

func (s *Server) assist(c *gin.Context) {
	var req assistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	action, err := ezai.ParseAction(c.Param("action"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	res, err := s.ledger.Assist(c.Request.Context(), Address(c), action, req.Content)
	if err != nil && res != nil && res.Transaction != nil {
		s.logger.Error("assistant failed after charge", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":       "assistant unavailable",
			"transaction": res.Transaction,
		})
		return
	}
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
