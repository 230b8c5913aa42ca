package bankapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/bankbook/internal/auth"
	"github.com/MarkoPoloResearchLab/bankbook/internal/registry"
	"github.com/MarkoPoloResearchLab/bankbook/pkg/bank"
)

// Run boots the HTTP facade using the supplied configuration.
func Run(ctx context.Context, cfg Config) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("zap init: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	router, err := newRouter(cfg, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("bankapi listening", zap.String("addr", cfg.ListenAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Warn("server shutdown error", zap.Error(shutdownErr))
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func newRouter(cfg Config, logger *zap.Logger) (*gin.Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sessions, err := auth.NewManager([]byte(cfg.SessionSigningKey), cfg.SessionIssuer, cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("session manager: %w", err)
	}
	accounts := registry.New(bank.WithOperationLogger(&zapOperationLogger{logger: logger}))
	handler := &httpHandler{
		logger:   logger,
		sessions: sessions,
		accounts: accounts,
		cfg:      cfg,
	}
	return setupRouter(cfg, handler, sessions), nil
}

func setupRouter(cfg Config, handler *httpHandler, sessions *auth.Manager) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Origin", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/api/sessions", handler.handleSession)

	api := router.Group("/api")
	api.Use(sessions.GinMiddleware())

	api.POST("/accounts", handler.handleOpenAccount)
	api.GET("/accounts/:id", handler.handleAccount)
	api.POST("/accounts/:id/deposit", handler.handleDeposit)
	api.POST("/accounts/:id/withdraw", handler.handleWithdraw)
	api.GET("/accounts/:id/history", handler.handleHistory)

	return router
}

type httpHandler struct {
	logger   *zap.Logger
	sessions *auth.Manager
	accounts *registry.Registry
	cfg      Config
}

func (handler *httpHandler) handleSession(ctx *gin.Context) {
	var request sessionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	holder := strings.TrimSpace(request.Holder)
	if holder == "" {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_holder", "holder is required"))
		return
	}
	token, expiresAt, err := handler.sessions.Issue(holder)
	if err != nil {
		handler.logger.Error("session issue failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("session_error", "could not issue session"))
		return
	}
	ctx.JSON(http.StatusOK, SessionEnvelope{
		Token:   token,
		Holder:  holder,
		Expires: expiresAt.Unix(),
	})
}

func (handler *httpHandler) handleOpenAccount(ctx *gin.Context) {
	holder, ok := auth.HolderFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, errorResponse("unauthorized", "missing session"))
		return
	}
	var request openAccountRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	kind := registry.Kind(request.Kind)
	if request.Kind == "" {
		kind = registry.KindStandard
	}
	summary, err := handler.accounts.Open(holder, registry.OpenSpec{
		Kind:           kind,
		InitialBalance: request.InitialBalance,
		CreditLimit:    request.CreditLimit,
	})
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	handler.logger.Info("account opened",
		zap.String("account_id", summary.AccountID),
		zap.String("kind", string(summary.Kind)),
	)
	ctx.JSON(http.StatusCreated, AccountEnvelope{Account: accountPayload(summary)})
}

func (handler *httpHandler) handleAccount(ctx *gin.Context) {
	holder, ok := auth.HolderFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, errorResponse("unauthorized", "missing session"))
		return
	}
	summary, err := handler.accounts.Summary(holder, ctx.Param("id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, AccountEnvelope{Account: accountPayload(summary)})
}

func (handler *httpHandler) handleDeposit(ctx *gin.Context) {
	handler.handleOperation(ctx, handler.accounts.Deposit)
}

func (handler *httpHandler) handleWithdraw(ctx *gin.Context) {
	handler.handleOperation(ctx, handler.accounts.Withdraw)
}

// Business-rule rejections answer 200 with a fail record; only transport and
// lookup problems map to error statuses.
func (handler *httpHandler) handleOperation(ctx *gin.Context, operation func(string, string, float64) (bank.OperationRecord, registry.Summary, error)) {
	holder, ok := auth.HolderFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, errorResponse("unauthorized", "missing session"))
		return
	}
	var request amountRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	record, summary, err := operation(holder, ctx.Param("id"), request.Amount)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, OperationEnvelope{
		Record:  recordPayload(record),
		Account: accountPayload(summary),
	})
}

func (handler *httpHandler) handleHistory(ctx *gin.Context) {
	holder, ok := auth.HolderFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, errorResponse("unauthorized", "missing session"))
		return
	}
	// The configured limit is only a default; an explicit query may ask for
	// more, capped at maxHistoryLimit.
	limit := handler.cfg.HistoryLimit
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			ctx.JSON(http.StatusBadRequest, errorResponse("invalid_limit", "limit must be a positive integer"))
			return
		}
		limit = parsed
		if limit > maxHistoryLimit {
			limit = maxHistoryLimit
		}
	}
	accountID := ctx.Param("id")
	records, err := handler.accounts.History(holder, accountID, limit)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, HistoryEnvelope{
		AccountID: accountID,
		Records:   recordPayloads(records),
	})
}

func (handler *httpHandler) respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, registry.ErrUnknownAccount):
		ctx.JSON(http.StatusNotFound, errorResponse("not_found", "unknown account"))
	case errors.Is(err, registry.ErrNotOwner):
		ctx.JSON(http.StatusForbidden, errorResponse("forbidden", "account owned by another holder"))
	case errors.Is(err, registry.ErrInvalidKind),
		errors.Is(err, bank.ErrInvalidInitialBalance),
		errors.Is(err, bank.ErrInvalidCreditLimit):
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_argument", err.Error()))
	default:
		handler.logger.Error("registry operation failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("internal_error", "unexpected failure"))
	}
}

// zapOperationLogger forwards journal callbacks to structured logs.
type zapOperationLogger struct {
	logger *zap.Logger
}

func (adapter *zapOperationLogger) LogOperation(entry bank.OperationLog) {
	adapter.logger.Info("operation journaled",
		zap.String("holder", entry.Holder),
		zap.String("operation", string(entry.Operation)),
		zap.Float64("amount", entry.Amount),
		zap.String("status", string(entry.Status)),
		zap.String("reason", string(entry.Reason)),
		zap.Float64("balance_after", entry.BalanceAfter),
	)
}
