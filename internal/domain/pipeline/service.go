// Package pipeline orchestrates one batch run: eager loads, join assembly,
// rule evaluation and the final report write.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/referral-audit/internal/domain/enrich"
	"github.com/FACorreiaa/referral-audit/internal/domain/ingest"
	"github.com/FACorreiaa/referral-audit/internal/domain/report"
	"github.com/FACorreiaa/referral-audit/internal/domain/validity"
	"github.com/FACorreiaa/referral-audit/pkg/config"
)

// Service runs the referral audit pipeline end to end. A run is one-shot and
// single-threaded; a failed run is re-invoked after fixing the input, never
// retried.
type Service struct {
	cfg       *config.Config
	logger    *slog.Logger
	loader    *ingest.Loader
	assembler *enrich.Assembler
	engine    *validity.Engine
}

// NewService wires the pipeline stages.
func NewService(cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		cfg:       cfg,
		logger:    logger,
		loader:    ingest.NewLoader(logger),
		assembler: enrich.NewAssembler(logger),
		engine:    validity.NewEngine(),
	}
}

// Summary reports what a run produced.
type Summary struct {
	RunID     uuid.UUID
	Referrals int
	Valid     int
	Invalid   int
	Report    string
}

// Run executes the pipeline. Only the referral and user tables are required;
// a missing transactions, statuses or rewards file degrades the affected
// flags to their defaults instead of aborting. The single write happens at
// the end.
func (s *Service) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.New()
	logger := s.logger.With("runID", runID)
	logger.Info("starting referral audit run", "rawDir", s.cfg.Data.RawDir)

	referrals, err := s.loader.LoadReferrals(s.cfg.Data.ReferralsPath())
	if err != nil {
		return nil, fmt.Errorf("load referrals: %w", err)
	}
	users, err := s.loader.LoadUsers(s.cfg.Data.UsersPath())
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	transactions := loadOptionalTable(logger, "transactions", s.loader.LoadTransactions, s.cfg.Data.TransactionsPath())
	statuses := loadOptionalTable(logger, "statuses", s.loader.LoadStatuses, s.cfg.Data.StatusesPath())
	rewards := loadOptionalTable(logger, "rewards", s.loader.LoadRewards, s.cfg.Data.RewardsPath())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	enriched := s.assembler.Assemble(referrals.Records, users.Records, transactions, rewards, statuses)

	referenceDate := s.cfg.Rules.ReferenceDate
	if referenceDate.IsZero() {
		referenceDate = time.Now()
	}

	summary := &Summary{RunID: runID, Referrals: len(enriched), Report: s.cfg.Data.ReportPath()}
	for i := range enriched {
		flags := validity.DeriveFlags(enriched[i], referenceDate)
		verdict, rule := s.engine.ClassifyWithRule(flags)
		enriched[i].Valid = verdict
		if verdict {
			summary.Valid++
		} else {
			summary.Invalid++
		}
		logger.Debug("classified referral",
			"referralID", enriched[i].ReferralID, "rule", rule, "valid", verdict)
	}

	rows := report.Format(enriched)
	if err := report.Write(summary.Report, rows); err != nil {
		return nil, err
	}

	logger.Info("referral audit run finished",
		"referrals", summary.Referrals,
		"valid", summary.Valid,
		"invalid", summary.Invalid,
		"report", summary.Report,
	)
	return summary, nil
}

// loadOptionalTable loads one non-critical table. A missing file skips the stage
// with a warning; any other load failure is logged and the stage is skipped
// too, since the remaining tables still produce a usable report.
func loadOptionalTable[T any](logger *slog.Logger, table string, load func(string) (*ingest.Result[T], error), path string) []T {
	res, err := load(path)
	if err != nil {
		if errors.Is(err, ingest.ErrMissingFile) {
			logger.Warn("optional table missing, stage skipped", "table", table, "path", path)
		} else {
			logger.Error("optional table unreadable, stage skipped", "table", table, "error", err)
		}
		return nil
	}
	return res.Records
}
