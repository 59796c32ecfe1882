// Package ingest loads the raw referral-program CSV exports into normalized
// records. Loads are lenient: headers are whitespace-trimmed, unknown columns
// are ignored, absent columns leave fields at their documented defaults, and
// row-level problems are collected rather than raised.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/referral-audit/internal/domain/localtime"
	"github.com/FACorreiaa/referral-audit/internal/domain/normalizer"
	"github.com/FACorreiaa/referral-audit/internal/domain/referral"
)

// ErrMissingFile marks an input table that could not be located. Callers
// decide per table whether that aborts the run or degrades the stage.
var ErrMissingFile = errors.New("input file not found")

// RowError records a non-fatal problem with a single input row.
type RowError struct {
	Row     int // 1-indexed data row, header excluded
	Column  string
	Message string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d, column %s: %s", e.Row, e.Column, e.Message)
}

// Result carries the normalized records of one table together with any
// row-level diagnostics gathered while converting it.
type Result[T any] struct {
	Records []T
	Errors  []RowError
	Total   int
}

func init() {
	// Raw exports carry padded headers; normalize so csv tags still bind.
	gocsv.SetHeaderNormalizer(func(header string) string {
		return strings.ToLower(strings.TrimSpace(header))
	})
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.LazyQuotes = true
		r.TrimLeadingSpace = true
		return r
	})
}

// Loader reads and normalizes the input tables.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader that logs row-level diagnostics to logger.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{logger: logger}
}

// readRows unmarshals one CSV file into raw row structs.
func readRows[R any](path string) ([]R, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrMissingFile)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var rows []R
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}

// LoadUsers reads the user log export. User ids are canonicalized; rows with
// a missing id are kept (they simply never join) but reported.
func (l *Loader) LoadUsers(path string) (*Result[referral.UserRecord], error) {
	rows, err := readRows[UserRow](path)
	if err != nil {
		return nil, err
	}

	res := &Result[referral.UserRecord]{Total: len(rows)}
	for i, row := range rows {
		rec := referral.UserRecord{
			UserID:           normalizer.CleanID(row.UserID),
			Timezone:         cleanZone(row.TimezoneHomeclub),
			MembershipExpiry: localtime.ParseTimestamp(row.MembershipExpiredDate),
			IsDeleted:        parseOptionalBool(row.IsDeleted),
			Name:             strings.TrimSpace(row.UserName),
			PhoneNumber:      strings.TrimSpace(row.PhoneNumber),
			HomeClub:         strings.TrimSpace(row.HomeClub),
		}
		if normalizer.IsMissing(rec.UserID) {
			res.Errors = append(res.Errors, RowError{Row: i + 1, Column: "user_id", Message: "missing user id"})
		}
		res.Records = append(res.Records, rec)
	}
	l.logResult(path, res.Total, len(res.Errors))
	return res, nil
}

// LoadReferrals reads the referral export and canonicalizes every id field.
func (l *Loader) LoadReferrals(path string) (*Result[referral.ReferralRecord], error) {
	rows, err := readRows[ReferralRow](path)
	if err != nil {
		return nil, err
	}

	res := &Result[referral.ReferralRecord]{Total: len(rows)}
	for i, row := range rows {
		rec := referral.ReferralRecord{
			RowID:         normalizer.CleanID(row.ID),
			ReferralID:    normalizer.CleanID(row.ReferralID),
			ReferrerID:    normalizer.CleanID(row.ReferrerID),
			RefereeID:     normalizer.CleanID(row.RefereeID),
			Source:        strings.TrimSpace(row.ReferralSource),
			ReferralAt:    localtime.ParseTimestamp(row.ReferralAt),
			TransactionID: normalizer.CleanID(row.TransactionID),
			StatusID:      normalizer.CleanID(row.StatusID),
			RefereeName:   strings.TrimSpace(row.RefereeName),
			RefereePhone:  strings.TrimSpace(row.RefereePhone),
		}
		if rec.ReferralAt.IsZero() && strings.TrimSpace(row.ReferralAt) != "" {
			res.Errors = append(res.Errors, RowError{Row: i + 1, Column: "referral_at", Message: "unparseable timestamp"})
		}
		res.Records = append(res.Records, rec)
	}
	l.logResult(path, res.Total, len(res.Errors))
	return res, nil
}

// LoadTransactions reads the paid transactions export.
func (l *Loader) LoadTransactions(path string) (*Result[referral.TransactionRecord], error) {
	rows, err := readRows[TransactionRow](path)
	if err != nil {
		return nil, err
	}

	res := &Result[referral.TransactionRecord]{Total: len(rows)}
	for i, row := range rows {
		rec := referral.TransactionRecord{
			TransactionID: normalizer.CleanID(row.TransactionID),
			Status:        strings.TrimSpace(row.TransactionStatus),
			Type:          strings.TrimSpace(row.TransactionType),
			TransactionAt: localtime.ParseTimestamp(row.TransactionAt),
		}
		if rec.TransactionAt.IsZero() && strings.TrimSpace(row.TransactionAt) != "" {
			res.Errors = append(res.Errors, RowError{Row: i + 1, Column: "transaction_at", Message: "unparseable timestamp"})
		}
		res.Records = append(res.Records, rec)
	}
	l.logResult(path, res.Total, len(res.Errors))
	return res, nil
}

// LoadStatuses reads the referral status lookup table.
func (l *Loader) LoadStatuses(path string) (*Result[referral.StatusRecord], error) {
	rows, err := readRows[StatusRow](path)
	if err != nil {
		return nil, err
	}

	res := &Result[referral.StatusRecord]{Total: len(rows)}
	for _, row := range rows {
		res.Records = append(res.Records, referral.StatusRecord{
			StatusID: normalizer.CleanID(row.ID),
			Name:     strings.TrimSpace(row.Description),
		})
	}
	l.logResult(path, res.Total, 0)
	return res, nil
}

// LoadRewards reads the referral rewards export. Unparseable reward values
// default to zero and are reported; they are never treated as missing during
// rule evaluation.
func (l *Loader) LoadRewards(path string) (*Result[referral.RewardRecord], error) {
	rows, err := readRows[RewardRow](path)
	if err != nil {
		return nil, err
	}

	res := &Result[referral.RewardRecord]{Total: len(rows)}
	for i, row := range rows {
		rec := referral.RewardRecord{
			ReferralID: normalizer.CleanID(row.UserReferralID),
			Value:      decimal.Zero,
		}
		raw := strings.TrimSpace(row.RewardValue)
		if raw != "" && !strings.EqualFold(raw, "nan") {
			value, err := decimal.NewFromString(raw)
			if err != nil {
				res.Errors = append(res.Errors, RowError{Row: i + 1, Column: "reward_value", Message: "unparseable numeric, defaulting to 0"})
			} else {
				rec.Value = value
			}
		}
		if granted := parseOptionalBool(row.IsRewardGranted); granted != nil {
			rec.Granted = *granted
		}
		res.Records = append(res.Records, rec)
	}
	l.logResult(path, res.Total, len(res.Errors))
	return res, nil
}

func (l *Loader) logResult(path string, total, errCount int) {
	if errCount > 0 {
		l.logger.Warn("loaded table with row errors", "path", path, "rows", total, "rowErrors", errCount)
		return
	}
	l.logger.Info("loaded table", "path", path, "rows", total)
}

// cleanZone trims a timezone cell and maps the "nan"/"null" placeholders to
// missing, so a placeholder never shadows the referee-zone fallback.
func cleanZone(raw string) string {
	s := strings.TrimSpace(raw)
	if localtime.MissingZone(s) {
		return ""
	}
	return s
}

// parseOptionalBool reads lenient boolean cells ("True", "false", "1").
// Anything else, including empty cells, is absent.
func parseOptionalBool(raw string) *bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "t", "yes":
		v := true
		return &v
	case "false", "0", "f", "no":
		v := false
		return &v
	}
	return nil
}
