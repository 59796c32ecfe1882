// Package report projects the classified referral table into the fixed
// output schema and writes the final CSV.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/FACorreiaa/referral-audit/internal/domain/localtime"
	"github.com/FACorreiaa/referral-audit/internal/domain/referral"
)

// unknown is the documented default for absent text fields in the report.
const unknown = "Unknown"

// syntheticIDStart seeds the fallback row-id sequence used when the source
// export carries no row id of its own.
const syntheticIDStart = 101

// Row is one line of the final referral report.
type Row struct {
	ReferralDetailsID    string `csv:"referral_details_id"`
	ReferralID           string `csv:"referral_id"`
	ReferralSource       string `csv:"referral_source"`
	SourceCategory       string `csv:"referral_source_category"`
	ReferralAt           string `csv:"referral_at"`
	ReferrerID           string `csv:"referrer_id"`
	ReferrerName         string `csv:"referrer_name"`
	ReferrerPhoneNumber  string `csv:"referrer_phone_number"`
	ReferrerHomeClub     string `csv:"referrer_homeclub"`
	RefereeID            string `csv:"referee_id"`
	RefereeName          string `csv:"referee_name"`
	RefereePhone         string `csv:"referee_phone"`
	IsBusinessLogicValid bool   `csv:"is_business_logic_valid"`
}

// Format projects enriched, classified referrals into report rows. Rows
// without a source row id receive synthetic sequential ids starting at 101.
// Absent text fields fall back to "Unknown"; this formatter performs no other
// logic.
func Format(enriched []referral.EnrichedReferral) []Row {
	rows := make([]Row, 0, len(enriched))
	for i, e := range enriched {
		rowID := e.RowID
		if rowID == "" {
			rowID = strconv.Itoa(syntheticIDStart + i)
		}

		referralID := e.ReferralID
		if referralID == "" {
			referralID = orUnknown(e.RowID)
		}

		rows = append(rows, Row{
			ReferralDetailsID:    rowID,
			ReferralID:           referralID,
			ReferralSource:       orUnknown(e.Source),
			SourceCategory:       e.SourceCategory,
			ReferralAt:           localtime.FormatNaive(e.ReferralAtLocal),
			ReferrerID:           e.ReferrerID,
			ReferrerName:         orUnknown(e.ReferrerName),
			ReferrerPhoneNumber:  orUnknown(e.ReferrerPhone),
			ReferrerHomeClub:     orUnknown(e.ReferrerHomeClub),
			RefereeID:            e.RefereeID,
			RefereeName:          orUnknown(e.RefereeName),
			RefereePhone:         orUnknown(e.RefereePhone),
			IsBusinessLogicValid: e.Valid,
		})
	}
	return rows
}

// Write creates the report file's directory when needed and writes the rows
// as CSV.
func Write(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}
