package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dailymart/internal/repository"

	"gorm.io/gorm"
)

// Bill numbers use a per-day sequence: BILL-YYYYMMDD-0001, restarting at 1
// each local calendar day. The next number is always derived by scanning the
// persisted sales table — never an in-memory counter — so numbering survives
// process restarts, and a rolled-back sale leaves no gap because nothing it
// wrote is visible to the next derivation.

const (
	billPrefix   = "BILL"
	billSeqWidth = 4
)

// billNumbering derives sequential bill numbers from committed sale history.
type billNumbering struct {
	sales repository.SaleRepository
	now   func() time.Time
}

// FormatBillNumber renders the canonical bill number for a day and sequence.
// Sequences past 9999 widen naturally instead of wrapping.
func FormatBillNumber(day time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%0*d", billPrefix, day.Format("20060102"), billSeqWidth, seq)
}

// billSequence extracts the trailing sequence from a bill number.
func billSequence(billNumber string) (int, bool) {
	idx := strings.LastIndex(billNumber, "-")
	if idx < 0 || idx == len(billNumber)-1 {
		return 0, false
	}
	n, err := strconv.Atoi(billNumber[idx+1:])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// next returns the bill number the next committed sale should carry. When tx
// is non-nil the scan runs inside the sale transaction; with a nil tx it reads
// committed state only (advisory preview).
func (b billNumbering) next(ctx context.Context, tx *gorm.DB) (string, error) {
	day := b.now()
	pattern := fmt.Sprintf("%s-%s-%%", billPrefix, day.Format("20060102"))

	numbers, err := b.sales.BillNumbersLike(ctx, tx, pattern)
	if err != nil {
		return "", mapStoreErr(err)
	}

	// Max is parsed in Go rather than ordered in SQL so a widened sequence
	// (BILL-...-10000) still sorts correctly.
	maxSeq := 0
	for _, n := range numbers {
		if seq, ok := billSequence(n); ok && seq > maxSeq {
			maxSeq = seq
		}
	}
	return FormatBillNumber(day, maxSeq+1), nil
}
