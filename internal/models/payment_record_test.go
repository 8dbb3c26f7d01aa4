package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ts(day int) *time.Time {
	t := time.Date(2026, 2, day, 12, 0, 0, 0, time.UTC)
	return &t
}

func TestSortLedgerDateAscending(t *testing.T) {
	records := []*PaymentRecord{
		{ID: "p3", PaymentDate: ts(20)},
		{ID: "p1", PaymentDate: ts(5)},
		{ID: "p2", PaymentDate: ts(10)},
	}

	SortLedger(records)

	require.Equal(t, []string{"p1", "p2", "p3"}, []string{records[0].ID, records[1].ID, records[2].ID})
}

func TestSortLedgerMissingDatesLastStable(t *testing.T) {
	// P6: missing dates sort after all dated records and keep input order
	records := []*PaymentRecord{
		{ID: "x", Placeholder: true},
		{ID: "p2", PaymentDate: ts(10)},
		{ID: "y", Placeholder: true},
		{ID: "p1", PaymentDate: ts(5)},
	}

	SortLedger(records)

	got := make([]string, len(records))
	for i, r := range records {
		got[i] = r.ID
	}
	require.Equal(t, []string{"p1", "p2", "x", "y"}, got)
}

func TestSortLedgerStableTies(t *testing.T) {
	records := []*PaymentRecord{
		{ID: "a", PaymentDate: ts(10)},
		{ID: "b", PaymentDate: ts(10)},
		{ID: "c", PaymentDate: ts(10)},
	}

	SortLedger(records)

	require.Equal(t, "a", records[0].ID)
	require.Equal(t, "b", records[1].ID)
	require.Equal(t, "c", records[2].ID)
}
