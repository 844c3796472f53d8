package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentportal/internal/models"
)

func TestBucketTuitionStatusUsesDerivedStatus(t *testing.T) {
	fees := []models.TuitionFee{
		// Stored status stale on purpose; the derived one must win.
		{TotalDue: 5000000, AmountPaid: 5000000, Status: models.TuitionUnpaid},
		{TotalDue: 5000000, AmountPaid: 2000000},
		{TotalDue: 5000000},
		{TotalDue: 3000000},
	}

	buckets := bucketTuitionStatus(fees)
	require.Len(t, buckets, 3)

	byStatus := map[string]int64{}
	for _, b := range buckets {
		byStatus[b.Status] = b.Count
	}
	assert.Equal(t, int64(1), byStatus[models.TuitionPaid])
	assert.Equal(t, int64(1), byStatus[models.TuitionPartial])
	assert.Equal(t, int64(2), byStatus[models.TuitionUnpaid])
}

func TestBucketTuitionStatusEmptyKeepsAllSlices(t *testing.T) {
	buckets := bucketTuitionStatus(nil)
	require.Len(t, buckets, 3)
	for _, b := range buckets {
		assert.Zero(t, b.Count)
	}
}

func TestFoldTuitionBySemester(t *testing.T) {
	fees := []models.TuitionFee{
		{Semester: "HK1", Year: "2024-2025", TotalDue: 5000000, AmountPaid: 5000000},
		{Semester: "HK1", Year: "2024-2025", TotalDue: 4000000, AmountPaid: 1000000},
		{Semester: "HK2", Year: "2024-2025", TotalDue: 4500000},
		{Semester: "HK1", Year: "2023-2024", TotalDue: 4000000, AmountPaid: 4000000},
		// Missing labels are skipped.
		{TotalDue: 9999999},
	}

	rows := foldTuitionBySemester(fees)
	require.Len(t, rows, 3)

	// Ordered by year, then semester.
	assert.Equal(t, "2023-2024", rows[0].Year)
	assert.Equal(t, "HK1", rows[1].Semester)
	assert.Equal(t, "2024-2025", rows[1].Year)
	assert.Equal(t, "HK2", rows[2].Semester)

	assert.Equal(t, int64(9000000), rows[1].TotalDue)
	assert.Equal(t, int64(6000000), rows[1].TotalPaid)
	assert.Equal(t, int64(2), rows[1].Count)
}
