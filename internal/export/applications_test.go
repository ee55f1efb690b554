package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"jobboard/internal/domain/application"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteApplications(t *testing.T) {
	id1, id2 := uuid.New(), uuid.New()
	rows := []application.Detail{
		{
			Application:    application.Application{ID: id1, AppliedAt: time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC)},
			Status:         application.Status{Name: "Pending"},
			Stage:          application.Stage{Name: "Applied"},
			JobTitle:       "Go Engineer",
			JobLocation:    "Berlin, DE",
			ApplicantName:  `Ann "The Dev" Lee`,
			ApplicantEmail: "ann@example.com",
		},
		{
			Application:    application.Application{ID: id2, AppliedAt: time.Date(2024, 12, 1, 8, 0, 0, 0, time.UTC)},
			Status:         application.Status{Name: "Hired"},
			Stage:          application.Stage{Name: "Offer"},
			JobTitle:       "SRE",
			ApplicantName:  "Bo",
			ApplicantEmail: "bo@example.com",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteApplications(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"ID", "Applicant Name", "Applicant Email", "Job Title", "Job Location", "Status", "Current Stage", "Applied Date"}, records[0])
	assert.Equal(t, []string{id1.String(), `Ann "The Dev" Lee`, "ann@example.com", "Go Engineer", "Berlin, DE", "Pending", "Applied", "2024-03-09"}, records[1])
	assert.Equal(t, []string{id2.String(), "Bo", "bo@example.com", "SRE", "", "Hired", "Offer", "2024-12-01"}, records[2])
	for _, r := range records {
		assert.Len(t, r, 8)
	}
}

func TestWriteApplicationsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteApplications(&buf, nil))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
