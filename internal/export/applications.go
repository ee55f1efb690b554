// Package export renders applications as CSV for managers and admins.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"jobboard/internal/domain/application"
)

const DateLayout = "2006-01-02"

var ApplicationHeader = []string{
	"ID",
	"Applicant Name",
	"Applicant Email",
	"Job Title",
	"Job Location",
	"Status",
	"Current Stage",
	"Applied Date",
}

// WriteApplications writes the header and one row per application.
func WriteApplications(w io.Writer, rows []application.Detail) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ApplicationHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, d := range rows {
		rec := []string{
			d.ID.String(),
			d.ApplicantName,
			d.ApplicantEmail,
			d.JobTitle,
			d.JobLocation,
			d.Status.Name,
			d.Stage.Name,
			d.AppliedAt.Format(DateLayout),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %s: %w", d.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename names an export taken at the given date.
func Filename(scope string, date string) string {
	return fmt.Sprintf("applications-%s-%s.csv", scope, date)
}
