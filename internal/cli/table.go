package cli

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/ytget/yt-jobtracker/internal/model"
)

const (
	shortIDLength  = 8
	maxTitleLength = 48
)

var tableHeader = []string{"ID", "STATUS", "PROGRESS", "TITLE", "SPEED", "ETA", "DETAIL"}

// jobsTable lays out one row per job, in the order given
func jobsTable(jobs []model.Job) pterm.TableData {
	data := pterm.TableData{tableHeader}
	for _, j := range jobs {
		data = append(data, []string{
			shortID(j.ID),
			statusText(j.Status),
			fmt.Sprintf("%3d%%", j.Progress),
			truncate(j.DisplayTitle(), maxTitleLength),
			j.SpeedString(),
			etaText(j),
			detailText(j),
		})
	}
	return data
}

// renderJobs returns the table as a string
func renderJobs(jobs []model.Job) (string, error) {
	return pterm.DefaultTable.WithHasHeader().WithData(jobsTable(jobs)).Srender()
}

func statusText(s model.JobStatus) string {
	switch s {
	case model.JobStatusCompleted:
		return pterm.Green(s.String())
	case model.JobStatusError:
		return pterm.Red(s.String())
	case model.JobStatusDownloading:
		return pterm.Cyan(s.String())
	default:
		return pterm.Yellow(s.String())
	}
}

func etaText(j model.Job) string {
	if j.Status != model.JobStatusDownloading {
		return ""
	}
	return j.ETAString()
}

func detailText(j model.Job) string {
	switch j.Status {
	case model.JobStatusError:
		return j.Error
	case model.JobStatusDownloading:
		return j.SizeString()
	default:
		return j.DurationText()
	}
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
