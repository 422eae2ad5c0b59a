package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/julianstephens/slotsheet/internal/constants"
	"github.com/julianstephens/slotsheet/internal/logger"
	"github.com/julianstephens/slotsheet/internal/submission"
)

// recordPayload is the body of POST /UserJobDefinition
type recordPayload struct {
	DataStatus       string  `json:"dataStatus"`
	Hour             float64 `json:"hour"`
	Piece            int     `json:"piece"`
	OtherPositionJob bool    `json:"otherPositionJob"`
	UserID           int64   `json:"userId"`
	StatusID         string  `json:"statusId"`
	JobDefinitionID  *int64  `json:"jobDefinitionId"`
	Description      *string `json:"description"`
	StartTime        string  `json:"startTime"`
	EndTime          string  `json:"endTime"`
}

// EnsureUTCSuffix appends the "Z" designator to a timestamp that lacks one
func EnsureUTCSuffix(ts string) string {
	if strings.HasSuffix(ts, "Z") {
		return ts
	}
	return ts + "Z"
}

func slotTimestamp(date, clock string) string {
	return fmt.Sprintf("%sT%s:00Z", date, clock)
}

// SubmitJob records a completed unit of work
func (c *Client) SubmitJob(ctx context.Context, job submission.JobSubmission) error {
	hour := job.Hour
	if hour == 0 {
		hour = constants.SlotHours
	}
	jobID := job.JobID
	description := job.Description
	return c.postRecord(ctx, recordPayload{
		Hour:            hour,
		Piece:           job.Piece,
		StatusID:        constants.RemoteStatusCompleted,
		JobDefinitionID: &jobID,
		Description:     &description,
		StartTime:       EnsureUTCSuffix(job.Start),
		EndTime:         EnsureUTCSuffix(job.End),
	})
}

// SubmitPlanning records a slot of planned work. A zero jobID is sent as null.
func (c *Client) SubmitPlanning(ctx context.Context, date, start, end string, jobID int64) error {
	payload := recordPayload{
		Hour:      constants.SlotHours,
		StatusID:  constants.RemoteStatusPlanned,
		StartTime: slotTimestamp(date, start),
		EndTime:   slotTimestamp(date, end),
	}
	if jobID != 0 {
		payload.JobDefinitionID = &jobID
	}
	return c.postRecord(ctx, payload)
}

// SubmitDayOff records a slot of leave
func (c *Client) SubmitDayOff(ctx context.Context, date, start, end string) error {
	return c.postRecord(ctx, recordPayload{
		Hour:      constants.SlotHours,
		StatusID:  constants.RemoteStatusDayOff,
		StartTime: slotTimestamp(date, start),
		EndTime:   slotTimestamp(date, end),
	})
}

func (c *Client) postRecord(ctx context.Context, payload recordPayload) error {
	creds, err := c.authorized()
	if err != nil {
		return err
	}
	payload.DataStatus = constants.RemoteDataActivated
	payload.OtherPositionJob = false
	payload.UserID = creds.UserID

	logger.Debug("Posting record", "status", payload.StatusID, "start", payload.StartTime)
	if err := c.do(ctx, http.MethodPost, "/UserJobDefinition", creds.Token, payload, nil); err != nil {
		return fmt.Errorf("failed to submit %s record at %s: %w", payload.StatusID, payload.StartTime, err)
	}
	return nil
}
