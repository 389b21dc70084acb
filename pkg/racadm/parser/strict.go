package parser

import (
	"fmt"
	"strings"

	"github.com/davidroman0O/racadm/errors"
	"github.com/netxops/gotextfsm"
)

// jobStatusTemplate matches the seven job queue lines by key, so reordered or
// missing lines are reported instead of shifting fields.
const jobStatusTemplate = `Value JOB_ID ([^\]\s]+)
Value JOB_NAME ([^\]]*[^\]\s])
Value STATUS ([^\]\s]+)
Value START_TIME ([^\]]*[^\]\s])
Value EXPIRATION_TIME ([^\]]*[^\]\s])
Value MESSAGE ([^\]]*[^\]\s])
Value PERCENT_COMPLETE ([^\]\s]+)

Start
  ^\s*\[?Job ID=\[?${JOB_ID}\]?\s*$$
  ^\s*Job Name=\[?${JOB_NAME}\]?\s*$$
  ^\s*Status=\[?${STATUS}\]?\s*$$
  ^\s*Start Time=\[?${START_TIME}\]?\s*$$
  ^\s*Expiration Time=\[?${EXPIRATION_TIME}\]?\s*$$
  ^\s*Message=\[?${MESSAGE}\]?\s*$$
  ^\s*Percent Complete=\[?${PERCENT_COMPLETE}\]?\s*$$ -> Record
`

var strictFields = []string{
	"JOB_ID", "JOB_NAME", "STATUS", "START_TIME",
	"EXPIRATION_TIME", "MESSAGE", "PERCENT_COMPLETE",
}

// ParseJobStatusStrict parses the same output as ParseJobStatus with a keyed
// TextFSM grammar and fails when any of the seven fields is absent.
func ParseJobStatusStrict(text string) (*JobStatus, error) {
	fsm := gotextfsm.TextFSM{}
	if err := fsm.ParseString(jobStatusTemplate); err != nil {
		return nil, errors.Wrap(err, errors.ErrUnknown, "failed to parse job status template")
	}

	out := gotextfsm.ParserOutput{}
	if err := out.ParseTextString(text, fsm, true); err != nil {
		return nil, errors.Wrap(err, errors.ErrValidation, "failed to parse job status")
	}

	if len(out.Dict) == 0 {
		return nil, errors.New(errors.ErrValidation, "no job status record found")
	}

	record := out.Dict[0]
	var missing []string
	for _, field := range strictFields {
		if getString(record, field) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, errors.WithContext(
			errors.New(errors.ErrValidation, fmt.Sprintf("job status is missing %s", strings.Join(missing, ", "))),
			map[string]interface{}{"missing": missing},
		)
	}

	return &JobStatus{
		JobID:           getString(record, "JOB_ID"),
		JobName:         getString(record, "JOB_NAME"),
		Status:          JobState(getString(record, "STATUS")),
		StartTime:       getString(record, "START_TIME"),
		ExpirationTime:  getString(record, "EXPIRATION_TIME"),
		Message:         getString(record, "MESSAGE"),
		PercentComplete: getString(record, "PERCENT_COMPLETE"),
	}, nil
}

func getString(record map[string]interface{}, key string) string {
	if value, ok := record[key]; ok {
		if s, ok := value.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
