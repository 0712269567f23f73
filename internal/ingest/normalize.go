package ingest

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// ErrNoRecords reports that no row of a batch could be interpreted.
var ErrNoRecords = errors.New("no rows could be interpreted")

// blockedStatus matches held or blocked tickets, which never enter the
// dashboard. "Holding" does not match.
var blockedStatus = regexp.MustCompile(`(?i)\b(block(ed)?|hold)\b`)

// Batch is the outcome of normalizing one loaded file.
type Batch struct {
	Records []domain.Ticket
	// Rows is the number of input rows seen.
	Rows int
	// Skipped counts rows dropped because the created date did not parse.
	Skipped int
	// Excluded counts blocked/held rows dropped on purpose.
	Excluded int
}

// Normalizer turns raw rows into canonical tickets.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer creates a normalizer interpreting timestamps in loc
// (time.Local when nil).
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{loc: loc}
}

// Normalize converts rows into tickets sorted ascending by creation time.
// When nothing survives it returns the batch counters together with
// ErrNoRecords.
func (n *Normalizer) Normalize(rows []Row) (Batch, error) {
	batch := Batch{Rows: len(rows), Records: make([]domain.Ticket, 0, len(rows))}
	for _, row := range rows {
		ticket, outcome := n.normalizeRow(row)
		switch outcome {
		case rowSkipped:
			batch.Skipped++
		case rowExcluded:
			batch.Excluded++
		default:
			batch.Records = append(batch.Records, ticket)
		}
	}

	if len(batch.Records) == 0 {
		return batch, ErrNoRecords
	}

	sort.SliceStable(batch.Records, func(i, j int) bool {
		return batch.Records[i].CreatedAt.Before(batch.Records[j].CreatedAt)
	})
	return batch, nil
}

// Normalize runs a local-time Normalizer over rows.
func Normalize(rows []Row) (Batch, error) {
	return NewNormalizer(nil).Normalize(rows)
}

type rowOutcome int

const (
	rowKept rowOutcome = iota
	rowSkipped
	rowExcluded
)

func (n *Normalizer) normalizeRow(row Row) (domain.Ticket, rowOutcome) {
	created, ok := ParseCreatedIn(resolveTrimmed(row, CreatedFields...), n.loc)
	if !ok {
		return domain.Ticket{}, rowSkipped
	}

	status := resolveTrimmed(row, StatusFields...)
	if IsBlockedStatus(status) {
		return domain.Ticket{}, rowExcluded
	}

	slaRaw, _ := Resolve(row, SLAResponseFields...)
	scoreRaw, _ := Resolve(row, SatisfactionFields...)

	return domain.NewTicket(domain.TicketInput{
		Key:              resolveTrimmed(row, KeyFields...),
		Organization:     resolveTrimmed(row, OrganizationFields...),
		Status:           status,
		Assignee:         resolveTrimmed(row, AssigneeFields...),
		CreatedAt:        created,
		SLAResponseHours: optional(ParseHours(slaRaw)),
		Satisfaction:     optional(ParseScore(scoreRaw)),
	}), rowKept
}

// IsBlockedStatus reports whether a status marks a blocked or held ticket.
func IsBlockedStatus(status string) bool {
	return blockedStatus.MatchString(strings.TrimSpace(status))
}
