package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/department"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/shift"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/staff"
)

var ErrNoProposals = errors.New("model reply contains no parseable shift proposals")

// maxHistoryLines caps how much past roster goes into one prompt.
const maxHistoryLines = 300

// shiftProposal is one assignment suggested by the model. Models are loose
// with key casing, so both camelCase and snake_case keys are accepted.
type shiftProposal struct {
	StaffID   string
	ShiftType string
	StartTime string
	EndTime   string
	Notes     string

	// decodeErr is set when the element could not be read at all.
	decodeErr error
}

func (p *shiftProposal) UnmarshalJSON(b []byte) error {
	var raw struct {
		StaffID    string `json:"staffId"`
		StaffID2   string `json:"staff_id"`
		ShiftType  string `json:"shiftType"`
		ShiftType2 string `json:"shift_type"`
		Type       string `json:"type"`
		StartTime  string `json:"startTime"`
		StartTime2 string `json:"start_time"`
		EndTime    string `json:"endTime"`
		EndTime2   string `json:"end_time"`
		Notes      string `json:"notes"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	p.StaffID = strings.TrimSpace(firstNonEmpty(raw.StaffID, raw.StaffID2))
	p.ShiftType = strings.ToLower(strings.TrimSpace(firstNonEmpty(raw.ShiftType, raw.ShiftType2, raw.Type)))
	p.StartTime = strings.TrimSpace(firstNonEmpty(raw.StartTime, raw.StartTime2))
	p.EndTime = strings.TrimSpace(firstNonEmpty(raw.EndTime, raw.EndTime2))
	p.Notes = strings.TrimSpace(raw.Notes)
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

type planningWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// windowFor starts at the next UTC midnight after now and spans horizonDays.
func windowFor(now time.Time, horizonDays int) planningWindow {
	y, m, d := now.UTC().Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return planningWindow{From: from, To: from.AddDate(0, 0, horizonDays)}
}

func (w planningWindow) contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

type promptInput struct {
	Department *department.Department
	Staff      []*staff.Member
	History    []*shift.Shift
	Scheduled  []*shift.Shift
	Window     planningWindow
}

func buildShiftPrompt(in promptInput) string {
	names := make(map[string]string, len(in.Staff))
	for _, m := range in.Staff {
		names[m.ID.String()] = m.FullName()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are the rostering assistant for the %q department (code %s) of a hospital.\n",
		in.Department.Name, in.Department.Code)
	b.WriteString("Propose shift assignments that cover every shift of every day in the planning window ")
	b.WriteString("and spread morning, evening and night shifts fairly across the staff, taking recent history into account.\n")
	b.WriteString("Nobody may work two overlapping shifts, and avoid back-to-back night then morning shifts.\n\n")

	fmt.Fprintf(&b, "Planning window (UTC): %s to %s (exclusive).\n\n",
		in.Window.From.Format(time.RFC3339), in.Window.To.Format(time.RFC3339))

	b.WriteString("Shift templates (UTC):\n")
	for _, t := range shift.Templates {
		start, end := t.Window(in.Window.From)
		fmt.Fprintf(&b, "- %s: %s to %s (%dh)\n", t.Type, start.Format("15:04"), end.Format("15:04"), t.Hours)
	}

	b.WriteString("\nStaff roster (use these exact ids):\n")
	counts := countByType(in.History)
	for _, m := range in.Staff {
		c := counts[m.ID.String()]
		specialty := m.Specialization
		if specialty == "" {
			specialty = "-"
		}
		fmt.Fprintf(&b, "- id=%s name=%q role=%s specialization=%s recent: morning=%d evening=%d night=%d\n",
			m.ID, m.FullName(), m.Role, specialty, c[shift.TypeMorning], c[shift.TypeEvening], c[shift.TypeNight])
	}

	b.WriteString("\nRecent shift history:\n")
	writeShiftLines(&b, in.History, names, "(none)")

	b.WriteString("\nAlready scheduled inside the window (do not duplicate or overlap these):\n")
	writeShiftLines(&b, in.Scheduled, names, "(none)")

	b.WriteString("\nReply with a single fenced ```json code block containing an array of objects shaped like\n")
	b.WriteString(`{"staffId": "<id from the roster>", "shiftType": "morning|evening|night", "startTime": "<RFC3339 UTC>", "endTime": "<RFC3339 UTC>", "notes": "<short reason>"}`)
	b.WriteString("\nDo not include any other text.\n")
	return b.String()
}

func countByType(history []*shift.Shift) map[string]map[shift.Type]int {
	out := make(map[string]map[shift.Type]int)
	for _, s := range history {
		if s.Status == shift.StatusCancelled {
			continue
		}
		id := s.StaffID.String()
		if out[id] == nil {
			out[id] = make(map[shift.Type]int, 3)
		}
		out[id][s.Type]++
	}
	return out
}

func writeShiftLines(b *strings.Builder, shifts []*shift.Shift, names map[string]string, empty string) {
	live := make([]*shift.Shift, 0, len(shifts))
	for _, s := range shifts {
		if s.Status != shift.StatusCancelled {
			live = append(live, s)
		}
	}
	if len(live) == 0 {
		b.WriteString(empty + "\n")
		return
	}
	sort.Slice(live, func(i, j int) bool { return live[i].StartTime.Before(live[j].StartTime) })
	if len(live) > maxHistoryLines {
		live = live[len(live)-maxHistoryLines:]
	}
	for _, s := range live {
		name := names[s.StaffID.String()]
		if name == "" {
			name = "former staff"
		}
		fmt.Fprintf(b, "- %s %s %s-%s staffId=%s (%s)\n",
			s.StartTime.UTC().Format("2006-01-02"), s.Type,
			s.StartTime.UTC().Format("15:04"), s.EndTime.UTC().Format("15:04"),
			s.StaffID, name)
	}
}

// extractJSON pulls the JSON payload out of a free-text model reply: the first
// ```json block, else the first bare ``` block, else the outermost [ ... ] span.
func extractJSON(reply string) (string, bool) {
	if body, ok := fencedBlock(reply, "```json"); ok {
		return body, true
	}
	if body, ok := fencedBlock(reply, "```JSON"); ok {
		return body, true
	}
	if body, ok := fencedBlock(reply, "```"); ok {
		return body, true
	}
	start := strings.IndexByte(reply, '[')
	end := strings.LastIndexByte(reply, ']')
	if start >= 0 && end > start {
		return reply[start : end+1], true
	}
	return "", false
}

func fencedBlock(s, opener string) (string, bool) {
	i := strings.Index(s, opener)
	if i < 0 {
		return "", false
	}
	rest := s[i+len(opener):]
	// A bare fence may carry another language tag; skip to the end of the line.
	if opener == "```" {
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 && !strings.ContainsAny(rest[:nl], "[{") {
			rest = rest[nl+1:]
		}
	}
	j := strings.Index(rest, "```")
	if j < 0 {
		return "", false
	}
	body := strings.TrimSpace(rest[:j])
	if body == "" {
		return "", false
	}
	return body, true
}

// parseProposals decodes a model reply into proposals. A top-level object
// wrapping the array under "assignments" or "shifts" is accepted as well.
// Elements are decoded one by one; a malformed element is returned with
// decodeErr set so the rest of the reply still counts.
func parseProposals(reply string) ([]shiftProposal, error) {
	body, ok := extractJSON(reply)
	if !ok {
		return nil, ErrNoProposals
	}

	trimmed := bytes.TrimSpace([]byte(body))
	if len(trimmed) == 0 {
		return nil, ErrNoProposals
	}

	var elems []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoProposals, err)
		}
	case '{':
		var wrapped struct {
			Assignments []json.RawMessage `json:"assignments"`
			Shifts      []json.RawMessage `json:"shifts"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoProposals, err)
		}
		elems = wrapped.Assignments
		if len(elems) == 0 {
			elems = wrapped.Shifts
		}
	default:
		return nil, ErrNoProposals
	}

	if len(elems) == 0 {
		return nil, ErrNoProposals
	}

	out := make([]shiftProposal, len(elems))
	for i, raw := range elems {
		if err := json.Unmarshal(raw, &out[i]); err != nil {
			out[i] = shiftProposal{decodeErr: err}
		}
	}
	return out, nil
}

var proposalTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// parseProposalTime reads RFC3339 or a zone-less timestamp, which is taken as UTC.
func parseProposalTime(s string) (time.Time, error) {
	for _, layout := range proposalTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}
