package planner

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts "json" or "csv".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FileName is the download name for an export in f.
func (f Format) FileName() string { return "eznote_planner_events." + string(f) }

// ContentType is the MIME type for an export in f.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

// isoMillis matches the millisecond UTC form used by the mobile and web clients.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Record is the flattened export shape of an Event. Absent optionals are
// empty strings and reminders are comma-joined.
type Record struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	IsPermanent     bool   `json:"isPermanent"`
	IPFSHash        string `json:"ipfsHash"`
	NFTTokenID      string `json:"nftTokenId"`
	IsRecurring     bool   `json:"isRecurring"`
	RecurrenceType  string `json:"recurrenceType"`
	RecurrenceCount int    `json:"recurrenceCount"`
	VideoURL        string `json:"videoUrl"`
	AudioURL        string `json:"audioUrl"`
	Reminders       string `json:"reminders"`
}

var recordHeader = []string{
	"id", "title", "description", "date", "isPermanent", "ipfsHash", "nftTokenId",
	"isRecurring", "recurrenceType", "recurrenceCount", "videoUrl", "audioUrl", "reminders",
}

// ToRecord flattens e.
func ToRecord(e Event) Record {
	reminders := make([]string, len(e.Reminders))
	for i, m := range e.Reminders {
		reminders[i] = strconv.Itoa(m)
	}
	return Record{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Date:            e.Date.UTC().Format(isoMillis),
		IsPermanent:     e.IsPermanent,
		IPFSHash:        e.IPFSHash,
		NFTTokenID:      e.NFTTokenID,
		IsRecurring:     e.IsRecurring,
		RecurrenceType:  string(e.RecurrenceType),
		RecurrenceCount: e.RecurrenceCount,
		VideoURL:        e.VideoURL,
		AudioURL:        e.AudioURL,
		Reminders:       strings.Join(reminders, ","),
	}
}

// Event rebuilds the event a record was flattened from. OriginalEventID is
// not part of the export and stays empty.
func (r Record) Event() (Event, error) {
	date, err := time.Parse(time.RFC3339Nano, r.Date)
	if err != nil {
		return Event{}, fmt.Errorf("planner: record %q: parse date: %w", r.ID, err)
	}
	var reminders []int
	if r.Reminders != "" {
		for _, part := range strings.Split(r.Reminders, ",") {
			m, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return Event{}, fmt.Errorf("planner: record %q: parse reminder %q: %w", r.ID, part, err)
			}
			reminders = append(reminders, m)
		}
	}
	return Event{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		Date:            date,
		IsPermanent:     r.IsPermanent,
		IPFSHash:        r.IPFSHash,
		NFTTokenID:      r.NFTTokenID,
		IsRecurring:     r.IsRecurring,
		RecurrenceType:  RecurrenceType(r.RecurrenceType),
		RecurrenceCount: r.RecurrenceCount,
		VideoURL:        r.VideoURL,
		AudioURL:        r.AudioURL,
		Reminders:       reminders,
	}, nil
}

func (r Record) values() []string {
	return []string{
		r.ID, r.Title, r.Description, r.Date, strconv.FormatBool(r.IsPermanent), r.IPFSHash, r.NFTTokenID,
		strconv.FormatBool(r.IsRecurring), r.RecurrenceType, strconv.Itoa(r.RecurrenceCount),
		r.VideoURL, r.AudioURL, r.Reminders,
	}
}

// Export writes events to w in format f.
func Export(w io.Writer, f Format, events []Event) error {
	if f == FormatCSV {
		return ExportCSV(w, events)
	}
	return ExportJSON(w, events)
}

// ExportJSON writes events as an indented JSON array of records.
func ExportJSON(w io.Writer, events []Event) error {
	records := make([]Record, len(events))
	for i, e := range events {
		records[i] = ToRecord(e)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// ExportCSV writes a header row and one row per event. Every value is
// quoted; embedded quotes are doubled.
func ExportCSV(w io.Writer, events []Event) error {
	var b strings.Builder
	b.WriteString(strings.Join(recordHeader, ","))
	for _, e := range events {
		b.WriteByte('\n')
		for i, v := range ToRecord(e).values() {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(v, `"`, `""`))
			b.WriteByte('"')
		}
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// ParseJSON reads events written by ExportJSON.
func ParseJSON(r io.Reader) ([]Event, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("planner: decode export: %w", err)
	}
	return fromRecords(records)
}

// ParseCSV reads events written by ExportCSV.
func ParseCSV(r io.Reader) ([]Event, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("planner: read csv export: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != len(recordHeader) {
			return nil, fmt.Errorf("planner: csv row has %d fields, want %d", len(row), len(recordHeader))
		}
		count, err := strconv.Atoi(row[9])
		if err != nil {
			return nil, fmt.Errorf("planner: csv recurrenceCount %q: %w", row[9], err)
		}
		records = append(records, Record{
			ID: row[0], Title: row[1], Description: row[2], Date: row[3],
			IsPermanent: row[4] == "true", IPFSHash: row[5], NFTTokenID: row[6],
			IsRecurring: row[7] == "true", RecurrenceType: row[8], RecurrenceCount: count,
			VideoURL: row[10], AudioURL: row[11], Reminders: row[12],
		})
	}
	return fromRecords(records)
}

func fromRecords(records []Record) ([]Event, error) {
	events := make([]Event, 0, len(records))
	for _, rec := range records {
		e, err := rec.Event()
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}
