package analytics

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/voltgrid/opsconsole/internal/domain"
)

// TableColumn identifies a sortable detail-table column.
type TableColumn string

const (
	ColName        TableColumn = "name"
	ColLocation    TableColumn = "location"
	ColDate        TableColumn = "date"
	ColMetricValue TableColumn = "metricValue"
	ColSessions    TableColumn = "sessions"
	ColUtilization TableColumn = "utilization"
	ColUsers       TableColumn = "users"
)

func ParseTableColumn(s string) (TableColumn, error) {
	switch TableColumn(s) {
	case ColName, ColLocation, ColDate, ColMetricValue, ColSessions, ColUtilization, ColUsers:
		return TableColumn(s), nil
	}
	return "", fmt.Errorf("%w: table column %q", domain.ErrUnknownEnum, s)
}

// SortDirection is the sort order of the detail table.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

const defaultPageSize = 10

// Project builds the unified row set from both source collections. Only the
// collection relevant to the metric contributes rows: user-activity records
// for the users metric, utilization records for everything else.
func Project(utilization []domain.EntityUtilizationRecord, users []domain.UserActivityRecord, metric domain.MetricKind) ([]domain.DetailRow, error) {
	if metric == domain.MetricUsers {
		rows := make([]domain.DetailRow, 0, len(users))
		for _, u := range users {
			rows = append(rows, domain.DetailRow{
				ID:          u.ID,
				Name:        u.Name,
				Location:    u.Location,
				Date:        u.Date,
				MetricValue: float64(u.ActiveUsers),
				Sessions:    u.Sessions,
				Utilization: u.Utilization,
				Users:       u.ActiveUsers,
			})
		}
		return rows, nil
	}

	rows := make([]domain.DetailRow, 0, len(utilization))
	for _, rec := range utilization {
		value, err := recordMetricValue(rec, metric)
		if err != nil {
			return nil, err
		}
		date := ""
		if !rec.LastSession.IsZero() {
			date = rec.LastSession.Format("2006-01-02")
		}
		rows = append(rows, domain.DetailRow{
			ID:          rec.ID,
			Name:        rec.Name,
			Location:    rec.Location,
			Date:        date,
			MetricValue: value,
			Sessions:    rec.Sessions,
			Utilization: rec.UtilizationRate,
		})
	}
	return rows, nil
}

// SearchRows filters by case-insensitive substring match against name and
// location. An empty query is the identity.
func SearchRows(rows []domain.DetailRow, query string) []domain.DetailRow {
	if query == "" {
		return rows
	}
	q := strings.ToLower(query)
	out := make([]domain.DetailRow, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.Name), q) ||
			strings.Contains(strings.ToLower(row.Location), q) {
			out = append(out, row)
		}
	}
	return out
}

// SortRows returns a stably sorted copy. String columns compare
// case-insensitively; numeric columns compare numerically, with missing
// values treated as zero.
func SortRows(rows []domain.DetailRow, col TableColumn, dir SortDirection) []domain.DetailRow {
	out := make([]domain.DetailRow, len(rows))
	copy(out, rows)

	less := func(a, b domain.DetailRow) bool {
		switch col {
		case ColName:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case ColLocation:
			return strings.ToLower(a.Location) < strings.ToLower(b.Location)
		case ColDate:
			return a.Date < b.Date
		case ColSessions:
			return a.Sessions < b.Sessions
		case ColUtilization:
			return a.Utilization < b.Utilization
		case ColUsers:
			return a.Users < b.Users
		default:
			return a.MetricValue < b.MetricValue
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if dir == SortAsc {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out
}

// Paginate slices out one 1-indexed page. Out-of-range page numbers clamp to
// the nearest valid page rather than erroring; a non-positive page size falls
// back to the default. The second return value is the total page count.
func Paginate(rows []domain.DetailRow, page, pageSize int) ([]domain.DetailRow, int) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	totalPages := (len(rows) + pageSize - 1) / pageSize
	if totalPages == 0 {
		return []domain.DetailRow{}, 0
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], totalPages
}

// ToCSV serializes rows for download: a header line followed by one line per
// row, UTF-8, comma-delimited. Fields are quoted per RFC 4180 by encoding/csv
// so values containing commas survive the export.
func ToCSV(rows []domain.DetailRow, metricLabel string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Name", "Location", "Date", metricLabel, "Sessions", "Utilization (%)", "Users"}); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Name,
			row.Location,
			row.Date,
			strconv.FormatFloat(row.MetricValue, 'f', -1, 64),
			strconv.Itoa(row.Sessions),
			strconv.FormatFloat(row.Utilization, 'f', -1, 64),
			strconv.Itoa(row.Users),
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.String(), nil
}

// TableState is the interaction state of the detail table for one viewer.
type TableState struct {
	Query    string        `json:"query"`
	SortCol  TableColumn   `json:"sort_col"`
	SortDir  SortDirection `json:"sort_dir"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// TablePage is one rendered page of the detail table.
type TablePage struct {
	Rows       []domain.DetailRow `json:"rows"`
	Page       int                `json:"page"`
	TotalPages int                `json:"total_pages"`
	TotalRows  int                `json:"total_rows"`
}

// TableEngine applies the table state machine over a projected row set:
// searching resets to the first page, sorting the same column twice toggles
// direction, and sorting a new column defaults to descending.
type TableEngine struct {
	state TableState
}

func NewTableEngine() *TableEngine {
	return &TableEngine{state: TableState{
		SortCol:  ColMetricValue,
		SortDir:  SortDesc,
		Page:     1,
		PageSize: defaultPageSize,
	}}
}

// State returns a copy of the current interaction state.
func (e *TableEngine) State() TableState { return e.state }

// Search replaces the query and resets to the first page.
func (e *TableEngine) Search(query string) {
	e.state.Query = query
	e.state.Page = 1
}

// SortBy sorts by the given column, toggling direction on a repeated column
// and defaulting to descending on a new one.
func (e *TableEngine) SortBy(col TableColumn) {
	if e.state.SortCol == col {
		if e.state.SortDir == SortDesc {
			e.state.SortDir = SortAsc
		} else {
			e.state.SortDir = SortDesc
		}
		return
	}
	e.state.SortCol = col
	e.state.SortDir = SortDesc
}

// SetPage moves to the given page; clamping happens at render time.
func (e *TableEngine) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	e.state.Page = page
}

// SetPageSize changes the page size and resets to the first page.
func (e *TableEngine) SetPageSize(size int) {
	if size <= 0 {
		size = defaultPageSize
	}
	e.state.PageSize = size
	e.state.Page = 1
}

// Reset clears query and pagination, keeping the sort column.
func (e *TableEngine) Reset() {
	e.state.Query = ""
	e.state.Page = 1
}

// Apply runs search, sort and pagination over the full row set and returns
// the visible page.
func (e *TableEngine) Apply(rows []domain.DetailRow) TablePage {
	filtered := SearchRows(rows, e.state.Query)
	sorted := SortRows(filtered, e.state.SortCol, e.state.SortDir)
	pageRows, totalPages := Paginate(sorted, e.state.Page, e.state.PageSize)

	page := e.state.Page
	if totalPages == 0 {
		page = 1
	} else if page > totalPages {
		page = totalPages
	}
	return TablePage{
		Rows:       pageRows,
		Page:       page,
		TotalPages: totalPages,
		TotalRows:  len(filtered),
	}
}

// Visible returns the searched and sorted row set without pagination, which
// is what the CSV export serializes.
func (e *TableEngine) Visible(rows []domain.DetailRow) []domain.DetailRow {
	return SortRows(SearchRows(rows, e.state.Query), e.state.SortCol, e.state.SortDir)
}
