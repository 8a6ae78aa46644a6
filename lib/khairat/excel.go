package khairat

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

type Column int

const (
	ColBil Column = iota
	ColNama
	ColNoKp
	ColStatus
	ColHubungan
	ColTelefon
	ColAlamat
	ColNoAhli
)

var headerKeywords = []struct {
	col      Column
	keywords []string
}{
	// order matters, "no ahli" must win over "no" in "no kp"
	{ColNoAhli, []string{"no ahli", "no. ahli", "no_ahli"}},
	{ColNoKp, []string{"kp", "k/p", "ic", "kad pengenalan"}},
	{ColTelefon, []string{"telefon", "tel", "phone"}},
	{ColHubungan, []string{"hubungan"}},
	{ColStatus, []string{"status"}},
	{ColAlamat, []string{"alamat"}},
	{ColNama, []string{"nama"}},
	{ColBil, []string{"bil"}},
}

// dependent relations recognised in the status or hubungan column
var relations = []string{"isteri", "suami", "anak", "ibu", "bapa", "ayah", "emak", "mentua", "datuk", "nenek", "cucu", "adik", "abang", "kakak", "penjaga"}

var (
	ErrNoHeader = errors.New("no header row with nama and kp columns found")
	nonDigits   = regexp.MustCompile(`[^0-9]`)
)

// RowKind tells a primary member row from a dependent row.
type RowKind int

const (
	RowMember RowKind = iota
	RowDependent
)

type Row struct {
	Line      int
	Kind      RowKind
	Bil       string
	NoAhli    string
	Nama      string
	NoKp      string
	Hubungan  string
	NoTelefon string
	Alamat    string
}

type RowError struct {
	Line   int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("baris %d: %s", e.Line, e.Reason)
}

type Sheet struct {
	Rows   []Row
	Errors []RowError
}

// Read parses the first sheet of a khairat member workbook.
func Read(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return Parse(rows)
}

// Parse classifies raw sheet rows. Rows before the header are ignored.
func Parse(rows [][]string) (*Sheet, error) {
	headerAt := -1
	var cols map[Column]int
	for i, row := range rows {
		if c, ok := detectHeader(row); ok {
			headerAt, cols = i, c
			break
		}
	}
	if headerAt < 0 {
		return nil, ErrNoHeader
	}

	sheet := &Sheet{}
	haveMember := false
	for i := headerAt + 1; i < len(rows); i++ {
		line := i + 1
		cell := func(c Column) string {
			idx, ok := cols[c]
			if !ok || idx >= len(rows[i]) {
				return ""
			}
			return strings.TrimSpace(rows[i][idx])
		}
		row := Row{
			Line:      line,
			Bil:       cell(ColBil),
			NoAhli:    cell(ColNoAhli),
			Nama:      cell(ColNama),
			NoKp:      NormalizeNoKp(cell(ColNoKp)),
			NoTelefon: cell(ColTelefon),
			Alamat:    cell(ColAlamat),
		}
		status := strings.ToLower(cell(ColStatus))
		hubungan := strings.ToLower(cell(ColHubungan))
		if row.Nama == "" && row.NoKp == "" {
			continue
		}

		switch {
		case status == "ahli" || strings.HasPrefix(status, "ahli "):
			row.Kind = RowMember
		case relation(status) != "":
			row.Kind = RowDependent
			row.Hubungan = relation(status)
		case relation(hubungan) != "":
			row.Kind = RowDependent
			row.Hubungan = relation(hubungan)
		case status == "" && hubungan == "":
			row.Kind = RowMember
		default:
			sheet.Errors = append(sheet.Errors, RowError{Line: line, Reason: fmt.Sprintf("status %q tidak dikenali", status)})
			continue
		}

		switch row.Kind {
		case RowMember:
			if row.Nama == "" {
				sheet.Errors = append(sheet.Errors, RowError{Line: line, Reason: "nama kosong"})
				continue
			}
			if row.NoKp == "" {
				sheet.Errors = append(sheet.Errors, RowError{Line: line, Reason: "no kp kosong"})
				haveMember = false
				continue
			}
			haveMember = true
		case RowDependent:
			if !haveMember {
				sheet.Errors = append(sheet.Errors, RowError{Line: line, Reason: "tanggungan tanpa ahli"})
				continue
			}
			if row.Nama == "" {
				sheet.Errors = append(sheet.Errors, RowError{Line: line, Reason: "nama kosong"})
				continue
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

func detectHeader(row []string) (map[Column]int, bool) {
	cols := map[Column]int{}
	for idx, raw := range row {
		cell := strings.ToLower(strings.TrimSpace(raw))
		if cell == "" {
			continue
		}
		for _, h := range headerKeywords {
			if _, taken := cols[h.col]; taken {
				continue
			}
			if matchesKeyword(cell, h.keywords) {
				cols[h.col] = idx
				break
			}
		}
	}
	_, nama := cols[ColNama]
	_, kp := cols[ColNoKp]
	return cols, nama && kp
}

func matchesKeyword(cell string, keywords []string) bool {
	words := strings.FieldsFunc(cell, func(r rune) bool {
		return r == ' ' || r == '.' || r == '/' || r == '_' || r == '-' || r == '(' || r == ')'
	})
	for _, k := range keywords {
		if strings.ContainsAny(k, " _./") {
			if strings.Contains(cell, k) {
				return true
			}
			continue
		}
		for _, w := range words {
			if w == k {
				return true
			}
		}
	}
	return false
}

func relation(s string) string {
	for _, w := range strings.Fields(s) {
		for _, r := range relations {
			if w == r {
				return r
			}
		}
	}
	return ""
}

// NormalizeNoKp keeps the digits of an identity card number and formats a
// 12 digit MyKad number as YYMMDD-PB-###G.
func NormalizeNoKp(s string) string {
	digits := nonDigits.ReplaceAllString(s, "")
	if len(digits) == 12 {
		return digits[:6] + "-" + digits[6:8] + "-" + digits[8:]
	}
	if digits == "" {
		return strings.TrimSpace(s)
	}
	return digits
}
