package pdf

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "0.00", Money(decimal.Zero))
	assert.Equal(t, "999.50", Money(decimal.RequireFromString("999.5")))
	assert.Equal(t, "1,234,567.89", Money(decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "(1,000.00)", Money(decimal.NewFromInt(-1000)))
	assert.Equal(t, "", MoneyOrBlank(decimal.Zero))
}

func TestRender(t *testing.T) {
	rows := make([][]string, 0, 80)
	for i := 0; i < 80; i++ {
		rows = append(rows, []string{"01/01/2024", "Derma Jumaat yang sangat panjang sehingga perlu dipotong supaya muat", "100.00"})
	}
	out, err := Render(Document{
		Organisation: "Surau Al-Ikhlas",
		Title:        "Buku Tunai",
		Subtitle:     "Januari 2024",
		Tables: []Table{{
			Columns: []Column{{Header: "Tarikh", Width: 30}, {Header: "Butiran", Width: 110}, {Header: "Amaun", Width: 42, Align: "R"}},
			Rows:    rows,
			Footer:  []string{"", "Jumlah", "8,000.00"},
		}},
		Notes: []string{"opening balance for 1/2024: statement says 10.00, carried forward balance is 0.00"},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
