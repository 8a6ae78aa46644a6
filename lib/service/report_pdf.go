package service

import (
	"fmt"

	"github.com/surau-digital/surauhub/lib/pdf"
)

var namaBulan = [...]string{"", "Januari", "Februari", "Mac", "April", "Mei", "Jun", "Julai", "Ogos", "September", "Oktober", "November", "Disember"}

func bulanTahun(bulan, tahun int) string {
	if bulan < 1 || bulan > 12 {
		return fmt.Sprint(tahun)
	}
	return fmt.Sprintf("%s %d", namaBulan[bulan], tahun)
}

func (svc *SurauService) document(title, subtitle string) pdf.Document {
	return pdf.Document{
		Organisation: svc.Config.Branding.Title,
		Address:      svc.Config.Branding.Address,
		Title:        title,
		Subtitle:     subtitle,
	}
}

// BukuTunaiPDF renders the cash book for one month.
func (svc *SurauService) BukuTunaiPDF(report *BukuTunai) ([]byte, error) {
	doc := svc.document("Buku Tunai", bulanTahun(report.Bulan, report.Tahun))
	rows := [][]string{{"", "Baki dibawa ke hadapan", "", "", "", pdf.Money(report.OpeningBalance)}}
	for _, l := range report.Lines {
		kategori := l.Category
		if l.SubCategory != "" {
			kategori += " / " + l.SubCategory
		}
		rows = append(rows, []string{
			l.Tarikh.Format("02/01/2006"),
			l.Description,
			kategori,
			pdf.MoneyOrBlank(l.Credit),
			pdf.MoneyOrBlank(l.Debit),
			pdf.Money(l.Balance),
		})
	}
	doc.Tables = []pdf.Table{{
		Columns: []pdf.Column{
			{Header: "Tarikh", Width: 20},
			{Header: "Butiran", Width: 58},
			{Header: "Kategori", Width: 38},
			{Header: "Terimaan", Width: 22, Align: "R"},
			{Header: "Bayaran", Width: 22, Align: "R"},
			{Header: "Baki", Width: 22, Align: "R"},
		},
		Rows:   rows,
		Footer: []string{"", "Jumlah", "", pdf.Money(report.TotalCredit), pdf.Money(report.TotalDebit), pdf.Money(report.ClosingBalance)},
	}}
	doc.Notes = report.Warnings
	return pdf.Render(doc)
}

// PenyesuaianBankPDF renders the bank reconciliation for one month.
func (svc *SurauService) PenyesuaianBankPDF(report *PenyesuaianBank) ([]byte, error) {
	doc := svc.document("Penyata Penyesuaian Bank", bulanTahun(report.Bulan, report.Tahun))
	columns := []pdf.Column{
		{Header: "Tarikh", Width: 22},
		{Header: "Butiran", Width: 80},
		{Header: "Sebab", Width: 50},
		{Header: "Amaun", Width: 30, Align: "R"},
	}
	items := func(list []ReconcilingItem) [][]string {
		rows := make([][]string, 0, len(list))
		for _, it := range list {
			rows = append(rows, []string{
				it.Tarikh.Format("02/01/2006"),
				it.Description,
				it.Reason,
				pdf.Money(it.Credit.Sub(it.Debit)),
			})
		}
		return rows
	}
	bank := "-"
	if report.BankClosingBalance.Valid {
		bank = pdf.Money(report.BankClosingBalance.Decimal)
	}
	difference := "-"
	if report.Difference.Valid {
		difference = pdf.Money(report.Difference.Decimal)
	}
	summary := pdf.Table{
		Title: "Ringkasan",
		Columns: []pdf.Column{
			{Header: "Perkara", Width: 132},
			{Header: "Amaun (RM)", Width: 50, Align: "R"},
		},
		Rows: [][]string{
			{"Baki mengikut buku tunai", pdf.Money(report.BookClosingBalance)},
			{"Baki selepas penyesuaian", pdf.Money(report.AdjustedBookClose)},
			{"Baki mengikut penyata bank", bank},
			{"Perbezaan", difference},
		},
	}
	doc.Tables = []pdf.Table{
		{Title: "Belum direkodkan dalam buku tunai", Columns: columns, Rows: items(report.NotYetInBook)},
		{Title: "Belum dikreditkan / didebitkan oleh bank", Columns: columns, Rows: items(report.NotYetInBank)},
		summary,
	}
	doc.Notes = report.Warnings
	return pdf.Render(doc)
}

// PenyataTahunanPDF renders the annual receipts and payments statement.
func (svc *SurauService) PenyataTahunanPDF(report *PenyataTahunan) ([]byte, error) {
	doc := svc.document("Penyata Penerimaan dan Pembayaran", fmt.Sprintf("Bagi tahun berakhir 31 Disember %d", report.Tahun))
	columns := []pdf.Column{
		{Header: "Perkara", Width: 102},
		{Header: fmt.Sprint(report.Tahun), Width: 40, Align: "R"},
		{Header: fmt.Sprint(report.Tahun - 1), Width: 40, Align: "R"},
	}
	lines := func(s StatementSection) [][]string {
		rows := make([][]string, 0, len(s.Lines))
		for _, l := range s.Lines {
			rows = append(rows, []string{l.Category, pdf.Money(l.Semasa), pdf.Money(l.Sebelum)})
		}
		return rows
	}
	doc.Tables = []pdf.Table{
		{
			Title:   "Penerimaan",
			Columns: columns,
			Rows:    lines(report.Penerimaan),
			Footer:  []string{"Jumlah Penerimaan", pdf.Money(report.Penerimaan.Semasa), pdf.Money(report.Penerimaan.Sebelum)},
		},
		{
			Title:   "Pembayaran",
			Columns: columns,
			Rows:    lines(report.Pembayaran),
			Footer:  []string{"Jumlah Pembayaran", pdf.Money(report.Pembayaran.Semasa), pdf.Money(report.Pembayaran.Sebelum)},
		},
		{
			Columns: columns,
			Rows: [][]string{
				{"Lebihan / (Kurangan)", pdf.Money(report.LebihanSemasa), pdf.Money(report.LebihanSebelum)},
				{"Baki awal tahun", pdf.Money(report.OpeningBalance), ""},
				{"Baki akhir tahun", pdf.Money(report.ClosingBalance), ""},
			},
		},
	}
	doc.Notes = report.Warnings
	return pdf.Render(doc)
}

// NotaPDF renders one note to the annual statement.
func (svc *SurauService) NotaPDF(nota *Nota) ([]byte, error) {
	doc := svc.document(nota.Title, fmt.Sprintf("Tahun %d", nota.Tahun))
	rows := make([][]string, 0, len(nota.Rows))
	for _, r := range nota.Rows {
		rows = append(rows, []string{r.Perkara, pdf.Money(r.JumlahSemasa), pdf.Money(r.JumlahSebelum), r.Catatan})
	}
	doc.Tables = []pdf.Table{{
		Columns: []pdf.Column{
			{Header: "Perkara", Width: 72},
			{Header: fmt.Sprint(nota.Tahun), Width: 32, Align: "R"},
			{Header: fmt.Sprint(nota.Tahun - 1), Width: 32, Align: "R"},
			{Header: "Catatan", Width: 46},
		},
		Rows:   rows,
		Footer: []string{"Jumlah", pdf.Money(nota.JumlahSemasa), pdf.Money(nota.JumlahSebelum), ""},
	}}
	return pdf.Render(doc)
}
