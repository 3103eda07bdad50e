// file: internals/features/finance/ledger/ledger.go
//
// Package ledger berisi derivasi murni saldo & status invoice.
// Tidak menyentuh DB; semua fungsi deterministik dari (total, paid).
package ledger

// InvoiceStatus: status invoice, fungsi murni dari (total, paid).
type InvoiceStatus string

const (
	InvoiceStatusUnpaid  InvoiceStatus = "unpaid"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusUnpaid, InvoiceStatusPartial, InvoiceStatusPaid:
		return true
	}
	return false
}

// ComputeStatus menurunkan status dari total & paid:
// paid ≤ 0 → unpaid; 0 < paid < total → partial; paid ≥ total → paid.
// Urutan cek penting: invoice kosong (0,0) tetap unpaid, bukan paid.
func ComputeStatus(total, paid int64) InvoiceStatus {
	switch {
	case paid <= 0:
		return InvoiceStatusUnpaid
	case paid < total:
		return InvoiceStatusPartial
	default:
		return InvoiceStatusPaid
	}
}

// Balance: sisa tagihan versi display, di-clamp ke 0.
// Jalur VALIDASI harus pakai Outstanding (tanpa clamp) supaya overpayment
// dan saldo negatif tetap terdeteksi.
func Balance(total, paid int64) int64 {
	if d := total - paid; d > 0 {
		return d
	}
	return 0
}

// Outstanding: sisa tagihan mentah (bisa negatif saat overpaid).
func Outstanding(total, paid int64) int64 {
	return total - paid
}

// Overpaid: true bila pembayaran melewati total (data-quality warning,
// terjadi kalau item invoice diedit turun setelah ada pembayaran).
func Overpaid(total, paid int64) bool {
	return paid > total
}

// ComponentBalance: posisi tagihan per komponen biaya untuk satu murid.
type ComponentBalance struct {
	Due       int64 `json:"due"`
	Paid      int64 `json:"paid"`
	Remaining int64 `json:"remaining"` // due - paid, tanpa clamp
}

// ComputeComponentBalance merakit posisi due/paid/remaining per komponen.
func ComputeComponentBalance(due, paid int64) ComponentBalance {
	return ComponentBalance{
		Due:       due,
		Paid:      paid,
		Remaining: due - paid,
	}
}
