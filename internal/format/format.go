package format

import (
	"strconv" // Integer rendering
	"time"    // Date formatting

	"github.com/igaramadana/DataQu/internal/domain" // Status constants
)

// Indonesian month names, indexed by time.Month
var months = [...]string{
	"",
	"Januari",
	"Februari",
	"Maret",
	"April",
	"Mei",
	"Juni",
	"Juli",
	"Agustus",
	"September",
	"Oktober",
	"November",
	"Desember",
}

// Currency renders a smallest-unit Rupiah amount as "Rp 50.000"
// with dot thousand separators
func Currency(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	// Insert a dot every three digits from the right
	grouped := make([]byte, 0, len(digits)+len(digits)/3)
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, d)
	}
	return sign + "Rp " + string(grouped)
}

// Date renders a timestamp as "2 September 2026, 14:05" in Indonesian
func Date(t time.Time) string {
	return strconv.Itoa(t.Day()) + " " + months[t.Month()] + " " +
		strconv.Itoa(t.Year()) + ", " + t.Format("15:04")
}

// StatusLabel maps a transaction status to its Indonesian display label
func StatusLabel(status string) string {
	switch status {
	case domain.StatusCompleted:
		return "Berhasil"
	case domain.StatusPending:
		return "Menunggu"
	case domain.StatusFailed:
		return "Gagal"
	default:
		return status // Unknown statuses pass through
	}
}
