// file: internals/helpers/timezone/timezone.go
package timezone

import (
	"log"
	"sync"
	"time"

	"kantorku_backend/internals/configs"
)

// Semua timestamp disimpan UTC. Batas hari kalender dihitung di zona
// perusahaan (COMPANY_TIMEZONE) dan hanya di sini; layer lain tidak boleh
// menghitung midnight sendiri.

var (
	mu         sync.Mutex
	cachedName string
	cachedLoc  *time.Location
)

// Location resolve zona perusahaan:
// 1) COMPANY_TIMEZONE via configs (default Asia/Kolkata)
// 2) kalau tzdata tidak tersedia → FixedZone IST +05:30
// 3) fallback terakhir: UTC
func Location() *time.Location {
	name := configs.CompanyTimezone
	if name == "" {
		name = "Asia/Kolkata"
	}

	mu.Lock()
	defer mu.Unlock()
	if cachedLoc != nil && cachedName == name {
		return cachedLoc
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("⚠️ timezone %q tidak bisa dimuat (%v), fallback IST +05:30", name, err)
		loc = time.FixedZone("IST", 5*3600+30*60)
	}
	cachedName = name
	cachedLoc = loc
	return loc
}

// DaySpan adalah potongan interval yang jatuh di satu hari kalender lokal.
type DaySpan struct {
	Date  time.Time // marker tanggal: 00:00:00 UTC
	Start time.Time // UTC, inclusive
	End   time.Time // UTC, exclusive
}

// DateOf mengembalikan marker tanggal lokal untuk sebuah instant.
// Marker = midnight UTC pada (y, m, d) kalender lokal, supaya konsisten
// dipakai sebagai kunci kolom date di DB.
func DateOf(t time.Time) time.Time {
	lt := t.In(Location())
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, time.UTC)
}

// Today = tanggal lokal saat ini.
func Today(now time.Time) time.Time {
	return DateOf(now)
}

// AddDays menggeser marker tanggal n hari.
func AddDays(date time.Time, n int) time.Time {
	return date.AddDate(0, 0, n)
}

// DayWindow mengembalikan [start, end) UTC dari satu hari kalender lokal.
// end dihitung lewat kalender (bukan +24h) supaya aman terhadap DST.
func DayWindow(date time.Time) (time.Time, time.Time) {
	loc := Location()
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	return start.UTC(), end.UTC()
}

// SplitByLocalDay memotong interval [start, end) pada tiap midnight lokal.
// Interval kosong/terbalik menghasilkan nil.
func SplitByLocalDay(start, end time.Time) []DaySpan {
	if !end.After(start) {
		return nil
	}
	loc := Location()
	var out []DaySpan
	cur := start
	for cur.Before(end) {
		lt := cur.In(loc)
		nextMidnight := time.Date(lt.Year(), lt.Month(), lt.Day()+1, 0, 0, 0, 0, loc)
		segEnd := nextMidnight
		if end.Before(segEnd) {
			segEnd = end
		}
		out = append(out, DaySpan{
			Date:  time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, time.UTC),
			Start: cur.UTC(),
			End:   segEnd.UTC(),
		})
		cur = segEnd
	}
	return out
}

// OverlapSeconds menghitung berapa detik dari [start, end) yang jatuh di
// hari kalender lokal `date`. Dipakai aggregator untuk apportionment.
func OverlapSeconds(date, start, end time.Time) int64 {
	wStart, wEnd := DayWindow(date)
	if start.Before(wStart) {
		start = wStart
	}
	if end.After(wEnd) {
		end = wEnd
	}
	if !end.After(start) {
		return 0
	}
	return int64(end.Sub(start) / time.Second)
}

// ClampToDay memotong [start, end) ke window hari `date`; ok=false kalau
// tidak ada irisan.
func ClampToDay(date, start, end time.Time) (time.Time, time.Time, bool) {
	wStart, wEnd := DayWindow(date)
	if start.Before(wStart) {
		start = wStart
	}
	if end.After(wEnd) {
		end = wEnd
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// NextMidnight: instant UTC dari midnight lokal berikutnya setelah now.
func NextMidnight(now time.Time) time.Time {
	lt := now.In(Location())
	return time.Date(lt.Year(), lt.Month(), lt.Day()+1, 0, 0, 0, 0, lt.Location()).UTC()
}

// MonthStart: instant UTC dari tanggal 1 bulan berjalan, 00:00 lokal.
func MonthStart(now time.Time) time.Time {
	lt := now.In(Location())
	return time.Date(lt.Year(), lt.Month(), 1, 0, 0, 0, 0, lt.Location()).UTC()
}

// NextMonthStart: instant UTC dari tanggal 1 bulan berikutnya, 00:05 lokal.
// Offset 5 menit memberi jeda setelah rollover harian.
func NextMonthStart(now time.Time) time.Time {
	lt := now.In(Location())
	return time.Date(lt.Year(), lt.Month()+1, 1, 0, 5, 0, 0, lt.Location()).UTC()
}

// FormatDate menuliskan marker tanggal sebagai YYYY-MM-DD.
func FormatDate(date time.Time) string {
	return date.Format("2006-01-02")
}

// ParseDate membaca YYYY-MM-DD menjadi marker tanggal.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
