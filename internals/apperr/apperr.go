package apperr

import "errors"

// Sentinel errors untuk domain absensi & revocation. Service layer
// mengembalikan salah satu dari ini (boleh dibungkus %w); mapping ke
// HTTP status dilakukan di helpers.JsonAppError, bukan di sini.
var (
	// ErrConflict: aksi bentrok dengan state aktif (mis. clock-in saat
	// masih ada sesi terbuka).
	ErrConflict = errors.New("conflict with an active record")

	// ErrNotFound: target operasi tidak ada (mis. clock-out tanpa sesi
	// terbuka, summary di luar range kedua tier).
	ErrNotFound = errors.New("record not found")

	// ErrInvalidRange: urutan waktu tidak valid (end sebelum start).
	ErrInvalidRange = errors.New("invalid time range")

	// ErrDuplicate: baris dengan kunci unik yang sama sudah ada.
	ErrDuplicate = errors.New("duplicate record")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrInsufficientCoins: saldo koin cuti tidak cukup untuk approve.
	ErrInsufficientCoins = errors.New("insufficient leave coins")
)
