package seeds

import (
	quoteSeed "kantorku_backend/internals/seeds/quotes"
	userSeed "kantorku_backend/internals/seeds/users"

	"gorm.io/gorm"
)

// RunAllSeeds mengisi data awal: akun admin/karyawan contoh dan pool
// kutipan. Semua seeder idempotent, aman dijalankan berulang.
func RunAllSeeds(db *gorm.DB) {
	userSeed.SeedUsersFromJSON(db, "internals/seeds/users/data_users.json")
	quoteSeed.SeedQuotesFromJSON(db, "internals/seeds/quotes/data_quotes.json")
}
