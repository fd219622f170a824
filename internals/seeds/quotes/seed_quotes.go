package quote

import (
	"encoding/json"
	"log"
	"os"

	"kantorku_backend/internals/features/home/quotes/model"

	"gorm.io/gorm"
)

type QuoteSeed struct {
	QuoteText   string `json:"quote_text"`
	QuoteAuthor string `json:"quote_author"`
}

// SeedQuotesFromJSON mengisi pool kutipan untuk rotasi harian. DisplayOrder
// mengikuti urutan di file, melanjutkan dari max yang sudah ada.
func SeedQuotesFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Membaca file quote:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("❌ Gagal membaca file JSON: %v", err)
	}

	var inputs []QuoteSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		log.Fatalf("❌ Gagal decode JSON: %v", err)
	}

	var maxOrder int
	if err := db.Model(&model.QuoteModel{}).
		Select("COALESCE(MAX(display_order), 0)").
		Scan(&maxOrder).Error; err != nil {
		log.Printf("❌ Gagal baca display_order: %v", err)
		return
	}

	for _, data := range inputs {
		var existing model.QuoteModel
		if err := db.Where("quote_text = ?", data.QuoteText).First(&existing).Error; err == nil {
			log.Printf("ℹ️ Quote '%.30s…' sudah ada, dilewati.", data.QuoteText)
			continue
		}

		maxOrder++
		newQuote := model.QuoteModel{
			QuoteText:    data.QuoteText,
			QuoteAuthor:  data.QuoteAuthor,
			IsPublished:  true,
			DisplayOrder: maxOrder,
		}
		if err := db.Create(&newQuote).Error; err != nil {
			log.Printf("❌ Gagal insert quote: %v", err)
		} else {
			log.Printf("✅ Berhasil insert quote '%.30s…'", data.QuoteText)
		}
	}
}
