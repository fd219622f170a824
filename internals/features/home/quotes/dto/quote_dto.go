package dto

import (
	"github.com/google/uuid"

	"kantorku_backend/internals/features/home/quotes/model"
)

type CreateQuoteRequest struct {
	QuoteText   string `json:"quote_text" validate:"required,min=3"`
	QuoteAuthor string `json:"quote_author" validate:"omitempty,max=100"`
}

func (r CreateQuoteRequest) ToModel() *model.QuoteModel {
	return &model.QuoteModel{
		QuoteText:   r.QuoteText,
		QuoteAuthor: r.QuoteAuthor,
		IsPublished: true,
	}
}

type QuoteDTO struct {
	QuoteID      uuid.UUID `json:"quote_id"`
	QuoteText    string    `json:"quote_text"`
	QuoteAuthor  string    `json:"quote_author,omitempty"`
	IsPublished  bool      `json:"is_published"`
	DisplayOrder int       `json:"display_order"`
}

func ToQuoteDTO(m model.QuoteModel) QuoteDTO {
	return QuoteDTO{
		QuoteID:      m.QuoteID,
		QuoteText:    m.QuoteText,
		QuoteAuthor:  m.QuoteAuthor,
		IsPublished:  m.IsPublished,
		DisplayOrder: m.DisplayOrder,
	}
}

func ToQuoteDTOs(ms []model.QuoteModel) []QuoteDTO {
	out := make([]QuoteDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToQuoteDTO(m))
	}
	return out
}
