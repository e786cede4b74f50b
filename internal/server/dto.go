package server

import "docqa/internal/domain"

type sessionResponse struct {
	ID string `json:"id"`
}

type documentDTO struct {
	Index     int    `json:"index"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Pages     int    `json:"pages"`
	Truncated bool   `json:"truncated,omitempty"`
	Error     string `json:"error,omitempty"`
}

type documentsResponse struct {
	Message   string        `json:"message,omitempty"`
	Documents []documentDTO `json:"documents"`
}

type askRequest struct {
	Query string `json:"query"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

type historyResponse struct {
	Messages []domain.Turn `json:"messages"`
}

func toDocumentDTOs(c domain.Corpus) []documentDTO {
	out := make([]documentDTO, 0, len(c))
	for i, d := range c {
		dto := documentDTO{
			Index:     i + 1,
			Title:     d.Title,
			Summary:   d.Summary,
			Pages:     d.Pages,
			Truncated: d.Truncated,
		}
		if d.Err != nil {
			dto.Error = d.Err.Error()
		}
		out = append(out, dto)
	}
	return out
}
