package rest

import "listing-web/internal/core/domain"

// PropertyCardResponse - карточка объявления в сетке.
type PropertyCardResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Cost          string `json:"cost"`
	LandArea      string `json:"land_area"`
	Content       string `json:"content"`
	PreviewImage  string `json:"preview_image"`
	TypePostingID int    `json:"type_posting_id"`
	VIP           bool   `json:"vip"`
	DetailURL     string `json:"detail_url"`
}

// PageControlResponse - элемент полосы пагинации: номер страницы или многоточие.
type PageControlResponse struct {
	Kind   string `json:"kind"`
	Number int    `json:"number,omitempty"`
	Active bool   `json:"active,omitempty"`
}

// ListingPageResponse - ответ GET /api/v1/listings.
type ListingPageResponse struct {
	Data       []PropertyCardResponse `json:"data"`
	Page       int                    `json:"page"`
	TotalPages int                    `json:"total_pages"`
	Total      int                    `json:"total"`
	PerPage    int                    `json:"per_page"`
	HasPrev    bool                   `json:"has_prev"`
	HasNext    bool                   `json:"has_next"`
	Controls   []PageControlResponse  `json:"controls"`
}

// PropertyDetailResponse - ответ GET /api/v1/properties/{id}.
type PropertyDetailResponse struct {
	ID                     string   `json:"id"`
	Title                  string   `json:"title"`
	Cost                   string   `json:"cost"`
	CostFormatted          string   `json:"cost_formatted"`
	LandArea               string   `json:"land_area"`
	Content                string   `json:"content"`
	Images                 []string `json:"images"`
	TypePostingID          int      `json:"type_posting_id"`
	VIP                    bool     `json:"vip"`
	Address                string   `json:"address"`
	Floor                  string   `json:"floor"`
	HousingModel           string   `json:"housing_model"`
	UsableArea             string   `json:"usable_area"`
	Horizontal             string   `json:"horizontal"`
	Length                 string   `json:"length"`
	BedroomID              string   `json:"bedroom_id"`
	BathroomID             string   `json:"bathroom_id"`
	MainDoorID             string   `json:"main_door_id"`
	LegalID                string   `json:"legal_id"`
	ConditionInterior      int      `json:"condition_interior"`
	ConditionInteriorLabel string   `json:"condition_interior_label"`
	SubdivisionCode        string   `json:"subdivision_code"`
}

// ErrorResponse - стандартная структура для ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}

func toCardResponse(p domain.PropertyRecord) PropertyCardResponse {
	return PropertyCardResponse{
		ID:            p.ID,
		Title:         p.Title,
		Cost:          p.Cost,
		LandArea:      p.LandArea,
		Content:       p.Content,
		PreviewImage:  p.PreviewImage(),
		TypePostingID: int(p.TypePostingID),
		VIP:           p.IsVIP(),
		DetailURL:     detailURL(p.ID),
	}
}

func toControlsResponse(controls []domain.PageControl) []PageControlResponse {
	out := make([]PageControlResponse, len(controls))
	for i, c := range controls {
		out[i] = PageControlResponse{Kind: string(c.Kind), Number: c.Number, Active: c.Active}
	}
	return out
}

func toListingPageResponse(page *domain.ListingPage) ListingPageResponse {
	response := ListingPageResponse{
		Data:       make([]PropertyCardResponse, len(page.Items)),
		Page:       page.Pagination.CurrentPage,
		TotalPages: page.Pagination.TotalPages,
		Total:      page.Pagination.TotalItems,
		PerPage:    page.Pagination.PageSize,
		HasPrev:    page.Pagination.HasPrev(),
		HasNext:    page.Pagination.HasNext(),
		Controls:   toControlsResponse(page.Controls),
	}
	for i, item := range page.Items {
		response.Data[i] = toCardResponse(item)
	}
	return response
}

func toDetailResponse(p *domain.PropertyRecord) PropertyDetailResponse {
	return PropertyDetailResponse{
		ID:                     p.ID,
		Title:                  p.Title,
		Cost:                   p.Cost,
		CostFormatted:          FormatVND(p.Cost),
		LandArea:               p.LandArea,
		Content:                p.Content,
		Images:                 p.Images,
		TypePostingID:          int(p.TypePostingID),
		VIP:                    p.IsVIP(),
		Address:                p.Details.Address(),
		Floor:                  p.Details.Floor,
		HousingModel:           p.Details.HousingModelLabel(),
		UsableArea:             p.Details.UsableArea,
		Horizontal:             p.Details.Horizontal,
		Length:                 p.Details.Length,
		BedroomID:              p.Details.BedroomID,
		BathroomID:             p.Details.BathroomID,
		MainDoorID:             p.Details.MainDoorID,
		LegalID:                p.Details.LegalID,
		ConditionInterior:      p.Details.ConditionInterior,
		ConditionInteriorLabel: domain.ConditionInteriorLabel(p.Details.ConditionInterior),
		SubdivisionCode:        p.Details.SubdivisionCode,
	}
}
