package redis_cache

import "listing-web/internal/core/domain"

// cachedProperty - форма записи в Redis, отвязанная от доменной структуры
type cachedProperty struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Cost          string   `json:"cost"`
	LandArea      string   `json:"land_area"`
	Content       string   `json:"content"`
	Images        []string `json:"images"`
	TypePostingID int      `json:"type_posting_id"`

	ProvinceCode      string `json:"province_code,omitempty"`
	WardCode          string `json:"ward_code,omitempty"`
	NumberOfStreet    string `json:"number_of_street,omitempty"`
	Floor             string `json:"floor,omitempty"`
	CostDeposit       string `json:"cost_deposit,omitempty"`
	UsableArea        string `json:"usable_area,omitempty"`
	Horizontal        string `json:"horizontal,omitempty"`
	Length            string `json:"length,omitempty"`
	BedroomID         string `json:"bedroom_id,omitempty"`
	BathroomID        string `json:"bathroom_id,omitempty"`
	MainDoorID        string `json:"main_door_id,omitempty"`
	LegalID           string `json:"legal_id,omitempty"`
	ConditionInterior int    `json:"condition_interior,omitempty"`
	SubdivisionCode   string `json:"subdivision_code,omitempty"`
}

func fromDomain(r domain.PropertyRecord) cachedProperty {
	d := r.Details
	return cachedProperty{
		ID:                r.ID,
		Title:             r.Title,
		Cost:              r.Cost,
		LandArea:          r.LandArea,
		Content:           r.Content,
		Images:            r.Images,
		TypePostingID:     int(r.TypePostingID),
		ProvinceCode:      d.ProvinceCode,
		WardCode:          d.WardCode,
		NumberOfStreet:    d.NumberOfStreet,
		Floor:             d.Floor,
		CostDeposit:       d.CostDeposit,
		UsableArea:        d.UsableArea,
		Horizontal:        d.Horizontal,
		Length:            d.Length,
		BedroomID:         d.BedroomID,
		BathroomID:        d.BathroomID,
		MainDoorID:        d.MainDoorID,
		LegalID:           d.LegalID,
		ConditionInterior: d.ConditionInterior,
		SubdivisionCode:   d.SubdivisionCode,
	}
}

func (c cachedProperty) toDomain() domain.PropertyRecord {
	return domain.PropertyRecord{
		ID:            c.ID,
		Title:         c.Title,
		Cost:          c.Cost,
		LandArea:      c.LandArea,
		Content:       c.Content,
		Images:        c.Images,
		TypePostingID: domain.PostingType(c.TypePostingID),
		Details: domain.PropertyDetails{
			ProvinceCode:      c.ProvinceCode,
			WardCode:          c.WardCode,
			NumberOfStreet:    c.NumberOfStreet,
			Floor:             c.Floor,
			CostDeposit:       c.CostDeposit,
			UsableArea:        c.UsableArea,
			Horizontal:        c.Horizontal,
			Length:            c.Length,
			BedroomID:         c.BedroomID,
			BathroomID:        c.BathroomID,
			MainDoorID:        c.MainDoorID,
			LegalID:           c.LegalID,
			ConditionInterior: c.ConditionInterior,
			SubdivisionCode:   c.SubdivisionCode,
		},
	}
}
