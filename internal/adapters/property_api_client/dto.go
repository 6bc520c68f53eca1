package property_api_client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"listing-web/internal/core/domain"
	"strconv"
	"strings"
)

// flexString принимает строку, число или null и хранит их текстом
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", data)
		}
		*f = flexString(n.String())
	}
	return nil
}

func (f flexString) Int() int {
	n, err := strconv.Atoi(string(f))
	if err != nil {
		return 0
	}
	return n
}

// propertyDTO - запись из property API
type propertyDTO struct {
	ID            flexString `json:"id"`
	Title         string     `json:"title"`
	Cost          flexString `json:"cost"`
	LandArea      flexString `json:"land_area"`
	Content       string     `json:"content"`
	Images        []string   `json:"images"`
	TypePostingID flexString `json:"type_posting_id"`

	ProvinceCode      flexString `json:"province_code"`
	WardCode          flexString `json:"ward_code"`
	NumberOfStreet    string     `json:"number_of_street"`
	Floor             flexString `json:"floor"`
	CostDeposit       flexString `json:"cost_deposit"`
	UsableArea        flexString `json:"usable_area"`
	Horizontal        flexString `json:"horizontal"`
	Length            flexString `json:"length"`
	BedroomID         flexString `json:"bedroom_id"`
	BathroomID        flexString `json:"bathroom_id"`
	MainDoorID        flexString `json:"main_door_id"`
	LegalID           flexString `json:"legal_id"`
	ConditionInterior flexString `json:"condition_interior"`
	SubdivisionCode   flexString `json:"subdivision_code"`
}

type listResponse struct {
	Data []json.RawMessage `json:"data"`
}

type itemResponse struct {
	Data json.RawMessage `json:"data"`
}

func (d propertyDTO) toDomain() domain.PropertyRecord {
	return domain.PropertyRecord{
		ID:            string(d.ID),
		Title:         d.Title,
		Cost:          string(d.Cost),
		LandArea:      string(d.LandArea),
		Content:       d.Content,
		Images:        d.Images,
		TypePostingID: domain.PostingType(d.TypePostingID.Int()),
		Details: domain.PropertyDetails{
			ProvinceCode:      string(d.ProvinceCode),
			WardCode:          string(d.WardCode),
			NumberOfStreet:    d.NumberOfStreet,
			Floor:             string(d.Floor),
			CostDeposit:       string(d.CostDeposit),
			UsableArea:        string(d.UsableArea),
			Horizontal:        string(d.Horizontal),
			Length:            string(d.Length),
			BedroomID:         string(d.BedroomID),
			BathroomID:        string(d.BathroomID),
			MainDoorID:        string(d.MainDoorID),
			LegalID:           string(d.LegalID),
			ConditionInterior: d.ConditionInterior.Int(),
			SubdivisionCode:   string(d.SubdivisionCode),
		},
	}
}
