package domain

import (
	"fmt"
	"strings"
)

// PostingType - дискриминатор типа объявления.
type PostingType int

// PostingTypeVIP - "Tin VIP", такие объявления выделяются в выдаче.
const PostingTypeVIP PostingType = 4

// PropertyRecord - объявление о недвижимости в том виде, в котором его показывает сайт.
// Для этого сервиса запись неизменяема: она приходит из внешнего источника на каждую загрузку.
type PropertyRecord struct {
	ID            string
	Title         string
	Cost          string // число или уже отформатированная строка, как пришло из источника
	LandArea      string
	Content       string
	Images        []string
	TypePostingID PostingType

	Details PropertyDetails
}

// PropertyDetails - поля, которые нужны только детальной странице.
type PropertyDetails struct {
	ProvinceCode      string
	WardCode          string
	NumberOfStreet    string
	Floor             string
	CostDeposit       string
	UsableArea        string
	Horizontal        string
	Length            string
	BedroomID         string
	BathroomID        string
	MainDoorID        string
	LegalID           string
	ConditionInterior int
	SubdivisionCode   string
}

// IsVIP сообщает, нужно ли выделять объявление.
func (p PropertyRecord) IsVIP() bool {
	return p.TypePostingID == PostingTypeVIP
}

// PreviewImage - первое изображение, которое показывается на карточке в сетке.
func (p PropertyRecord) PreviewImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Validate проверяет минимальные требования к записи: идентификатор и хотя бы одно изображение.
func (p PropertyRecord) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRecord)
	}
	if len(p.Images) == 0 {
		return fmt.Errorf("%w: record %s has no images", ErrInvalidRecord, p.ID)
	}
	return nil
}

// Address собирает строку адреса из кодов провинции, района и номера дома.
func (d PropertyDetails) Address() string {
	parts := make([]string, 0, 2)
	if d.ProvinceCode != "" {
		parts = append(parts, d.ProvinceCode)
	}
	if d.WardCode != "" {
		parts = append(parts, d.WardCode)
	}
	address := strings.Join(parts, ", ")
	if d.NumberOfStreet != "" {
		address = strings.TrimSpace(address + " " + d.NumberOfStreet)
	}
	return address
}

// IsRental - объявление об аренде, если указан залог.
func (d PropertyDetails) IsRental() bool {
	deposit := strings.TrimSpace(d.CostDeposit)
	return deposit != "" && deposit != "0"
}

// HousingModelLabel возвращает подпись модели жилья для детальной страницы.
func (d PropertyDetails) HousingModelLabel() string {
	if d.IsRental() {
		return "Nhà cho thuê"
	}
	return "Nhà bán"
}

// ConditionInteriorLabel переводит код состояния интерьера в подпись.
func ConditionInteriorLabel(value int) string {
	switch value {
	case 1:
		return "Nội thất cao cấp"
	case 2:
		return "Đầy đủ"
	case 3:
		return "Nhà trống"
	default:
		return "Không xác định"
	}
}
