package postgres_adapter

import (
	"context"
	"errors"
	"fmt"
	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectColumns = `
	id, title, cost, land_area, content, images, type_posting_id,
	province_code, ward_code, number_of_street, floor, cost_deposit,
	usable_area, horizontal, length, bedroom_id, bathroom_id,
	main_door_id, legal_id, condition_interior, subdivision_code`

// querier - часть pgxpool.Pool, которая нужна репозиторию
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// propertyRow - строка таблицы properties. Все поля кроме id и images могут быть NULL.
type propertyRow struct {
	ID                string   `db:"id" validate:"required"`
	Title             *string  `db:"title"`
	Cost              *string  `db:"cost"`
	LandArea          *string  `db:"land_area"`
	Content           *string  `db:"content"`
	Images            []string `db:"images" validate:"min=1,dive,required"`
	TypePostingID     *int32   `db:"type_posting_id"`
	ProvinceCode      *string  `db:"province_code"`
	WardCode          *string  `db:"ward_code"`
	NumberOfStreet    *string  `db:"number_of_street"`
	Floor             *string  `db:"floor"`
	CostDeposit       *string  `db:"cost_deposit"`
	UsableArea        *string  `db:"usable_area"`
	Horizontal        *string  `db:"horizontal"`
	Length            *string  `db:"length"`
	BedroomID         *string  `db:"bedroom_id"`
	BathroomID        *string  `db:"bathroom_id"`
	MainDoorID        *string  `db:"main_door_id"`
	LegalID           *string  `db:"legal_id"`
	ConditionInterior *int32   `db:"condition_interior"`
	SubdivisionCode   *string  `db:"subdivision_code"`
}

// PostgresPropertyRepository - реализация PropertySourcePort поверх таблицы properties.
type PostgresPropertyRepository struct {
	db       querier
	validate *validator.Validate
}

// NewPostgresPropertyRepository - конструктор.
func NewPostgresPropertyRepository(pool *pgxpool.Pool) (*PostgresPropertyRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return newRepository(pool), nil
}

func newRepository(db querier) *PostgresPropertyRepository {
	return &PostgresPropertyRepository{db: db, validate: validator.New()}
}

// ListProperties возвращает все объявления в порядке публикации. Невалидные строки пропускаются.
func (r *PostgresPropertyRepository) ListProperties(ctx context.Context) ([]domain.PropertyRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresPropertyRepository",
		"method":    "ListProperties",
	})

	query := `SELECT ` + selectColumns + ` FROM properties ORDER BY created_at DESC, id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		repoLogger.Error("Failed to query properties", err, nil)
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}

	propertyRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[propertyRow])
	if err != nil {
		repoLogger.Error("Failed to scan properties", err, nil)
		return nil, fmt.Errorf("failed to scan properties: %w", err)
	}

	return r.toRecords(propertyRows, repoLogger), nil
}

// GetByID возвращает одно объявление. Отсутствующая или невалидная строка - domain.ErrPropertyNotFound.
func (r *PostgresPropertyRepository) GetByID(ctx context.Context, id string) (*domain.PropertyRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PostgresPropertyRepository",
		"method":      "GetByID",
		"property_id": id,
	})

	query := `SELECT ` + selectColumns + ` FROM properties WHERE id = $1`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		repoLogger.Error("Failed to query property", err, nil)
		return nil, fmt.Errorf("failed to query property: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[propertyRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Debug("Property not found.", nil)
			return nil, domain.ErrPropertyNotFound
		}
		// id в таблице - текст, но на случай числового столбца неверный формат тоже означает "не найдено"
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "22P02" { // invalid_text_representation
			return nil, domain.ErrPropertyNotFound
		}
		repoLogger.Error("Failed to scan property", err, nil)
		return nil, fmt.Errorf("failed to scan property: %w", err)
	}

	if err := r.validate.Struct(row); err != nil {
		repoLogger.Warn("Property row failed validation", port.Fields{"error": err.Error()})
		return nil, fmt.Errorf("%w: %v", domain.ErrPropertyNotFound, err)
	}

	record := row.toDomain()
	return &record, nil
}

func (r *PostgresPropertyRepository) toRecords(rows []propertyRow, logger port.LoggerPort) []domain.PropertyRecord {
	records := make([]domain.PropertyRecord, 0, len(rows))
	for _, row := range rows {
		if err := r.validate.Struct(row); err != nil {
			logger.Warn("Skipping invalid property row", port.Fields{"property_id": row.ID, "error": err.Error()})
			continue
		}
		records = append(records, row.toDomain())
	}
	logger.Info("Properties loaded from database", port.Fields{"rows": len(rows), "accepted": len(records)})
	return records
}

func (row propertyRow) toDomain() domain.PropertyRecord {
	return domain.PropertyRecord{
		ID:            strings.TrimSpace(row.ID),
		Title:         str(row.Title),
		Cost:          str(row.Cost),
		LandArea:      str(row.LandArea),
		Content:       str(row.Content),
		Images:        row.Images,
		TypePostingID: domain.PostingType(num(row.TypePostingID)),
		Details: domain.PropertyDetails{
			ProvinceCode:      str(row.ProvinceCode),
			WardCode:          str(row.WardCode),
			NumberOfStreet:    str(row.NumberOfStreet),
			Floor:             str(row.Floor),
			CostDeposit:       str(row.CostDeposit),
			UsableArea:        str(row.UsableArea),
			Horizontal:        str(row.Horizontal),
			Length:            str(row.Length),
			BedroomID:         str(row.BedroomID),
			BathroomID:        str(row.BathroomID),
			MainDoorID:        str(row.MainDoorID),
			LegalID:           str(row.LegalID),
			ConditionInterior: num(row.ConditionInterior),
			SubdivisionCode:   str(row.SubdivisionCode),
		},
	}
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func num(n *int32) int {
	if n == nil {
		return 0
	}
	return int(*n)
}
