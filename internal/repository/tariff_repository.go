package repository

import (
	"strings"
	"unicode"

	"delivery_manager/internal/models"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

type TariffRepository interface {
	Create(tariff *models.QuartierTariff) error
	GetByAgency(agencyID uint) ([]models.QuartierTariff, error)
	Update(tariff *models.QuartierTariff) error
	// TariffFor resolves the standard fee for a quartier; false when
	// none is configured. Satisfies stats.TariffLookup.
	TariffFor(quartier string, agencyID uint) (float64, bool)
}

type tariffRepository struct {
	db *gorm.DB
}

func NewTariffRepository(db *gorm.DB) TariffRepository {
	return &tariffRepository{db: db}
}

// quartierKey normalizes a neighborhood name for lookup: lowercase,
// accents stripped, whitespace collapsed. "Déido " and "deido" hit the
// same tariff row.
func quartierKey(quartier string) string {
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	key, _, err := transform.String(stripAccents, quartier)
	if err != nil {
		key = quartier
	}
	return strings.Join(strings.Fields(strings.ToLower(key)), " ")
}

func (r *tariffRepository) Create(tariff *models.QuartierTariff) error {
	tariff.QuartierKey = quartierKey(tariff.Quartier)
	return r.db.Create(tariff).Error
}

func (r *tariffRepository) GetByAgency(agencyID uint) ([]models.QuartierTariff, error) {
	var tariffs []models.QuartierTariff
	err := r.db.Where("agency_id = ? AND is_active = ?", agencyID, true).Find(&tariffs).Error
	return tariffs, err
}

func (r *tariffRepository) Update(tariff *models.QuartierTariff) error {
	tariff.QuartierKey = quartierKey(tariff.Quartier)
	return r.db.Save(tariff).Error
}

func (r *tariffRepository) TariffFor(quartier string, agencyID uint) (float64, bool) {
	var tariff models.QuartierTariff
	err := r.db.Where("agency_id = ? AND quartier_key = ? AND is_active = ?",
		agencyID, quartierKey(quartier), true).First(&tariff).Error
	if err != nil {
		// Missing or failed lookups contribute 0; the record stays in
		// the aggregate either way.
		return 0, false
	}
	return tariff.Amount, true
}
