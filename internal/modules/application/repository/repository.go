package repository

import (
	"context"
	"errors"

	"anoa.com/recruitportal/internal/entity"
	"anoa.com/recruitportal/internal/modules/application/dto"
	"gorm.io/gorm"
)

// CompetenceLine is one claimed competence of a submission, by name.
type CompetenceLine struct {
	Name  string
	Years float64
}

// ApplicationRepository is the application store over competence,
// competence_profile and availability.
type ApplicationRepository interface {
	FindAllCompetences(ctx context.Context) ([]entity.Competence, error)
	Save(ctx context.Context, personID int64, lines []CompetenceLine, periods []entity.Availability) (int, error)
	FindAllApplications(ctx context.Context) ([]dto.ApplicationSummary, error)
	UpdateStatus(ctx context.Context, personID int64, competenceID *int64, status *string) (int64, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) FindAllCompetences(ctx context.Context) ([]entity.Competence, error) {
	var competences []entity.Competence
	if err := r.db.WithContext(ctx).Order("competence_id").Find(&competences).Error; err != nil {
		return nil, err
	}
	return competences, nil
}

// Save writes a whole submission in one transaction and returns the number of
// competence lines stored. Lines naming an unknown competence are skipped.
func (r *applicationRepository) Save(ctx context.Context, personID int64, lines []CompetenceLine, periods []entity.Availability) (int, error) {
	stored := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range lines {
			var competence entity.Competence
			err := tx.Select("competence_id").Where("name = ?", line.Name).Take(&competence).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			profile := entity.CompetenceProfile{
				PersonID:          personID,
				CompetenceID:      competence.CompetenceID,
				YearsOfExperience: line.Years,
			}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
			stored++
		}

		for i := range periods {
			periods[i].PersonID = personID
			if err := tx.Create(&periods[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return stored, nil
}

// Years print without trailing zeros: 4.00 reads "4", 2.50 reads "2.5".
const listApplicationsQuery = `
SELECT
	p.person_id,
	p.name,
	p.surname,
	(
		SELECT string_agg(c.name || ' (' || rtrim(rtrim(cp.years_of_experience::text, '0'), '.') || ' years)', ', ' ORDER BY cp.competence_profile_id)
		FROM competence_profile cp
		JOIN competence c ON cp.competence_id = c.competence_id
		WHERE cp.person_id = p.person_id
	) AS competences_with_experience,
	(
		SELECT string_agg(a.from_date::text || ' to ' || a.to_date::text, '; ' ORDER BY a.availability_id)
		FROM availability a
		WHERE a.person_id = p.person_id
	) AS availability_periods,
	(
		SELECT string_agg(DISTINCT cp.status, ', ')
		FROM competence_profile cp
		WHERE cp.person_id = p.person_id
	) AS status
FROM person p
WHERE p.role_id = ?
ORDER BY p.person_id`

func (r *applicationRepository) FindAllApplications(ctx context.Context) ([]dto.ApplicationSummary, error) {
	var summaries []dto.ApplicationSummary
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Raw(listApplicationsQuery, entity.RoleApplicant).Scan(&summaries).Error
	})
	if err != nil {
		return nil, err
	}

	if summaries == nil {
		summaries = []dto.ApplicationSummary{}
	}
	return summaries, nil
}

// UpdateStatus sets status on every competence line of the person, or only on
// the line for competenceID when given. A nil status marks lines unhandled.
func (r *applicationRepository) UpdateStatus(ctx context.Context, personID int64, competenceID *int64, status *string) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&entity.CompetenceProfile{}).Where("person_id = ?", personID)
		if competenceID != nil {
			query = query.Where("competence_id = ?", *competenceID)
		}

		result := query.Update("status", status)
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	return affected, nil
}
