package bootstrap

import (
	"anoa.com/recruitportal/internal/entity"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var defaultCompetences = []string{"ticket sales", "lotteries", "roller coaster operation"}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Role{},
		&entity.Person{},
		&entity.Competence{},
		&entity.CompetenceProfile{},
		&entity.Availability{},
		&entity.ErrorLog{},
	)
}

func SeedRoles(db *gorm.DB) error {
	defaultRoles := []entity.Role{
		{RoleID: entity.RoleRecruiter, Name: "recruiter"},
		{RoleID: entity.RoleApplicant, Name: "applicant"},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&entity.Role{}).
			Where("role_id = ?", role.RoleID).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func SeedCompetences(db *gorm.DB) error {
	for _, name := range defaultCompetences {
		var count int64
		if err := db.Model(&entity.Competence{}).
			Where("name = ?", name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&entity.Competence{Name: name}).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedRecruiter creates the recruiter account registration cannot create.
func SeedRecruiter(db *gorm.DB, username, password string, cost int, log logrus.FieldLogger) error {
	var count int64
	if err := db.Model(&entity.Person{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.WithField("username", username).Info("recruiter already exists, skipping seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}

	recruiter := entity.Person{
		Name:     "Recruiter",
		Surname:  "Account",
		Email:    username + "@recruitment.local",
		Password: string(hashed),
		RoleID:   entity.RoleRecruiter,
		Username: username,
	}
	if err := db.Create(&recruiter).Error; err != nil {
		return err
	}

	log.WithField("username", username).Info("recruiter seeded")
	return nil
}
