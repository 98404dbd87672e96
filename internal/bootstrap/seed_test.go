package bootstrap

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func count(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func TestSeedRolesSkipsExisting(t *testing.T) {
	db, mock := newMockDB(t)

	countRole := regexp.QuoteMeta(`SELECT count(*) FROM "role" WHERE role_id = $1`)
	mock.ExpectQuery(countRole).WithArgs(1).WillReturnRows(count(1))
	mock.ExpectQuery(countRole).WithArgs(2).WillReturnRows(count(1))

	require.NoError(t, SeedRoles(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedCompetencesInsertsMissing(t *testing.T) {
	db, mock := newMockDB(t)

	countCompetence := regexp.QuoteMeta(`SELECT count(*) FROM "competence" WHERE name = $1`)
	mock.ExpectQuery(countCompetence).WithArgs("ticket sales").WillReturnRows(count(1))
	mock.ExpectQuery(countCompetence).WithArgs("lotteries").WillReturnRows(count(0))
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "competence" ("name") VALUES ($1) RETURNING "competence_id"`)).
		WithArgs("lotteries").
		WillReturnRows(sqlmock.NewRows([]string{"competence_id"}).AddRow(2))
	mock.ExpectCommit()
	mock.ExpectQuery(countCompetence).WithArgs("roller coaster operation").WillReturnRows(count(1))

	require.NoError(t, SeedCompetences(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedRecruiterSkipsExisting(t *testing.T) {
	db, mock := newMockDB(t)
	log, hook := test.NewNullLogger()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "person" WHERE username = $1`)).
		WithArgs("recruiter").
		WillReturnRows(count(1))

	require.NoError(t, SeedRecruiter(db, "recruiter", "recruiter123", bcrypt.MinCost, log))
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Contains(t, hook.LastEntry().Message, "already exists")
}

func TestSeedRecruiterCreatesAccount(t *testing.T) {
	db, mock := newMockDB(t)
	log, _ := test.NewNullLogger()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "person" WHERE username = $1`)).
		WillReturnRows(count(0))
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "person"`)).
		WillReturnRows(sqlmock.NewRows([]string{"person_id"}).AddRow(1))
	mock.ExpectCommit()

	require.NoError(t, SeedRecruiter(db, "recruiter", "recruiter123", bcrypt.MinCost, log))
	assert.NoError(t, mock.ExpectationsWereMet())
}
