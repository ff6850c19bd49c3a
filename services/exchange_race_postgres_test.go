//go:build postgres

package services

// Concurrency coverage for the accept capacity guard. SQLite serializes
// writing transactions at the database level, so two truly concurrent accepts
// cannot reach the guard together there; the FOR UPDATE path only exists
// under Postgres. Run against a throwaway database:
//
//	TEST_POSTGRES_DSN="host=localhost user=postgres password=... dbname=skillswap_test" \
//	  go test -tags postgres ./services -run TestConcurrentAccepts

import (
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/skillswaphq/skillswap/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.SkillCategory{},
		&models.Skill{},
		&models.UserSkill{},
		&models.SkillMilestone{},
		&models.SkillExchange{},
		&models.SkillFeedback{},
	))

	t.Cleanup(func() {
		for _, model := range []interface{}{
			&models.SkillFeedback{}, &models.SkillExchange{}, &models.SkillMilestone{},
			&models.UserSkill{}, &models.Skill{}, &models.SkillCategory{}, &models.User{},
		} {
			db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model)
		}
	})
	return db
}

// Five teachers' accepts race for two seats. The offer-row lock forces the
// guards to run one at a time, so exactly two accepts win and the rest get
// the capacity conflict.
func TestConcurrentAccepts(t *testing.T) {
	db := setupPostgresDB(t)
	teacher := createUser(t, db, "teacher")
	offer := createOffer(t, db, teacher, 2)

	const contenders = 5
	exchangeIDs := make([]uuid.UUID, contenders)
	for i := range exchangeIDs {
		learner := createUser(t, db, "learner")
		exchange, err := CreateExchange(db, learner.ID, validExchangeInput(offer.ID))
		require.NoError(t, err)
		exchangeIDs[i] = exchange.ID
	}

	errs := make([]error, contenders)
	var wg sync.WaitGroup
	for i, id := range exchangeIDs {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			_, errs[i] = UpdateExchangeStatus(db, teacher.ID, id, models.ExchangeAccepted, "")
		}(i, id)
	}
	wg.Wait()

	var accepted, conflicts int
	for _, err := range errs {
		if err == nil {
			accepted++
			continue
		}
		var conflictErr *ConflictError
		require.ErrorAs(t, err, &conflictErr)
		assert.Equal(t, "Maximum student limit reached.", conflictErr.Message)
		conflicts++
	}
	assert.Equal(t, 2, accepted)
	assert.Equal(t, contenders-2, conflicts)

	var count int64
	require.NoError(t, db.Model(&models.SkillExchange{}).
		Where("user_skill_id = ? AND status = ?", offer.ID, models.ExchangeAccepted).
		Count(&count).Error)
	assert.EqualValues(t, 2, count)
}
