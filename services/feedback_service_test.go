package services

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/skillswaphq/skillswap/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// completedExchange walks an exchange through the full lifecycle so it is
// ready for feedback.
func completedExchange(t *testing.T, db *gorm.DB) (learner *models.User, exchange *models.SkillExchange) {
	t.Helper()
	teacher := createUser(t, db, "teacher")
	learner = createUser(t, db, "learner")
	offer := createOffer(t, db, teacher, 1)

	exchange, err := CreateExchange(db, learner.ID, validExchangeInput(offer.ID))
	require.NoError(t, err)
	_, err = UpdateExchangeStatus(db, teacher.ID, exchange.ID, models.ExchangeAccepted, "")
	require.NoError(t, err)
	_, err = UpdateExchangeStatus(db, learner.ID, exchange.ID, models.ExchangeInProgress, "")
	require.NoError(t, err)
	exchange, err = UpdateExchangeStatus(db, learner.ID, exchange.ID, models.ExchangeCompleted, "")
	require.NoError(t, err)
	return learner, exchange
}

func validFeedbackInput(exchangeID uuid.UUID, rating float64) CreateFeedbackInput {
	return CreateFeedbackInput{
		ExchangeID: exchangeID,
		Rating:     &rating,
		Comment:    "Great sessions, clear explanations and useful homework.",
	}
}

func TestCreateFeedback(t *testing.T) {
	t.Run("records feedback on a completed exchange", func(t *testing.T) {
		db := setupTestDB(t)
		learner, exchange := completedExchange(t, db)

		feedback, err := CreateFeedback(db, learner.ID, validFeedbackInput(exchange.ID, 4.5))
		require.NoError(t, err)
		require.NotNil(t, feedback.Rating)
		assert.Equal(t, 4.5, *feedback.Rating)
		assert.True(t, feedback.IsRecommended)
		assert.True(t, feedback.IsWithinUpdateWindow())
	})

	t.Run("only the learner may leave feedback", func(t *testing.T) {
		db := setupTestDB(t)
		_, exchange := completedExchange(t, db)
		outsider := createUser(t, db, "outsider")

		_, err := CreateFeedback(db, outsider.ID, validFeedbackInput(exchange.ID, 4))
		var permissionErr *PermissionError
		require.ErrorAs(t, err, &permissionErr)
		assert.Equal(t, "Only the learner can leave feedback on this exchange.", permissionErr.Message)
	})

	t.Run("rejects non-completed exchanges", func(t *testing.T) {
		db := setupTestDB(t)
		teacher := createUser(t, db, "teacher")
		learner := createUser(t, db, "learner")
		offer := createOffer(t, db, teacher, 1)
		exchange, err := CreateExchange(db, learner.ID, validExchangeInput(offer.ID))
		require.NoError(t, err)

		_, err = CreateFeedback(db, learner.ID, validFeedbackInput(exchange.ID, 4))
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "Feedback can only be left on completed exchanges.", validationErr.Message)
	})

	t.Run("rejects a second feedback for the same exchange", func(t *testing.T) {
		db := setupTestDB(t)
		learner, exchange := completedExchange(t, db)

		_, err := CreateFeedback(db, learner.ID, validFeedbackInput(exchange.ID, 4))
		require.NoError(t, err)

		_, err = CreateFeedback(db, learner.ID, validFeedbackInput(exchange.ID, 5))
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "Feedback for this exchange has already been submitted.", validationErr.Message)
	})

	t.Run("unknown exchange id", func(t *testing.T) {
		db := setupTestDB(t)
		learner := createUser(t, db, "learner")

		_, err := CreateFeedback(db, learner.ID, validFeedbackInput(uuid.New(), 4))
		var notFoundErr *NotFoundError
		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("rating must be in half-point steps", func(t *testing.T) {
		db := setupTestDB(t)
		learner, exchange := completedExchange(t, db)

		var validationErr *ValidationError
		_, err := CreateFeedback(db, learner.ID, validFeedbackInput(exchange.ID, 4.3))
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "Rating must be in half-point increments (e.g. 3.5, 4.0).", validationErr.Message)

		_, err = CreateFeedback(db, learner.ID, validFeedbackInput(exchange.ID, 5.5))
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "Rating must be between 0 and 5.", validationErr.Message)

		_, err = CreateFeedback(db, learner.ID, validFeedbackInput(exchange.ID, 3.5))
		require.NoError(t, err)
	})

	t.Run("rating is optional", func(t *testing.T) {
		db := setupTestDB(t)
		learner, exchange := completedExchange(t, db)

		feedback, err := CreateFeedback(db, learner.ID, CreateFeedbackInput{
			ExchangeID: exchange.ID,
			Comment:    "No rating, but the written part is long enough.",
		})
		require.NoError(t, err)
		assert.Nil(t, feedback.Rating)
	})
}

func TestFeedbackCommentRules(t *testing.T) {
	db := setupTestDB(t)
	learner, exchange := completedExchange(t, db)

	cases := []struct {
		name    string
		comment string
		message string
	}{
		{"too short", "  nice  ", "Comment must be at least 20 characters long."},
		{"too long", strings.Repeat("a", 2001), "Comment cannot exceed 2000 characters."},
		{"too many urls", "see http://a.com http://b.com HTTP://c.com and more words", "Comment contains too many URLs. Please keep it concise and relevant."},
		{"html tags", "this comment has <script>alert(1)</script> inside it", "Comment cannot contain HTML tags."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validFeedbackInput(exchange.ID, 4)
			input.Comment = tc.comment
			_, err := CreateFeedback(db, learner.ID, input)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.message, validationErr.Message)
		})
	}

	t.Run("angle brackets on one side only pass", func(t *testing.T) {
		input := validFeedbackInput(exchange.ID, 4)
		input.Comment = "Progress went from zero -> hero, genuinely pleased overall"
		_, err := CreateFeedback(db, learner.ID, input)
		require.NoError(t, err)
	})
}

// Comment limits count characters, not bytes, so multibyte text close to the
// cap is still accepted.
func TestFeedbackCommentCountsCharacters(t *testing.T) {
	t.Run("long multibyte comment under the cap passes", func(t *testing.T) {
		db := setupTestDB(t)
		learner, exchange := completedExchange(t, db)

		input := validFeedbackInput(exchange.ID, 4)
		input.Comment = strings.Repeat("é", 1990)
		_, err := CreateFeedback(db, learner.ID, input)
		require.NoError(t, err)
	})

	t.Run("short multibyte comment over the floor passes", func(t *testing.T) {
		db := setupTestDB(t)
		learner, exchange := completedExchange(t, db)

		input := validFeedbackInput(exchange.ID, 4)
		input.Comment = strings.Repeat("ü", 25)
		_, err := CreateFeedback(db, learner.ID, input)
		require.NoError(t, err)
	})

	t.Run("multibyte comment over the cap is rejected", func(t *testing.T) {
		db := setupTestDB(t)
		learner, exchange := completedExchange(t, db)

		input := validFeedbackInput(exchange.ID, 4)
		input.Comment = strings.Repeat("é", 2001)
		_, err := CreateFeedback(db, learner.ID, input)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "Comment cannot exceed 2000 characters.", validationErr.Message)
	})
}

func TestUpdateFeedback(t *testing.T) {
	newRating := func(v float64) *float64 { return &v }
	newBool := func(v bool) *bool { return &v }
	newString := func(v string) *string { return &v }

	t.Run("owner can revise everything inside the window", func(t *testing.T) {
		db := setupTestDB(t)
		learner, exchange := completedExchange(t, db)
		feedback, err := CreateFeedback(db, learner.ID, validFeedbackInput(exchange.ID, 4))
		require.NoError(t, err)

		updated, err := UpdateFeedback(db, learner.ID, feedback.ID, UpdateFeedbackInput{
			Rating:        newRating(3.5),
			Comment:       newString("Revised after a second look at the material we covered."),
			IsRecommended: newBool(false),
		})
		require.NoError(t, err)
		assert.Equal(t, 3.5, *updated.Rating)
		assert.False(t, updated.IsRecommended)
	})

	t.Run("only the owner can edit", func(t *testing.T) {
		db := setupTestDB(t)
		learner, exchange := completedExchange(t, db)
		outsider := createUser(t, db, "outsider")
		feedback, err := CreateFeedback(db, learner.ID, validFeedbackInput(exchange.ID, 4))
		require.NoError(t, err)

		_, err = UpdateFeedback(db, outsider.ID, feedback.ID, UpdateFeedbackInput{Rating: newRating(1)})
		var permissionErr *PermissionError
		require.ErrorAs(t, err, &permissionErr)
	})

	t.Run("rating and recommendation lock after the window", func(t *testing.T) {
		db := setupTestDB(t)
		learner, exchange := completedExchange(t, db)
		feedback, err := CreateFeedback(db, learner.ID, validFeedbackInput(exchange.ID, 4))
		require.NoError(t, err)

		backdated := time.Now().Add(-(models.FeedbackUpdateWindow + time.Hour))
		require.NoError(t, db.Model(&models.SkillFeedback{}).Where("id = ?", feedback.ID).
			Update("created_at", backdated).Error)

		var validationErr *ValidationError
		_, err = UpdateFeedback(db, learner.ID, feedback.ID, UpdateFeedbackInput{Rating: newRating(2)})
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "The update window for rating and recommendation has closed.", validationErr.Message)

		_, err = UpdateFeedback(db, learner.ID, feedback.ID, UpdateFeedbackInput{IsRecommended: newBool(false)})
		require.ErrorAs(t, err, &validationErr)

		// The comment stays editable, and resubmitting the unchanged rating
		// is not treated as a change.
		updated, err := UpdateFeedback(db, learner.ID, feedback.ID, UpdateFeedbackInput{
			Rating:  newRating(4),
			Comment: newString("Still a fair write-up, just clarifying a few points."),
		})
		require.NoError(t, err)
		assert.Equal(t, "Still a fair write-up, just clarifying a few points.", updated.Comment)
	})

	t.Run("updates run through the validators", func(t *testing.T) {
		db := setupTestDB(t)
		learner, exchange := completedExchange(t, db)
		feedback, err := CreateFeedback(db, learner.ID, validFeedbackInput(exchange.ID, 4))
		require.NoError(t, err)

		var validationErr *ValidationError
		_, err = UpdateFeedback(db, learner.ID, feedback.ID, UpdateFeedbackInput{Rating: newRating(4.7)})
		require.ErrorAs(t, err, &validationErr)

		_, err = UpdateFeedback(db, learner.ID, feedback.ID, UpdateFeedbackInput{Comment: newString("short")})
		require.ErrorAs(t, err, &validationErr)
	})
}
