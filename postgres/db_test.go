package postgres_test

import (
	"strconv"
	"testing"

	"github.com/google/uuid"
	traillog "github.com/ridgepath/traillog"
	"github.com/ridgepath/traillog/postgres"
	"github.com/stretchr/testify/require"
)

func newUser() traillog.User {
	tag := uuid.NewString()[:8]
	return traillog.User{
		Username:     "gal-" + tag,
		Email:        tag + "@example.com",
		PasswordHash: "not-a-real-hash",
	}
}

func insertUsers(t *testing.T, db *postgres.DB, n int) []traillog.User {
	t.Helper()

	users := make([]traillog.User, n)
	for i := range users {
		users[i] = newUser()
	}

	require.Nil(t, db.Create(&users))
	return users
}

func insertEntries(t *testing.T, db *postgres.DB, userID uint, n int) []traillog.TrailEntry {
	t.Helper()

	entries := make([]traillog.TrailEntry, n)
	for i := range entries {
		entries[i] = traillog.TrailEntry{
			Trailname:    "Trail " + strconv.Itoa(i),
			Latitude:     "38.5518",
			Longitude:    "-78.3175",
			DateTraveled: "2024-05-0" + strconv.Itoa(i+1),
			UserID:       userID,
		}
	}

	require.Nil(t, db.Create(&entries))
	return entries
}

func (suite *DBTestSuite) TestCount() {
	// Arrange
	users := insertUsers(suite.T(), suite.db, 2)
	insertEntries(suite.T(), suite.db, users[0].ID, 3)
	insertEntries(suite.T(), suite.db, users[1].ID, 1)

	// Act
	count, err := suite.db.
		Model(&traillog.TrailEntry{}).
		Where("user_id = ?", users[0].ID).
		Count()

	// Assert
	suite.Require().Nil(err)
	suite.Require().Equal(int64(3), count)
}

func (suite *DBTestSuite) TestLimit() {
	// Arrange
	users := insertUsers(suite.T(), suite.db, 1)
	insertEntries(suite.T(), suite.db, users[0].ID, 3)

	// Act
	var entries []traillog.TrailEntry
	err := suite.db.
		Order("created_at ASC").
		Limit(2).
		Find(&entries)

	// Assert
	suite.Require().Nil(err)
	suite.Require().Len(entries, 2)
}

func (suite *DBTestSuite) TestLimitRejectsNegative() {
	// Act
	var entries []traillog.TrailEntry
	err := suite.db.Limit(-1).Find(&entries)

	// Assert
	suite.Require().ErrorIs(err, traillog.ErrNotValid)
}

func (suite *DBTestSuite) TestSelect() {
	// Arrange
	users := insertUsers(suite.T(), suite.db, 1)
	insertEntries(suite.T(), suite.db, users[0].ID, 1)

	// Act
	var entries []traillog.TrailEntry
	err := suite.db.
		Model(&traillog.TrailEntry{}).
		Select("trailname").
		Find(&entries)

	// Assert: only the selected column comes back populated
	suite.Require().Nil(err)
	suite.Require().Len(entries, 1)
	suite.Require().Equal("Trail 0", entries[0].Trailname)
	suite.Require().Zero(entries[0].Latitude)
}

func (suite *DBTestSuite) TestCreateDuplicateEmail() {
	// Arrange
	users := insertUsers(suite.T(), suite.db, 1)
	dupe := newUser()
	dupe.Email = users[0].Email

	// Act
	err := suite.db.Create(&dupe)

	// Assert
	suite.Require().ErrorIs(err, traillog.ErrExists)
}

func (suite *DBTestSuite) TestFirstMissingRow() {
	// Act
	var user traillog.User
	err := suite.db.Where("id = ?", 999).First(&user)

	// Assert
	suite.Require().ErrorIs(err, traillog.ErrNotFound)
}

func (suite *DBTestSuite) TestUpdateMissingRow() {
	// Act
	err := suite.db.
		Model(&traillog.TrailEntry{}).
		Where("id = ?", 999).
		Update(postgres.Updates{"trailname": "Renamed"})

	// Assert
	suite.Require().ErrorIs(err, traillog.ErrNotFound)
}
