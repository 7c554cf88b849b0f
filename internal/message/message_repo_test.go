package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nextup-gg/nextup/internal/coach"
	"github.com/nextup-gg/nextup/internal/player"
	"github.com/nextup-gg/nextup/internal/school"
	"github.com/nextup-gg/nextup/internal/user"
)

type messageFixtures struct {
	coach  coach.Coach
	player player.Player
}

func newMessageTestDB(t *testing.T) (*gorm.DB, messageFixtures) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&user.User{}, &school.School{},
		&coach.Coach{}, &player.Player{},
		&Conversation{}, &Message{},
	))

	sch := school.School{Name: "Lakeside Prep", Type: school.SchoolTypeHighSchool, State: "WA"}
	require.NoError(t, db.Create(&sch).Error)

	coachUser := user.User{Email: "coach@lakeside.edu", Username: "lp_coach", Password: "x", FirstName: "Sam", LastName: "Ortega"}
	require.NoError(t, db.Create(&coachUser).Error)
	f := messageFixtures{}
	f.coach = coach.Coach{UserID: coachUser.ID, SchoolID: sch.ID}
	require.NoError(t, db.Create(&f.coach).Error)

	playerUser := user.User{Email: "recruit@example.com", Username: "recruit", Password: "x", FirstName: "Riley", LastName: "Chen"}
	require.NoError(t, db.Create(&playerUser).Error)
	f.player = player.Player{UserID: playerUser.ID, Gamertag: "rc_main"}
	require.NoError(t, db.Create(&f.player).Error)

	return db, f
}

func TestStartConversation_CreatesOnceAndReuses(t *testing.T) {
	db, f := newMessageTestDB(t)
	repo := NewMessageRepository(db)

	conv, msg, err := repo.StartConversationAsCoach(f.coach.ID, f.player.ID, "Saw your tryout, impressive aim.")
	require.NoError(t, err)
	assert.Equal(t, SenderCoach, msg.SenderType)
	require.NotNil(t, conv.LastMessageAt)

	// A second message from either side lands in the same conversation.
	conv2, msg2, err := repo.StartConversationAsPlayer(f.player.ID, f.coach.ID, "Thanks coach!")
	require.NoError(t, err)
	assert.Equal(t, conv.ID, conv2.ID)
	assert.Equal(t, SenderPlayer, msg2.SenderType)

	var count int64
	require.NoError(t, db.Model(&Conversation{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestStartConversation_UnknownTarget(t *testing.T) {
	db, f := newMessageTestDB(t)
	repo := NewMessageRepository(db)

	_, _, err := repo.StartConversationAsCoach(f.coach.ID, 9999, "hello?")
	require.ErrorIs(t, err, ErrPlayerNotFound)

	_, _, err = repo.StartConversationAsPlayer(f.player.ID, 9999, "hello?")
	require.ErrorIs(t, err, ErrCoachNotFound)
}

func TestGetThread_MarksOtherSideRead(t *testing.T) {
	db, f := newMessageTestDB(t)
	repo := NewMessageRepository(db)

	conv, _, err := repo.StartConversationAsCoach(f.coach.ID, f.player.ID, "First")
	require.NoError(t, err)
	_, err = repo.SendMessage(SenderCoach, f.coach.ID, conv.ID, "Second")
	require.NoError(t, err)

	summaries, err := repo.ListConversations(SenderPlayer, f.player.ID, nil)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.EqualValues(t, 2, summaries[0].UnreadCount)
	assert.Equal(t, "Second", summaries[0].LastMessagePreview)

	_, msgs, err := repo.GetThread(SenderPlayer, f.player.ID, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	summaries, err = repo.ListConversations(SenderPlayer, f.player.ID, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, summaries[0].UnreadCount)

	// Reading as the player must not mark the player's own unread flags for
	// the coach side.
	_, err = repo.SendMessage(SenderPlayer, f.player.ID, conv.ID, "Reply")
	require.NoError(t, err)
	coachView, err := repo.ListConversations(SenderCoach, f.coach.ID, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, coachView[0].UnreadCount)
}

func TestThreadAccess_ParticipantsOnly(t *testing.T) {
	db, f := newMessageTestDB(t)
	repo := NewMessageRepository(db)

	conv, _, err := repo.StartConversationAsCoach(f.coach.ID, f.player.ID, "private")
	require.NoError(t, err)

	otherUser := user.User{Email: "other@example.com", Username: "other", Password: "x"}
	require.NoError(t, db.Create(&otherUser).Error)
	intruder := player.Player{UserID: otherUser.ID, Gamertag: "intruder"}
	require.NoError(t, db.Create(&intruder).Error)

	_, _, err = repo.GetThread(SenderPlayer, intruder.ID, conv.ID)
	require.ErrorIs(t, err, ErrNotParticipant)

	_, err = repo.SendMessage(SenderPlayer, intruder.ID, conv.ID, "let me in")
	require.ErrorIs(t, err, ErrNotParticipant)

	_, _, err = repo.GetThread(SenderCoach, f.coach.ID, 9999)
	require.ErrorIs(t, err, ErrConversationNotFound)
}

func TestListConversations_Filters(t *testing.T) {
	db, f := newMessageTestDB(t)
	repo := NewMessageRepository(db)

	conv, _, err := repo.StartConversationAsCoach(f.coach.ID, f.player.ID, "hey")
	require.NoError(t, err)

	secondUser := user.User{Email: "second@example.com", Username: "second", Password: "x", FirstName: "Alex", LastName: "Kim"}
	require.NoError(t, db.Create(&secondUser).Error)
	second := player.Player{UserID: secondUser.ID, Gamertag: "ak47zero"}
	require.NoError(t, db.Create(&second).Error)
	conv2, _, err := repo.StartConversationAsCoach(f.coach.ID, second.ID, "hello")
	require.NoError(t, err)

	require.NoError(t, repo.SetStarred(SenderCoach, f.coach.ID, conv.ID, true))

	starred, err := repo.ListConversations(SenderCoach, f.coach.ID, map[string]interface{}{"starred_only": true})
	require.NoError(t, err)
	require.Len(t, starred, 1)
	assert.Equal(t, conv.ID, starred[0].ID)

	// Nothing from the players yet, so coach-side unread filter is empty.
	unread, err := repo.ListConversations(SenderCoach, f.coach.ID, map[string]interface{}{"unread_only": true})
	require.NoError(t, err)
	assert.Empty(t, unread)

	_, err = repo.SendMessage(SenderPlayer, second.ID, conv2.ID, "sup coach")
	require.NoError(t, err)
	unread, err = repo.ListConversations(SenderCoach, f.coach.ID, map[string]interface{}{"unread_only": true})
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, conv2.ID, unread[0].ID)

	byTag, err := repo.ListConversations(SenderCoach, f.coach.ID, map[string]interface{}{"search": "ak47"})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, conv2.ID, byTag[0].ID)
}

func TestMarkRead_AndStarIsPerSide(t *testing.T) {
	db, f := newMessageTestDB(t)
	repo := NewMessageRepository(db)

	conv, _, err := repo.StartConversationAsCoach(f.coach.ID, f.player.ID, "checking in")
	require.NoError(t, err)

	require.NoError(t, repo.MarkRead(SenderPlayer, f.player.ID, conv.ID))
	summaries, err := repo.ListConversations(SenderPlayer, f.player.ID, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, summaries[0].UnreadCount)

	require.NoError(t, repo.SetStarred(SenderPlayer, f.player.ID, conv.ID, true))
	var got Conversation
	require.NoError(t, db.First(&got, conv.ID).Error)
	assert.True(t, got.StarredByPlayer)
	assert.False(t, got.StarredByCoach)
}
