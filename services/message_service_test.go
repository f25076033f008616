package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/teamtask-app/events"
	"github.com/yeremiapane/teamtask-app/models"
	"github.com/yeremiapane/teamtask-app/realtime"
	"github.com/yeremiapane/teamtask-app/services"
	"github.com/yeremiapane/teamtask-app/stores"
	"github.com/yeremiapane/teamtask-app/utils"
)

// fakePusher merekam push tanpa websocket sungguhan.
type fakePusher struct {
	pushed []pushedEvent
}

type pushedEvent struct {
	userID uint
	event  realtime.Event
}

func (f *fakePusher) PushToUser(userID uint, ev realtime.Event) int {
	f.pushed = append(f.pushed, pushedEvent{userID: userID, event: ev})
	return 1
}

func setupMessageDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(&models.User{}, &models.Team{}, &models.TeamMember{}, &models.Message{})
	if err != nil {
		panic(err)
	}
	return db
}

func newMessageService(t *testing.T) (*services.MessageService, *gorm.DB, *fakePusher) {
	utils.InitLogger()
	db := setupMessageDB(t)
	pusher := &fakePusher{}
	svc := services.NewMessageService(db, events.NewCatalog(),
		stores.NewUserDirectory(db), stores.NewTeamDirectory(db), pusher)
	return svc, db, pusher
}

func seedUser(db *gorm.DB, name, email, role string) models.User {
	user := models.User{Name: name, Email: email, Role: role}
	db.Create(&user)
	return user
}

func seedTeam(db *gorm.DB, name, code string, memberIDs ...uint) models.Team {
	team := models.Team{Name: name, TeamID: code, OwnerID: 1}
	db.Create(&team)
	for _, id := range memberIDs {
		db.Create(&models.TeamMember{TeamID: team.ID, UserID: id, Role: models.RoleMember})
	}
	return team
}

func TestNotifyMemberJoinPersistsTeamScoped(t *testing.T) {
	svc, db, _ := newMessageService(t)
	alice := seedUser(db, "Alice", "alice@example.com", "user")
	operator := seedUser(db, "Boss", "boss@example.com", "user")
	team := seedTeam(db, "Platform", "T-001", alice.ID, operator.ID)

	msg, err := svc.NotifyMemberJoin(team.ID, alice.ID, operator.ID)
	assert.NoError(t, err)
	assert.Equal(t, team.ID, msg.TeamID)
	assert.Equal(t, "member_join", msg.EventType)
	assert.Equal(t, models.PriorityMedium, msg.Priority)
	assert.Equal(t, models.KindSuccess, msg.MessageKind)
	assert.Contains(t, msg.Content, "Alice")
	assert.Contains(t, msg.Content, "Platform")
	assert.Equal(t, alice.ID, *msg.Metadata.TargetUserID)
	assert.False(t, msg.IsRead)

	var count int64
	db.Model(&models.Message{}).Where("team_id = ?", team.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestNotifyDegradesOnMissingUser(t *testing.T) {
	svc, db, _ := newMessageService(t)
	team := seedTeam(db, "Ghost Team", "T-002")

	// User 999 tidak ada; dispatch tetap jalan dengan label fallback
	msg, err := svc.NotifyMemberJoin(team.ID, 999, 998)
	assert.NoError(t, err)
	assert.Contains(t, msg.Content, "unknown user")
}

func TestNotifyRoleChangeDirection(t *testing.T) {
	svc, db, _ := newMessageService(t)
	bob := seedUser(db, "Bob", "bob@example.com", "user")
	team := seedTeam(db, "Core", "T-003", bob.ID)

	promoted, err := svc.NotifyRoleChange(team.ID, bob.ID, models.RoleMember, models.RoleManager, 1)
	assert.NoError(t, err)
	assert.Equal(t, "role_promoted", promoted.EventType)
	assert.Equal(t, models.KindSuccess, promoted.MessageKind)

	demoted, err := svc.NotifyRoleChange(team.ID, bob.ID, models.RoleManager, models.RoleMember, 1)
	assert.NoError(t, err)
	assert.Equal(t, "role_demoted", demoted.EventType)
	assert.Equal(t, models.KindWarning, demoted.MessageKind)

	// Lateral change tanpa arah yang dikenal -> role_change biasa
	plain, err := svc.NotifyRoleChange(team.ID, bob.ID, models.RoleMember, models.RoleCreator, 1)
	assert.NoError(t, err)
	assert.Equal(t, "role_change", plain.EventType)
	assert.Equal(t, models.RoleMember, plain.Metadata.OldRole)
	assert.Equal(t, models.RoleCreator, plain.Metadata.NewRole)
}

func TestNotifyTaskAssignmentPersistsThenPushes(t *testing.T) {
	svc, db, pusher := newMessageService(t)
	dev := seedUser(db, "Dev", "dev@example.com", "user")
	team := seedTeam(db, "Delivery", "T-004", dev.ID)

	msg, err := svc.NotifyTaskAssignment(team.ID, 77, "Ship it", dev.ID, 1)
	assert.NoError(t, err)
	assert.Equal(t, "task_assigned", msg.EventType)
	assert.Equal(t, uint(77), *msg.Metadata.TaskID)

	assert.Len(t, pusher.pushed, 1)
	assert.Equal(t, dev.ID, pusher.pushed[0].userID)
	assert.Equal(t, "task_assigned", pusher.pushed[0].event.Type)
	assert.Equal(t, uint(77), *pusher.pushed[0].event.TaskID)
	assert.Equal(t, team.ID, *pusher.pushed[0].event.TeamID)
}

func TestNotifyTeamDeletionOnePerMember(t *testing.T) {
	svc, db, _ := newMessageService(t)
	a := seedUser(db, "A", "a@example.com", "user")
	b := seedUser(db, "B", "b@example.com", "user")
	c := seedUser(db, "C", "c@example.com", "user")
	team := seedTeam(db, "Doomed", "T-005", a.ID, b.ID, c.ID)

	err := svc.NotifyTeamDeletion(team.ID, "Doomed", a.ID, []uint{a.ID, b.ID, c.ID})
	assert.NoError(t, err)

	var count int64
	db.Model(&models.Message{}).
		Where("team_id = ? AND event_type = ?", team.ID, "team_deleted").
		Count(&count)
	assert.Equal(t, int64(3), count)
}

func TestBroadcastToTeamsDedupsSharedMember(t *testing.T) {
	svc, db, pusher := newMessageService(t)
	a := seedUser(db, "A", "a@example.com", "user")
	b := seedUser(db, "B", "b@example.com", "user")
	c := seedUser(db, "C", "c@example.com", "user")
	// B ada di dua team: cuma dapat satu message
	t1 := seedTeam(db, "One", "T-006", a.ID, b.ID)
	t2 := seedTeam(db, "Two", "T-007", b.ID, c.ID)

	count, err := svc.Broadcast(1, services.BroadcastInput{
		Title:      "Maintenance",
		Content:    "Downtime tonight",
		TargetType: services.TargetTeams,
		TargetIDs:  []uint{t1.ID, t2.ID},
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, count)

	var messages []models.Message
	db.Where("event_type = ?", "system_broadcast").Find(&messages)
	assert.Len(t, messages, 3)

	seen := map[uint]bool{}
	for _, msg := range messages {
		// Broadcast tidak dimiliki team mana pun
		assert.Equal(t, uint(0), msg.TeamID)
		assert.Equal(t, "Maintenance", msg.Title)
		assert.NotNil(t, msg.Metadata.TargetUserID)
		seen[*msg.Metadata.TargetUserID] = true
	}
	assert.Len(t, seen, 3)

	// Push per penerima, setelah persist
	assert.Len(t, pusher.pushed, 3)
}

func TestBroadcastToUsersSkipsMissing(t *testing.T) {
	svc, db, _ := newMessageService(t)
	a := seedUser(db, "A", "a@example.com", "user")

	count, err := svc.Broadcast(1, services.BroadcastInput{
		Title:      "Hello",
		Content:    "World",
		TargetType: services.TargetUsers,
		TargetIDs:  []uint{a.ID, 999},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBroadcastToAdmins(t *testing.T) {
	svc, db, _ := newMessageService(t)
	seedUser(db, "Admin", "admin@example.com", "admin")
	seedUser(db, "Plain", "plain@example.com", "user")

	count, err := svc.Broadcast(1, services.BroadcastInput{
		Title:      "Ops",
		Content:    "Admins only",
		TargetType: services.TargetAdmins,
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBroadcastValidation(t *testing.T) {
	svc, db, _ := newMessageService(t)
	seedUser(db, "A", "a@example.com", "user")

	_, err := svc.Broadcast(1, services.BroadcastInput{
		Content:    "no title",
		TargetType: services.TargetAll,
	})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.Broadcast(1, services.BroadcastInput{
		Title:      "t",
		Content:    "c",
		TargetType: "everyone",
	})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.Broadcast(1, services.BroadcastInput{
		Title:      "t",
		Content:    "c",
		TargetType: services.TargetUsers,
	})
	assert.ErrorIs(t, err, services.ErrValidation)

	// Target users yang semuanya tidak ada -> tidak ada penerima
	_, err = svc.Broadcast(1, services.BroadcastInput{
		Title:      "t",
		Content:    "c",
		TargetType: services.TargetUsers,
		TargetIDs:  []uint{777},
	})
	assert.ErrorIs(t, err, services.ErrValidation)
}
