package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/teamtask-app/events"
	"github.com/yeremiapane/teamtask-app/models"
	"github.com/yeremiapane/teamtask-app/realtime"
	"github.com/yeremiapane/teamtask-app/stores"
	"github.com/yeremiapane/teamtask-app/utils"
)

// Pusher adalah sisi fire-and-forget dari notifikasi. Dipisah dari persist
// supaya urutannya eksplisit: persist dulu, baru coba push. Push yang gagal
// atau tanpa session tidak pernah menghilangkan record durable-nya.
type Pusher interface {
	PushToUser(userID uint, ev realtime.Event) int
}

// Broadcast target types
const (
	TargetAll    = "all"
	TargetUsers  = "users"
	TargetTeams  = "teams"
	TargetAdmins = "admins"
)

// MessageService membangun dan mempersist satu Message per domain event,
// dengan default priority/kind dari EventCatalog. Gagal resolve nama user
// tidak menggagalkan dispatch (pakai fallback + log); gagal persist
// dipropagasi ke caller.
type MessageService struct {
	db      *gorm.DB
	catalog *events.Catalog
	users   stores.UserDirectory
	teams   stores.TeamDirectory
	pusher  Pusher
}

func NewMessageService(db *gorm.DB, catalog *events.Catalog, users stores.UserDirectory, teams stores.TeamDirectory, pusher Pusher) *MessageService {
	return &MessageService{db: db, catalog: catalog, users: users, teams: teams, pusher: pusher}
}

type dispatchOptions struct {
	actorID  *uint
	title    string
	metadata models.MessageMetadata
	priority string
	kind     string
}

func (s *MessageService) createMessage(teamID uint, eventType events.Type, content string, opts dispatchOptions) (*models.Message, error) {
	defaults, ok := s.catalog.Lookup(eventType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown event type %q", ErrValidation, eventType)
	}

	priority := opts.priority
	if priority == "" {
		priority = defaults.Priority
	}
	kind := opts.kind
	if kind == "" {
		kind = defaults.MessageKind
	}

	msg := &models.Message{
		TeamID:      teamID,
		ActorUserID: opts.actorID,
		EventType:   string(eventType),
		Title:       opts.title,
		Content:     content,
		Metadata:    opts.metadata,
		Priority:    priority,
		MessageKind: kind,
	}
	if err := s.db.Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// displayName degrades ke label fallback kalau lookup gagal; dispatch tetap jalan.
func (s *MessageService) displayName(id uint) string {
	name, err := s.users.DisplayName(id)
	if err != nil {
		utils.ErrorLogger.Printf("Failed to resolve user %d for notification: %v", id, err)
		return "unknown user"
	}
	return name
}

func (s *MessageService) teamLabel(id uint) string {
	name, err := s.teams.TeamName(id)
	if err != nil {
		utils.ErrorLogger.Printf("Failed to resolve team %d for notification: %v", id, err)
		return "unknown team"
	}
	return name
}

func (s *MessageService) push(userID uint, ev realtime.Event) {
	if s.pusher == nil {
		return
	}
	s.pusher.PushToUser(userID, ev)
}

// NotifyMemberJoin -> satu message team-scoped saat member baru bergabung.
func (s *MessageService) NotifyMemberJoin(teamID, newMemberID, operatorID uint) (*models.Message, error) {
	content := fmt.Sprintf("New member %s joined team %q", s.displayName(newMemberID), s.teamLabel(teamID))
	return s.createMessage(teamID, events.MemberJoin, content, dispatchOptions{
		actorID: &operatorID,
		metadata: models.MessageMetadata{
			TargetUserID: &newMemberID,
			OperatorID:   &operatorID,
		},
	})
}

// NotifyMemberLeave -> member keluar sendiri atau dikeluarkan (removed).
func (s *MessageService) NotifyMemberLeave(teamID, memberID, operatorID uint, removed bool) (*models.Message, error) {
	eventType := events.MemberLeave
	content := fmt.Sprintf("Member %s left team %q", s.displayName(memberID), s.teamLabel(teamID))
	if removed {
		eventType = events.MemberRemoved
		content = fmt.Sprintf("Member %s was removed from team %q by %s",
			s.displayName(memberID), s.teamLabel(teamID), s.displayName(operatorID))
	}
	return s.createMessage(teamID, eventType, content, dispatchOptions{
		actorID: &operatorID,
		metadata: models.MessageMetadata{
			TargetUserID: &memberID,
			OperatorID:   &operatorID,
		},
	})
}

// NotifyRoleChange memilih event type promoted/demoted berdasarkan arah
// perubahan role, selain itu role_change biasa.
func (s *MessageService) NotifyRoleChange(teamID, targetUserID uint, oldRole, newRole string, operatorID uint) (*models.Message, error) {
	content := fmt.Sprintf("%s's role changed from %s to %s", s.displayName(targetUserID), oldRole, newRole)

	eventType := events.RoleChange
	if (oldRole == models.RoleMember && newRole == models.RoleManager) ||
		(oldRole == models.RoleManager && newRole == models.RoleCreator) {
		eventType = events.RolePromoted
	} else if (oldRole == models.RoleManager && newRole == models.RoleMember) ||
		(oldRole == models.RoleCreator && newRole == models.RoleManager) {
		eventType = events.RoleDemoted
	}

	return s.createMessage(teamID, eventType, content, dispatchOptions{
		actorID: &operatorID,
		metadata: models.MessageMetadata{
			TargetUserID: &targetUserID,
			OldRole:      oldRole,
			NewRole:      newRole,
			OperatorID:   &operatorID,
		},
	})
}

// NotifyPermissionChange -> permission diberikan atau dicabut.
func (s *MessageService) NotifyPermissionChange(teamID, targetUserID uint, permission string, granted bool, operatorID uint) (*models.Message, error) {
	eventType := events.PermissionGranted
	verb := "granted"
	if !granted {
		eventType = events.PermissionRevoked
		verb = "revoked"
	}
	content := fmt.Sprintf("Permission %q was %s for %s", permission, verb, s.displayName(targetUserID))

	return s.createMessage(teamID, eventType, content, dispatchOptions{
		actorID: &operatorID,
		metadata: models.MessageMetadata{
			TargetUserID: &targetUserID,
			Permission:   permission,
			OperatorID:   &operatorID,
		},
	})
}

// NotifyTeamCreation dipanggil setelah team dibuat.
func (s *MessageService) NotifyTeamCreation(teamID uint, teamName string, creatorID uint) (*models.Message, error) {
	content := fmt.Sprintf("Team %q was created", teamName)
	return s.createMessage(teamID, events.TeamCreated, content, dispatchOptions{
		actorID:  &creatorID,
		metadata: models.MessageMetadata{OperatorID: &creatorID},
	})
}

// NotifyTeamUpdated dipanggil setelah info team diubah.
func (s *MessageService) NotifyTeamUpdated(teamID, operatorID uint) (*models.Message, error) {
	content := fmt.Sprintf("Team %q was updated by %s", s.teamLabel(teamID), s.displayName(operatorID))
	return s.createMessage(teamID, events.TeamUpdated, content, dispatchOptions{
		actorID:  &operatorID,
		metadata: models.MessageMetadata{OperatorID: &operatorID},
	})
}

// NotifyTeamDeletion membuat satu message per member team yang dihapus.
// Kegagalan persist diisolasi per message dan dikumpulkan.
func (s *MessageService) NotifyTeamDeletion(teamID uint, teamName string, operatorID uint, memberIDs []uint) error {
	content := fmt.Sprintf("Team %q was deleted by %s", teamName, s.displayName(operatorID))

	var errs []error
	for range memberIDs {
		_, err := s.createMessage(teamID, events.TeamDeleted, content, dispatchOptions{
			actorID: &operatorID,
			metadata: models.MessageMetadata{
				OperatorID: &operatorID,
				TeamName:   teamName,
			},
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NotifyTaskAssignment mempersist message lalu push ke assignee.
func (s *MessageService) NotifyTaskAssignment(teamID, taskID uint, taskTitle string, assigneeID, operatorID uint) (*models.Message, error) {
	content := fmt.Sprintf("Task %q was assigned to %s", taskTitle, s.displayName(assigneeID))

	msg, err := s.createMessage(teamID, events.TaskAssigned, content, dispatchOptions{
		actorID: &operatorID,
		metadata: models.MessageMetadata{
			TargetUserID: &assigneeID,
			TaskID:       &taskID,
			OperatorID:   &operatorID,
		},
	})
	if err != nil {
		return nil, err
	}

	s.push(assigneeID, realtime.Event{
		Type:    string(events.TaskAssigned),
		Message: content,
		TaskID:  &taskID,
		TeamID:  &teamID,
	})
	return msg, nil
}

// NotifyTaskCompleted -> task selesai.
func (s *MessageService) NotifyTaskCompleted(teamID, taskID uint, taskTitle string, operatorID uint) (*models.Message, error) {
	content := fmt.Sprintf("Task %q was completed by %s", taskTitle, s.displayName(operatorID))
	return s.createMessage(teamID, events.TaskCompleted, content, dispatchOptions{
		actorID: &operatorID,
		metadata: models.MessageMetadata{
			TaskID:     &taskID,
			OperatorID: &operatorID,
		},
	})
}

// NotifyTaskOverdue -> task lewat tenggat, push ke assignee.
func (s *MessageService) NotifyTaskOverdue(teamID, taskID uint, taskTitle string, assigneeID uint) (*models.Message, error) {
	content := fmt.Sprintf("Task %q is overdue", taskTitle)

	msg, err := s.createMessage(teamID, events.TaskOverdue, content, dispatchOptions{
		metadata: models.MessageMetadata{
			TargetUserID: &assigneeID,
			TaskID:       &taskID,
		},
	})
	if err != nil {
		return nil, err
	}

	s.push(assigneeID, realtime.Event{
		Type:    string(events.TaskOverdue),
		Message: content,
		TaskID:  &taskID,
		TeamID:  &teamID,
	})
	return msg, nil
}

// NotifyMention mempersist lalu push transient ke user yang di-mention.
func (s *MessageService) NotifyMention(teamID, taskID uint, taskTitle string, mentionedUserID, mentionerUserID uint) (*models.Message, error) {
	content := fmt.Sprintf("You were mentioned in task %q", taskTitle)

	msg, err := s.createMessage(teamID, events.Mention, content, dispatchOptions{
		actorID: &mentionerUserID,
		metadata: models.MessageMetadata{
			TargetUserID: &mentionedUserID,
			TaskID:       &taskID,
			OperatorID:   &mentionerUserID,
		},
	})
	if err != nil {
		return nil, err
	}

	s.push(mentionedUserID, realtime.Event{
		Type:    string(events.Mention),
		Message: content,
		TaskID:  &taskID,
		TeamID:  &teamID,
	})
	return msg, nil
}

// NotifySecurityAlert -> warning keamanan, system-generated (actor opsional).
func (s *MessageService) NotifySecurityAlert(teamID uint, alertType, description string, userID *uint) (*models.Message, error) {
	content := fmt.Sprintf("Security alert: %s", description)
	return s.createMessage(teamID, events.SecurityAlert, content, dispatchOptions{
		actorID: userID,
		metadata: models.MessageMetadata{
			AlertType:    alertType,
			TargetUserID: userID,
		},
	})
}

// CreateAuditLog mencatat operasi sensitif sebagai message low-priority.
func (s *MessageService) CreateAuditLog(teamID uint, action, description string, operatorID uint) (*models.Message, error) {
	content := fmt.Sprintf("Audit log: %s performed %s - %s", s.displayName(operatorID), action, description)
	return s.createMessage(teamID, events.AuditLog, content, dispatchOptions{
		actorID: &operatorID,
		metadata: models.MessageMetadata{
			Action:     action,
			OperatorID: &operatorID,
		},
	})
}

// BroadcastInput adalah request broadcast dari admin.
type BroadcastInput struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	TargetType string `json:"target_type"`
	TargetIDs  []uint `json:"target_ids"`
}

// Broadcast me-resolve himpunan penerima, de-dup, lalu membuat SATU message
// per penerima dengan metadata.targetUserId, disusul push per penerima.
// Message broadcast tidak dimiliki team mana pun (team_id 0), jadi tidak
// pernah muncul di feed atau unread count per team.
func (s *MessageService) Broadcast(senderID uint, in BroadcastInput) (int, error) {
	if in.Title == "" || in.Content == "" {
		return 0, fmt.Errorf("%w: title and content are required", ErrValidation)
	}

	var (
		recipients []uint
		err        error
	)
	switch in.TargetType {
	case TargetAll:
		recipients, err = s.users.ListAllIDs()
	case TargetUsers:
		if len(in.TargetIDs) == 0 {
			return 0, fmt.Errorf("%w: target user IDs are required", ErrValidation)
		}
		recipients, err = s.users.ListExistingIDs(in.TargetIDs)
	case TargetTeams:
		if len(in.TargetIDs) == 0 {
			return 0, fmt.Errorf("%w: target team IDs are required", ErrValidation)
		}
		recipients, err = s.teams.MembersOfTeams(in.TargetIDs)
	case TargetAdmins:
		recipients, err = s.users.ListAdminIDs()
	default:
		return 0, fmt.Errorf("%w: invalid target type %q", ErrValidation, in.TargetType)
	}
	if err != nil {
		return 0, err
	}

	recipients = dedupeIDs(recipients)
	if len(recipients) == 0 {
		return 0, fmt.Errorf("%w: no recipients found", ErrValidation)
	}

	created := make([]uint, 0, len(recipients))
	var errs []error
	for _, recipient := range recipients {
		recipient := recipient
		_, err := s.createMessage(0, events.SystemBroadcast, in.Content, dispatchOptions{
			actorID: &senderID,
			title:   in.Title,
			metadata: models.MessageMetadata{
				TargetUserID:  &recipient,
				OperatorID:    &senderID,
				BroadcastType: in.TargetType,
			},
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		created = append(created, recipient)
	}

	// Push hanya ke penerima yang message-nya berhasil dipersist
	now := time.Now()
	for _, recipient := range created {
		s.push(recipient, realtime.Event{
			Type:      string(events.SystemBroadcast),
			Title:     in.Title,
			Message:   in.Content,
			Timestamp: &now,
		})
	}

	return len(created), errors.Join(errs...)
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
