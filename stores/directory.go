package stores

import (
	"gorm.io/gorm"

	"github.com/yeremiapane/teamtask-app/models"
)

// UserDirectory menyediakan lookup user untuk render nama dan resolusi
// penerima broadcast. User CRUD sendiri dikelola di luar core ini.
type UserDirectory interface {
	DisplayName(id uint) (string, error)
	ListAllIDs() ([]uint, error)
	ListExistingIDs(ids []uint) ([]uint, error)
	ListAdminIDs() ([]uint, error)
}

// TeamDirectory menyediakan lookup keanggotaan team.
type TeamDirectory interface {
	IsMember(teamID, userID uint) (bool, error)
	TeamsOf(userID uint) ([]uint, error)
	MembersOf(teamID uint) ([]uint, error)
	MembersOfTeams(teamIDs []uint) ([]uint, error)
	TeamName(teamID uint) (string, error)
}

type GormUserDirectory struct {
	db *gorm.DB
}

func NewUserDirectory(db *gorm.DB) *GormUserDirectory {
	return &GormUserDirectory{db: db}
}

func (d *GormUserDirectory) DisplayName(id uint) (string, error) {
	var user models.User
	if err := d.db.First(&user, id).Error; err != nil {
		return "", err
	}
	return user.DisplayName(), nil
}

func (d *GormUserDirectory) ListAllIDs() ([]uint, error) {
	var ids []uint
	err := d.db.Model(&models.User{}).Pluck("id", &ids).Error
	return ids, err
}

func (d *GormUserDirectory) ListExistingIDs(ids []uint) ([]uint, error) {
	var out []uint
	err := d.db.Model(&models.User{}).Where("id IN ?", ids).Pluck("id", &out).Error
	return out, err
}

func (d *GormUserDirectory) ListAdminIDs() ([]uint, error) {
	var ids []uint
	err := d.db.Model(&models.User{}).Where("role = ?", "admin").Pluck("id", &ids).Error
	return ids, err
}

type GormTeamDirectory struct {
	db *gorm.DB
}

func NewTeamDirectory(db *gorm.DB) *GormTeamDirectory {
	return &GormTeamDirectory{db: db}
}

func (d *GormTeamDirectory) IsMember(teamID, userID uint) (bool, error) {
	var count int64
	err := d.db.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	return count > 0, err
}

func (d *GormTeamDirectory) TeamsOf(userID uint) ([]uint, error) {
	var ids []uint
	err := d.db.Model(&models.TeamMember{}).
		Where("user_id = ?", userID).
		Pluck("team_id", &ids).Error
	return ids, err
}

func (d *GormTeamDirectory) MembersOf(teamID uint) ([]uint, error) {
	var ids []uint
	err := d.db.Model(&models.TeamMember{}).
		Where("team_id = ?", teamID).
		Pluck("user_id", &ids).Error
	return ids, err
}

// MembersOfTeams mengembalikan union member dari beberapa team, tanpa duplikat.
func (d *GormTeamDirectory) MembersOfTeams(teamIDs []uint) ([]uint, error) {
	var ids []uint
	err := d.db.Model(&models.TeamMember{}).
		Where("team_id IN ?", teamIDs).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (d *GormTeamDirectory) TeamName(teamID uint) (string, error) {
	var team models.Team
	if err := d.db.First(&team, teamID).Error; err != nil {
		return "", err
	}
	return team.Name, nil
}
