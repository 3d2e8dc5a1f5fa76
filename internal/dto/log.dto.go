package dto

import (
	"time"

	"github.com/BruksfildServices01/mood-journal/internal/models"
)

type LogDTO struct {
	ID         uint      `json:"id"`
	User       *uint     `json:"user"`
	Mood       int       `json:"mood"`
	SleepHours float64   `json:"sleep_hours"`
	Music      string    `json:"music"`
	Social     int       `json:"social"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewLogDTO renders l with created_at shown in loc.
func NewLogDTO(l *models.Log, loc *time.Location) LogDTO {
	return LogDTO{
		ID:         l.ID,
		User:       l.UserID,
		Mood:       l.Mood,
		SleepHours: l.SleepHours,
		Music:      l.Music,
		Social:     l.Social,
		CreatedAt:  l.CreatedAt.In(loc),
	}
}

func NewLogDTOs(logs []models.Log, loc *time.Location) []LogDTO {
	out := make([]LogDTO, 0, len(logs))
	for i := range logs {
		out = append(out, NewLogDTO(&logs[i], loc))
	}
	return out
}

type UserDTO struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserDTO(u *models.User, loc *time.Location) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.In(loc),
	}
}
