package progress

import (
	"math"
	"time"
)

// Badge is an unlockable achievement.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	UnlockedAt  string `json:"unlockedAt,omitempty"`
}

// Progress tracks a user's learning state across sessions.
type Progress struct {
	UserID              string   `json:"userId"`
	Level               int      `json:"level"`
	XP                  int      `json:"xp"`
	XPToNextLevel       int      `json:"xpToNextLevel"`
	Streak              int      `json:"streak"`
	ChallengesCompleted int      `json:"challengesCompleted"`
	Accuracy            float64  `json:"accuracy"` // percent of challenges called well
	Badges              []Badge  `json:"badges"`
	Specialties         []string `json:"specialties"`
}

// Default is the state for a new or guest user.
func Default(userID string) Progress {
	return Progress{
		UserID:        userID,
		Level:         1,
		XP:            0,
		XPToNextLevel: 1000,
		Badges:        []Badge{},
		Specialties:   []string{},
	}
}

// AddXP credits experience, rolling over into levels. XP requirements grow
// by 500 per level.
func (p *Progress) AddXP(amount int) {
	if amount <= 0 || p.XPToNextLevel <= 0 {
		return
	}

	newXP := p.XP + amount
	p.Level += newXP / p.XPToNextLevel
	p.XP = newXP % p.XPToNextLevel
	p.XPToNextLevel = 1000 + (p.Level-1)*500
}

// IncrementStreak extends the current prediction streak.
func (p *Progress) IncrementStreak() {
	p.Streak++
}

// ResetStreak clears the streak after a miss.
func (p *Progress) ResetStreak() {
	p.Streak = 0
}

// AddBadge unlocks a badge once; re-adding an unlocked badge is a no-op.
func (p *Progress) AddBadge(b Badge) {
	for _, existing := range p.Badges {
		if existing.ID == b.ID {
			return
		}
	}
	b.UnlockedAt = time.Now().UTC().Format(time.RFC3339)
	p.Badges = append(p.Badges, b)
}

// RecordChallenge folds one completed challenge into the running accuracy.
func (p *Progress) RecordChallenge(calledWell bool) {
	correctSoFar := math.Round(p.Accuracy / 100 * float64(p.ChallengesCompleted))
	p.ChallengesCompleted++
	if calledWell {
		correctSoFar++
	}
	p.Accuracy = math.Round(correctSoFar/float64(p.ChallengesCompleted)*1000) / 10
}
