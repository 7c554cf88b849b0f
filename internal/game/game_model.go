package game

import "gorm.io/gorm"

// Game is a canonical esports title players compete in and events recruit
// for. The table is seeded at startup and treated as read-only afterwards.
type Game struct {
	gorm.Model
	Name      string `gorm:"uniqueIndex;not null" json:"name"`
	ShortName string `gorm:"not null" json:"short_name"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
}

// Seed inserts the supported titles if they are not present yet.
func Seed(db *gorm.DB) error {
	games := []Game{
		{Name: "VALORANT", ShortName: "VAL", Icon: "/games/valorant.png", Color: "#FF4654"},
		{Name: "Overwatch 2", ShortName: "OW2", Icon: "/games/overwatch.png", Color: "#F99E1A"},
		{Name: "Rocket League", ShortName: "RL", Icon: "/games/rocketleague.png", Color: "#0082FA"},
		{Name: "Super Smash Bros. Ultimate", ShortName: "SSBU", Icon: "/games/smash.png", Color: "#E52521"},
	}
	for _, g := range games {
		if err := db.Where(Game{Name: g.Name}).FirstOrCreate(&g).Error; err != nil {
			return err
		}
	}
	return nil
}
