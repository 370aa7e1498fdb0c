package models

import "time"

type Team struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	ShortName string    `json:"shortName"`
	Founded   int       `json:"founded"`
	Stadium   string    `json:"stadium"`
	CreatedAt time.Time `json:"createdAt"`

	CrestKey *string `json:"-"`
	CrestURL *string `json:"crestUrl,omitempty"`
}
