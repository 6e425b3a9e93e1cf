package meter

import "github.com/vovakirdan/live-arcade/internal/event"

// Counters are the live engagement totals shown to the host.
type Counters struct {
	Chats  int `json:"chats"`
	Likes  int `json:"likes"`
	Gifts  int `json:"gifts"`
	Joins  int `json:"joins"`
	Shares int `json:"shares"`
	Coins  int `json:"coins"` // Declared gift value, summed
}

// Count adds one normalized event to the totals.
func (c *Counters) Count(e event.Event) {
	switch ev := e.(type) {
	case event.Chat:
		c.Chats++
	case event.Like:
		c.Likes += ev.Count
	case event.Gift:
		c.Gifts += ev.RepeatCount
		c.Coins += ev.Total()
	case event.Join:
		c.Joins++
	case event.Share:
		c.Shares++
	}
}

// Total returns the number of counted interactions.
func (c Counters) Total() int {
	return c.Chats + c.Likes + c.Gifts + c.Joins + c.Shares
}
