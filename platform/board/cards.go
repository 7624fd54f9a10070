package board

// CardAction is what a chance/community card would do when drawn.
type CardAction string

const (
	CardMove    CardAction = "move"
	CardMoney   CardAction = "money"
	CardJail    CardAction = "jail"
	CardRepairs CardAction = "repairs"
)

// Card is a chance or community chest card. The deck is declared for the
// board catalog; drawing and resolution are handled outside the engine.
type Card struct {
	ID     int        `json:"id"`
	Text   string     `json:"text"`
	Action CardAction `json:"action"`
	Value  int        `json:"value"`
}
