package board

// FieldType discriminates the 40 ring positions.
type FieldType string

const (
	Start     FieldType = "start"
	Property  FieldType = "property"
	Chance    FieldType = "chance"
	Community FieldType = "community"
	Tax       FieldType = "tax"
	Jail      FieldType = "jail"
	GoToJail  FieldType = "go-to-jail"
	Parking   FieldType = "parking"
)

// Color group identifiers. Railways and utilities are properties too but
// sit outside the improvement-cost table.
const (
	GroupBrown     = "#8B4513"
	GroupLightBlue = "#87CEEB"
	GroupPink      = "#FF69B4"
	GroupOrange    = "#FFA500"
	GroupRed       = "#FF0000"
	GroupYellow    = "#FFFF00"
	GroupGreen     = "#008000"
	GroupNavy      = "#000080"
	GroupRailway   = "#000000"
	GroupUtility   = "#FFFFFF"
)

const (
	// Size is the number of fields on the ring.
	Size = 40
	// JailFieldID is the ring position of the jail.
	JailFieldID = 10
)

// Field is one ring position. OwnerID and Level are meaningful only for
// Type == Property; OwnerID 0 means unowned (player ids are 1-based).
// For Type == Tax, Price holds the tax amount.
type Field struct {
	ID      int       `json:"id"`
	Name    string    `json:"name"`
	Type    FieldType `json:"type"`
	Price   int       `json:"price,omitempty"`
	Color   string    `json:"color,omitempty"`
	Rent    int       `json:"rent,omitempty"`
	OwnerID int       `json:"ownerId,omitempty"`
	Level   int       `json:"level,omitempty"`
}

// Generate returns a fresh board with no owners and no improvements.
func Generate() []Field {
	return []Field{
		{ID: 0, Name: "Start", Type: Start},

		{ID: 1, Name: "Ul. Konopacka", Type: Property, Price: 60, Color: GroupBrown, Rent: 2},
		{ID: 2, Name: "Kasa Społeczna", Type: Community},
		{ID: 3, Name: "Ul. Stalowa", Type: Property, Price: 60, Color: GroupBrown, Rent: 4},
		{ID: 4, Name: "Podatek Dochodowy", Type: Tax, Price: 200},
		{ID: 5, Name: "Dworzec Wschodni", Type: Property, Price: 200, Color: GroupRailway, Rent: 25},

		{ID: 6, Name: "Ul. Radzymińska", Type: Property, Price: 100, Color: GroupLightBlue, Rent: 6},
		{ID: 7, Name: "Szansa", Type: Chance},
		{ID: 8, Name: "Ul. Targowa", Type: Property, Price: 100, Color: GroupLightBlue, Rent: 6},
		{ID: 9, Name: "Ul. Wileńska", Type: Property, Price: 120, Color: GroupLightBlue, Rent: 8},

		{ID: 10, Name: "Więzienie", Type: Jail},

		{ID: 11, Name: "Ul. Mickiewicza", Type: Property, Price: 140, Color: GroupPink, Rent: 10},
		{ID: 12, Name: "Elektrownia", Type: Property, Price: 150, Color: GroupUtility},
		{ID: 13, Name: "Ul. Słowackiego", Type: Property, Price: 140, Color: GroupPink, Rent: 10},
		{ID: 14, Name: "Ul. Krakowska", Type: Property, Price: 160, Color: GroupPink, Rent: 12},
		{ID: 15, Name: "Dworzec Zachodni", Type: Property, Price: 200, Color: GroupRailway, Rent: 25},

		{ID: 16, Name: "Ul. Płocka", Type: Property, Price: 180, Color: GroupOrange, Rent: 14},
		{ID: 17, Name: "Kasa Społeczna", Type: Community},
		{ID: 18, Name: "Ul. Wolska", Type: Property, Price: 180, Color: GroupOrange, Rent: 14},
		{ID: 19, Name: "Ul. Górczewska", Type: Property, Price: 200, Color: GroupOrange, Rent: 16},

		{ID: 20, Name: "Bezpłatny Parking", Type: Parking},

		{ID: 21, Name: "Ul. Świętokrzyska", Type: Property, Price: 220, Color: GroupRed, Rent: 18},
		{ID: 22, Name: "Szansa", Type: Chance},
		{ID: 23, Name: "Ul. Nowy Świat", Type: Property, Price: 220, Color: GroupRed, Rent: 18},
		{ID: 24, Name: "Ul. Krakowskie Przedmieście", Type: Property, Price: 240, Color: GroupRed, Rent: 20},
		{ID: 25, Name: "Dworzec Północny", Type: Property, Price: 200, Color: GroupRailway, Rent: 25},

		{ID: 26, Name: "Ul. Marszałkowska", Type: Property, Price: 260, Color: GroupYellow, Rent: 22},
		{ID: 27, Name: "Ul. Aleje Jerozolimskie", Type: Property, Price: 260, Color: GroupYellow, Rent: 22},
		{ID: 28, Name: "Wodociągi", Type: Property, Price: 150, Color: GroupUtility},
		{ID: 29, Name: "Plac Trzech Krzyży", Type: Property, Price: 280, Color: GroupYellow, Rent: 24},

		{ID: 30, Name: "Idź do więzienia", Type: GoToJail},

		{ID: 31, Name: "Plac Wilsona", Type: Property, Price: 300, Color: GroupGreen, Rent: 26},
		{ID: 32, Name: "Ul. Hoża", Type: Property, Price: 300, Color: GroupGreen, Rent: 26},
		{ID: 33, Name: "Kasa Społeczna", Type: Community},
		{ID: 34, Name: "Aleje Ujazdowskie", Type: Property, Price: 320, Color: GroupGreen, Rent: 28},
		{ID: 35, Name: "Dworzec Południowy", Type: Property, Price: 200, Color: GroupRailway, Rent: 25},

		{ID: 36, Name: "Szansa", Type: Chance},

		{ID: 37, Name: "Ul. Belwederska", Type: Property, Price: 350, Color: GroupNavy, Rent: 35},
		{ID: 38, Name: "Domiar Podatkowy", Type: Tax, Price: 100},
		{ID: 39, Name: "Plac Zamkowy", Type: Property, Price: 400, Color: GroupNavy, Rent: 50},
	}
}

// Group returns the property fields sharing a color.
func Group(fields []Field, color string) []Field {
	var group []Field
	for _, f := range fields {
		if f.Type == Property && f.Color == color {
			group = append(group, f)
		}
	}
	return group
}
