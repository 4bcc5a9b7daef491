package api

// HotSpot is a clickable screen region with its cursor shape.
type HotSpot struct {
	Name   string `json:"name"`
	Cursor string `json:"cursor"`
	Left   int    `json:"left"`
	Top    int    `json:"top"`
	Right  int    `json:"right"`
	Bottom int    `json:"bottom"`
}

// DestinationView identifies the view a navigation hot-spot leads to.
type DestinationView struct {
	Node      string `json:"node"`
	Location  string `json:"location"`
	Viewpoint string `json:"viewpoint"`
	View      string `json:"view"`
}

// Navigation is one hot-spot to destination-view mapping of a view.
type Navigation struct {
	HotSpot         HotSpot         `json:"hot_spot"`
	DestinationView DestinationView `json:"destination_view"`
	Enabled         string          `json:"enabled"`
	DBID            int             `json:"db_id"`
}

// Character is the identity block of a character placed in a view.
type Character struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DBID        int    `json:"db_id"`
}

// Conversation is a character dialogue tree with its own variables and
// triggers. The list fields mirror the form's list boxes verbatim.
type Conversation struct {
	Name           string     `json:"name"`
	Dialogs        []string   `json:"dialogs"`
	Questions      []string   `json:"questions"`
	Replies        []string   `json:"replies"`
	Atoms          []string   `json:"atoms"`
	SupportHistory bool       `json:"support_history"`
	Variables      []Variable `json:"variables"`
	Triggers       []Trigger  `json:"triggers"`
	Enabled        string     `json:"enabled"`
	DBID           int        `json:"db_id"`
}

// IdeaResponse is a character's scripted reaction to a presented idea.
type IdeaResponse struct {
	Name      string     `json:"name"`
	IdeaIcon  string     `json:"idea_icon"`
	Questions []string   `json:"questions"`
	Replies   []string   `json:"replies"`
	Atoms     []string   `json:"atoms"`
	Variables []Variable `json:"variables"`
	Triggers  []Trigger  `json:"triggers"`
}

// CharacterProperties bundles everything attached to a character in a view.
type CharacterProperties struct {
	Character        Character      `json:"character"`
	HotSpot          HotSpot        `json:"hot_spot"`
	Conversations    []Conversation `json:"conversations"`
	IdeaResponses    []IdeaResponse `json:"idea_responses"`
	Acknowledgements []string       `json:"acknowledgements"`
	Variables        []Variable     `json:"variables"`
	Triggers         []Trigger      `json:"triggers"`
}

// ExplorationProperties describes an explorable region of a view.
type ExplorationProperties struct {
	HotSpot   HotSpot    `json:"hot_spot"`
	Variables []Variable `json:"variables"`
	Triggers  []Trigger  `json:"triggers"`
	Enabled   string     `json:"enabled"`
	DBID      int        `json:"db_id"`
}

// ViewNavigation aggregates all navigation data attached to one view node.
type ViewNavigation struct {
	Navigations  []Navigation            `json:"navigations"`
	Explorations []ExplorationProperties `json:"explorations"`
	Characters   []CharacterProperties   `json:"characters"`
}
