package bgg

// XML shapes of the xmlapi2 thing, search and hot endpoints.
// Only the attributes the parser reads are declared.

type itemsNode[T any] struct {
	Items []T `xml:"item"`
}

type valueNode struct {
	Value string `xml:"value,attr"`
}

type nameNode struct {
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
}

type linkNode struct {
	Type  string `xml:"type,attr"`
	ID    string `xml:"id,attr"`
	Value string `xml:"value,attr"`
}

type thingNode struct {
	Type          string        `xml:"type,attr"`
	ID            string        `xml:"id,attr"`
	Thumbnail     string        `xml:"thumbnail"`
	Image         string        `xml:"image"`
	Names         []nameNode    `xml:"name"`
	Description   string        `xml:"description"`
	YearPublished valueNode     `xml:"yearpublished"`
	MinPlayers    valueNode     `xml:"minplayers"`
	MaxPlayers    valueNode     `xml:"maxplayers"`
	PlayingTime   valueNode     `xml:"playingtime"`
	MinPlayTime   valueNode     `xml:"minplaytime"`
	MaxPlayTime   valueNode     `xml:"maxplaytime"`
	MinAge        valueNode     `xml:"minage"`
	Polls         []pollNode    `xml:"poll"`
	Links         []linkNode    `xml:"link"`
	Versions      []versionNode `xml:"versions>item"`
	Statistics    struct {
		Ratings struct {
			UsersRated valueNode `xml:"usersrated"`
			Average    valueNode `xml:"average"`
		} `xml:"ratings"`
	} `xml:"statistics"`
}

type versionNode struct {
	Type          string     `xml:"type,attr"`
	ID            string     `xml:"id,attr"`
	Image         string     `xml:"image"`
	Names         []nameNode `xml:"name"`
	Links         []linkNode `xml:"link"`
	YearPublished valueNode  `xml:"yearpublished"`
}

type pollNode struct {
	Name    string        `xml:"name,attr"`
	Results []pollResults `xml:"results"`
}

type pollResults struct {
	NumPlayers string       `xml:"numplayers,attr"`
	Votes      []pollResult `xml:"result"`
}

type pollResult struct {
	Value    string `xml:"value,attr"`
	NumVotes string `xml:"numvotes,attr"`
}

type searchNode struct {
	ID            string     `xml:"id,attr"`
	Names         []nameNode `xml:"name"`
	YearPublished valueNode  `xml:"yearpublished"`
}

type hotNode struct {
	ID            string    `xml:"id,attr"`
	Rank          string    `xml:"rank,attr"`
	Thumbnail     valueNode `xml:"thumbnail"`
	Name          valueNode `xml:"name"`
	YearPublished valueNode `xml:"yearpublished"`
}
