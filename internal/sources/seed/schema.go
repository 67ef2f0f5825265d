package seed

// File is the layout of a seed file.
//
//	games: [224517, 161936]        # remote catalog ids to register
//	local_games:                   # entries the remote catalog does not have
//	  - name: Hanamikoji
//	    bgg_id: jp-1
//	users:
//	  - id: admin
//	    email: "{{BGR_ADMIN_EMAIL}}"
//	    is_admin: true
type File struct {
	Games      []int64     `yaml:"games"`
	LocalGames []LocalGame `yaml:"local_games"`
	Users      []User      `yaml:"users"`
}

// LocalGame is a site-local catalog entry.
type LocalGame struct {
	Name           string   `yaml:"name"`
	JapaneseName   string   `yaml:"japanese_name,omitempty"`
	BGGID          string   `yaml:"bgg_id,omitempty"`
	Description    string   `yaml:"description,omitempty"`
	YearPublished  *int     `yaml:"year_published,omitempty"`
	MinPlayers     *int     `yaml:"min_players,omitempty"`
	MaxPlayers     *int     `yaml:"max_players,omitempty"`
	PlayingTime    *int     `yaml:"playing_time,omitempty"`
	MinAge         *int     `yaml:"min_age,omitempty"`
	ImageURL       string   `yaml:"image_url,omitempty"`
	Designers      []string `yaml:"designers,omitempty"`
	Publishers     []string `yaml:"publishers,omitempty"`
	SiteCategories []string `yaml:"site_categories,omitempty"`
	SiteMechanics  []string `yaml:"site_mechanics,omitempty"`
}

// User is an account created before the first request.
type User struct {
	ID            string `yaml:"id"`
	Email         string `yaml:"email"`
	Name          string `yaml:"name,omitempty"`
	IsAdmin       bool   `yaml:"is_admin,omitempty"`
	Inactive      bool   `yaml:"inactive,omitempty"`
	EmailVerified *bool  `yaml:"email_verified,omitempty"` // defaults to true
}
