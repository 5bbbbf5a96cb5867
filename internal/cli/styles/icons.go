package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconVersion   = "\uf02b" // tag
	IconGitBranch = "\ue725" // git branch
	IconCalendar  = "\uf073" // calendar
	IconGithub    = "\uf09b" // github
	IconHeart     = "\uf004" // heart
	IconGo        = "\ue627" // go gopher

	// Theme state
	IconMoon    = "\uf186" // moon
	IconSun     = "\uf185" // sun
	IconDesktop = "\uf108" // desktop (follows system)
	IconPin     = "\uf08d" // thumb-tack (explicit choice)

	// Config
	IconConfig   = "\ue615" // config
	IconDatabase = "\uf1c0" // database
	IconCheck    = "\uf00c" // check
	IconX        = "\uf00d" // x
	IconInfo     = "\uf05a" // info
)
