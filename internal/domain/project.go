package domain

// Project identifies which scoring dashboard a screenshot belongs to.
type Project string

const (
	ProjectWallchain  Project = "Wallchain"
	ProjectKaito      Project = "Kaito"
	ProjectCookie     Project = "Cookie"
	ProjectXeet       Project = "Xeet"
	ProjectMindoshare Project = "Mindoshare"
	ProjectUnknown    Project = "Unknown"
)
