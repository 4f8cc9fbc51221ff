package bot

// Channels holds the destination channel IDs. In debug mode everything
// goes to the debug channels instead.
type Channels struct {
	Primary         string
	Assignment      string
	DebugPrimary    string
	DebugAssignment string
}

func (c Channels) PrimaryFor(debug bool) string {
	if debug {
		return c.DebugPrimary
	}
	return c.Primary
}

func (c Channels) AssignmentFor(debug bool) string {
	if debug {
		return c.DebugAssignment
	}
	return c.Assignment
}
