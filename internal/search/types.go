package search

// Action is one executable choice attached to a result entry.
type Action struct {
	Title string
	// Icon is an opaque reference resolved by the presentation layer.
	Icon    string
	Command string
}

// ResultEntry is one row shown to the user.
type ResultEntry struct {
	Title       string
	Description string
	Actions     []Action
}

// Action titles, in the order actions are attached.
const (
	TitleRunAll     = "Run (All)"
	TitleRunWindows = "Run (Windows)"
	TitleRunMac     = "Run (Mac)"
)

// DefaultItemCount is the size of the built-in listing shown for an empty query.
const DefaultItemCount = 20
