package history

import "time"

// Run is one recorded tailoring run.
type Run struct {
	ID         string
	CreatedAt  time.Time
	JobTitle   string
	Language   string
	Backend    string
	Model      string
	OutputFile string
	Status     string
}
